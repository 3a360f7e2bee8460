package pgdb

import (
	"context"
	"strconv"

	"github.com/DRSN-tech/basket-backend/internal/domain"
	"github.com/DRSN-tech/basket-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/basket-backend/pkg/e"
	"github.com/DRSN-tech/basket-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const selectProducts = `
	SELECT
		p.product_id, p.name, c.name, p.description, p.prices, p.unit,
		p.popularity, p.rating, p.rating_count, p.image_key, p.created_at, p.updated_at
	FROM products p
	JOIN categories c ON p.category_id = c.id
`

// ProductRepo реализует репозиторий продуктов поверх PostgreSQL.
// Внешний идентификатор продукта хранится в product_id, первичный ключ строки наружу не выдаётся.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

func (p *ProductRepo) Create(ctx context.Context, product *domain.Product, categoryID int64) (*domain.Product, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	model, err := p.conv.ToModel(product)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO products (product_id, name, category_id, description, prices, unit)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING popularity, rating, rating_count, image_key, created_at, updated_at;
	`

	err = q.QueryRow(ctx, query,
		model.ProductID, model.Name, categoryID, model.Description, model.Prices, model.Unit,
	).Scan(
		&model.Popularity, &model.Rating, &model.RatingCount, &model.ImageKey, &model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		if postgresDuplicate(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductExists)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.toEntity(model)
}

// Update заменяет описательные поля и цены. Счётчики и изображение не трогаются.
func (p *ProductRepo) Update(ctx context.Context, product *domain.Product, categoryID int64) (*domain.Product, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	model, err := p.conv.ToModel(product)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		UPDATE products
		SET name = $2, category_id = $3, description = $4, prices = $5, unit = $6, updated_at = NOW()
		WHERE product_id = $1
		RETURNING popularity, rating, rating_count, image_key, created_at, updated_at;
	`

	err = q.QueryRow(ctx, query,
		model.ProductID, model.Name, categoryID, model.Description, model.Prices, model.Unit,
	).Scan(
		&model.Popularity, &model.Rating, &model.RatingCount, &model.ImageKey, &model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		if noRows(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.toEntity(model)
}

func (p *ProductRepo) Delete(ctx context.Context, id int64) error {
	q := tr.QuerierFromCtx(ctx, p.pool)

	tag, err := q.Exec(ctx, `DELETE FROM products WHERE product_id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return p.getOne(ctx, selectProducts+` WHERE p.product_id = $1`, id)
}

// GetByIDForUpdate блокирует строку продукта до конца текущей транзакции.
func (p *ProductRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	return p.getOne(ctx, selectProducts+` WHERE p.product_id = $1 FOR UPDATE OF p`, id)
}

// GetByIDs возвращает найденные продукты; отсутствующие ID пропускаются.
func (p *ProductRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	return p.getMany(ctx, selectProducts+` WHERE p.product_id = ANY($1) ORDER BY p.product_id`, ids)
}

func (p *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	return p.getMany(ctx, selectProducts+` ORDER BY p.product_id`)
}

func (p *ProductRepo) SaveRating(ctx context.Context, id int64, rating float64, ratingCount int64) error {
	q := tr.QuerierFromCtx(ctx, p.pool)

	query := `
		UPDATE products
		SET rating = $2, rating_count = $3, updated_at = NOW()
		WHERE product_id = $1
	`

	tag, err := q.Exec(ctx, query, id, rating, ratingCount)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

// IncrementPopularity одним запросом меняет популярность нескольких продуктов.
// Дельты могут быть отрицательными, значение не опускается ниже нуля.
func (p *ProductRepo) IncrementPopularity(ctx context.Context, deltas map[int64]int64) error {
	if len(deltas) == 0 {
		return nil
	}

	q := tr.QuerierFromCtx(ctx, p.pool)

	ids := make([]int64, 0, len(deltas))
	values := make([]int64, 0, len(deltas))
	for id, delta := range deltas {
		ids = append(ids, id)
		values = append(values, delta)
	}

	query := `
		UPDATE products AS p
		SET popularity = GREATEST(p.popularity + d.delta, 0)
		FROM unnest($1::bigint[], $2::bigint[]) AS d(product_id, delta)
		WHERE p.product_id = d.product_id
	`

	if _, err := q.Exec(ctx, query, ids, values); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// SetImageKey записывает новый ключ изображения и возвращает предыдущий.
func (p *ProductRepo) SetImageKey(ctx context.Context, id int64, key string) (string, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	query := `
		WITH old AS (
			SELECT product_id, image_key FROM products WHERE product_id = $1 FOR UPDATE
		)
		UPDATE products p
		SET image_key = $2, updated_at = NOW()
		FROM old
		WHERE p.product_id = old.product_id
		RETURNING old.image_key;
	`

	var oldKey string
	if err := q.QueryRow(ctx, query, id, key).Scan(&oldKey); err != nil {
		if noRows(err) {
			return "", e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return oldKey, nil
}

func (p *ProductRepo) getOne(ctx context.Context, query string, id int64) (*domain.Product, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	model, err := scanProduct(q.QueryRow(ctx, query, id))
	if err != nil {
		if noRows(err) {
			return nil, e.Wrap("product "+strconv.FormatInt(id, 10), e.ErrProductNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.toEntity(model)
}

func (p *ProductRepo) getMany(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	models := make([]converter.ProductModel, 0)
	for rows.Next() {
		model, err := scanProduct(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		models = append(models, *model)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	products, err := p.conv.ToArrEntity(models)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return products, nil
}

func (p *ProductRepo) toEntity(model *converter.ProductModel) (*domain.Product, error) {
	product, err := p.conv.ToEntity(model)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	return product, nil
}

func scanProduct(row pgx.Row) (*converter.ProductModel, error) {
	var model converter.ProductModel
	err := row.Scan(
		&model.ProductID, &model.Name, &model.CategoryName, &model.Description, &model.Prices, &model.Unit,
		&model.Popularity, &model.Rating, &model.RatingCount, &model.ImageKey, &model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &model, nil
}
