package pgdb

import (
	"context"

	"github.com/DRSN-tech/basket-backend/internal/domain"
	"github.com/DRSN-tech/basket-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/basket-backend/pkg/e"
	"github.com/DRSN-tech/basket-backend/pkg/tr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const userColumns = `id, email, name, password_hash, role, created_at`

// UserRepo реализует репозиторий пользователей поверх PostgreSQL.
type UserRepo struct {
	pool *pgxpool.Pool
	conv converter.UserConverter
}

func NewUserRepo(pool *pgxpool.Pool, conv converter.UserConverter) *UserRepo {
	return &UserRepo{pool: pool, conv: conv}
}

func (u *UserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	q := tr.QuerierFromCtx(ctx, u.pool)
	model := u.conv.ToModel(user)

	query := `
		INSERT INTO users (email, name, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	var out converter.UserModel
	if err := q.QueryRow(ctx, query, model.Email, model.Name, model.PasswordHash, model.Role).
		Scan(&out.ID, &out.Email, &out.Name, &out.PasswordHash, &out.Role, &out.CreatedAt); err != nil {
		if postgresDuplicate(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrUserExists)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return u.conv.ToEntity(&out), nil
}

func (u *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return u.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (u *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return u.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (u *UserRepo) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var model converter.UserModel
	if err := u.pool.QueryRow(ctx, query, arg).
		Scan(&model.ID, &model.Email, &model.Name, &model.PasswordHash, &model.Role, &model.CreatedAt); err != nil {
		if noRows(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrUserNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return u.conv.ToEntity(&model), nil
}
