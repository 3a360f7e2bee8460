package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/DRSN-tech/basket-backend/internal/domain"
	"github.com/DRSN-tech/basket-backend/internal/repository/mongodb/converter"
	"github.com/DRSN-tech/basket-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CartRepo хранит сохранённые корзины в MongoDB.
// Корзина другого пользователя неотличима от отсутствующей.
type CartRepo struct {
	collection *mongo.Collection
	conv       converter.CartConverter
}

func NewCartRepo(db *mongo.Database, collection string, conv converter.CartConverter) *CartRepo {
	return &CartRepo{
		collection: db.Collection(collection),
		conv:       conv,
	}
}

// CreateIndexes создаёт индекс для выборки корзин пользователя по дате.
func (c *CartRepo) CreateIndexes(ctx context.Context) error {
	_, err := c.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (c *CartRepo) Create(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	model, err := c.conv.ToModel(cart)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model.ID = primitive.NewObjectID()
	model.CreatedAt = truncate(model.CreatedAt)
	model.UpdatedAt = truncate(model.UpdatedAt)

	if _, err := c.collection.InsertOne(ctx, model); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.toEntity(model)
}

func (c *CartRepo) GetByID(ctx context.Context, userID int64, cartID string) (*domain.Cart, error) {
	id, err := primitive.ObjectIDFromHex(cartID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrInvalidCartID)
	}

	var model converter.CartModel
	err = c.collection.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&model)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrCartNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.toEntity(&model)
}

// ListByUser возвращает корзины пользователя, новые первыми.
func (c *CartRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Cart, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := c.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer cursor.Close(ctx)

	models := make([]converter.CartModel, 0)
	if err := cursor.All(ctx, &models); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	carts, err := c.conv.ToArrEntity(models)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return carts, nil
}

// Replace полностью заменяет имя и позиции корзины, created_at сохраняется.
func (c *CartRepo) Replace(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	model, err := c.conv.ToModel(cart)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	model.UpdatedAt = truncate(model.UpdatedAt)

	filter := bson.M{"_id": model.ID, "user_id": model.UserID}
	update := bson.M{"$set": bson.M{
		"name":       model.Name,
		"items":      model.Items,
		"updated_at": model.UpdatedAt,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated converter.CartModel
	if err := c.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrCartNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.toEntity(&updated)
}

func (c *CartRepo) Delete(ctx context.Context, userID int64, cartID string) error {
	id, err := primitive.ObjectIDFromHex(cartID)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), e.ErrInvalidCartID)
	}

	result, err := c.collection.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.DeletedCount == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrCartNotFound)
	}

	return nil
}

func (c *CartRepo) toEntity(model *converter.CartModel) (*domain.Cart, error) {
	cart, err := c.conv.ToEntity(model)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	return cart, nil
}

// truncate приводит время к точности BSON datetime.
func truncate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
