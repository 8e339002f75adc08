package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lostlink/backend/internal/common"
	"github.com/lostlink/backend/internal/models"
)

// MongoStore handles item CRUD in MongoDB.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection("items")}
}

// EnsureIndexes creates the unique index on the item link. The index is the
// authority for link uniqueness; Insert surfaces collisions from it.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "unique_link", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create unique_link index: %w", err)
	}
	return nil
}

// Insert persists the item and fills in the assigned object id. A duplicate
// unique link maps to common.ErrLinkTaken.
func (s *MongoStore) Insert(ctx context.Context, item *models.Item) error {
	res, err := s.col.InsertOne(ctx, item)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return common.ErrLinkTaken
		}
		return fmt.Errorf("mongo insert: %w", err)
	}
	item.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]models.Item, error) {
	cur, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	defer cur.Close(ctx)

	var items []models.Item
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("mongo decode: %w", err)
	}
	return items, nil
}

func (s *MongoStore) GetByLink(ctx context.Context, link string) (*models.Item, error) {
	var item models.Item
	err := s.col.FindOne(ctx, bson.M{"unique_link": link}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrItemNotFound
		}
		return nil, fmt.Errorf("mongo find one: %w", err)
	}
	return &item, nil
}

func (s *MongoStore) Update(ctx context.Context, item *models.Item) error {
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": item.ID}, item)
	if err != nil {
		return fmt.Errorf("mongo replace: %w", err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, link string) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"unique_link": link})
	if err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	return nil
}
