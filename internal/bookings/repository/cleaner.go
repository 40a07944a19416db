package repository

import (
	"context"
	"errors"
	"fmt"

	bookingerrors "bokclean/internal/bookings/errors"
	"bokclean/pkg/config"
	"bokclean/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const CleanersCollectionName = "Cleaners"

type CleanerRepository interface {
	FindByCleanerID(ctx context.Context, cleanerID string) (*model.Cleaner, error)
}

type mongoCleanerRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoCleanerRepository(cfg *config.Config) CleanerRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCleanerRepository{
		cfg:        cfg,
		collection: db.Collection(CleanersCollectionName),
	}
}

func (r *mongoCleanerRepository) FindByCleanerID(ctx context.Context, cleanerID string) (*model.Cleaner, error) {
	if _, ok := ctx.(mongo.SessionContext); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.ReadTimeout)
		defer cancel()
	}

	var cleaner model.Cleaner
	err := r.collection.FindOne(ctx, bson.M{"cleaner_id": cleanerID, "is_active": true}).Decode(&cleaner)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingerrors.ErrCleanerNotFound
		}
		return nil, fmt.Errorf("failed to find cleaner %s: %w", cleanerID, err)
	}

	return &cleaner, nil
}
