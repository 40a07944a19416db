package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingerrors "bokclean/internal/bookings/errors"
	"bokclean/pkg/config"
	"bokclean/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const BookingsCollectionName = "Bookings"

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByReference(ctx context.Context, reference string) (*model.Booking, error)
	FindByPaymentReference(ctx context.Context, paymentReference string) (*model.Booking, error)
	FindByGroupID(ctx context.Context, groupID string) ([]*model.Booking, error)
	CountPaidByEmail(ctx context.Context, email string) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(BookingsCollectionName),
	}
}

func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

// Create inserts one booking. A duplicate payment reference maps to
// ErrDuplicatePaymentReference so the caller can resolve the original
// submission instead of double-charging.
func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	if booking.ID == "" {
		booking.ID = primitive.NewObjectID().Hex()
	}

	if _, err := r.collection.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingerrors.ErrDuplicatePaymentReference
		}
		return fmt.Errorf("failed to insert booking %s: %w", booking.Reference, err)
	}

	return nil
}

func (r *mongoBookingRepository) FindByReference(ctx context.Context, reference string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{"booking_reference": reference}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingerrors.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to find booking %s: %w", reference, err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindByPaymentReference(ctx context.Context, paymentReference string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{"payment_reference": paymentReference}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingerrors.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to find booking by payment reference: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindByGroupID(ctx context.Context, groupID string) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "recurring_sequence", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"recurring_group_id": groupID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings for group %s: %w", groupID, err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var bookings []*model.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings for group %s: %w", groupID, err)
	}

	return bookings, nil
}

// CountPaidByEmail counts bookings for this customer whose payment has
// completed. Used to detect a customer's first paid booking.
func (r *mongoBookingRepository) CountPaidByEmail(ctx context.Context, email string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{
		"contact_email":  email,
		"payment_status": model.PaymentCompleted,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count paid bookings for %s: %w", email, err)
	}

	return count, nil
}

func (r *mongoBookingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "booking_reference", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "payment_reference", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"payment_reference": bson.M{"$type": "string"}}),
		},
		{
			Keys: bson.D{{Key: "contact_email", Value: 1}, {Key: "payment_status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "recurring_group_id", Value: 1}},
		},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}

	return nil
}
