package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	discounterrors "bokclean/internal/discounts/errors"
	"bokclean/pkg/config"
	"bokclean/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CodesCollectionName    = "DiscountCodes"
	VouchersCollectionName = "Vouchers"
	UsagesCollectionName   = "DiscountUsages"
)

type DiscountRepository interface {
	FindCodeByCode(ctx context.Context, code string) (*model.DiscountCode, error)
	FindVoucherByCode(ctx context.Context, code string) (*model.Voucher, error)
	MarkVoucherRedeemed(ctx context.Context, voucherID string) error
	InsertUsage(ctx context.Context, usage *model.DiscountUsage) error
	FindUsageByBookingReference(ctx context.Context, bookingReference string) (*model.DiscountUsage, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoDiscountRepository struct {
	cfg      *config.Config
	db       *mongo.Database
	codes    *mongo.Collection
	vouchers *mongo.Collection
	usages   *mongo.Collection
}

func NewMongoDiscountRepository(cfg *config.Config) DiscountRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoDiscountRepository{
		cfg:      cfg,
		db:       db,
		codes:    db.Collection(CodesCollectionName),
		vouchers: db.Collection(VouchersCollectionName),
		usages:   db.Collection(UsagesCollectionName),
	}
}

func (r *mongoDiscountRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoDiscountRepository) FindCodeByCode(ctx context.Context, code string) (*model.DiscountCode, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var discountCode model.DiscountCode
	err := r.codes.FindOne(ctx, bson.M{"code": code}).Decode(&discountCode)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, discounterrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find discount code: %w", err)
	}

	return &discountCode, nil
}

func (r *mongoDiscountRepository) FindVoucherByCode(ctx context.Context, code string) (*model.Voucher, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var voucher model.Voucher
	err := r.vouchers.FindOne(ctx, bson.M{"code": code}).Decode(&voucher)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, discounterrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find voucher: %w", err)
	}

	return &voucher, nil
}

func (r *mongoDiscountRepository) MarkVoucherRedeemed(ctx context.Context, voucherID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(voucherID)
	if err != nil {
		return fmt.Errorf("invalid voucher ID %q: %w", voucherID, err)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	// Redemption is one-way: filter on is_redeemed=false so a double
	// invocation cannot rewrite redeemed_at.
	result, err := r.vouchers.UpdateOne(ctx,
		bson.M{"_id": objectID, "is_redeemed": false},
		bson.M{"$set": bson.M{"is_redeemed": true, "redeemed_at": now}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark voucher redeemed: %w", err)
	}
	if result.MatchedCount == 0 {
		return discounterrors.ErrNotFound
	}

	return nil
}

func (r *mongoDiscountRepository) InsertUsage(ctx context.Context, usage *model.DiscountUsage) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	usage.RedeemedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.usages.InsertOne(ctx, usage)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return discounterrors.ErrUsageExists
		}
		return fmt.Errorf("failed to record discount usage: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		usage.ID = oid.Hex()
	}
	return nil
}

func (r *mongoDiscountRepository) FindUsageByBookingReference(ctx context.Context, bookingReference string) (*model.DiscountUsage, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var usage model.DiscountUsage
	err := r.usages.FindOne(ctx, bson.M{"booking_reference": bookingReference}).Decode(&usage)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, discounterrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find discount usage: %w", err)
	}

	return &usage, nil
}

// EnsureIndexes creates the uniqueness backstops: one usage row per
// booking reference, one stored code per code string.
func (r *mongoDiscountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.usages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "booking_reference", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create usage index: %w", err)
	}

	_, err = r.codes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create code index: %w", err)
	}

	return nil
}
