package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	crediterrors "bokclean/internal/credits/errors"
	"bokclean/pkg/config"
	mongotx "bokclean/pkg/db/mongo"
	"bokclean/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	BalancesCollectionName     = "CreditBalances"
	TransactionsCollectionName = "CreditTransactions"
)

type creditBalance struct {
	UserID    string    `bson:"user_id"`
	Balance   float64   `bson:"balance"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type CreditRepository interface {
	Balance(ctx context.Context, userID string) (float64, error)
	AdjustBalance(ctx context.Context, userID string, delta float64) (float64, error)
	InsertTransaction(ctx context.Context, tx *model.CreditTransaction) error
	FindPendingEFT(ctx context.Context, userID, reference string) (*model.CreditTransaction, error)
	CompleteTransaction(ctx context.Context, id string, balanceAfter float64) error
	ListTransactions(ctx context.Context, userID string, limit int, offset int64) ([]*model.CreditTransaction, error)
	CountTransactions(ctx context.Context, userID string) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
	EnsureIndexes(ctx context.Context) error
}

type mongoCreditRepository struct {
	cfg          *config.Config
	db           *mongo.Database
	balances     *mongo.Collection
	transactions *mongo.Collection
	txManager    mongotx.TransactionManager
}

func NewMongoCreditRepository(cfg *config.Config) CreditRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCreditRepository{
		cfg:          cfg,
		db:           db,
		balances:     db.Collection(BalancesCollectionName),
		transactions: db.Collection(TransactionsCollectionName),
		txManager:    mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// ExecuteTransaction runs fn inside one multi-document transaction so
// the balance mutation and its ledger row commit or abort together.
func (r *mongoCreditRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func (r *mongoCreditRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

// Balance returns the user's current balance. A missing balance row and
// a zero balance are the same state.
func (r *mongoCreditRepository) Balance(ctx context.Context, userID string) (float64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var doc creditBalance
	err := r.balances.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read credit balance: %w", err)
	}

	return doc.Balance, nil
}

// AdjustBalance is the single atomic balance-mutation primitive. The
// $inc upsert is one server-side operation, so concurrent deltas for
// the same user serialize inside the store; application code never
// read-modify-writes the balance.
func (r *mongoCreditRepository) AdjustBalance(ctx context.Context, userID string, delta float64) (float64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	after := options.After
	opts := &options.FindOneAndUpdateOptions{
		ReturnDocument: &after,
	}
	opts.SetUpsert(true)

	update := bson.M{
		"$inc": bson.M{"balance": delta},
		"$set": bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)},
	}

	var doc creditBalance
	err := r.balances.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, update, opts).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("failed to adjust credit balance: %w", err)
	}

	return doc.Balance, nil
}

func (r *mongoCreditRepository) InsertTransaction(ctx context.Context, tx *model.CreditTransaction) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	tx.CreatedAt = now
	tx.UpdatedAt = now

	result, err := r.transactions.InsertOne(ctx, tx)
	if err != nil {
		return fmt.Errorf("failed to insert credit transaction: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		tx.ID = oid.Hex()
	}
	return nil
}

// FindPendingEFT locates the most recent pending EFT purchase for the
// user and payment reference.
func (r *mongoCreditRepository) FindPendingEFT(ctx context.Context, userID, reference string) (*model.CreditTransaction, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"user_id":           userID,
		"payment_reference": reference,
		"payment_method":    model.PayMethodEFT,
		"status":            model.TransactionPending,
		"transaction_type":  model.CreditPurchase,
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var tx model.CreditTransaction
	err := r.transactions.FindOne(ctx, filter, opts).Decode(&tx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, crediterrors.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to find pending EFT transaction: %w", err)
	}

	return &tx, nil
}

// CompleteTransaction flips a pending row to completed. The filter
// includes the pending status so the transition is one-way: a second
// approval matches nothing and reports ErrAlreadyCompleted.
func (r *mongoCreditRepository) CompleteTransaction(ctx context.Context, id string, balanceAfter float64) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid transaction ID %q: %w", id, err)
	}

	result, err := r.transactions.UpdateOne(ctx,
		bson.M{"_id": objectID, "status": model.TransactionPending},
		bson.M{"$set": bson.M{
			"status":        model.TransactionCompleted,
			"balance_after": balanceAfter,
			"updated_at":    time.Now().UTC().Truncate(time.Millisecond),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to complete credit transaction: %w", err)
	}
	if result.MatchedCount == 0 {
		return crediterrors.ErrAlreadyCompleted
	}

	return nil
}

func (r *mongoCreditRepository) ListTransactions(ctx context.Context, userID string, limit int, offset int64) ([]*model.CreditTransaction, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.transactions.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list credit transactions: %w", err)
	}
	defer cursor.Close(ctx)

	transactions := []*model.CreditTransaction{}
	if err := cursor.All(ctx, &transactions); err != nil {
		return nil, fmt.Errorf("failed to decode credit transactions: %w", err)
	}

	return transactions, nil
}

func (r *mongoCreditRepository) CountTransactions(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.transactions.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count credit transactions: %w", err)
	}
	return count, nil
}

func (r *mongoCreditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.balances.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create balance index: %w", err)
	}

	_, err = r.transactions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "created_at", Value: -1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create transaction index: %w", err)
	}

	return nil
}
