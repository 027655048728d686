package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xxz807/finbank/internal/ledger/domain"
)

const (
	accountsCollection     = "accounts"
	transactionsCollection = "transactions"
)

// MongoStore implements domain.Store on a MongoDB replica set.
// Multi-document transactions need a replica set or sharded cluster.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	return &MongoStore{client: client, db: client.Database(dbName)}
}

func (s *MongoStore) Accounts() domain.AccountRepository {
	return &MongoAccountRepo{coll: s.db.Collection(accountsCollection)}
}

func (s *MongoStore) Transactions() domain.TransactionRepository {
	return &MongoTransactionRepo{coll: s.db.Collection(transactionsCollection)}
}

// WithTransaction runs fn inside a session transaction. Operations issued with
// the session context join the transaction, so the same store is handed to fn.
func (s *MongoStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx domain.Store) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, s)
	})
	return err
}

// EnsureIndexes creates the statement index. Account uniqueness comes from _id.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(transactionsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "accountId", Value: 1}, {Key: "date", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create transactions index: %w", err)
	}
	return nil
}

// ---------------------------------------------------------

type accountDoc struct {
	IBAN      string               `bson:"_id"`
	Balance   primitive.Decimal128 `bson:"balance"`
	Version   int64                `bson:"version"`
	CreatedAt time.Time            `bson:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

type transactionDoc struct {
	ID        string               `bson:"_id"`
	AccountID string               `bson:"accountId"`
	Date      time.Time            `bson:"date"`
	Amount    primitive.Decimal128 `bson:"amount"`
	Balance   primitive.Decimal128 `bson:"balance"`
	Type      string               `bson:"type"`
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.String())
}

func fromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	return decimal.NewFromString(d.String())
}

func (d accountDoc) toDomain() (*domain.Account, error) {
	balance, err := fromDecimal128(d.Balance)
	if err != nil {
		return nil, fmt.Errorf("decode balance of %s: %w", d.IBAN, err)
	}
	return &domain.Account{
		IBAN:      d.IBAN,
		Balance:   balance,
		Version:   d.Version,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

func (d transactionDoc) toDomain() (domain.Transaction, error) {
	amount, err := fromDecimal128(d.Amount)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("decode amount of %s: %w", d.ID, err)
	}
	balance, err := fromDecimal128(d.Balance)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("decode balance of %s: %w", d.ID, err)
	}
	return domain.Transaction{
		ID:        d.ID,
		AccountID: d.AccountID,
		Date:      d.Date,
		Amount:    amount,
		Balance:   balance,
		Type:      domain.TxType(d.Type),
	}, nil
}

// ---------------------------------------------------------

type MongoAccountRepo struct {
	coll *mongo.Collection
}

func (r *MongoAccountRepo) FindByIBAN(ctx context.Context, iban string) (*domain.Account, error) {
	var doc accountDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": iban}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find account %s: %w", iban, err)
	}
	return doc.toDomain()
}

func (r *MongoAccountRepo) Create(ctx context.Context, iban string, balance decimal.Decimal) (*domain.Account, error) {
	amt, err := toDecimal128(balance)
	if err != nil {
		return nil, fmt.Errorf("encode balance: %w", err)
	}
	now := time.Now().UTC()
	doc := accountDoc{IBAN: iban, Balance: amt, Version: 1, CreatedAt: now, UpdatedAt: now}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAccountExists
		}
		return nil, fmt.Errorf("create account %s: %w", iban, err)
	}
	return doc.toDomain()
}

func (r *MongoAccountRepo) Save(ctx context.Context, acc *domain.Account) error {
	amt, err := toDecimal128(acc.Balance)
	if err != nil {
		return fmt.Errorf("encode balance: %w", err)
	}
	now := time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": acc.IBAN, "version": acc.Version},
		bson.M{
			"$set": bson.M{"balance": amt, "updatedAt": now},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return fmt.Errorf("save account %s: %w", acc.IBAN, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrConflict
	}

	acc.Version++
	acc.UpdatedAt = now
	return nil
}

func (r *MongoAccountRepo) ListIBANs(ctx context.Context, exclude string, limit int) ([]string, error) {
	opts := options.Find().
		SetLimit(int64(limit)).
		SetProjection(bson.M{"_id": 1})
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$ne": exclude}}, opts)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer cur.Close(ctx)

	ibans := []string{}
	for cur.Next(ctx) {
		var doc struct {
			IBAN string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode account id: %w", err)
		}
		ibans = append(ibans, doc.IBAN)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return ibans, nil
}

// ---------------------------------------------------------

type MongoTransactionRepo struct {
	coll *mongo.Collection
}

func (r *MongoTransactionRepo) Append(ctx context.Context, t *domain.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}
	amount, err := toDecimal128(t.Amount)
	if err != nil {
		return fmt.Errorf("encode amount: %w", err)
	}
	balance, err := toDecimal128(t.Balance)
	if err != nil {
		return fmt.Errorf("encode balance: %w", err)
	}
	doc := transactionDoc{
		ID:        t.ID,
		AccountID: t.AccountID,
		Date:      t.Date,
		Amount:    amount,
		Balance:   balance,
		Type:      string(t.Type),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("append transaction for %s: %w", t.AccountID, err)
	}
	return nil
}

func (r *MongoTransactionRepo) ListByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"accountId": accountID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list transactions for %s: %w", accountID, err)
	}
	defer cur.Close(ctx)

	var docs []transactionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode transactions for %s: %w", accountID, err)
	}

	txs := make([]domain.Transaction, 0, len(docs))
	for _, d := range docs {
		t, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, nil
}
