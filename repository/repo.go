package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
	"videoflix/entities"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey reports a write rejected by a unique index.
	ErrDuplicateKey = errors.New("duplicate key")
)

const pqUniqueViolation = "23505"

type Repository interface {
	Transaction(ctx context.Context, callback func(ctx context.Context) error, opts ...*sql.TxOptions) error
	GetDB() *gorm.DB
	VideoRepository
	LadderRepository
	JobRepository
	ProgressRepository
	TokenRepository
}

type repo struct {
	db *gorm.DB
}

type txKey struct{}

func NewRepo(db *gorm.DB) Repository {
	return &repo{
		db: db,
	}
}

// Migrate creates or updates every table owned by this service.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(entities.All()...)
}

func (r *repo) GetDB() *gorm.DB {
	return r.db
}

// conn returns the transaction bound to ctx, if any.
func (r *repo) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *repo) Transaction(ctx context.Context, callback func(ctx context.Context) error, opts ...*sql.TxOptions) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return callback(context.WithValue(ctx, txKey{}, tx))
	}, opts...)
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Join(ErrDuplicateKey, err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return errors.Join(ErrDuplicateKey, err)
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && (sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
		return errors.Join(ErrDuplicateKey, err)
	}
	return err
}
