package checkout

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lojinha-app/backend-lojinha/internal/db"
)

// TxStore is the transactional slice of the store: the writes that must land
// together or not at all.
type TxStore interface {
	CreateOrder(ctx context.Context, arg db.CreateOrderParams) (db.Order, error)
	CreateOrderLine(ctx context.Context, arg db.CreateOrderLineParams) error
	RedeemCoupon(ctx context.Context, id pgtype.UUID) (int64, error)
}

// Store is the data surface placement depends on.
type Store interface {
	ListCartLines(ctx context.Context, userID pgtype.UUID) ([]db.CartLineDetail, error)
	GetUserByID(ctx context.Context, id pgtype.UUID) (db.User, error)
	ClearCart(ctx context.Context, userID pgtype.UUID) (int64, error)

	// InTx runs fn inside one transaction. A commit failure is returned as a
	// StageError at StageCommit so placement can classify it.
	InTx(ctx context.Context, fn func(TxStore) error) error
}

// PGStore adapts the pgx query layer and pool to the placement store.
type PGStore struct {
	Q    *db.Queries
	Pool *pgxpool.Pool
}

func (s PGStore) ListCartLines(ctx context.Context, userID pgtype.UUID) ([]db.CartLineDetail, error) {
	return s.Q.ListCartLines(ctx, userID)
}

func (s PGStore) GetUserByID(ctx context.Context, id pgtype.UUID) (db.User, error) {
	return s.Q.GetUserByID(ctx, id)
}

func (s PGStore) ClearCart(ctx context.Context, userID pgtype.UUID) (int64, error) {
	return s.Q.ClearCart(ctx, userID)
}

func (s PGStore) InTx(ctx context.Context, fn func(TxStore) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(s.Q.WithTx(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return &StageError{Stage: StageCommit, Err: err}
	}
	return nil
}
