package order_repo

import (
	"context"
	"fmt"

	"PaymentIntake/internal/domain/order"
	"PaymentIntake/pkg/postgres"

	"github.com/Masterminds/squirrel"
)

const ordersTable = "orders"

// Transaction-scoped advisory lock on a provider key. Two events of the same
// order always share at least the payment intent key, which serializes them.
const lockKeySQL = "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))"

var orderColumns = []string{
	"id",
	"user_id",
	"client_reference_id",
	"stripe_checkout_session_id",
	"stripe_payment_intent_id",
	"amount",
	"currency",
	"status",
	"raw",
	"created_at",
	"updated_at",
}

// PgOrderRepo is the main repository
type PgOrderRepo struct {
	pg *postgres.Postgres
	repo
}

func NewPgOrderRepo(pg *postgres.Postgres) order.OrderRepo {
	return &PgOrderRepo{
		pg:   pg,
		repo: repo{db: pg.Pool, builder: pg.Builder},
	}
}

func (r *PgOrderRepo) InTransaction(ctx context.Context, fn func(repo order.TxOrderRepo) error) error {
	return r.pg.InTransaction(ctx, func(tx postgres.Executor) error {
		txRepo := &repo{db: tx, builder: r.pg.Builder}
		return fn(txRepo)
	})
}

type repo struct {
	db      postgres.Executor
	builder squirrel.StatementBuilderType
}

func (r *repo) LockKeys(ctx context.Context, keys []string) error {
	for _, key := range keys {
		if _, err := r.db.Exec(ctx, lockKeySQL, key); err != nil {
			return fmt.Errorf("advisory lock %q: %w", key, err)
		}
	}
	return nil
}

func (r *repo) FindByKeys(ctx context.Context, sessionID, paymentIntentID *string) ([]order.Order, error) {
	match := squirrel.Or{}
	if sessionID != nil {
		match = append(match, squirrel.Eq{"stripe_checkout_session_id": *sessionID})
	}
	if paymentIntentID != nil {
		match = append(match, squirrel.Eq{"stripe_payment_intent_id": *paymentIntentID})
	}
	if len(match) == 0 {
		return nil, nil
	}

	query, args, err := r.builder.Select(orderColumns...).
		From(ordersTable).
		Where(match).
		OrderBy("created_at ASC", "id ASC").
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	return parseOrderRows(rows)
}

func (r *repo) Insert(ctx context.Context, o order.Order) error {
	query, args, err := r.builder.Insert(ordersTable).
		Columns(orderColumns...).
		Values(
			o.ID,
			o.UserID,
			o.ClientReferenceID,
			o.SessionID,
			o.PaymentIntentID,
			o.Amount,
			o.Currency,
			o.Status,
			rawJSON(o.Raw),
			o.CreatedAt,
			o.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	if _, err = r.db.Exec(ctx, query, args...); err != nil {
		if postgres.IsPgErrorUniqueViolation(err) {
			return fmt.Errorf("insert order %s: provider key already stored: %w", o.ID, err)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *repo) Update(ctx context.Context, o order.Order) error {
	query, args, err := r.builder.Update(ordersTable).
		Set("user_id", o.UserID).
		Set("client_reference_id", o.ClientReferenceID).
		Set("stripe_checkout_session_id", o.SessionID).
		Set("stripe_payment_intent_id", o.PaymentIntentID).
		Set("amount", o.Amount).
		Set("currency", o.Currency).
		Set("status", o.Status).
		Set("raw", rawJSON(o.Raw)).
		Set("created_at", o.CreatedAt).
		Set("updated_at", o.UpdatedAt).
		Where(squirrel.Eq{"id": o.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update order %s: no rows affected", o.ID)
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id string) error {
	query, args, err := r.builder.Delete(ordersTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	if _, err = r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

// rawJSON keeps an empty payload as SQL NULL instead of an invalid jsonb value.
func rawJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
