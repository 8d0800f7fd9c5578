package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/groszeck/taxena-netlify/internal/store"
	"github.com/groszeck/taxena-netlify/internal/validate"
)

// DB is the part of *pgxpool.Pool the store uses. Each call checks a
// connection out of the pool and returns it when the call completes.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type Store struct {
	db DB
}

var _ store.Store = (*Store)(nil)

func NewStore(db DB) *Store {
	return &Store{db: db}
}

type PoolOptions struct {
	MaxConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

func NewPool(ctx context.Context, dsn string, opts PoolOptions) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.MaxConnLifetime > 0 {
		cfg.MaxConnLifetime = opts.MaxConnLifetime
	}
	if opts.MaxConnIdleTime > 0 {
		cfg.MaxConnIdleTime = opts.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// withTx runs fn in a transaction. It commits when fn returns nil and rolls
// back on any error or panic; either way the connection goes back to the pool.
func (s *Store) withTx(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func collect[T any](rows pgx.Rows, scan func(scannable) (T, error)) ([]T, error) {
	defer rows.Close()
	items := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// wrap classifies driver errors into store sentinels and adds context.
func wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, store.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w", op, store.ErrDuplicate)
		case "23514":
			if strings.HasSuffix(pgErr.ConstraintName, "_range_check") {
				return fmt.Errorf("%s: %w", op, store.ErrEndBeforeStart)
			}
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// expectOne turns an Exec that matched nothing into ErrNotFound.
func expectOne(tag pgconn.CommandTag, err error, op string) error {
	if err != nil {
		return wrap(err, op)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, store.ErrNotFound)
	}
	return nil
}

// assignments accumulates "column = $n" pairs for a partial update. Column
// names always come from code; values are always bound parameters.
type assignments struct {
	sets []string
	args []any
}

func (a *assignments) add(column string, value any) {
	a.args = append(a.args, value)
	a.sets = append(a.sets, fmt.Sprintf("%s = $%d", column, len(a.args)))
}

// addCast binds value with an explicit type cast, for columns such as jsonb
// whose input arrives as text.
func (a *assignments) addCast(column, cast string, value any) {
	a.args = append(a.args, value)
	a.sets = append(a.sets, fmt.Sprintf("%s = $%d::%s", column, len(a.args), cast))
}

func (a *assignments) raw(expr string) {
	a.sets = append(a.sets, expr)
}

func (a *assignments) empty() bool {
	return len(a.sets) == 0
}

func (a *assignments) joined() string {
	return strings.Join(a.sets, ", ")
}

func setField[T any](a *assignments, column string, value *T) {
	if value != nil {
		a.add(column, *value)
	}
}

func setDate(a *assignments, column string, value *string) error {
	if value == nil {
		return nil
	}
	t, err := validate.ParseDate(*value)
	if err != nil {
		return err
	}
	a.add(column, t)
	return nil
}

// update renders a tenant-scoped UPDATE ... RETURNING statement.
func (a *assignments) update(table, returning, id, companyID string) (string, []any) {
	args := append(a.args, id, companyID)
	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $%d AND company_id = $%d RETURNING %s",
		table, a.joined(), len(args)-1, len(args), returning,
	)
	return query, args
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func parseDate(raw string) (time.Time, error) {
	t, err := validate.ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date: %w", err)
	}
	return t, nil
}

func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := parseDate(*raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
