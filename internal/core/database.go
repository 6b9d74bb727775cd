// AngelaMos | 2026
// database.go

package core

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/epic-events/internal/config"
)

// DBTX is satisfied by both *sqlx.DB and *sqlx.Tx so repositories can run
// inside or outside a transaction.
type DBTX interface {
	sqlx.ExtContext
	sqlx.ExecerContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

type Transactor interface {
	InTx(ctx context.Context, fn func(tx DBTX) error) error
}

type Database struct {
	DB *sqlx.DB
}

func NewDatabase(ctx context.Context, cfg config.DatabaseConfig) (*Database, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	configurePool(db, cfg)

	d := &Database{DB: db}
	if err := d.pingWithin(ctx, cfg.ConnectTimeout); err != nil {
		_ = db.Close() //nolint:errcheck // connection already failed
		return nil, err
	}
	return d, nil
}

func configurePool(db *sqlx.DB, cfg config.DatabaseConfig) {
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(withJitter(cfg.ConnMaxLifetime))
}

// withJitter spreads connection expiry by up to a seventh of the lifetime.
func withJitter(lifetime time.Duration) time.Duration {
	if lifetime <= 0 {
		return lifetime
	}
	//nolint:gosec // G404: pool jitter is not security sensitive
	return lifetime + time.Duration(rand.Int64N(int64(lifetime/7)+1))
}

func (d *Database) pingWithin(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := d.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

func (d *Database) Ping(ctx context.Context) error {
	return d.pingWithin(ctx, 0)
}

func (d *Database) Close() error {
	if d.DB == nil {
		return nil
	}
	return d.DB.Close()
}

// InTx commits when fn returns nil and rolls back otherwise. A panic in fn
// rolls back and propagates.
func (d *Database) InTx(ctx context.Context, fn func(tx DBTX) error) (err error) {
	tx, err := d.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	finished := false
	defer func() {
		if finished {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && err != nil {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	finished = true
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
