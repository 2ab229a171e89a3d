package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/xy-planning-network/switchback"
)

var errNilArg = errors.New("nil argument")

// A DB is the data-access component handlers and models reach through the "db" field.
type DB struct {
	// *gorm.DB's methods are generally unsafe to use.
	// Specifically, some *gorm.DB methods are not thread-safe
	// and mutate the state of the *gorm.DB backing DB.
	//
	// If a *gorm.DB method does not call *gorm.DB.getInstance, be aware.
	// One solution is to use *gorm.DB.Session to force a clean pointer.
	db *gorm.DB
}

// NewDB constructs a *DB from a *gorm.DB.
func NewDB(db *gorm.DB) *DB { return &DB{db: db} }

// DB exposes the underlying *gorm.DB backing DB.
//
// NB: use in exceptional circumstances only.
func (db *DB) DB() *gorm.DB { return db.db }

// WithContext scopes the queries run through the returned *DB to ctx.
func (db *DB) WithContext(ctx context.Context) *DB { return &DB{db: db.db.WithContext(ctx)} }

// Exec executes sql, passing values to it.
//
// If the query executed does not affect any records, Exec returns switchback.ErrNotExist.
// Exec does not write any data resulting from the query into Go values.
func (db *DB) Exec(sql string, values ...any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	values, err := unwrap(values...)
	if err != nil && !errors.Is(err, errNilArg) {
		return err
	}

	res := db.db.Exec(sql, values...)
	if res.Error != nil {
		return fmt.Errorf("%w: %s", switchback.ErrUnexpected, res.Error)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: exec failed to affect any rows", switchback.ErrNotExist)
	}

	return nil
}

// Raw executes sql, passing values to it, and scans the results into dest.
func (db *DB) Raw(dest any, sql string, values ...any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	values, err := unwrap(values...)
	if err != nil && !errors.Is(err, errNilArg) {
		return err
	}

	err = db.db.Raw(sql, values...).Scan(dest).Error
	switch {
	case err == nil:
		return nil
	case errSQLSyntax.MatchString(err.Error()), errSQLUnaddressable.MatchString(err.Error()):
		return fmt.Errorf("%w: %s", switchback.ErrNotValid, err)
	default:
		return fmt.Errorf("%w: failed scanning results: %s", switchback.ErrUnexpected, err)
	}
}

// Ping verifies the connection to the database is alive.
func (db *DB) Ping(ctx context.Context) error {
	sqlDB, err := db.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %s", switchback.ErrUnexpected, err)
	}

	return sqlDB.PingContext(ctx)
}

// Close closes the connection pool.
func (db *DB) Close() error {
	sqlDB, err := db.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %s", switchback.ErrUnexpected, err)
	}

	return sqlDB.Close()
}

// Begin initializes a database transaction.
func (db *DB) Begin(opts ...*sql.TxOptions) *DB {
	return &DB{db: db.db.Begin(opts...)}
}

// Commit completes the current transaction,
// applying any state changes and making them visible to other database connections.
func (db *DB) Commit() error {
	if db.db.Error != nil {
		return db.db.Error
	}

	if err := db.db.Commit().Error; err != nil {
		return fmt.Errorf("%w: failed committing tx: %s", switchback.ErrUnexpected, err)
	}

	return nil
}

// Rollback reverts the current transaction.
// If no transaction is open, Rollback returns an error.
func (db *DB) Rollback() error {
	if err := db.db.Rollback().Error; err != nil {
		return fmt.Errorf("%w: failed rolling back tx: %s", switchback.ErrUnexpected, err)
	}

	return nil
}

// unwrap converts any custom types that are troublesome for GORM into types it can handle.
//
// If a *DB is passed as a parameter, and that *DB is in an error state, that fact is surfaced.
func unwrap(args ...any) ([]any, error) {
	var err error
	res := make([]any, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case *DB:
			gdb := v.DB()
			if gdb.Error != nil {
				err = errors.Join(err, gdb.Error)
			}
			res[i] = gdb

		case nil:
			res[i] = arg
			err = errors.Join(err, switchback.ErrNotValid, errNilArg)

		default:
			res[i] = arg
		}
	}

	return res, err
}
