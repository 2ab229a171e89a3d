package database

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/xy-planning-network/switchback"
)

// Migration is used to hold the database key and function for creating the migration.
type Migration struct {
	Executor func(*gorm.DB) error
	Key      string
}

func (m Migration) execute(db *gorm.DB) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := m.Executor(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return err
	}

	return nil
}

// MigrateUp runs every migration not yet recorded in the migrations table, in order.
func MigrateUp(db *gorm.DB, schema string, migrations []Migration) error {
	if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)).Error; err != nil {
		return fmt.Errorf("%w: creating %s schema: %s", switchback.ErrUnexpected, schema, err)
	}

	err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			ran_at bigint,
			key text,
			CONSTRAINT migrations_key UNIQUE (key)
		)
	`).Error
	if err != nil {
		return fmt.Errorf("%w: creating migrations table: %s", switchback.ErrUnexpected, err)
	}

	var ran []string
	if err := db.Raw("SELECT key FROM migrations;").Scan(&ran).Error; err != nil {
		return fmt.Errorf("%w: fetching ran migrations: %s", switchback.ErrUnexpected, err)
	}

	for _, m := range pending(migrations, ran) {
		if err := m.execute(db); err != nil {
			return fmt.Errorf("%w: migration %s: %s", switchback.ErrUnexpected, m.Key, err)
		}

		err := db.Exec(`INSERT INTO migrations (key, ran_at) VALUES (?, ?)`, m.Key, time.Now().Unix()).Error
		if err != nil {
			return fmt.Errorf("%w: recording migration %s: %s", switchback.ErrUnexpected, m.Key, err)
		}
	}

	return nil
}

// pending filters out the migrations whose keys have been run.
func pending(all []Migration, ran []string) []Migration {
	done := make(map[string]bool, len(ran))
	for _, key := range ran {
		done[key] = true
	}

	out := make([]Migration, 0, len(all))
	for _, m := range all {
		if !done[m.Key] {
			out = append(out, m)
		}
	}

	return out
}
