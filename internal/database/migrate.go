package database

import (
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Migrate brings the schema up to date. Safe to run on every start; goose
// tracks applied versions so reruns are no-ops.
func Migrate(pool *pgxpool.Pool) error {
	goose.SetBaseFS(schemaFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.Up(db, "schema"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// Reset rolls every migration back and reapplies it. Used by tests to get
// a clean messages table.
func Reset(pool *pgxpool.Pool) error {
	goose.SetBaseFS(schemaFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.Reset(db, "schema"); err != nil {
		return fmt.Errorf("resetting migrations: %w", err)
	}
	if err := goose.Up(db, "schema"); err != nil {
		return fmt.Errorf("reapplying migrations: %w", err)
	}
	return nil
}
