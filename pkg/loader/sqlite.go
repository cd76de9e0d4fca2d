package loader

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

// DefaultTable is the table used when none is named.
const DefaultTable = "nodes"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func quoteTable(table string) (string, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return "", fmt.Errorf("invalid table name %q", table)
	}
	return `"` + table + `"`, nil
}

func openSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return db, nil
}

// LoadSQLite reads (id, label, parent, position) rows from table and
// assembles them into a tree. The root row has a NULL or empty parent;
// siblings are ordered by position.
func LoadSQLite(ctx context.Context, path, table string) (*tree.Tree, error) {
	quoted, err := quoteTable(table)
	if err != nil {
		return nil, err
	}
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT id, label, parent FROM `+quoted+` ORDER BY position, rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", quoted, err)
	}
	defer rows.Close()

	var records []tree.Record
	for rows.Next() {
		var (
			r      tree.Record
			label  sql.NullString
			parent sql.NullString
		)
		if err := rows.Scan(&r.ID, &label, &parent); err != nil {
			return nil, fmt.Errorf("reading %s: %w", quoted, err)
		}
		r.Label = label.String
		if !label.Valid || r.Label == "" {
			r.Label = r.ID
		}
		r.Parent = parent.String
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", quoted, err)
	}

	t, err := tree.Assemble(records)
	if err != nil {
		return nil, fmt.Errorf("building tree from %s: %w", path, err)
	}
	return t, nil
}

// SaveSQLite replaces the content of table with records. Positions follow
// the record order, so Flatten output round-trips through LoadSQLite.
func SaveSQLite(ctx context.Context, path, table string, records []tree.Record) error {
	quoted, err := quoteTable(table)
	if err != nil {
		return err
	}
	db, err := openSQLite(path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ` + quoted + ` (
			id TEXT PRIMARY KEY,
			label TEXT,
			parent TEXT,
			position INTEGER NOT NULL DEFAULT 0
		)`,
		`DELETE FROM ` + quoted,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("preparing %s: %w", quoted, err)
		}
	}

	insert, err := tx.PrepareContext(ctx,
		`INSERT INTO `+quoted+` (id, label, parent, position) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer insert.Close()

	for i, r := range records {
		var parent any
		if r.Parent != "" {
			parent = r.Parent
		}
		if _, err := insert.ExecContext(ctx, r.ID, r.Label, parent, i); err != nil {
			return fmt.Errorf("inserting %q: %w", r.ID, err)
		}
	}
	return tx.Commit()
}
