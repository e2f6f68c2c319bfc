// Package store provides the DuckDB-backed xref store: the relational sink
// for xref, object_xref and unmapped_* records, plus the analysis registry
// and checksum tables the mapping pipelines consume.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb/v2"
)

// Store manages a DuckDB connection to the xref database.
type Store struct {
	db   *sql.DB
	path string

	// dependentSeen memoizes (master, dependent) links inserted during this
	// run so re-loads do not duplicate dependent_xref rows. Scoped to the
	// Store instance, one per pipeline run.
	dependentSeen map[dependentKey]bool
}

type dependentKey struct {
	master, dependent int64
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{
		db:            db,
		path:          path,
		dependentSeen: make(map[dependentKey]bool),
	}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS xref (
			xref_id BIGINT PRIMARY KEY,
			external_db_id BIGINT,
			dbprimary_acc VARCHAR,
			display_label VARCHAR,
			version INTEGER,
			species_id BIGINT,
			info_type VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS object_xref (
			object_xref_id BIGINT PRIMARY KEY,
			ensembl_id BIGINT,
			ensembl_object_type VARCHAR,
			xref_id BIGINT,
			analysis_id BIGINT
		)`,
		`CREATE TABLE IF NOT EXISTS unmapped_reason (
			unmapped_reason_id BIGINT PRIMARY KEY,
			summary_description VARCHAR,
			full_description VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS unmapped_object (
			unmapped_object_id BIGINT PRIMARY KEY,
			unmapped_object_type VARCHAR,
			analysis_id BIGINT,
			external_db_id BIGINT,
			identifier VARCHAR,
			unmapped_reason_id BIGINT,
			target_score DOUBLE,
			ensembl_id BIGINT,
			ensembl_object_type VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS analysis (
			analysis_id BIGINT PRIMARY KEY,
			logic_name VARCHAR,
			parameters VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS dependent_xref (
			master_xref_id BIGINT,
			dependent_xref_id BIGINT,
			linkage_source_id BIGINT
		)`,
		`CREATE TABLE IF NOT EXISTS direct_xref (
			general_xref_id BIGINT,
			ensembl_stable_id VARCHAR,
			ensembl_object_type VARCHAR,
			linkage_xref VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS coordinate_xref (
			coord_xref_id BIGINT PRIMARY KEY,
			source_id BIGINT,
			species_id BIGINT,
			accession VARCHAR,
			chromosome VARCHAR,
			strand TINYINT,
			txStart BIGINT,
			txEnd BIGINT,
			cdsStart BIGINT,
			cdsEnd BIGINT,
			exonStarts VARCHAR,
			exonEnds VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS checksum_xref (
			checksum_xref_id BIGINT PRIMARY KEY,
			source_id BIGINT,
			accession VARCHAR,
			checksum VARCHAR
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// idColumns maps target tables to their surrogate id column.
var idColumns = map[string]string{
	"xref":            "xref_id",
	"object_xref":     "object_xref_id",
	"unmapped_reason": "unmapped_reason_id",
	"unmapped_object": "unmapped_object_id",
	"analysis":        "analysis_id",
	"coordinate_xref": "coord_xref_id",
	"checksum_xref":   "checksum_xref_id",
}

// MaxID returns the current maximum surrogate id for a target table,
// or 0 for an empty table.
func (s *Store) MaxID(table string) (int64, error) {
	col, ok := idColumns[table]
	if !ok {
		return 0, fmt.Errorf("max id: unknown table %q", table)
	}

	var id int64
	query := fmt.Sprintf("SELECT COALESCE(MAX(%s), 0) FROM %s", col, table)
	if err := s.db.QueryRow(query).Scan(&id); err != nil {
		return 0, fmt.Errorf("max id for %s: %w", table, err)
	}
	return id, nil
}
