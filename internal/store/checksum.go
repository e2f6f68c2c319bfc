package store

import (
	"context"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb/v2"
)

// ChecksumEntry is one accession/digest pair from a checksum source
// (UniParc UPIs and their sequence MD5s).
type ChecksumEntry struct {
	Accession string
	Checksum  string
}

// InsertChecksums batch-inserts checksum entries for a source using the
// Appender API.
func (s *Store) InsertChecksums(sourceID int64, entries []ChecksumEntry) error {
	if len(entries) == 0 {
		return nil
	}

	nextID, err := s.MaxID("checksum_xref")
	if err != nil {
		return err
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "checksum_xref")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, e := range entries {
		nextID++
		if err := appender.AppendRow(nextID, sourceID, e.Accession, e.Checksum); err != nil {
			return fmt.Errorf("append checksum %s: %w", e.Accession, err)
		}
	}

	return appender.Flush()
}

// ChecksumAccessions returns the accessions stored for a digest.
func (s *Store) ChecksumAccessions(checksum string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT accession FROM checksum_xref WHERE checksum = ? ORDER BY accession`,
		checksum,
	)
	if err != nil {
		return nil, fmt.Errorf("query checksum %s: %w", checksum, err)
	}
	defer rows.Close()

	var accessions []string
	for rows.Next() {
		var acc string
		if err := rows.Scan(&acc); err != nil {
			return nil, fmt.Errorf("scan checksum accession: %w", err)
		}
		accessions = append(accessions, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checksum accessions: %w", err)
	}
	return accessions, nil
}
