package store

import (
	"context"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb/v2"

	"github.com/avullo/ensembl-xref/internal/coordxref"
)

// InsertCoordinateXrefs batch-inserts coordinate xref rows using the
// Appender API. Ids continue from the table's current maximum, and the
// records' CoordXrefID fields are rewritten to the assigned ids.
func (s *Store) InsertCoordinateXrefs(records []*coordxref.CoordXref) error {
	if len(records) == 0 {
		return nil
	}

	nextID, err := s.MaxID("coordinate_xref")
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
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "coordinate_xref")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range records {
		nextID++
		r.CoordXrefID = nextID
		if err := appender.AppendRow(
			r.CoordXrefID, r.SourceID, r.SpeciesID, r.Accession,
			r.Chrom, r.Strand, r.TxStart, r.TxEnd, r.CDSStart, r.CDSEnd,
			coordxref.FormatExonList(r.ExonStarts),
			coordxref.FormatExonList(r.ExonEnds),
		); err != nil {
			return fmt.Errorf("append coordinate xref %s: %w", r.Accession, err)
		}
	}

	return appender.Flush()
}

// CoordinateXrefs returns all coordinate xref rows for a species.
func (s *Store) CoordinateXrefs(speciesID int64) ([]*coordxref.CoordXref, error) {
	rows, err := s.db.Query(
		`SELECT coord_xref_id, source_id, species_id, accession, chromosome, strand,
		 txStart, txEnd, cdsStart, cdsEnd, exonStarts, exonEnds
		 FROM coordinate_xref WHERE species_id = ? ORDER BY coord_xref_id`,
		speciesID,
	)
	if err != nil {
		return nil, fmt.Errorf("query coordinate xrefs: %w", err)
	}
	defer rows.Close()

	var records []*coordxref.CoordXref
	for rows.Next() {
		var r coordxref.CoordXref
		var exonStarts, exonEnds string
		if err := rows.Scan(
			&r.CoordXrefID, &r.SourceID, &r.SpeciesID, &r.Accession, &r.Chrom, &r.Strand,
			&r.TxStart, &r.TxEnd, &r.CDSStart, &r.CDSEnd, &exonStarts, &exonEnds,
		); err != nil {
			return nil, fmt.Errorf("scan coordinate xref: %w", err)
		}
		if r.ExonStarts, err = coordxref.ParseExonList(exonStarts); err != nil {
			return nil, fmt.Errorf("coordinate xref %s: %w", r.Accession, err)
		}
		if r.ExonEnds, err = coordxref.ParseExonList(exonEnds); err != nil {
			return nil, fmt.Errorf("coordinate xref %s: %w", r.Accession, err)
		}
		if err := r.Validate(); err != nil {
			return nil, err
		}
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate coordinate xrefs: %w", err)
	}
	return records, nil
}
