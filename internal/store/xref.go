package store

import (
	"database/sql"
	"fmt"

	"github.com/avullo/ensembl-xref/internal/mapper"
)

// UnmappedReasons returns all existing unmapped reasons keyed by full
// description, the dedup key for reason rows.
func (s *Store) UnmappedReasons() (map[string]int64, error) {
	rows, err := s.db.Query("SELECT unmapped_reason_id, full_description FROM unmapped_reason")
	if err != nil {
		return nil, fmt.Errorf("query unmapped reasons: %w", err)
	}
	defer rows.Close()

	reasons := make(map[string]int64)
	for rows.Next() {
		var id int64
		var full string
		if err := rows.Scan(&id, &full); err != nil {
			return nil, fmt.Errorf("scan unmapped reason: %w", err)
		}
		reasons[full] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unmapped reasons: %w", err)
	}
	return reasons, nil
}

// ReplaceCoordinateXrefs atomically replaces all coordinate-mapping rows for
// the record set's external database ids. The delete and insert run in one
// transaction so a failed upload leaves the previous rows intact, and
// parent rows are inserted before the children that reference them.
func (s *Store) ReplaceCoordinateXrefs(rs *mapper.RecordSet) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin upload transaction: %w", err)
	}
	defer tx.Rollback()

	for _, externalDBID := range rs.ExternalDBIDs() {
		deletes := []struct {
			table string
			query string
		}{
			{"object_xref", `DELETE FROM object_xref WHERE xref_id IN
				(SELECT xref_id FROM xref WHERE external_db_id = ?)`},
			{"unmapped_object", `DELETE FROM unmapped_object WHERE external_db_id = ?`},
			{"xref", `DELETE FROM xref WHERE external_db_id = ?`},
		}
		for _, d := range deletes {
			if _, err := tx.Exec(d.query, externalDBID); err != nil {
				return fmt.Errorf("delete %s rows for external_db_id %d: %w", d.table, externalDBID, err)
			}
		}
	}

	for _, x := range rs.Xrefs {
		if _, err := tx.Exec(
			`INSERT INTO xref (xref_id, external_db_id, dbprimary_acc, display_label, version, species_id, info_type)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			x.XrefID, x.ExternalDBID, x.Accession, x.Label, x.Version, x.SpeciesID, x.InfoType,
		); err != nil {
			return fmt.Errorf("insert xref %s: %w", x.Accession, err)
		}
	}

	for _, r := range rs.Reasons {
		if _, err := tx.Exec(
			`INSERT INTO unmapped_reason (unmapped_reason_id, summary_description, full_description)
			 VALUES (?, ?, ?)`,
			r.ReasonID, r.Summary, r.Full,
		); err != nil {
			return fmt.Errorf("insert unmapped reason %q: %w", r.Summary, err)
		}
	}

	for _, o := range rs.ObjectXrefs {
		if _, err := tx.Exec(
			`INSERT INTO object_xref (object_xref_id, ensembl_id, ensembl_object_type, xref_id, analysis_id)
			 VALUES (?, ?, ?, ?, ?)`,
			o.ObjectXrefID, o.EnsemblID, o.ObjectType, o.XrefID, o.AnalysisID,
		); err != nil {
			return fmt.Errorf("insert object xref %d: %w", o.ObjectXrefID, err)
		}
	}

	for _, u := range rs.UnmappedObjects {
		var score sql.NullFloat64
		if u.HasScore {
			score = sql.NullFloat64{Float64: u.Score, Valid: true}
		}
		var ensemblID sql.NullInt64
		var objectType sql.NullString
		if u.EnsemblID != 0 {
			ensemblID = sql.NullInt64{Int64: u.EnsemblID, Valid: true}
			objectType = sql.NullString{String: u.ObjectType, Valid: true}
		}
		if _, err := tx.Exec(
			`INSERT INTO unmapped_object (unmapped_object_id, unmapped_object_type, analysis_id,
			 external_db_id, identifier, unmapped_reason_id, target_score, ensembl_id, ensembl_object_type)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			u.UnmappedObjectID, u.Type, u.AnalysisID, u.ExternalDBID,
			u.Identifier, u.ReasonID, score, ensemblID, objectType,
		); err != nil {
			return fmt.Errorf("insert unmapped object %s: %w", u.Identifier, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upload transaction: %w", err)
	}
	return nil
}

// AddXref inserts an xref row, reusing an existing row for the same
// accession, external database and species. Returns the xref id.
func (s *Store) AddXref(accession, label string, version int, externalDBID, speciesID int64, infoType string) (int64, error) {
	var id int64
	err := s.db.QueryRow(
		`SELECT xref_id FROM xref WHERE dbprimary_acc = ? AND external_db_id = ? AND species_id = ?`,
		accession, externalDBID, speciesID,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("lookup xref %s: %w", accession, err)
	}

	id, err = s.MaxID("xref")
	if err != nil {
		return 0, err
	}
	id++

	if _, err := s.db.Exec(
		`INSERT INTO xref (xref_id, external_db_id, dbprimary_acc, display_label, version, species_id, info_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, externalDBID, accession, label, version, speciesID, infoType,
	); err != nil {
		return 0, fmt.Errorf("insert xref %s: %w", accession, err)
	}
	return id, nil
}

// AddDependentXref links a dependent xref to its master. Pairs already
// linked during this run are skipped.
func (s *Store) AddDependentXref(masterXrefID, dependentXrefID, linkageSourceID int64) error {
	key := dependentKey{master: masterXrefID, dependent: dependentXrefID}
	if s.dependentSeen[key] {
		return nil
	}

	if _, err := s.db.Exec(
		`INSERT INTO dependent_xref (master_xref_id, dependent_xref_id, linkage_source_id)
		 VALUES (?, ?, ?)`,
		masterXrefID, dependentXrefID, linkageSourceID,
	); err != nil {
		return fmt.Errorf("insert dependent xref %d -> %d: %w", masterXrefID, dependentXrefID, err)
	}

	s.dependentSeen[key] = true
	return nil
}

// AddDirectXref attaches an xref directly to an Ensembl feature by stable id.
func (s *Store) AddDirectXref(xrefID int64, ensemblStableID, objectType, linkage string) error {
	if _, err := s.db.Exec(
		`INSERT INTO direct_xref (general_xref_id, ensembl_stable_id, ensembl_object_type, linkage_xref)
		 VALUES (?, ?, ?, ?)`,
		xrefID, ensemblStableID, objectType, linkage,
	); err != nil {
		return fmt.Errorf("insert direct xref %d -> %s: %w", xrefID, ensemblStableID, err)
	}
	return nil
}
