package store

import (
	"database/sql"
	"fmt"
)

// EnsureAnalysis fetches the analysis record for the given logic name,
// creating it if missing. When update is true and the stored parameter
// string has drifted, it is refreshed to the given value.
func (s *Store) EnsureAnalysis(logicName, parameters string, update bool) (int64, error) {
	var id int64
	var stored string
	err := s.db.QueryRow(
		`SELECT analysis_id, parameters FROM analysis WHERE logic_name = ?`,
		logicName,
	).Scan(&id, &stored)

	switch {
	case err == sql.ErrNoRows:
		id, err = s.MaxID("analysis")
		if err != nil {
			return 0, err
		}
		id++
		if _, err := s.db.Exec(
			`INSERT INTO analysis (analysis_id, logic_name, parameters) VALUES (?, ?, ?)`,
			id, logicName, parameters,
		); err != nil {
			return 0, fmt.Errorf("insert analysis %s: %w", logicName, err)
		}
		return id, nil

	case err != nil:
		return 0, fmt.Errorf("lookup analysis %s: %w", logicName, err)
	}

	if update && stored != parameters {
		if _, err := s.db.Exec(
			`UPDATE analysis SET parameters = ? WHERE analysis_id = ?`,
			parameters, id,
		); err != nil {
			return 0, fmt.Errorf("update analysis %s: %w", logicName, err)
		}
	}
	return id, nil
}
