package mapper

import (
	"fmt"
	"sort"
)

// XrefStore is the persistence contract the mapper needs from the xref
// database.
type XrefStore interface {
	// MaxID returns the current maximum surrogate id for a target table.
	MaxID(table string) (int64, error)

	// UnmappedReasons returns existing reasons keyed by full description.
	UnmappedReasons() (map[string]int64, error)

	// EnsureAnalysis fetches or creates the analysis record for the given
	// logic name, updating stored parameters when update is true.
	EnsureAnalysis(logicName, parameters string, update bool) (int64, error)

	// ReplaceCoordinateXrefs deletes prior rows for the set's external
	// database ids and bulk-inserts the new records, atomically.
	ReplaceCoordinateXrefs(rs *RecordSet) error
}

// buildRecords turns the accumulator's mapped and unmapped sets into the
// four record streams, with surrogate ids continuing from the store's
// current maxima and reasons deduplicated against the store.
func buildRecords(acc *Accumulator, store XrefStore, speciesID, analysisID int64) (*RecordSet, error) {
	xrefID, err := store.MaxID("xref")
	if err != nil {
		return nil, fmt.Errorf("max xref id: %w", err)
	}
	objectXrefID, err := store.MaxID("object_xref")
	if err != nil {
		return nil, fmt.Errorf("max object_xref id: %w", err)
	}
	unmappedObjectID, err := store.MaxID("unmapped_object")
	if err != nil {
		return nil, fmt.Errorf("max unmapped_object id: %w", err)
	}
	reasonID, err := store.MaxID("unmapped_reason")
	if err != nil {
		return nil, fmt.Errorf("max unmapped_reason id: %w", err)
	}
	existingReasons, err := store.UnmappedReasons()
	if err != nil {
		return nil, fmt.Errorf("load unmapped reasons: %w", err)
	}

	rs := &RecordSet{}
	newReasons := make(map[string]int64)

	resolveReason := func(summary, full string) int64 {
		if id, ok := existingReasons[full]; ok {
			return id
		}
		if id, ok := newReasons[full]; ok {
			return id
		}
		reasonID++
		newReasons[full] = reasonID
		rs.Reasons = append(rs.Reasons, UnmappedReasonRecord{
			ReasonID: reasonID,
			Summary:  summary,
			Full:     full,
		})
		return reasonID
	}

	for _, id := range sortedKeysMapped(acc.Mapped()) {
		m := acc.Mapped()[id]
		accession, version := splitAccession(m.Accession)

		xrefID++
		rs.Xrefs = append(rs.Xrefs, XrefRecord{
			XrefID:       xrefID,
			ExternalDBID: m.SourceID,
			Accession:    accession,
			Label:        accession,
			Version:      version,
			SpeciesID:    speciesID,
			InfoType:     InfoTypeCoordinateOverlap,
		})

		for _, mt := range m.MappedTo {
			objectXrefID++
			rs.ObjectXrefs = append(rs.ObjectXrefs, ObjectXrefRecord{
				ObjectXrefID: objectXrefID,
				EnsemblID:    mt.EnsemblID,
				ObjectType:   mt.ObjectType,
				XrefID:       xrefID,
				AnalysisID:   analysisID,
			})
		}
	}

	for _, id := range sortedKeysUnmapped(acc.Unmapped()) {
		u := acc.Unmapped()[id]
		accession, version := splitAccession(u.Accession)

		xrefID++
		rs.Xrefs = append(rs.Xrefs, XrefRecord{
			XrefID:       xrefID,
			ExternalDBID: u.SourceID,
			Accession:    accession,
			Label:        accession,
			Version:      version,
			SpeciesID:    speciesID,
			InfoType:     InfoTypeCoordinateOverlap,
		})

		unmappedObjectID++
		record := UnmappedObjectRecord{
			UnmappedObjectID: unmappedObjectID,
			Type:             "xref",
			AnalysisID:       analysisID,
			ExternalDBID:     u.SourceID,
			Identifier:       accession,
			ReasonID:         resolveReason(u.Reason, u.ReasonFull),
			Score:            u.Score,
			HasScore:         u.HasScore,
		}
		if u.EnsemblID != 0 {
			record.EnsemblID = u.EnsemblID
			record.ObjectType = "Transcript"
		}
		rs.UnmappedObjects = append(rs.UnmappedObjects, record)
	}

	return rs, nil
}

func sortedKeysMapped(m map[int64]*MappedXref) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func sortedKeysUnmapped(m map[int64]*UnmappedXref) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
