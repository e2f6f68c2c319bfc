package mapper

import (
	"regexp"
	"strconv"
)

// InfoTypeCoordinateOverlap marks xrefs produced by coordinate mapping.
const InfoTypeCoordinateOverlap = "COORDINATE_OVERLAP"

// XrefRecord is one row for the xref table. Both mapped and unmapped
// external transcripts get an xref row; unmapped ones are linked via
// unmapped_object instead of object_xref.
type XrefRecord struct {
	XrefID       int64
	ExternalDBID int64
	Accession    string // Version stripped
	Label        string
	Version      int
	SpeciesID    int64
	InfoType     string
}

// ObjectXrefRecord links an xref to an Ensembl feature.
type ObjectXrefRecord struct {
	ObjectXrefID int64
	EnsemblID    int64
	ObjectType   string
	XrefID       int64
	AnalysisID   int64
}

// UnmappedReasonRecord is a deduplicated rejection reason.
type UnmappedReasonRecord struct {
	ReasonID int64
	Summary  string
	Full     string
}

// UnmappedObjectRecord records why an external transcript failed to map,
// with the best candidate transcript and score when one was observed.
type UnmappedObjectRecord struct {
	UnmappedObjectID int64
	Type             string // Always "xref"
	AnalysisID       int64
	ExternalDBID     int64
	Identifier       string
	ReasonID         int64
	Score            float64 // Valid only if HasScore
	HasScore         bool
	EnsemblID        int64  // 0 if no candidate was observed
	ObjectType       string // "Transcript", or empty if no candidate
}

// RecordSet holds the four bulk-loadable record streams emitted by a
// mapping run.
type RecordSet struct {
	Xrefs           []XrefRecord
	ObjectXrefs     []ObjectXrefRecord
	Reasons         []UnmappedReasonRecord
	UnmappedObjects []UnmappedObjectRecord
}

// ExternalDBIDs returns the distinct external database ids covered by the
// set, in ascending order.
func (rs *RecordSet) ExternalDBIDs() []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	for _, x := range rs.Xrefs {
		if !seen[x.ExternalDBID] {
			seen[x.ExternalDBID] = true
			ids = append(ids, x.ExternalDBID)
		}
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
	return ids
}

var versionedAccession = regexp.MustCompile(`^(.*?)\.(\d+)$`)

// splitAccession separates a trailing ".N" version from an accession.
// Accessions without a version default to version 0.
func splitAccession(accession string) (string, int) {
	m := versionedAccession.FindStringSubmatch(accession)
	if m == nil {
		return accession, 0
	}
	version, err := strconv.Atoi(m[2])
	if err != nil {
		return accession, 0
	}
	return m[1], version
}
