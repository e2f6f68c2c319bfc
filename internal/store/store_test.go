package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avullo/ensembl-xref/internal/coordxref"
	"github.com/avullo/ensembl-xref/internal/mapper"
)

func openMemoryStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func countRows(t *testing.T, s *Store, table string) int {
	t.Helper()
	var n int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestOpen_CreatesFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "xref.duckdb")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	id, err := s.MaxID("xref")
	require.NoError(t, err)
	assert.Zero(t, id)
}

func TestMaxID(t *testing.T) {
	s := openMemoryStore(t)

	id, err := s.MaxID("xref")
	require.NoError(t, err)
	assert.Zero(t, id, "empty table")

	_, err = s.db.Exec(`INSERT INTO xref (xref_id) VALUES (41)`)
	require.NoError(t, err)

	id, err = s.MaxID("xref")
	require.NoError(t, err)
	assert.EqualValues(t, 41, id)

	_, err = s.MaxID("no_such_table")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown table")
}

func TestEnsureAnalysis(t *testing.T) {
	s := openMemoryStore(t)

	id, err := s.EnsureAnalysis("xrefcoordinatemapping", "threshold=0.75", false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, id)

	// Same logic name resolves to the same row.
	again, err := s.EnsureAnalysis("xrefcoordinatemapping", "threshold=0.75", false)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	// Parameter drift is kept unless update is requested.
	_, err = s.EnsureAnalysis("xrefcoordinatemapping", "threshold=0.90", false)
	require.NoError(t, err)
	var params string
	require.NoError(t, s.db.QueryRow(
		`SELECT parameters FROM analysis WHERE analysis_id = ?`, id).Scan(&params))
	assert.Equal(t, "threshold=0.75", params)

	_, err = s.EnsureAnalysis("xrefcoordinatemapping", "threshold=0.90", true)
	require.NoError(t, err)
	require.NoError(t, s.db.QueryRow(
		`SELECT parameters FROM analysis WHERE analysis_id = ?`, id).Scan(&params))
	assert.Equal(t, "threshold=0.90", params)

	other, err := s.EnsureAnalysis("xrefchecksummapping", "", false)
	require.NoError(t, err)
	assert.EqualValues(t, 2, other)
}

func uploadSet() *mapper.RecordSet {
	return &mapper.RecordSet{
		Xrefs: []mapper.XrefRecord{
			{XrefID: 1, ExternalDBID: 11, Accession: "NM_000001", Label: "NM_000001",
				Version: 2, SpeciesID: 9606, InfoType: mapper.InfoTypeCoordinateOverlap},
			{XrefID: 2, ExternalDBID: 11, Accession: "NM_000002", Label: "NM_000002",
				SpeciesID: 9606, InfoType: mapper.InfoTypeCoordinateOverlap},
		},
		ObjectXrefs: []mapper.ObjectXrefRecord{
			{ObjectXrefID: 1, EnsemblID: 217347, ObjectType: "Transcript", XrefID: 1, AnalysisID: 1},
		},
		Reasons: []mapper.UnmappedReasonRecord{
			{ReasonID: 1, Summary: "No overlap", Full: "No coordinate overlap with any Ensembl transcript"},
		},
		UnmappedObjects: []mapper.UnmappedObjectRecord{
			{UnmappedObjectID: 1, Type: "xref", AnalysisID: 1, ExternalDBID: 11,
				Identifier: "NM_000002", ReasonID: 1},
		},
	}
}

func TestReplaceCoordinateXrefs(t *testing.T) {
	s := openMemoryStore(t)

	require.NoError(t, s.ReplaceCoordinateXrefs(uploadSet()))

	assert.Equal(t, 2, countRows(t, s, "xref"))
	assert.Equal(t, 1, countRows(t, s, "object_xref"))
	assert.Equal(t, 1, countRows(t, s, "unmapped_reason"))
	assert.Equal(t, 1, countRows(t, s, "unmapped_object"))

	var score any
	require.NoError(t, s.db.QueryRow(
		`SELECT target_score FROM unmapped_object WHERE unmapped_object_id = 1`).Scan(&score))
	assert.Nil(t, score, "no score recorded without a candidate")
}

// Re-uploading an equivalent record set leaves row counts unchanged: prior
// rows for the same external databases are replaced, not accumulated.
func TestReplaceCoordinateXrefs_Replay(t *testing.T) {
	s := openMemoryStore(t)

	require.NoError(t, s.ReplaceCoordinateXrefs(uploadSet()))

	// Second run: reasons already exist in the store, so none are re-emitted.
	rerun := uploadSet()
	rerun.Reasons = nil
	require.NoError(t, s.ReplaceCoordinateXrefs(rerun))

	assert.Equal(t, 2, countRows(t, s, "xref"))
	assert.Equal(t, 1, countRows(t, s, "object_xref"))
	assert.Equal(t, 1, countRows(t, s, "unmapped_reason"))
	assert.Equal(t, 1, countRows(t, s, "unmapped_object"))
}

// Rows belonging to other external databases survive an upload.
func TestReplaceCoordinateXrefs_ScopedToExternalDB(t *testing.T) {
	s := openMemoryStore(t)

	_, err := s.db.Exec(
		`INSERT INTO xref (xref_id, external_db_id, dbprimary_acc) VALUES (99, 55, 'P12345')`)
	require.NoError(t, err)

	require.NoError(t, s.ReplaceCoordinateXrefs(uploadSet()))

	var n int
	require.NoError(t, s.db.QueryRow(
		`SELECT COUNT(*) FROM xref WHERE external_db_id = 55`).Scan(&n))
	assert.Equal(t, 1, n)
	assert.Equal(t, 3, countRows(t, s, "xref"))
}

func TestUnmappedReasons(t *testing.T) {
	s := openMemoryStore(t)
	require.NoError(t, s.ReplaceCoordinateXrefs(uploadSet()))

	reasons, err := s.UnmappedReasons()
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{
		"No coordinate overlap with any Ensembl transcript": 1,
	}, reasons)
}

func TestInsertCoordinateXrefs_RoundTrip(t *testing.T) {
	s := openMemoryStore(t)

	records := []*coordxref.CoordXref{
		{
			SourceID: 11, SpeciesID: 9606, Accession: "NM_000001.2",
			Chrom: "11", Strand: 1, TxStart: 100, TxEnd: 400,
			CDSStart: 150, CDSEnd: 350,
			ExonStarts: []int64{100, 300}, ExonEnds: []int64{200, 400},
		},
		{
			SourceID: 11, SpeciesID: 9606, Accession: "NR_000001",
			Chrom: "11", Strand: -1, TxStart: 1000, TxEnd: 2000,
			ExonStarts: []int64{1000}, ExonEnds: []int64{2000},
		},
		{
			SourceID: 11, SpeciesID: 10090, Accession: "NM_999999",
			Chrom: "2", Strand: 1, TxStart: 100, TxEnd: 200,
			ExonStarts: []int64{100}, ExonEnds: []int64{200},
		},
	}
	require.NoError(t, s.InsertCoordinateXrefs(records))

	// Ids were assigned sequentially from the empty table.
	assert.EqualValues(t, 1, records[0].CoordXrefID)
	assert.EqualValues(t, 3, records[2].CoordXrefID)

	got, err := s.CoordinateXrefs(9606)
	require.NoError(t, err)
	require.Len(t, got, 2)

	r := got[0]
	assert.Equal(t, "NM_000001.2", r.Accession)
	assert.Equal(t, "11", r.Chrom)
	assert.EqualValues(t, 1, r.Strand)
	assert.EqualValues(t, 100, r.TxStart)
	assert.EqualValues(t, 400, r.TxEnd)
	assert.Equal(t, []int64{100, 300}, r.ExonStarts)
	assert.Equal(t, []int64{200, 400}, r.ExonEnds)
	assert.True(t, r.HasCDS())
	assert.False(t, got[1].HasCDS())

	// A later batch continues from the current maximum id.
	more := []*coordxref.CoordXref{{
		SourceID: 11, SpeciesID: 9606, Accession: "NM_000003",
		Chrom: "1", Strand: 1, TxStart: 1, TxEnd: 10,
		ExonStarts: []int64{1}, ExonEnds: []int64{10},
	}}
	require.NoError(t, s.InsertCoordinateXrefs(more))
	assert.EqualValues(t, 4, more[0].CoordXrefID)
}

func TestAddXref_ReusesExisting(t *testing.T) {
	s := openMemoryStore(t)

	id, err := s.AddXref("NM_000001", "NM_000001", 2, 11, 9606, "SEQUENCE_MATCH")
	require.NoError(t, err)

	again, err := s.AddXref("NM_000001", "NM_000001", 2, 11, 9606, "SEQUENCE_MATCH")
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Equal(t, 1, countRows(t, s, "xref"))

	other, err := s.AddXref("NM_000001", "NM_000001", 2, 12, 9606, "SEQUENCE_MATCH")
	require.NoError(t, err)
	assert.NotEqual(t, id, other, "different external database is a different xref")
}

func TestAddDependentXref_Dedup(t *testing.T) {
	s := openMemoryStore(t)

	require.NoError(t, s.AddDependentXref(1, 2, 11))
	require.NoError(t, s.AddDependentXref(1, 2, 11))
	require.NoError(t, s.AddDependentXref(1, 3, 11))

	assert.Equal(t, 2, countRows(t, s, "dependent_xref"))
}

func TestAddDirectXref(t *testing.T) {
	s := openMemoryStore(t)

	require.NoError(t, s.AddDirectXref(1, "ENST00000217347", "Transcript", "DIRECT"))
	assert.Equal(t, 1, countRows(t, s, "direct_xref"))
}

func TestChecksums(t *testing.T) {
	s := openMemoryStore(t)

	entries := []ChecksumEntry{
		{Accession: "UPI0000000001", Checksum: "AAAA"},
		{Accession: "UPI0000000002", Checksum: "BBBB"},
		{Accession: "UPI0000000003", Checksum: "AAAA"},
	}
	require.NoError(t, s.InsertChecksums(20, entries))

	accessions, err := s.ChecksumAccessions("AAAA")
	require.NoError(t, err)
	assert.Equal(t, []string{"UPI0000000001", "UPI0000000003"}, accessions)

	accessions, err = s.ChecksumAccessions("CCCC")
	require.NoError(t, err)
	assert.Empty(t, accessions)
}
