package coordxref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sourceRecords() []*CoordXref {
	return []*CoordXref{
		{
			CoordXrefID: 1, SourceID: 11, SpeciesID: 9606,
			Accession: "NM_000002", Chrom: "11", Strand: 1,
			TxStart: 100, TxEnd: 400,
			ExonStarts: []int64{100}, ExonEnds: []int64{400},
		},
		{
			CoordXrefID: 2, SourceID: 11, SpeciesID: 9606,
			Accession: "NM_000001", Chrom: "11", Strand: 1,
			TxStart: 350, TxEnd: 600,
			ExonStarts: []int64{350}, ExonEnds: []int64{600},
		},
		{
			CoordXrefID: 3, SourceID: 11, SpeciesID: 9606,
			Accession: "NM_000003", Chrom: "11", Strand: -1,
			TxStart: 100, TxEnd: 400,
			ExonStarts: []int64{100}, ExonEnds: []int64{400},
		},
		{
			CoordXrefID: 4, SourceID: 11, SpeciesID: 9606,
			Accession: "NM_000004", Chrom: "12", Strand: 1,
			TxStart: 100, TxEnd: 400,
			ExonStarts: []int64{100}, ExonEnds: []int64{400},
		},
		{
			CoordXrefID: 5, SourceID: 11, SpeciesID: 10090,
			Accession: "NM_000005", Chrom: "11", Strand: 1,
			TxStart: 100, TxEnd: 400,
			ExonStarts: []int64{100}, ExonEnds: []int64{400},
		},
	}
}

func TestMemorySource_All(t *testing.T) {
	src, err := NewMemorySource(sourceRecords())
	require.NoError(t, err)

	assert.Len(t, src.All(9606), 4)
	assert.Len(t, src.All(10090), 1)
	assert.Empty(t, src.All(7227))
}

func TestMemorySource_OverlappingFilters(t *testing.T) {
	src, err := NewMemorySource(sourceRecords())
	require.NoError(t, err)

	// Chromosome 11, forward strand: both forward records overlap [200, 500]
	got := src.Overlapping(9606, "11", 1, 200, 500)
	require.Len(t, got, 2)
	assert.Equal(t, "NM_000001", got[0].Accession, "ordered by accession")
	assert.Equal(t, "NM_000002", got[1].Accession)

	// Reverse strand sees only the reverse record
	got = src.Overlapping(9606, "11", -1, 200, 500)
	require.Len(t, got, 1)
	assert.Equal(t, "NM_000003", got[0].Accession)

	// Other chromosome, other species
	assert.Len(t, src.Overlapping(9606, "12", 1, 100, 400), 1)
	assert.Len(t, src.Overlapping(10090, "11", 1, 100, 400), 1)
	assert.Empty(t, src.Overlapping(9606, "13", 1, 100, 400))
	assert.Empty(t, src.Overlapping(7227, "11", 1, 100, 400))
}

func TestMemorySource_OverlappingBoundaries(t *testing.T) {
	src, err := NewMemorySource(sourceRecords())
	require.NoError(t, err)

	// Single-position query at the record's last base still hits.
	got := src.Overlapping(9606, "11", 1, 400, 400)
	require.Len(t, got, 2)

	// Containment counts as overlap both ways.
	got = src.Overlapping(9606, "11", 1, 1, 10000)
	assert.Len(t, got, 2)
	got = src.Overlapping(9606, "11", 1, 200, 210)
	require.Len(t, got, 1)
	assert.Equal(t, "NM_000002", got[0].Accession)

	// Past the end: nothing.
	assert.Empty(t, src.Overlapping(9606, "11", 1, 601, 700))
}

func TestMemorySource_RejectsInvalidRecord(t *testing.T) {
	_, err := NewMemorySource([]*CoordXref{
		{CoordXrefID: 1, SpeciesID: 9606, Accession: "NM_BAD", Chrom: "1", Strand: 1},
	})
	assert.Error(t, err, "records without exons are rejected")
}
