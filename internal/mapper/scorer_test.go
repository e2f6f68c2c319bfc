package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avullo/ensembl-xref/internal/coordxref"
	"github.com/avullo/ensembl-xref/internal/ensembl"
)

// codingTranscript builds a two-exon coding transcript on chromosome 11.
func codingTranscript() *ensembl.Transcript {
	return &ensembl.Transcript{
		DBID:     217347,
		ID:       "ENST00000217347",
		Chrom:    "11",
		Start:    100,
		End:      400,
		Strand:   1,
		CDSStart: 150,
		CDSEnd:   350,
		Exons: []ensembl.Exon{
			{Number: 1, Start: 100, End: 200, CDSStart: 150, CDSEnd: 200},
			{Number: 2, Start: 300, End: 400, CDSStart: 300, CDSEnd: 350},
		},
	}
}

// nonCodingTranscript builds a two-exon non-coding transcript.
func nonCodingTranscript() *ensembl.Transcript {
	return &ensembl.Transcript{
		DBID:   1,
		ID:     "ENST00000000001",
		Chrom:  "11",
		Start:  100,
		End:    400,
		Strand: 1,
		Exons: []ensembl.Exon{
			{Number: 1, Start: 100, End: 200},
			{Number: 2, Start: 300, End: 400},
		},
	}
}

func TestScore_IdenticalStructure(t *testing.T) {
	tx := codingTranscript()
	cx := &coordxref.CoordXref{
		CoordXrefID: 1,
		Accession:   "NM_001008409",
		Chrom:       "11",
		Strand:      1,
		TxStart:     100,
		TxEnd:       400,
		CDSStart:    150,
		CDSEnd:      350,
		ExonStarts:  []int64{100, 300},
		ExonEnds:    []int64{200, 400},
	}

	score := newTranscriptScorer(tx).Score(cx)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestScore_IdenticalNonCoding(t *testing.T) {
	tx := nonCodingTranscript()
	cx := &coordxref.CoordXref{
		CoordXrefID: 1,
		Accession:   "NR_000001",
		Chrom:       "11",
		Strand:      1,
		TxStart:     100,
		TxEnd:       400,
		ExonStarts:  []int64{100, 300},
		ExonEnds:    []int64{200, 400},
	}

	score := newTranscriptScorer(tx).Score(cx)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestScore_Disjoint(t *testing.T) {
	tx := codingTranscript()
	cx := &coordxref.CoordXref{
		CoordXrefID: 1,
		Accession:   "NM_001008407",
		Chrom:       "11",
		Strand:      1,
		TxStart:     5000,
		TxEnd:       5100,
		ExonStarts:  []int64{5000},
		ExonEnds:    []int64{5100},
	}

	score := newTranscriptScorer(tx).Score(cx)
	assert.Zero(t, score)
}

func TestScore_PartialFragment(t *testing.T) {
	tx := nonCodingTranscript()

	// One exon covering [150, 200]: full fragment-side match, but only
	// 51/101 of the first Ensembl exon and none of the second.
	cx := &coordxref.CoordXref{
		CoordXrefID: 1,
		Accession:   "NM_001008408",
		Chrom:       "11",
		Strand:      1,
		TxStart:     150,
		TxEnd:       200,
		ExonStarts:  []int64{150},
		ExonEnds:    []int64{200},
	}

	score := newTranscriptScorer(tx).Score(cx)
	want := (1.0 + 3.0*(51.0/101.0)) / (1.0 + 3.0*2.0)
	assert.InDelta(t, want, score, 1e-9)
	assert.Less(t, score, ScoreThreshold)
}

func TestScore_ReciprocalWeighting(t *testing.T) {
	tx := nonCodingTranscript()

	// A fragment candidate (subset of one exon) scores lower than a
	// full-structure candidate because the Ensembl side is weighted 3x.
	fragment := &coordxref.CoordXref{
		CoordXrefID: 1,
		Chrom:       "11", Strand: 1, TxStart: 100, TxEnd: 200,
		ExonStarts: []int64{100},
		ExonEnds:   []int64{200},
	}
	full := &coordxref.CoordXref{
		CoordXrefID: 2,
		Chrom:       "11", Strand: 1, TxStart: 100, TxEnd: 400,
		ExonStarts: []int64{100, 300},
		ExonEnds:   []int64{200, 400},
	}

	scorer := newTranscriptScorer(tx)
	assert.Less(t, scorer.Score(fragment), scorer.Score(full))
}

func TestScore_Bounded(t *testing.T) {
	tx := codingTranscript()
	candidates := []*coordxref.CoordXref{
		{ExonStarts: []int64{100}, ExonEnds: []int64{400}, TxStart: 100, TxEnd: 400},
		{ExonStarts: []int64{1, 250}, ExonEnds: []int64{99, 290}, TxStart: 1, TxEnd: 290},
		{ExonStarts: []int64{100, 300}, ExonEnds: []int64{200, 400}, CDSStart: 100, CDSEnd: 400, TxStart: 100, TxEnd: 400},
		{ExonStarts: []int64{180, 320, 390}, ExonEnds: []int64{210, 330, 420}, CDSStart: 200, CDSEnd: 400, TxStart: 180, TxEnd: 420},
	}

	scorer := newTranscriptScorer(tx)
	for i, cx := range candidates {
		score := scorer.Score(cx)
		assert.GreaterOrEqual(t, score, 0.0, "candidate %d", i)
		assert.LessOrEqual(t, score, 1.0, "candidate %d", i)
	}
}

func TestScore_CodingAgreementOutweighsExonAgreement(t *testing.T) {
	tx := codingTranscript()

	// Same exon structure, matching CDS
	matchingCDS := &coordxref.CoordXref{
		ExonStarts: []int64{100, 300}, ExonEnds: []int64{200, 400},
		CDSStart: 150, CDSEnd: 350, TxStart: 100, TxEnd: 400,
	}
	// Same exon structure, no CDS at all
	noCDS := &coordxref.CoordXref{
		ExonStarts: []int64{100, 300}, ExonEnds: []int64{200, 400},
		TxStart: 100, TxEnd: 400,
	}

	scorer := newTranscriptScorer(tx)
	assert.Greater(t, scorer.Score(matchingCDS), scorer.Score(noCDS))
}
