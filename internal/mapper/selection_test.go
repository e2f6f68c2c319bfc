package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avullo/ensembl-xref/internal/ensembl"
)

func selectionFixture(ids ...int64) (*ensembl.Transcript, *ensembl.Gene, *Accumulator) {
	tx := testTx(217347, "ENST00000217347")
	gene := &ensembl.Gene{DBID: 42, ID: "ENSG00000000042", Transcripts: []*ensembl.Transcript{tx}}

	acc := NewAccumulator()
	for _, id := range ids {
		acc.Init(testRecord(id, "NM_000001"))
	}
	return tx, gene, acc
}

func TestSelectWinners_ThresholdIsStrict(t *testing.T) {
	tx, gene, acc := selectionFixture(1, 2)
	genes := make(geneTracker)

	// Exactly the threshold does not qualify; just above does.
	selectWinners(tx, gene, map[int64]float64{1: 0.75, 2: 0.7501}, acc, genes)

	assert.False(t, acc.IsMapped(1))
	assert.Equal(t, ReasonBelowThreshold, acc.Unmapped()[1].Reason)
	assert.True(t, acc.IsMapped(2))
}

func TestSelectWinners_TiesAtThreeDecimals(t *testing.T) {
	tx, gene, acc := selectionFixture(1, 2, 3)
	genes := make(geneTracker)

	// 0.9004 and 0.9001 both round to 0.900 and are co-winners;
	// 0.8 loses to the best.
	selectWinners(tx, gene, map[int64]float64{1: 0.9004, 2: 0.9001, 3: 0.8}, acc, genes)

	assert.True(t, acc.IsMapped(1))
	assert.True(t, acc.IsMapped(2))
	assert.False(t, acc.IsMapped(3))

	u := acc.Unmapped()[3]
	require.NotNil(t, u)
	assert.Equal(t, ReasonNotBest, u.Reason)
	assert.Equal(t, "Did not top best transcript match score (0.90)", u.ReasonFull)
	assert.InDelta(t, 0.8, u.Score, 1e-9)
}

func TestSelectWinners_BestIsFirstAboveThreshold(t *testing.T) {
	tx, gene, acc := selectionFixture(1, 2)
	genes := make(geneTracker)

	// Both pass; only the higher wins.
	selectWinners(tx, gene, map[int64]float64{1: 0.95, 2: 0.80}, acc, genes)

	assert.True(t, acc.IsMapped(1))
	assert.False(t, acc.IsMapped(2))
	assert.Equal(t, "Did not top best transcript match score (0.95)", acc.Unmapped()[2].ReasonFull)
}

func TestSelectWinners_AllBelowThreshold(t *testing.T) {
	tx, gene, acc := selectionFixture(1, 2)
	genes := make(geneTracker)

	selectWinners(tx, gene, map[int64]float64{1: 0.5, 2: 0.3}, acc, genes)

	assert.False(t, acc.IsMapped(1))
	assert.False(t, acc.IsMapped(2))
	assert.Equal(t, ReasonBelowThreshold, acc.Unmapped()[1].Reason)
	assert.Equal(t, "Match score for transcript lower than threshold (0.75)", acc.Unmapped()[1].ReasonFull)
	assert.Empty(t, genes)
}

func TestSelectWinners_EqualScoresOrderedByID(t *testing.T) {
	tx, gene, acc := selectionFixture(5, 2, 9)
	genes := make(geneTracker)

	// All tie; all win regardless of iteration order.
	selectWinners(tx, gene, map[int64]float64{5: 0.9, 2: 0.9, 9: 0.9}, acc, genes)

	assert.True(t, acc.IsMapped(2))
	assert.True(t, acc.IsMapped(5))
	assert.True(t, acc.IsMapped(9))
}

func TestGeneTracker_KeepsHighestScore(t *testing.T) {
	gene := &ensembl.Gene{DBID: 42}
	genes := make(geneTracker)

	genes.observe(gene, 1, 0.8)
	genes.observe(gene, 2, 0.95)
	genes.observe(gene, 3, 0.9)

	best := genes[42]
	assert.EqualValues(t, 2, best.CoordXrefID)
	assert.InDelta(t, 0.95, best.Score, 1e-9)
}

func TestGeneTracker_TieKeepsFirst(t *testing.T) {
	gene := &ensembl.Gene{DBID: 42}
	genes := make(geneTracker)

	genes.observe(gene, 1, 0.9)
	genes.observe(gene, 2, 0.9)

	assert.EqualValues(t, 1, genes[42].CoordXrefID)
}

func TestRound3(t *testing.T) {
	assert.Equal(t, 0.9, round3(0.9004))
	assert.Equal(t, 0.9, round3(0.9001))
	assert.Equal(t, 0.901, round3(0.9006))
	assert.NotEqual(t, round3(0.9004), round3(0.8994))
}
