package mapper

import (
	"fmt"
	"math"
	"sort"

	"github.com/avullo/ensembl-xref/internal/ensembl"
)

// GeneCandidate is the best external transcript confirmed for a gene,
// consumed downstream by gene-level xref reconciliation.
type GeneCandidate struct {
	CoordXrefID int64
	Score       float64
}

// geneTracker remembers the highest winning transcript-level score per gene.
// Ties keep whichever candidate confirmed first.
type geneTracker map[int64]GeneCandidate

func (g geneTracker) observe(gene *ensembl.Gene, coordXrefID int64, score float64) {
	if best, ok := g[gene.DBID]; ok && score <= best.Score {
		return
	}
	g[gene.DBID] = GeneCandidate{CoordXrefID: coordXrefID, Score: score}
}

// selectWinners applies the threshold and tie policy for one Ensembl
// transcript. scores holds the best score per external transcript observed
// for this transcript. Candidates are walked in descending score order; the
// first score is the running best, and every candidate above the threshold
// whose score ties the best at 3-decimal precision is confirmed as a winner.
func selectWinners(tx *ensembl.Transcript, gene *ensembl.Gene, scores map[int64]float64, acc *Accumulator, genes geneTracker) {
	if len(scores) == 0 {
		return
	}

	ids := make([]int64, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if scores[ids[i]] != scores[ids[j]] {
			return scores[ids[i]] > scores[ids[j]]
		}
		return ids[i] < ids[j]
	})

	var bestScore float64
	haveBest := false

	for _, id := range ids {
		score := scores[id]
		if score > ScoreThreshold {
			if !haveBest {
				bestScore = score
				haveBest = true
			}
			if round3(score) == round3(bestScore) {
				acc.Confirm(id, tx)
				genes.observe(gene, id, score)
			} else {
				acc.MarkNotBest(id, score, bestScore, tx)
			}
		} else {
			acc.MarkBelowThreshold(id, score, ScoreThreshold, tx)
		}
	}
}

// round3 rounds to 3 decimal places. Two scores differing only beyond the
// third decimal are treated as tied.
func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}

// sprintfScore renders a reason detail carrying a 2-decimal score.
func sprintfScore(format string, score float64) string {
	return fmt.Sprintf(format, score)
}
