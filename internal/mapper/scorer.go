package mapper

import (
	"github.com/avullo/ensembl-xref/internal/coordxref"
	"github.com/avullo/ensembl-xref/internal/ensembl"
)

// Scoring weights and threshold. These are recorded verbatim in the
// analysis parameter string, so changing one here changes the other.
const (
	// ensemblWeight favours reciprocal Ensembl-side coverage over
	// fragment-side coverage, penalizing partial external mappings.
	ensemblWeight = 3.0

	// codingWeight favours agreement on coding exon structure over
	// agreement on whole-exon structure.
	codingWeight = 2.0

	// ScoreThreshold is the minimum score a candidate must exceed
	// (strictly) to be considered a mapping winner.
	ScoreThreshold = 0.75
)

// transcriptScorer scores external transcripts against one Ensembl
// transcript. The Ensembl exon and coding coverage is registered once and
// reused across all candidates for that transcript.
type transcriptScorer struct {
	tx       *ensembl.Transcript
	registry *RangeRegistry
}

func newTranscriptScorer(tx *ensembl.Transcript) *transcriptScorer {
	rr := NewRangeRegistry()
	for _, e := range tx.Exons {
		rr.CheckAndRegister(bandExon, e.Start, e.End)
		if tx.IsProteinCoding() && e.IsCoding() {
			rr.CheckAndRegister(bandCoding, e.CDSStart, e.CDSEnd)
		}
	}
	return &transcriptScorer{tx: tx, registry: rr}
}

// Score computes the weighted bidirectional overlap score in [0, 1] for one
// external transcript. Each side's match fraction is computed independently,
// then combined with fixed weights, so the result is not a plain Jaccard
// of the two exon sets.
func (s *transcriptScorer) Score(cx *coordxref.CoordXref) float64 {
	rr2 := NewRangeRegistry()

	var exonMatch, codingMatch float64
	var codingCount int

	// External -> Ensembl pass
	for i := range cx.ExonStarts {
		start, end := cx.ExonStarts[i], cx.ExonEnds[i]
		length := float64(end - start + 1)
		exonMatch += float64(s.registry.OverlapSize(bandExon, start, end)) / length
		rr2.CheckAndRegister(bandExon, start, end)

		if cx.HasCDS() {
			codingStart, codingEnd := start, end
			if cx.CDSStart > codingStart {
				codingStart = cx.CDSStart
			}
			if cx.CDSEnd < codingEnd {
				codingEnd = cx.CDSEnd
			}
			if codingStart <= codingEnd {
				codingLength := float64(codingEnd - codingStart + 1)
				codingMatch += float64(s.registry.OverlapSize(bandCoding, codingStart, codingEnd)) / codingLength
				rr2.CheckAndRegister(bandCoding, codingStart, codingEnd)
				codingCount++
			}
		}
	}

	// Reverse pass: Ensembl -> external
	var rexonMatch, rcodingMatch float64
	var rcodingCount int
	for _, e := range s.tx.Exons {
		rexonMatch += float64(rr2.OverlapSize(bandExon, e.Start, e.End)) / float64(e.Length())
		if s.tx.IsProteinCoding() && e.IsCoding() {
			codingLength := float64(e.CDSEnd - e.CDSStart + 1)
			rcodingMatch += float64(rr2.OverlapSize(bandCoding, e.CDSStart, e.CDSEnd)) / codingLength
			rcodingCount++
		}
	}

	numerator := (exonMatch + ensemblWeight*rexonMatch) +
		codingWeight*(codingMatch+ensemblWeight*rcodingMatch)
	denominator := (float64(cx.ExonCount()) + ensemblWeight*float64(len(s.tx.Exons))) +
		codingWeight*(float64(codingCount)+ensemblWeight*float64(rcodingCount))

	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
