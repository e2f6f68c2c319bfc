// Package mapper implements the coordinate-overlap xref mapping core:
// interval coverage bookkeeping, exon overlap scoring, winner selection and
// record emission for bulk loading.
package mapper

import "sort"

// Band names used by the coordinate mapper.
const (
	bandExon   = "exon"
	bandCoding = "coding"
)

// span is a closed interval of covered positions.
type span struct {
	start, end int64
}

// RangeRegistry tracks interval coverage per named band. Coordinates are
// 1-based inclusive; overlap values count covered positions. Bands are
// created implicitly on first use.
type RangeRegistry struct {
	bands map[string][]span
}

// NewRangeRegistry creates an empty registry.
func NewRangeRegistry() *RangeRegistry {
	return &RangeRegistry{bands: make(map[string][]span)}
}

// CheckAndRegister merges [start, end] into the band's coverage and returns
// the number of positions that were already covered before this call.
// Intervals with start > end are treated as zero-length.
func (r *RangeRegistry) CheckAndRegister(band string, start, end int64) int64 {
	if start > end {
		return 0
	}

	spans := r.bands[band]
	overlap := overlapSize(spans, start, end)

	// Find the window of spans overlapping or adjacent to [start, end]
	// and fold them into one.
	i := sort.Search(len(spans), func(i int) bool {
		return spans[i].end >= start-1
	})
	j := i
	merged := span{start: start, end: end}
	for j < len(spans) && spans[j].start <= end+1 {
		if spans[j].start < merged.start {
			merged.start = spans[j].start
		}
		if spans[j].end > merged.end {
			merged.end = spans[j].end
		}
		j++
	}

	out := make([]span, 0, len(spans)-(j-i)+1)
	out = append(out, spans[:i]...)
	out = append(out, merged)
	out = append(out, spans[j:]...)
	r.bands[band] = out

	return overlap
}

// OverlapSize returns the number of positions in [start, end] currently
// covered in the band, without modifying state.
func (r *RangeRegistry) OverlapSize(band string, start, end int64) int64 {
	if start > end {
		return 0
	}
	return overlapSize(r.bands[band], start, end)
}

func overlapSize(spans []span, start, end int64) int64 {
	var total int64
	for _, s := range spans {
		if s.end < start {
			continue
		}
		if s.start > end {
			break
		}
		lo, hi := start, end
		if s.start > lo {
			lo = s.start
		}
		if s.end < hi {
			hi = s.end
		}
		total += hi - lo + 1
	}
	return total
}
