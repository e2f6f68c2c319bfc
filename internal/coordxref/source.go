package coordxref

import (
	"fmt"
	"sort"

	"github.com/biogo/store/interval"
)

// Source provides external transcript records for a species.
type Source interface {
	// All enumerates every record loaded for the species.
	All(speciesID int64) []*CoordXref

	// Overlapping returns records on the given chromosome and strand whose
	// transcript span overlaps or contains [start, end], ordered by accession.
	Overlapping(speciesID int64, chrom string, strand int8, start, end int64) []*CoordXref
}

// txInterval adapts a coordinate xref span to biogo's interval tree.
// Ranges are stored half-open, so End is the inclusive end plus one.
type txInterval struct {
	start, end int
	uid        uintptr
	record     *CoordXref
}

func (i txInterval) Overlap(b interval.IntRange) bool {
	// Half-open interval indexing.
	return i.end > b.Start && i.start < b.End
}

func (i txInterval) ID() uintptr { return i.uid }

func (i txInterval) Range() interval.IntRange {
	return interval.IntRange{Start: i.start, End: i.end}
}

func (i txInterval) String() string {
	return fmt.Sprintf("[%d,%d)#%s", i.start, i.end, i.record.Accession)
}

// speciesIndex holds one species' records and their spatial index,
// one tree per chromosome and strand.
type speciesIndex struct {
	records []*CoordXref
	trees   map[string]map[int8]*interval.IntTree
}

// MemorySource is an in-memory Source with interval-tree spatial queries.
type MemorySource struct {
	species map[int64]*speciesIndex
}

// NewMemorySource builds a source from a set of records.
func NewMemorySource(records []*CoordXref) (*MemorySource, error) {
	s := &MemorySource{species: make(map[int64]*speciesIndex)}

	var uid uintptr
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return nil, err
		}

		idx, ok := s.species[r.SpeciesID]
		if !ok {
			idx = &speciesIndex{trees: make(map[string]map[int8]*interval.IntTree)}
			s.species[r.SpeciesID] = idx
		}
		idx.records = append(idx.records, r)

		if _, ok := idx.trees[r.Chrom]; !ok {
			idx.trees[r.Chrom] = map[int8]*interval.IntTree{
				1:  {},
				-1: {},
			}
		}
		iv := txInterval{
			start:  int(r.TxStart),
			end:    int(r.TxEnd) + 1,
			uid:    uid,
			record: r,
		}
		if err := idx.trees[r.Chrom][r.Strand].Insert(iv, false); err != nil {
			return nil, fmt.Errorf("index coordinate xref %s: %w", r.Accession, err)
		}
		uid++
	}

	for _, idx := range s.species {
		for _, strands := range idx.trees {
			strands[1].AdjustRanges()
			strands[-1].AdjustRanges()
		}
	}

	return s, nil
}

// All returns every record loaded for the species.
func (s *MemorySource) All(speciesID int64) []*CoordXref {
	idx, ok := s.species[speciesID]
	if !ok {
		return nil
	}
	return idx.records
}

// Overlapping returns records overlapping [start, end] on the given
// chromosome and strand, ordered by accession.
func (s *MemorySource) Overlapping(speciesID int64, chrom string, strand int8, start, end int64) []*CoordXref {
	idx, ok := s.species[speciesID]
	if !ok {
		return nil
	}
	strands, ok := idx.trees[chrom]
	if !ok {
		return nil
	}

	query := txInterval{start: int(start), end: int(end) + 1}
	var records []*CoordXref
	for _, iv := range strands[strand].Get(query) {
		records = append(records, iv.(txInterval).record)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Accession != records[j].Accession {
			return records[i].Accession < records[j].Accession
		}
		return records[i].CoordXrefID < records[j].CoordXrefID
	})

	return records
}
