// Package coordxref provides the external coordinate-xref source: transcript
// models supplied by an external database as genomic coordinates only.
package coordxref

import (
	"fmt"
	"strconv"
	"strings"
)

// CoordXref is one external transcript record, keyed by CoordXrefID.
// All coordinates are 1-based inclusive.
type CoordXref struct {
	CoordXrefID int64   // Surrogate key
	SourceID    int64   // External database id
	SpeciesID   int64   // Taxonomy id
	Accession   string  // External accession (possibly versioned, e.g. NM_001008409.1)
	Chrom       string  // Chromosome
	Strand      int8    // +1 or -1
	TxStart     int64   // Transcript start
	TxEnd       int64   // Transcript end
	CDSStart    int64   // CDS start, 0 if non-coding
	CDSEnd      int64   // CDS end, 0 if non-coding
	ExonStarts  []int64 // Per-exon starts, same cardinality as ExonEnds
	ExonEnds    []int64 // Per-exon ends
}

// HasCDS returns true if the record carries a coding region.
func (c *CoordXref) HasCDS() bool {
	return c.CDSStart > 0 && c.CDSEnd >= c.CDSStart
}

// ExonCount returns the number of exons.
func (c *CoordXref) ExonCount() int {
	return len(c.ExonStarts)
}

// Validate checks the structural invariants of the record. A mismatch
// between the exon start and end lists is a fatal data error: silently
// truncating would corrupt scoring downstream.
func (c *CoordXref) Validate() error {
	if len(c.ExonStarts) != len(c.ExonEnds) {
		return fmt.Errorf("coordinate xref %s: exon list mismatch: %d starts, %d ends",
			c.Accession, len(c.ExonStarts), len(c.ExonEnds))
	}
	if len(c.ExonStarts) == 0 {
		return fmt.Errorf("coordinate xref %s: no exons", c.Accession)
	}
	for i := range c.ExonStarts {
		if c.ExonStarts[i] > c.ExonEnds[i] {
			return fmt.Errorf("coordinate xref %s: exon %d: start %d > end %d",
				c.Accession, i+1, c.ExonStarts[i], c.ExonEnds[i])
		}
	}
	return nil
}

// ParseExonList parses a comma-separated list of integers, tolerating the
// trailing comma UCSC table dumps carry.
func ParseExonList(s string) ([]int64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), ",")
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse exon coordinate %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// FormatExonList renders coordinates back to the comma-separated form.
func FormatExonList(coords []int64) string {
	parts := make([]string, len(coords))
	for i, v := range coords {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(parts, ",")
}
