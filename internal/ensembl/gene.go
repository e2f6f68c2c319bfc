// Package ensembl provides the Ensembl feature source for xref mapping.
package ensembl

import "sort"

// Gene represents a genomic region with associated transcripts.
type Gene struct {
	DBID        int64         // Internal numeric id
	ID          string        // Gene stable ID (e.g. ENSG00000133703)
	Name        string        // Gene symbol (e.g. KRAS)
	Chrom       string        // Chromosome
	Start       int64         // Gene start position (1-based)
	End         int64         // Gene end position (1-based, inclusive)
	Strand      int8          // +1 (forward) or -1 (reverse)
	Biotype     string        // Gene biotype (e.g. protein_coding)
	Transcripts []*Transcript // Associated transcripts
}

// IsForwardStrand returns true if the gene is on the forward strand.
func (g *Gene) IsForwardStrand() bool {
	return g.Strand == 1
}

// IsReverseStrand returns true if the gene is on the reverse strand.
func (g *Gene) IsReverseStrand() bool {
	return g.Strand == -1
}

// Contains returns true if the given position is within the gene boundaries.
func (g *Gene) Contains(pos int64) bool {
	return pos >= g.Start && pos <= g.End
}

// SortTranscripts orders the gene's transcripts by genomic start.
func (g *Gene) SortTranscripts() {
	sort.Slice(g.Transcripts, func(i, j int) bool {
		return g.Transcripts[i].Start < g.Transcripts[j].Start
	})
}
