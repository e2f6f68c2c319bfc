// Package ensembl provides the Ensembl feature source for xref mapping.
package ensembl

// Transcript represents a specific gene isoform.
type Transcript struct {
	DBID     int64  // Internal numeric id
	ID       string // Stable ID (e.g. ENST00000217347)
	GeneID   string // Parent gene stable ID
	GeneName string // Parent gene symbol
	Chrom    string // Chromosome
	Start    int64  // Transcript start (1-based)
	End      int64  // Transcript end (1-based, inclusive)
	Strand   int8   // +1 or -1
	Biotype  string // Transcript biotype
	Exons    []Exon // Exons ordered by genomic start
	CDSStart int64  // CDS start (genomic, 1-based), 0 if non-coding
	CDSEnd   int64  // CDS end (genomic, 1-based), 0 if non-coding
}

// Exon represents a single exon within a transcript.
type Exon struct {
	Number   int   // Exon number (1-based)
	Start    int64 // Genomic start (1-based)
	End      int64 // Genomic end (1-based, inclusive)
	CDSStart int64 // CDS portion start, 0 if entirely non-coding
	CDSEnd   int64 // CDS portion end, 0 if entirely non-coding
}

// IsProteinCoding returns true if the transcript has a coding sequence.
func (t *Transcript) IsProteinCoding() bool {
	return t.CDSStart > 0 && t.CDSEnd > 0
}

// IsForwardStrand returns true if the transcript is on the forward strand.
func (t *Transcript) IsForwardStrand() bool {
	return t.Strand == 1
}

// IsReverseStrand returns true if the transcript is on the reverse strand.
func (t *Transcript) IsReverseStrand() bool {
	return t.Strand == -1
}

// Contains returns true if the given position is within the transcript boundaries.
func (t *Transcript) Contains(pos int64) bool {
	return pos >= t.Start && pos <= t.End
}

// Length returns the exon length in genomic positions.
func (e *Exon) Length() int64 {
	return e.End - e.Start + 1
}

// IsCoding returns true if the exon contains coding sequence.
func (e *Exon) IsCoding() bool {
	return e.CDSStart > 0 && e.CDSEnd > 0
}
