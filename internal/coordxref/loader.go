package coordxref

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// TableLoader reads UCSC-style transcript tables (refGene and friends) into
// coordinate xref records. Input coordinates are 0-based half-open; records
// are converted to the 1-based inclusive model used everywhere else.
//
// Expected tab-separated columns:
//
//	accession  chrom  strand  txStart  txEnd  cdsStart  cdsEnd  exonCount  exonStarts  exonEnds
type TableLoader struct {
	path      string
	sourceID  int64
	speciesID int64
}

// NewTableLoader creates a loader for the given file and source/species ids.
func NewTableLoader(path string, sourceID, speciesID int64) *TableLoader {
	return &TableLoader{path: path, sourceID: sourceID, speciesID: speciesID}
}

// Load parses the whole table, assigning sequential CoordXrefIDs starting at 1.
func (l *TableLoader) Load() ([]*CoordXref, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open coordinate xref file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(l.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return l.parse(reader)
}

func (l *TableLoader) parse(reader io.Reader) ([]*CoordXref, error) {
	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var records []*CoordXref
	var nextID int64
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		nextID++
		record, err := l.parseLine(line, nextID)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if err := record.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan coordinate xref file: %w", err)
	}

	return records, nil
}

func (l *TableLoader) parseLine(line string, id int64) (*CoordXref, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 10 {
		return nil, fmt.Errorf("expected 10 fields, got %d", len(fields))
	}

	txStart, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse txStart: %w", err)
	}
	txEnd, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse txEnd: %w", err)
	}
	cdsStart, err := strconv.ParseInt(fields[5], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse cdsStart: %w", err)
	}
	cdsEnd, err := strconv.ParseInt(fields[6], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse cdsEnd: %w", err)
	}
	exonCount, err := strconv.Atoi(fields[7])
	if err != nil {
		return nil, fmt.Errorf("parse exonCount: %w", err)
	}
	exonStarts, err := ParseExonList(fields[8])
	if err != nil {
		return nil, fmt.Errorf("parse exonStarts: %w", err)
	}
	exonEnds, err := ParseExonList(fields[9])
	if err != nil {
		return nil, fmt.Errorf("parse exonEnds: %w", err)
	}
	if len(exonStarts) != exonCount || len(exonEnds) != exonCount {
		return nil, fmt.Errorf("accession %s: exonCount %d does not match exon lists (%d starts, %d ends)",
			fields[0], exonCount, len(exonStarts), len(exonEnds))
	}

	record := &CoordXref{
		CoordXrefID: id,
		SourceID:    l.sourceID,
		SpeciesID:   l.speciesID,
		Accession:   fields[0],
		Chrom:       normalizeChrom(fields[1]),
		Strand:      parseStrand(fields[2]),
		TxStart:     txStart + 1, // 0-based half-open -> 1-based inclusive
		TxEnd:       txEnd,
		ExonStarts:  shiftStarts(exonStarts),
		ExonEnds:    exonEnds,
	}

	// UCSC marks non-coding transcripts with cdsStart == cdsEnd
	if cdsStart < cdsEnd {
		record.CDSStart = cdsStart + 1
		record.CDSEnd = cdsEnd
	}

	return record, nil
}

// shiftStarts converts 0-based exon starts to 1-based in place.
func shiftStarts(starts []int64) []int64 {
	for i := range starts {
		starts[i]++
	}
	return starts
}

func parseStrand(s string) int8 {
	if s == "-" {
		return -1
	}
	return 1
}

func normalizeChrom(chrom string) string {
	if strings.HasPrefix(chrom, "chr") {
		return chrom[3:]
	}
	return chrom
}
