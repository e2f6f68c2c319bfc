package ensembl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// GTFLoader loads gene and transcript features from an Ensembl/GENCODE GTF file.
type GTFLoader struct {
	path string
}

// NewGTFLoader creates a new GTF loader.
func NewGTFLoader(path string) *GTFLoader {
	return &GTFLoader{path: path}
}

// Load parses the GTF file and returns a feature set restricted to
// chromosome-level sequence regions.
func (l *GTFLoader) Load() (*FeatureSet, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open GTF file: %w", err)
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

// gtfFeature represents a parsed GTF line.
type gtfFeature struct {
	chrom       string
	featureType string
	start       int64
	end         int64
	strand      string
	attributes  map[string]string
}

// parse reads GTF content and assembles genes with transcripts and exons.
func (l *GTFLoader) parse(reader io.Reader) (*FeatureSet, error) {
	scanner := bufio.NewScanner(reader)
	// Increase buffer size for long lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	genes := make(map[string]*Gene)
	transcripts := make(map[string]*Transcript)
	exonsByTranscript := make(map[string][]Exon)
	cdsByTranscript := make(map[string][][2]int64)
	geneOfTranscript := make(map[string]string)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		feat, err := parseLine(line)
		if err != nil {
			continue // Skip malformed lines
		}

		switch feat.featureType {
		case "gene":
			geneID := stripVersion(feat.attributes["gene_id"])
			if geneID == "" {
				continue
			}
			genes[geneID] = &Gene{
				ID:      geneID,
				Name:    feat.attributes["gene_name"],
				Chrom:   feat.chrom,
				Start:   feat.start,
				End:     feat.end,
				Strand:  parseStrand(feat.strand),
				Biotype: feat.attributes["gene_biotype"],
			}

		case "transcript":
			transcriptID := stripVersion(feat.attributes["transcript_id"])
			if transcriptID == "" {
				continue
			}
			transcripts[transcriptID] = &Transcript{
				ID:       transcriptID,
				GeneID:   stripVersion(feat.attributes["gene_id"]),
				GeneName: feat.attributes["gene_name"],
				Chrom:    feat.chrom,
				Start:    feat.start,
				End:      feat.end,
				Strand:   parseStrand(feat.strand),
				Biotype:  feat.attributes["transcript_biotype"],
			}
			geneOfTranscript[transcriptID] = stripVersion(feat.attributes["gene_id"])

		case "exon":
			transcriptID := stripVersion(feat.attributes["transcript_id"])
			if transcriptID == "" {
				continue
			}
			exonNum, _ := strconv.Atoi(feat.attributes["exon_number"])
			exonsByTranscript[transcriptID] = append(exonsByTranscript[transcriptID], Exon{
				Number: exonNum,
				Start:  feat.start,
				End:    feat.end,
			})

		case "CDS":
			transcriptID := stripVersion(feat.attributes["transcript_id"])
			if transcriptID == "" {
				continue
			}
			cdsByTranscript[transcriptID] = append(cdsByTranscript[transcriptID], [2]int64{feat.start, feat.end})
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan GTF: %w", err)
	}

	// Assemble transcripts with exons and CDS sub-ranges
	for id, t := range transcripts {
		exons := exonsByTranscript[id]
		if len(exons) == 0 {
			continue
		}

		sort.Slice(exons, func(i, j int) bool {
			return exons[i].Start < exons[j].Start
		})

		if cdsRegions := cdsByTranscript[id]; len(cdsRegions) > 0 {
			t.CDSStart = cdsRegions[0][0]
			t.CDSEnd = cdsRegions[0][1]
			for _, region := range cdsRegions[1:] {
				if region[0] < t.CDSStart {
					t.CDSStart = region[0]
				}
				if region[1] > t.CDSEnd {
					t.CDSEnd = region[1]
				}
			}
		}

		// Mark the coding portion of each exon overlapping the CDS
		if t.IsProteinCoding() {
			for i := range exons {
				e := &exons[i]
				if e.End >= t.CDSStart && e.Start <= t.CDSEnd {
					e.CDSStart = max(e.Start, t.CDSStart)
					e.CDSEnd = min(e.End, t.CDSEnd)
				}
			}
		}

		t.Exons = exons

		gene, ok := genes[geneOfTranscript[id]]
		if !ok {
			// GTF without explicit gene lines: synthesize from the transcript
			gene = &Gene{
				ID:      t.GeneID,
				Name:    t.GeneName,
				Chrom:   t.Chrom,
				Start:   t.Start,
				End:     t.End,
				Strand:  t.Strand,
				Biotype: t.Biotype,
			}
			genes[t.GeneID] = gene
		}
		if t.Start < gene.Start {
			gene.Start = t.Start
		}
		if t.End > gene.End {
			gene.End = t.End
		}
		gene.Transcripts = append(gene.Transcripts, t)
	}

	set := NewFeatureSet()
	for _, g := range genes {
		if len(g.Transcripts) == 0 {
			continue
		}
		set.AddGene(g)
	}
	set.sortGenes()
	set.assignDBIDs()

	return set, nil
}

// assignDBIDs gives genes and transcripts sequential internal ids in
// deterministic (chromosome, start) order.
func (s *FeatureSet) assignDBIDs() {
	var geneID, transcriptID int64
	for _, chrom := range s.Chromosomes() {
		for _, g := range s.genes[chrom] {
			geneID++
			g.DBID = geneID
			for _, t := range g.Transcripts {
				transcriptID++
				t.DBID = transcriptID
			}
		}
	}
}

// parseLine parses a single GTF line.
func parseLine(line string) (*gtfFeature, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 9 {
		return nil, fmt.Errorf("invalid GTF line: expected 9 fields, got %d", len(fields))
	}

	start, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse start: %w", err)
	}

	end, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse end: %w", err)
	}

	return &gtfFeature{
		chrom:       NormalizeChrom(fields[0]),
		featureType: fields[2],
		start:       start,
		end:         end,
		strand:      fields[6],
		attributes:  parseAttributes(fields[8]),
	}, nil
}

// parseAttributes parses the GTF attribute column.
// Format: key "value"; key "value"; ...
func parseAttributes(attrStr string) map[string]string {
	attrs := make(map[string]string)

	for _, part := range strings.Split(attrStr, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		idx := strings.Index(part, " ")
		if idx == -1 {
			continue
		}

		key := part[:idx]
		value := strings.Trim(strings.TrimSpace(part[idx+1:]), "\"")
		attrs[key] = value
	}

	return attrs
}

// parseStrand converts a strand string to int8.
func parseStrand(s string) int8 {
	if s == "-" {
		return -1
	}
	return 1
}

// stripVersion removes the version suffix from an Ensembl ID.
// e.g. "ENST00000456328.2" -> "ENST00000456328"
func stripVersion(id string) string {
	if idx := strings.LastIndex(id, "."); idx != -1 {
		return id[:idx]
	}
	return id
}

// NormalizeChrom normalizes chromosome names by removing the "chr" prefix,
// for consistency between GENCODE-style and Ensembl-style sources.
func NormalizeChrom(chrom string) string {
	if strings.HasPrefix(chrom, "chr") {
		return chrom[3:]
	}
	return chrom
}
