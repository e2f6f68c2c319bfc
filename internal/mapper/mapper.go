package mapper

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/avullo/ensembl-xref/internal/coordxref"
	"github.com/avullo/ensembl-xref/internal/ensembl"
)

// Analysis registry identity for coordinate mapping runs.
const (
	AnalysisLogicName  = "xrefcoordinatemapping"
	AnalysisParameters = "weights(coding,ensembl)=2.00,3.00;transcript_score_threshold=0.75"
)

// mappedSpecies restricts coordinate mapping to the species it is curated
// for. Any other species is a silent no-op.
var mappedSpecies = map[int64]string{
	9606:  "homo_sapiens",
	10090: "mus_musculus",
}

// RecordWriter persists the emitted record streams, typically as
// tab-separated dump files mirroring the target table columns.
type RecordWriter interface {
	WriteRecords(rs *RecordSet) error
}

// Result summarizes one mapping run.
type Result struct {
	Species     string
	Mapped      int
	Unmapped    int
	ObjectXrefs int

	// GeneBest is the per-gene best external candidate side channel,
	// keyed by gene internal id, consumed by gene-level xref fixups.
	GeneBest map[int64]GeneCandidate
}

// Mapper runs coordinate-overlap mapping for one species: it scores every
// spatially overlapping external transcript against every Ensembl
// transcript, selects winners, and emits bulk-loadable xref records.
type Mapper struct {
	features ensembl.FeatureSource
	coords   coordxref.Source
	store    XrefStore
	writer   RecordWriter
	logger   *zap.Logger
}

// New creates a mapper over the given sources and sinks.
func New(features ensembl.FeatureSource, coords coordxref.Source, store XrefStore, writer RecordWriter) *Mapper {
	return &Mapper{
		features: features,
		coords:   coords,
		store:    store,
		writer:   writer,
		logger:   zap.NewNop(),
	}
}

// SetLogger sets the logger for progress and warning messages.
func (m *Mapper) SetLogger(l *zap.Logger) {
	m.logger = l
}

// Run performs the whole mapping pass for a species: dump files are always
// written through the RecordWriter; the store upload happens only when
// doUpload is true. Species without curated coordinate mapping return
// immediately with an empty result.
func (m *Mapper) Run(doUpload bool, speciesID int64) (*Result, error) {
	species, ok := mappedSpecies[speciesID]
	if !ok {
		m.logger.Info("coordinate mapping not enabled for species",
			zap.Int64("species_id", speciesID))
		return &Result{}, nil
	}

	analysisID, err := m.store.EnsureAnalysis(AnalysisLogicName, AnalysisParameters, doUpload)
	if err != nil {
		return nil, fmt.Errorf("ensure analysis %q: %w", AnalysisLogicName, err)
	}

	rows := m.coords.All(speciesID)
	if len(rows) == 0 {
		m.logger.Warn("no coordinate xrefs for species",
			zap.String("species", species),
			zap.Int64("species_id", speciesID))
		return &Result{Species: species}, nil
	}

	acc := NewAccumulator()
	for _, cx := range rows {
		acc.Init(cx)
	}
	genes := make(geneTracker)

	for _, chrom := range m.features.Chromosomes() {
		transcriptCount := 0
		for _, gene := range m.features.Genes(chrom) {
			gene.SortTranscripts()
			for _, tx := range gene.Transcripts {
				transcriptCount++
				scorer := newTranscriptScorer(tx)

				scores := make(map[int64]float64)
				for _, cx := range m.coords.Overlapping(speciesID, tx.Chrom, tx.Strand, tx.Start, tx.End) {
					score := scorer.Score(cx)
					if best, ok := scores[cx.CoordXrefID]; !ok || score > best {
						scores[cx.CoordXrefID] = score
					}
				}

				selectWinners(tx, gene, scores, acc, genes)
			}
		}
		m.logger.Info("chromosome mapped",
			zap.String("chromosome", chrom),
			zap.Int("transcripts", transcriptCount))
	}

	rs, err := buildRecords(acc, m.store, speciesID, analysisID)
	if err != nil {
		return nil, err
	}

	if err := m.writer.WriteRecords(rs); err != nil {
		return nil, fmt.Errorf("write coordinate xref records: %w", err)
	}

	if doUpload {
		if err := m.store.ReplaceCoordinateXrefs(rs); err != nil {
			return nil, fmt.Errorf("upload coordinate xrefs: %w", err)
		}
	}

	result := &Result{
		Species:     species,
		Mapped:      len(acc.Mapped()),
		Unmapped:    len(acc.Unmapped()),
		ObjectXrefs: len(rs.ObjectXrefs),
		GeneBest:    genes,
	}
	m.logger.Info("coordinate mapping finished",
		zap.String("species", species),
		zap.Int("mapped", result.Mapped),
		zap.Int("unmapped", result.Unmapped),
		zap.Bool("uploaded", doUpload))

	return result, nil
}
