package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/avullo/ensembl-xref/internal/coordxref"
	"github.com/avullo/ensembl-xref/internal/ensembl"
	"github.com/avullo/ensembl-xref/internal/mapper"
	"github.com/avullo/ensembl-xref/internal/output"
	"github.com/avullo/ensembl-xref/internal/store"
)

func newMapCmd() *cobra.Command {
	var (
		gtfPath    string
		coordsPath string
		outputDir  string
		speciesID  int64
		sourceID   int64
		upload     bool
	)

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Run coordinate-overlap xref mapping for a species",
		Long: `Scores external transcript models against Ensembl transcripts by exon
overlap and writes four tab-separated dump files (xref, object_xref,
unmapped_reason, unmapped_object) into the output directory. With --upload
the records also replace the prior rows in the xref database.

Coordinate mapping is curated for human (9606) and mouse (10090) only;
other species are a no-op.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMap(gtfPath, coordsPath, outputDir, speciesID, sourceID, upload)
		},
	}

	cmd.Flags().StringVar(&gtfPath, "gtf", "", "Ensembl/GENCODE GTF file with gene annotations (required)")
	cmd.Flags().StringVar(&coordsPath, "coords", "", "UCSC-style transcript table (default: rows already loaded in the database)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Directory for the dump files")
	cmd.Flags().Int64Var(&speciesID, "species", 9606, "Species taxonomy id")
	cmd.Flags().Int64Var(&sourceID, "source-id", 0, "External database id for --coords rows")
	cmd.Flags().BoolVar(&upload, "upload", false, "Upload records to the xref database after dumping")
	cmd.MarkFlagRequired("gtf")

	return cmd
}

func runMap(gtfPath, coordsPath, outputDir string, speciesID, sourceID int64, upload bool) error {
	// Unusable output directory is fatal before any state mutation.
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory %s: %w", outputDir, err)
	}

	st, err := store.Open(viper.GetString("db"))
	if err != nil {
		return err
	}
	defer st.Close()

	features, err := ensembl.NewGTFLoader(gtfPath).Load()
	if err != nil {
		return err
	}
	logger.Sugar().Infof("loaded %d genes, %d transcripts from %s",
		features.GeneCount(), features.TranscriptCount(), gtfPath)

	var rows []*coordxref.CoordXref
	if coordsPath != "" {
		rows, err = coordxref.NewTableLoader(coordsPath, sourceID, speciesID).Load()
	} else {
		rows, err = st.CoordinateXrefs(speciesID)
	}
	if err != nil {
		return err
	}
	logger.Sugar().Infof("loaded %d coordinate xrefs", len(rows))

	src, err := coordxref.NewMemorySource(rows)
	if err != nil {
		return err
	}

	m := mapper.New(features, src, st, output.NewCoordWriter(outputDir))
	m.SetLogger(logger)

	result, err := m.Run(upload, speciesID)
	if err != nil {
		return err
	}

	fmt.Printf("species: %s\nmapped: %d\nunmapped: %d\nobject xrefs: %d\n",
		result.Species, result.Mapped, result.Unmapped, result.ObjectXrefs)
	return nil
}
