package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/avullo/ensembl-xref/internal/coordxref"
	"github.com/avullo/ensembl-xref/internal/store"
)

func newLoadCmd() *cobra.Command {
	var (
		coordsPath string
		speciesID  int64
		sourceID   int64
	)

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load a coordinate-xref transcript table into the xref database",
		Long: `Parses a UCSC-style transcript table (refGene and friends) and stores the
rows in the coordinate_xref table, ready for later mapping runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(coordsPath, sourceID, speciesID)
		},
	}

	cmd.Flags().StringVar(&coordsPath, "coords", "", "UCSC-style transcript table (required)")
	cmd.Flags().Int64Var(&speciesID, "species", 9606, "Species taxonomy id")
	cmd.Flags().Int64Var(&sourceID, "source-id", 0, "External database id for the rows")
	cmd.MarkFlagRequired("coords")

	return cmd
}

func runLoad(coordsPath string, sourceID, speciesID int64) error {
	rows, err := coordxref.NewTableLoader(coordsPath, sourceID, speciesID).Load()
	if err != nil {
		return err
	}

	st, err := store.Open(viper.GetString("db"))
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.InsertCoordinateXrefs(rows); err != nil {
		return err
	}

	fmt.Printf("loaded %d coordinate xrefs for species %d\n", len(rows), speciesID)
	return nil
}
