package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/avullo/ensembl-xref/internal/checksum"
	"github.com/avullo/ensembl-xref/internal/store"
)

func newChecksumCmd() *cobra.Command {
	var (
		fastaPath  string
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "checksum",
		Short: "Match protein sequences to UniParc accessions by MD5",
		Long: `Digests every sequence in a FASTA file and matches it against the
checksum_xref table. Matches are written as tab-separated (id, accession)
pairs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChecksum(fastaPath, outputFile)
		},
	}

	cmd.Flags().StringVar(&fastaPath, "fasta", "", "Protein FASTA file (required)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.MarkFlagRequired("fasta")

	return cmd
}

func runChecksum(fastaPath, outputFile string) error {
	seqs, err := checksum.ReadFASTA(fastaPath)
	if err != nil {
		return err
	}

	st, err := store.Open(viper.GetString("db"))
	if err != nil {
		return err
	}
	defer st.Close()

	m := checksum.NewMapper(st, checksum.WithLogger(logger))
	matches, err := m.Map(seqs)
	if err != nil {
		return err
	}

	out := os.Stdout
	if outputFile != "" {
		out, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer out.Close()
	}

	w := bufio.NewWriter(out)
	for _, match := range matches {
		fmt.Fprintf(w, "%s\t%s\n", match.ID, match.Accession)
	}
	return w.Flush()
}
