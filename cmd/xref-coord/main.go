// Package main provides the xref-coord command-line tool.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// logger is installed by the root command before any subcommand runs.
var logger = zap.NewNop()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "xref-coord",
		Short: "Ensembl xref coordinate mapping pipeline",
		Long: `xref-coord loads external transcript models supplied as genomic
coordinates, scores them against Ensembl transcripts by exon overlap, and
produces bulk-loadable xref records for the matches.`,
		Example: `  # Load a UCSC-style transcript table into the xref database
  xref-coord load --coords refseq.txt.gz --source-id 11 --species 9606

  # Run coordinate mapping and write dump files
  xref-coord map --gtf gencode.gtf.gz --species 9606 --output ./dumps

  # Run mapping and upload the results
  xref-coord map --gtf gencode.gtf.gz --species 9606 --output ./dumps --upload`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initConfig()
			return initLogger()
		},
	}

	root.PersistentFlags().Bool("verbose", false, "Enable verbose logging")
	root.PersistentFlags().String("db", "xref.duckdb", "Path to the xref DuckDB database")
	viper.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("db", root.PersistentFlags().Lookup("db"))

	root.AddCommand(newMapCmd())
	root.AddCommand(newLoadCmd())
	root.AddCommand(newChecksumCmd())
	root.AddCommand(newConfigCmd())

	return root
}

// initConfig wires viper to ~/.xref-coord.yaml and XREF_* environment
// variables. A missing config file is not an error.
func initConfig() {
	viper.SetConfigName(".xref-coord")
	viper.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("XREF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

func initLogger() error {
	var err error
	if viper.GetBool("verbose") {
		logger, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.DisableStacktrace = true
		logger, err = cfg.Build()
	}
	return err
}
