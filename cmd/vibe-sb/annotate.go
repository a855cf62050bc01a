package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-sb/internal/annotate"
	"github.com/inodb/vibe-sb/internal/duckdb"
	"github.com/inodb/vibe-sb/internal/likelihood"
	"github.com/inodb/vibe-sb/internal/output"
	"github.com/inodb/vibe-sb/internal/vcf"
)

func newAnnotateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "annotate [options] <input.vcf>",
		Short: "Add per-sample strand counts (SB) to a VCF",
		Long: `Annotate every called genotype of a VCF with the SB FORMAT field:
forward and reverse read counts for the reference and alternate alleles,
computed from per-read allele likelihoods in an evidence file.

The evidence file is tab-separated with the header
  chrom pos ref alt sample read contig start end strand ref_lk alt_lk
and may be gzip-compressed.`,
		Example: `  vibe-sb annotate --evidence reads.tsv input.vcf > output.vcf
  vibe-sb annotate -e reads.tsv.gz -f tab -o counts.tsv input.vcf.gz
  vibe-sb annotate -e reads.tsv --db sb.duckdb input.vcf
  cat input.vcf | vibe-sb annotate -e reads.tsv -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnnotate(args[0], annotateOptions{
				evidence:     viper.GetString("annotate.evidence"),
				outputFormat: viper.GetString("annotate.output-format"),
				outputFile:   viper.GetString("annotate.output"),
				dbPath:       viper.GetString("annotate.db"),
				workers:      viper.GetInt("annotate.workers"),
				logLevel:     viper.GetString("log.level"),
			}, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringP("evidence", "e", "", "Per-read allele likelihood file (required)")
	flags.StringP("output-format", "f", "vcf", "Output format: vcf, tab")
	flags.StringP("output", "o", "", "Output file (default: stdout)")
	flags.String("db", "", "DuckDB file to cache strand counts in (optional)")
	flags.Int("workers", 0, "Annotation workers (default: number of CPUs)")

	viper.BindPFlag("annotate.evidence", flags.Lookup("evidence"))
	viper.BindPFlag("annotate.output-format", flags.Lookup("output-format"))
	viper.BindPFlag("annotate.output", flags.Lookup("output"))
	viper.BindPFlag("annotate.db", flags.Lookup("db"))
	viper.BindPFlag("annotate.workers", flags.Lookup("workers"))

	return cmd
}

type annotateOptions struct {
	evidence     string
	outputFormat string
	outputFile   string
	dbPath       string
	workers      int
	logLevel     string
}

func runAnnotate(inputPath string, opts annotateOptions, stdout io.Writer) error {
	if opts.evidence == "" {
		return fmt.Errorf("%w: --evidence is required", errUsage)
	}
	if opts.outputFormat != "vcf" && opts.outputFormat != "tab" {
		return fmt.Errorf("%w: unknown output format %q", errUsage, opts.outputFormat)
	}

	logger, err := newLogger(opts.logLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	parser, err := vcf.NewParser(inputPath)
	if err != nil {
		return err
	}
	defer parser.Close()

	evidence, err := likelihood.Load(opts.evidence)
	if err != nil {
		return err
	}
	logger.Info("loaded evidence",
		zap.String("path", opts.evidence),
		zap.Int("sites", evidence.SiteCount()),
		zap.Int("reads", evidence.ReadCount()))

	sb := annotate.NewStrandBiasBySample()
	sb.SetLogger(logger)
	ann := annotate.NewAnnotator(evidence, sb)
	ann.SetLogger(logger)
	ann.SetWorkers(opts.workers)

	out := stdout
	if opts.outputFile != "" {
		f, err := os.Create(opts.outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	var writer annotate.VariantWriter
	switch opts.outputFormat {
	case "vcf":
		vw := output.NewVCFWriter(out, parser.Header())
		vw.SetFormatLines(ann.HeaderLines())
		writer = vw
	case "tab":
		writer = output.NewTabWriter(out)
	}

	if opts.dbPath != "" {
		store, err := openResultStore(opts.dbPath, opts.evidence, logger)
		if err != nil {
			return err
		}
		defer store.Close()
		writer = newRecordingWriter(writer, store)
	}

	if err := writer.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	return ann.AnnotateAll(parser, writer)
}

// openResultStore opens the cache and clears it when it was built from a
// different evidence file.
func openResultStore(dbPath, evidencePath string, logger *zap.Logger) (*duckdb.Store, error) {
	store, err := duckdb.Open(dbPath)
	if err != nil {
		return nil, err
	}

	fp, err := duckdb.StatFile(evidencePath)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("stat evidence file: %w", err)
	}

	match, err := store.SourceMatches(fp)
	if err != nil {
		store.Close()
		return nil, err
	}
	if !match {
		logger.Info("evidence changed, clearing cached strand counts", zap.String("db", dbPath))
		if err := store.ClearStrandCounts(); err != nil {
			store.Close()
			return nil, fmt.Errorf("clear strand counts: %w", err)
		}
		if err := store.SetSource(fp); err != nil {
			store.Close()
			return nil, err
		}
	}
	return store, nil
}
