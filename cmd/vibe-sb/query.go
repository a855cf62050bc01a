package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/vibe-sb/internal/duckdb"
	"github.com/inodb/vibe-sb/internal/strand"
)

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "query <chrom> <pos> <ref> <alt> [sample]",
		Short:   "Look up cached strand counts",
		Example: `  vibe-sb query --db sb.duckdb 12 25245351 C A TUMOR`,
		Args:    cobra.RangeArgs(4, 5),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(viper.GetString("query.db"), args, cmd.OutOrStdout())
		},
	}

	cmd.Flags().String("db", "", "DuckDB file written by annotate --db (required)")
	viper.BindPFlag("query.db", cmd.Flags().Lookup("db"))

	return cmd
}

func runQuery(dbPath string, args []string, out io.Writer) error {
	if dbPath == "" {
		return fmt.Errorf("%w: --db is required", errUsage)
	}
	pos, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid position %q", errUsage, args[1])
	}
	sample := ""
	if len(args) == 5 {
		sample = args[4]
	}

	store, err := duckdb.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.LookupStrandCounts(args[0], pos, args[2], args[3], sample)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no strand counts cached for %s:%d %s>%s", args[0], pos, args[2], args[3])
	}

	fmt.Fprintln(out, "SAMPLE\tREF_FWD\tREF_REV\tALT_FWD\tALT_REV")
	for _, r := range results {
		fmt.Fprintf(out, "%s\t%d\t%d\t%d\t%d\n", r.Sample,
			r.Counts[0], r.Counts[1], strand.AltForwardCount(r.Counts), strand.AltReverseCount(r.Counts))
	}
	return nil
}
