package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hupe1980/pivotsplit"
)

func newExtractCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract graph components around pivot k-mers",
		Long: `Extract loads the k-mer frequency store and both pivot stores, grows
one component per unconsumed class-1 pivot and writes

  <work-dir>/components-stat.txt   one TSV row per component
  <work-dir>/components.bin        the components (or --components-file)

With --publish-url both files are uploaded afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := pivotsplit.DefaultConfig()
			if err := g.unmarshal(&cfg); err != nil {
				return err
			}
			logger, err := g.logger()
			if err != nil {
				return err
			}

			res, err := pivotsplit.Run(cmd.Context(), cfg, pivotsplit.WithLogger(logger))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "components: %s\n", humanize.Comma(int64(res.Summary.Components)))
			fmt.Fprintf(out, "k-mers:     %s\n", humanize.Comma(res.Summary.Kmers))
			fmt.Fprintf(out, "written:    %s, %s\n", res.ComponentsFile, res.StatsFile)
			if cfg.ResidualFile != "" {
				fmt.Fprintf(out, "residual:   %s k-mers in %s\n", humanize.Comma(res.Residual), cfg.ResidualFile)
			}
			for _, name := range res.Published {
				fmt.Fprintf(out, "published:  %s\n", name)
			}
			fmt.Fprintf(out, "elapsed:    %s\n", res.Elapsed.Round(time.Millisecond))
			return nil
		},
	}

	def := pivotsplit.DefaultConfig()
	f := cmd.Flags()
	f.IntP("k", "k", 0, "k-mer size")
	f.StringP("kmers", "i", "", "frequency store snapshot with graph k-mers")
	f.String("pivot", "", "store snapshot with class-1 pivot k-mers")
	f.String("pivot2", "", "store snapshot with class-2 pivot k-mers")
	f.StringP("work-dir", "w", def.WorkDir, "directory for the output files")
	f.String("components-file", "", "file to write found components to (default <work-dir>/components.bin)")
	f.Int("min-pivots", def.MinPivots, "minimum number of class-1 pivots to consider a branch significant")
	f.Float64("pivots-quotient", def.PivotsQuotient, "minimum quotient of class-1 to class-2 pivots to keep a branch")
	f.Bool("restore-on-reject", def.RestoreOnReject, "un-mark the k-mers of rejected branches")
	f.Int("used-freq-threshold", def.UsedFreqThreshold, "frequency threshold recorded on every component")
	f.String("residual-file", "", "save the unconsumed graph k-mers to this snapshot")
	f.String("residual-compression", "none", "residual snapshot compression: none, lz4 or zstd")
	f.String("memory-limit", "", "cap on store memory, e.g. 8GiB (default unlimited)")
	f.Int("workers", def.Workers, "snapshots loaded concurrently")
	f.String("io-limit", "", "upload throughput cap per second, e.g. 50MiB (default unlimited)")
	f.String("publish-url", "", "upload artifacts to file://dir, s3://bucket/prefix or minio://host/bucket/prefix")
	f.String("publish-lock-table", "", "DynamoDB table used to claim the publish target")
	f.String("run-id", "", "run identifier for logs and published blob names")
	f.Duration("progress-interval", def.ProgressInterval, "minimum delay between progress log lines")
	return cmd
}
