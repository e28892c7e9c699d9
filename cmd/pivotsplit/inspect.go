package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hupe1980/pivotsplit/component"
	"github.com/hupe1980/pivotsplit/kmer"
)

func newInspectCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <components-file>",
		Short: "Summarize a components file",
		Long: `Inspect prints totals and the statistics table of a components file.
Pivot counts are not stored in the file and show as 0.

With --show N the k-mers of component N are printed instead; --k is then
required to decode them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			comps, err := component.LoadFile(nil, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if show := g.v.GetInt("show"); show > 0 {
				if show > len(comps) {
					return fmt.Errorf("component %d out of range 1..%d", show, len(comps))
				}
				k := g.v.GetInt("k")
				if err := kmer.ValidateK(k); err != nil {
					return err
				}
				for _, km := range comps[show-1].Kmers {
					fmt.Fprintln(out, kmer.String(km, k))
				}
				return nil
			}

			s := component.Summarize(comps)
			fmt.Fprintf(out, "components: %s\n", humanize.Comma(int64(s.Components)))
			fmt.Fprintf(out, "k-mers:     %s\n", humanize.Comma(s.Kmers))
			fmt.Fprintf(out, "weight:     %s\n", humanize.Comma(s.Weight))
			fmt.Fprintf(out, "largest:    %s\n", humanize.Comma(s.Largest))

			if top := g.v.GetInt("top"); top >= 0 && top < len(comps) {
				comps = comps[:top]
			}
			return component.WriteStats(out, comps)
		},
	}

	f := cmd.Flags()
	f.Int("top", 20, "rows of the statistics table to print (-1 for all)")
	f.Int("show", 0, "print the k-mers of the component with this number")
	f.IntP("k", "k", 0, "k-mer size, required with --show")
	return cmd
}
