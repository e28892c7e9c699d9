package main

import (
	"fmt"
	"math/bits"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hupe1980/pivotsplit/component"
	"github.com/hupe1980/pivotsplit/store"
)

func newCompareCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <components-file>...",
		Short: "Compare the k-mer coverage of several components files",
		Long: `Compare tags every k-mer with the components files it occurs in and
prints how many k-mers share each combination of files. With --out the
k-mer -> file-set map is saved as a store snapshot.`,
		Args: cobra.RangeArgs(1, 64),
		RunE: func(cmd *cobra.Command, args []string) error {
			lists := make([][]*component.Component, len(args))
			for i, path := range args {
				comps, err := component.LoadFile(nil, path)
				if err != nil {
					return err
				}
				lists[i] = comps
			}

			m, err := component.Membership(lists)
			if err != nil {
				return err
			}
			defer m.Close()

			counts := make(map[uint64]int64)
			for _, b := range m.All() {
				var mask uint64
				for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
					mask |= 1 << i
				}
				counts[mask]++
			}

			masks := make([]uint64, 0, len(counts))
			for mask := range counts {
				masks = append(masks, mask)
			}
			slices.SortFunc(masks, func(a, b uint64) int {
				if c := bits.OnesCount64(b) - bits.OnesCount64(a); c != 0 {
					return c
				}
				if a < b {
					return -1
				}
				return 1
			})

			out := cmd.OutOrStdout()
			for i, path := range args {
				fmt.Fprintf(out, "#%d\t%s\n", i+1, path)
			}
			for _, mask := range masks {
				var files []int
				for i := range args {
					if mask&(1<<i) != 0 {
						files = append(files, i+1)
					}
				}
				fmt.Fprintf(out, "%v\t%s\n", files, humanize.Comma(counts[mask]))
			}

			if path := g.v.GetString("out"); path != "" {
				c, err := store.ParseCompression(g.v.GetString("compression"))
				if err != nil {
					return err
				}
				if err := m.SaveFile(path, store.WithCompression(c)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.String("out", "", "save the k-mer -> file-set map to this snapshot")
	f.String("compression", "none", "snapshot compression: none, lz4 or zstd")
	return cmd
}
