package main

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hupe1980/pivotsplit/store"
)

func newStoreCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect and convert k-mer store snapshots",
	}
	cmd.AddCommand(newStoreInfoCmd(), newStoreConvertCmd(g))
	return cmd
}

func newStoreInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <snapshot>",
		Short: "Print the layout of a store snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			m, err := store.LoadFile(args[0])
			if errors.Is(err, store.ErrInvalidFormat) {
				bm, berr := store.LoadBitSetMapFile(args[0])
				if berr != nil {
					return err
				}
				defer bm.Close()
				fmt.Fprintln(out, "kind:      bitset")
				fmt.Fprintf(out, "entries:   %s\n", humanize.Comma(bm.Len()))
				fmt.Fprintf(out, "capacity:  %s\n", humanize.Comma(bm.Capacity()))
				fmt.Fprintf(out, "shards:    %d\n", bm.Shards())
				return nil
			}
			if err != nil {
				return err
			}
			defer m.Close()

			unvisited, visited := m.Counts()
			fmt.Fprintln(out, "kind:      frequency")
			fmt.Fprintf(out, "entries:   %s\n", humanize.Comma(m.Len()))
			fmt.Fprintf(out, "unvisited: %s\n", humanize.Comma(unvisited))
			fmt.Fprintf(out, "visited:   %s\n", humanize.Comma(visited))
			fmt.Fprintf(out, "capacity:  %s\n", humanize.Comma(m.Capacity()))
			fmt.Fprintf(out, "shards:    %d\n", m.Shards())
			return nil
		},
	}
}

func newStoreConvertCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Rewrite a frequency store snapshot",
		Long: `Convert re-encodes a frequency store snapshot with another compression.
With --drop-visited only unvisited entries are kept and the shard layout
is recomputed for them.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := store.ParseCompression(g.v.GetString("compression"))
			if err != nil {
				return err
			}
			m, err := store.LoadFile(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = m.Close() }()

			if g.v.GetBool("drop-visited") {
				frozen := m.Freeze()
				compacted, err := frozen.Compact()
				m = frozen.Thaw()
				if err != nil {
					return err
				}
				_ = m.Close()
				m = compacted
			}

			if err := m.SaveFile(args[1], store.WithCompression(c)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s k-mers to %s (%s)\n", humanize.Comma(m.Len()), args[1], c)
			return nil
		},
	}

	f := cmd.Flags()
	f.String("compression", "zstd", "snapshot compression: none, lz4 or zstd")
	f.Bool("drop-visited", false, "keep only unvisited entries")
	return cmd
}
