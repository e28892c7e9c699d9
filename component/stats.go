package component

import (
	"bufio"
	"fmt"
	"io"
)

// StatsHeader is the first line of a statistics table.
const StatsHeader = "# component.no\tcomponent.size\tcomponent.weight\tcomponent.pivotCnt\tcomponent.pivotCnt2\tusedFreqThreshold"

// WriteStats writes one tab-separated row per component, in the given order.
func WriteStats(w io.Writer, comps []*Component) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, StatsHeader); err != nil {
		return err
	}
	for i, c := range comps {
		if _, err := fmt.Fprintf(bw, "%d\t%d\t%d\t%d\t%d\t%d\n",
			i+1, c.Size, c.Weight, c.PivotCnt, c.Pivot2Cnt, c.UsedFreqThreshold); err != nil {
			return err
		}
	}
	return bw.Flush()
}
