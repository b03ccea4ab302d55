package tracer

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// Render the per-tracer statistics of the last pass as a table.
func (res *Result) Table(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Block height", "% of frame", "Trace time"})
	for _, stat := range res.Tracers {
		table.Append([]string{
			stat.ID,
			fmt.Sprintf("%d", stat.BlockH),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			stat.BlockTime.String(),
		})
	}
	table.SetFooter([]string{"", "", "TOTAL", res.Elapsed.String()})
	table.Render()
}

// Render the ray statistics as a table.
func (res *Result) SummaryTable(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Rays", "Occluded", "Unoccluded", "Mean transmittance"})
	table.Append([]string{
		fmt.Sprintf("%d", res.Rays),
		fmt.Sprintf("%d", res.Occluded),
		fmt.Sprintf("%d", res.Rays-res.Occluded),
		res.MeanTransmittance.String(),
	})
	table.Render()
}
