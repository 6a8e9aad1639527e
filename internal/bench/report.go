package bench

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// Print writes a human readable summary of r.
func Print(w io.Writer, r Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "method\t%s\n", r.Method)
	fmt.Fprintf(tw, "calls\t%d\n", r.Count)
	fmt.Fprintf(tw, "errors\t%d\n", r.Errors)
	if r.FirstErr != "" {
		fmt.Fprintf(tw, "first error\t%s\n", r.FirstErr)
	}
	fmt.Fprintf(tw, "elapsed\t%s\n", round(r.Elapsed))
	fmt.Fprintf(tw, "throughput\t%.1f calls/s\n", r.Throughput())
	fmt.Fprintf(tw, "min\t%s\n", round(r.Min))
	fmt.Fprintf(tw, "mean\t%s\n", round(r.Mean))
	fmt.Fprintf(tw, "p50\t%s\n", round(r.P50))
	fmt.Fprintf(tw, "p90\t%s\n", round(r.P90))
	fmt.Fprintf(tw, "p99\t%s\n", round(r.P99))
	fmt.Fprintf(tw, "max\t%s\n", round(r.Max))
	return tw.Flush()
}

func round(d time.Duration) time.Duration {
	return d.Round(time.Microsecond)
}
