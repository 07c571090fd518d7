package summary

import (
	"fmt"
	"io"
	"strings"

	"github.com/intelsdi-x/meshbw/pkg/visualization"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	unavailable = "N/A"
	ruleWidth   = 75
)

func gbps(value decimal.Decimal) string {
	return value.StringFixed(2)
}

// Render writes human readable report.
func Render(w io.Writer, report Report) error {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(w, "\n%s\nResults\n%s\n", rule, rule)

	rows := make([][]string, 0, len(report.Rows))
	for _, row := range report.Rows {
		value := unavailable
		if !row.Measurement.Empty() {
			value = gbps(decimal.NewFromFloat(row.Measurement.Get()))
		}
		rows = append(rows, []string{row.Link.Src.Address, row.Link.Dev.Name, row.Link.Dst.Address, value})
	}
	if err := visualization.DrawTable(w, visualization.NewTable(
		[]string{"Source", "Device", "Destination", "Bandwidth (Gbps)"}, rows)); err != nil {
		return errors.Wrap(err, "cannot draw link table")
	}

	fmt.Fprintf(w, "Succeeded: %d, failed: %d, total: %s Gbps", report.Succeeded, report.Failed, gbps(report.Total))
	if report.Mean.Valid {
		fmt.Fprintf(w, ", mean: %s Gbps", gbps(report.Mean.Decimal))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "\nOutbound bandwidth per host:")
	hostRows := make([][]string, 0, len(report.PerHost))
	for _, hostTotal := range report.PerHost {
		hostRows = append(hostRows, []string{hostTotal.Host.Address, gbps(hostTotal.Gbps)})
	}
	if err := visualization.DrawTable(w, visualization.NewTable([]string{"Host", "Outbound (Gbps)"}, hostRows)); err != nil {
		return errors.Wrap(err, "cannot draw host table")
	}

	if len(report.Failures) > 0 {
		fmt.Fprintf(w, "\nFailed links (first %d):\n", MaxListedFailures)
		failures := make([]string, 0, len(report.Failures))
		for _, link := range report.Failures {
			failures = append(failures, link.String())
		}
		if err := visualization.PrintList(w, visualization.NewList(failures, "  - ")); err != nil {
			return errors.Wrap(err, "cannot print failed links")
		}
	}

	_, err := fmt.Fprintln(w, rule)
	return err
}
