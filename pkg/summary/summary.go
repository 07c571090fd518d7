// Package summary aggregates per-link measurements into a report.
package summary

import (
	"sort"

	"github.com/intelsdi-x/meshbw/pkg/mesh"
	"github.com/shopspring/decimal"
)

// MaxListedFailures limits the failure manifest.
const MaxListedFailures = 10

// HostTotal is the sum of outbound bandwidth of a single host.
type HostTotal struct {
	Host mesh.Host
	Gbps decimal.Decimal
}

// Report is the aggregated view of a run.
type Report struct {
	// Rows are ordered by source, destination and device.
	Rows      []mesh.Result
	Succeeded int
	Failed    int
	Total     decimal.Decimal
	// Mean is not valid when no link reported a measurement.
	Mean decimal.NullDecimal
	// PerHost holds outbound totals ordered by host address.
	PerHost []HostTotal
	// Failures are the first MaxListedFailures links without a measurement.
	Failures []mesh.Link
}

func less(a, b mesh.Link) bool {
	if a.Src.Address != b.Src.Address {
		return a.Src.Address < b.Src.Address
	}
	if a.Dst.Address != b.Dst.Address {
		return a.Dst.Address < b.Dst.Address
	}
	return a.Dev.Name < b.Dev.Name
}

// Summarize builds report from link results. Empty measurements count as failures
// and contribute nothing to totals.
func Summarize(results []mesh.Result) Report {
	report := Report{
		Rows:  make([]mesh.Result, len(results)),
		Total: decimal.Zero,
	}
	copy(report.Rows, results)
	sort.SliceStable(report.Rows, func(i, j int) bool {
		return less(report.Rows[i].Link, report.Rows[j].Link)
	})

	perHost := map[string]*HostTotal{}
	for _, row := range report.Rows {
		hostTotal, ok := perHost[row.Link.Src.Address]
		if !ok {
			hostTotal = &HostTotal{Host: row.Link.Src, Gbps: decimal.Zero}
			perHost[row.Link.Src.Address] = hostTotal
		}

		if row.Measurement.Empty() {
			report.Failed++
			if len(report.Failures) < MaxListedFailures {
				report.Failures = append(report.Failures, row.Link)
			}
			continue
		}

		gbps := decimal.NewFromFloat(row.Measurement.Get())
		report.Succeeded++
		report.Total = report.Total.Add(gbps)
		hostTotal.Gbps = hostTotal.Gbps.Add(gbps)
	}

	if report.Succeeded > 0 {
		report.Mean = decimal.NullDecimal{
			Decimal: report.Total.Div(decimal.NewFromInt(int64(report.Succeeded))),
			Valid:   true,
		}
	}

	for _, hostTotal := range perHost {
		report.PerHost = append(report.PerHost, *hostTotal)
	}
	sort.Slice(report.PerHost, func(i, j int) bool {
		return report.PerHost[i].Host.Address < report.PerHost[j].Host.Address
	})

	return report
}

// HostGbps returns outbound total of host with given address.
func (r Report) HostGbps(address string) (decimal.Decimal, bool) {
	for _, hostTotal := range r.PerHost {
		if hostTotal.Host.Address == address {
			return hostTotal.Gbps, true
		}
	}
	return decimal.Zero, false
}
