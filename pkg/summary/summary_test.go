package summary

import (
	"bytes"
	"testing"

	"github.com/intelsdi-x/meshbw/pkg/mesh"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

func results(hosts []string, devices []string, values map[string]float64) []mesh.Result {
	links := mesh.Links(mesh.DefaultBasePort, mesh.NewHosts(hosts), mesh.NewDevices(devices))
	out := make([]mesh.Result, 0, len(links))
	for _, link := range links {
		measurement := mesh.None()
		if value, ok := values[link.String()]; ok {
			measurement = mesh.Some(value)
		}
		out = append(out, mesh.Result{Link: link, Measurement: measurement})
	}
	return out
}

func TestSummarize(t *testing.T) {
	Convey("When summarizing mixed results of 3 hosts and 2 devices", t, func() {
		values := map[string]float64{
			"A[d0]->B": 10.5,
			"A[d1]->B": 20.25,
			"A[d0]->C": 30,
			"B[d1]->A": 1.1,
			"C[d0]->B": 2.2,
			"C[d1]->B": 3.3,
		}
		// Reverse input order to check sorting.
		input := results([]string{"A", "B", "C"}, []string{"d0", "d1"}, values)
		for i, j := 0, len(input)-1; i < j; i, j = i+1, j-1 {
			input[i], input[j] = input[j], input[i]
		}

		report := Summarize(input)

		Convey("Counts should reflect present and absent measurements", func() {
			So(len(report.Rows), ShouldEqual, 12)
			So(report.Succeeded, ShouldEqual, 6)
			So(report.Failed, ShouldEqual, 6)
		})

		Convey("Total should be the sum of present values", func() {
			So(report.Total.String(), ShouldEqual, "67.35")
		})

		Convey("Mean should be total divided by number of present values", func() {
			So(report.Mean.Valid, ShouldBeTrue)
			So(report.Mean.Decimal.Equal(report.Total.Div(decimal.NewFromInt(6))), ShouldBeTrue)
			So(report.Mean.Decimal.StringFixed(2), ShouldEqual, "11.23")
		})

		Convey("Per host totals should sum own outbound links", func() {
			So(len(report.PerHost), ShouldEqual, 3)
			a, _ := report.HostGbps("A")
			b, _ := report.HostGbps("B")
			c, _ := report.HostGbps("C")
			So(a.String(), ShouldEqual, "60.75")
			So(b.String(), ShouldEqual, "1.1")
			So(c.String(), ShouldEqual, "5.5")
			So(report.PerHost[0].Host.Address, ShouldEqual, "A")
			So(report.PerHost[2].Host.Address, ShouldEqual, "C")
		})

		Convey("Rows should be sorted by source, destination and device", func() {
			So(report.Rows[0].Link.String(), ShouldEqual, "A[d0]->B")
			So(report.Rows[1].Link.String(), ShouldEqual, "A[d1]->B")
			So(report.Rows[2].Link.String(), ShouldEqual, "A[d0]->C")
			So(report.Rows[11].Link.String(), ShouldEqual, "C[d1]->B")
		})

		Convey("Failures should be listed in row order", func() {
			So(len(report.Failures), ShouldEqual, 6)
			So(report.Failures[0].String(), ShouldEqual, "A[d1]->C")
		})
	})

	Convey("When no link reported", t, func() {
		report := Summarize(results([]string{"A", "B", "C", "D", "E"}, []string{"d0"}, nil))

		Convey("Mean should be absent and total zero", func() {
			So(report.Succeeded, ShouldEqual, 0)
			So(report.Failed, ShouldEqual, 20)
			So(report.Mean.Valid, ShouldBeFalse)
			So(report.Total.IsZero(), ShouldBeTrue)
		})

		Convey("Failure manifest should be bounded", func() {
			So(len(report.Failures), ShouldEqual, MaxListedFailures)
		})

		Convey("Every host should still be listed with zero", func() {
			So(len(report.PerHost), ShouldEqual, 5)
			for _, hostTotal := range report.PerHost {
				So(hostTotal.Gbps.IsZero(), ShouldBeTrue)
			}
		})
	})

	Convey("Summarize does not reorder caller results", t, func() {
		input := results([]string{"B", "A"}, []string{"d0"}, nil)
		first := input[0].Link.String()
		Summarize(input)
		So(input[0].Link.String(), ShouldEqual, first)
	})
}

func TestRender(t *testing.T) {
	Convey("When rendering report of 2 hosts with one missing log", t, func() {
		report := Summarize(results([]string{"A", "B"}, []string{"dev"}, map[string]float64{"A[dev]->B": 12.3}))
		var buffer bytes.Buffer

		So(Render(&buffer, report), ShouldBeNil)
		output := buffer.String()

		Convey("It should contain totals, per host values and failed links", func() {
			So(output, ShouldContainSubstring, "Succeeded: 1, failed: 1, total: 12.30 Gbps, mean: 12.30 Gbps")
			So(output, ShouldContainSubstring, "12.30")
			So(output, ShouldContainSubstring, "0.00")
			So(output, ShouldContainSubstring, "N/A")
			So(output, ShouldContainSubstring, "  - B[dev]->A")
		})
	})

	Convey("Mean is omitted when nothing reported", t, func() {
		var buffer bytes.Buffer
		So(Render(&buffer, Summarize(results([]string{"A", "B"}, []string{"dev"}, nil))), ShouldBeNil)
		So(buffer.String(), ShouldContainSubstring, "Succeeded: 0, failed: 2, total: 0.00 Gbps\n")
		So(buffer.String(), ShouldNotContainSubstring, "mean")
	})
}
