package visualization

import (
	"bytes"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTable(t *testing.T) {
	Convey("While drawing a table", t, func() {
		var buffer bytes.Buffer
		table := NewTable([]string{"Source", "Gbps"}, [][]string{{"10.0.0.1", "12.30"}, {"10.0.0.2", "N/A"}})
		table.SetFooter([]string{"Total", "12.30"})

		So(DrawTable(&buffer, table), ShouldBeNil)

		Convey("Output should contain headers and every cell", func() {
			output := buffer.String()
			So(output, ShouldContainSubstring, "Source")
			So(output, ShouldContainSubstring, "10.0.0.1")
			So(output, ShouldContainSubstring, "12.30")
			So(output, ShouldContainSubstring, "N/A")
			So(output, ShouldContainSubstring, "Total")
		})
	})
}

func TestList(t *testing.T) {
	Convey("List prints each element in its own line with label", t, func() {
		var buffer bytes.Buffer
		So(PrintList(&buffer, NewList([]string{"a", "b"}, "  - ")), ShouldBeNil)
		So(buffer.String(), ShouldEqual, "  - a\n  - b\n")
	})
}
