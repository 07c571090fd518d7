package ibwritebw

import (
	"math"
	"strconv"
	"strings"

	"github.com/intelsdi-x/meshbw/pkg/mesh"
)

// minSampleFields is the number of columns of a bandwidth sample line.
const minSampleFields = 4

// ParseMeasurement extracts bandwidth in Gbps from the last column of a sample line.
// Anything which does not look like a sample gives empty measurement.
func ParseMeasurement(line string) mesh.Measurement {
	fields := strings.Fields(line)
	if len(fields) < minSampleFields {
		return mesh.None()
	}

	gbps, err := strconv.ParseFloat(fields[len(fields)-1], 64)
	if err != nil || math.IsNaN(gbps) || math.IsInf(gbps, 0) {
		return mesh.None()
	}
	return mesh.Some(gbps)
}
