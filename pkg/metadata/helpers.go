// Copyright (c) 2017 Intel Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metadata

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/intelsdi-x/meshbw/pkg/conf"
	"github.com/intelsdi-x/meshbw/pkg/mesh"
	"github.com/intelsdi-x/meshbw/pkg/summary"
	"github.com/pkg/errors"
)

// RecordRuntimeEnv stores flags, MESHBW_ environment, orchestrator host and start time of a run.
func RecordRuntimeEnv(metadata Metadata, start time.Time) error {
	if err := metadata.RecordMap(conf.GetFlags(), TypeFlags); err != nil {
		return err
	}

	if err := recordEnv(metadata, conf.EnvPrefix+"_"); err != nil {
		return err
	}

	hostname, err := os.Hostname()
	if err != nil {
		return errors.Wrap(err, "cannot retrieve hostname")
	}
	return metadata.RecordMap(map[string]string{"time": start.Format(time.RFC822Z), "host": hostname}, TypeEmpty)
}

// recordEnv stores all environment variables starting with prefix.
func recordEnv(metadata Metadata, prefix string) error {
	envMetadata := map[string]string{}
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, prefix) {
			fields := strings.SplitN(env, "=", 2)
			envMetadata[fields[0]] = fields[1]
		}
	}
	return metadata.RecordMap(envMetadata, TypeEnviron)
}

// LinkRecord converts a single link result to metadata map.
// Gbps is empty for links without a measurement.
func LinkRecord(result mesh.Result) map[string]string {
	record := map[string]string{
		"src":    result.Link.Src.Address,
		"dst":    result.Link.Dst.Address,
		"device": result.Link.Dev.Name,
		"port":   strconv.Itoa(result.Link.Port),
		"gbps":   "",
	}
	if !result.Measurement.Empty() {
		record["gbps"] = strconv.FormatFloat(result.Measurement.Get(), 'f', -1, 64)
	}
	return record
}

// SummaryRecord converts report totals to metadata map. Mean is empty when no link succeeded.
func SummaryRecord(report summary.Report) map[string]string {
	record := map[string]string{
		"succeeded": strconv.Itoa(report.Succeeded),
		"failed":    strconv.Itoa(report.Failed),
		"total":     report.Total.String(),
		"mean":      "",
	}
	if report.Mean.Valid {
		record["mean"] = report.Mean.Decimal.StringFixed(2)
	}
	return record
}

// RecordReport stores every link result and report totals.
func RecordReport(metadata Metadata, report summary.Report) error {
	for _, row := range report.Rows {
		if err := metadata.RecordMap(LinkRecord(row), TypeLink); err != nil {
			return errors.Wrapf(err, "cannot record result of %s", row.Link)
		}
	}
	return metadata.RecordMap(SummaryRecord(report), TypeSummary)
}
