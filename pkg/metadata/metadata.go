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
	"github.com/pkg/errors"
)

// Predefined kinds of metadata. Kind groups records of a run by their common characteristics.
const (
	TypeEmpty   = ""
	TypeFlags   = "flags"
	TypeEnviron = "environ"
	TypeLink    = "link"
	TypeSummary = "summary"
)

// Metadata interface defines methods which must be supported by DB backend.
type Metadata interface {
	// Record stores a key and value and associates it with the run ID.
	Record(key string, value string, kind string) error
	// RecordMap stores a key and value map and associates it with the run ID.
	RecordMap(metadata map[string]string, kind string) error
	// GetByKind retrieves all maps of given kind recorded for the run.
	GetByKind(kind string) ([]map[string]string, error)
	// Clear deletes all metadata entries associated with the run ID.
	Clear() error
	// Close releases the connection.
	Close()
}

// NewDefault returns archive selected with ResultsDBFlag. It returns nil Metadata
// and no error when archiving is disabled.
func NewDefault(runID string) (Metadata, error) {
	switch db := ResultsDBFlag.Value(); db {
	case DBNone, "":
		return nil, nil
	case DBCassandra:
		return NewCassandra(runID, DefaultCassandraConfig())
	default:
		return nil, errors.Errorf("unsupported database for results: %q", db)
	}
}
