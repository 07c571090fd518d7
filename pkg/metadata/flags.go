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
	"time"

	"github.com/intelsdi-x/meshbw/pkg/conf"
)

// Database selection values of ResultsDBFlag.
const (
	DBNone      = "none"
	DBCassandra = "cassandra"
)

var (
	// ResultsDBFlag selects where run configuration and results are archived.
	ResultsDBFlag = conf.NewStringFlag("results_db", "Database for archiving run configuration and results: none or cassandra", DBNone)

	cassandraAddressFlag           = conf.NewStringFlag("cassandra_addr", "Address of Cassandra DB endpoint", "127.0.0.1")
	cassandraPortFlag              = conf.NewIntFlag("cassandra_port", "Port of Cassandra DB endpoint", 9042)
	cassandraUsernameFlag          = conf.NewStringFlag("cassandra_username", "Cassandra user name, authentication is disabled when empty", "")
	cassandraPasswordFlag          = conf.NewStringFlag("cassandra_password", "Cassandra password", "")
	cassandraKeyspaceFlag          = conf.NewStringFlag("cassandra_keyspace", "Cassandra keyspace holding run metadata", "meshbw")
	cassandraCreateKeyspaceFlag    = conf.NewBoolFlag("cassandra_create_keyspace", "Create keyspace if it does not exist", true)
	cassandraTimeoutFlag           = conf.NewDurationFlag("cassandra_timeout", "Cassandra query timeout", 10*time.Second)
	cassandraConnectionTimeoutFlag = conf.NewDurationFlag("cassandra_connection_timeout", "Cassandra connection timeout", 10*time.Second)
	cassandraIgnorePeerAddrFlag    = conf.NewBoolFlag("cassandra_ignore_peer_addr", "Use configured address instead of addresses advertised by peers", false)
	cassandraInitialHostLookupFlag = conf.NewBoolFlag("cassandra_initial_host_lookup", "Look up cluster topology on connect", false)
	cassandraSslEnabledFlag        = conf.NewBoolFlag("cassandra_ssl", "Connect to Cassandra with TLS", false)
	cassandraSslHostValidationFlag = conf.NewBoolFlag("cassandra_ssl_host_validation", "Verify Cassandra host certificate", false)
	cassandraSslCAPathFlag         = conf.NewStringFlag("cassandra_ssl_ca_path", "Path to CA certificate", "")
	cassandraSslCertPathFlag       = conf.NewStringFlag("cassandra_ssl_cert_path", "Path to client certificate", "")
	cassandraSslKeyPathFlag        = conf.NewStringFlag("cassandra_ssl_key_path", "Path to client private key", "")
)
