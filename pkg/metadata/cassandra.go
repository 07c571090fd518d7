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
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// CassandraConfig encodes the settings for connecting to the database.
type CassandraConfig struct {
	Address           string
	ConnectionTimeout time.Duration
	CreateKeyspace    bool
	IgnorePeerAddr    bool
	InitialHostLookup bool
	KeyspaceName      string
	Password          string
	Port              int
	SslCAPath         string
	SslCertPath       string
	SslEnabled        bool
	SslHostValidation bool
	SslKeyPath        string
	Timeout           time.Duration
	Username          string
}

// Cassandra keeps the session alive and tags every record with the run ID.
type Cassandra struct {
	runID   string
	config  CassandraConfig
	session *gocql.Session
}

// DefaultCassandraConfig applies the Cassandra settings from the command line flags and
// environment variables.
func DefaultCassandraConfig() CassandraConfig {
	return CassandraConfig{
		Address:           cassandraAddressFlag.Value(),
		ConnectionTimeout: cassandraConnectionTimeoutFlag.Value(),
		CreateKeyspace:    cassandraCreateKeyspaceFlag.Value(),
		IgnorePeerAddr:    cassandraIgnorePeerAddrFlag.Value(),
		InitialHostLookup: cassandraInitialHostLookupFlag.Value(),
		KeyspaceName:      cassandraKeyspaceFlag.Value(),
		Password:          cassandraPasswordFlag.Value(),
		Port:              cassandraPortFlag.Value(),
		SslCAPath:         cassandraSslCAPathFlag.Value(),
		SslCertPath:       cassandraSslCertPathFlag.Value(),
		SslEnabled:        cassandraSslEnabledFlag.Value(),
		SslHostValidation: cassandraSslHostValidationFlag.Value(),
		SslKeyPath:        cassandraSslKeyPathFlag.Value(),
		Timeout:           cassandraTimeoutFlag.Value(),
		Username:          cassandraUsernameFlag.Value(),
	}
}

// NewCassandra connects to Cassandra and returns archive of given run.
func NewCassandra(runID string, config CassandraConfig) (Metadata, error) {
	metadata := &Cassandra{
		runID:  runID,
		config: config,
	}
	if err := connect(metadata); err != nil {
		return nil, errors.Wrapf(err, "cannot connect to Cassandra at %s:%d", config.Address, config.Port)
	}
	logrus.Debugf("Connected to Cassandra at %s:%d, keyspace %q", config.Address, config.Port, config.KeyspaceName)
	return metadata, nil
}

func sslOptions(config CassandraConfig) *gocql.SslOptions {
	sslOptions := &gocql.SslOptions{
		EnableHostVerification: config.SslHostValidation,
	}

	if config.SslCAPath != "" {
		sslOptions.CaPath = config.SslCAPath
	}

	if config.SslCertPath != "" {
		sslOptions.CertPath = config.SslCertPath
	}

	if config.SslKeyPath != "" {
		sslOptions.KeyPath = config.SslKeyPath
	}

	return sslOptions
}

// getClusterConfig prepares configuration to Cassandra cluster.
func getClusterConfig(m *Cassandra) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(m.config.Address)
	cluster.Port = m.config.Port

	cluster.Consistency = gocql.LocalOne
	cluster.SerialConsistency = gocql.LocalSerial

	cluster.ProtoVersion = 4
	cluster.ConnectTimeout = m.config.ConnectionTimeout
	cluster.Timeout = m.config.Timeout
	cluster.IgnorePeerAddr = m.config.IgnorePeerAddr
	cluster.DisableInitialHostLookup = !m.config.InitialHostLookup

	return cluster
}

func createKeyspace(m *Cassandra, clusterConfig *gocql.ClusterConfig) error {
	session, err := clusterConfig.CreateSession()
	if err != nil {
		return errors.Wrap(err, "cannot create session for creating keyspace")
	}
	defer session.Close()

	query := fmt.Sprintf("CREATE KEYSPACE IF NOT EXISTS %s WITH REPLICATION = {'class': 'SimpleStrategy', 'replication_factor': 1};", m.config.KeyspaceName)

	return errors.Wrap(session.Query(query).Exec(), "cannot create keyspace")

}

// connect creates a session to the Cassandra cluster. This function should only be called once.
func connect(m *Cassandra) error {
	cluster := getClusterConfig(m)

	if m.config.Username != "" && m.config.Password != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: m.config.Username,
			Password: m.config.Password,
		}
	}

	if m.config.SslEnabled {
		cluster.SslOpts = sslOptions(m.config)
	}

	// Keyspace has to exist before a session bound to it is created.
	if m.config.CreateKeyspace {
		if err := createKeyspace(m, cluster); err != nil {
			return err
		}
	}

	cluster.Keyspace = m.config.KeyspaceName
	session, err := cluster.CreateSession()
	if err != nil {
		return errors.Wrap(err, "cannot create session")
	}
	m.session = session

	err = session.Query("CREATE TABLE IF NOT EXISTS metadata (run_id text, kind text, time timestamp, timeuuid TIMEUUID, metadata map<text,text>, PRIMARY KEY ((run_id), timeuuid),) WITH CLUSTERING ORDER BY (timeuuid DESC);").Exec()
	return errors.Wrap(err, "cannot create metadata table")
}

func storeMap(m *Cassandra, metadata map[string]string, kind string) error {
	err := m.session.Query(`INSERT INTO metadata (run_id, kind, time, timeuuid, metadata) VALUES (?, ?, ?, ?, ?)`, m.runID, kind, time.Now(), gocql.TimeUUID(), metadata).Exec()
	return errors.Wrapf(err, "cannot publish metadata of kind %q", kind)
}

// Record stores a key and value and associates it with the run ID.
func (m *Cassandra) Record(key, value, kind string) error {
	metadata := map[string]string{}
	metadata[key] = value
	return storeMap(m, metadata, kind)
}

// RecordMap stores a key and value map and associates it with the run ID.
func (m *Cassandra) RecordMap(metadata map[string]string, kind string) error {
	return storeMap(m, metadata, kind)
}

// GetByKind returns all maps of given kind recorded for the run, newest first.
func (m *Cassandra) GetByKind(kind string) ([]map[string]string, error) {
	var metadata map[string]string
	maps := []map[string]string{}

	iter := m.session.Query(`SELECT metadata FROM metadata WHERE run_id = ? AND kind = ? ALLOW FILTERING`, m.runID, kind).Iter()
	for iter.Scan(&metadata) {
		maps = append(maps, metadata)
		metadata = nil
	}
	if err := iter.Close(); err != nil {
		return nil, errors.Wrapf(err, "cannot retrieve metadata of kind %q for run %q", kind, m.runID)
	}
	return maps, nil
}

// Clear deletes all metadata entries associated with the run ID.
func (m *Cassandra) Clear() error {
	err := m.session.Query(`DELETE FROM metadata WHERE run_id = ?`, m.runID).Exec()
	return errors.Wrapf(err, "cannot clear metadata of run %q", m.runID)
}

// Close ends the session.
func (m *Cassandra) Close() {
	m.session.Close()
}
