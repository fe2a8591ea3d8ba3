// Package cassandra reads documents from a Cassandra table keyed by address.
package cassandra

import (
	"fmt"
	log "log/slog"
	"regexp"
	"sync"
	"time"

	"github.com/gocql/gocql"

	"github.com/sharedcode/doctree"
)

const (
	defaultKeyspace = "doctree"
	defaultTable    = "documents"
)

var identifier = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Config contains what is needed to reach the cluster and the documents table.
type Config struct {
	ClusterHosts []string
	Keyspace     string
	Table        string
	// Consistency defaults to LocalQuorum.
	Consistency       gocql.Consistency
	ConnectionTimeout time.Duration
	Authenticator     gocql.Authenticator
	// ReplicationClause is used when creating the keyspace.
	ReplicationClause string
}

// ConfigFromOptions converts the server configuration into a Config.
func ConfigFromOptions(o doctree.CassandraConfig) Config {
	return Config{
		ClusterHosts:      o.ClusterHosts,
		Keyspace:          o.Keyspace,
		Table:             o.Table,
		ConnectionTimeout: o.ConnectionTimeout,
	}
}

func (c *Config) setDefaults() error {
	if c.Keyspace == "" {
		c.Keyspace = defaultKeyspace
	}
	if c.Table == "" {
		c.Table = defaultTable
	}
	if !identifier.MatchString(c.Keyspace) || !identifier.MatchString(c.Table) {
		return fmt.Errorf("invalid keyspace %q or table %q name", c.Keyspace, c.Table)
	}
	if c.Consistency == gocql.Any {
		c.Consistency = gocql.LocalQuorum
	}
	if c.ReplicationClause == "" {
		c.ReplicationClause = "{'class':'SimpleStrategy', 'replication_factor':1}"
	}
	return nil
}

// Connection wraps a Cassandra session and its configuration.
type Connection struct {
	Session *gocql.Session
	Config
}

var session *gocql.Session
var refCount int
var mux sync.Mutex

// IsConnectionInstantiated reports whether the shared session is open.
func IsConnectionInstantiated() bool {
	mux.Lock()
	defer mux.Unlock()
	return session != nil
}

// OpenConnection returns a Connection over the shared session, creating the session,
// keyspace and documents table on first use.
func OpenConnection(cfg Config) (*Connection, error) {
	if err := cfg.setDefaults(); err != nil {
		return nil, err
	}
	mux.Lock()
	defer mux.Unlock()

	if session == nil {
		log.Info("opening cassandra connection", "hosts", cfg.ClusterHosts, "keyspace", cfg.Keyspace)
		cluster := gocql.NewCluster(cfg.ClusterHosts...)
		cluster.Consistency = cfg.Consistency
		if cfg.ConnectionTimeout > 0 {
			cluster.ConnectTimeout = cfg.ConnectionTimeout
		}
		if cfg.Authenticator != nil {
			cluster.Authenticator = cfg.Authenticator
			cfg.Authenticator = nil
		}
		s, err := cluster.CreateSession()
		if err != nil {
			return nil, fmt.Errorf("failed to create cassandra session: %w", err)
		}
		session = s
	}
	if err := initTable(session, cfg); err != nil {
		return nil, err
	}
	refCount++
	return &Connection{Session: session, Config: cfg}, nil
}

func initTable(s *gocql.Session, cfg Config) error {
	if err := s.Query(fmt.Sprintf("CREATE KEYSPACE IF NOT EXISTS %s WITH REPLICATION = %s;", cfg.Keyspace, cfg.ReplicationClause)).Exec(); err != nil {
		return fmt.Errorf("failed to create keyspace %s: %w", cfg.Keyspace, err)
	}
	if err := s.Query(fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s.%s (address text PRIMARY KEY, document text);", cfg.Keyspace, cfg.Table)).Exec(); err != nil {
		return fmt.Errorf("failed to create %s table: %w", cfg.Table, err)
	}
	return nil
}

// Close releases the connection, closing the shared session with the last one.
func (c *Connection) Close() {
	mux.Lock()
	defer mux.Unlock()
	refCount--
	if refCount <= 0 && session != nil {
		log.Info("closing cassandra connection")
		session.Close()
		session = nil
		refCount = 0
	}
}
