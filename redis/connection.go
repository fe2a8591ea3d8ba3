// Package redis provides a doctree.Cache backed by a Redis server or cluster.
package redis

import (
	"crypto/tls"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/sharedcode/doctree"
)

// Options holds the Redis connection parameters.
type Options struct {
	Address  string
	Password string
	DB       int
	// TLSConfig, when set, enables TLS.
	TLSConfig *tls.Config
}

// DefaultOptions points at a local Redis, default DB, no password.
func DefaultOptions() Options {
	return Options{
		Address: "localhost:6379",
	}
}

// OptionsFromConfig converts the server configuration into Options. A URL takes
// precedence over the discrete fields.
func OptionsFromConfig(cfg doctree.RedisCacheConfig) (Options, error) {
	if cfg.URL == "" {
		return Options{Address: cfg.Address, Password: cfg.Password, DB: cfg.DB}, nil
	}
	ro, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return Options{}, fmt.Errorf("invalid redis url: %w", err)
	}
	return Options{Address: ro.Addr, Password: ro.Password, DB: ro.DB, TLSConfig: ro.TLSConfig}, nil
}

// Connection is an open Redis client and the Options it was opened with.
type Connection struct {
	Client  *redis.Client
	Options Options
}

var connection *Connection
var mux sync.Mutex

// IsConnectionInstantiated reports whether the shared connection is open.
func IsConnectionInstantiated() bool {
	mux.Lock()
	defer mux.Unlock()
	return connection != nil
}

// OpenConnection opens the shared connection once and returns it on every call.
func OpenConnection(options Options) *Connection {
	mux.Lock()
	defer mux.Unlock()
	if connection == nil {
		connection = openConnection(options)
	}
	return connection
}

// CloseConnection closes the shared connection if open.
func CloseConnection() error {
	mux.Lock()
	defer mux.Unlock()
	if connection == nil {
		return nil
	}
	err := closeConnection(connection)
	connection = nil
	return err
}

func openConnection(options Options) *Connection {
	return &Connection{
		Client: redis.NewClient(&redis.Options{
			Addr:      options.Address,
			Password:  options.Password,
			DB:        options.DB,
			TLSConfig: options.TLSConfig,
		}),
		Options: options,
	}
}

func closeConnection(c *Connection) error {
	if c == nil || c.Client == nil {
		return nil
	}
	err := c.Client.Close()
	c.Client = nil
	return err
}
