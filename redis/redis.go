package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sharedcode/doctree"
)

var errNotConnected = errors.New("redis connection is not open")

// Client is a doctree.Cache over a Redis connection.
type Client struct {
	conn      *Connection
	isOwner   bool
	marshaler doctree.Marshaler
}

// NewClient returns a Client over the shared connection opened with OpenConnection.
func NewClient() *Client {
	mux.Lock()
	defer mux.Unlock()
	return &Client{conn: connection, marshaler: doctree.DefaultMarshaler}
}

// NewConnectionClient opens a dedicated connection. Call Close when done with it.
func NewConnectionClient(options Options) *Client {
	return &Client{conn: openConnection(options), isOwner: true, marshaler: doctree.DefaultMarshaler}
}

// Close closes the client's connection if the client owns it.
func (c *Client) Close() error {
	if !c.isOwner || c.conn == nil {
		return nil
	}
	err := closeConnection(c.conn)
	c.conn = nil
	return err
}

func (c *Client) client() (*redis.Client, error) {
	if c.conn == nil || c.conn.Client == nil {
		return nil, errNotConnected
	}
	return c.conn.Client, nil
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	rc, err := c.client()
	if err != nil {
		return err
	}
	return rc.Ping(ctx).Err()
}

// Clear flushes the selected DB.
func (c *Client) Clear(ctx context.Context) error {
	rc, err := c.client()
	if err != nil {
		return err
	}
	return rc.FlushDB(ctx).Err()
}

// SetStruct stores value marshaled under key. Nothing is stored if expiration < 0.
func (c *Client) SetStruct(ctx context.Context, key string, value any, expiration time.Duration) error {
	rc, err := c.client()
	if err != nil {
		return err
	}
	if expiration < 0 {
		return nil
	}
	ba, err := c.marshaler.Marshal(value)
	if err != nil {
		return err
	}
	return rc.Set(ctx, key, ba, expiration).Err()
}

// GetStruct reads key into target. A missing key returns false and a nil error.
func (c *Client) GetStruct(ctx context.Context, key string, target any) (bool, error) {
	rc, err := c.client()
	if err != nil {
		return false, err
	}
	if target == nil {
		return false, fmt.Errorf("target can't be nil")
	}
	ba, err := rc.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := c.marshaler.Unmarshal(ba, target); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes keys, returns false if any of them did not exist.
func (c *Client) Delete(ctx context.Context, keys []string) (bool, error) {
	rc, err := c.client()
	if err != nil {
		return false, err
	}
	n, err := rc.Del(ctx, keys...).Result()
	if err != nil {
		return false, err
	}
	return n == int64(len(keys)), nil
}
