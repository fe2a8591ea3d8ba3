package cassandra

import (
	"context"
	"errors"
	"fmt"

	"github.com/gocql/gocql"

	"github.com/sharedcode/doctree"
	"github.com/sharedcode/doctree/source"
)

// Source fetches documents stored as JSON text in the connection's documents table.
type Source struct {
	conn *Connection
}

// NewSource returns a Source over conn.
func NewSource(conn *Connection) *Source {
	return &Source{conn: conn}
}

func (s *Source) selectStatement() string {
	return fmt.Sprintf("SELECT document FROM %s.%s WHERE address = ?;", s.conn.Keyspace, s.conn.Table)
}

func (s *Source) Fetch(ctx context.Context, address string) (doctree.Document, error) {
	var text string
	err := s.conn.Session.Query(s.selectStatement(), address).
		WithContext(ctx).
		Consistency(s.conn.Consistency).
		Scan(&text)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", address, doctree.ErrDocumentNotFound)
	}
	if err != nil {
		return nil, err
	}
	return source.Decode(address, []byte(text))
}

// Put stores doc under address, replacing what was there.
func (s *Source) Put(ctx context.Context, address string, doc doctree.Document) error {
	ba, err := doctree.DefaultMarshaler.Marshal(doc)
	if err != nil {
		return err
	}
	stmt := fmt.Sprintf("INSERT INTO %s.%s (address, document) VALUES (?, ?);", s.conn.Keyspace, s.conn.Table)
	return s.conn.Session.Query(stmt, address, string(ba)).
		WithContext(ctx).
		Consistency(s.conn.Consistency).
		Exec()
}
