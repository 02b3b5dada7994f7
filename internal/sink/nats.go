package sink

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// NATS publishes decoded lines to a subject so stream consumers can tail a
// device without attaching to its serial link.
type NATS struct {
	conn    *nats.Conn
	subject string
}

func NewNATS(url, subject string) (*NATS, error) {
	conn, err := nats.Connect(url, nats.Name("binlogcat"))
	if err != nil {
		return nil, fmt.Errorf("sink: connecting to nats at %s: %w", url, err)
	}
	return &NATS{conn: conn, subject: subject}, nil
}

func (s *NATS) Emit(line Line) error {
	payload, err := json.Marshal(jsonLine{Level: line.Level.String(), Text: line.Text})
	if err != nil {
		return err
	}
	return s.conn.Publish(s.subject, payload)
}

// Close drains buffered publishes before closing the connection.
func (s *NATS) Close() error {
	if err := s.conn.Drain(); err != nil {
		s.conn.Close()
		return err
	}
	return nil
}
