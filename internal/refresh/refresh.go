// Package refresh defines the feeds.refresh job message shared by the fetcher
// and the operator CLI.
package refresh

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	StreamName = "FEEDS"
	Subject    = "feeds.refresh"
)

// Request is the payload of a feeds.refresh message. An empty body is also
// accepted.
type Request struct {
	Reason      string    `json:"reason,omitempty"`
	RequestedAt time.Time `json:"requested_at,omitempty"`
}

// Publisher is the subset of nats.JetStreamContext needed to enqueue work.
type Publisher interface {
	Publish(subj string, data []byte, opts ...nats.PubOpt) (*nats.PubAck, error)
}

// Enqueue asks the fetcher to refresh. The request is durable: a fetcher that
// is down picks it up when it comes back.
func Enqueue(js Publisher, reason string) (*nats.PubAck, error) {
	b, err := json.Marshal(Request{Reason: reason, RequestedAt: time.Now().UTC()})
	if err != nil {
		return nil, err
	}
	return js.Publish(Subject, b)
}

// Decode parses a message body; an empty body is a Request with no reason.
func Decode(data []byte) (Request, error) {
	var req Request
	if len(data) == 0 {
		return req, nil
	}
	err := json.Unmarshal(data, &req)
	return req, err
}
