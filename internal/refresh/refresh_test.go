package refresh

import (
	"testing"

	"github.com/nats-io/nats.go"
)

type fakePublisher struct {
	subject string
	data    []byte
}

func (p *fakePublisher) Publish(subj string, data []byte, _ ...nats.PubOpt) (*nats.PubAck, error) {
	p.subject, p.data = subj, data
	return &nats.PubAck{Stream: StreamName, Sequence: 7}, nil
}

func TestEnqueueDecode(t *testing.T) {
	p := &fakePublisher{}
	ack, err := Enqueue(p, "manual")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.subject != Subject || ack.Sequence != 7 {
		t.Fatalf("unexpected publish %s %+v", p.subject, ack)
	}
	req, err := Decode(p.data)
	if err != nil || req.Reason != "manual" || req.RequestedAt.IsZero() {
		t.Fatalf("unexpected request %+v err=%v", req, err)
	}
}

func TestDecode(t *testing.T) {
	if req, err := Decode(nil); err != nil || req.Reason != "" {
		t.Fatalf("empty body: %+v err=%v", req, err)
	}
	if _, err := Decode([]byte("{nope")); err == nil {
		t.Fatal("expected error for bad payload")
	}
}
