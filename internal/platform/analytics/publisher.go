// Package analytics publishes business events (reports read, podcasts played,
// feeds refreshed) to the ANALYTICS JetStream stream. Publishing is
// fire-and-forget: a broken NATS link never fails a voice request.
package analytics

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/example/morning-report/internal/platform/natsconn"
)

const StreamName = "ANALYTICS"

// Subject constants for every analytics event type.
const (
	SubjectReportRead     = "analytics.skill.report_read"
	SubjectPodcastPlayed  = "analytics.skill.podcast_played"
	SubjectPodcastResumed = "analytics.skill.podcast_resumed"
	SubjectPlaybackFailed = "analytics.skill.playback_failed"
	SubjectFeedsRefreshed = "analytics.fetcher.feeds_refreshed"
)

// Event is the envelope sent to every analytics.* subject. UserID is always
// the derived position key, never a raw platform id.
type Event struct {
	EventID    string         `json:"event_id"`
	EventName  string         `json:"event_name"`
	Source     string         `json:"source,omitempty"`
	UserID     string         `json:"user_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Properties map[string]any `json:"properties,omitempty"`
}

// AsyncPublisher is the part of nats.JetStreamContext the publisher needs.
type AsyncPublisher interface {
	PublishAsync(subj string, data []byte, opts ...nats.PubOpt) (nats.PubAckFuture, error)
}

// EnsureStream provisions the stream that retains events for 30 days, so
// publishes succeed even before any consumer exists.
func EnsureStream(js natsconn.StreamManager) error {
	return natsconn.EnsureStream(js, StreamName, []string{"analytics.>"}, 30*24*time.Hour)
}

// Publisher stamps events with the emitting service. A nil *Publisher, or
// one built without a JetStream context, drops every event.
type Publisher struct {
	js     AsyncPublisher
	log    *zap.Logger
	source string
}

func New(js AsyncPublisher, log *zap.Logger, source string) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{js: js, log: log, source: source}
}

// Publish never blocks on the broker; failures are logged as warnings.
func (p *Publisher) Publish(subject, eventName, userID string, props map[string]any) {
	if p == nil || p.js == nil {
		return
	}
	data, err := json.Marshal(Event{
		EventID:    uuid.NewString(),
		EventName:  eventName,
		Source:     p.source,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
		Properties: props,
	})
	if err != nil {
		p.log.Warn("analytics: marshal failed", zap.String("event", eventName), zap.Error(err))
		return
	}
	if _, err := p.js.PublishAsync(subject, data); err != nil {
		p.log.Warn("analytics: publish failed", zap.String("subject", subject), zap.Error(err))
	}
}
