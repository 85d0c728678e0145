// Package events publishes engagement events to NATS for downstream
// consumers. Publishing is best-effort; a broker outage never fails the
// operation that produced the event.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// Subjects for engagement events.
const (
	SubjectUpvote  = "engagement.upvote"
	SubjectComment = "engagement.comment"
	SubjectReview  = "engagement.review"
)

// EngagementEvent is the wire form of a single engagement action.
type EngagementEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	ActorID    uint      `json:"actor_id"`
	TargetType string    `json:"target_type"`
	TargetID   uint      `json:"target_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher emits engagement events.
type Publisher interface {
	PublishEngagement(subject string, event EngagementEvent) error
}

// NatsPublisher implements Publisher on a NATS connection.
type NatsPublisher struct {
	conn *nats.Conn
}

// NewNatsPublisher creates a new NatsPublisher
func NewNatsPublisher(conn *nats.Conn) *NatsPublisher {
	return &NatsPublisher{conn: conn}
}

func (p *NatsPublisher) PublishEngagement(subject string, event EngagementEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.conn.Publish(subject, payload)
}
