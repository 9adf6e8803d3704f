package mq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

// Domain event channels.
const (
	ChannelUserRegistered = "wellness.user.registered"
	ChannelScoreRecorded  = "wellness.score.recorded"
)

// Publisher is the subset of MQ needed to emit events.
type Publisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

type UserRegistered struct {
	UserID       int64     `json:"user_id"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}

type ScoreRecorded struct {
	UserID     int64     `json:"user_id"`
	Score      float64   `json:"score"`
	Entries    int       `json:"entries"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Events publishes domain events as JSON. Delivery is best effort: failures
// are logged and never returned to the caller. A nil *Events or one built
// without a publisher drops every event.
type Events struct {
	publisher Publisher
	logger    logrus.FieldLogger
}

func NewEvents(publisher Publisher, logger logrus.FieldLogger) *Events {
	return &Events{publisher: publisher, logger: logger}
}

func (e *Events) UserRegistered(ctx context.Context, event UserRegistered) {
	e.emit(ctx, ChannelUserRegistered, event)
}

func (e *Events) ScoreRecorded(ctx context.Context, event ScoreRecorded) {
	e.emit(ctx, ChannelScoreRecorded, event)
}

func (e *Events) emit(ctx context.Context, channel string, event any) {
	if e == nil || e.publisher == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		e.logger.WithError(err).WithField("channel", channel).Warn("encode event")
		return
	}

	id, err := e.publisher.Publish(ctx, channel, data, map[string]string{attrContentType: "application/json"})
	if err != nil {
		e.logger.WithError(err).WithField("channel", channel).Warn("publish event")
		return
	}
	e.logger.WithFields(logrus.Fields{"channel": channel, "message_id": id}).Debug("event published")
}
