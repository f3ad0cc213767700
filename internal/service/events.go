package service

import (
	"context"

	"github.com/sirupsen/logrus"
)

type EventKind string

const (
	EventLiked          EventKind = "liked"
	EventFavorited      EventKind = "favorited"
	EventCommented      EventKind = "commented"
	EventReported       EventKind = "reported"
	EventListingCreated EventKind = "listing_created"
)

// Event describes a completed write that other components may react to.
type Event struct {
	Kind      EventKind
	ListingID string
	ActorID   string
	ActorName string
	ReportID  string
}

// Handler consumes events.
type Handler interface {
	Handle(ctx context.Context, ev Event) error
}

// Publisher is the write side used by the stores.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// Bus delivers each event synchronously to every subscriber. Handler errors
// are logged and never returned to the publisher.
type Bus struct {
	handlers []Handler
	log      *logrus.Logger
}

func NewBus(log *logrus.Logger) *Bus {
	return &Bus{log: log}
}

func (b *Bus) Subscribe(h Handler) {
	b.handlers = append(b.handlers, h)
}

func (b *Bus) Publish(ctx context.Context, ev Event) {
	for _, h := range b.handlers {
		if err := h.Handle(ctx, ev); err != nil {
			b.log.WithFields(logrus.Fields{
				"event":   ev.Kind,
				"listing": ev.ListingID,
				"actor":   ev.ActorID,
			}).WithError(err).Error("event handler failed")
		}
	}
}
