package bus

import (
	"context"
	"time"
)

const (
	EventModelUploaded = "model.uploaded"
	EventModelParsed   = "model.parsed"
	EventModelDeleted  = "model.deleted"
)

// ModelEvent announces a model lifecycle change to other processes.
type ModelEvent struct {
	Type       string    `json:"type"`
	BuildingID uint      `json:"building_id"`
	LocationID uint      `json:"location_id"`
	ModelID    uint      `json:"model_id"`
	ModelName  string    `json:"model_name,omitempty"`
	Created    int       `json:"created,omitempty"`
	At         time.Time `json:"at"`
}

type Bus interface {
	Publish(ctx context.Context, ev ModelEvent) error
	StartForwarder(ctx context.Context, onEvent func(ev ModelEvent)) error
	Close() error
}

type noopBus struct{}

// NewNoopBus returns a Bus that drops every event.
func NewNoopBus() Bus { return noopBus{} }

func (noopBus) Publish(context.Context, ModelEvent) error                 { return nil }
func (noopBus) StartForwarder(context.Context, func(ev ModelEvent)) error { return nil }
func (noopBus) Close() error                                              { return nil }
