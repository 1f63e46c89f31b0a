// Package stream broadcasts dataset lifecycle events so external consumers
// (dashboards, pipelines) can react to uploads, builds and exports as they
// happen.
package stream

import (
	"encoding/json"
	"sync"
	"time"
)

// Event types emitted by the service.
const (
	EventDatasetCreated = "dataset.created"
	EventDatasetParsed  = "dataset.parsed"
	EventGraphBuilt     = "graph.built"
	EventGraphAnalyzed  = "dataset.analyzed"
	EventLayoutComputed = "layout.computed"
	EventExportWritten  = "export.written"
	EventDatasetDeleted = "dataset.deleted"
)

// Event is the wire envelope. Sequence numbers are assigned by the bus and
// strictly increase, letting consumers detect gaps after reconnects.
type Event struct {
	Sequence  uint64         `json:"sequence"`
	Type      string         `json:"type"`
	DatasetID string         `json:"dataset_id"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// Encode serializes the event for transport.
func (e *Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeEvent parses an event from its wire form.
func DecodeEvent(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Transport delivers encoded events to subscribers.
type Transport interface {
	Send(data []byte) error
	Close() error
}

// Bus stamps events with sequence numbers and fans them out to transports.
// Transport errors are collected, not fatal: one slow consumer must not
// block the analysis path.
type Bus struct {
	mu         sync.Mutex
	sequence   uint64
	transports []Transport
	now        func() time.Time
}

// NewBus creates an event bus over the given transports.
func NewBus(transports ...Transport) *Bus {
	return &Bus{
		transports: transports,
		now:        time.Now,
	}
}

// Publish stamps and broadcasts an event. Returns the assigned sequence.
func (b *Bus) Publish(eventType, datasetID string, payload map[string]any) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sequence++
	event := &Event{
		Sequence:  b.sequence,
		Type:      eventType,
		DatasetID: datasetID,
		Timestamp: b.now().UTC(),
		Payload:   payload,
	}

	data, err := event.Encode()
	if err != nil {
		return 0, err
	}

	var firstErr error
	for _, t := range b.transports {
		if err := t.Send(data); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return event.Sequence, firstErr
}

// Close shuts down all transports.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var firstErr error
	for _, t := range b.transports {
		if err := t.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ChanTransport delivers events to an in-process channel. Used by the TUI
// and by tests; drops events when the buffer is full rather than blocking.
type ChanTransport struct {
	ch chan []byte
}

// NewChanTransport creates a buffered in-process transport.
func NewChanTransport(buffer int) *ChanTransport {
	if buffer <= 0 {
		buffer = 64
	}
	return &ChanTransport{ch: make(chan []byte, buffer)}
}

// C exposes the receive side.
func (t *ChanTransport) C() <-chan []byte { return t.ch }

func (t *ChanTransport) Send(data []byte) error {
	select {
	case t.ch <- data:
	default:
	}
	return nil
}

func (t *ChanTransport) Close() error {
	close(t.ch)
	return nil
}
