// Package audit writes platform audit events to the audit log, the metrics cube
// and the latest-entity index.
package audit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrMalformedEvent means the raw event was not a decodable audit message.
	ErrMalformedEvent = errors.New("malformed audit event")
	// ErrNoNamespace means the event's entity is not scoped to a namespace.
	ErrNoNamespace = errors.New("audit event entity has no namespace")
)

// Type is the kind of change an audit message records.
type Type string

const (
	TypeCreate         Type = "CREATE"
	TypeUpdate         Type = "UPDATE"
	TypeDelete         Type = "DELETE"
	TypeTruncate       Type = "TRUNCATE"
	TypeAccess         Type = "ACCESS"
	TypeMetadataChange Type = "METADATA_CHANGE"
)

// EntityID identifies the audited entity. Events carry the entity's name under a
// key named after its type (for example {"entity":"DATASET","dataset":"purchases"});
// a plain "name" key is accepted too.
type EntityID struct {
	Namespace string
	Entity    string
	Name      string
}

// Key identifies the entity within its namespace.
func (e EntityID) Key() string {
	return e.Entity + ":" + e.Name
}

func (e EntityID) MarshalJSON() ([]byte, error) {
	out := map[string]string{"entity": e.Entity, "name": e.Name}
	if e.Namespace != "" {
		out["namespace"] = e.Namespace
	}
	return json.Marshal(out)
}

func (e *EntityID) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	field := func(key string) (string, error) {
		v, ok := raw[key]
		if !ok {
			return "", nil
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", fmt.Errorf("entityId.%s: %w", key, err)
		}
		return s, nil
	}

	var err error
	if e.Namespace, err = field("namespace"); err != nil {
		return err
	}
	if e.Entity, err = field("entity"); err != nil {
		return err
	}
	if e.Name, err = field("name"); err != nil {
		return err
	}
	if e.Name == "" && e.Entity != "" {
		if e.Name, err = field(strings.ToLower(e.Entity)); err != nil {
			return err
		}
	}
	return nil
}

// Message is one audit event.
type Message struct {
	// Time is the event time in unix milliseconds.
	Time     int64           `json:"time"`
	EntityID EntityID        `json:"entityId"`
	User     string          `json:"user,omitempty"`
	Type     Type            `json:"type"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// EventTime converts Time to a time.Time.
func (m Message) EventTime() time.Time {
	return time.UnixMilli(m.Time).UTC()
}

// Parse decodes one raw event. Blank input yields ok=false and no error.
func Parse(raw []byte) (msg Message, ok bool, err error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Message{}, false, nil
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		return Message{}, false, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if msg.EntityID.Entity == "" || msg.Type == "" {
		return Message{}, false, fmt.Errorf("%w: entityId.entity and type are required", ErrMalformedEvent)
	}
	if msg.EntityID.Namespace == "" {
		return Message{}, false, fmt.Errorf("%w: %s", ErrNoNamespace, msg.EntityID.Key())
	}
	return msg, true, nil
}
