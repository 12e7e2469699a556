package relay

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Wire frame discriminants.
const (
	TypeSubscribe    = "subscribe"
	TypeNotification = "notification"
	TypeConnection   = "connection"
)

// ErrUnknownType marks inbound frames whose type discriminant is not part of
// the protocol. Such frames are dropped, the connection stays open.
var ErrUnknownType = errors.New("unknown frame type")

// InboundFrame is a client-to-relay message. UserID and Notification are
// interpreted according to Type: a subscribe frame binds the sending
// connection to UserID, a notification frame requests fan-out of the opaque
// Notification payload to all connections subscribed to UserID.
type InboundFrame struct {
	Type         string          `json:"type"`
	UserID       string          `json:"userId"`
	Notification json.RawMessage `json:"notification"`
}

// ParseInbound decodes and validates a raw inbound frame. Malformed JSON,
// missing required fields, and unknown discriminants all return an error;
// callers log and drop, they never close the connection over it.
func ParseInbound(data []byte) (*InboundFrame, error) {
	var frame InboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}

	switch frame.Type {
	case TypeSubscribe:
		if frame.UserID == "" {
			return nil, errors.New("subscribe frame missing userId")
		}
	case TypeNotification:
		if frame.UserID == "" {
			return nil, errors.New("notification frame missing userId")
		}
		if len(frame.Notification) == 0 {
			return nil, errors.New("notification frame missing notification payload")
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, frame.Type)
	}

	return &frame, nil
}

// connectionAck is sent to a client immediately after its connection is
// registered, carrying the assigned client id for log correlation.
type connectionAck struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	ClientID string `json:"clientId"`
}

func marshalConnectionAck(clientID uuid.UUID) ([]byte, error) {
	ack := connectionAck{
		Type:     TypeConnection,
		Message:  "Connected to notification server",
		ClientID: clientID.String(),
	}
	data, err := json.Marshal(ack)
	if err != nil {
		return nil, fmt.Errorf("marshal connection ack: %w", err)
	}
	return data, nil
}

// notificationEnvelope wraps an opaque payload for delivery to subscribers.
// The payload is forwarded as-is; the relay never inspects it.
type notificationEnvelope struct {
	Type         string          `json:"type"`
	Notification json.RawMessage `json:"notification"`
}

func marshalNotificationEnvelope(payload json.RawMessage) ([]byte, error) {
	data, err := json.Marshal(notificationEnvelope{Type: TypeNotification, Notification: payload})
	if err != nil {
		return nil, fmt.Errorf("marshal notification envelope: %w", err)
	}
	return data, nil
}
