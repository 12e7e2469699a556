package relay

import (
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/hrpulse/notify-relay/internal/metrics"
)

// --- Command types ---

type registryCmd interface{ isRegistryCmd() }

type baseRegistryCmd struct{}

func (baseRegistryCmd) isRegistryCmd() {}

type registerCmd struct {
	baseRegistryCmd
	connection   *websocket.Conn
	replyChannel chan uuid.UUID
}

type subscribeCmd struct {
	baseRegistryCmd
	clientID uuid.UUID
	userID   string
}

type unregisterCmd struct {
	baseRegistryCmd
	clientID uuid.UUID
}

type deliverCmd struct {
	baseRegistryCmd
	userID       string
	frame        []byte
	replyChannel chan int
}

type broadcastCmd struct {
	baseRegistryCmd
	frame        []byte
	replyChannel chan int
}

type countCmd struct {
	baseRegistryCmd
	replyChannel chan int
}

type stopCmd struct {
	baseRegistryCmd
}

// --- Registry ---

// connection is one registry entry: a live socket, its writer, and the user
// it is subscribed to (empty until a subscribe frame arrives).
type connection struct {
	id     uuid.UUID
	userID string
	writer *clientWriter
}

// Registry maps client ids to open connections and answers which connections
// should receive a payload addressed to a given user. It is the sole owner of
// its state: every mutation and every delivery scan runs on the actor
// goroutine, one command at a time.
//
// The user lookup is deliberately a flat scan over all connections; expected
// connection counts are low hundreds at most. If that ever changes, the first
// optimization is a secondary index userID -> client ids maintained on
// subscribe/unregister.
type Registry struct {
	commandChannel chan registryCmd
	clock          clockwork.Clock
	connections    map[uuid.UUID]*connection
}

// NewRegistry creates a registry and starts its actor goroutine.
func NewRegistry(clock clockwork.Clock) *Registry {
	r := &Registry{
		commandChannel: make(chan registryCmd, 256),
		clock:          clock,
		connections:    make(map[uuid.UUID]*connection),
	}
	go r.run()
	return r
}

func (r *Registry) run() {
	for cmd := range r.commandChannel {
		switch c := cmd.(type) {
		case registerCmd:
			c.replyChannel <- r.handleRegister(c)
		case subscribeCmd:
			r.handleSubscribe(c)
		case unregisterCmd:
			r.handleUnregister(c.clientID)
		case deliverCmd:
			c.replyChannel <- r.handleDeliver(c)
		case broadcastCmd:
			c.replyChannel <- r.handleBroadcast(c)
		case countCmd:
			c.replyChannel <- len(r.connections)
		case stopCmd:
			r.handleStop()
			return
		default:
			slog.Error("Registry: unknown command type", "command", cmd)
		}
	}
}

func (r *Registry) handleRegister(c registerCmd) uuid.UUID {
	id := uuid.New()
	conn := &connection{
		id:     id,
		writer: newClientWriter(c.connection, r.clock),
	}
	r.connections[id] = conn
	metrics.WebSocketConnectionsCurrent.Set(float64(len(r.connections)))

	ack, err := marshalConnectionAck(id)
	if err != nil {
		slog.Error("Failed to marshal connection ack", "client_id", id, "error", err)
	} else {
		conn.writer.tryEnqueue(ack)
	}

	slog.Info("Connection registered", "client_id", id, "total_connections", len(r.connections))
	return id
}

func (r *Registry) handleSubscribe(c subscribeCmd) {
	conn, exists := r.connections[c.clientID]
	if !exists {
		// The connection raced its own close; nothing to bind.
		slog.Debug("Subscribe for unknown client", "client_id", c.clientID)
		return
	}

	// Last subscribe wins: re-subscribing simply overwrites the binding.
	conn.userID = c.userID
	metrics.RelaySubscriptionsTotal.Inc()
	slog.Info("Connection subscribed", "client_id", c.clientID, "user_id", c.userID)
}

func (r *Registry) handleUnregister(clientID uuid.UUID) {
	conn, exists := r.connections[clientID]
	if !exists {
		// Close and error handlers may both fire; the second call is a no-op.
		return
	}

	conn.writer.stop()
	delete(r.connections, clientID)
	metrics.WebSocketConnectionsCurrent.Set(float64(len(r.connections)))
	slog.Info("Connection unregistered", "client_id", clientID, "remaining_connections", len(r.connections))
}

func (r *Registry) handleDeliver(c deliverCmd) int {
	delivered := 0
	for _, conn := range r.connections {
		if conn.userID != c.userID {
			continue
		}
		if conn.writer.tryEnqueue(c.frame) {
			delivered++
		} else {
			// Non-writable connections are skipped, never reaped here:
			// cleanup belongs exclusively to the close/error path.
			metrics.RelayDroppedFramesTotal.Inc()
			slog.Debug("Dropped frame for non-writable connection", "client_id", conn.id, "user_id", c.userID)
		}
	}

	metrics.RelayDeliveredFramesTotal.WithLabelValues("user").Add(float64(delivered))
	return delivered
}

func (r *Registry) handleBroadcast(c broadcastCmd) int {
	delivered := 0
	for _, conn := range r.connections {
		if conn.writer.tryEnqueue(c.frame) {
			delivered++
		} else {
			metrics.RelayDroppedFramesTotal.Inc()
			slog.Debug("Dropped broadcast frame for non-writable connection", "client_id", conn.id)
		}
	}

	metrics.RelayDeliveredFramesTotal.WithLabelValues("broadcast").Add(float64(delivered))
	return delivered
}

func (r *Registry) handleStop() {
	for id, conn := range r.connections {
		conn.writer.stop()
		delete(r.connections, id)
	}
	metrics.WebSocketConnectionsCurrent.Set(0)
}

// --- Public API ---

// Register adds a newly accepted connection, assigns it a client id unique
// for the process lifetime, and sends the connection ack frame. The registry
// owns the connection from here until Unregister.
func (r *Registry) Register(conn *websocket.Conn) uuid.UUID {
	replyChannel := make(chan uuid.UUID, 1)
	r.commandChannel <- registerCmd{connection: conn, replyChannel: replyChannel}
	return <-replyChannel
}

// Subscribe binds a connection to a user. Idempotent; a later subscribe
// overwrites the previous binding. Unknown client ids are ignored.
func (r *Registry) Subscribe(clientID uuid.UUID, userID string) {
	r.commandChannel <- subscribeCmd{clientID: clientID, userID: userID}
}

// Unregister removes a connection unconditionally, whether or not it ever
// subscribed. Safe to call more than once.
func (r *Registry) Unregister(clientID uuid.UUID) {
	r.commandChannel <- unregisterCmd{clientID: clientID}
}

// Deliver fans the payload out to every connection subscribed to userID and
// reports how many were actually written to. A user with no subscribers
// yields 0, not an error.
func (r *Registry) Deliver(userID string, payload json.RawMessage) int {
	frame, err := marshalNotificationEnvelope(payload)
	if err != nil {
		slog.Error("Failed to marshal notification envelope", "user_id", userID, "error", err)
		return 0
	}

	replyChannel := make(chan int, 1)
	r.commandChannel <- deliverCmd{userID: userID, frame: frame, replyChannel: replyChannel}
	return <-replyChannel
}

// BroadcastAll sends the payload to every open connection regardless of
// subscription, for process-wide announcements.
func (r *Registry) BroadcastAll(payload json.RawMessage) int {
	frame, err := marshalNotificationEnvelope(payload)
	if err != nil {
		slog.Error("Failed to marshal broadcast envelope", "error", err)
		return 0
	}

	replyChannel := make(chan int, 1)
	r.commandChannel <- broadcastCmd{frame: frame, replyChannel: replyChannel}
	return <-replyChannel
}

// Count returns the number of currently registered connections.
func (r *Registry) Count() int {
	replyChannel := make(chan int, 1)
	r.commandChannel <- countCmd{replyChannel: replyChannel}
	return <-replyChannel
}

// Stop closes every connection and terminates the actor. Intended for
// process shutdown only; the registry is not restartable.
func (r *Registry) Stop() {
	r.commandChannel <- stopCmd{}
}
