// Package relay implements the in-memory connection registry and broadcast
// relay. It tracks every open WebSocket connection, the optional user
// subscription bound to it, and fans notification payloads out to all
// connections currently subscribed to a target user.
//
// All registry state is owned by a single actor goroutine fed through a
// command channel, so no operation observes partial mutations. Socket writes
// happen on per-connection writer goroutines with bounded buffers; a slow
// client can only lose its own frames, never stall the registry. Delivery is
// best-effort and at-most-once by design — durable notification state lives
// outside this process.
package relay
