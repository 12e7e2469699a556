// Package server exposes the relay over HTTP: the WebSocket accept endpoint
// with origin checks and connection limits, the producer API for in-process
// delivery requests, and the health/metrics endpoints.
package server
