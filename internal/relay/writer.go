package relay

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/hrpulse/notify-relay/internal/metrics"
)

const (
	writeDeadline   = 5 * time.Second
	pingInterval    = 30 * time.Second
	pongDeadline    = 60 * time.Second
	frameBufferSize = 16
)

// clientWriter serializes all writes to one WebSocket connection. Frames are
// offered through tryEnqueue without blocking; the run goroutine drains the
// buffer and additionally keeps the transport alive with pings. Keepalive is
// a transport concern only — the registry never runs timers.
type clientWriter struct {
	connection  *websocket.Conn
	clock       clockwork.Clock
	sendChannel chan []byte
	doneChannel chan struct{}
	deadChannel chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

func newClientWriter(connection *websocket.Conn, clock clockwork.Clock) *clientWriter {
	cw := &clientWriter{
		connection:  connection,
		clock:       clock,
		sendChannel: make(chan []byte, frameBufferSize),
		doneChannel: make(chan struct{}),
		deadChannel: make(chan struct{}),
	}
	cw.configurePongHandler()
	cw.wg.Add(1)
	go cw.run()
	return cw
}

func (cw *clientWriter) run() {
	ticker := cw.clock.NewTicker(pingInterval)
	defer ticker.Stop()
	defer cw.wg.Done()
	// Any exit marks the writer dead so deliveries stop counting it as
	// writable; the entry itself is reaped by the close/error handler.
	defer close(cw.deadChannel)

	for {
		select {
		case frame, ok := <-cw.sendChannel:
			if !ok {
				return
			}
			start := cw.clock.Now()
			cw.updateWriteDeadline()
			if err := cw.connection.WriteMessage(websocket.TextMessage, frame); err != nil {
				// Write failure ends the writer; the connection's own
				// close/error handler is responsible for unregistering.
				return
			}
			metrics.WebSocketMessageSendDuration.Observe(cw.clock.Since(start).Seconds())
		case <-ticker.Chan():
			cw.updateWriteDeadline()
			if err := cw.connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				metrics.WebSocketPingFailures.Inc()
				return
			}
		case <-cw.doneChannel:
			return
		}
	}
}

// tryEnqueue offers a frame without blocking. False means the writer is no
// longer running or its buffer is full; the frame is dropped either way.
func (cw *clientWriter) tryEnqueue(frame []byte) bool {
	select {
	case <-cw.deadChannel:
		return false
	default:
	}

	select {
	case cw.sendChannel <- frame:
		return true
	default:
		return false
	}
}

func (cw *clientWriter) stop() {
	cw.stopOnce.Do(func() {
		close(cw.doneChannel)
		_ = cw.connection.Close()
	})
	cw.wg.Wait()
}

func (cw *clientWriter) configurePongHandler() {
	cw.updateReadDeadline()
	cw.connection.SetPongHandler(func(string) error {
		cw.updateReadDeadline()
		return nil
	})
}

func (cw *clientWriter) updateWriteDeadline() {
	_ = cw.connection.SetWriteDeadline(cw.clock.Now().Add(writeDeadline))
}

func (cw *clientWriter) updateReadDeadline() {
	_ = cw.connection.SetReadDeadline(cw.clock.Now().Add(pongDeadline))
}
