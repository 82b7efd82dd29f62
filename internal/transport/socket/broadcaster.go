package socket

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/entity"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/protocol"
)

type deadliner interface {
	SetWriteDeadline(t time.Time) error
}

type outgoing struct {
	payload    []byte
	disconnect bool
}

// outbox is the ordered queue of one connection, drained by its own writer goroutine.
type outbox struct {
	slot *entity.PlayerSlot

	mu    sync.Mutex
	queue []outgoing
	wake  chan struct{}
}

func (that *outbox) push(item outgoing) {
	that.mu.Lock()
	that.queue = append(that.queue, item)
	that.mu.Unlock()

	select {
	case that.wake <- struct{}{}:
	default:
	}
}

func (that *outbox) drain() []outgoing {
	that.mu.Lock()
	defer that.mu.Unlock()

	items := that.queue
	that.queue = nil

	return items
}

// Broadcaster writes envelopes to players, one writer goroutine per connection.
// Each connection gets its envelopes in the order they were queued; a peer that stops
// reading only holds up its own queue, and is closed after its first failed write.
// Broadcast and Disconnect never block on the network.
type Broadcaster struct {
	logger       *slog.Logger
	writeTimeout time.Duration

	mu       sync.Mutex
	outboxes map[*entity.PlayerSlot]*outbox
	stopped  bool
	quit     chan struct{}
	wg       sync.WaitGroup
}

func NewBroadcaster(logger *slog.Logger, writeTimeout time.Duration) *Broadcaster {
	return &Broadcaster{
		logger:       logger.With("component", "broadcaster"),
		writeTimeout: writeTimeout,
		outboxes:     make(map[*entity.PlayerSlot]*outbox),
		quit:         make(chan struct{}),
	}
}

// Broadcast - queues one envelope for every recipient, serialised once.
func (that *Broadcaster) Broadcast(recipients []*entity.PlayerSlot, env protocol.Envelope) {
	if len(recipients) == 0 {
		return
	}

	payload, err := protocol.Encode(env)
	if err != nil {
		that.logger.Error("failed to encode envelope", "method", "Broadcast", "error", err)
		return
	}

	for _, slot := range recipients {
		that.outboxFor(slot).push(outgoing{payload: payload})
	}
}

// Disconnect - closes the connections once everything queued before has been written.
func (that *Broadcaster) Disconnect(slots []*entity.PlayerSlot) {
	for _, slot := range slots {
		that.outboxFor(slot).push(outgoing{disconnect: true})
	}
}

// Run - keeps the writers alive until ctx is done, then stops them and waits.
func (that *Broadcaster) Run(ctx context.Context) {
	<-ctx.Done()

	that.mu.Lock()
	if !that.stopped {
		that.stopped = true
		close(that.quit)
	}
	that.mu.Unlock()

	that.wg.Wait()
}

func (that *Broadcaster) outboxFor(slot *entity.PlayerSlot) *outbox {
	that.mu.Lock()
	defer that.mu.Unlock()

	if box, ok := that.outboxes[slot]; ok {
		return box
	}

	box := &outbox{slot: slot, wake: make(chan struct{}, 1)}
	if that.stopped {
		return box
	}

	that.outboxes[slot] = box

	that.wg.Add(1)
	go that.write(box)

	return box
}

func (that *Broadcaster) release(box *outbox) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.outboxes[box.slot] == box {
		delete(that.outboxes, box.slot)
	}
}

// write - drains one connection until it is disconnected, a write fails or the broadcaster stops.
func (that *Broadcaster) write(box *outbox) {
	defer that.wg.Done()
	defer that.release(box)

	log := that.logger.With("method", "write", "slot", box.slot.Number, "remote_addr", box.slot.RemoteAddr)

	for {
		select {
		case <-that.quit:
			return
		case <-box.wake:
		}

		for _, item := range box.drain() {
			if item.disconnect {
				that.close(box.slot, log)
				return
			}

			// A write cut short leaves a partial value on the stream, nothing may follow it.
			if err := writeWithDeadline(box.slot.Conn, item.payload, that.writeTimeout); err != nil {
				log.Warn("failed to deliver message, closing connection", "error", err)
				that.close(box.slot, log)

				return
			}
		}
	}
}

func (that *Broadcaster) close(slot *entity.PlayerSlot, log *slog.Logger) {
	if err := slot.Conn.Close(); err != nil {
		log.Debug("failed to close connection", "error", err)
	}
}

// writeWithDeadline - writes payload, bounded by timeout when the writer supports deadlines.
func writeWithDeadline(w io.Writer, payload []byte, timeout time.Duration) error {
	if conn, ok := w.(deadliner); ok && timeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
			return err
		}
	}

	_, err := w.Write(payload)

	return err
}
