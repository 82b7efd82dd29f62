package socket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/config"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/entity"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/protocol"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/usecase"
)

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

type sessionManager interface {
	Join(conn io.WriteCloser, remoteAddr string) (*entity.PlayerSlot, error)
	Leave(slot *entity.PlayerSlot) bool
	Dispatch(ctx context.Context, slot *entity.PlayerSlot, request protocol.Request) error
}

// Server accepts player connections and runs one read loop per connection.
type Server struct {
	logger  *slog.Logger
	conf    config.Socket
	manager sessionManager
	out     *Broadcaster
	metrics *metrics.Metrics

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	wg       sync.WaitGroup
}

func New(logger *slog.Logger, conf config.Socket, manager sessionManager, out *Broadcaster, m *metrics.Metrics) *Server {
	return &Server{
		logger:  logger.With("component", "socket_server"),
		conf:    conf,
		manager: manager,
		out:     out,
		metrics: m,
		conns:   make(map[net.Conn]struct{}),
	}
}

// Listen - binds the TCP listener.
func (that *Server) Listen() error {
	listener, err := net.Listen("tcp", that.conf.GetAddr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", that.conf.GetAddr(), err)
	}

	that.mu.Lock()
	that.listener = listener
	that.mu.Unlock()

	return nil
}

// Addr - the bound address, empty before Listen.
func (that *Server) Addr() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.listener == nil {
		return ""
	}

	return that.listener.Addr().String()
}

// Start - listens and serves until ctx is done.
func (that *Server) Start(ctx context.Context) error {
	if err := that.Listen(); err != nil {
		return err
	}

	return that.Serve(ctx)
}

// Serve - accepts connections on the bound listener until ctx is done,
// then closes every connection and waits for their loops to finish.
func (that *Server) Serve(ctx context.Context) error {
	log := that.logger.With("method", "Serve")

	that.mu.Lock()
	listener := that.listener
	that.mu.Unlock()

	if listener == nil {
		return fmt.Errorf("%w: server is not listening", apperror.ErrConnectivity)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var delivery sync.WaitGroup
	delivery.Add(1)
	go func() {
		defer delivery.Done()
		that.out.Run(ctx)
	}()

	go func() {
		<-ctx.Done()
		if err := listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			log.Error("failed to close listener", "error", err)
		}
	}()

	log.Info("socket server listening", "addr", listener.Addr().String())

	var retryDelay time.Duration

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}

			retryDelay = nextAcceptDelay(retryDelay)
			log.Error("failed to accept connection", "error", err, "retry_in", retryDelay)

			select {
			case <-ctx.Done():
			case <-time.After(retryDelay):
			}

			continue
		}

		retryDelay = 0

		that.track(conn)
		that.wg.Add(1)
		go that.handleConn(ctx, conn)
	}

	cancel()
	that.closeAll()
	that.wg.Wait()
	delivery.Wait()

	log.Info("socket server stopped")

	return nil
}

// nextAcceptDelay - doubles the pause after each failed Accept, up to maxAcceptDelay.
func nextAcceptDelay(previous time.Duration) time.Duration {
	if previous == 0 {
		return minAcceptDelay
	}

	return min(previous*2, maxAcceptDelay)
}

// handleConn - admits the connection and reads its requests until it is lost, quits or is evicted.
func (that *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer that.wg.Done()
	defer that.untrack(conn)

	addr := conn.RemoteAddr().String()
	log := that.logger.With("method", "handleConn", "remote_addr", addr)
	start := time.Now()

	slot, err := that.manager.Join(conn, addr)
	if err != nil {
		that.reject(conn, err)
		return
	}

	log = log.With("slot", slot.Number)

	defer func() {
		// Evicted or quitting slots are closed by the broadcaster after their last QUIT.
		if that.manager.Leave(slot) {
			_ = conn.Close()
			that.out.Disconnect([]*entity.PlayerSlot{slot})
		}

		log.Info("connection finished", "duration", time.Since(start))
	}()

	reader := protocol.NewReader(conn, that.conf.MaxMessageSize)

	for {
		raw, err := reader.Next()
		if err != nil {
			if errors.Is(err, apperror.ErrConnectivity) {
				log.Debug("connection lost", "error", err)
				return
			}

			that.metrics.ProtocolError()
			log.Warn("dropped malformed data", "error", err)

			continue
		}

		request, err := protocol.DecodeRequest(raw)
		if err != nil {
			that.metrics.ProtocolError()
			log.Warn("dropped malformed message", "error", err)

			continue
		}

		if err = that.manager.Dispatch(ctx, slot, request); err != nil {
			if errors.Is(err, apperror.ErrNotRegistered) {
				log.Debug("slot no longer registered")
				return
			}

			log.Info("request rejected", "error", err)
		}

		if _, ok := request.(protocol.QuitRequest); ok {
			return
		}
	}
}

// reject - tells a connection that was never admitted why, then closes it.
func (that *Server) reject(conn net.Conn, cause error) {
	log := that.logger.With("method", "reject", "remote_addr", conn.RemoteAddr().String())

	defer conn.Close()

	payload, err := protocol.Encode(protocol.NewError(usecase.ErrorMessage(cause)))
	if err != nil {
		log.Error("failed to encode rejection", "error", err)
		return
	}

	if err = writeWithDeadline(conn, payload, that.conf.WriteTimeout); err != nil {
		log.Warn("failed to send rejection", "error", err)
	}
}

func (that *Server) track(conn net.Conn) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.conns[conn] = struct{}{}
}

func (that *Server) untrack(conn net.Conn) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.conns, conn)
}

func (that *Server) closeAll() {
	that.mu.Lock()
	defer that.mu.Unlock()

	for conn := range that.conns {
		_ = conn.Close()
	}
}
