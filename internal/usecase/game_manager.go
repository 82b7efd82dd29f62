package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/entity"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/protocol"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/tictactoe"
)

// broadcaster is called with the session lock held and must only enqueue:
// deliveries then follow the order of the mutations that produced them.
type broadcaster interface {
	Broadcast(recipients []*entity.PlayerSlot, env protocol.Envelope)
	Disconnect(slots []*entity.PlayerSlot)
}

type resultRepo interface {
	Save(ctx context.Context, result *entity.Result) error
}

// GameManager owns the session: the game, the player registry and the single lock
// that every read-modify-write of either goes through.
type GameManager struct {
	logger  *slog.Logger
	out     broadcaster
	results resultRepo
	metrics *metrics.Metrics
	now     func() time.Time

	mu       sync.Mutex
	game     *entity.Game
	registry *Registry
}

func NewGameManager(logger *slog.Logger, out broadcaster, results resultRepo, m *metrics.Metrics) *GameManager {
	return &GameManager{
		logger:  logger.With("component", "game_manager"),
		out:     out,
		results: results,
		metrics: m,
		now:     time.Now,

		game:     entity.NewGame(),
		registry: NewRegistry(),
	}
}

// Join - admits a connection, sends it ASSIGN_ID and announces it to everybody with JOIN.
func (that *GameManager) Join(conn io.WriteCloser, remoteAddr string) (*entity.PlayerSlot, error) {
	log := that.logger.With("method", "Join", "remote_addr", remoteAddr)

	that.mu.Lock()
	defer that.mu.Unlock()

	slot, err := that.registry.Admit(conn, remoteAddr)
	if err != nil {
		that.metrics.Connection(metrics.ConnectionRejected)
		log.Warn("connection rejected", "error", err)

		return nil, err
	}

	that.metrics.Connection(metrics.ConnectionAdmitted)
	that.metrics.ActivePlayers(that.registry.Len())

	that.out.Broadcast([]*entity.PlayerSlot{slot}, protocol.NewAssignID(slot, that.game.Clone()))
	that.out.Broadcast(that.registry.All(), protocol.NewJoin(slot))

	log.Info("player joined", "slot", slot.Number, "symbol", slot.Symbol)

	return slot, nil
}

// Leave - recovery after a connection is lost. The other player cannot go on alone,
// so it is told QUIT and closed, and the game starts over for the next pair.
// Calls for a slot that is no longer registered do nothing.
func (that *GameManager) Leave(slot *entity.PlayerSlot) bool {
	log := that.logger.With("method", "Leave", "slot", slot.Number)

	that.mu.Lock()
	defer that.mu.Unlock()

	if !that.registry.Remove(slot) {
		return false
	}

	others := that.registry.Clear()
	if len(others) > 0 {
		that.out.Broadcast(others, protocol.NewQuit(slot.Number))
		that.out.Disconnect(others)
	}

	tictactoe.Reset(that.game)
	that.metrics.ActivePlayers(0)

	log.Info("player left, session reset", "evicted", len(others))

	return true
}

// Dispatch - routes one request of a registered slot to its handler.
// Validation errors are already answered with an ERROR envelope when returned.
func (that *GameManager) Dispatch(ctx context.Context, slot *entity.PlayerSlot, request protocol.Request) error {
	switch req := request.(type) {
	case protocol.MoveRequest:
		return that.handleMove(ctx, slot, req)
	case protocol.ChatRequest:
		return that.handleChat(slot, req)
	case protocol.ResetRequest:
		return that.handleReset(slot)
	case protocol.QuitRequest:
		return that.handleQuit(slot)
	case protocol.UnknownRequest:
		return that.handleUnknown(slot, req)
	default:
		return fmt.Errorf("%w: unsupported request %T", apperror.ErrProtocol, request)
	}
}

func (that *GameManager) handleMove(ctx context.Context, slot *entity.PlayerSlot, req protocol.MoveRequest) error {
	log := that.logger.With("method", "handleMove", "slot", slot.Number)

	game, err := that.applyMove(slot, req)
	if errors.Is(err, apperror.ErrNotRegistered) {
		return err
	}

	if err != nil {
		that.metrics.Move(moveOutcome(err))
		return err
	}

	that.metrics.Move(metrics.MoveAccepted)
	log.Debug("move applied", "row", req.Row, "col", req.Col, "status", game.Status)

	if game.IsFinished() {
		that.finishGame(ctx, game)
	}

	return nil
}

func (that *GameManager) applyMove(slot *entity.PlayerSlot, req protocol.MoveRequest) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if !that.registry.Contains(slot) {
		return nil, apperror.ErrNotRegistered
	}

	row, col := req.ZeroBased()
	if err := tictactoe.MakeTurn(that.game, slot.Number, row, col); err != nil {
		that.out.Broadcast([]*entity.PlayerSlot{slot}, protocol.NewError(ErrorMessage(err)))
		return nil, err
	}

	game := that.game.Clone()
	that.out.Broadcast(that.registry.All(), protocol.NewMoveResult(game, slot.Number, row, col))

	return game, nil
}

// finishGame - records a settled game outside the session lock, failures are only logged.
func (that *GameManager) finishGame(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "finishGame", "game_id", game.ID)

	result := entity.NewResult(game, that.now())
	that.metrics.GameFinished(result.Winner)

	if err := that.results.Save(ctx, result); err != nil {
		log.Error("failed to save game result", "error", err)
		return
	}

	log.Info("game finished", "winner", result.Winner, "moves", result.Moves)
}

func (that *GameManager) handleChat(slot *entity.PlayerSlot, req protocol.ChatRequest) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if !that.registry.Contains(slot) {
		return apperror.ErrNotRegistered
	}

	that.out.Broadcast(that.registry.All(), protocol.NewChat(slot, req.Message))

	return nil
}

func (that *GameManager) handleReset(slot *entity.PlayerSlot) error {
	log := that.logger.With("method", "handleReset", "slot", slot.Number)

	that.mu.Lock()
	defer that.mu.Unlock()

	if !that.registry.Contains(slot) {
		return apperror.ErrNotRegistered
	}

	tictactoe.Reset(that.game)
	that.out.Broadcast(that.registry.All(), protocol.NewReset(that.game.Clone()))

	log.Info("game reset", "game_id", that.game.ID)

	return nil
}

// handleQuit - QUIT goes to everybody, then both connections are closed and the game starts over.
func (that *GameManager) handleQuit(slot *entity.PlayerSlot) error {
	log := that.logger.With("method", "handleQuit", "slot", slot.Number)

	that.mu.Lock()
	defer that.mu.Unlock()

	if !that.registry.Contains(slot) {
		return apperror.ErrNotRegistered
	}

	evicted := that.registry.Clear()
	that.out.Broadcast(evicted, protocol.NewQuit(slot.Number))
	that.out.Disconnect(evicted)

	tictactoe.Reset(that.game)
	that.metrics.ActivePlayers(0)

	log.Info("player quit, session reset")

	return nil
}

func (that *GameManager) handleUnknown(slot *entity.PlayerSlot, req protocol.UnknownRequest) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if !that.registry.Contains(slot) {
		return apperror.ErrNotRegistered
	}

	err := fmt.Errorf("%w: %w: %q", apperror.ErrValidation, apperror.ErrUnknownMessageType, req.Type)
	that.out.Broadcast([]*entity.PlayerSlot{slot}, protocol.NewError(ErrorMessage(err)))

	return err
}

// Game - snapshot of the current game.
func (that *GameManager) Game() *entity.Game {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.game.Clone()
}

// Players - snapshot of the occupied slots.
func (that *GameManager) Players() []*entity.PlayerSlot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.registry.All()
}

// ErrorMessage - the text an ERROR envelope carries for a rejected request.
func ErrorMessage(err error) string {
	for _, known := range []error{
		apperror.ErrGameFinished,
		apperror.ErrNotYourTurn,
		apperror.ErrInvalidMove,
		apperror.ErrUnknownMessageType,
		apperror.ErrSessionFull,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}

	return err.Error()
}

func moveOutcome(err error) string {
	switch {
	case errors.Is(err, apperror.ErrGameFinished):
		return metrics.MoveFinished
	case errors.Is(err, apperror.ErrNotYourTurn):
		return metrics.MoveNotYourTurn
	default:
		return metrics.MoveInvalid
	}
}
