package apperror

import "errors"

// error categories, used as the outer %w of every error that leaves a component.
var (
	ErrProtocol     = errors.New("protocol error")
	ErrValidation   = errors.New("validation error")
	ErrCapacity     = errors.New("capacity error")
	ErrConnectivity = errors.New("connectivity error")
)

var (
	ErrGameFinished       = errors.New("game is already finished")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrInvalidMove        = errors.New("invalid move")
	ErrCellOccupied       = errors.New("cell is already occupied")
	ErrOutOfRange         = errors.New("coordinates out of range")
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrSessionFull        = errors.New("session is full")
	ErrNotRegistered      = errors.New("player is not registered")
	ErrMessageTooLarge    = errors.New("message too large")
)
