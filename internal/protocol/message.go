package protocol

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/entity"
)

type MessageType string

const (
	TypeAssignID MessageType = "ASSIGN_ID"
	TypeJoin     MessageType = "JOIN"
	TypeMove     MessageType = "MOVE"
	TypeWin      MessageType = "WIN"
	TypeDraw     MessageType = "DRAW"
	TypeReset    MessageType = "RESET"
	TypeQuit     MessageType = "QUIT"
	TypeError    MessageType = "ERROR"
	TypeChat     MessageType = "CHAT"
)

// Envelope is one outbound message. Unused fields are omitted on the wire.
// WhoseTurn is set on ASSIGN_ID, MOVE and RESET, 0 once the game is settled.
type Envelope struct {
	Type         MessageType   `json:"type"`
	ClientID     int           `json:"client_id,omitempty"`
	PlayerSymbol entity.Cell   `json:"player_symbol,omitempty"`
	Board        *entity.Board `json:"board,omitempty"`
	WhoseTurn    *int          `json:"whoseTurn,omitempty"`
	Position     *[2]int       `json:"position,omitempty"`
	Winner       entity.Cell   `json:"winner,omitempty"`
	Message      string        `json:"message,omitempty"`
	From         int           `json:"from,omitempty"`
}

func NewAssignID(slot *entity.PlayerSlot, game *entity.Game) Envelope {
	return Envelope{
		Type:         TypeAssignID,
		ClientID:     slot.Number,
		PlayerSymbol: slot.Symbol,
		Board:        &game.Board,
		WhoseTurn:    turnOf(game),
	}
}

func turnOf(game *entity.Game) *int {
	turn := game.Turn
	return &turn
}

func NewJoin(slot *entity.PlayerSlot) Envelope {
	return Envelope{Type: TypeJoin, ClientID: slot.Number, PlayerSymbol: slot.Symbol}
}

// NewMoveResult - MOVE while the game goes on, WIN or DRAW once it is settled.
func NewMoveResult(game *entity.Game, slot, row, col int) Envelope {
	switch game.Status {
	case entity.StatusWon:
		return Envelope{Type: TypeWin, Board: &game.Board, Winner: game.Winner, From: slot}
	case entity.StatusDraw:
		return Envelope{Type: TypeDraw, Board: &game.Board, From: slot}
	default:
		return Envelope{
			Type:      TypeMove,
			Board:     &game.Board,
			WhoseTurn: turnOf(game),
			Position:  &[2]int{row + 1, col + 1},
			From:      slot,
		}
	}
}

func NewReset(game *entity.Game) Envelope {
	return Envelope{Type: TypeReset, Board: &game.Board, WhoseTurn: turnOf(game)}
}

func NewQuit(from int) Envelope {
	return Envelope{Type: TypeQuit, From: from}
}

func NewChat(from *entity.PlayerSlot, message string) Envelope {
	return Envelope{Type: TypeChat, Message: message, From: from.Number, PlayerSymbol: from.Symbol}
}

func NewError(message string) Envelope {
	return Envelope{Type: TypeError, Message: message}
}

// Request is one decoded inbound message: MoveRequest, ChatRequest, ResetRequest,
// QuitRequest or UnknownRequest.
type Request interface {
	isRequest()
}

// MoveRequest carries 1-based coordinates exactly as received.
type MoveRequest struct {
	Row int
	Col int
}

type ChatRequest struct {
	Message string
}

type ResetRequest struct{}

type QuitRequest struct{}

// UnknownRequest keeps the wire type of a message nobody handles.
type UnknownRequest struct {
	Type string
}

func (MoveRequest) isRequest()    {}
func (ChatRequest) isRequest()    {}
func (ResetRequest) isRequest()   {}
func (QuitRequest) isRequest()    {}
func (UnknownRequest) isRequest() {}

// ZeroBased - converts wire coordinates to board indexes.
func (that MoveRequest) ZeroBased() (int, int) {
	return that.Row - 1, that.Col - 1
}

type inboundMessage struct {
	Type     string  `json:"type"`
	Position []int   `json:"position"`
	Message  *string `json:"message"`
}

// DecodeRequest - parses one complete JSON value into a Request.
// Malformed values and missing required fields are protocol errors.
func DecodeRequest(raw []byte) (Request, error) {
	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal message: %w", apperror.ErrProtocol, err)
	}

	if msg.Type == "" {
		return nil, fmt.Errorf("%w: message without type", apperror.ErrProtocol)
	}

	switch MessageType(strings.ToUpper(msg.Type)) {
	case TypeMove:
		if len(msg.Position) != 2 {
			return nil, fmt.Errorf("%w: move position must be [row, col], got %v", apperror.ErrProtocol, msg.Position)
		}
		return MoveRequest{Row: msg.Position[0], Col: msg.Position[1]}, nil
	case TypeChat:
		if msg.Message == nil {
			return nil, fmt.Errorf("%w: chat without message", apperror.ErrProtocol)
		}
		return ChatRequest{Message: *msg.Message}, nil
	case TypeReset:
		return ResetRequest{}, nil
	case TypeQuit:
		return QuitRequest{}, nil
	default:
		return UnknownRequest{Type: msg.Type}, nil
	}
}

// Encode - serialises an envelope once for every recipient.
func Encode(env Envelope) ([]byte, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s envelope: %w", env.Type, err)
	}

	return data, nil
}
