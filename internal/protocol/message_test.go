package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/entity"
)

func TestDecodeRequest(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Request
	}{
		{name: "Move", raw: `{"type":"MOVE","position":[1,3]}`, expected: MoveRequest{Row: 1, Col: 3}},
		{name: "Lower case move", raw: `{"type":"move","position":[2,2]}`, expected: MoveRequest{Row: 2, Col: 2}},
		{name: "Chat", raw: `{"type":"CHAT","message":"good luck"}`, expected: ChatRequest{Message: "good luck"}},
		{name: "Empty chat", raw: `{"type":"CHAT","message":""}`, expected: ChatRequest{}},
		{name: "Reset", raw: `{"type":"RESET"}`, expected: ResetRequest{}},
		{name: "Quit", raw: `{"type":"QUIT","extra":true}`, expected: QuitRequest{}},
		{name: "Unknown", raw: `{"type":"DANCE"}`, expected: UnknownRequest{Type: "DANCE"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			request, err := DecodeRequest([]byte(tc.raw))

			require.NoError(t, err)
			assert.Equal(t, tc.expected, request)
		})
	}
}

func TestDecodeRequest_ProtocolErrors(t *testing.T) {
	for _, raw := range []string{
		`not json`,
		`[1,2]`,
		`{"position":[1,1]}`,
		`{"type":"MOVE"}`,
		`{"type":"MOVE","position":[1]}`,
		`{"type":"MOVE","position":"a1"}`,
		`{"type":"CHAT"}`,
	} {
		_, err := DecodeRequest([]byte(raw))

		require.ErrorIs(t, err, apperror.ErrProtocol, raw)
	}
}

func TestMoveRequest_ZeroBased(t *testing.T) {
	row, col := MoveRequest{Row: 1, Col: 3}.ZeroBased()

	assert.Equal(t, 0, row)
	assert.Equal(t, 2, col)
}

func TestEncode(t *testing.T) {
	t.Run("Assign id", func(t *testing.T) {
		// Given: slot 2 joining a fresh game
		slot := entity.NewPlayerSlot(entity.SlotO, nil, "")
		game := entity.NewGame()

		// When: encoding the ASSIGN_ID envelope
		data, err := Encode(NewAssignID(slot, game))

		// Then: it carries id, symbol, board and turn
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"type":"ASSIGN_ID","client_id":2,"player_symbol":"O",
			"board":[["","",""],["","",""],["","",""]],"whoseTurn":1
		}`, string(data))
	})

	t.Run("Assign id for a settled game keeps the turn field", func(t *testing.T) {
		// Given: a game X already won
		slot := entity.NewPlayerSlot(entity.SlotO, nil, "")
		game := &entity.Game{Status: entity.StatusWon, Winner: entity.MarkX}

		// When: encoding the ASSIGN_ID envelope
		data, err := Encode(NewAssignID(slot, game))

		// Then: whoseTurn is present with 0, nobody is to move
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"type":"ASSIGN_ID","client_id":2,"player_symbol":"O",
			"board":[["","",""],["","",""],["","",""]],"whoseTurn":0
		}`, string(data))
	})

	t.Run("Move result while in progress", func(t *testing.T) {
		// Given: X played the top-left corner
		game := entity.NewGame()
		game.Board[0][0] = entity.MarkX
		game.Turn = entity.SlotO

		// When: encoding the move result
		data, err := Encode(NewMoveResult(game, entity.SlotX, 0, 0))

		// Then: a MOVE with 1-based position and O to play
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"type":"MOVE","board":[["X","",""],["","",""],["","",""]],
			"whoseTurn":2,"position":[1,1],"from":1
		}`, string(data))
	})

	t.Run("Move result when won", func(t *testing.T) {
		game := &entity.Game{Status: entity.StatusWon, Winner: entity.MarkO}

		env := NewMoveResult(game, entity.SlotO, 2, 2)

		assert.Equal(t, TypeWin, env.Type)
		assert.Equal(t, entity.MarkO, env.Winner)
		assert.Nil(t, env.WhoseTurn)
	})

	t.Run("Move result when drawn", func(t *testing.T) {
		game := &entity.Game{Status: entity.StatusDraw}

		env := NewMoveResult(game, entity.SlotX, 2, 2)

		assert.Equal(t, TypeDraw, env.Type)
		assert.NotNil(t, env.Board)
	})

	t.Run("Chat", func(t *testing.T) {
		slot := entity.NewPlayerSlot(entity.SlotO, nil, "")

		data, err := Encode(NewChat(slot, "gg"))

		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"CHAT","message":"gg","from":2,"player_symbol":"O"}`, string(data))
	})

	t.Run("Error and quit", func(t *testing.T) {
		data, err := Encode(NewError("not your turn"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"ERROR","message":"not your turn"}`, string(data))

		data, err = Encode(NewQuit(1))
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"QUIT","from":1}`, string(data))
	})
}
