package usecase

import (
	"fmt"
	"io"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/entity"
)

const maxPlayers = 2

// Registry tracks the two player slots of the session.
// It has no lock of its own: every call happens under the GameManager lock.
type Registry struct {
	slots [maxPlayers]*entity.PlayerSlot
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Admit - binds the connection to the lowest free slot: slot 1 plays X, slot 2 plays O.
func (that *Registry) Admit(conn io.WriteCloser, remoteAddr string) (*entity.PlayerSlot, error) {
	for i, slot := range that.slots {
		if slot != nil {
			continue
		}

		that.slots[i] = entity.NewPlayerSlot(i+1, conn, remoteAddr)

		return that.slots[i], nil
	}

	return nil, fmt.Errorf("%w: %w: %d players", apperror.ErrCapacity, apperror.ErrSessionFull, maxPlayers)
}

// Remove - frees the slot if this exact slot is still registered.
func (that *Registry) Remove(slot *entity.PlayerSlot) bool {
	if !that.Contains(slot) {
		return false
	}

	that.slots[slot.Number-1] = nil

	return true
}

// Clear - frees every slot and returns the ones that were occupied.
func (that *Registry) Clear() []*entity.PlayerSlot {
	removed := that.All()
	that.slots = [maxPlayers]*entity.PlayerSlot{}

	return removed
}

// All - snapshot of the occupied slots in slot order.
func (that *Registry) All() []*entity.PlayerSlot {
	all := make([]*entity.PlayerSlot, 0, maxPlayers)
	for _, slot := range that.slots {
		if slot != nil {
			all = append(all, slot)
		}
	}

	return all
}

func (that *Registry) Contains(slot *entity.PlayerSlot) bool {
	if slot == nil || slot.Number < 1 || slot.Number > maxPlayers {
		return false
	}

	return that.slots[slot.Number-1] == slot
}

func (that *Registry) Len() int {
	return len(that.All())
}
