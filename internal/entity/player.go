package entity

import "io"

// PlayerSlot is one of the two fixed roles of a session bound to a live connection.
type PlayerSlot struct {
	Number     int            `json:"client_id"`
	Symbol     Cell           `json:"player_symbol"`
	RemoteAddr string         `json:"-"`
	Conn       io.WriteCloser `json:"-"`
}

func NewPlayerSlot(number int, conn io.WriteCloser, remoteAddr string) *PlayerSlot {
	return &PlayerSlot{
		Number:     number,
		Symbol:     SymbolForSlot(number),
		RemoteAddr: remoteAddr,
		Conn:       conn,
	}
}
