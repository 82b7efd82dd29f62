package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/apperror"
)

const (
	DefaultMaxMessageSize = 64 * 1024
	readChunkSize         = 1024
)

var errIncomplete = errors.New("incomplete value")

// Reader extracts JSON values sent back-to-back on a stream without any framing.
// Bytes are buffered until one value decodes completely from the front of the buffer;
// whatever follows it stays buffered for the next call.
type Reader struct {
	src     io.Reader
	buf     []byte
	chunk   []byte
	maxSize int
	err     error
	skip    skipper
}

func NewReader(src io.Reader, maxSize int) *Reader {
	if maxSize <= 0 {
		maxSize = DefaultMaxMessageSize
	}

	return &Reader{
		src:     src,
		chunk:   make([]byte, readChunkSize),
		maxSize: maxSize,
	}
}

// Next - returns the next complete value.
// Errors wrapping apperror.ErrProtocol leave the reader usable; errors wrapping
// apperror.ErrConnectivity mean the stream is gone.
func (that *Reader) Next() ([]byte, error) {
	for {
		if that.skip.active {
			n := that.skip.consume(that.buf)
			that.buf = append(that.buf[:0], that.buf[n:]...)
		}

		that.buf = bytes.TrimLeft(that.buf, " \t\r\n")

		if len(that.buf) > 0 && !that.skip.active {
			value, err := that.decodeFront()
			if err == nil {
				return value, nil
			}

			if !errors.Is(err, errIncomplete) {
				return nil, err
			}

			if len(that.buf) > that.maxSize {
				that.discard()
				return nil, fmt.Errorf("%w: %w: limit %d bytes", apperror.ErrProtocol, apperror.ErrMessageTooLarge, that.maxSize)
			}
		}

		if that.err != nil {
			return nil, fmt.Errorf("%w: %w", apperror.ErrConnectivity, that.err)
		}

		n, err := that.src.Read(that.chunk)
		that.buf = append(that.buf, that.chunk[:n]...)
		that.err = err
	}
}

func (that *Reader) decodeFront() ([]byte, error) {
	decoder := json.NewDecoder(bytes.NewReader(that.buf))

	var value json.RawMessage
	err := decoder.Decode(&value)

	switch {
	case err == nil:
		that.buf = append(that.buf[:0], that.buf[decoder.InputOffset():]...)
		return value, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return nil, errIncomplete
	default:
		that.discard()
		return nil, fmt.Errorf("%w: %w", apperror.ErrProtocol, err)
	}
}

// discard - drops the broken value at the front of the buffer. Objects, arrays and strings are
// skipped to their end, even when that end has not arrived yet; anything else up to the next '{'.
func (that *Reader) discard() {
	switch that.buf[0] {
	case '{', '[', '"':
		that.skip = skipper{active: true}
		n := that.skip.consume(that.buf)
		that.buf = append(that.buf[:0], that.buf[n:]...)
	default:
		that.resync()
	}
}

// resync - drops bytes up to the next object start after a syntax error.
func (that *Reader) resync() {
	next := bytes.IndexByte(that.buf[1:], '{')
	if next < 0 {
		that.buf = that.buf[:0]
		return
	}

	that.buf = append(that.buf[:0], that.buf[next+1:]...)
}

// skipper follows the nesting of a value being discarded, string contents excluded.
type skipper struct {
	active   bool
	depth    int
	inString bool
	escaped  bool
}

// consume - returns how many bytes of data still belong to the discarded value.
func (that *skipper) consume(data []byte) int {
	for i, c := range data {
		if that.inString {
			switch {
			case that.escaped:
				that.escaped = false
			case c == '\\':
				that.escaped = true
			case c == '"':
				that.inString = false
				if that.depth == 0 {
					that.active = false
					return i + 1
				}
			}

			continue
		}

		switch c {
		case '"':
			that.inString = true
		case '{', '[':
			that.depth++
		case '}', ']':
			that.depth--
			if that.depth <= 0 {
				that.active = false
				return i + 1
			}
		}
	}

	return len(data)
}
