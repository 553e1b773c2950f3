package game

import (
	"encoding/binary"
	"strings"

	"github.com/beka-birhanu/vinom-pathfinder/maze"
)

// HistoryKey identifies an agent state by the path it walked: every
// previous position followed by the current one, each coordinate stored as
// a varint. Equal paths always give equal keys.
type HistoryKey string

func newHistoryKey(history []maze.Position, current maze.Position) HistoryKey {
	buf := make([]byte, 0, (len(history)+1)*2*binary.MaxVarintLen16)
	for _, p := range history {
		buf = appendPosition(buf, p)
	}
	buf = appendPosition(buf, current)
	return HistoryKey(buf)
}

func appendPosition(buf []byte, p maze.Position) []byte {
	buf = binary.AppendVarint(buf, int64(p.X))
	return binary.AppendVarint(buf, int64(p.Y))
}

// Positions decodes the walked path stored in the key.
func (k HistoryKey) Positions() []maze.Position {
	var positions []maze.Position
	buf := []byte(k)
	for len(buf) > 0 {
		x, n := binary.Varint(buf)
		if n <= 0 {
			return positions
		}
		buf = buf[n:]

		y, n := binary.Varint(buf)
		if n <= 0 {
			return positions
		}
		buf = buf[n:]

		positions = append(positions, maze.Position{X: int(x), Y: int(y)})
	}
	return positions
}

func (k HistoryKey) String() string {
	positions := k.Positions()
	parts := make([]string, len(positions))
	for i, p := range positions {
		parts[i] = p.String()
	}
	return strings.Join(parts, " -> ")
}
