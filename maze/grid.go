package maze

import (
	"fmt"
	"strings"
)

// Grid is the runtime view of a generated maze.
// Cells change while an agent walks the maze; the entrance and exit
// positions are fixed at creation.
type Grid struct {
	rows     int          // Number of rows
	cols     int          // Number of columns
	cells    [][]CellKind // Current kind of each cell, indexed [row][col]
	entrance Position     // Where the agent starts
	exit     Position     // Where the agent is heading
}

// ParseGrid builds a grid from its String rendering, one line per row.
// The layout must hold exactly one entrance and one exit.
func ParseGrid(layout string) (*Grid, error) {
	lines := strings.Split(strings.Trim(layout, "\n"), "\n")
	if len(lines) < minDimension {
		return nil, fmt.Errorf("%w: %d rows", ErrInvalidLayout, len(lines))
	}

	cols := len([]rune(lines[0]))
	cells := make([][]CellKind, len(lines))
	entrances, exits := []Position{}, []Position{}

	for i, line := range lines {
		runes := []rune(line)
		if len(runes) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidLayout, i, len(runes), cols)
		}

		cells[i] = make([]CellKind, cols)
		for j, r := range runes {
			kind, ok := kindFromSymbol(r)
			if !ok {
				return nil, fmt.Errorf("%w: unknown symbol %q at (%d, %d)", ErrInvalidLayout, r, i, j)
			}
			cells[i][j] = kind

			switch kind {
			case Entrance:
				entrances = append(entrances, Position{X: i, Y: j})
			case Exit:
				exits = append(exits, Position{X: i, Y: j})
			}
		}
	}

	if cols < minDimension {
		return nil, fmt.Errorf("%w: %d columns", ErrInvalidLayout, cols)
	}
	if len(entrances) != 1 || len(exits) != 1 {
		return nil, ErrMissingEntranceExit
	}

	return &Grid{
		rows:     len(lines),
		cols:     cols,
		cells:    cells,
		entrance: entrances[0],
		exit:     exits[0],
	}, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int {
	return g.rows
}

// Cols returns the number of columns.
func (g *Grid) Cols() int {
	return g.cols
}

// Entrance returns the position the maze was entered from.
func (g *Grid) Entrance() Position {
	return g.entrance
}

// Exit returns the position of the maze exit.
func (g *Grid) Exit() Position {
	return g.exit
}

// InBounds reports whether p lies inside the grid.
func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.X < g.rows && p.Y >= 0 && p.Y < g.cols
}

// Get returns the current kind of the cell at p.
func (g *Grid) Get(p Position) (CellKind, error) {
	if !g.InBounds(p) {
		return 0, fmt.Errorf("%w: %s", ErrOutOfBounds, p)
	}
	return g.cells[p.X][p.Y], nil
}

// SetVisited marks an explorable cell (corridor, agent or entrance) as visited.
// Any other cell, including positions outside the grid, is left alone.
func (g *Grid) SetVisited(p Position) {
	if !g.InBounds(p) {
		return
	}
	switch g.cells[p.X][p.Y] {
	case Corridor, Agent, Entrance:
		g.cells[p.X][p.Y] = Visited
	}
}

// Occupy marks the cell at p as holding the agent.
func (g *Grid) Occupy(p Position) error {
	if !g.InBounds(p) {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, p)
	}
	g.cells[p.X][p.Y] = Agent
	return nil
}

// LocationsOf returns every position currently holding kind, in row-major order.
func (g *Grid) LocationsOf(kind CellKind) []Position {
	var locations []Position
	for i, row := range g.cells {
		for j, cell := range row {
			if cell == kind {
				locations = append(locations, Position{X: i, Y: j})
			}
		}
	}
	return locations
}

// Cells returns a copy of the cell kinds, indexed [row][col].
func (g *Grid) Cells() [][]CellKind {
	cells := make([][]CellKind, g.rows)
	for i := range g.cells {
		cells[i] = make([]CellKind, g.cols)
		copy(cells[i], g.cells[i])
	}
	return cells
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	return &Grid{
		rows:     g.rows,
		cols:     g.cols,
		cells:    g.Cells(),
		entrance: g.entrance,
		exit:     g.exit,
	}
}

// String renders the grid one row per line using each kind's symbol.
func (g *Grid) String() string {
	var sb strings.Builder
	for i, row := range g.cells {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, cell := range row {
			sb.WriteRune(cell.Symbol())
		}
	}
	return sb.String()
}
