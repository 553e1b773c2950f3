package maze

import "fmt"

// CellKind is the state of a single cell in a maze grid.
type CellKind int

const (
	unvisited CellKind = iota // only used while the maze is being grown

	Wall
	Corridor
	Entrance
	Exit
	Visited
	Agent
)

var symbols = map[CellKind]rune{
	unvisited: '?',
	Wall:      '#',
	Corridor:  ' ',
	Entrance:  'E',
	Exit:      'X',
	Visited:   '.',
	Agent:     'A',
}

var names = map[CellKind]string{
	unvisited: "unvisited",
	Wall:      "wall",
	Corridor:  "corridor",
	Entrance:  "entrance",
	Exit:      "exit",
	Visited:   "visited",
	Agent:     "agent",
}

// Symbol returns the character used to render the cell kind.
func (k CellKind) Symbol() rune {
	if s, ok := symbols[k]; ok {
		return s
	}
	return '?'
}

func (k CellKind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return fmt.Sprintf("CellKind(%d)", int(k))
}

// kindFromSymbol is the inverse of Symbol for the exported kinds.
func kindFromSymbol(r rune) (CellKind, bool) {
	for k, s := range symbols {
		if k != unvisited && s == r {
			return k, true
		}
	}
	return 0, false
}

// Position identifies a cell of the grid.
// X indexes the row and Y the column.
type Position struct {
	X int `json:"x" bson:"x"` // Row index of the cell
	Y int `json:"y" bson:"y"` // Column index of the cell
}

// Add returns the position shifted by delta.
func (p Position) Add(delta Position) Position {
	return Position{X: p.X + delta.X, Y: p.Y + delta.Y}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}
