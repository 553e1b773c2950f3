/*
Package maze provides tools for creating and inspecting rectangular mazes.

A maze is a grid of cells, each holding a CellKind. Mazes are grown with a
randomized Prim's algorithm: starting from one interior cell, frontier walls
are opened one at a time as long as they touch a single corridor, so the
corridors always form a spanning tree. An entrance is then carved on the top
edge and an exit on the bottom edge.

Generation is deterministic for a given seed or rand.Source.
*/
package maze

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"time"
)

const (
	minDimension = 3 // Minimum number of rows or columns.

	// A frontier cell stops being opened once it touches this many corridors.
	maxCorridorNeighbors = 2
)

var (
	ErrInvalidSize         = errors.New("maze must be at least 3x3")
	ErrUngeneratableMaze   = errors.New("no entrance or exit could be placed")
	ErrOutOfBounds         = errors.New("position is out of the maze")
	ErrInvalidLayout       = errors.New("invalid maze layout")
	ErrMissingEntranceExit = errors.New("layout needs exactly one entrance and one exit")
)

// growthDirections are tried in order for every frontier cell: left, up,
// down, right. A direction applies when the near cell is still unvisited
// and the cell across the frontier is already a corridor.
var growthDirections = []struct {
	near Position
	far  Position
}{
	{near: Position{X: 0, Y: -1}, far: Position{X: 0, Y: 1}},
	{near: Position{X: -1, Y: 0}, far: Position{X: 1, Y: 0}},
	{near: Position{X: 1, Y: 0}, far: Position{X: -1, Y: 0}},
	{near: Position{X: 0, Y: 1}, far: Position{X: 0, Y: -1}},
}

// Orthogonal neighbors in row/column terms: up, down, left, right.
var neighborDeltas = []Position{
	{X: -1, Y: 0},
	{X: 1, Y: 0},
	{X: 0, Y: -1},
	{X: 0, Y: 1},
}

type generator struct {
	rows     int
	cols     int
	cells    [][]CellKind
	frontier []Position
	rng      *rand.Rand
}

// Generate grows a new maze of the given size from a seed.
func Generate(rows, cols int, seed int64) (*Grid, error) {
	return GenerateWithRand(rows, cols, rand.New(rand.NewSource(seed)))
}

// GenerateWithRand grows a new maze drawing every random choice from rng.
// A nil rng is replaced by a time seeded one.
func GenerateWithRand(rows, cols int, rng *rand.Rand) (*Grid, error) {
	if min(rows, cols) < minDimension {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidSize, rows, cols)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	cells := make([][]CellKind, rows)
	for i := range cells {
		cells[i] = make([]CellKind, cols)
	}

	g := &generator{
		rows:  rows,
		cols:  cols,
		cells: cells,
		rng:   rng,
	}
	g.grow()
	g.sealUnvisited()

	entrance, exit, err := g.carveEntranceAndExit()
	if err != nil {
		return nil, err
	}

	return &Grid{
		rows:     rows,
		cols:     cols,
		cells:    g.cells,
		entrance: entrance,
		exit:     exit,
	}, nil
}

// grow runs the frontier loop until every candidate wall has been decided.
func (g *generator) grow() {
	start := Position{X: g.rng.Intn(g.rows), Y: g.rng.Intn(g.cols)}
	start.X = clampInterior(start.X, g.rows)
	start.Y = clampInterior(start.Y, g.cols)

	g.set(start, Corridor)
	for _, delta := range []Position{{X: -1, Y: 0}, {X: 0, Y: -1}, {X: 0, Y: 1}, {X: 1, Y: 0}} {
		wall := start.Add(delta)
		g.set(wall, Wall)
		g.frontier = append(g.frontier, wall)
	}

	for len(g.frontier) > 0 {
		i := g.rng.Intn(len(g.frontier))
		g.tryOpen(g.frontier[i])
		// tryOpen only appends, so i still points at the processed cell.
		g.frontier = slices.Delete(g.frontier, i, i+1)
	}
}

// tryOpen turns a frontier cell into a corridor when it extends the tree
// without closing a loop.
func (g *generator) tryOpen(cell Position) {
	for _, dir := range growthDirections {
		near, far := cell.Add(dir.near), cell.Add(dir.far)
		if !g.inBounds(near) || !g.inBounds(far) {
			continue
		}
		if g.at(near) != unvisited || g.at(far) != Corridor {
			continue
		}

		if g.corridorNeighbors(cell) < maxCorridorNeighbors {
			g.open(cell)
		}
		return
	}
}

// open marks cell as corridor and pushes its interior neighbors to the frontier.
func (g *generator) open(cell Position) {
	g.set(cell, Corridor)

	for _, delta := range neighborDeltas {
		nbr := cell.Add(delta)
		if !g.interior(nbr) || g.at(nbr) == Corridor {
			continue
		}
		if g.at(nbr) == unvisited {
			g.set(nbr, Wall)
		}
		if !slices.Contains(g.frontier, nbr) {
			g.frontier = append(g.frontier, nbr)
		}
	}
}

func (g *generator) corridorNeighbors(cell Position) int {
	count := 0
	for _, delta := range neighborDeltas {
		nbr := cell.Add(delta)
		if g.inBounds(nbr) && g.at(nbr) == Corridor {
			count++
		}
	}
	return count
}

func (g *generator) sealUnvisited() {
	for _, row := range g.cells {
		for j := range row {
			if row[j] == unvisited {
				row[j] = Wall
			}
		}
	}
}

// carveEntranceAndExit opens the top edge above the first corridor of row 1
// and the bottom edge below the last corridor of the second to last row.
func (g *generator) carveEntranceAndExit() (Position, Position, error) {
	entrance, exit := Position{X: -1}, Position{X: -1}

	for col := 0; col < g.cols; col++ {
		if g.cells[1][col] == Corridor {
			entrance = Position{X: 0, Y: col}
			break
		}
	}

	for col := g.cols - 1; col > 0; col-- {
		if g.cells[g.rows-2][col] == Corridor {
			exit = Position{X: g.rows - 1, Y: col}
			break
		}
	}

	if entrance.X < 0 || exit.X < 0 {
		return Position{}, Position{}, ErrUngeneratableMaze
	}

	g.set(entrance, Entrance)
	g.set(exit, Exit)
	return entrance, exit, nil
}

func (g *generator) at(p Position) CellKind {
	return g.cells[p.X][p.Y]
}

func (g *generator) set(p Position, kind CellKind) {
	g.cells[p.X][p.Y] = kind
}

func (g *generator) inBounds(p Position) bool {
	return p.X >= 0 && p.X < g.rows && p.Y >= 0 && p.Y < g.cols
}

func (g *generator) interior(p Position) bool {
	return p.X > 0 && p.X < g.rows-1 && p.Y > 0 && p.Y < g.cols-1
}

// clampInterior moves an index that landed on the border one step inside.
func clampInterior(i, size int) int {
	if i == 0 {
		i++
	}
	if i == size-1 {
		i--
	}
	return i
}
