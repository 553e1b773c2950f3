package maze

// walkable reports whether an agent could stand on a cell of this kind
// in a freshly generated maze.
func walkable(kind CellKind) bool {
	return kind == Corridor || kind == Entrance || kind == Exit
}

// Reachable returns every walkable cell connected to from through
// orthogonal steps over walkable cells. It returns nil when from itself
// is not walkable.
func (g *Grid) Reachable(from Position) map[Position]struct{} {
	if kind, err := g.Get(from); err != nil || !walkable(kind) {
		return nil
	}

	visited := map[Position]struct{}{from: {}}
	stack := []Position{from}

	for len(stack) > 0 {
		cell := pop(&stack)
		for _, delta := range neighborDeltas {
			nbr := cell.Add(delta)
			if _, seen := visited[nbr]; seen {
				continue
			}
			if kind, err := g.Get(nbr); err == nil && walkable(kind) {
				visited[nbr] = struct{}{}
				stack = append(stack, nbr)
			}
		}
	}

	return visited
}

// Connected reports whether every corridor, the entrance and the exit
// can all be reached from the entrance.
func (g *Grid) Connected() bool {
	reachable := g.Reachable(g.entrance)
	if reachable == nil {
		return false
	}

	for _, kind := range []CellKind{Corridor, Entrance, Exit} {
		for _, p := range g.LocationsOf(kind) {
			if _, ok := reachable[p]; !ok {
				return false
			}
		}
	}
	return true
}

// pop removes and returns the last element of a stack of positions.
func pop(s *[]Position) Position {
	lastIndex := len(*s) - 1
	popped := (*s)[lastIndex]
	*s = (*s)[:lastIndex]
	return popped
}
