package tilemap

import "sprout.farm/internal/sim/mathx"

// GreedyStep is the only pathfinding this core provides: one straight-
// line step toward the target, preferring the axis with the larger
// remaining delta and falling back to the other when blocked. Returns
// from unchanged when both axes are blocked or the target is reached.
func GreedyStep(g *Grid, from, to Coord) Coord {
	if from == to {
		return from
	}
	dx := sign(to.X - from.X)
	dy := sign(to.Y - from.Y)

	first := Coord{X: from.X + dx, Y: from.Y}
	second := Coord{X: from.X, Y: from.Y + dy}
	if mathx.AbsInt(to.Y-from.Y) > mathx.AbsInt(to.X-from.X) {
		first, second = second, first
	}

	for _, next := range [2]Coord{first, second} {
		if next == from {
			continue
		}
		if g.InBounds(next) && Walkable(g.At(next)) {
			return next
		}
	}
	return from
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
