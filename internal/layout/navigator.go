package layout

import (
	"fmt"

	"github.com/hdcheng/wellannot/internal/constants"
)

// Navigator steps through the holes of one panoramic image. Movement wraps
// at both ends of the plate, so advancing past the last hole returns to the
// first and vice versa.
type Navigator struct {
	grid    *Grid
	current int
}

// NewNavigator starts at startHole, or at the default start hole when
// startHole is zero.
func NewNavigator(grid *Grid, startHole int) (*Navigator, error) {
	if startHole == 0 {
		startHole = constants.DefaultStartHole
	}
	if !grid.ValidHole(startHole) {
		return nil, fmt.Errorf("start hole %d out of range [%d,%d]", startHole, constants.FirstHole, grid.Total())
	}
	return &Navigator{grid: grid, current: startHole}, nil
}

// Current returns the hole the navigator points at.
func (n *Navigator) Current() int {
	return n.current
}

// Next advances one hole, wrapping from the last hole to the first.
func (n *Navigator) Next() int {
	n.current = n.current%n.grid.Total() + 1
	return n.current
}

// Prev steps back one hole, wrapping from the first hole to the last.
func (n *Navigator) Prev() int {
	n.current = (n.current+n.grid.Total()-2)%n.grid.Total() + 1
	return n.current
}

// GoTo jumps to a specific hole.
func (n *Navigator) GoTo(number int) error {
	if !n.grid.ValidHole(number) {
		return fmt.Errorf("hole number %d out of range [%d,%d]", number, constants.FirstHole, n.grid.Total())
	}
	n.current = number
	return nil
}

// NextWhere advances to the next hole for which pred returns true, wrapping
// once around the plate. When no hole matches, the navigator advances by one
// and reports false.
func (n *Navigator) NextWhere(pred func(hole int) bool) (int, bool) {
	start := n.current
	for i := 0; i < n.grid.Total(); i++ {
		n.Next()
		if pred(n.current) {
			return n.current, true
		}
	}
	n.current = start%n.grid.Total() + 1
	return n.current, false
}
