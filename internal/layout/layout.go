// Package layout maps hole numbers on a panoramic plate to grid positions
// and pixel coordinates. Plates are a fixed 10x12 grid, holes numbered
// 1..120 row-major.
package layout

import (
	"fmt"

	"github.com/hdcheng/wellannot/internal/constants"
)

// HolePosition describes one well's place on the plate and in the image.
type HolePosition struct {
	Number int // hole number 1..120
	Row    int // 0..9
	Col    int // 0..11
	X      int // pixel centre X in the panoramic image
	Y      int // pixel centre Y
	Width  int
	Height int
}

// Params positions the hole grid within a panoramic image. The defaults fit
// the lab's 3088x2064 scans; datasets scanned differently override them.
type Params struct {
	FirstHoleX        int
	FirstHoleY        int
	HorizontalSpacing int
	VerticalSpacing   int
	HoleDiameter      int
}

// DefaultParams returns the standard positioning parameters.
func DefaultParams() Params {
	return Params{
		FirstHoleX:        constants.DefaultFirstHoleX,
		FirstHoleY:        constants.DefaultFirstHoleY,
		HorizontalSpacing: constants.DefaultHorizontalSpacing,
		VerticalSpacing:   constants.DefaultVerticalSpacing,
		HoleDiameter:      constants.DefaultHoleDiameter,
	}
}

// Grid resolves hole numbers to rows, columns and pixel positions.
type Grid struct {
	rows   int
	cols   int
	params Params
}

// NewGrid creates a grid with the standard 10x12 plate dimensions.
func NewGrid(params Params) *Grid {
	return &Grid{
		rows:   constants.GridRows,
		cols:   constants.GridCols,
		params: params,
	}
}

// ValidHole reports whether number is within the plate.
func (g *Grid) ValidHole(number int) bool {
	return number >= constants.FirstHole && number <= g.rows*g.cols
}

// RowCol converts a hole number to its zero-based row and column.
func (g *Grid) RowCol(number int) (row, col int, err error) {
	if !g.ValidHole(number) {
		return 0, 0, fmt.Errorf("hole number %d out of range [%d,%d]", number, constants.FirstHole, g.rows*g.cols)
	}
	return (number - 1) / g.cols, (number - 1) % g.cols, nil
}

// Number converts a zero-based row and column to a hole number.
func (g *Grid) Number(row, col int) (int, error) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return 0, fmt.Errorf("position (%d,%d) outside %dx%d grid", row, col, g.rows, g.cols)
	}
	return row*g.cols + col + 1, nil
}

// Position returns the full layout record for a hole.
func (g *Grid) Position(number int) (HolePosition, error) {
	row, col, err := g.RowCol(number)
	if err != nil {
		return HolePosition{}, err
	}
	return HolePosition{
		Number: number,
		Row:    row,
		Col:    col,
		X:      g.params.FirstHoleX + col*g.params.HorizontalSpacing,
		Y:      g.params.FirstHoleY + row*g.params.VerticalSpacing,
		Width:  g.params.HoleDiameter,
		Height: g.params.HoleDiameter,
	}, nil
}

// Adjacent returns the hole numbers orthogonally neighbouring number,
// used for gradient context when reviewing dilution series.
func (g *Grid) Adjacent(number int) []int {
	row, col, err := g.RowCol(number)
	if err != nil {
		return nil
	}
	var out []int
	if col > 0 {
		out = append(out, number-1)
	}
	if col < g.cols-1 {
		out = append(out, number+1)
	}
	if row > 0 {
		out = append(out, number-g.cols)
	}
	if row < g.rows-1 {
		out = append(out, number+g.cols)
	}
	return out
}

// Total returns the number of holes on the plate.
func (g *Grid) Total() int {
	return g.rows * g.cols
}
