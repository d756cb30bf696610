package statepack

import "iter"

// Pos is a row/column coordinate in a component grid.
type Pos struct {
	Row int
	Col int
}

// Enumerate walks a 2-D component grid in row-major order, yielding each
// element with its grid position. Handy for iterating a message's component
// rows while tracking where each component sits.
func Enumerate[T any](grid [][]T) iter.Seq2[Pos, T] {
	return func(yield func(Pos, T) bool) {
		for r, row := range grid {
			for c, item := range row {
				if !yield(Pos{Row: r, Col: c}, item) {
					return
				}
			}
		}
	}
}

// Flatten walks a 2-D component grid in row-major order, yielding the
// elements alone.
func Flatten[T any](grid [][]T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, row := range grid {
			for _, item := range row {
				if !yield(item) {
					return
				}
			}
		}
	}
}
