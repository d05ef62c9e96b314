// Package parallel provides the progressive multi-goroutine rasterizer.
//
// The image is rendered in passes of decreasing block size. In each pass
// the image is divided into square blocks which are visited in
// concentric rings around the block containing the image center, so a
// coarse preview appears almost immediately and fills outward. Every
// visited block gets the color of its top-left pixel. Passes are
// separated by a barrier whose action runs once, exclusively, after all
// writes of the pass.
//
// Key properties:
//
//   - Each pixel is computed at most once across all passes
//   - Cancellation is checked before every pixel computation
//   - Writes are block granular and grouped into chunks under one lock
//   - Completion state is decided after every worker has returned
package parallel

import "iter"

// Block is a rectangle of pixels filled with one color.
type Block struct {
	// X and Y are the pixel coordinates of the top-left corner, which is
	// also the representative pixel of the block.
	X, Y int

	// W and H are the block dimensions. Blocks at the right and bottom
	// edges may be smaller than the grid's block size.
	W, H int
}

// BlockGrid divides an image into square blocks of one size.
//
// The grid is anchored at the top-left corner, so the representative
// pixels of size s are exactly the pixels whose coordinates are both
// multiples of s.
type BlockGrid struct {
	width, height int
	size          int
	cols, rows    int
	cx, cy        int
}

// NewBlockGrid returns the grid of size×size blocks over a width×height
// image. Non-positive sizes are treated as 1.
func NewBlockGrid(width, height, size int) BlockGrid {
	size = max(size, 1)
	width, height = max(width, 0), max(height, 0)
	return BlockGrid{
		width:  width,
		height: height,
		size:   size,
		cols:   (width + size - 1) / size,
		rows:   (height + size - 1) / size,
		cx:     (width / 2) / size,
		cy:     (height / 2) / size,
	}
}

// Size returns the block size.
func (g BlockGrid) Size() int { return g.size }

// Cols returns the number of block columns.
func (g BlockGrid) Cols() int { return g.cols }

// Rows returns the number of block rows.
func (g BlockGrid) Rows() int { return g.rows }

// Len returns the number of blocks.
func (g BlockGrid) Len() int { return g.cols * g.rows }

// Center returns the column and row of the block containing the image
// center.
func (g BlockGrid) Center() (col, row int) { return g.cx, g.cy }

// Block returns the block at column col and row row.
func (g BlockGrid) Block(col, row int) Block {
	x, y := col*g.size, row*g.size
	return Block{
		X: x,
		Y: y,
		W: min(g.size, g.width-x),
		H: min(g.size, g.height-y),
	}
}

// RingCount returns the number of rings needed to cover the grid.
func (g BlockGrid) RingCount() int {
	if g.Len() == 0 {
		return 0
	}
	return max(g.cx, g.cols-1-g.cx, g.cy, g.rows-1-g.cy) + 1
}

// Ring yields the blocks at Chebyshev distance r from the center block
// that lie inside the grid, clockwise starting at the top-left corner of
// the ring.
func (g BlockGrid) Ring(r int) iter.Seq[Block] {
	return func(yield func(Block) bool) {
		if r < 0 || g.Len() == 0 {
			return
		}
		emit := func(col, row int) bool {
			if col < 0 || row < 0 || col >= g.cols || row >= g.rows {
				return true
			}
			return yield(g.Block(col, row))
		}
		if r == 0 {
			emit(g.cx, g.cy)
			return
		}
		left, right := g.cx-r, g.cx+r
		top, bottom := g.cy-r, g.cy+r
		for col := left; col <= right; col++ {
			if !emit(col, top) {
				return
			}
		}
		for row := top + 1; row <= bottom; row++ {
			if !emit(right, row) {
				return
			}
		}
		for col := right - 1; col >= left; col-- {
			if !emit(col, bottom) {
				return
			}
		}
		for row := bottom - 1; row > top; row-- {
			if !emit(left, row) {
				return
			}
		}
	}
}

// All yields every block in ring order.
func (g BlockGrid) All() iter.Seq[Block] {
	return func(yield func(Block) bool) {
		for r := range g.RingCount() {
			for b := range g.Ring(r) {
				if !yield(b) {
					return
				}
			}
		}
	}
}
