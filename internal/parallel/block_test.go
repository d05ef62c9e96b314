package parallel

import "testing"

// =============================================================================
// BlockGrid Tests
// =============================================================================

func TestBlockGrid_Dimensions(t *testing.T) {
	tests := []struct {
		w, h, size int
		cols, rows int
		cx, cy     int
	}{
		{100, 60, 16, 7, 4, 3, 1},
		{64, 64, 64, 1, 1, 0, 0},
		{65, 1, 64, 2, 1, 0, 0},
		{10, 10, 1, 10, 10, 5, 5},
		{7, 3, 0, 7, 3, 3, 1},
	}
	for _, tt := range tests {
		g := NewBlockGrid(tt.w, tt.h, tt.size)
		if g.Cols() != tt.cols || g.Rows() != tt.rows {
			t.Errorf("NewBlockGrid(%d, %d, %d) = %dx%d blocks, want %dx%d",
				tt.w, tt.h, tt.size, g.Cols(), g.Rows(), tt.cols, tt.rows)
		}
		if cx, cy := g.Center(); cx != tt.cx || cy != tt.cy {
			t.Errorf("Center() = (%d, %d), want (%d, %d)", cx, cy, tt.cx, tt.cy)
		}
	}
}

func TestBlockGrid_EdgeBlocks(t *testing.T) {
	g := NewBlockGrid(100, 60, 16)
	b := g.Block(6, 3)
	if b != (Block{X: 96, Y: 48, W: 4, H: 12}) {
		t.Errorf("Block(6, 3) = %+v, want {96 48 4 12}", b)
	}
}

func TestBlockGrid_RingStartsAtCenter(t *testing.T) {
	g := NewBlockGrid(100, 60, 4)
	cx, cy := g.Center()
	for b := range g.Ring(0) {
		if want := g.Block(cx, cy); b != want {
			t.Errorf("Ring(0) = %+v, want %+v", b, want)
		}
		if !(b.X <= 50 && 50 < b.X+b.W && b.Y <= 30 && 30 < b.Y+b.H) {
			t.Errorf("center block %+v does not contain the image center", b)
		}
	}
}

func TestBlockGrid_RingDistance(t *testing.T) {
	g := NewBlockGrid(50, 30, 4)
	cx, cy := g.Center()
	for r := range g.RingCount() {
		for b := range g.Ring(r) {
			col, row := b.X/4, b.Y/4
			d := max(abs(col-cx), abs(row-cy))
			if d != r {
				t.Errorf("Ring(%d) yields block at distance %d", r, d)
			}
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Every pixel is covered exactly once per block size.
func TestBlockGrid_CoversEveryPixelOnce(t *testing.T) {
	sizes := []int{64, 16, 5, 4, 1}
	dims := [][2]int{{1, 1}, {3, 7}, {64, 64}, {100, 37}, {129, 200}}
	for _, d := range dims {
		w, h := d[0], d[1]
		for _, s := range sizes {
			g := NewBlockGrid(w, h, s)
			count := make([]int, w*h)
			blocks := 0
			for b := range g.All() {
				blocks++
				for y := b.Y; y < b.Y+b.H; y++ {
					for x := b.X; x < b.X+b.W; x++ {
						count[y*w+x]++
					}
				}
			}
			if blocks != g.Len() {
				t.Errorf("%dx%d size %d: %d blocks visited, want %d", w, h, s, blocks, g.Len())
			}
			for i, n := range count {
				if n != 1 {
					t.Errorf("%dx%d size %d: pixel (%d, %d) covered %d times", w, h, s, i%w, i/w, n)
					break
				}
			}
		}
	}
}

func TestBlockGrid_Empty(t *testing.T) {
	g := NewBlockGrid(0, 10, 4)
	if g.RingCount() != 0 {
		t.Errorf("RingCount() = %d, want 0", g.RingCount())
	}
	for range g.All() {
		t.Error("empty grid yielded a block")
	}
}

func TestBlockGrid_RingEarlyStop(t *testing.T) {
	g := NewBlockGrid(64, 64, 4)
	n := 0
	for range g.Ring(3) {
		n++
		if n == 5 {
			break
		}
	}
	if n != 5 {
		t.Errorf("visited %d blocks, want 5", n)
	}
}

func BenchmarkBlockGrid_All(b *testing.B) {
	g := NewBlockGrid(1920, 1080, 1)
	for b.Loop() {
		n := 0
		for range g.All() {
			n++
		}
	}
}
