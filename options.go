package fractview

import "github.com/searles/fractview/expr"

// RenderOption configures a Renderer during creation.
//
// Example:
//
//	r, err := fractview.NewRenderer(f, pm,
//	    fractview.WithWorkers(4),
//	    fractview.WithBlockSizes(32, 4, 1))
type RenderOption func(*renderOptions)

type renderOptions struct {
	workers    int
	blockSizes []int
	colorizer  Colorizer
	onPass     func(pass, size int)
	names      *expr.Predefined
	noFusion   bool
}

// WithWorkers sets the number of render goroutines. Zero or less means
// GOMAXPROCS, at most 8.
func WithWorkers(n int) RenderOption {
	return func(o *renderOptions) {
		o.workers = n
	}
}

// WithBlockSizes sets the block size of each refinement pass. Sizes must
// be strictly decreasing and end with 1.
func WithBlockSizes(sizes ...int) RenderOption {
	return func(o *renderOptions) {
		o.blockSizes = sizes
	}
}

// WithColorizer replaces the palette colorizer of the fractal.
func WithColorizer(c Colorizer) RenderOption {
	return func(o *renderOptions) {
		o.colorizer = c
	}
}

// WithPassHook sets a function called after each pass, once the pass is
// written to the pixmap and the statistics are merged. It runs on a
// render goroutine while the others wait.
func WithPassHook(fn func(pass, size int)) RenderOption {
	return func(o *renderOptions) {
		o.onPass = fn
	}
}

// WithNames sets the reserved formula names. The default is
// expr.DefaultNames.
func WithNames(names *expr.Predefined) RenderOption {
	return func(o *renderOptions) {
		o.names = names
	}
}

// WithoutFusion compiles without operand fusion, for comparisons.
func WithoutFusion() RenderOption {
	return func(o *renderOptions) {
		o.noFusion = true
	}
}
