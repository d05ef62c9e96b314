// Package fractview renders escape-time fractals.
//
// # Overview
//
// A fractal is a recurrence z(n+1) = f(z, c, n) over the points c of the
// complex plane. fractview parses the formula text, checks it against
// its initializers and parameters, compiles it into a compact instruction
// stream and runs that stream for every pixel on several goroutines.
// Images refine progressively: coarse blocks first, starting at the
// center, then smaller blocks until every pixel is computed.
//
// # Quick Start
//
//	f := fractview.DefaultFractal()
//	f.Function = "z^3 + c"
//
//	pm := fractview.NewPixmap(800, 600)
//	r, err := fractview.NewRenderer(f, pm)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	state, err := r.Render(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if state != fractview.Completed {
//	    log.Printf("render %v", state)
//	}
//	pm.SavePNG("cubic.png")
//
// # Formulas
//
// Formula text uses + - * / ^, juxtaposition for multiplication, a
// trailing ' for the derivative with respect to z, and functions such as
// sin(z) or pow(z; 3). The names c, z and n are the point, the previous
// value and the iteration index; z[k] is the value k steps back. Every
// other identifier is a parameter whose value comes from the fractal
// description. See the parser package for the grammar.
//
// # Coordinate System
//
// The shorter image side spans [-1, 1] before the viewport matrix is
// applied; the imaginary axis points up.
//
// # Packages
//
//   - expr, parser: expression trees and formula text
//   - compiler, formula: instruction streams and validated programs
//   - orbit: per-point iteration and classification
//   - internal/parallel: the progressive multi-goroutine rasterizer
package fractview
