package fractview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/searles/fractview/compiler"
	"github.com/searles/fractview/formula"
	"github.com/searles/fractview/internal/parallel"
	"github.com/searles/fractview/orbit"
)

// ErrRunning is returned when the renderer is changed during a render.
var ErrRunning = errors.New("fractview: render in progress")

// Job is the cancellation handle of a render.
type Job = parallel.Job

// State is the lifecycle state of a render.
type State = parallel.State

// Render states.
const (
	Running   = parallel.Running
	Completed = parallel.Completed
	Cancelled = parallel.Cancelled
	Failed    = parallel.Failed
)

// Renderer renders one fractal into a pixmap. It keeps the
// classification and value of every computed pixel, so palette changes
// are applied by Recolor without computing orbits again.
//
// A Renderer runs one render at a time. Its methods are safe for
// concurrent use; the setters fail with ErrRunning during a render.
type Renderer struct {
	mu      sync.Mutex
	job     *Job
	pool    *parallel.WorkerPool
	options renderOptions

	spec      *formula.Specification
	prog      *formula.Program
	gen       *orbit.Generator
	limits    orbit.Limits
	bailout   orbit.Valuer
	lake      orbit.Valuer
	view      Viewport
	colorizer Colorizer
	pixmap    *Pixmap

	// Per pixel, written by the worker that computed it.
	kinds  []orbit.Kind
	values []float64

	// stats is merged from workerStats between passes only.
	stats       Stats
	workerStats []Stats
}

// NewRenderer compiles f for rendering into pm.
func NewRenderer(f *Fractal, pm *Pixmap, opts ...RenderOption) (*Renderer, error) {
	var o renderOptions
	for _, opt := range opts {
		opt(&o)
	}

	spec, err := f.Specification(o.names)
	if err != nil {
		return nil, err
	}
	bailout, lake, err := f.Valuers()
	if err != nil {
		return nil, err
	}
	view, err := f.Viewport()
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		options:   o,
		spec:      spec,
		prog:      spec.Compile(compiler.Options{NoFusion: o.noFusion}),
		limits:    f.Limits(),
		bailout:   bailout,
		lake:      lake,
		view:      view,
		colorizer: o.colorizer,
		pixmap:    pm,
		kinds:     make([]orbit.Kind, pm.Width()*pm.Height()),
		values:    make([]float64, pm.Width()*pm.Height()),
	}
	if r.colorizer == nil {
		r.colorizer = f.Colorizer()
	}
	if r.gen, err = orbit.NewGenerator(r.prog, r.limits, bailout, lake); err != nil {
		return nil, err
	}
	return r, nil
}

// Program returns the compiled formula.
func (r *Renderer) Program() *formula.Program { return r.prog }

// Start begins a render and returns its handle. Previous results are
// discarded. The render is cancelled when ctx is done.
func (r *Renderer) Start(ctx context.Context) (*Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.busy() {
		return nil, ErrRunning
	}

	clear(r.kinds)
	clear(r.values)
	r.stats.Reset()

	w, h := r.pixmap.Width(), r.pixmap.Height()
	log := Logger().With("width", w, "height", h)

	workers := r.options.workers
	if workers <= 0 {
		workers = parallel.DefaultWorkers()
	}
	r.workerStats = make([]Stats, workers)

	cfg := parallel.Config{
		Width:      w,
		Height:     h,
		Workers:    workers,
		BlockSizes: r.options.blockSizes,
		Sink:       r.pixmap,
		Logger:     log,
		NewWorker: func(id int) parallel.Worker {
			return &pixelWorker{
				r:     r,
				orbit: orbit.New(r.limits.MaxIterations),
				stats: &r.workerStats[id],
				w:     w,
				h:     h,
			}
		},
		OnPass: r.passDone,
	}
	start := time.Now()
	job, err := parallel.Start(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("fractview: %w", err)
	}
	r.job = job
	log.Info("render started", "function", r.spec.Function().String())
	go func() {
		state := job.Join()
		log.Info("render finished", "state", state, "elapsed", time.Since(start))
	}()
	return job, nil
}

// passDone runs between passes with all workers waiting.
func (r *Renderer) passDone(pass, size int) {
	for i := range r.workerStats {
		r.stats.Merge(&r.workerStats[i])
		r.workerStats[i].Reset()
	}
	if r.options.onPass != nil {
		r.options.onPass(pass, size)
	}
}

// Render runs a render to its end. A completed render is recolored with
// the statistics of the whole image, so every pixel uses the same value
// scale.
func (r *Renderer) Render(ctx context.Context) (State, error) {
	job, err := r.Start(ctx)
	if err != nil {
		return Failed, err
	}
	state := job.Join()
	if state == Failed {
		return state, job.Err()
	}
	if state == Completed {
		if err := r.Recolor(); err != nil {
			return state, err
		}
	}
	return state, nil
}

// Recolor repaints every computed pixel from the stored values with the
// current colorizer and statistics.
func (r *Renderer) Recolor() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.busy() {
		return ErrRunning
	}
	if r.pool == nil {
		r.pool = parallel.NewWorkerPool(r.options.workers)
	}

	w := r.pixmap.Width()
	pm := r.pixmap
	r.pool.Bands(pm.Height(), func(y0, y1 int) {
		row := make([]Color, w)
		for y := y0; y < y1; y++ {
			start := y * w
			kinds := r.kinds[start : start+w]
			for x, kind := range kinds {
				if kind != orbit.Running {
					row[x] = r.colorizer.Color(kind, r.values[start+x], &r.stats)
				}
			}
			pm.Lock()
			for x, kind := range kinds {
				if kind != orbit.Running {
					pm.pix[start+x] = row[x]
				}
			}
			pm.Unlock()
		}
	})
	return nil
}

// SetColorizer replaces the colorizer. Call Recolor to apply it.
func (r *Renderer) SetColorizer(c Colorizer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.busy() {
		return ErrRunning
	}
	r.colorizer = c
	return nil
}

// SetViewport changes the viewport of the next render.
func (r *Renderer) SetViewport(v Viewport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.busy() {
		return ErrRunning
	}
	r.view = v
	return nil
}

// SetParam changes a parameter of the formula for the next render. The
// formula is not recompiled.
func (r *Renderer) SetParam(name string, v complex128) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.busy() {
		return ErrRunning
	}
	if err := r.prog.SetParam(name, v); err != nil {
		return err
	}
	gen, err := orbit.NewGenerator(r.prog, r.limits, r.bailout, r.lake)
	if err != nil {
		return err
	}
	r.gen = gen
	return nil
}

// Stats returns the statistics merged so far.
func (r *Renderer) Stats() (Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.busy() {
		return Stats{}, ErrRunning
	}
	return r.stats, nil
}

// Orbit computes the orbit of the plane point c outside any render.
func (r *Renderer) Orbit(c complex128) *orbit.Orbit {
	r.mu.Lock()
	gen := r.gen
	r.mu.Unlock()
	o := orbit.New(r.limits.MaxIterations)
	gen.Run(c, o)
	return o
}

// Close cancels a running render, waits for it and releases the
// recolor goroutines.
func (r *Renderer) Close() {
	r.mu.Lock()
	job, pool := r.job, r.pool
	r.pool = nil
	r.mu.Unlock()
	if job != nil {
		job.Cancel()
		job.Join()
	}
	if pool != nil {
		pool.Close()
	}
}

func (r *Renderer) busy() bool {
	return r.job != nil && r.job.State() == Running
}

// pixelWorker is the state of one render goroutine.
type pixelWorker struct {
	r     *Renderer
	orbit *orbit.Orbit
	stats *Stats
	w, h  int
}

func (p *pixelWorker) Compute(x, y int) uint32 {
	r := p.r
	r.gen.Run(r.view.Point(x, y, p.w, p.h), p.orbit)
	i := y*p.w + x
	r.kinds[i] = p.orbit.Kind
	r.values[i] = p.orbit.Value
	p.stats.Add(p.orbit.Kind, p.orbit.Value)
	return uint32(r.colorizer.Color(p.orbit.Kind, p.orbit.Value, &r.stats))
}

func (p *pixelWorker) Recolor(x, y int) uint32 {
	i := y*p.w + x
	return uint32(p.r.colorizer.Color(p.r.kinds[i], p.r.values[i], &p.r.stats))
}
