package parallel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Errors returned by Start and Job.Err.
var (
	// ErrConfig is returned by Start for an unusable configuration.
	ErrConfig = errors.New("parallel: invalid configuration")

	// ErrWorkerPanic wraps the value of a recovered worker panic.
	ErrWorkerPanic = errors.New("parallel: worker panicked")
)

// DefaultBlockSizes are the pass block sizes used when none are given.
var DefaultBlockSizes = []int{64, 16, 4, 1}

const (
	// DefaultChunkSize is the number of block writes buffered per worker.
	DefaultChunkSize = 64

	maxDefaultWorkers = 8
	progressInterval  = 250 * time.Millisecond
)

// Worker computes pixel colors. Each goroutine of a job owns one Worker,
// so implementations can keep unsynchronized scratch state.
type Worker interface {
	// Compute calculates the color of pixel (x, y).
	Compute(x, y int) uint32

	// Recolor returns the color of pixel (x, y), which was computed by
	// some worker in an earlier pass.
	Recolor(x, y int) uint32
}

// Sink receives block writes. Fill is called with the job's lock held.
type Sink interface {
	Fill(x, y, w, h int, argb uint32)
}

// Config configures a progressive render.
type Config struct {
	Width, Height int

	// Workers is the number of goroutines. Zero means GOMAXPROCS, at
	// most 8.
	Workers int

	// BlockSizes must be strictly decreasing and end with 1. Nil means
	// DefaultBlockSizes.
	BlockSizes []int

	// NewWorker creates the worker of goroutine id.
	NewWorker func(id int) Worker

	Sink Sink

	// Lock guards Sink. If nil, Sink is used when it implements
	// sync.Locker, otherwise a private mutex.
	Lock sync.Locker

	// OnPass runs after all writes of a pass, exclusively and before the
	// next pass starts.
	OnPass func(pass, size int)

	// ChunkSize is the number of block writes a worker buffers before
	// taking the lock. Zero means DefaultChunkSize.
	ChunkSize int

	// Logger receives progress and failure messages. Nil discards them.
	Logger *slog.Logger
}

func (c *Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: image size %dx%d", ErrConfig, c.Width, c.Height)
	}
	if c.NewWorker == nil || c.Sink == nil {
		return fmt.Errorf("%w: worker factory and sink are required", ErrConfig)
	}
	if len(c.BlockSizes) == 0 || c.BlockSizes[len(c.BlockSizes)-1] != 1 {
		return fmt.Errorf("%w: block sizes %v must end with 1", ErrConfig, c.BlockSizes)
	}
	for i, s := range c.BlockSizes {
		if s <= 0 || (i > 0 && s >= c.BlockSizes[i-1]) {
			return fmt.Errorf("%w: block sizes %v must be positive and strictly decreasing", ErrConfig, c.BlockSizes)
		}
	}
	return nil
}

// DefaultWorkers returns the worker count used when Config.Workers is
// zero.
func DefaultWorkers() int {
	return min(runtime.GOMAXPROCS(0), maxDefaultWorkers)
}

func (c *Config) setDefaults() {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers()
	}
	if c.BlockSizes == nil {
		c.BlockSizes = DefaultBlockSizes
	}
	c.BlockSizes = slices.Clone(c.BlockSizes)
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.Lock == nil {
		if l, ok := c.Sink.(sync.Locker); ok {
			c.Lock = l
		} else {
			c.Lock = &sync.Mutex{}
		}
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
}

// State is the lifecycle state of a Job.
type State int32

const (
	Running State = iota
	Completed
	Cancelled
	Failed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", s)
}

// Job is a running render.
//
// Thread safety: all methods are safe for concurrent use.
type Job struct {
	cfg       Config
	barrier   *Barrier
	progress  *rate.Limiter
	cancelled atomic.Bool
	finished  bool // set by the barrier action of the last pass
	state     atomic.Int32
	err       error
	done      chan struct{}
}

// Start validates cfg and starts the workers. The job is cancelled when
// ctx is done.
func Start(ctx context.Context, cfg Config) (*Job, error) {
	if cfg.BlockSizes == nil {
		cfg.BlockSizes = DefaultBlockSizes
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.setDefaults()

	j := &Job{
		cfg:      cfg,
		progress: rate.NewLimiter(rate.Every(progressInterval), 1),
		done:     make(chan struct{}),
	}
	j.barrier = NewBarrier(cfg.Workers, j.passDone)

	cfg.Logger.Debug("render started",
		"width", cfg.Width, "height", cfg.Height,
		"workers", cfg.Workers, "blockSizes", cfg.BlockSizes)

	var g errgroup.Group
	for id := range cfg.Workers {
		g.Go(func() error { return j.run(id) })
	}
	stop := context.AfterFunc(ctx, j.Cancel)

	go func() {
		err := g.Wait()
		stop()
		switch {
		case err != nil:
			j.err = err
			j.state.Store(int32(Failed))
		case j.completed():
			j.state.Store(int32(Completed))
		default:
			j.state.Store(int32(Cancelled))
		}
		cfg.Logger.Debug("render finished", "state", j.State())
		close(j.done)
	}()
	return j, nil
}

func (j *Job) completed() bool {
	j.barrier.mu.Lock()
	defer j.barrier.mu.Unlock()
	return j.finished
}

// passDone is the barrier action.
func (j *Job) passDone(pass int) {
	size := j.cfg.BlockSizes[pass]
	if j.cfg.OnPass != nil {
		j.cfg.OnPass(pass, size)
	}
	j.cfg.Logger.Debug("pass complete", "pass", pass, "size", size)
	if pass == len(j.cfg.BlockSizes)-1 {
		j.finished = true
	}
}

// IsCancelled reports whether Cancel was called or the context ended.
func (j *Job) IsCancelled() bool { return j.cancelled.Load() }

// Cancel asks the workers to stop. Each worker stops before its next
// pixel computation; none stays blocked on the pass barrier.
func (j *Job) Cancel() {
	if j.cancelled.CompareAndSwap(false, true) {
		j.barrier.Break()
	}
}

// Join blocks until every worker has stopped and returns the final
// state.
func (j *Job) Join() State {
	<-j.done
	return j.State()
}

// Done is closed when every worker has stopped.
func (j *Job) Done() <-chan struct{} { return j.done }

// State returns the current state.
func (j *Job) State() State { return State(j.state.Load()) }

// Err returns the failure of a Failed job, after Done is closed.
func (j *Job) Err() error {
	select {
	case <-j.done:
		return j.err
	default:
		return nil
	}
}

// fill is a buffered block write.
type fill struct {
	b    Block
	argb uint32
}

// run is the loop of worker id.
func (j *Job) run(id int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: worker %d: %v", ErrWorkerPanic, id, r)
			j.cfg.Logger.Warn("render worker failed", "worker", id, "panic", r)
			j.Cancel()
		}
	}()

	w := j.cfg.NewWorker(id)
	chunk := make([]fill, 0, j.cfg.ChunkSize)
	workers := j.cfg.Workers

	for pass, size := range j.cfg.BlockSizes {
		grid := NewBlockGrid(j.cfg.Width, j.cfg.Height, size)
		rings := grid.RingCount()
		for r := range rings {
			k := 0
			for b := range grid.Ring(r) {
				mine := (k+r)%workers == id
				k++
				if !mine {
					continue
				}
				if j.cancelled.Load() {
					j.flush(chunk)
					return nil
				}
				var argb uint32
				if j.computedBefore(pass, b.X, b.Y) {
					argb = w.Recolor(b.X, b.Y)
				} else {
					argb = w.Compute(b.X, b.Y)
				}
				chunk = append(chunk, fill{b: b, argb: argb})
				if len(chunk) == cap(chunk) {
					chunk = j.flush(chunk)
				}
			}
			if j.progress.Allow() {
				j.cfg.Logger.Debug("render progress", "pass", pass, "size", size, "ring", r+1, "rings", rings)
			}
		}
		chunk = j.flush(chunk)
		if !j.barrier.Wait() {
			return nil
		}
	}
	return nil
}

// computedBefore reports whether an earlier pass computed pixel (x, y).
func (j *Job) computedBefore(pass, x, y int) bool {
	for _, s := range j.cfg.BlockSizes[:pass] {
		if x%s == 0 && y%s == 0 {
			return true
		}
	}
	return false
}

// flush writes the chunk under the lock and returns it emptied.
func (j *Job) flush(chunk []fill) []fill {
	if len(chunk) == 0 {
		return chunk
	}
	j.cfg.Lock.Lock()
	defer j.cfg.Lock.Unlock()
	for _, f := range chunk {
		j.cfg.Sink.Fill(f.b.X, f.b.Y, f.b.W, f.b.H, f.argb)
	}
	return chunk[:0]
}
