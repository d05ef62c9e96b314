// Command fractview renders escape-time fractals and explores formulas.
//
// Usage:
//
//	fractview render [flags]   render a fractal to an image file
//	fractview repl             parse, differentiate and compile formulas
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/searles/fractview"
)

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	var code int
	switch os.Args[1] {
	case "render":
		code = cmdRender(os.Args[2:])
	case "repl":
		code = cmdRepl(os.Args[2:])
	case "help", "-h", "--help":
		usage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "fractview: unknown command %q\n", os.Args[1])
		usage(os.Stderr)
		code = 2
	}
	os.Exit(code)
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: fractview render [flags]")
	fmt.Fprintln(w, "       fractview repl")
	fmt.Fprintln(w, "run 'fractview render -h' for the render flags")
}

// listFlag collects the values of a repeated flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, " | ") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func cmdRender(args []string) int {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	var (
		config      = fs.String("config", "", "fractal description (YAML)")
		function    = fs.String("formula", "", "recurrence, overrides the config")
		width       = fs.Int("w", 800, "image width")
		height      = fs.Int("h", 600, "image height")
		workers     = fs.Int("workers", 0, "render goroutines (0 = GOMAXPROCS, at most 8)")
		supersample = fs.Int("supersample", 1, "render k times larger and downscale")
		timeout     = fs.Duration("timeout", 0, "cancel the render after this duration")
		output      = fs.String("o", "fractal.png", "output file (.png, .bmp, .tif)")
		save        = fs.String("save", "", "write the effective description to this file")
		verbose     = fs.Bool("v", false, "log render progress")
		inits       listFlag
		params      listFlag
	)
	fs.Var(&inits, "init", "initializer, repeat once per history slot")
	fs.Var(&params, "param", "parameter as name=value, may be repeated")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	fractview.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	log := fractview.Logger()

	f, err := loadFractal(*config, *function, inits, params)
	if err != nil {
		report(err)
		return 1
	}
	if *save != "" {
		if err := f.Save(*save); err != nil {
			report(err)
			return 1
		}
	}
	if *width <= 0 || *height <= 0 || *supersample < 1 {
		fmt.Fprintln(os.Stderr, "fractview: image size and supersampling must be positive")
		return 2
	}

	pm := fractview.NewPixmap(*width**supersample, *height**supersample)
	r, err := fractview.NewRenderer(f, pm, fractview.WithWorkers(*workers))
	if err != nil {
		report(err)
		return 1
	}
	defer r.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	start := time.Now()
	state, err := r.Render(ctx)
	if err != nil {
		report(err)
		return 1
	}
	if state != fractview.Completed {
		log.Warn("render interrupted, saving the partial image", "state", state)
	}

	var img image.Image = pm.ToImage()
	if *supersample > 1 {
		dst := image.NewNRGBA(image.Rect(0, 0, *width, *height))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
		img = dst
	}
	if err := writeImage(*output, img); err != nil {
		report(err)
		return 1
	}
	log.Info("image saved", "path", *output, "elapsed", time.Since(start).Round(time.Millisecond))
	return 0
}

func loadFractal(config, function string, inits, params []string) (*fractview.Fractal, error) {
	f := fractview.DefaultFractal()
	if config != "" {
		var err error
		if f, err = fractview.LoadFractal(config); err != nil {
			return nil, err
		}
	}
	if function != "" {
		f.Function = function
	}
	if len(inits) > 0 {
		f.Init = inits
	}
	for _, p := range params {
		name, value, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("fractview: parameter %q is not name=value", p)
		}
		if f.Params == nil {
			f.Params = make(map[string]string)
		}
		f.Params[strings.TrimSpace(name)] = value
	}
	return f, nil
}

func writeImage(path string, img image.Image) error {
	var encode func(io.Writer, image.Image) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		encode = png.Encode
	case ".bmp":
		encode = bmp.Encode
	case ".tif", ".tiff":
		encode = func(w io.Writer, m image.Image) error {
			return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
		}
	default:
		return fmt.Errorf("fractview: unknown image format %q", filepath.Ext(path))
	}

	file, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := encode(file, img); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// report prints err, with source carets for formula errors.
func report(err error) {
	var fe *fractview.FormulaError
	if errors.As(err, &fe) {
		fmt.Fprintf(os.Stderr, "fractview: %s:\n", fe.Field)
		for _, d := range fe.Diagnostics {
			fmt.Fprintln(os.Stderr, d.Caret(fe.Source))
		}
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
