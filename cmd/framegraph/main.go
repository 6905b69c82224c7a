// Command framegraph builds the forward renderer on the headless device, renders frames through it
// and prints the resulting resources, aliases and barrier plan as json. It is used to inspect
// what a configuration produces without a GPU.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/framegraph/config"
	"github.com/vkngwrapper/framegraph/gpu/headless"
	"github.com/vkngwrapper/framegraph/graph"
	"github.com/vkngwrapper/framegraph/lifecycle"
	"github.com/vkngwrapper/framegraph/passes"
)

type arguments struct {
	configPath   string
	writeConfig  bool
	frames       int
	resizeAt     int
	resizeWidth  int
	resizeHeight int
	dump         bool
}

func parseArguments() arguments {
	var args arguments
	flag.StringVar(&args.configPath, "config", "", "path to a toml configuration file; defaults are used when empty")
	flag.BoolVar(&args.writeConfig, "write-config", false, "print the effective configuration as toml and exit")
	flag.IntVar(&args.frames, "frames", 8, "number of frames to render; 0 renders until interrupted")
	flag.IntVar(&args.resizeAt, "resize-at", -1, "frame after which the surface is resized")
	flag.IntVar(&args.resizeWidth, "resize-width", 1920, "surface width after the resize")
	flag.IntVar(&args.resizeHeight, "resize-height", 1080, "surface height after the resize")
	flag.BoolVar(&args.dump, "dump", true, "print the renderer state as json after rendering")
	flag.Parse()
	return args
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func main() {
	args := parseArguments()

	cfg, err := loadConfig(args.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(2)
	}

	if args.writeConfig {
		err = cfg.Encode(os.Stdout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%+v\n", err)
			os.Exit(1)
		}
		return
	}

	logger := cfg.Logger(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = run(ctx, logger, cfg, args)
	if err != nil {
		logger.Error("framegraph failed", slog.String("error", fmt.Sprintf("%+v", err)))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg config.Config, args arguments) (err error) {
	device := headless.NewDevice(logger)
	presenter, err := headless.NewPresenter(device, cfg.SurfaceFormat(), cfg.Extent(), cfg.Surface.ImageCount)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.CombineErrors(err, presenter.Destroy())
	}()

	forward, err := passes.ForwardRenderer(cfg.PassSettings())
	if err != nil {
		return err
	}

	options := cfg.RendererOptions()
	options.Compiler = device

	renderer, err := graph.New(logger, options, device, presenter, forward...)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.CombineErrors(err, renderer.Destroy())
	}()

	if args.frames > 0 {
		err = renderFrames(ctx, renderer, args)
	} else {
		err = renderUntilStopped(ctx, renderer)
	}
	if err != nil {
		return err
	}

	counters := device.Counters()
	logger.Info("framegraph rendered",
		slog.Int("Frames", renderer.Frames()),
		slog.Int("Rebuilds", renderer.Rebuilds()),
		slog.Int("Presentations", len(presenter.Presentations())),
		slog.Int("Submissions", counters.Submissions),
		slog.Int("ImagesCreated", counters.ImagesCreated),
		slog.Int("MaxInFlight", device.MaxInFlight()),
	)

	if args.dump {
		writer := jwriter.NewWriter()
		renderer.PrintDetailedMap(&writer)
		if writer.Error() != nil {
			return errors.Wrap(writer.Error(), "failed to write renderer state")
		}
		fmt.Println(string(writer.Bytes()))
	}
	return nil
}

func renderFrames(ctx context.Context, renderer *graph.Renderer, args arguments) error {
	for frame := 0; frame < args.frames && ctx.Err() == nil; frame++ {
		err := renderer.RenderFrame()
		if err != nil {
			return errors.Wrapf(err, "frame %d failed", frame)
		}

		if frame == args.resizeAt {
			err = renderer.Resize(core1_0.Extent2D{Width: args.resizeWidth, Height: args.resizeHeight})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// renderUntilStopped runs the render loop until an interrupt walks the control through shutdown
func renderUntilStopped(ctx context.Context, renderer *graph.Renderer) error {
	control := lifecycle.NewControl()
	go func() {
		<-ctx.Done()
		control.Shutdown()
	}()

	return renderer.Run(context.Background(), control)
}
