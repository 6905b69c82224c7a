// Package graph drives the framegraph. A Renderer owns every resource its passes declare, the
// barrier plan compiled for their order, and the ring of frames in flight, and records each
// frame by transitioning every requirement before the pass that needs it runs.
package graph

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/framegraph/alias"
	"github.com/vkngwrapper/framegraph/barrier"
	"github.com/vkngwrapper/framegraph/frame"
	"github.com/vkngwrapper/framegraph/gpu"
	"github.com/vkngwrapper/framegraph/internal/utils"
	"github.com/vkngwrapper/framegraph/resource"
)

// ErrNotBuilt is returned by RenderFrame after a rebuild failed. A successful Resize builds the
// renderer again.
var ErrNotBuilt = errors.New("renderer has no usable build")

// Renderer records and presents frames for a fixed list of passes
type Renderer struct {
	logger    *slog.Logger
	options   Options
	device    gpu.Device
	presenter gpu.Presenter
	passes    []Pass

	resources *resource.Registry
	ring      *frame.Ring
	tracker   *barrier.Tracker

	// Everything below is rebuilt by Resize
	presentationImage resource.CompositeKey
	presentationView  resource.CompositeKey
	resolved          *alias.Resolved
	plan              *barrier.Plan
	pipelines         map[int]gpu.PipelineHandle
	built             bool

	frames    int
	rebuilds  int
	destroyed bool
}

// New builds a renderer for the provided passes, which run in the order given
func New(logger *slog.Logger, options Options, device gpu.Device, presenter gpu.Presenter, passes ...Pass) (*Renderer, error) {
	if logger == nil {
		return nil, errors.New("logger must not be nil")
	}
	if device == nil {
		return nil, errors.New("device must not be nil")
	}
	if presenter == nil {
		return nil, errors.New("presenter must not be nil")
	}

	err := options.validate()
	if err != nil {
		return nil, err
	}

	logger.Debug("Renderer::New", slog.String("Flags", options.Flags.String()), slog.Int("FrameCount", options.FrameCount), slog.Int("Passes", len(passes)))

	ids := make(map[int]string, len(passes))
	for _, pass := range passes {
		if other, duplicate := ids[pass.ID()]; duplicate {
			return nil, errors.Newf("passes %s and %s share id %d", other, pass.Name(), pass.ID())
		}
		ids[pass.ID()] = pass.Name()
	}

	resources, err := resource.New(logger, device, options.registryOptions())
	if err != nil {
		return nil, err
	}

	ring, err := frame.New(logger, device, options.FrameCount)
	if err != nil {
		return nil, err
	}

	renderer := &Renderer{
		logger:    logger,
		options:   options,
		device:    device,
		presenter: presenter,
		passes:    passes,
		resources: resources,
		ring:      ring,
		tracker:   barrier.NewTracker(logger),
	}

	err = renderer.build()
	if err != nil {
		err = errors.CombineErrors(err, renderer.teardown())
		return nil, errors.CombineErrors(err, ring.Destroy())
	}

	return renderer, nil
}

func (r *Renderer) environment() alias.Environment {
	return alias.Environment{
		PresentationExtent: r.presenter.Extent(),
		PresentationFormat: r.presenter.Format(),
		DepthFormat:        r.options.DepthFormat,
		HDRFormat:          r.options.HDRFormat,
	}
}

func (r *Renderer) requirements() []barrier.PassRequirements {
	requirements := make([]barrier.PassRequirements, 0, len(r.passes))
	for _, pass := range r.passes {
		requirements = append(requirements, barrier.PassRequirements{
			PassID:       pass.ID(),
			Name:         pass.Name(),
			Requirements: pass.Requirements(),
		})
	}
	return requirements
}

// build registers the presentation images, resolves every alias, compiles the barrier plan and
// compiles the pipelines. Whatever it manages to create is left on the renderer for teardown.
func (r *Renderer) build() error {
	env := r.environment()
	r.logger.Debug("Renderer::build", slog.Int("Width", env.PresentationExtent.Width), slog.Int("Height", env.PresentationExtent.Height))

	var err error
	r.presentationImage, r.presentationView, err = r.resources.RegisterExternalImages(
		r.presenter.Images(),
		r.presenter.Views(),
		gpu.ImageDescription{
			Format:      env.PresentationFormat,
			Extent:      env.PresentationExtent,
			Usage:       core1_0.ImageUsageColorAttachment,
			Samples:     core1_0.Samples1,
			MipLevels:   1,
			ArrayLayers: 1,
		},
		alias.Presentation.String(),
	)
	if err != nil {
		return errors.Wrap(err, "failed to register the presentation images")
	}

	aliases := alias.NewRegistry(r.logger)
	err = aliases.DeclareExternal(alias.Presentation, alias.External{
		Image:  r.presentationImage,
		View:   r.presentationView,
		Format: env.PresentationFormat,
		Extent: env.PresentationExtent,
	})
	if err != nil {
		return err
	}

	requirements := r.requirements()
	for _, pass := range requirements {
		for _, requirement := range pass.Requirements {
			desc, declare := requirement.Creation.Description()
			if !declare {
				continue
			}

			err = aliases.Declare(requirement.Alias, desc)
			if err != nil {
				return errors.Wrapf(err, "pass %s failed to declare %s", pass.Name, requirement.Alias)
			}
		}
	}

	r.resolved, err = aliases.Resolve(r.resources, env)
	if err != nil {
		return err
	}

	r.plan, err = barrier.Compile(r.logger, requirements, r.resolved, alias.Presentation)
	if err != nil {
		return err
	}

	if r.options.Flags&RendererCreateValidatePlan != 0 {
		err = r.plan.Validate()
		if err != nil {
			return errors.Wrap(err, "barrier plan failed validation")
		}
	}
	utils.DebugValidate(r.plan)

	err = r.compilePipelines()
	if err != nil {
		return err
	}

	r.built = true
	return nil
}

func (r *Renderer) compilePipelines() error {
	r.pipelines = make(map[int]gpu.PipelineHandle, len(r.passes))
	if r.options.Compiler == nil {
		return nil
	}

	for _, pass := range r.passes {
		desc, ok := pass.Pipeline(r.resolved)
		if !ok {
			continue
		}

		pipeline, err := r.options.Compiler.CompilePipeline(desc)
		if err != nil {
			return errors.Wrapf(err, "failed to compile the pipeline of pass %s", pass.Name())
		}
		r.pipelines[pass.ID()] = pipeline
	}

	return nil
}

// teardown destroys everything build created. It is safe to call after a partial build.
func (r *Renderer) teardown() error {
	r.logger.Debug("Renderer::teardown")
	r.built = false

	var err error
	if r.options.Compiler != nil {
		for _, pipeline := range r.pipelines {
			err = errors.CombineErrors(err, r.options.Compiler.DestroyPipeline(pipeline))
		}
	}
	r.pipelines = nil
	r.plan = nil

	err = errors.CombineErrors(err, r.resources.DestroyPerFrame())
	if r.resolved != nil {
		// Releases the presentation keys along with every Global alias
		err = errors.CombineErrors(err, r.resolved.Release(r.resources))
	} else if !r.presentationImage.IsZero() {
		err = errors.CombineErrors(err, r.resources.Destroy(r.presentationView))
		err = errors.CombineErrors(err, r.resources.Destroy(r.presentationImage))
	}
	r.resolved = nil
	r.presentationImage = resource.CompositeKey{}
	r.presentationView = resource.CompositeKey{}

	r.tracker.Reset()
	return err
}

// Resize drains every frame in flight, destroys every resource of the current build, recreates
// the presentation surface at extent and builds everything again. When it fails the renderer is
// left without a build until a later Resize succeeds.
func (r *Renderer) Resize(extent core1_0.Extent2D) error {
	if r.destroyed {
		return errors.New("renderer was destroyed")
	}

	r.logger.Debug("Renderer::Resize", slog.Int("Width", extent.Width), slog.Int("Height", extent.Height))

	err := r.ring.WaitAll()
	if err != nil {
		return errors.Wrap(err, "failed to drain frames in flight")
	}
	err = r.device.WaitIdle()
	if err != nil {
		return errors.Wrap(err, "failed to drain frames in flight")
	}

	err = r.teardown()
	if err != nil {
		return errors.Wrap(err, "failed to destroy the previous build")
	}

	err = r.presenter.Recreate(extent)
	if err != nil {
		return errors.Wrap(err, "failed to recreate the presentation surface")
	}

	r.rebuilds++
	err = r.build()
	if err != nil {
		return errors.CombineErrors(err, r.teardown())
	}
	return nil
}

// Destroy waits for every frame in flight and destroys everything the renderer created. The
// presenter is left to its owner.
func (r *Renderer) Destroy() error {
	if r.destroyed {
		return errors.New("renderer was already destroyed")
	}

	r.logger.Debug("Renderer::Destroy", slog.Int("Frames", r.frames))

	err := r.ring.Destroy()
	err = errors.CombineErrors(err, r.device.WaitIdle())
	err = errors.CombineErrors(err, r.teardown())
	err = errors.CombineErrors(err, r.resources.DestroyAll())

	r.destroyed = true
	return err
}

// Resources is the registry holding every physical resource of the current build
func (r *Renderer) Resources() *resource.Registry {
	return r.resources
}

// Resolved is the alias map of the current build
func (r *Renderer) Resolved() *alias.Resolved {
	return r.resolved
}

// Plan is the barrier plan of the current build
func (r *Renderer) Plan() *barrier.Plan {
	return r.plan
}

// Built reports whether the renderer holds a build RenderFrame can record against
func (r *Renderer) Built() bool {
	return r.built
}

// Frames is the number of frames submitted
func (r *Renderer) Frames() int {
	return r.frames
}

// Rebuilds is the number of times the renderer was rebuilt after a resize
func (r *Renderer) Rebuilds() int {
	return r.rebuilds
}

// PrintDetailedMap writes a json object describing the resources, aliases and barrier plan of
// the current build
func (r *Renderer) PrintDetailedMap(writer *jwriter.Writer) {
	objState := writer.Object()
	defer objState.End()

	objState.Name("Frames").Int(r.frames)
	objState.Name("Rebuilds").Int(r.rebuilds)
	objState.Name("FrameCount").Int(r.ring.Len())

	r.resources.PrintDetailedMap(objState.Name("Resources"))
	if r.resolved != nil {
		r.resolved.PrintDetailedMap(objState.Name("Aliases"))
	}
	if r.plan != nil {
		r.plan.PrintDetailedMap(objState.Name("Plan"))
	}
}
