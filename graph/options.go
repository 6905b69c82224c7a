package graph

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/framegraph/gpu"
	"github.com/vkngwrapper/framegraph/resource"
)

// CreateFlags indicate specific renderer behaviors to activate or deactivate
type CreateFlags int32

var rendererCreateFlagsMapping = common.NewFlagStringMapping[CreateFlags]()

func (f CreateFlags) Register(str string) {
	rendererCreateFlagsMapping.Register(f, str)
}
func (f CreateFlags) String() string {
	return rendererCreateFlagsMapping.FlagsToString(f)
}

const (
	// RendererCreateDebugLabels labels every resource the renderer creates, when the device
	// supports it
	RendererCreateDebugLabels CreateFlags = 1 << iota
	// RendererCreateValidatePlan validates the barrier plan after every build, even in builds
	// without the debug_framegraph tag
	RendererCreateValidatePlan
)

func init() {
	RendererCreateDebugLabels.Register("RendererCreateDebugLabels")
	RendererCreateValidatePlan.Register("RendererCreateValidatePlan")
}

// Options contains the settings used to build a Renderer
type Options struct {
	Flags CreateFlags
	// FrameCount is the number of frames in flight. Every PerFrame alias is replicated this many
	// times.
	FrameCount int

	// DepthFormat overrides the format of depth aliases
	DepthFormat core1_0.Format
	// HDRFormat overrides the format of HDR color aliases
	HDRFormat core1_0.Format

	// Compiler compiles the pipeline of every pass that describes one. When it is nil, passes
	// execute with a zero pipeline handle.
	Compiler gpu.PipelineCompiler
}

func (o Options) validate() error {
	if o.FrameCount < 1 {
		return errors.Newf("renderer frame count must be at least 1, but was %d", o.FrameCount)
	}
	return nil
}

func (o Options) registryOptions() resource.CreateOptions {
	flags := resource.RegistryCreateExternallySynchronized
	if o.Flags&RendererCreateDebugLabels != 0 {
		flags |= resource.RegistryCreateDebugLabels
	}

	return resource.CreateOptions{
		Flags:      flags,
		FrameCount: o.FrameCount,
	}
}
