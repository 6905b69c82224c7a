package passes

import (
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/framegraph/alias"
	"github.com/vkngwrapper/framegraph/barrier"
	"github.com/vkngwrapper/framegraph/gpu"
	"github.com/vkngwrapper/framegraph/graph"
	"github.com/vkngwrapper/framegraph/resource"
)

// Bloom extracts and blurs the bright parts of the forward color target into a smaller target
type Bloom struct {
	scale float32
}

func NewBloom(settings Settings) *Bloom {
	return &Bloom{scale: settings.BloomScale}
}

func (p *Bloom) ID() int {
	return BloomID
}

func (p *Bloom) Name() string {
	return "Bloom"
}

func (p *Bloom) Requirements() []barrier.Requirement {
	return []barrier.Requirement{
		{
			Alias:    alias.ForwardColor,
			State:    gpu.StateFragmentShaderRead,
			Creation: barrier.UseExisting(),
		},
		{
			Alias: alias.BloomColor,
			State: gpu.StateColorAttachmentWrite,
			Creation: barrier.Declare(alias.Image(
				alias.FormatHDRColor,
				alias.RelativeTo(alias.ForwardColor, p.scale),
				core1_0.ImageUsageColorAttachment|core1_0.ImageUsageSampled,
				resource.LifetimePerFrame,
			)),
		},
	}
}

func (p *Bloom) Pipeline(resolved *alias.Resolved) (gpu.PipelineDescription, bool) {
	return gpu.PipelineDescription{
		Name:           "Bloom",
		Kind:           gpu.PipelineGraphics,
		VertexShader:   "fullscreen.vert",
		FragmentShader: "bloom.frag",
		Topology:       core1_0.PrimitiveTopologyTriangleList,
		ColorFormats:   formats(resolved, alias.BloomColor),
		Samples:        core1_0.Samples1,
	}, true
}

func (p *Bloom) Execute(ctx *graph.Context) error {
	// Only checks that the input resolves to a view for this frame
	_, err := ctx.ImageView(alias.ForwardColor)
	if err != nil {
		return err
	}

	err = ctx.Recorder().BindPipeline(ctx.Pipeline())
	if err != nil {
		return err
	}

	// One triangle covering the viewport
	return ctx.Recorder().Draw(3, 1)
}
