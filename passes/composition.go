package passes

import (
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/framegraph/alias"
	"github.com/vkngwrapper/framegraph/barrier"
	"github.com/vkngwrapper/framegraph/gpu"
	"github.com/vkngwrapper/framegraph/graph"
)

// Composition tone maps the forward color target, adds bloom and writes the result to the
// presentation image
type Composition struct{}

func NewComposition() *Composition {
	return &Composition{}
}

func (p *Composition) ID() int {
	return CompositionID
}

func (p *Composition) Name() string {
	return "Composition"
}

func (p *Composition) Requirements() []barrier.Requirement {
	return []barrier.Requirement{
		{
			Alias:    alias.ForwardColor,
			State:    gpu.StateFragmentShaderRead,
			Creation: barrier.UseExisting(),
		},
		{
			Alias:    alias.BloomColor,
			State:    gpu.StateFragmentShaderRead,
			Creation: barrier.UseExisting(),
		},
		{
			Alias:    alias.Presentation,
			State:    gpu.StateColorAttachmentWrite,
			Indexing: barrier.IndexPresentation,
			Creation: barrier.UseExisting(),
		},
	}
}

func (p *Composition) Pipeline(resolved *alias.Resolved) (gpu.PipelineDescription, bool) {
	return gpu.PipelineDescription{
		Name:           "Composition",
		Kind:           gpu.PipelineGraphics,
		VertexShader:   "fullscreen.vert",
		FragmentShader: "composition.frag",
		Topology:       core1_0.PrimitiveTopologyTriangleList,
		ColorFormats:   formats(resolved, alias.Presentation),
		Samples:        core1_0.Samples1,
	}, true
}

func (p *Composition) Execute(ctx *graph.Context) error {
	// Only checks that every attachment resolves to a view for this frame and image
	for _, attachment := range []alias.Alias{alias.ForwardColor, alias.BloomColor, alias.Presentation} {
		_, err := ctx.ImageView(attachment)
		if err != nil {
			return err
		}
	}

	err := ctx.Recorder().BindPipeline(ctx.Pipeline())
	if err != nil {
		return err
	}

	return ctx.Recorder().Draw(3, 1)
}
