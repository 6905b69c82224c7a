package passes

import (
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/framegraph/alias"
	"github.com/vkngwrapper/framegraph/barrier"
	"github.com/vkngwrapper/framegraph/gpu"
	"github.com/vkngwrapper/framegraph/graph"
	"github.com/vkngwrapper/framegraph/resource"
)

// Forward draws the scene into an HDR color target and a depth target using the draw commands
// written by the culling pass
type Forward struct {
	drawCount int
}

func NewForward(settings Settings) *Forward {
	return &Forward{drawCount: settings.DrawCount}
}

func (p *Forward) ID() int {
	return ForwardID
}

func (p *Forward) Name() string {
	return "Forward"
}

func (p *Forward) Requirements() []barrier.Requirement {
	return []barrier.Requirement{
		{
			Alias:    alias.DrawCommands,
			State:    gpu.StateIndirectRead,
			Creation: barrier.UseExisting(),
		},
		{
			Alias: alias.ForwardColor,
			State: gpu.StateColorAttachmentWrite,
			Creation: barrier.Declare(alias.Image(
				alias.FormatHDRColor,
				alias.PresentationRelative(1),
				core1_0.ImageUsageColorAttachment|core1_0.ImageUsageSampled,
				resource.LifetimePerFrame,
			)),
		},
		{
			Alias: alias.ForwardDepth,
			State: gpu.StateDepthAttachmentWrite,
			Creation: barrier.Declare(alias.Image(
				alias.FormatDepth,
				alias.RelativeTo(alias.ForwardColor, 1),
				core1_0.ImageUsageDepthStencilAttachment,
				resource.LifetimePerFrame,
			)),
		},
	}
}

func (p *Forward) Pipeline(resolved *alias.Resolved) (gpu.PipelineDescription, bool) {
	desc := gpu.PipelineDescription{
		Name:           "Forward",
		Kind:           gpu.PipelineGraphics,
		VertexShader:   "forward.vert",
		FragmentShader: "forward.frag",
		Topology:       core1_0.PrimitiveTopologyTriangleList,
		ColorFormats:   formats(resolved, alias.ForwardColor),
		Samples:        core1_0.Samples1,
	}

	depth, ok := resolved.Entry(alias.ForwardDepth)
	if ok {
		desc.DepthFormat = depth.Format
	}
	return desc, true
}

func (p *Forward) Execute(ctx *graph.Context) error {
	commands, err := ctx.Buffer(alias.DrawCommands)
	if err != nil {
		return err
	}

	err = ctx.Recorder().BindPipeline(ctx.Pipeline())
	if err != nil {
		return err
	}

	return ctx.Recorder().DrawIndirect(commands, 0, p.drawCount, DrawCommandStride)
}
