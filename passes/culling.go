package passes

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/framegraph/alias"
	"github.com/vkngwrapper/framegraph/barrier"
	"github.com/vkngwrapper/framegraph/gpu"
	"github.com/vkngwrapper/framegraph/graph"
	"github.com/vkngwrapper/framegraph/resource"
)

// DrawCommandStride is the size of one non-indexed indirect draw command: vertex count, instance
// count, first vertex and first instance
const DrawCommandStride = 16

// Culling runs a compute shader that writes one indirect draw command per visible draw
type Culling struct {
	drawCount     int
	workgroupSize int
}

func NewCulling(settings Settings) *Culling {
	return &Culling{
		drawCount:     settings.DrawCount,
		workgroupSize: settings.WorkgroupSize,
	}
}

func (p *Culling) ID() int {
	return CullingID
}

func (p *Culling) Name() string {
	return "Culling"
}

func (p *Culling) Requirements() []barrier.Requirement {
	return []barrier.Requirement{
		{
			Alias: alias.DrawCommands,
			State: gpu.StateComputeWrite,
			Creation: barrier.Declare(alias.Buffer(
				p.drawCount*DrawCommandStride,
				core1_0.BufferUsageIndirectBuffer|core1_0.BufferUsageStorageBuffer,
				resource.LifetimePerFrame,
			)),
		},
	}
}

func (p *Culling) Pipeline(resolved *alias.Resolved) (gpu.PipelineDescription, bool) {
	return gpu.PipelineDescription{
		Name:          "Culling",
		Kind:          gpu.PipelineCompute,
		ComputeShader: "culling.comp",
	}, true
}

// Workgroups is the number of workgroups dispatched to cover every draw
func (p *Culling) Workgroups() int {
	return (p.drawCount + p.workgroupSize - 1) / p.workgroupSize
}

func (p *Culling) Execute(ctx *graph.Context) error {
	// Only checks that DrawCommands resolves to a buffer for this frame
	_, err := ctx.Buffer(alias.DrawCommands)
	if err != nil {
		return err
	}

	err = ctx.Recorder().BindPipeline(ctx.Pipeline())
	if err != nil {
		return errors.Wrap(err, "failed to bind the culling pipeline")
	}

	return ctx.Recorder().Dispatch(p.Workgroups(), 1, 1)
}
