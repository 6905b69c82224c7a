package passes

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/framegraph/alias"
	"github.com/vkngwrapper/framegraph/gpu"
	"github.com/vkngwrapper/framegraph/gpu/headless"
	"github.com/vkngwrapper/framegraph/graph"
)

var discard = slog.New(slog.NewJSONHandler(io.Discard, nil))

func forwardRenderer(t *testing.T, settings Settings) (*headless.Device, *headless.Presenter, *graph.Renderer) {
	device := headless.NewDevice(discard)
	presenter, err := headless.NewPresenter(device, core1_0.FormatB8G8R8A8SRGB, core1_0.Extent2D{Width: 1280, Height: 720}, 3)
	require.NoError(t, err)

	passes, err := ForwardRenderer(settings)
	require.NoError(t, err)

	renderer, err := graph.New(discard, graph.Options{
		Flags:      graph.RendererCreateValidatePlan,
		FrameCount: 2,
		Compiler:   device,
	}, device, presenter, passes...)
	require.NoError(t, err)

	return device, presenter, renderer
}

func commandKinds(submission headless.Submission) []headless.CommandKind {
	kinds := make([]headless.CommandKind, 0, len(submission.Commands))
	for _, command := range submission.Commands {
		kinds = append(kinds, command.Kind)
	}
	return kinds
}

func TestForwardRendererResolves(t *testing.T) {
	device, _, renderer := forwardRenderer(t, DefaultSettings())

	require.Equal(t, 4, device.LivePipelines())

	resolved := renderer.Resolved()
	forward, ok := resolved.Entry(alias.ForwardColor)
	require.True(t, ok)
	require.Equal(t, core1_0.Extent2D{Width: 1280, Height: 720}, forward.Extent)
	require.Equal(t, core1_0.FormatR16G16B16A16SignedFloat, forward.Format)

	depth, ok := resolved.Entry(alias.ForwardDepth)
	require.True(t, ok)
	require.Equal(t, forward.Extent, depth.Extent)
	require.Equal(t, core1_0.ImageAspectDepth, depth.Aspect)

	bloom, ok := resolved.Entry(alias.BloomColor)
	require.True(t, ok)
	require.Equal(t, core1_0.Extent2D{Width: 640, Height: 360}, bloom.Extent)

	commands, ok := resolved.Entry(alias.DrawCommands)
	require.True(t, ok)
	require.Equal(t, 1024*DrawCommandStride, commands.BufferSize)

	// Three PerFrame image aliases and one PerFrame buffer alias, each replicated twice
	counters := device.Counters()
	require.Equal(t, 6, counters.ImagesCreated)
	require.Equal(t, 2, counters.BuffersCreated)

	require.NoError(t, renderer.Plan().Validate())
	require.Equal(t, 9, renderer.Plan().TransitionCount())

	require.NoError(t, renderer.Destroy())
	require.Equal(t, 0, device.LivePipelines())
}

func TestForwardRendererRecordsFrames(t *testing.T) {
	settings := DefaultSettings()
	settings.DrawCount = 100
	settings.WorkgroupSize = 32

	device, presenter, renderer := forwardRenderer(t, settings)

	for i := 0; i < 3; i++ {
		require.NoError(t, renderer.RenderFrame())
	}
	require.Len(t, presenter.Presentations(), 3)

	submissions := device.Submissions()
	require.Len(t, submissions, 3)

	for i, submission := range submissions {
		require.Equal(t, []headless.CommandKind{
			headless.CommandBarrier, headless.CommandBindPipeline, headless.CommandDispatch,
			headless.CommandBarrier, headless.CommandBindPipeline, headless.CommandDrawIndirect,
			headless.CommandBarrier, headless.CommandBindPipeline, headless.CommandDraw,
			headless.CommandBarrier, headless.CommandBindPipeline, headless.CommandDraw,
			headless.CommandBarrier,
		}, commandKinds(submission), "frame %d", i)

		dispatch := submission.Commands[2]
		require.Equal(t, [3]int{4, 1, 1}, dispatch.Counts)

		cullingBarrier := submission.Commands[0]
		require.Len(t, cullingBarrier.BufferBarriers, 1)
		require.Equal(t, 100*DrawCommandStride, cullingBarrier.BufferBarriers[0].Size)

		forwardBarrier := submission.Commands[3]
		require.Len(t, forwardBarrier.BufferBarriers, 1)
		require.Len(t, forwardBarrier.ImageBarriers, 2)
		require.Equal(t, gpu.StateComputeWrite, forwardBarrier.BufferBarriers[0].Old)
		require.Equal(t, gpu.StateIndirectRead, forwardBarrier.BufferBarriers[0].New)

		draw := submission.Commands[5]
		require.Equal(t, forwardBarrier.BufferBarriers[0].Buffer, draw.Buffer)
		require.Equal(t, [3]int{0, 100, DrawCommandStride}, draw.Counts)

		bloomBarrier := submission.Commands[6]
		require.Len(t, bloomBarrier.ImageBarriers, 2)
		require.Equal(t, gpu.StateColorAttachmentWrite, bloomBarrier.ImageBarriers[0].Old)
		require.Equal(t, gpu.StateFragmentShaderRead, bloomBarrier.ImageBarriers[0].New)

		// ForwardColor is already readable, the transition is still emitted
		compositionBarrier := submission.Commands[9]
		require.Len(t, compositionBarrier.ImageBarriers, 3)
		require.Equal(t, gpu.StateFragmentShaderRead, compositionBarrier.ImageBarriers[0].Old)
		require.Equal(t, gpu.StateFragmentShaderRead, compositionBarrier.ImageBarriers[0].New)
		require.Equal(t, gpu.StateColorAttachmentWrite, compositionBarrier.ImageBarriers[1].Old)
	}

	// The third frame reuses the first replica, which ended the first frame readable
	third := submissions[2].Commands[0]
	require.Equal(t, gpu.StateIndirectRead, third.BufferBarriers[0].Old)
	first := submissions[0].Commands[0]
	require.Equal(t, gpu.StateUndefined, first.BufferBarriers[0].Old)
	require.Equal(t, first.BufferBarriers[0].Buffer, third.BufferBarriers[0].Buffer)

	require.NoError(t, renderer.Destroy())
}

func TestPipelineDescriptions(t *testing.T) {
	device, _, renderer := forwardRenderer(t, DefaultSettings())
	resolved := renderer.Resolved()

	desc, ok := NewForward(DefaultSettings()).Pipeline(resolved)
	require.True(t, ok)
	require.Equal(t, []core1_0.Format{core1_0.FormatR16G16B16A16SignedFloat}, desc.ColorFormats)
	require.Equal(t, core1_0.FormatD32SignedFloat, desc.DepthFormat)

	desc, ok = NewComposition().Pipeline(resolved)
	require.True(t, ok)
	require.Equal(t, []core1_0.Format{core1_0.FormatB8G8R8A8SRGB}, desc.ColorFormats)

	desc, ok = NewCulling(DefaultSettings()).Pipeline(resolved)
	require.True(t, ok)
	require.Equal(t, gpu.PipelineCompute, desc.Kind)

	require.Equal(t, 4, device.LivePipelines())
	require.NoError(t, renderer.Destroy())
}

func TestSettingsValidation(t *testing.T) {
	require.NoError(t, DefaultSettings().Validate())

	settings := DefaultSettings()
	settings.BloomScale = 0
	_, err := ForwardRenderer(settings)
	require.Error(t, err)

	settings = DefaultSettings()
	settings.WorkgroupSize = 0
	require.Error(t, settings.Validate())

	settings = DefaultSettings()
	settings.DrawCount = 65
	require.Equal(t, 2, NewCulling(settings).Workgroups())
}
