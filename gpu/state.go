package gpu

import (
	"fmt"

	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

// ResourceState is the layout, pipeline stages and access rights a resource was last used under
type ResourceState struct {
	Layout core1_0.ImageLayout
	Stages core1_0.PipelineStageFlags
	Access core1_0.AccessFlags
}

const writeAccess = core1_0.AccessShaderWrite |
	core1_0.AccessColorAttachmentWrite |
	core1_0.AccessDepthStencilAttachmentWrite |
	core1_0.AccessTransferWrite |
	core1_0.AccessHostWrite |
	core1_0.AccessMemoryWrite

var (
	// StateUndefined is the baseline of every owned resource: contents are discarded on the next
	// transition
	StateUndefined = ResourceState{
		Layout: core1_0.ImageLayoutUndefined,
		Stages: core1_0.PipelineStageTopOfPipe,
	}
	// StatePresent is the state presentation images are in while the presentation engine owns them
	StatePresent = ResourceState{
		Layout: khr_swapchain.ImageLayoutPresentSrc,
		Stages: core1_0.PipelineStageColorAttachmentOutput,
	}
	StateColorAttachmentWrite = ResourceState{
		Layout: core1_0.ImageLayoutColorAttachmentOptimal,
		Stages: core1_0.PipelineStageColorAttachmentOutput,
		Access: core1_0.AccessColorAttachmentWrite,
	}
	StateDepthAttachmentWrite = ResourceState{
		Layout: core1_0.ImageLayoutDepthStencilAttachmentOptimal,
		Stages: core1_0.PipelineStageEarlyFragmentTests | core1_0.PipelineStageLateFragmentTests,
		Access: core1_0.AccessDepthStencilAttachmentRead | core1_0.AccessDepthStencilAttachmentWrite,
	}
	StateFragmentShaderRead = ResourceState{
		Layout: core1_0.ImageLayoutShaderReadOnlyOptimal,
		Stages: core1_0.PipelineStageFragmentShader,
		Access: core1_0.AccessShaderRead,
	}
	StateComputeWrite = ResourceState{
		Layout: core1_0.ImageLayoutGeneral,
		Stages: core1_0.PipelineStageComputeShader,
		Access: core1_0.AccessShaderWrite,
	}
	StateIndirectRead = ResourceState{
		Layout: core1_0.ImageLayoutUndefined,
		Stages: core1_0.PipelineStageDrawIndirect,
		Access: core1_0.AccessIndirectCommandRead,
	}
)

// IsWrite reports whether the state includes any write access
func (s ResourceState) IsWrite() bool {
	return s.Access&writeAccess != 0
}

func (s ResourceState) String() string {
	return fmt.Sprintf("{%v %v %v}", s.Layout, s.Stages, s.Access)
}

// AspectForFormat returns the image aspects a view of the provided format covers
func AspectForFormat(format core1_0.Format) core1_0.ImageAspectFlags {
	switch format {
	case core1_0.FormatD32SignedFloat, core1_0.FormatD16UnsignedNormalized:
		return core1_0.ImageAspectDepth
	case core1_0.FormatD24UnsignedNormalizedS8UnsignedInt, core1_0.FormatD32SignedFloatS8UnsignedInt:
		return core1_0.ImageAspectDepth | core1_0.ImageAspectStencil
	default:
		return core1_0.ImageAspectColor
	}
}

// WholeRange is the subresource range covering a single-mip, single-layer image
func WholeRange(aspect core1_0.ImageAspectFlags) core1_0.ImageSubresourceRange {
	return core1_0.ImageSubresourceRange{
		AspectMask:     aspect,
		BaseMipLevel:   0,
		LevelCount:     1,
		BaseArrayLayer: 0,
		LayerCount:     1,
	}
}

// ObjectKind identifies the type of object a debug label is attached to
type ObjectKind int32

const (
	ObjectImage ObjectKind = iota
	ObjectImageView
	ObjectBuffer
)

var objectKindMapping = map[ObjectKind]string{
	ObjectImage:     "ObjectImage",
	ObjectImageView: "ObjectImageView",
	ObjectBuffer:    "ObjectBuffer",
}

func (k ObjectKind) String() string {
	str, ok := objectKindMapping[k]
	if !ok {
		return "unknown"
	}
	return str
}

// Viewport is the rectangle and depth range a pass renders to
type Viewport struct {
	X, Y          float32
	Width, Height float32
	MinDepth      float32
	MaxDepth      float32
}

// Rect is a scissor rectangle in pixels
type Rect struct {
	Offset core1_0.Offset2D
	Extent core1_0.Extent2D
}

// FullViewport returns a viewport and scissor that cover the entire extent
func FullViewport(extent core1_0.Extent2D) (Viewport, Rect) {
	return Viewport{
			Width:    float32(extent.Width),
			Height:   float32(extent.Height),
			MinDepth: 0,
			MaxDepth: 1,
		}, Rect{
			Extent: extent,
		}
}
