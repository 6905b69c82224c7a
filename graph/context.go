package graph

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/framegraph/alias"
	"github.com/vkngwrapper/framegraph/barrier"
	"github.com/vkngwrapper/framegraph/gpu"
	"github.com/vkngwrapper/framegraph/resource"
)

// Context is everything a pass needs while it records its work for one frame
type Context struct {
	recorder gpu.Recorder
	pipeline gpu.PipelineHandle
	viewport gpu.Viewport
	scissor  gpu.Rect

	frameIndex        int
	presentationIndex int

	resolved  *alias.Resolved
	resources *resource.Registry
}

// Recorder is the open recording of the frame
func (c *Context) Recorder() gpu.Recorder {
	return c.recorder
}

// Pipeline is the compiled pipeline of the pass, or zero when the pass describes none
func (c *Context) Pipeline() gpu.PipelineHandle {
	return c.pipeline
}

// Viewport covers the first image the pass writes to, or the presentation surface when it writes
// to no image
func (c *Context) Viewport() gpu.Viewport {
	return c.viewport
}

func (c *Context) Scissor() gpu.Rect {
	return c.scissor
}

// FrameIndex is the index of the frame slot being recorded
func (c *Context) FrameIndex() int {
	return c.frameIndex
}

// PresentationIndex is the index of the presentation image acquired for the frame
func (c *Context) PresentationIndex() int {
	return c.presentationIndex
}

func (c *Context) entry(target alias.Alias, resourceType alias.ResourceType) (alias.Entry, int, error) {
	entry, ok := c.resolved.Entry(target)
	if !ok {
		return alias.Entry{}, 0, errors.Wrapf(barrier.ErrUnknownAlias, "%s was not resolved", target)
	}
	if entry.Type != resourceType {
		return alias.Entry{}, 0, errors.Newf("%s is a %s, not a %s", target, entry.Type, resourceType)
	}

	indexing := barrier.IndexFrame
	if entry.Lifetime == resource.LifetimeExternal {
		indexing = barrier.IndexPresentation
	}
	return entry, indexing.Index(entry.Lifetime, c.frameIndex, c.presentationIndex), nil
}

// Image returns the physical image an alias refers to on this frame
func (c *Context) Image(target alias.Alias) (gpu.ImageHandle, error) {
	entry, index, err := c.entry(target, alias.TypeImage)
	if err != nil {
		return 0, err
	}

	image, err := c.resources.LookupImage(entry.Resource, index)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to look up %s", target)
	}
	return image.Handle, nil
}

// ImageView returns the view of the physical image an alias refers to on this frame
func (c *Context) ImageView(target alias.Alias) (gpu.ImageViewHandle, error) {
	entry, index, err := c.entry(target, alias.TypeImage)
	if err != nil {
		return 0, err
	}

	view, err := c.resources.LookupImageView(entry.View, index)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to look up the view of %s", target)
	}
	return view.Handle, nil
}

// Buffer returns the physical buffer an alias refers to on this frame
func (c *Context) Buffer(target alias.Alias) (gpu.BufferHandle, error) {
	entry, index, err := c.entry(target, alias.TypeBuffer)
	if err != nil {
		return 0, err
	}

	buffer, err := c.resources.LookupBuffer(entry.Resource, index)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to look up %s", target)
	}
	return buffer.Handle, nil
}

// Extent returns the resolved extent of an image alias
func (c *Context) Extent(target alias.Alias) (core1_0.Extent2D, error) {
	entry, _, err := c.entry(target, alias.TypeImage)
	if err != nil {
		return core1_0.Extent2D{}, err
	}
	return entry.Extent, nil
}
