// Package gpu describes the boundary between the framegraph and the GPU API that backs it. The
// framegraph only ever sees opaque handles and the narrow interfaces declared here; the vulkan
// package implements them on top of vkngwrapper and the headless package simulates them for tests
// and tooling.
package gpu

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
)

//go:generate mockgen -source gpu.go -destination mock_gpu/mocks.go -package mock_gpu

// ErrOutOfDate is returned by a Presenter when the presentation surface no longer matches its
// images and must be recreated before another frame can be presented
var ErrOutOfDate = errors.New("presentation surface is out of date")

// ErrSuboptimal is returned by a Presenter when presentation succeeded but the surface should be
// recreated at the next opportunity
var ErrSuboptimal = errors.New("presentation surface is suboptimal")

type ImageHandle uint64
type ImageViewHandle uint64
type BufferHandle uint64
type PipelineHandle uint64

// ImageDescription is everything needed to create an owned image and bind it to memory
type ImageDescription struct {
	Format      core1_0.Format
	Extent      core1_0.Extent2D
	Usage       core1_0.ImageUsageFlags
	Samples     core1_0.SampleCountFlags
	MipLevels   int
	ArrayLayers int
}

type ImageViewDescription struct {
	Format core1_0.Format
	Range  core1_0.ImageSubresourceRange
}

type BufferDescription struct {
	Size  int
	Usage core1_0.BufferUsageFlags
}

// ImageBarrier moves one image subresource range from the Old state to the New state
type ImageBarrier struct {
	Image ImageHandle
	Old   ResourceState
	New   ResourceState
	Range core1_0.ImageSubresourceRange
}

// BufferBarrier moves a byte range of a buffer from the Old state to the New state. Layouts are
// ignored for buffers.
type BufferBarrier struct {
	Buffer BufferHandle
	Old    ResourceState
	New    ResourceState
	Offset int
	Size   int
}

// Device creates and destroys the physical objects the framegraph owns
type Device interface {
	CreateImage(desc ImageDescription) (ImageHandle, error)
	DestroyImage(image ImageHandle) error
	CreateImageView(image ImageHandle, desc ImageViewDescription) (ImageViewHandle, error)
	DestroyImageView(view ImageViewHandle) error
	CreateBuffer(desc BufferDescription) (BufferHandle, error)
	DestroyBuffer(buffer BufferHandle) error

	// CreateFrameSync creates the fence, semaphore and command target for one frame-in-flight
	CreateFrameSync() (FrameSync, error)
	WaitIdle() error
}

// FrameSync is the synchronization and recording state of a single frame-in-flight slot
type FrameSync interface {
	// Wait blocks until the work most recently submitted through this FrameSync has completed. It
	// has no timeout.
	Wait() error
	// Begin discards any previous recording and opens a new one
	Begin() (Recorder, error)
	// Submit closes the current recording, resets the fence and submits the work
	Submit() error
	Destroy() error
}

// Recorder records commands into the command target of a FrameSync
type Recorder interface {
	PipelineBarrier(images []ImageBarrier, buffers []BufferBarrier) error
	BindPipeline(pipeline PipelineHandle) error
	Draw(vertexCount, instanceCount int) error
	// DrawIndirect draws drawCount commands read from buffer, starting at offset and stride bytes
	// apart
	DrawIndirect(buffer BufferHandle, offset, drawCount, stride int) error
	Dispatch(x, y, z int) error
}

// Presenter is the presentation surface: a set of foreign-owned images cycled by an
// acquire/present protocol
type Presenter interface {
	Images() []ImageHandle
	Views() []ImageViewHandle
	Format() core1_0.Format
	Extent() core1_0.Extent2D

	// Acquire returns the index of the next presentation image. The image becomes available to
	// the work submitted through sync.
	Acquire(sync FrameSync) (int, error)
	// Present queues the image at index for presentation once the work submitted through sync
	// completes
	Present(sync FrameSync, index int) error
	// Recreate rebuilds the surface images at the provided extent. Previously returned images and
	// views are invalid afterward.
	Recreate(extent core1_0.Extent2D) error
	Destroy() error
}

// PipelineCompiler turns a PipelineDescription into a pipeline object that passes can bind
type PipelineCompiler interface {
	CompilePipeline(desc PipelineDescription) (PipelineHandle, error)
	DestroyPipeline(pipeline PipelineHandle) error
}

// Labeler is optionally implemented by a Device that can attach debug names to objects
type Labeler interface {
	SetObjectLabel(kind ObjectKind, handle uint64, label string) error
}
