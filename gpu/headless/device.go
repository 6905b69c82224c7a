// Package headless simulates a GPU device and presentation surface in memory. Work submitted to a
// headless device completes the moment its fence is waited on, and every object it creates,
// destroys, records or presents is counted so that callers can inspect exactly what the
// framegraph asked of the GPU.
package headless

import (
	"log/slog"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/framegraph/gpu"
)

// Counters tracks how many of each object kind a Device has created and destroyed
type Counters struct {
	ImagesCreated       int
	ImagesDestroyed     int
	ViewsCreated        int
	ViewsDestroyed      int
	BuffersCreated      int
	BuffersDestroyed    int
	FrameSyncsCreated   int
	FrameSyncsDestroyed int
	Submissions         int
	Waits               int
	WaitIdles           int
}

// Device is an in-memory gpu.Device, gpu.Labeler and gpu.PipelineCompiler
type Device struct {
	logger *slog.Logger

	mutex      sync.Mutex
	nextHandle uint64
	counters   Counters

	liveImages  *swiss.Map[gpu.ImageHandle, gpu.ImageDescription]
	liveViews   *swiss.Map[gpu.ImageViewHandle, gpu.ImageHandle]
	liveBuffers *swiss.Map[gpu.BufferHandle, gpu.BufferDescription]
	pipelines   *swiss.Map[gpu.PipelineHandle, gpu.PipelineDescription]
	labels      *swiss.Map[uint64, string]

	inFlight    int
	maxInFlight int
	submissions []Submission

	// FailImageCreation, when set, is returned by CreateImage once ImagesBeforeFailure more images
	// have been created
	FailImageCreation   error
	ImagesBeforeFailure int
	// FailSubmit, when set, is returned by the next Submit on any FrameSync
	FailSubmit error
}

// Submission is the record of one FrameSync.Submit
type Submission struct {
	Slot     int
	Commands []Command
	// Presentable is set when a presentation image was acquired for this submission
	Presentable bool
}

var _ gpu.Device = &Device{}
var _ gpu.Labeler = &Device{}
var _ gpu.PipelineCompiler = &Device{}

func NewDevice(logger *slog.Logger) *Device {
	return &Device{
		logger:      logger,
		nextHandle:  0x1000,
		liveImages:  swiss.NewMap[gpu.ImageHandle, gpu.ImageDescription](16),
		liveViews:   swiss.NewMap[gpu.ImageViewHandle, gpu.ImageHandle](16),
		liveBuffers: swiss.NewMap[gpu.BufferHandle, gpu.BufferDescription](8),
		pipelines:   swiss.NewMap[gpu.PipelineHandle, gpu.PipelineDescription](8),
		labels:      swiss.NewMap[uint64, string](16),
	}
}

func (d *Device) allocateHandle() uint64 {
	d.nextHandle++
	return d.nextHandle
}

func (d *Device) CreateImage(desc gpu.ImageDescription) (gpu.ImageHandle, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.FailImageCreation != nil {
		if d.ImagesBeforeFailure <= 0 {
			return 0, d.FailImageCreation
		}
		d.ImagesBeforeFailure--
	}

	if desc.Extent.Width <= 0 || desc.Extent.Height <= 0 {
		return 0, errors.Newf("cannot create an image with extent %dx%d", desc.Extent.Width, desc.Extent.Height)
	}

	handle := gpu.ImageHandle(d.allocateHandle())
	d.liveImages.Put(handle, desc)
	d.counters.ImagesCreated++
	return handle, nil
}

func (d *Device) DestroyImage(image gpu.ImageHandle) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if !d.liveImages.Has(image) {
		return errors.Newf("image %#x is not live", uint64(image))
	}

	var err error
	d.liveViews.Iter(func(view gpu.ImageViewHandle, viewed gpu.ImageHandle) bool {
		if viewed == image {
			err = errors.Newf("image %#x destroyed while view %#x is still live", uint64(image), uint64(view))
			return true
		}
		return false
	})
	if err != nil {
		return err
	}

	d.liveImages.Delete(image)
	d.labels.Delete(uint64(image))
	d.counters.ImagesDestroyed++
	return nil
}

func (d *Device) CreateImageView(image gpu.ImageHandle, desc gpu.ImageViewDescription) (gpu.ImageViewHandle, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if !d.liveImages.Has(image) {
		return 0, errors.Newf("cannot create a view of image %#x, which is not live", uint64(image))
	}

	handle := gpu.ImageViewHandle(d.allocateHandle())
	d.liveViews.Put(handle, image)
	d.counters.ViewsCreated++
	return handle, nil
}

func (d *Device) DestroyImageView(view gpu.ImageViewHandle) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if !d.liveViews.Has(view) {
		return errors.Newf("image view %#x is not live", uint64(view))
	}

	d.liveViews.Delete(view)
	d.labels.Delete(uint64(view))
	d.counters.ViewsDestroyed++
	return nil
}

func (d *Device) CreateBuffer(desc gpu.BufferDescription) (gpu.BufferHandle, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if desc.Size <= 0 {
		return 0, errors.Newf("cannot create a buffer of size %d", desc.Size)
	}

	handle := gpu.BufferHandle(d.allocateHandle())
	d.liveBuffers.Put(handle, desc)
	d.counters.BuffersCreated++
	return handle, nil
}

func (d *Device) DestroyBuffer(buffer gpu.BufferHandle) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if !d.liveBuffers.Has(buffer) {
		return errors.Newf("buffer %#x is not live", uint64(buffer))
	}

	d.liveBuffers.Delete(buffer)
	d.labels.Delete(uint64(buffer))
	d.counters.BuffersDestroyed++
	return nil
}

func (d *Device) CreateFrameSync() (gpu.FrameSync, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	frameSync := &FrameSync{
		device: d,
		slot:   d.counters.FrameSyncsCreated,
	}
	d.counters.FrameSyncsCreated++
	return frameSync, nil
}

// WaitIdle is a no-op beyond counting: work completes when its fence is waited on, and the
// framegraph always waits on every fence before destroying anything
func (d *Device) WaitIdle() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.counters.WaitIdles++
	return nil
}

func (d *Device) SetObjectLabel(kind gpu.ObjectKind, handle uint64, label string) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.labels.Put(handle, label)
	return nil
}

func (d *Device) CompilePipeline(desc gpu.PipelineDescription) (gpu.PipelineHandle, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	handle := gpu.PipelineHandle(d.allocateHandle())
	d.pipelines.Put(handle, desc)
	return handle, nil
}

func (d *Device) DestroyPipeline(pipeline gpu.PipelineHandle) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if !d.pipelines.Has(pipeline) {
		return errors.Newf("pipeline %#x is not live", uint64(pipeline))
	}
	d.pipelines.Delete(pipeline)
	return nil
}

// Counters returns a snapshot of the device's object counters
func (d *Device) Counters() Counters {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	return d.counters
}

// Label returns the debug label attached to a live handle
func (d *Device) Label(handle uint64) (string, bool) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	return d.labels.Get(handle)
}

// LiveObjects returns the number of images, views and buffers that have not been destroyed
func (d *Device) LiveObjects() (images, views, buffers int) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	return d.liveImages.Count(), d.liveViews.Count(), d.liveBuffers.Count()
}

// LivePipelines returns the number of compiled pipelines that have not been destroyed
func (d *Device) LivePipelines() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	return d.pipelines.Count()
}

// MaxInFlight is the largest number of submissions that were simultaneously incomplete
func (d *Device) MaxInFlight() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	return d.maxInFlight
}

// InFlight is the number of submissions that have not been waited on
func (d *Device) InFlight() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	return d.inFlight
}

// Submissions returns every submission made through the device's frame syncs, in order
func (d *Device) Submissions() []Submission {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	submissions := make([]Submission, len(d.submissions))
	copy(submissions, d.submissions)
	return submissions
}
