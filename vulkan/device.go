// Package vulkan implements the gpu interfaces on top of vkngwrapper. Owned images and buffers
// are bound to dedicated allocations, every frame in flight gets its own fence, semaphores and
// command buffer, and presentation goes through a VK_KHR_swapchain swapchain.
package vulkan

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/core/v3/loader"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/framegraph/gpu"
)

// ErrUnknownHandle is returned when a handle was not created by, or was already destroyed
// through, this Device
var ErrUnknownHandle = errors.New("unknown handle")

type image struct {
	image  core1_0.Image
	memory core1_0.DeviceMemory
	// Swapchain images are tracked so barriers can target them, but never destroyed here
	foreign bool
}

type pipeline struct {
	pipeline  core1_0.Pipeline
	bindPoint core1_0.PipelineBindPoint
}

type buffer struct {
	buffer core1_0.Buffer
	memory core1_0.DeviceMemory
}

// DeviceOptions are the objects a Device needs from the application that created the logical
// device
type DeviceOptions struct {
	// Queue receives every submission. It must support graphics and compute work.
	Queue            core1_0.Queue
	QueueFamilyIndex int
	MemoryProperties *core1_0.PhysicalDeviceMemoryProperties
	// DebugUtils labels objects when it is not nil
	DebugUtils ext_debug_utils.ExtensionDriver
}

// Device is a gpu.Device backed by a vkngwrapper device driver
type Device struct {
	logger      *slog.Logger
	driver      core1_0.DeviceDriver
	queue       core1_0.Queue
	queueFamily int
	memoryTypes []core1_0.MemoryType
	debugUtils  ext_debug_utils.ExtensionDriver

	images    *swiss.Map[gpu.ImageHandle, image]
	views     *swiss.Map[gpu.ImageViewHandle, core1_0.ImageView]
	buffers   *swiss.Map[gpu.BufferHandle, buffer]
	pipelines *swiss.Map[gpu.PipelineHandle, pipeline]
}

var _ gpu.Device = &Device{}
var _ gpu.Labeler = &Device{}

func NewDevice(logger *slog.Logger, driver core1_0.DeviceDriver, options DeviceOptions) (*Device, error) {
	if logger == nil {
		return nil, errors.New("logger must not be nil")
	}
	if driver == nil {
		return nil, errors.New("driver must not be nil")
	}
	if options.MemoryProperties == nil {
		return nil, errors.New("memory properties must not be nil")
	}

	logger.Debug("Device::NewDevice", slog.Int("MemoryTypes", len(options.MemoryProperties.MemoryTypes)), slog.Int("QueueFamily", options.QueueFamilyIndex))

	return &Device{
		logger:      logger,
		driver:      driver,
		queue:       options.Queue,
		queueFamily: options.QueueFamilyIndex,
		memoryTypes: options.MemoryProperties.MemoryTypes,
		debugUtils:  options.DebugUtils,

		images:    swiss.NewMap[gpu.ImageHandle, image](16),
		views:     swiss.NewMap[gpu.ImageViewHandle, core1_0.ImageView](16),
		buffers:   swiss.NewMap[gpu.BufferHandle, buffer](8),
		pipelines: swiss.NewMap[gpu.PipelineHandle, pipeline](8),
	}, nil
}

func (d *Device) allocate(requirements *core1_0.MemoryRequirements, usage uint32) (core1_0.DeviceMemory, error) {
	memoryTypeIndex, err := findMemoryTypeIndex(d.memoryTypes, requirements.MemoryTypeBits, preferencesForUsage(usage))
	if err != nil {
		return core1_0.DeviceMemory{}, err
	}

	memory, _, err := d.driver.AllocateMemory(nil, core1_0.MemoryAllocateInfo{
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: memoryTypeIndex,
	})
	if err != nil {
		return core1_0.DeviceMemory{}, errors.Wrapf(err, "failed to allocate %d bytes from memory type %d", requirements.Size, memoryTypeIndex)
	}
	return memory, nil
}

func (d *Device) CreateImage(desc gpu.ImageDescription) (gpu.ImageHandle, error) {
	d.logger.Debug("Device::CreateImage", slog.String("Format", desc.Format.String()), slog.Int("Width", desc.Extent.Width), slog.Int("Height", desc.Extent.Height))

	vkImage, _, err := d.driver.CreateImage(nil, core1_0.ImageCreateInfo{
		ImageType: core1_0.ImageType2D,
		Extent: core1_0.Extent3D{
			Width:  desc.Extent.Width,
			Height: desc.Extent.Height,
			Depth:  1,
		},
		MipLevels:     desc.MipLevels,
		ArrayLayers:   desc.ArrayLayers,
		Format:        desc.Format,
		Tiling:        core1_0.ImageTilingOptimal,
		InitialLayout: core1_0.ImageLayoutUndefined,
		Usage:         desc.Usage,
		SharingMode:   core1_0.SharingModeExclusive,
		Samples:       desc.Samples,
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to create image")
	}

	memory, err := d.allocate(d.driver.GetImageMemoryRequirements(vkImage), uint32(desc.Usage))
	if err != nil {
		d.driver.DestroyImage(vkImage, nil)
		return 0, err
	}

	_, err = d.driver.BindImageMemory(vkImage, memory, 0)
	if err != nil {
		d.driver.DestroyImage(vkImage, nil)
		d.driver.FreeMemory(memory, nil)
		return 0, errors.Wrap(err, "failed to bind image memory")
	}

	handle := gpu.ImageHandle(vkImage.Handle())
	d.images.Put(handle, image{image: vkImage, memory: memory})
	return handle, nil
}

func (d *Device) DestroyImage(handle gpu.ImageHandle) error {
	d.logger.Debug("Device::DestroyImage")

	owned, ok := d.images.Get(handle)
	if !ok {
		return errors.Wrapf(ErrUnknownHandle, "image %x", handle)
	}
	if owned.foreign {
		return errors.Newf("image %x belongs to the swapchain", handle)
	}

	d.driver.DestroyImage(owned.image, nil)
	d.driver.FreeMemory(owned.memory, nil)
	d.images.Delete(handle)
	return nil
}

func (d *Device) CreateImageView(handle gpu.ImageHandle, desc gpu.ImageViewDescription) (gpu.ImageViewHandle, error) {
	d.logger.Debug("Device::CreateImageView")

	owner, ok := d.images.Get(handle)
	if !ok {
		return 0, errors.Wrapf(ErrUnknownHandle, "image %x", handle)
	}

	view, _, err := d.driver.CreateImageView(nil, core1_0.ImageViewCreateInfo{
		Image:            owner.image,
		ViewType:         core1_0.ImageViewType2D,
		Format:           desc.Format,
		SubresourceRange: desc.Range,
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to create image view")
	}

	viewHandle := gpu.ImageViewHandle(view.Handle())
	d.views.Put(viewHandle, view)
	return viewHandle, nil
}

func (d *Device) DestroyImageView(handle gpu.ImageViewHandle) error {
	d.logger.Debug("Device::DestroyImageView")

	view, ok := d.views.Get(handle)
	if !ok {
		return errors.Wrapf(ErrUnknownHandle, "image view %x", handle)
	}

	d.driver.DestroyImageView(view, nil)
	d.views.Delete(handle)
	return nil
}

func (d *Device) CreateBuffer(desc gpu.BufferDescription) (gpu.BufferHandle, error) {
	d.logger.Debug("Device::CreateBuffer", slog.Int("Size", desc.Size))

	vkBuffer, _, err := d.driver.CreateBuffer(nil, core1_0.BufferCreateInfo{
		Size:        desc.Size,
		Usage:       desc.Usage,
		SharingMode: core1_0.SharingModeExclusive,
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to create buffer")
	}

	memory, err := d.allocate(d.driver.GetBufferMemoryRequirements(vkBuffer), uint32(desc.Usage))
	if err != nil {
		d.driver.DestroyBuffer(vkBuffer, nil)
		return 0, err
	}

	_, err = d.driver.BindBufferMemory(vkBuffer, memory, 0)
	if err != nil {
		d.driver.DestroyBuffer(vkBuffer, nil)
		d.driver.FreeMemory(memory, nil)
		return 0, errors.Wrap(err, "failed to bind buffer memory")
	}

	handle := gpu.BufferHandle(vkBuffer.Handle())
	d.buffers.Put(handle, buffer{buffer: vkBuffer, memory: memory})
	return handle, nil
}

func (d *Device) DestroyBuffer(handle gpu.BufferHandle) error {
	d.logger.Debug("Device::DestroyBuffer")

	owned, ok := d.buffers.Get(handle)
	if !ok {
		return errors.Wrapf(ErrUnknownHandle, "buffer %x", handle)
	}

	d.driver.DestroyBuffer(owned.buffer, nil)
	d.driver.FreeMemory(owned.memory, nil)
	d.buffers.Delete(handle)
	return nil
}

// RegisterPipeline makes a pipeline the application created bindable through a gpu.Recorder.
// The device never destroys registered pipelines.
func (d *Device) RegisterPipeline(vkPipeline core1_0.Pipeline, bindPoint core1_0.PipelineBindPoint) gpu.PipelineHandle {
	handle := gpu.PipelineHandle(vkPipeline.Handle())
	d.pipelines.Put(handle, pipeline{pipeline: vkPipeline, bindPoint: bindPoint})
	return handle
}

func (d *Device) UnregisterPipeline(handle gpu.PipelineHandle) {
	d.pipelines.Delete(handle)
}

func (d *Device) CreateFrameSync() (gpu.FrameSync, error) {
	return newFrameSync(d)
}

func (d *Device) WaitIdle() error {
	_, err := d.driver.DeviceWaitIdle()
	return err
}

var objectTypes = map[gpu.ObjectKind]core1_0.ObjectType{
	gpu.ObjectImage:     core1_0.ObjectTypeImage,
	gpu.ObjectImageView: core1_0.ObjectTypeImageView,
	gpu.ObjectBuffer:    core1_0.ObjectTypeBuffer,
}

// SetObjectLabel names an object for debugging tools. It does nothing when the device was created
// without debug utils.
func (d *Device) SetObjectLabel(kind gpu.ObjectKind, handle uint64, label string) error {
	if d.debugUtils == nil {
		return nil
	}

	objectType, ok := objectTypes[kind]
	if !ok {
		return errors.Newf("unknown object kind %s", kind)
	}

	_, err := d.debugUtils.SetDebugUtilsObjectName(d.driver.Device(), ext_debug_utils.DebugUtilsObjectNameInfo{
		ObjectName:   label,
		ObjectHandle: loader.VulkanHandle(handle),
		ObjectType:   objectType,
	})
	return err
}

// LiveObjects is the number of images, image views and buffers this device created that have not
// been destroyed. Swapchain images are not counted.
func (d *Device) LiveObjects() int {
	count := d.views.Count() + d.buffers.Count()
	d.images.Iter(func(_ gpu.ImageHandle, img image) bool {
		if !img.foreign {
			count++
		}
		return false
	})
	return count
}

func (d *Device) adoptImages(images []core1_0.Image) []gpu.ImageHandle {
	handles := make([]gpu.ImageHandle, 0, len(images))
	for _, vkImage := range images {
		handle := gpu.ImageHandle(vkImage.Handle())
		d.images.Put(handle, image{image: vkImage, foreign: true})
		handles = append(handles, handle)
	}
	return handles
}

func (d *Device) forgetImages(handles []gpu.ImageHandle) {
	for _, handle := range handles {
		d.images.Delete(handle)
	}
}

func (d *Device) lookupImage(handle gpu.ImageHandle) (core1_0.Image, error) {
	img, ok := d.images.Get(handle)
	if !ok {
		return core1_0.Image{}, errors.Wrapf(ErrUnknownHandle, "image %x", handle)
	}
	return img.image, nil
}

func (d *Device) lookupBuffer(handle gpu.BufferHandle) (core1_0.Buffer, error) {
	buf, ok := d.buffers.Get(handle)
	if !ok {
		return core1_0.Buffer{}, errors.Wrapf(ErrUnknownHandle, "buffer %x", handle)
	}
	return buf.buffer, nil
}
