package vulkan

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
	"github.com/vkngwrapper/framegraph/gpu"
)

// SwapchainOptions describe the swapchain a Swapchain creates, and recreates on every resize
type SwapchainOptions struct {
	Surface      khr_surface.Surface
	Format       core1_0.Format
	ColorSpace   khr_surface.ColorSpace
	PresentMode  khr_surface.PresentMode
	PreTransform khr_surface.SurfaceTransformFlags
	ImageCount   int

	// PresentQueue receives presentation requests. Queue family indices must list both the
	// graphics and present families when they differ.
	PresentQueue       core1_0.Queue
	QueueFamilyIndices []int
}

// Swapchain is a gpu.Presenter over a VK_KHR_swapchain swapchain
type Swapchain struct {
	logger  *slog.Logger
	device  *Device
	driver  SwapchainDriver
	options SwapchainOptions

	swapchain khr_swapchain.Swapchain
	extent    core1_0.Extent2D
	images    []gpu.ImageHandle
	views     []gpu.ImageViewHandle
}

var _ gpu.Presenter = &Swapchain{}

func NewSwapchain(logger *slog.Logger, device *Device, driver SwapchainDriver, options SwapchainOptions, extent core1_0.Extent2D) (*Swapchain, error) {
	if logger == nil {
		return nil, errors.New("logger must not be nil")
	}
	if device == nil || driver == nil {
		return nil, errors.New("swapchain requires a device and a swapchain driver")
	}
	if options.ImageCount < 1 {
		return nil, errors.Newf("swapchain image count must be at least 1, but was %d", options.ImageCount)
	}

	swapchain := &Swapchain{
		logger:  logger,
		device:  device,
		driver:  driver,
		options: options,
	}

	err := swapchain.create(extent)
	if err != nil {
		return nil, err
	}
	return swapchain, nil
}

func (s *Swapchain) create(extent core1_0.Extent2D) error {
	s.logger.Debug("Swapchain::create", slog.Int("Width", extent.Width), slog.Int("Height", extent.Height))

	sharingMode := core1_0.SharingModeExclusive
	if len(s.options.QueueFamilyIndices) > 1 {
		sharingMode = core1_0.SharingModeConcurrent
	}

	old := s.swapchain
	swapchain, _, err := s.driver.CreateSwapchain(nil, khr_swapchain.SwapchainCreateInfo{
		Surface: s.options.Surface,

		MinImageCount:    s.options.ImageCount,
		ImageFormat:      s.options.Format,
		ImageColorSpace:  s.options.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       core1_0.ImageUsageColorAttachment,

		ImageSharingMode:   sharingMode,
		QueueFamilyIndices: s.options.QueueFamilyIndices,

		PreTransform:   s.options.PreTransform,
		CompositeAlpha: khr_surface.CompositeAlphaOpaque,
		PresentMode:    s.options.PresentMode,
		Clipped:        true,
		OldSwapchain:   old,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create swapchain")
	}

	err = s.release()
	s.swapchain = swapchain
	s.extent = extent
	if err != nil {
		return err
	}

	images, _, err := s.driver.GetSwapchainImages(swapchain)
	if err != nil {
		return errors.Wrap(err, "failed to get swapchain images")
	}

	s.images = s.device.adoptImages(images)
	for _, image := range s.images {
		view, err := s.device.CreateImageView(image, gpu.ImageViewDescription{
			Format: s.options.Format,
			Range:  gpu.WholeRange(core1_0.ImageAspectColor),
		})
		if err != nil {
			return errors.Wrap(err, "failed to create swapchain image view")
		}
		s.views = append(s.views, view)
	}

	return nil
}

// release destroys the views and forgets the images of the current swapchain, then destroys it
func (s *Swapchain) release() error {
	var err error
	for _, view := range s.views {
		err = errors.CombineErrors(err, s.device.DestroyImageView(view))
	}
	s.device.forgetImages(s.images)
	s.views = nil
	s.images = nil

	if s.swapchain.Initialized() {
		s.driver.DestroySwapchain(s.swapchain, nil)
		s.swapchain = khr_swapchain.Swapchain{}
	}
	return err
}

func (s *Swapchain) Images() []gpu.ImageHandle {
	return s.images
}

func (s *Swapchain) Views() []gpu.ImageViewHandle {
	return s.views
}

func (s *Swapchain) Format() core1_0.Format {
	return s.options.Format
}

func (s *Swapchain) Extent() core1_0.Extent2D {
	return s.extent
}

func frameSync(sync gpu.FrameSync) (*FrameSync, error) {
	frameSync, ok := sync.(*FrameSync)
	if !ok {
		return nil, errors.Newf("swapchain requires a vulkan frame sync, but received %T", sync)
	}
	return frameSync, nil
}

func (s *Swapchain) Acquire(sync gpu.FrameSync) (int, error) {
	target, err := frameSync(sync)
	if err != nil {
		return -1, err
	}

	err = target.drain()
	if err != nil {
		return -1, err
	}

	index, res, err := s.driver.AcquireNextImage(s.swapchain, common.NoTimeout, &target.imageAvailable, nil)
	switch {
	case res == khr_swapchain.VKErrorOutOfDate:
		return -1, gpu.ErrOutOfDate
	case res == khr_swapchain.VKSuboptimal:
		target.acquired = true
		return index, gpu.ErrSuboptimal
	case err != nil:
		return -1, errors.Wrap(err, "failed to acquire swapchain image")
	}

	target.acquired = true
	return index, nil
}

func (s *Swapchain) Present(sync gpu.FrameSync, index int) error {
	target, err := frameSync(sync)
	if err != nil {
		return err
	}
	if !target.presentable {
		return errors.New("frame was not submitted after acquiring a swapchain image")
	}
	target.presentable = false

	res, err := s.driver.QueuePresent(s.options.PresentQueue, khr_swapchain.PresentInfo{
		WaitSemaphores: []core1_0.Semaphore{target.renderFinished},
		Swapchains:     []khr_swapchain.Swapchain{s.swapchain},
		ImageIndices:   []int{index},
	})
	switch {
	case res == khr_swapchain.VKErrorOutOfDate:
		return gpu.ErrOutOfDate
	case res == khr_swapchain.VKSuboptimal:
		return gpu.ErrSuboptimal
	case err != nil:
		return errors.Wrapf(err, "failed to present swapchain image %d", index)
	}
	return nil
}

// Recreate builds a new swapchain at extent from the current one. The caller must make sure no
// submitted work still uses the old images.
func (s *Swapchain) Recreate(extent core1_0.Extent2D) error {
	return s.create(extent)
}

func (s *Swapchain) Destroy() error {
	s.logger.Debug("Swapchain::Destroy")
	return s.release()
}
