package vulkan

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/core/v3/mocks"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
	"github.com/vkngwrapper/framegraph/gpu"
	"github.com/vkngwrapper/framegraph/vulkan/mock_vulkan"
	"go.uber.org/mock/gomock"
)

var testSwapchainOptions = SwapchainOptions{
	Format:       core1_0.FormatB8G8R8A8SRGB,
	ColorSpace:   khr_surface.ColorSpaceSRGBNonlinear,
	PresentMode:  khr_surface.PresentModeFIFO,
	PreTransform: khr_surface.TransformIdentity,
	ImageCount:   3,
}

// expectSwapchainImages expects a swapchain to be created from old with three images, and returns
// the new swapchain along with the views created for its images
func expectSwapchainImages(t *testing.T, setup deviceSetup, driver *mock_vulkan.MockSwapchainDriver, old khr_swapchain.Swapchain, extent core1_0.Extent2D) (khr_swapchain.Swapchain, []core1_0.ImageView) {
	swapchain := khr_swapchain.NewDummySwapchain(setup.vkDevice)
	images := []core1_0.Image{
		mocks.NewDummyImage(setup.vkDevice),
		mocks.NewDummyImage(setup.vkDevice),
		mocks.NewDummyImage(setup.vkDevice),
	}
	views := []core1_0.ImageView{
		mocks.NewDummyImageView(setup.vkDevice),
		mocks.NewDummyImageView(setup.vkDevice),
		mocks.NewDummyImageView(setup.vkDevice),
	}

	driver.EXPECT().CreateSwapchain(nil, gomock.Any()).DoAndReturn(
		func(_ any, info khr_swapchain.SwapchainCreateInfo) (khr_swapchain.Swapchain, common.VkResult, error) {
			require.Equal(t, old, info.OldSwapchain)
			require.Equal(t, extent, info.ImageExtent)
			require.Equal(t, 3, info.MinImageCount)
			require.Equal(t, core1_0.SharingModeExclusive, info.ImageSharingMode)
			require.True(t, info.Clipped)
			return swapchain, core1_0.VKSuccess, nil
		})
	driver.EXPECT().GetSwapchainImages(swapchain).Return(images, core1_0.VKSuccess, nil)
	for i := range images {
		setup.driver.EXPECT().CreateImageView(nil, core1_0.ImageViewCreateInfo{
			Image:            images[i],
			ViewType:         core1_0.ImageViewType2D,
			Format:           core1_0.FormatB8G8R8A8SRGB,
			SubresourceRange: gpu.WholeRange(core1_0.ImageAspectColor),
		}).Return(views[i], core1_0.VKSuccess, nil)
	}

	return swapchain, views
}

func TestSwapchainCreatesViewsForEveryImage(t *testing.T) {
	ctrl := gomock.NewController(t)
	setup := newDeviceSetup(t, ctrl)
	driver := mock_vulkan.NewMockSwapchainDriver(ctrl)
	extent := core1_0.Extent2D{Width: 800, Height: 600}

	vkSwapchain, views := expectSwapchainImages(t, setup, driver, khr_swapchain.Swapchain{}, extent)

	swapchain, err := NewSwapchain(discard, setup.device, driver, testSwapchainOptions, extent)
	require.NoError(t, err)
	require.Len(t, swapchain.Images(), 3)
	require.Len(t, swapchain.Views(), 3)
	require.Equal(t, gpu.ImageViewHandle(views[1].Handle()), swapchain.Views()[1])
	require.Equal(t, extent, swapchain.Extent())
	require.Equal(t, core1_0.FormatB8G8R8A8SRGB, swapchain.Format())

	// Swapchain images are tracked but not owned
	require.Equal(t, 3, setup.device.LiveObjects())

	for _, view := range views {
		setup.driver.EXPECT().DestroyImageView(view, nil)
	}
	driver.EXPECT().DestroySwapchain(vkSwapchain, nil)

	require.NoError(t, swapchain.Destroy())
	require.Equal(t, 0, setup.device.LiveObjects())
}

func TestSwapchainAcquireSubmitPresent(t *testing.T) {
	ctrl := gomock.NewController(t)
	setup := newDeviceSetup(t, ctrl)
	driver := mock_vulkan.NewMockSwapchainDriver(ctrl)
	extent := core1_0.Extent2D{Width: 800, Height: 600}
	objects := expectFrameSync(setup)

	vkSwapchain, _ := expectSwapchainImages(t, setup, driver, khr_swapchain.Swapchain{}, extent)
	options := testSwapchainOptions
	options.PresentQueue = setup.queue

	swapchain, err := NewSwapchain(discard, setup.device, driver, options, extent)
	require.NoError(t, err)

	sync, err := setup.device.CreateFrameSync()
	require.NoError(t, err)

	driver.EXPECT().AcquireNextImage(vkSwapchain, common.NoTimeout, &objects.imageAvailable, gomock.Nil()).Return(1, core1_0.VKSuccess, nil)

	index, err := swapchain.Acquire(sync)
	require.NoError(t, err)
	require.Equal(t, 1, index)

	require.Error(t, swapchain.Present(sync, index))

	expectBegin(setup, objects)
	_, err = sync.Begin()
	require.NoError(t, err)

	setup.driver.EXPECT().EndCommandBuffer(objects.commandBuffer).Return(core1_0.VKSuccess, nil)
	setup.driver.EXPECT().ResetFences(objects.fence).Return(core1_0.VKSuccess, nil)
	setup.driver.EXPECT().QueueSubmit(setup.queue, gomock.Any(), core1_0.SubmitInfo{
		CommandBuffers:   []core1_0.CommandBuffer{objects.commandBuffer},
		WaitSemaphores:   []core1_0.Semaphore{objects.imageAvailable},
		WaitDstStageMask: []core1_0.PipelineStageFlags{core1_0.PipelineStageColorAttachmentOutput},
		SignalSemaphores: []core1_0.Semaphore{objects.renderFinished},
	}).Return(core1_0.VKSuccess, nil)
	require.NoError(t, sync.Submit())

	driver.EXPECT().QueuePresent(setup.queue, khr_swapchain.PresentInfo{
		WaitSemaphores: []core1_0.Semaphore{objects.renderFinished},
		Swapchains:     []khr_swapchain.Swapchain{vkSwapchain},
		ImageIndices:   []int{1},
	}).Return(core1_0.VKSuccess, nil)
	require.NoError(t, swapchain.Present(sync, index))

	// A second present of the same submission has nothing to wait on
	require.Error(t, swapchain.Present(sync, index))
}

func TestSwapchainOutOfDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	setup := newDeviceSetup(t, ctrl)
	driver := mock_vulkan.NewMockSwapchainDriver(ctrl)
	extent := core1_0.Extent2D{Width: 800, Height: 600}
	objects := expectFrameSync(setup)

	vkSwapchain, _ := expectSwapchainImages(t, setup, driver, khr_swapchain.Swapchain{}, extent)
	swapchain, err := NewSwapchain(discard, setup.device, driver, testSwapchainOptions, extent)
	require.NoError(t, err)

	sync, err := setup.device.CreateFrameSync()
	require.NoError(t, err)

	driver.EXPECT().AcquireNextImage(vkSwapchain, common.NoTimeout, &objects.imageAvailable, gomock.Nil()).
		Return(0, khr_swapchain.VKErrorOutOfDate, khr_swapchain.VKErrorOutOfDate.ToError())

	index, err := swapchain.Acquire(sync)
	require.True(t, errors.Is(err, gpu.ErrOutOfDate))
	require.Equal(t, -1, index)
	require.False(t, sync.(*FrameSync).acquired)
}

func TestSwapchainSuboptimalAcquireKeepsImage(t *testing.T) {
	ctrl := gomock.NewController(t)
	setup := newDeviceSetup(t, ctrl)
	driver := mock_vulkan.NewMockSwapchainDriver(ctrl)
	extent := core1_0.Extent2D{Width: 800, Height: 600}
	objects := expectFrameSync(setup)

	vkSwapchain, _ := expectSwapchainImages(t, setup, driver, khr_swapchain.Swapchain{}, extent)
	swapchain, err := NewSwapchain(discard, setup.device, driver, testSwapchainOptions, extent)
	require.NoError(t, err)

	sync, err := setup.device.CreateFrameSync()
	require.NoError(t, err)

	driver.EXPECT().AcquireNextImage(vkSwapchain, common.NoTimeout, &objects.imageAvailable, gomock.Nil()).
		Return(2, khr_swapchain.VKSuboptimal, nil)

	index, err := swapchain.Acquire(sync)
	require.True(t, errors.Is(err, gpu.ErrSuboptimal))
	require.Equal(t, 2, index)
	require.True(t, sync.(*FrameSync).acquired)
}

func TestSwapchainDrainsAbandonedAcquisition(t *testing.T) {
	ctrl := gomock.NewController(t)
	setup := newDeviceSetup(t, ctrl)
	driver := mock_vulkan.NewMockSwapchainDriver(ctrl)
	extent := core1_0.Extent2D{Width: 800, Height: 600}
	objects := expectFrameSync(setup)

	vkSwapchain, _ := expectSwapchainImages(t, setup, driver, khr_swapchain.Swapchain{}, extent)
	swapchain, err := NewSwapchain(discard, setup.device, driver, testSwapchainOptions, extent)
	require.NoError(t, err)

	sync, err := setup.device.CreateFrameSync()
	require.NoError(t, err)

	gomock.InOrder(
		driver.EXPECT().AcquireNextImage(vkSwapchain, common.NoTimeout, &objects.imageAvailable, gomock.Nil()).Return(0, core1_0.VKSuccess, nil),
		setup.driver.EXPECT().QueueSubmit(setup.queue, gomock.Nil(), core1_0.SubmitInfo{
			WaitSemaphores:   []core1_0.Semaphore{objects.imageAvailable},
			WaitDstStageMask: []core1_0.PipelineStageFlags{core1_0.PipelineStageBottomOfPipe},
		}).Return(core1_0.VKSuccess, nil),
		setup.driver.EXPECT().QueueWaitIdle(setup.queue).Return(core1_0.VKSuccess, nil),
		driver.EXPECT().AcquireNextImage(vkSwapchain, common.NoTimeout, &objects.imageAvailable, gomock.Nil()).Return(1, core1_0.VKSuccess, nil),
	)

	_, err = swapchain.Acquire(sync)
	require.NoError(t, err)

	index, err := swapchain.Acquire(sync)
	require.NoError(t, err)
	require.Equal(t, 1, index)
}

func TestSwapchainRecreateRetiresOldSwapchain(t *testing.T) {
	ctrl := gomock.NewController(t)
	setup := newDeviceSetup(t, ctrl)
	driver := mock_vulkan.NewMockSwapchainDriver(ctrl)
	extent := core1_0.Extent2D{Width: 800, Height: 600}

	first, firstViews := expectSwapchainImages(t, setup, driver, khr_swapchain.Swapchain{}, extent)
	swapchain, err := NewSwapchain(discard, setup.device, driver, testSwapchainOptions, extent)
	require.NoError(t, err)
	oldImages := swapchain.Images()

	resized := core1_0.Extent2D{Width: 1024, Height: 768}
	for _, view := range firstViews {
		setup.driver.EXPECT().DestroyImageView(view, nil)
	}
	driver.EXPECT().DestroySwapchain(first, nil)
	second, secondViews := expectSwapchainImages(t, setup, driver, first, resized)

	require.NoError(t, swapchain.Recreate(resized))
	require.Equal(t, resized, swapchain.Extent())
	require.Equal(t, gpu.ImageViewHandle(secondViews[0].Handle()), swapchain.Views()[0])

	for _, image := range oldImages {
		_, err = setup.device.lookupImage(image)
		require.True(t, errors.Is(err, ErrUnknownHandle))
	}

	for _, view := range secondViews {
		setup.driver.EXPECT().DestroyImageView(view, nil)
	}
	driver.EXPECT().DestroySwapchain(second, nil)
	require.NoError(t, swapchain.Destroy())
}

func TestSwapchainRejectsForeignFrameSync(t *testing.T) {
	ctrl := gomock.NewController(t)
	setup := newDeviceSetup(t, ctrl)
	driver := mock_vulkan.NewMockSwapchainDriver(ctrl)
	extent := core1_0.Extent2D{Width: 800, Height: 600}

	expectSwapchainImages(t, setup, driver, khr_swapchain.Swapchain{}, extent)
	swapchain, err := NewSwapchain(discard, setup.device, driver, testSwapchainOptions, extent)
	require.NoError(t, err)

	_, err = swapchain.Acquire(nil)
	require.Error(t, err)
}
