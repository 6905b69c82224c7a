package vulkan

import (
	"time"

	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/core/v3/loader"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

//go:generate mockgen -source driver.go -destination mock_vulkan/mocks.go -package mock_vulkan

// SwapchainDriver is the part of khr_swapchain.ExtensionDriver a Swapchain uses
type SwapchainDriver interface {
	CreateSwapchain(allocation *loader.AllocationCallbacks, options khr_swapchain.SwapchainCreateInfo) (khr_swapchain.Swapchain, common.VkResult, error)
	DestroySwapchain(swapchain khr_swapchain.Swapchain, callbacks *loader.AllocationCallbacks)
	GetSwapchainImages(swapchain khr_swapchain.Swapchain) ([]core1_0.Image, common.VkResult, error)
	AcquireNextImage(swapchain khr_swapchain.Swapchain, timeout time.Duration, semaphore *core1_0.Semaphore, fence *core1_0.Fence) (int, common.VkResult, error)
	QueuePresent(queue core1_0.Queue, o khr_swapchain.PresentInfo) (common.VkResult, error)
}

var _ SwapchainDriver = khr_swapchain.ExtensionDriver(nil)
