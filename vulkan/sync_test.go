package vulkan

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/core/v3/mocks"
	"github.com/vkngwrapper/framegraph/gpu"
	"go.uber.org/mock/gomock"
)

type syncObjects struct {
	fence          core1_0.Fence
	imageAvailable core1_0.Semaphore
	renderFinished core1_0.Semaphore
	pool           core1_0.CommandPool
	commandBuffer  core1_0.CommandBuffer
}

func expectFrameSync(setup deviceSetup) syncObjects {
	objects := syncObjects{
		fence:          mocks.NewDummyFence(setup.vkDevice),
		imageAvailable: mocks.NewDummySemaphore(setup.vkDevice),
		renderFinished: mocks.NewDummySemaphore(setup.vkDevice),
		pool:           mocks.NewDummyCommandPool(setup.vkDevice),
	}
	objects.commandBuffer = mocks.NewDummyCommandBuffer(objects.pool, setup.vkDevice)

	setup.driver.EXPECT().CreateFence(nil, core1_0.FenceCreateInfo{
		Flags: core1_0.FenceCreateSignaled,
	}).Return(objects.fence, core1_0.VKSuccess, nil)
	gomock.InOrder(
		setup.driver.EXPECT().CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{}).Return(objects.imageAvailable, core1_0.VKSuccess, nil),
		setup.driver.EXPECT().CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{}).Return(objects.renderFinished, core1_0.VKSuccess, nil),
	)
	setup.driver.EXPECT().CreateCommandPool(nil, core1_0.CommandPoolCreateInfo{
		QueueFamilyIndex: 2,
		Flags:            core1_0.CommandPoolCreateResetBuffer,
	}).Return(objects.pool, core1_0.VKSuccess, nil)
	setup.driver.EXPECT().AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        objects.pool,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}).Return([]core1_0.CommandBuffer{objects.commandBuffer}, core1_0.VKSuccess, nil)

	return objects
}

func expectDestroyFrameSync(setup deviceSetup, objects syncObjects) {
	setup.driver.EXPECT().FreeCommandBuffers(objects.commandBuffer)
	setup.driver.EXPECT().DestroyCommandPool(objects.pool, nil)
	setup.driver.EXPECT().DestroySemaphore(objects.renderFinished, nil)
	setup.driver.EXPECT().DestroySemaphore(objects.imageAvailable, nil)
	setup.driver.EXPECT().DestroyFence(objects.fence, nil)
}

func expectBegin(setup deviceSetup, objects syncObjects) {
	setup.driver.EXPECT().ResetCommandBuffer(objects.commandBuffer, core1_0.CommandBufferResetFlags(0)).Return(core1_0.VKSuccess, nil)
	setup.driver.EXPECT().BeginCommandBuffer(objects.commandBuffer, core1_0.CommandBufferBeginInfo{
		Flags: core1_0.CommandBufferUsageOneTimeSubmit,
	}).Return(core1_0.VKSuccess, nil)
}

func TestFrameSyncCreationFailureCleansUp(t *testing.T) {
	ctrl := gomock.NewController(t)
	setup := newDeviceSetup(t, ctrl)

	fence := mocks.NewDummyFence(setup.vkDevice)
	imageAvailable := mocks.NewDummySemaphore(setup.vkDevice)
	renderFinished := mocks.NewDummySemaphore(setup.vkDevice)

	setup.driver.EXPECT().CreateFence(nil, gomock.Any()).Return(fence, core1_0.VKSuccess, nil)
	gomock.InOrder(
		setup.driver.EXPECT().CreateSemaphore(nil, gomock.Any()).Return(imageAvailable, core1_0.VKSuccess, nil),
		setup.driver.EXPECT().CreateSemaphore(nil, gomock.Any()).Return(renderFinished, core1_0.VKSuccess, nil),
	)
	setup.driver.EXPECT().CreateCommandPool(nil, gomock.Any()).Return(core1_0.CommandPool{}, core1_0.VKErrorOutOfHostMemory, core1_0.VKErrorOutOfHostMemory.ToError())

	setup.driver.EXPECT().DestroySemaphore(renderFinished, nil)
	setup.driver.EXPECT().DestroySemaphore(imageAvailable, nil)
	setup.driver.EXPECT().DestroyFence(fence, nil)

	_, err := setup.device.CreateFrameSync()
	require.Error(t, err)
}

func TestFrameSyncRecordsAndSubmits(t *testing.T) {
	ctrl := gomock.NewController(t)
	setup := newDeviceSetup(t, ctrl)
	objects := expectFrameSync(setup)

	vkImage := mocks.NewDummyImage(setup.vkDevice)
	images := setup.device.adoptImages([]core1_0.Image{vkImage})
	vkPipeline := mocks.NewDummyPipeline(setup.vkDevice)
	pipelineHandle := setup.device.RegisterPipeline(vkPipeline, core1_0.PipelineBindPointGraphics)

	sync, err := setup.device.CreateFrameSync()
	require.NoError(t, err)

	setup.driver.EXPECT().WaitForFences(true, common.NoTimeout, objects.fence).Return(core1_0.VKSuccess, nil)
	require.NoError(t, sync.Wait())

	expectBegin(setup, objects)
	recorder, err := sync.Begin()
	require.NoError(t, err)

	setup.driver.EXPECT().CmdPipelineBarrier(
		objects.commandBuffer,
		core1_0.PipelineStageTopOfPipe,
		core1_0.PipelineStageColorAttachmentOutput,
		core1_0.DependencyFlags(0),
		gomock.Nil(),
		gomock.Len(0),
		gomock.Any(),
	).DoAndReturn(func(_ core1_0.CommandBuffer, _, _ core1_0.PipelineStageFlags, _ core1_0.DependencyFlags, _ []core1_0.MemoryBarrier, _ []core1_0.BufferMemoryBarrier, imageBarriers []core1_0.ImageMemoryBarrier) error {
		require.Len(t, imageBarriers, 1)
		require.Equal(t, vkImage, imageBarriers[0].Image)
		require.Equal(t, core1_0.ImageLayoutUndefined, imageBarriers[0].OldLayout)
		require.Equal(t, core1_0.ImageLayoutColorAttachmentOptimal, imageBarriers[0].NewLayout)
		require.Equal(t, core1_0.AccessColorAttachmentWrite, imageBarriers[0].DstAccessMask)
		require.Equal(t, -1, imageBarriers[0].SrcQueueFamilyIndex)
		return nil
	})
	setup.driver.EXPECT().CmdBindPipeline(objects.commandBuffer, core1_0.PipelineBindPointGraphics, vkPipeline)
	setup.driver.EXPECT().CmdDraw(objects.commandBuffer, 3, 1, uint32(0), uint32(0))

	require.NoError(t, recorder.PipelineBarrier([]gpu.ImageBarrier{
		{
			Image: images[0],
			Old:   gpu.ResourceState{},
			New: gpu.ResourceState{
				Layout: core1_0.ImageLayoutColorAttachmentOptimal,
				Stages: core1_0.PipelineStageColorAttachmentOutput,
				Access: core1_0.AccessColorAttachmentWrite,
			},
			Range: gpu.WholeRange(core1_0.ImageAspectColor),
		},
	}, nil))
	require.NoError(t, recorder.BindPipeline(0))
	require.NoError(t, recorder.BindPipeline(pipelineHandle))
	require.NoError(t, recorder.Draw(3, 1))
	require.Equal(t, 4, recorder.(*Recorder).Commands())

	setup.driver.EXPECT().EndCommandBuffer(objects.commandBuffer).Return(core1_0.VKSuccess, nil)
	setup.driver.EXPECT().ResetFences(objects.fence).Return(core1_0.VKSuccess, nil)
	setup.driver.EXPECT().QueueSubmit(setup.queue, gomock.Any(), core1_0.SubmitInfo{
		CommandBuffers: []core1_0.CommandBuffer{objects.commandBuffer},
	}).Return(core1_0.VKSuccess, nil)

	require.NoError(t, sync.Submit())
	require.False(t, sync.(*FrameSync).presentable)

	require.Error(t, recorder.Draw(3, 1))
	require.Error(t, sync.Submit())

	expectDestroyFrameSync(setup, objects)
	require.NoError(t, sync.Destroy())
}

func TestFailedSubmitLeavesWaitUnblocked(t *testing.T) {
	ctrl := gomock.NewController(t)
	setup := newDeviceSetup(t, ctrl)
	objects := expectFrameSync(setup)

	sync, err := setup.device.CreateFrameSync()
	require.NoError(t, err)

	expectBegin(setup, objects)
	_, err = sync.Begin()
	require.NoError(t, err)

	setup.driver.EXPECT().EndCommandBuffer(objects.commandBuffer).Return(core1_0.VKSuccess, nil)
	setup.driver.EXPECT().ResetFences(objects.fence).Return(core1_0.VKSuccess, nil)
	setup.driver.EXPECT().QueueSubmit(setup.queue, gomock.Any(), gomock.Any()).Return(core1_0.VKErrorDeviceLost, core1_0.VKErrorDeviceLost.ToError())

	err = sync.Submit()
	require.ErrorContains(t, err, "failed to submit frame")

	// Nothing will signal the reset fence, so there is nothing to wait for
	require.NoError(t, sync.Wait())

	expectBegin(setup, objects)
	_, err = sync.Begin()
	require.NoError(t, err)

	setup.driver.EXPECT().EndCommandBuffer(objects.commandBuffer).Return(core1_0.VKSuccess, nil)
	setup.driver.EXPECT().ResetFences(objects.fence).Return(core1_0.VKSuccess, nil)
	setup.driver.EXPECT().QueueSubmit(setup.queue, gomock.Any(), gomock.Any()).Return(core1_0.VKSuccess, nil)
	require.NoError(t, sync.Submit())

	setup.driver.EXPECT().WaitForFences(true, common.NoTimeout, objects.fence).Return(core1_0.VKSuccess, nil)
	require.NoError(t, sync.Wait())

	expectDestroyFrameSync(setup, objects)
	require.NoError(t, sync.Destroy())
}

func TestStaleRecorderIsRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	setup := newDeviceSetup(t, ctrl)
	objects := expectFrameSync(setup)

	sync, err := setup.device.CreateFrameSync()
	require.NoError(t, err)

	expectBegin(setup, objects)
	stale, err := sync.Begin()
	require.NoError(t, err)

	expectBegin(setup, objects)
	current, err := sync.Begin()
	require.NoError(t, err)

	require.Error(t, stale.Dispatch(1, 1, 1))

	setup.driver.EXPECT().CmdDispatch(objects.commandBuffer, 8, 8, 1)
	require.NoError(t, current.Dispatch(8, 8, 1))
}

func TestRecorderRejectsUnknownObjects(t *testing.T) {
	ctrl := gomock.NewController(t)
	setup := newDeviceSetup(t, ctrl)
	objects := expectFrameSync(setup)

	sync, err := setup.device.CreateFrameSync()
	require.NoError(t, err)

	expectBegin(setup, objects)
	recorder, err := sync.Begin()
	require.NoError(t, err)

	err = recorder.BindPipeline(gpu.PipelineHandle(99))
	require.True(t, errors.Is(err, ErrUnknownHandle))

	err = recorder.DrawIndirect(gpu.BufferHandle(99), 0, 1, 16)
	require.True(t, errors.Is(err, ErrUnknownHandle))

	err = recorder.PipelineBarrier(nil, []gpu.BufferBarrier{{Buffer: gpu.BufferHandle(99)}})
	require.True(t, errors.Is(err, ErrUnknownHandle))
}

func TestBufferBarrierCoversWholeBuffer(t *testing.T) {
	ctrl := gomock.NewController(t)
	setup := newDeviceSetup(t, ctrl)
	objects := expectFrameSync(setup)

	vkBuffer := mocks.NewDummyBuffer(setup.vkDevice)
	setup.device.buffers.Put(gpu.BufferHandle(vkBuffer.Handle()), buffer{buffer: vkBuffer})

	sync, err := setup.device.CreateFrameSync()
	require.NoError(t, err)

	expectBegin(setup, objects)
	recorder, err := sync.Begin()
	require.NoError(t, err)

	setup.driver.EXPECT().CmdPipelineBarrier(
		objects.commandBuffer,
		core1_0.PipelineStageComputeShader,
		core1_0.PipelineStageDrawIndirect,
		core1_0.DependencyFlags(0),
		gomock.Nil(),
		gomock.Any(),
		gomock.Len(0),
	).DoAndReturn(func(_ core1_0.CommandBuffer, _, _ core1_0.PipelineStageFlags, _ core1_0.DependencyFlags, _ []core1_0.MemoryBarrier, bufferBarriers []core1_0.BufferMemoryBarrier, _ []core1_0.ImageMemoryBarrier) error {
		require.Equal(t, []core1_0.BufferMemoryBarrier{
			{
				SrcAccessMask:       core1_0.AccessShaderWrite,
				DstAccessMask:       core1_0.AccessIndirectCommandRead,
				SrcQueueFamilyIndex: -1,
				DstQueueFamilyIndex: -1,
				Buffer:              vkBuffer,
				Size:                common.WholeSize,
			},
		}, bufferBarriers)
		return nil
	})
	setup.driver.EXPECT().CmdDrawIndirect(objects.commandBuffer, vkBuffer, 0, 4, 16)

	require.NoError(t, recorder.PipelineBarrier(nil, []gpu.BufferBarrier{
		{
			Buffer: gpu.BufferHandle(vkBuffer.Handle()),
			Old: gpu.ResourceState{
				Stages: core1_0.PipelineStageComputeShader,
				Access: core1_0.AccessShaderWrite,
			},
			New: gpu.ResourceState{
				Stages: core1_0.PipelineStageDrawIndirect,
				Access: core1_0.AccessIndirectCommandRead,
			},
		},
	}))
	require.NoError(t, recorder.DrawIndirect(gpu.BufferHandle(vkBuffer.Handle()), 0, 4, 16))
}
