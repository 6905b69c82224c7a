package vulkan

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/framegraph/gpu"
)

// FrameSync owns the fence, semaphores and command buffer of one frame in flight
type FrameSync struct {
	device *Device

	fence          core1_0.Fence
	imageAvailable core1_0.Semaphore
	renderFinished core1_0.Semaphore
	pool           core1_0.CommandPool
	commandBuffer  core1_0.CommandBuffer

	// acquired is set when a swapchain acquisition will signal imageAvailable, and cleared once a
	// submission waits on it
	acquired bool
	// presentable is set when the last submission signaled renderFinished
	presentable bool
	// unsubmitted is set while the fence is reset but no successful submission will signal it
	unsubmitted bool
	recording   bool
	generation  int
}

var _ gpu.FrameSync = &FrameSync{}

func newFrameSync(device *Device) (*FrameSync, error) {
	device.logger.Debug("FrameSync::newFrameSync")

	sync := &FrameSync{device: device}
	driver := device.driver

	var err error
	sync.fence, _, err = driver.CreateFence(nil, core1_0.FenceCreateInfo{
		Flags: core1_0.FenceCreateSignaled,
	})
	if err != nil {
		return nil, errors.CombineErrors(errors.Wrap(err, "failed to create fence"), sync.Destroy())
	}

	sync.imageAvailable, _, err = driver.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
	if err != nil {
		return nil, errors.CombineErrors(errors.Wrap(err, "failed to create semaphore"), sync.Destroy())
	}

	sync.renderFinished, _, err = driver.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
	if err != nil {
		return nil, errors.CombineErrors(errors.Wrap(err, "failed to create semaphore"), sync.Destroy())
	}

	sync.pool, _, err = driver.CreateCommandPool(nil, core1_0.CommandPoolCreateInfo{
		QueueFamilyIndex: device.queueFamily,
		Flags:            core1_0.CommandPoolCreateResetBuffer,
	})
	if err != nil {
		return nil, errors.CombineErrors(errors.Wrap(err, "failed to create command pool"), sync.Destroy())
	}

	buffers, _, err := driver.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        sync.pool,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	})
	if err != nil {
		return nil, errors.CombineErrors(errors.Wrap(err, "failed to allocate command buffer"), sync.Destroy())
	}
	sync.commandBuffer = buffers[0]

	return sync, nil
}

func (s *FrameSync) Wait() error {
	if s.unsubmitted {
		return nil
	}

	_, err := s.device.driver.WaitForFences(true, common.NoTimeout, s.fence)
	if err != nil {
		return errors.Wrap(err, "failed to wait for frame fence")
	}
	return nil
}

func (s *FrameSync) Begin() (gpu.Recorder, error) {
	driver := s.device.driver

	_, err := driver.ResetCommandBuffer(s.commandBuffer, 0)
	if err != nil {
		return nil, errors.Wrap(err, "failed to reset command buffer")
	}

	_, err = driver.BeginCommandBuffer(s.commandBuffer, core1_0.CommandBufferBeginInfo{
		Flags: core1_0.CommandBufferUsageOneTimeSubmit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin command buffer")
	}

	s.recording = true
	s.generation++
	return &Recorder{
		sync:       s,
		generation: s.generation,
	}, nil
}

func (s *FrameSync) Submit() error {
	if !s.recording {
		return errors.New("frame sync is not recording")
	}
	s.recording = false

	driver := s.device.driver
	_, err := driver.EndCommandBuffer(s.commandBuffer)
	if err != nil {
		return errors.Wrap(err, "failed to end command buffer")
	}

	_, err = driver.ResetFences(s.fence)
	if err != nil {
		return errors.Wrap(err, "failed to reset frame fence")
	}
	s.unsubmitted = true

	submit := core1_0.SubmitInfo{
		CommandBuffers: []core1_0.CommandBuffer{s.commandBuffer},
	}
	if s.acquired {
		submit.WaitSemaphores = []core1_0.Semaphore{s.imageAvailable}
		submit.WaitDstStageMask = []core1_0.PipelineStageFlags{core1_0.PipelineStageColorAttachmentOutput}
		submit.SignalSemaphores = []core1_0.Semaphore{s.renderFinished}
	}

	_, err = driver.QueueSubmit(s.device.queue, &s.fence, submit)
	if err != nil {
		return errors.Wrap(err, "failed to submit frame")
	}

	s.unsubmitted = false
	s.presentable = s.acquired
	s.acquired = false
	return nil
}

// drain consumes an acquisition that no submission waited on, so imageAvailable can be signaled
// again
func (s *FrameSync) drain() error {
	if !s.acquired {
		return nil
	}
	s.device.logger.Debug("FrameSync::drain")

	driver := s.device.driver
	_, err := driver.QueueSubmit(s.device.queue, nil, core1_0.SubmitInfo{
		WaitSemaphores:   []core1_0.Semaphore{s.imageAvailable},
		WaitDstStageMask: []core1_0.PipelineStageFlags{core1_0.PipelineStageBottomOfPipe},
	})
	if err != nil {
		return errors.Wrap(err, "failed to drain acquisition semaphore")
	}

	_, err = driver.QueueWaitIdle(s.device.queue)
	if err != nil {
		return errors.Wrap(err, "failed to drain acquisition semaphore")
	}

	s.acquired = false
	return nil
}

// Destroy destroys every object the FrameSync created. It is safe to call on a partially
// created FrameSync.
func (s *FrameSync) Destroy() error {
	driver := s.device.driver

	if s.commandBuffer.Initialized() {
		driver.FreeCommandBuffers(s.commandBuffer)
		s.commandBuffer = core1_0.CommandBuffer{}
	}
	if s.pool.Initialized() {
		driver.DestroyCommandPool(s.pool, nil)
		s.pool = core1_0.CommandPool{}
	}
	if s.renderFinished.Initialized() {
		driver.DestroySemaphore(s.renderFinished, nil)
		s.renderFinished = core1_0.Semaphore{}
	}
	if s.imageAvailable.Initialized() {
		driver.DestroySemaphore(s.imageAvailable, nil)
		s.imageAvailable = core1_0.Semaphore{}
	}
	if s.fence.Initialized() {
		driver.DestroyFence(s.fence, nil)
		s.fence = core1_0.Fence{}
	}
	return nil
}

// Recorder records into the command buffer of a FrameSync. It is invalidated by the next call
// to Submit or Begin.
type Recorder struct {
	sync       *FrameSync
	generation int
	commands   int
}

var _ gpu.Recorder = &Recorder{}

func (r *Recorder) commandBuffer() (core1_0.CommandBuffer, error) {
	if !r.sync.recording || r.sync.generation != r.generation {
		return core1_0.CommandBuffer{}, errors.New("recorder is no longer recording")
	}
	r.commands++
	return r.sync.commandBuffer, nil
}

// barrierStages merges the stages of every old and new state. Empty masks fall back on the top
// and bottom of the pipe respectively.
func barrierStages(images []gpu.ImageBarrier, buffers []gpu.BufferBarrier) (src, dst core1_0.PipelineStageFlags) {
	for _, barrier := range images {
		src |= barrier.Old.Stages
		dst |= barrier.New.Stages
	}
	for _, barrier := range buffers {
		src |= barrier.Old.Stages
		dst |= barrier.New.Stages
	}

	if src == 0 {
		src = core1_0.PipelineStageTopOfPipe
	}
	if dst == 0 {
		dst = core1_0.PipelineStageBottomOfPipe
	}
	return src, dst
}

func (r *Recorder) PipelineBarrier(images []gpu.ImageBarrier, buffers []gpu.BufferBarrier) error {
	commandBuffer, err := r.commandBuffer()
	if err != nil {
		return err
	}
	device := r.sync.device

	imageBarriers := make([]core1_0.ImageMemoryBarrier, 0, len(images))
	for _, barrier := range images {
		vkImage, err := device.lookupImage(barrier.Image)
		if err != nil {
			return err
		}

		imageBarriers = append(imageBarriers, core1_0.ImageMemoryBarrier{
			SrcAccessMask:       barrier.Old.Access,
			DstAccessMask:       barrier.New.Access,
			OldLayout:           barrier.Old.Layout,
			NewLayout:           barrier.New.Layout,
			SrcQueueFamilyIndex: -1,
			DstQueueFamilyIndex: -1,
			Image:               vkImage,
			SubresourceRange:    barrier.Range,
		})
	}

	bufferBarriers := make([]core1_0.BufferMemoryBarrier, 0, len(buffers))
	for _, barrier := range buffers {
		vkBuffer, err := device.lookupBuffer(barrier.Buffer)
		if err != nil {
			return err
		}

		size := barrier.Size
		if size == 0 {
			size = common.WholeSize
		}

		bufferBarriers = append(bufferBarriers, core1_0.BufferMemoryBarrier{
			SrcAccessMask:       barrier.Old.Access,
			DstAccessMask:       barrier.New.Access,
			SrcQueueFamilyIndex: -1,
			DstQueueFamilyIndex: -1,
			Buffer:              vkBuffer,
			Offset:              barrier.Offset,
			Size:                size,
		})
	}

	src, dst := barrierStages(images, buffers)
	return device.driver.CmdPipelineBarrier(commandBuffer, src, dst, 0, nil, bufferBarriers, imageBarriers)
}

func (r *Recorder) BindPipeline(handle gpu.PipelineHandle) error {
	commandBuffer, err := r.commandBuffer()
	if err != nil {
		return err
	}
	if handle == 0 {
		return nil
	}

	device := r.sync.device
	pipeline, ok := device.pipelines.Get(handle)
	if !ok {
		return errors.Wrapf(ErrUnknownHandle, "pipeline %x", handle)
	}

	device.driver.CmdBindPipeline(commandBuffer, pipeline.bindPoint, pipeline.pipeline)
	return nil
}

func (r *Recorder) Draw(vertexCount, instanceCount int) error {
	commandBuffer, err := r.commandBuffer()
	if err != nil {
		return err
	}

	r.sync.device.driver.CmdDraw(commandBuffer, vertexCount, instanceCount, 0, 0)
	return nil
}

func (r *Recorder) DrawIndirect(handle gpu.BufferHandle, offset, drawCount, stride int) error {
	commandBuffer, err := r.commandBuffer()
	if err != nil {
		return err
	}

	vkBuffer, err := r.sync.device.lookupBuffer(handle)
	if err != nil {
		return err
	}

	r.sync.device.driver.CmdDrawIndirect(commandBuffer, vkBuffer, offset, drawCount, stride)
	return nil
}

func (r *Recorder) Dispatch(x, y, z int) error {
	commandBuffer, err := r.commandBuffer()
	if err != nil {
		return err
	}

	r.sync.device.driver.CmdDispatch(commandBuffer, x, y, z)
	return nil
}

// Commands is the number of commands recorded so far
func (r *Recorder) Commands() int {
	return r.commands
}
