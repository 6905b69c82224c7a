package headless

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/framegraph/gpu"
)

// CommandKind identifies the command a Command records
type CommandKind int32

const (
	CommandBarrier CommandKind = iota
	CommandBindPipeline
	CommandDraw
	CommandDrawIndirect
	CommandDispatch
)

var commandKindMapping = map[CommandKind]string{
	CommandBarrier:      "CommandBarrier",
	CommandBindPipeline: "CommandBindPipeline",
	CommandDraw:         "CommandDraw",
	CommandDrawIndirect: "CommandDrawIndirect",
	CommandDispatch:     "CommandDispatch",
}

func (k CommandKind) String() string {
	str, ok := commandKindMapping[k]
	if !ok {
		return "unknown"
	}
	return str
}

// Command is one recorded command
type Command struct {
	Kind           CommandKind
	ImageBarriers  []gpu.ImageBarrier
	BufferBarriers []gpu.BufferBarrier
	Pipeline       gpu.PipelineHandle
	Buffer         gpu.BufferHandle
	Counts         [3]int
}

// FrameSync is a simulated fence, semaphore and command buffer. Its submitted work completes
// when Wait is called.
type FrameSync struct {
	device *Device
	slot   int

	pending   bool
	destroyed bool
	recorder  *Recorder

	// presentable is set by Presenter.Acquire and consumed by Submit, standing in for the
	// image-available semaphore
	presentable bool
}

var _ gpu.FrameSync = &FrameSync{}

// Slot is the creation index of the FrameSync on its device
func (s *FrameSync) Slot() int {
	return s.slot
}

// Pending reports whether submitted work has not yet been waited on
func (s *FrameSync) Pending() bool {
	s.device.mutex.Lock()
	defer s.device.mutex.Unlock()

	return s.pending
}

func (s *FrameSync) Wait() error {
	s.device.mutex.Lock()
	defer s.device.mutex.Unlock()

	if s.destroyed {
		return errors.Newf("frame sync %d was destroyed", s.slot)
	}

	s.device.counters.Waits++
	if s.pending {
		s.pending = false
		s.device.inFlight--
	}
	return nil
}

func (s *FrameSync) Begin() (gpu.Recorder, error) {
	s.device.mutex.Lock()
	defer s.device.mutex.Unlock()

	if s.pending {
		return nil, errors.Newf("frame sync %d began recording while its previous work is still in flight", s.slot)
	}

	s.recorder = &Recorder{}
	return s.recorder, nil
}

func (s *FrameSync) Submit() error {
	s.device.mutex.Lock()
	defer s.device.mutex.Unlock()

	if s.device.FailSubmit != nil {
		err := s.device.FailSubmit
		s.device.FailSubmit = nil
		s.recorder = nil
		return err
	}

	if s.recorder == nil {
		return errors.Newf("frame sync %d submitted without recording", s.slot)
	}
	if s.pending {
		return errors.Newf("frame sync %d submitted while its previous work is still in flight", s.slot)
	}

	s.device.submissions = append(s.device.submissions, Submission{
		Slot:        s.slot,
		Commands:    s.recorder.Commands,
		Presentable: s.presentable,
	})
	s.recorder = nil
	s.presentable = false
	s.pending = true

	s.device.counters.Submissions++
	s.device.inFlight++
	if s.device.inFlight > s.device.maxInFlight {
		s.device.maxInFlight = s.device.inFlight
	}
	return nil
}

func (s *FrameSync) Destroy() error {
	s.device.mutex.Lock()
	defer s.device.mutex.Unlock()

	if s.destroyed {
		return errors.Newf("frame sync %d was already destroyed", s.slot)
	}
	if s.pending {
		return errors.Newf("frame sync %d destroyed while its work is still in flight", s.slot)
	}

	s.destroyed = true
	s.device.counters.FrameSyncsDestroyed++
	return nil
}

// Recorder appends every command to Commands
type Recorder struct {
	Commands []Command
}

var _ gpu.Recorder = &Recorder{}

func (r *Recorder) PipelineBarrier(images []gpu.ImageBarrier, buffers []gpu.BufferBarrier) error {
	r.Commands = append(r.Commands, Command{
		Kind:           CommandBarrier,
		ImageBarriers:  append([]gpu.ImageBarrier(nil), images...),
		BufferBarriers: append([]gpu.BufferBarrier(nil), buffers...),
	})
	return nil
}

func (r *Recorder) BindPipeline(pipeline gpu.PipelineHandle) error {
	r.Commands = append(r.Commands, Command{
		Kind:     CommandBindPipeline,
		Pipeline: pipeline,
	})
	return nil
}

func (r *Recorder) Draw(vertexCount, instanceCount int) error {
	r.Commands = append(r.Commands, Command{
		Kind:   CommandDraw,
		Counts: [3]int{vertexCount, instanceCount, 0},
	})
	return nil
}

// DrawIndirect records the buffer and its offset, draw count and stride in Counts
func (r *Recorder) DrawIndirect(buffer gpu.BufferHandle, offset, drawCount, stride int) error {
	r.Commands = append(r.Commands, Command{
		Kind:   CommandDrawIndirect,
		Buffer: buffer,
		Counts: [3]int{offset, drawCount, stride},
	})
	return nil
}

func (r *Recorder) Dispatch(x, y, z int) error {
	r.Commands = append(r.Commands, Command{
		Kind:   CommandDispatch,
		Counts: [3]int{x, y, z},
	})
	return nil
}
