package frame

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/framegraph/gpu"
)

// ErrInvalidSlotState is returned when a slot operation is called out of order
var ErrInvalidSlotState = errors.New("invalid frame slot state")

// SlotState is where a slot is in its Idle -> Acquired -> Recording -> Submitted cycle
type SlotState int32

const (
	SlotIdle SlotState = iota
	SlotAcquired
	SlotRecording
	SlotSubmitted
)

var slotStateMapping = map[SlotState]string{
	SlotIdle:      "SlotIdle",
	SlotAcquired:  "SlotAcquired",
	SlotRecording: "SlotRecording",
	SlotSubmitted: "SlotSubmitted",
}

func (s SlotState) String() string {
	str, ok := slotStateMapping[s]
	if !ok {
		return "unknown"
	}
	return str
}

// Slot is one frame-in-flight: its fence, its semaphore and its command recording target
type Slot struct {
	logger *slog.Logger
	index  int
	sync   gpu.FrameSync
	state  SlotState

	recorder gpu.Recorder
	frames   int
}

// Index is the position of the slot in its ring. PerFrame resources use it to select a replica.
func (s *Slot) Index() int {
	return s.index
}

func (s *Slot) State() SlotState {
	return s.state
}

// Sync is the synchronization object behind the slot. Presenters wait on and signal through it.
func (s *Slot) Sync() gpu.FrameSync {
	return s.sync
}

// Recorder is the open recording. It is nil unless the slot is Recording.
func (s *Slot) Recorder() gpu.Recorder {
	return s.recorder
}

// Frames is the number of frames submitted through the slot
func (s *Slot) Frames() int {
	return s.frames
}

func (s *Slot) expect(state SlotState, operation string) error {
	if s.state != state {
		return errors.Wrapf(ErrInvalidSlotState, "slot %d cannot %s while %s", s.index, operation, s.state)
	}
	return nil
}

// wait blocks until the previous submission of the slot completes
func (s *Slot) wait() error {
	if s.state == SlotAcquired || s.state == SlotRecording {
		return errors.Wrapf(ErrInvalidSlotState, "slot %d cannot be reacquired while %s", s.index, s.state)
	}

	err := s.sync.Wait()
	if err != nil {
		return errors.Wrapf(err, "failed to wait on frame slot %d", s.index)
	}

	s.state = SlotIdle
	return nil
}

// Begin opens a new recording on an acquired slot
func (s *Slot) Begin() (gpu.Recorder, error) {
	err := s.expect(SlotAcquired, "begin recording")
	if err != nil {
		return nil, err
	}

	recorder, err := s.sync.Begin()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to begin recording on frame slot %d", s.index)
	}

	s.recorder = recorder
	s.state = SlotRecording
	return recorder, nil
}

// Submit closes the recording and submits it. The slot stays Submitted until it is next acquired.
func (s *Slot) Submit() error {
	err := s.expect(SlotRecording, "submit")
	if err != nil {
		return err
	}

	err = s.sync.Submit()
	if err != nil {
		return errors.Wrapf(err, "failed to submit frame slot %d", s.index)
	}

	s.logger.Debug("FrameSlot::Submit", slog.Int("slot", s.index), slog.Int("frames", s.frames))

	s.recorder = nil
	s.frames++
	s.state = SlotSubmitted
	return nil
}

// Abort drops the frame in progress. Nothing recorded is submitted and the slot returns to Idle.
func (s *Slot) Abort() error {
	if s.state != SlotAcquired && s.state != SlotRecording {
		return errors.Wrapf(ErrInvalidSlotState, "slot %d cannot abort while %s", s.index, s.state)
	}

	s.logger.Debug("FrameSlot::Abort", slog.Int("slot", s.index), slog.String("state", s.state.String()))

	s.recorder = nil
	s.state = SlotIdle
	return nil
}
