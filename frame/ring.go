package frame

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/framegraph/gpu"
)

// ErrNoSlots is returned when a ring is created without any slots
var ErrNoSlots = errors.New("frame ring requires at least one slot")

// Ring cycles a fixed pool of frame slots. A slot is only handed out again once the GPU work
// previously submitted through it has completed, so at most Len frames are ever in flight.
type Ring struct {
	logger *slog.Logger
	slots  []*Slot
	cursor int
	// acquired is the slot most recently returned by Acquire
	acquired *Slot
}

// New creates count frame syncs on the device and builds a ring over them
func New(logger *slog.Logger, device gpu.Device, count int) (*Ring, error) {
	if count < 1 {
		return nil, errors.Wrapf(ErrNoSlots, "requested %d slots", count)
	}

	syncs := make([]gpu.FrameSync, 0, count)
	for i := 0; i < count; i++ {
		sync, err := device.CreateFrameSync()
		if err != nil {
			err = errors.Wrapf(err, "failed to create frame sync %d", i)
			for _, created := range syncs {
				err = errors.CombineErrors(err, created.Destroy())
			}
			return nil, err
		}
		syncs = append(syncs, sync)
	}

	return NewRing(logger, syncs)
}

// NewRing builds a ring over existing frame syncs. The ring takes ownership of them.
func NewRing(logger *slog.Logger, syncs []gpu.FrameSync) (*Ring, error) {
	if len(syncs) == 0 {
		return nil, ErrNoSlots
	}

	ring := &Ring{
		logger: logger,
		slots:  make([]*Slot, 0, len(syncs)),
	}
	for index, sync := range syncs {
		ring.slots = append(ring.slots, &Slot{
			logger: logger,
			index:  index,
			sync:   sync,
		})
	}

	return ring, nil
}

// Len is the number of slots, which is also the maximum number of frames in flight
func (r *Ring) Len() int {
	return len(r.slots)
}

// Slot returns the slot at index
func (r *Ring) Slot(index int) *Slot {
	return r.slots[index]
}

// Acquire blocks until the next slot's previous work has completed and returns it. The wait has
// no timeout.
func (r *Ring) Acquire() (*Slot, error) {
	slot := r.slots[r.cursor]

	r.logger.Debug("FrameRing::Acquire", slog.Int("slot", slot.index), slog.String("state", slot.state.String()))

	err := slot.wait()
	if err != nil {
		return nil, err
	}

	r.cursor = (r.cursor + 1) % len(r.slots)
	slot.state = SlotAcquired
	r.acquired = slot
	return slot, nil
}

// Current is the slot most recently returned by Acquire, or nil before the first acquire
func (r *Ring) Current() *Slot {
	return r.acquired
}

// WaitAll blocks until every slot's submitted work has completed. Slots end up Idle.
func (r *Ring) WaitAll() error {
	r.logger.Debug("FrameRing::WaitAll", slog.Int("slots", len(r.slots)))

	var err error
	for _, slot := range r.slots {
		if slot.state == SlotAcquired || slot.state == SlotRecording {
			err = errors.CombineErrors(err, slot.Abort())
		}
		err = errors.CombineErrors(err, slot.wait())
	}
	return err
}

// Destroy drains every slot and destroys its synchronization objects
func (r *Ring) Destroy() error {
	r.logger.Debug("FrameRing::Destroy", slog.Int("slots", len(r.slots)))

	err := r.WaitAll()
	for _, slot := range r.slots {
		err = errors.CombineErrors(err, slot.sync.Destroy())
	}

	r.slots = nil
	r.acquired = nil
	return err
}
