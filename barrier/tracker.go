package barrier

import (
	"log/slog"

	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/framegraph/gpu"
	"github.com/vkngwrapper/framegraph/resource"
)

// Instance identifies one physical resource: a composite key plus the frame slot or presentation
// image index that selects a replica
type Instance struct {
	Key   resource.CompositeKey
	Index int
}

// Tracker remembers the last state of every physical instance across frames. It resolves the
// old state of the first transition of an alias in each frame.
//
// States recorded during a frame are staged until Commit. A frame that is aborted calls Rollback
// so that nothing it recorded, and never submitted, leaks into the next frame.
type Tracker struct {
	logger    *slog.Logger
	committed *swiss.Map[Instance, gpu.ResourceState]
	staged    *swiss.Map[Instance, gpu.ResourceState]
}

func NewTracker(logger *slog.Logger) *Tracker {
	return &Tracker{
		logger:    logger,
		committed: swiss.NewMap[Instance, gpu.ResourceState](16),
		staged:    swiss.NewMap[Instance, gpu.ResourceState](8),
	}
}

// State returns the last state recorded for an instance, staged or committed
func (t *Tracker) State(instance Instance) (gpu.ResourceState, bool) {
	state, ok := t.staged.Get(instance)
	if ok {
		return state, true
	}
	return t.committed.Get(instance)
}

// Effective is the old state a transition must use for the provided instance. An instance that
// was never touched starts from StateUndefined whatever the static plan recorded.
func (t *Tracker) Effective(instance Instance, transition Transition) gpu.ResourceState {
	if !transition.First {
		return transition.Old
	}

	state, seen := t.State(instance)
	if !seen {
		return gpu.StateUndefined
	}
	return state
}

// Record stages the state an instance was moved to
func (t *Tracker) Record(instance Instance, state gpu.ResourceState) {
	t.staged.Put(instance, state)
}

// Commit makes every staged state permanent. It is called once the frame was submitted.
func (t *Tracker) Commit() {
	t.staged.Iter(func(instance Instance, state gpu.ResourceState) bool {
		t.committed.Put(instance, state)
		return false
	})
	t.staged.Clear()
}

// Rollback drops every staged state
func (t *Tracker) Rollback() {
	t.logger.Debug("BarrierTracker::Rollback", slog.Int("staged", t.staged.Count()))
	t.staged.Clear()
}

// Count is the number of committed instances
func (t *Tracker) Count() int {
	return t.committed.Count()
}

// Reset forgets every instance. It must be called whenever the resources the keys refer to are
// rebuilt.
func (t *Tracker) Reset() {
	t.logger.Debug("BarrierTracker::Reset", slog.Int("instances", t.committed.Count()))
	t.committed.Clear()
	t.staged.Clear()
}
