// Package lifecycle coordinates an orderly shutdown between the render loop and the stages that
// feed it. Each phase stops one more stage; phases only ever move forward.
package lifecycle

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
)

type Phase int32

const (
	PhaseRunning Phase = iota
	// PhaseStopGameplay asks gameplay to stop producing new state
	PhaseStopGameplay
	// PhaseStopUpload asks the upload stage to stop feeding the renderer
	PhaseStopUpload
	// PhaseStopRender ends the render loop after the frame in progress
	PhaseStopRender
)

var phaseMapping = map[Phase]string{
	PhaseRunning:      "PhaseRunning",
	PhaseStopGameplay: "PhaseStopGameplay",
	PhaseStopUpload:   "PhaseStopUpload",
	PhaseStopRender:   "PhaseStopRender",
}

func (p Phase) String() string {
	str, ok := phaseMapping[p]
	if !ok {
		return "unknown"
	}
	return str
}

// Control is the shutdown signal shared by every stage. It is safe to use from any goroutine.
type Control struct {
	phase atomic.Int32
}

func NewControl() *Control {
	return &Control{}
}

func (c *Control) Phase() Phase {
	return Phase(c.phase.Load())
}

// Advance moves to phase if it is later than the current one and reports whether it did
func (c *Control) Advance(phase Phase) bool {
	for {
		current := c.phase.Load()
		if int32(phase) <= current {
			return false
		}
		if c.phase.CompareAndSwap(current, int32(phase)) {
			return true
		}
	}
}

// Reached reports whether the control is at or past phase
func (c *Control) Reached(phase Phase) bool {
	return c.Phase() >= phase
}

// Wait polls until the control reaches phase or ctx is done
func (c *Control) Wait(ctx context.Context, phase Phase, poll time.Duration) error {
	if c.Reached(phase) {
		return nil
	}

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "stopped waiting for %s at %s", phase, c.Phase())
		case <-ticker.C:
			if c.Reached(phase) {
				return nil
			}
		}
	}
}

// Shutdown walks through every phase in order. The render loop sees PhaseStopRender last.
func (c *Control) Shutdown() {
	c.Advance(PhaseStopGameplay)
	c.Advance(PhaseStopUpload)
	c.Advance(PhaseStopRender)
}
