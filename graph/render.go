package graph

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/framegraph/alias"
	"github.com/vkngwrapper/framegraph/barrier"
	"github.com/vkngwrapper/framegraph/frame"
	"github.com/vkngwrapper/framegraph/gpu"
	"github.com/vkngwrapper/framegraph/lifecycle"
)

// frameTarget is the indexing context of the frame being recorded
type frameTarget struct {
	slot  int
	image int
}

func (r *Renderer) instance(entry alias.Entry, indexing barrier.Indexing, target frameTarget) barrier.Instance {
	return barrier.Instance{
		Key:   entry.Resource,
		Index: indexing.Index(entry.Lifetime, target.slot, target.image),
	}
}

// barriers turns the static transitions of one pass into the physical barriers of this frame,
// correcting the first use of every instance with its tracked state
func (r *Renderer) barriers(transitions []barrier.Transition, target frameTarget) ([]gpu.ImageBarrier, []gpu.BufferBarrier, error) {
	var images []gpu.ImageBarrier
	var buffers []gpu.BufferBarrier

	for _, transition := range transitions {
		entry, ok := r.resolved.Entry(transition.Alias)
		if !ok {
			return nil, nil, errors.Wrapf(barrier.ErrUnknownAlias, "%s was not resolved", transition.Alias)
		}

		instance := r.instance(entry, transition.Indexing, target)
		old := r.tracker.Effective(instance, transition)

		if transition.Type == alias.TypeBuffer {
			buffer, err := r.resources.LookupBuffer(instance.Key, instance.Index)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "failed to look up %s", transition.Alias)
			}
			buffers = append(buffers, gpu.BufferBarrier{
				Buffer: buffer.Handle,
				Old:    old,
				New:    transition.New,
				Size:   buffer.Description.Size,
			})
		} else {
			image, err := r.resources.LookupImage(instance.Key, instance.Index)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "failed to look up %s", transition.Alias)
			}
			images = append(images, gpu.ImageBarrier{
				Image: image.Handle,
				Old:   old,
				New:   transition.New,
				Range: transition.Range,
			})
		}

		r.tracker.Record(instance, transition.New)
	}

	return images, buffers, nil
}

// presentBarrier returns the presentation image to the presentable state, from whatever state
// the passes left it in
func (r *Renderer) presentBarrier(target frameTarget) (gpu.ImageBarrier, error) {
	entry, ok := r.resolved.Entry(alias.Presentation)
	if !ok {
		return gpu.ImageBarrier{}, errors.Wrapf(barrier.ErrUnknownAlias, "%s was not resolved", alias.Presentation)
	}

	instance := r.instance(entry, barrier.IndexPresentation, target)
	old, seen := r.tracker.State(instance)
	if !seen {
		old = gpu.StateUndefined
	}

	image, err := r.resources.LookupImage(instance.Key, instance.Index)
	if err != nil {
		return gpu.ImageBarrier{}, errors.Wrap(err, "failed to look up the presentation image")
	}

	r.tracker.Record(instance, gpu.StatePresent)
	return gpu.ImageBarrier{
		Image: image.Handle,
		Old:   old,
		New:   gpu.StatePresent,
		Range: gpu.WholeRange(entry.Aspect),
	}, nil
}

// viewport covers the first image a pass writes, falling back on the presentation surface
func (r *Renderer) viewport(pass Pass) (gpu.Viewport, gpu.Rect) {
	extent := r.presenter.Extent()
	for _, requirement := range pass.Requirements() {
		if !requirement.State.IsWrite() {
			continue
		}
		entry, ok := r.resolved.Entry(requirement.Alias)
		if ok && entry.Type == alias.TypeImage {
			extent = entry.Extent
			break
		}
	}
	return gpu.FullViewport(extent)
}

func (r *Renderer) abort(slot *frame.Slot, cause error) error {
	r.tracker.Rollback()
	return errors.CombineErrors(cause, slot.Abort())
}

func needsRebuild(err error) bool {
	return errors.Is(err, gpu.ErrOutOfDate) || errors.Is(err, gpu.ErrSuboptimal)
}

// RenderFrame records, submits and presents one frame. When the presentation surface is out of
// date the renderer is rebuilt at the presenter's current extent and the frame is skipped.
func (r *Renderer) RenderFrame() error {
	if r.destroyed {
		return errors.New("renderer was destroyed")
	}
	if !r.built {
		return ErrNotBuilt
	}

	slot, err := r.ring.Acquire()
	if err != nil {
		return err
	}

	image, err := r.presenter.Acquire(slot.Sync())
	suboptimal := errors.Is(err, gpu.ErrSuboptimal)
	if err != nil && !suboptimal {
		err = r.abort(slot, err)
		if errors.Is(err, gpu.ErrOutOfDate) {
			r.logger.Debug("Renderer::RenderFrame", slog.String("skipped", "presentation out of date"))
			return r.Resize(r.presenter.Extent())
		}
		return errors.Wrap(err, "failed to acquire a presentation image")
	}

	target := frameTarget{slot: slot.Index(), image: image}

	err = r.record(slot, target)
	if err != nil {
		return r.abort(slot, err)
	}

	err = slot.Submit()
	if err != nil {
		return r.abort(slot, err)
	}
	r.tracker.Commit()
	r.frames++

	err = r.presenter.Present(slot.Sync(), image)
	if needsRebuild(err) || suboptimal {
		return r.Resize(r.presenter.Extent())
	}
	if err != nil {
		return errors.Wrapf(err, "failed to present image %d", image)
	}

	return nil
}

func (r *Renderer) record(slot *frame.Slot, target frameTarget) error {
	recorder, err := slot.Begin()
	if err != nil {
		return err
	}

	plans := r.plan.Passes()
	for index, pass := range r.passes {
		images, buffers, err := r.barriers(plans[index].Transitions, target)
		if err != nil {
			return errors.Wrapf(err, "failed to resolve the barriers of pass %s", pass.Name())
		}

		if len(images) > 0 || len(buffers) > 0 {
			err = recorder.PipelineBarrier(images, buffers)
			if err != nil {
				return errors.Wrapf(err, "failed to record the barriers of pass %s", pass.Name())
			}
		}

		viewport, scissor := r.viewport(pass)
		err = pass.Execute(&Context{
			recorder:          recorder,
			pipeline:          r.pipelines[pass.ID()],
			viewport:          viewport,
			scissor:           scissor,
			frameIndex:        target.slot,
			presentationIndex: target.image,
			resolved:          r.resolved,
			resources:         r.resources,
		})
		if err != nil {
			return errors.Wrapf(err, "pass %s failed", pass.Name())
		}
	}

	present, err := r.presentBarrier(target)
	if err != nil {
		return err
	}
	return recorder.PipelineBarrier([]gpu.ImageBarrier{present}, nil)
}

// Run renders frames until the control reaches PhaseStopRender or ctx is done. The phase is
// checked once before every frame, never during one. Every frame in flight has completed when
// Run returns.
func (r *Renderer) Run(ctx context.Context, control *lifecycle.Control) error {
	r.logger.Debug("Renderer::Run", slog.String("phase", control.Phase().String()))

	var err error
	for err == nil && !control.Reached(lifecycle.PhaseStopRender) && ctx.Err() == nil {
		err = r.RenderFrame()
	}

	return errors.CombineErrors(err, r.ring.WaitAll())
}

