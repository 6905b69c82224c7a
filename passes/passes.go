// Package passes holds the passes of the forward renderer: a compute culling pass that writes
// indirect draw commands, the forward pass that consumes them, a half resolution bloom pass and
// the composition pass that writes the presentation image.
package passes

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/framegraph/alias"
	"github.com/vkngwrapper/framegraph/graph"
)

const (
	CullingID = iota
	ForwardID
	BloomID
	CompositionID
)

// Settings tune the work the passes record
type Settings struct {
	// DrawCount is the number of indirect draws the culling pass can emit
	DrawCount int
	// WorkgroupSize is the number of draws one culling workgroup processes
	WorkgroupSize int
	// BloomScale is the size of the bloom target relative to the forward color target
	BloomScale float32
}

// DefaultSettings returns the settings used when nothing is configured
func DefaultSettings() Settings {
	return Settings{
		DrawCount:     1024,
		WorkgroupSize: 64,
		BloomScale:    0.5,
	}
}

func (s Settings) Validate() error {
	if s.DrawCount < 1 {
		return errors.Newf("draw count must be at least 1, but was %d", s.DrawCount)
	}
	if s.WorkgroupSize < 1 {
		return errors.Newf("workgroup size must be at least 1, but was %d", s.WorkgroupSize)
	}
	if s.BloomScale <= 0 || s.BloomScale > 1 {
		return errors.Newf("bloom scale must be in (0, 1], but was %f", s.BloomScale)
	}
	return nil
}

// ForwardRenderer returns every pass of the forward renderer in execution order
func ForwardRenderer(settings Settings) ([]graph.Pass, error) {
	err := settings.Validate()
	if err != nil {
		return nil, err
	}

	return []graph.Pass{
		NewCulling(settings),
		NewForward(settings),
		NewBloom(settings),
		NewComposition(),
	}, nil
}

// formats returns the resolved format of an alias as an attachment format list
func formats(resolved *alias.Resolved, target alias.Alias) []core1_0.Format {
	entry, ok := resolved.Entry(target)
	if !ok {
		return nil
	}
	return []core1_0.Format{entry.Format}
}
