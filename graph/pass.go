package graph

import (
	"github.com/vkngwrapper/framegraph/alias"
	"github.com/vkngwrapper/framegraph/barrier"
	"github.com/vkngwrapper/framegraph/gpu"
)

// Pass is one stage of the frame. Passes run in the order they were provided to the renderer, and
// every requirement they declare is transitioned before Execute is called.
type Pass interface {
	// ID is a small integer that is stable across builds and unique within a renderer
	ID() int
	Name() string
	// Requirements lists every resource access of the pass, in the order the barriers are emitted
	Requirements() []barrier.Requirement
	// Pipeline describes the pipeline the pass binds. Passes that bind nothing return false.
	Pipeline(resolved *alias.Resolved) (gpu.PipelineDescription, bool)
	// Execute records the work of the pass
	Execute(ctx *Context) error
}
