package resource

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/common"
)

// CreateFlags indicate specific registry behaviors to activate or deactivate
type CreateFlags int32

var registryCreateFlagsMapping = common.NewFlagStringMapping[CreateFlags]()

func (f CreateFlags) Register(str string) {
	registryCreateFlagsMapping.Register(f, str)
}
func (f CreateFlags) String() string {
	return registryCreateFlagsMapping.FlagsToString(f)
}

const (
	// RegistryCreateExternallySynchronized ensures that the registry will not be synchronized
	// internally. The consumer must guarantee it is used from only one goroutine at a time, which
	// is how the renderer uses it.
	RegistryCreateExternallySynchronized CreateFlags = 1 << iota
	// RegistryCreateDebugLabels attaches a debug label to every created instance when the device
	// implements gpu.Labeler. PerFrame instances have their frame index appended.
	RegistryCreateDebugLabels
)

func init() {
	RegistryCreateExternallySynchronized.Register("RegistryCreateExternallySynchronized")
	RegistryCreateDebugLabels.Register("RegistryCreateDebugLabels")
}

// CreateOptions contains optional settings when creating a Registry
type CreateOptions struct {
	Flags CreateFlags
	// FrameCount is the number of frames in flight, and therefore the number of instances every
	// PerFrame resource is replicated into. It must be at least 1.
	FrameCount int
}

func (o CreateOptions) validate() error {
	if o.FrameCount < 1 {
		return errors.Newf("registry frame count must be at least 1, but was %d", o.FrameCount)
	}
	return nil
}
