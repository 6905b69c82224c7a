package barrier

import (
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/framegraph/alias"
	"github.com/vkngwrapper/framegraph/gpu"
	"github.com/vkngwrapper/framegraph/resource"
)

// Indexing selects which physical instance of an alias a requirement touches on a given frame
type Indexing int32

const (
	// IndexFrame uses the frame slot index. Global aliases always resolve to their single instance.
	IndexFrame Indexing = iota
	// IndexGlobal always uses the single instance of a Global alias
	IndexGlobal
	// IndexPresentation uses the index of the presentation image acquired for the frame
	IndexPresentation
)

var indexingMapping = map[Indexing]string{
	IndexFrame:        "IndexFrame",
	IndexGlobal:       "IndexGlobal",
	IndexPresentation: "IndexPresentation",
}

func (i Indexing) String() string {
	str, ok := indexingMapping[i]
	if !ok {
		return "unknown"
	}
	return str
}

// Index selects the instance of a resource with the provided lifetime
func (i Indexing) Index(lifetime resource.Lifetime, slot, image int) int {
	switch {
	case lifetime == resource.LifetimeGlobal:
		return 0
	case i == IndexPresentation:
		return image
	}
	return slot
}

func (i Indexing) accepts(lifetime resource.Lifetime) bool {
	switch i {
	case IndexFrame:
		return lifetime != resource.LifetimeExternal
	case IndexGlobal:
		return lifetime == resource.LifetimeGlobal
	case IndexPresentation:
		return lifetime == resource.LifetimeExternal
	}
	return false
}

// Creation is how a requirement expects its alias to come into existence
type Creation struct {
	declare     bool
	description alias.Description
}

// Declare creates the alias from the description unless another pass already declared it
// identically
func Declare(desc alias.Description) Creation {
	return Creation{declare: true, description: desc}
}

// UseExisting expects some other pass, or an external registration, to provide the alias
func UseExisting() Creation {
	return Creation{}
}

// Description returns the declared description when the creation mode is Declare
func (c Creation) Description() (alias.Description, bool) {
	return c.description, c.declare
}

// Requirement is one resource access a pass declares
type Requirement struct {
	Alias alias.Alias
	State gpu.ResourceState
	// Aspect overrides the aspect derived from the alias's resolved format when nonzero
	Aspect   core1_0.ImageAspectFlags
	Indexing Indexing
	Creation Creation
}

// PassRequirements is the ordered list of requirements of one pass
type PassRequirements struct {
	PassID       int
	Name         string
	Requirements []Requirement
}
