package alias

import (
	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/framegraph/resource"
)

// Entry is what one alias resolved to
type Entry struct {
	Alias    Alias
	Type     ResourceType
	Resource resource.CompositeKey
	// View is the zero key for buffers
	View     resource.CompositeKey
	Format   core1_0.Format
	Extent   core1_0.Extent2D
	Aspect   core1_0.ImageAspectFlags
	Lifetime resource.Lifetime

	BufferSize int
}

// Resolved is the immutable result of one resolution. It stays valid until the graph is rebuilt.
type Resolved struct {
	entries map[Alias]Entry
	order   []Alias
}

func (r *Resolved) add(entry Entry) {
	r.entries[entry.Alias] = entry
	r.order = append(r.order, entry.Alias)
}

// Entry returns what an alias resolved to
func (r *Resolved) Entry(alias Alias) (Entry, bool) {
	entry, ok := r.entries[alias]
	return entry, ok
}

// Has reports whether the alias is part of the resolved set
func (r *Resolved) Has(alias Alias) bool {
	_, ok := r.entries[alias]
	return ok
}

// Aliases returns every resolved alias, externals first and then in resolution order
func (r *Resolved) Aliases() []Alias {
	return append([]Alias(nil), r.order...)
}

func (r *Resolved) releaseOwned(resources *resource.Registry) error {
	var err error
	for i := len(r.order) - 1; i >= 0; i-- {
		entry := r.entries[r.order[i]]
		if entry.Lifetime == resource.LifetimeExternal {
			continue
		}
		err = errors.CombineErrors(err, releaseEntry(resources, entry))
	}
	return err
}

func releaseEntry(resources *resource.Registry, entry Entry) error {
	var err error
	if !entry.View.IsZero() {
		err = resources.Destroy(entry.View)
	}
	return errors.CombineErrors(err, resources.Destroy(entry.Resource))
}

// Release destroys the Global resources and releases the External resources of this resolution.
// PerFrame resources are left to Registry.DestroyPerFrame, which must be called first.
func (r *Resolved) Release(resources *resource.Registry) error {
	var err error
	for i := len(r.order) - 1; i >= 0; i-- {
		entry := r.entries[r.order[i]]
		if entry.Lifetime == resource.LifetimePerFrame {
			continue
		}
		err = errors.CombineErrors(err, releaseEntry(resources, entry))
	}
	return err
}

// PrintDetailedMap writes a json object describing every resolved alias
func (r *Resolved) PrintDetailedMap(writer *jwriter.Writer) {
	arrayState := writer.Array()
	defer arrayState.End()

	for _, alias := range r.order {
		entry := r.entries[alias]

		obj := arrayState.Object()
		obj.Name("Alias").String(alias.String())
		obj.Name("Type").String(entry.Type.String())
		obj.Name("Lifetime").String(entry.Lifetime.String())
		obj.Name("Resource").String(entry.Resource.String())
		if entry.Type == TypeImage {
			obj.Name("Width").Int(entry.Extent.Width)
			obj.Name("Height").Int(entry.Extent.Height)
			obj.Name("Format").Int(int(entry.Format))
		} else {
			obj.Name("Size").Int(entry.BufferSize)
		}
		obj.End()
	}
}
