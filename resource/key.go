package resource

import "fmt"

// Lifetime is the replication and ownership class of a logical resource
type Lifetime int32

const (
	// LifetimeGlobal resources have a single physical instance shared by every frame
	LifetimeGlobal Lifetime = iota
	// LifetimePerFrame resources have one physical instance per frame-in-flight slot
	LifetimePerFrame
	// LifetimeExternal resources are owned by another subsystem, such as the presentation surface,
	// and are never destroyed by the registry
	LifetimeExternal
)

var lifetimeMapping = map[Lifetime]string{
	LifetimeGlobal:   "Global",
	LifetimePerFrame: "PerFrame",
	LifetimeExternal: "External",
}

func (l Lifetime) String() string {
	str, ok := lifetimeMapping[l]
	if !ok {
		return "unknown"
	}
	return str
}

// Kind is the type of physical object a CompositeKey resolves to
type Kind int32

const (
	KindImage Kind = iota
	KindImageView
	KindBuffer
)

var kindMapping = map[Kind]string{
	KindImage:     "Image",
	KindImageView: "ImageView",
	KindBuffer:    "Buffer",
}

func (k Kind) String() string {
	str, ok := kindMapping[k]
	if !ok {
		return "unknown"
	}
	return str
}

// CompositeKey identifies a logical resource in a Registry. Depending on its lifetime it resolves
// to a single physical instance, one instance per frame slot, or a list of foreign instances. The
// zero CompositeKey is never valid.
type CompositeKey struct {
	kind     Kind
	lifetime Lifetime
	key      Key
}

func (k CompositeKey) Kind() Kind {
	return k.kind
}

func (k CompositeKey) Lifetime() Lifetime {
	return k.lifetime
}

func (k CompositeKey) IsZero() bool {
	return k.key.IsZero()
}

func (k CompositeKey) String() string {
	return fmt.Sprintf("%s(%s %s)", k.lifetime, k.kind, k.key)
}
