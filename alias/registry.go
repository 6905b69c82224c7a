package alias

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/framegraph/gpu"
	"github.com/vkngwrapper/framegraph/internal/utils"
	"github.com/vkngwrapper/framegraph/resource"
)

// ErrConflictingDeclaration is returned when an alias is declared twice with different descriptions
var ErrConflictingDeclaration = errors.New("conflicting alias declaration")

// ErrUnresolvableSizeDependency is returned when relative sizes cannot be ordered, either because
// they form a cycle or because they refer to an alias nobody declared
var ErrUnresolvableSizeDependency = errors.New("unresolvable size dependency")

// External is a pre-existing resource that an alias resolves to without creating anything
type External struct {
	Image  resource.CompositeKey
	View   resource.CompositeKey
	Format core1_0.Format
	Extent core1_0.Extent2D
}

// Environment is the information about the outside world that resolution needs
type Environment struct {
	PresentationExtent core1_0.Extent2D
	PresentationFormat core1_0.Format
	// DepthFormat is used for FormatDepth aliases. Zero selects D32 float.
	DepthFormat core1_0.Format
	// HDRFormat is used for FormatHDRColor aliases. Zero selects R16G16B16A16 float.
	HDRFormat core1_0.Format
}

func (e Environment) depthFormat() core1_0.Format {
	if e.DepthFormat == 0 {
		return core1_0.FormatD32SignedFloat
	}
	return e.DepthFormat
}

func (e Environment) hdrFormat() core1_0.Format {
	if e.HDRFormat == 0 {
		return core1_0.FormatR16G16B16A16SignedFloat
	}
	return e.HDRFormat
}

// Registry accumulates alias declarations while passes are registered
type Registry struct {
	logger   *slog.Logger
	declared map[Alias]Description
	external map[Alias]External
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:   logger,
		declared: make(map[Alias]Description),
		external: make(map[Alias]External),
	}
}

// Declare records the description of an alias. Declaring the same description again is a no-op;
// declaring a different one fails with ErrConflictingDeclaration.
func (r *Registry) Declare(alias Alias, desc Description) error {
	r.logger.Debug("AliasRegistry::Declare", slog.String("alias", alias.String()), slog.String("description", desc.String()))

	if _, isExternal := r.external[alias]; isExternal {
		return errors.Wrapf(ErrConflictingDeclaration, "%s is already declared as external", alias)
	}
	if desc.Lifetime == resource.LifetimeExternal {
		return errors.Newf("%s cannot be declared with external lifetime, it must be declared external", alias)
	}

	existing, ok := r.declared[alias]
	if ok {
		if existing != desc {
			return errors.Wrapf(ErrConflictingDeclaration, "%s was declared as %s and then as %s", alias, existing, desc)
		}
		return nil
	}

	r.declared[alias] = desc
	return nil
}

// DeclareExternal records that an alias refers to a resource that already exists
func (r *Registry) DeclareExternal(alias Alias, external External) error {
	r.logger.Debug("AliasRegistry::DeclareExternal", slog.String("alias", alias.String()), slog.String("image", external.Image.String()))

	if _, isDeclared := r.declared[alias]; isDeclared {
		return errors.Wrapf(ErrConflictingDeclaration, "%s is already declared with a description", alias)
	}
	if existing, ok := r.external[alias]; ok && existing != external {
		return errors.Wrapf(ErrConflictingDeclaration, "%s is already declared as a different external resource", alias)
	}
	if external.Image.Lifetime() != resource.LifetimeExternal {
		return errors.Newf("%s must refer to an external resource, not %s", alias, external.Image)
	}

	r.external[alias] = external
	return nil
}

// Description returns the declared description of an alias
func (r *Registry) Description(alias Alias) (Description, bool) {
	desc, ok := r.declared[alias]
	return desc, ok
}

// Known reports whether the alias was declared or declared external
func (r *Registry) Known(alias Alias) bool {
	if _, ok := r.declared[alias]; ok {
		return true
	}
	_, ok := r.external[alias]
	return ok
}

// resolutionOrder sorts declared aliases so that every relative-size target resolves before the
// aliases sized from it
func (r *Registry) resolutionOrder() ([]Alias, error) {
	aliases := make([]Alias, 0, len(r.declared))
	for alias := range r.declared {
		aliases = append(aliases, alias)
	}
	slices.Sort(aliases)

	remaining := make(map[Alias]int, len(aliases))
	dependents := make(map[Alias][]Alias)
	for _, alias := range aliases {
		desc := r.declared[alias]
		if desc.Type != TypeImage || desc.Size.Mode != SizeRelative {
			remaining[alias] = 0
			continue
		}

		target := desc.Size.Target
		if _, isExternal := r.external[target]; isExternal {
			remaining[alias] = 0
			continue
		}

		targetDesc, isDeclared := r.declared[target]
		if !isDeclared {
			return nil, errors.Wrapf(ErrUnresolvableSizeDependency, "%s is sized relative to %s, which was never declared", alias, target)
		}
		if targetDesc.Type != TypeImage {
			return nil, errors.Wrapf(ErrUnresolvableSizeDependency, "%s is sized relative to %s, which is not an image", alias, target)
		}

		remaining[alias] = 1
		dependents[target] = append(dependents[target], alias)
	}

	order := make([]Alias, 0, len(aliases))
	var ready []Alias
	for _, alias := range aliases {
		if remaining[alias] == 0 {
			ready = append(ready, alias)
		}
	}

	for len(ready) > 0 {
		alias := ready[0]
		ready = ready[1:]
		order = append(order, alias)

		for _, dependent := range dependents[alias] {
			remaining[dependent]--
			if remaining[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if len(order) != len(aliases) {
		var cycle []string
		for _, alias := range aliases {
			if remaining[alias] > 0 {
				cycle = append(cycle, alias.String())
			}
		}
		return nil, errors.Wrapf(ErrUnresolvableSizeDependency, "relative sizes form a cycle between %s", strings.Join(cycle, ", "))
	}

	return order, nil
}

func (r *Registry) concreteFormat(desc Description, env Environment) core1_0.Format {
	switch desc.Format {
	case FormatPresentation:
		return env.PresentationFormat
	case FormatDepth:
		return env.depthFormat()
	case FormatHDRColor:
		return env.hdrFormat()
	}
	return desc.ExplicitFormat
}

func (r *Registry) concreteExtent(alias Alias, desc Description, env Environment, resolved *Resolved) (core1_0.Extent2D, error) {
	switch desc.Size.Mode {
	case SizeAbsolute:
		if desc.Size.Width < 1 || desc.Size.Height < 1 {
			return core1_0.Extent2D{}, errors.Newf("%s has invalid absolute size %s", alias, desc.Size)
		}
		return core1_0.Extent2D{Width: desc.Size.Width, Height: desc.Size.Height}, nil
	case SizePresentationRelative:
		return core1_0.Extent2D{
			Width:  utils.ScaleDimension(env.PresentationExtent.Width, desc.Size.Scale),
			Height: utils.ScaleDimension(env.PresentationExtent.Height, desc.Size.Scale),
		}, nil
	case SizeRelative:
		base, ok := resolved.entries[desc.Size.Target]
		if !ok {
			return core1_0.Extent2D{}, errors.Wrapf(ErrUnresolvableSizeDependency, "%s resolved before %s", alias, desc.Size.Target)
		}
		return core1_0.Extent2D{
			Width:  utils.ScaleDimension(base.Extent.Width, desc.Size.Scale),
			Height: utils.ScaleDimension(base.Extent.Height, desc.Size.Scale),
		}, nil
	}

	return core1_0.Extent2D{}, errors.Newf("%s has unknown size mode %d", alias, desc.Size.Mode)
}

// Resolve creates every declared alias through the resource registry and returns the immutable
// alias map. On failure, everything created by this call is released and no Resolved is returned.
func (r *Registry) Resolve(resources *resource.Registry, env Environment) (*Resolved, error) {
	r.logger.Debug("AliasRegistry::Resolve", slog.Int("declared", len(r.declared)), slog.Int("external", len(r.external)))

	order, err := r.resolutionOrder()
	if err != nil {
		return nil, err
	}

	resolved := &Resolved{
		entries: make(map[Alias]Entry, len(r.declared)+len(r.external)),
	}

	externals := make([]Alias, 0, len(r.external))
	for alias := range r.external {
		externals = append(externals, alias)
	}
	slices.Sort(externals)

	for _, alias := range externals {
		external := r.external[alias]
		resolved.add(Entry{
			Alias:    alias,
			Type:     TypeImage,
			Resource: external.Image,
			View:     external.View,
			Format:   external.Format,
			Extent:   external.Extent,
			Aspect:   gpu.AspectForFormat(external.Format),
			Lifetime: resource.LifetimeExternal,
		})
	}

	for _, alias := range order {
		entry, err := r.create(resources, alias, env, resolved)
		if err != nil {
			return nil, errors.CombineErrors(err, resolved.releaseOwned(resources))
		}
		resolved.add(entry)
	}

	return resolved, nil
}

func (r *Registry) create(resources *resource.Registry, alias Alias, env Environment, resolved *Resolved) (Entry, error) {
	desc := r.declared[alias]

	if desc.Type == TypeBuffer {
		key, err := resources.CreateBuffer(gpu.BufferDescription{
			Size:  desc.BufferSize,
			Usage: desc.BufferUsage,
		}, desc.Lifetime, alias.String())
		if err != nil {
			return Entry{}, errors.Wrapf(err, "failed to create %s as %s", alias, desc)
		}

		return Entry{
			Alias:      alias,
			Type:       TypeBuffer,
			Resource:   key,
			Lifetime:   desc.Lifetime,
			BufferSize: desc.BufferSize,
		}, nil
	}

	extent, err := r.concreteExtent(alias, desc, env, resolved)
	if err != nil {
		return Entry{}, err
	}

	format := r.concreteFormat(desc, env)
	aspect := gpu.AspectForFormat(format)

	samples := desc.Samples
	if samples == 0 {
		samples = core1_0.Samples1
	}
	err = utils.CheckPow2(uint32(samples), "sample count")
	if err != nil {
		return Entry{}, errors.Wrapf(err, "%s has an invalid description %s", alias, desc)
	}

	imageKey, err := resources.CreateImage(gpu.ImageDescription{
		Format:      format,
		Extent:      extent,
		Usage:       desc.Usage,
		Samples:     samples,
		MipLevels:   1,
		ArrayLayers: 1,
	}, desc.Lifetime, alias.String())
	if err != nil {
		return Entry{}, errors.Wrapf(err, "failed to create %s as %s", alias, desc)
	}

	viewKey, err := resources.CreateImageView(imageKey, gpu.ImageViewDescription{
		Format: format,
		Range:  gpu.WholeRange(aspect),
	}, alias.String()+"View")
	if err != nil {
		err = errors.Wrapf(err, "failed to create the view of %s as %s", alias, desc)
		return Entry{}, errors.CombineErrors(err, resources.Destroy(imageKey))
	}

	return Entry{
		Alias:    alias,
		Type:     TypeImage,
		Resource: imageKey,
		View:     viewKey,
		Format:   format,
		Extent:   extent,
		Aspect:   aspect,
		Lifetime: desc.Lifetime,
	}, nil
}
