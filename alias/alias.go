package alias

import (
	"fmt"

	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/framegraph/resource"
)

// Alias is a stable logical name a pass uses to refer to a resource without knowing its physical
// identity. The set is closed.
type Alias int32

const (
	// Presentation is the image currently acquired from the presentation surface
	Presentation Alias = iota
	ForwardColor
	ForwardDepth
	BloomColor
	DrawCommands
)

var aliasMapping = map[Alias]string{
	Presentation: "Presentation",
	ForwardColor: "ForwardColor",
	ForwardDepth: "ForwardDepth",
	BloomColor:   "BloomColor",
	DrawCommands: "DrawCommands",
}

func (a Alias) String() string {
	str, ok := aliasMapping[a]
	if !ok {
		return fmt.Sprintf("Alias(%d)", int32(a))
	}
	return str
}

// ResourceType is the kind of physical resource an alias resolves to
type ResourceType int32

const (
	TypeImage ResourceType = iota
	TypeBuffer
)

var resourceTypeMapping = map[ResourceType]string{
	TypeImage:  "TypeImage",
	TypeBuffer: "TypeBuffer",
}

func (t ResourceType) String() string {
	str, ok := resourceTypeMapping[t]
	if !ok {
		return "unknown"
	}
	return str
}

// FormatClass is a logical format category that is turned into a concrete format at resolution
type FormatClass int32

const (
	// FormatPresentation matches the format of the presentation surface
	FormatPresentation FormatClass = iota
	FormatDepth
	FormatHDRColor
	// FormatExplicit uses Description.ExplicitFormat as-is
	FormatExplicit
)

var formatClassMapping = map[FormatClass]string{
	FormatPresentation: "FormatPresentation",
	FormatDepth:        "FormatDepth",
	FormatHDRColor:     "FormatHDRColor",
	FormatExplicit:     "FormatExplicit",
}

func (c FormatClass) String() string {
	str, ok := formatClassMapping[c]
	if !ok {
		return "unknown"
	}
	return str
}

// SizeMode selects how a Size is turned into a concrete extent
type SizeMode int32

const (
	SizeAbsolute SizeMode = iota
	SizePresentationRelative
	SizeRelative
)

// Size is the logical size of an image alias
type Size struct {
	Mode   SizeMode
	Width  int
	Height int
	Scale  float32
	Target Alias
}

// Absolute is a fixed extent that does not follow the presentation surface
func Absolute(width, height int) Size {
	return Size{Mode: SizeAbsolute, Width: width, Height: height}
}

// PresentationRelative is the presentation surface extent multiplied by scale
func PresentationRelative(scale float32) Size {
	return Size{Mode: SizePresentationRelative, Scale: scale}
}

// RelativeTo is the resolved extent of another alias multiplied by scale
func RelativeTo(target Alias, scale float32) Size {
	return Size{Mode: SizeRelative, Scale: scale, Target: target}
}

func (s Size) String() string {
	switch s.Mode {
	case SizeAbsolute:
		return fmt.Sprintf("%dx%d", s.Width, s.Height)
	case SizePresentationRelative:
		return fmt.Sprintf("Presentation * %.2f", s.Scale)
	case SizeRelative:
		return fmt.Sprintf("%s * %.2f", s.Target, s.Scale)
	}
	return "unknown"
}

// Description is what a pass declares about a resource it needs to exist. Two descriptions of the
// same alias must be equal.
type Description struct {
	Type           ResourceType
	Format         FormatClass
	ExplicitFormat core1_0.Format
	Size           Size
	Usage          core1_0.ImageUsageFlags
	Samples        core1_0.SampleCountFlags
	Lifetime       resource.Lifetime

	BufferSize  int
	BufferUsage core1_0.BufferUsageFlags
}

// Image describes a single-sampled image alias
func Image(format FormatClass, size Size, usage core1_0.ImageUsageFlags, lifetime resource.Lifetime) Description {
	return Description{
		Type:     TypeImage,
		Format:   format,
		Size:     size,
		Usage:    usage,
		Samples:  core1_0.Samples1,
		Lifetime: lifetime,
	}
}

// Buffer describes a buffer alias
func Buffer(size int, usage core1_0.BufferUsageFlags, lifetime resource.Lifetime) Description {
	return Description{
		Type:        TypeBuffer,
		BufferSize:  size,
		BufferUsage: usage,
		Lifetime:    lifetime,
	}
}

func (d Description) String() string {
	if d.Type == TypeBuffer {
		return fmt.Sprintf("{Buffer %d bytes, %s}", d.BufferSize, d.Lifetime)
	}
	return fmt.Sprintf("{Image %s, %s, %s}", d.Format, d.Size, d.Lifetime)
}
