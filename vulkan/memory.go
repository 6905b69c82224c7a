package vulkan

import (
	"math"
	"math/bits"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
)

// ErrNoMemoryType is returned when no memory type accepts a resource's memory requirements
var ErrNoMemoryType = errors.New("no suitable memory type")

const transferUsage = uint32(core1_0.BufferUsageTransferDst) | uint32(core1_0.BufferUsageTransferSrc) |
	uint32(core1_0.ImageUsageTransferSrc) | uint32(core1_0.ImageUsageTransferDst)

type memoryPreferences struct {
	required     core1_0.MemoryPropertyFlags
	preferred    core1_0.MemoryPropertyFlags
	notPreferred core1_0.MemoryPropertyFlags
}

// preferencesForUsage returns the memory flags an owned resource with the provided usage should
// live in. Framegraph resources are never mapped, so anything the device touches belongs in
// device local memory, and transfer-only resources prefer to stay out of it.
func preferencesForUsage(usage uint32) memoryPreferences {
	deviceAccess := usage&^transferUsage != 0
	if deviceAccess {
		return memoryPreferences{preferred: core1_0.MemoryPropertyDeviceLocal}
	}
	return memoryPreferences{notPreferred: core1_0.MemoryPropertyDeviceLocal}
}

// findMemoryTypeIndex picks the memory type that is allowed by memoryTypeBits, has every
// required flag and misses the fewest preferences. The first type that misses none wins outright.
func findMemoryTypeIndex(memoryTypes []core1_0.MemoryType, memoryTypeBits uint32, prefs memoryPreferences) (int, error) {
	bestMemoryTypeIndex := -1
	minCost := math.MaxInt

	for memTypeIndex, memType := range memoryTypes {
		memTypeBit := uint32(1 << memTypeIndex)

		if memTypeBit&memoryTypeBits == 0 {
			continue
		}

		flags := memType.PropertyFlags
		if prefs.required&flags != prefs.required {
			continue
		}

		missingPreferredFlags := prefs.preferred & ^flags
		presentNotPreferredFlags := prefs.notPreferred & flags
		cost := bits.OnesCount32(uint32(missingPreferredFlags)) + bits.OnesCount32(uint32(presentNotPreferredFlags))
		if cost == 0 {
			return memTypeIndex, nil
		} else if cost < minCost {
			bestMemoryTypeIndex = memTypeIndex
			minCost = cost
		}
	}

	if bestMemoryTypeIndex < 0 {
		return -1, errors.Wrapf(ErrNoMemoryType, "memory type bits %032b", memoryTypeBits)
	}

	return bestMemoryTypeIndex, nil
}
