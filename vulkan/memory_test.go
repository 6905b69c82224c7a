package vulkan

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v3/core1_0"
)

var testMemoryTypes = []core1_0.MemoryType{
	{
		PropertyFlags: 0,
		HeapIndex:     1,
	},
	{
		PropertyFlags: core1_0.MemoryPropertyDeviceLocal,
		HeapIndex:     0,
	},
	{
		PropertyFlags: core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent,
		HeapIndex:     1,
	},
	{
		PropertyFlags: core1_0.MemoryPropertyDeviceLocal | core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent,
		HeapIndex:     2,
	},
}

var memoryTypeTestCases = map[string]struct {
	MemoryTypeBits uint32
	Usage          uint32

	ExpectedIndex int
	ExpectedError error
}{
	"ColorAttachmentPrefersDeviceLocal": {
		MemoryTypeBits: 0b1111,
		Usage:          uint32(core1_0.ImageUsageColorAttachment | core1_0.ImageUsageSampled),
		ExpectedIndex:  1,
	},
	"IndirectBufferPrefersDeviceLocal": {
		MemoryTypeBits: 0b1111,
		Usage:          uint32(core1_0.BufferUsageIndirectBuffer | core1_0.BufferUsageStorageBuffer),
		ExpectedIndex:  1,
	},
	"BannedDeviceLocalFallsBackOnHostVisibleDeviceLocal": {
		MemoryTypeBits: 0b1101,
		Usage:          uint32(core1_0.ImageUsageColorAttachment),
		ExpectedIndex:  3,
	},
	"OnlyHostMemoryAllowed": {
		MemoryTypeBits: 0b0100,
		Usage:          uint32(core1_0.ImageUsageColorAttachment),
		ExpectedIndex:  2,
	},
	"TransferOnlyAvoidsDeviceLocal": {
		MemoryTypeBits: 0b1110,
		Usage:          uint32(core1_0.BufferUsageTransferSrc),
		ExpectedIndex:  2,
	},
	"NoMemoryTypeAllowed": {
		MemoryTypeBits: 0b10000,
		Usage:          uint32(core1_0.ImageUsageColorAttachment),
		ExpectedIndex:  -1,
		ExpectedError:  ErrNoMemoryType,
	},
}

func TestFindMemoryTypeIndex(t *testing.T) {
	for testName, testCase := range memoryTypeTestCases {
		t.Run(testName, func(t *testing.T) {
			index, err := findMemoryTypeIndex(testMemoryTypes, testCase.MemoryTypeBits, preferencesForUsage(testCase.Usage))
			if testCase.ExpectedError != nil {
				require.True(t, errors.Is(err, testCase.ExpectedError))
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, testCase.ExpectedIndex, index)
		})
	}
}

func TestRequiredFlagsExcludeTypes(t *testing.T) {
	prefs := memoryPreferences{
		required:  core1_0.MemoryPropertyHostVisible,
		preferred: core1_0.MemoryPropertyDeviceLocal,
	}

	index, err := findMemoryTypeIndex(testMemoryTypes, 0b1111, prefs)
	require.NoError(t, err)
	require.Equal(t, 3, index)

	index, err = findMemoryTypeIndex(testMemoryTypes, 0b0011, prefs)
	require.Error(t, err)
	require.Equal(t, -1, index)
}
