package headless

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/framegraph/gpu"
)

func TestPresenterCyclesImages(t *testing.T) {
	device := testDevice()
	presenter, err := NewPresenter(device, core1_0.FormatB8G8R8A8SRGB, core1_0.Extent2D{Width: 320, Height: 240}, 2)
	require.NoError(t, err)
	require.Len(t, presenter.Images(), 2)
	require.Len(t, presenter.Views(), 2)

	sync, err := device.CreateFrameSync()
	require.NoError(t, err)

	for frame := 0; frame < 3; frame++ {
		index, err := presenter.Acquire(sync)
		require.NoError(t, err)
		require.Equal(t, frame%2, index)

		require.Error(t, presenter.Present(sync, index))

		_, err = sync.Begin()
		require.NoError(t, err)
		require.NoError(t, sync.Submit())
		require.NoError(t, presenter.Present(sync, index))
		require.NoError(t, sync.Wait())
	}

	presentations := presenter.Presentations()
	require.Len(t, presentations, 3)
	require.Equal(t, Presentation{Image: 0, Slot: 0, Submission: 2}, presentations[2])

	for _, submission := range device.Submissions() {
		require.True(t, submission.Presentable)
	}

	require.Error(t, presenter.Present(sync, 5))
}

func TestPresenterOutOfDate(t *testing.T) {
	device := testDevice()
	presenter, err := NewPresenter(device, core1_0.FormatB8G8R8A8SRGB, core1_0.Extent2D{Width: 320, Height: 240}, 3)
	require.NoError(t, err)
	sync, err := device.CreateFrameSync()
	require.NoError(t, err)

	presenter.OutOfDate = true
	_, err = presenter.Acquire(sync)
	require.True(t, errors.Is(err, gpu.ErrOutOfDate))

	oldImages := presenter.Images()
	resized := core1_0.Extent2D{Width: 640, Height: 480}
	require.NoError(t, presenter.Recreate(resized))
	require.Equal(t, resized, presenter.Extent())
	require.Equal(t, 1, presenter.Recreations())
	require.NotEqual(t, oldImages, presenter.Images())

	index, err := presenter.Acquire(sync)
	require.NoError(t, err)
	require.Zero(t, index)

	require.NoError(t, presenter.Destroy())
	require.Error(t, presenter.Destroy())
	_, err = presenter.Acquire(sync)
	require.Error(t, err)
}

func TestPresenterNeedsImages(t *testing.T) {
	_, err := NewPresenter(testDevice(), core1_0.FormatB8G8R8A8SRGB, core1_0.Extent2D{Width: 1, Height: 1}, 0)
	require.Error(t, err)
}
