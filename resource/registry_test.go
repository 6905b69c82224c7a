package resource

import (
	"io"
	"log/slog"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/framegraph/gpu"
	"github.com/vkngwrapper/framegraph/gpu/headless"
	"github.com/vkngwrapper/framegraph/gpu/mock_gpu"
	"go.uber.org/mock/gomock"
)

var colorDesc = gpu.ImageDescription{
	Format:      core1_0.FormatR8G8B8A8SRGB,
	Extent:      core1_0.Extent2D{Width: 800, Height: 600},
	Usage:       core1_0.ImageUsageColorAttachment | core1_0.ImageUsageSampled,
	Samples:     core1_0.Samples1,
	MipLevels:   1,
	ArrayLayers: 1,
}

func readyRegistry(t *testing.T, frameCount int, flags CreateFlags) (*headless.Device, *Registry) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	device := headless.NewDevice(logger)

	registry, err := New(logger, device, CreateOptions{
		Flags:      flags,
		FrameCount: frameCount,
	})
	require.NoError(t, err)

	return device, registry
}

func TestNewRequiresFrames(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	_, err := New(logger, headless.NewDevice(logger), CreateOptions{FrameCount: 0})
	require.Error(t, err)
}

func TestPerFrameResolveRange(t *testing.T) {
	device, registry := readyRegistry(t, 3, 0)

	key, err := registry.CreateImage(colorDesc, LifetimePerFrame, "Color")
	require.NoError(t, err)
	require.Equal(t, LifetimePerFrame, key.Lifetime())
	require.Equal(t, KindImage, key.Kind())
	require.Equal(t, 3, registry.Instances(key))
	require.Equal(t, 3, device.Counters().ImagesCreated)

	seen := map[gpu.ImageHandle]bool{}
	for i := 0; i < 3; i++ {
		image, err := registry.LookupImage(key, i)
		require.NoError(t, err)
		require.True(t, image.Owned())
		seen[image.Handle] = true
	}
	require.Len(t, seen, 3)

	_, err = registry.LookupImage(key, 3)
	require.True(t, errors.Is(err, ErrInvalidKey))

	_, err = registry.LookupImage(key, -1)
	require.True(t, errors.Is(err, ErrInvalidKey))

	require.Panics(t, func() {
		registry.Image(key, 3)
	})
}

func TestGlobalIgnoresIndex(t *testing.T) {
	_, registry := readyRegistry(t, 2, 0)

	key, err := registry.CreateBuffer(gpu.BufferDescription{Size: 256, Usage: core1_0.BufferUsageStorageBuffer}, LifetimeGlobal, "Draws")
	require.NoError(t, err)
	require.Equal(t, 1, registry.Instances(key))

	first := registry.Buffer(key, 0)
	require.Same(t, first, registry.Buffer(key, 5))
	require.Equal(t, 256, registry.Statistics().BufferBytes)
}

func TestKindMismatchIsInvalid(t *testing.T) {
	_, registry := readyRegistry(t, 2, 0)

	key, err := registry.CreateImage(colorDesc, LifetimeGlobal, "Color")
	require.NoError(t, err)

	_, err = registry.LookupBuffer(key, 0)
	require.True(t, errors.Is(err, ErrInvalidKey))

	_, err = registry.LookupImage(CompositeKey{}, 0)
	require.True(t, errors.Is(err, ErrInvalidKey))
}

func TestDestroyOnce(t *testing.T) {
	device, registry := readyRegistry(t, 2, 0)

	key, err := registry.CreateImage(colorDesc, LifetimePerFrame, "Color")
	require.NoError(t, err)

	require.NoError(t, registry.Destroy(key))
	require.Equal(t, 2, device.Counters().ImagesDestroyed)

	err = registry.Destroy(key)
	require.True(t, errors.Is(err, ErrInvalidKey))
	require.Equal(t, 2, device.Counters().ImagesDestroyed)

	_, err = registry.LookupImage(key, 0)
	require.True(t, errors.Is(err, ErrInvalidKey))
	require.Equal(t, 0, registry.Instances(key))
}

func TestDestroyPerFrameLeavesExternalAndGlobal(t *testing.T) {
	device, registry := readyRegistry(t, 2, 0)

	perFrame, err := registry.CreateImage(colorDesc, LifetimePerFrame, "Color")
	require.NoError(t, err)
	perFrameView, err := registry.CreateImageView(perFrame, gpu.ImageViewDescription{
		Format: colorDesc.Format,
		Range:  gpu.WholeRange(core1_0.ImageAspectColor),
	}, "ColorView")
	require.NoError(t, err)
	require.Equal(t, LifetimePerFrame, perFrameView.Lifetime())

	global, err := registry.CreateImage(colorDesc, LifetimeGlobal, "History")
	require.NoError(t, err)

	presenter, err := headless.NewPresenter(device, core1_0.FormatB8G8R8A8SRGB, core1_0.Extent2D{Width: 800, Height: 600}, 3)
	require.NoError(t, err)
	externalImage, externalView, err := registry.RegisterExternalImages(presenter.Images(), presenter.Views(), colorDesc, "Presentation")
	require.NoError(t, err)
	require.Equal(t, LifetimeExternal, externalImage.Lifetime())

	require.NoError(t, registry.DestroyPerFrame())

	counters := device.Counters()
	require.Equal(t, 2, counters.ImagesDestroyed)
	require.Equal(t, 2, counters.ViewsDestroyed)

	_, err = registry.LookupImage(perFrame, 0)
	require.True(t, errors.Is(err, ErrInvalidKey))
	require.Equal(t, 1, registry.Instances(global))
	require.Equal(t, 3, registry.Instances(externalImage))
	require.Equal(t, 3, registry.Instances(externalView))

	image := registry.Image(externalImage, 2)
	require.False(t, image.Owned())
	require.Equal(t, presenter.Images()[2], image.Handle)

	require.NoError(t, registry.Validate())

	require.NoError(t, registry.DestroyAll())
	counters = device.Counters()
	require.Equal(t, 3, counters.ImagesDestroyed)
	require.Equal(t, 0, registry.Statistics().ImageCount)

	images, views, buffers := device.LiveObjects()
	require.Equal(t, 0, images)
	require.Equal(t, 0, views)
	require.Equal(t, 0, buffers)
}

func TestExternalCannotBeCreatedOrViewed(t *testing.T) {
	device, registry := readyRegistry(t, 2, 0)

	_, err := registry.CreateImage(colorDesc, LifetimeExternal, "Nope")
	require.True(t, errors.Is(err, ErrExternalResource))

	presenter, err := headless.NewPresenter(device, core1_0.FormatB8G8R8A8SRGB, core1_0.Extent2D{Width: 64, Height: 64}, 2)
	require.NoError(t, err)

	imageKey, _, err := registry.RegisterExternalImages(presenter.Images(), presenter.Views(), colorDesc, "Presentation")
	require.NoError(t, err)

	_, err = registry.CreateImageView(imageKey, gpu.ImageViewDescription{}, "View")
	require.True(t, errors.Is(err, ErrExternalResource))

	_, _, err = registry.RegisterExternalImages(presenter.Images(), presenter.Views()[:1], colorDesc, "Mismatch")
	require.Error(t, err)

	_, _, err = registry.RegisterExternalImages(nil, nil, colorDesc, "Empty")
	require.Error(t, err)
}

func TestCreateFailureReleasesPartialInstances(t *testing.T) {
	device, registry := readyRegistry(t, 3, 0)

	failure := errors.New("out of device memory")
	device.FailImageCreation = failure
	device.ImagesBeforeFailure = 2

	_, err := registry.CreateImage(colorDesc, LifetimePerFrame, "Color")
	require.True(t, errors.Is(err, failure))
	require.ErrorContains(t, err, "Color(Frame 2)")

	counters := device.Counters()
	require.Equal(t, 2, counters.ImagesCreated)
	require.Equal(t, 2, counters.ImagesDestroyed)
	require.Equal(t, 0, registry.Statistics().ImageCount)
}

func TestCreateViewFailureWithMock(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := mock_gpu.NewMockDevice(ctrl)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	registry, err := New(logger, device, CreateOptions{FrameCount: 2})
	require.NoError(t, err)

	device.EXPECT().CreateImage(colorDesc).Return(gpu.ImageHandle(1), nil)
	device.EXPECT().CreateImage(colorDesc).Return(gpu.ImageHandle(2), nil)

	key, err := registry.CreateImage(colorDesc, LifetimePerFrame, "Color")
	require.NoError(t, err)

	viewDesc := gpu.ImageViewDescription{Format: colorDesc.Format, Range: gpu.WholeRange(core1_0.ImageAspectColor)}
	failure := errors.New("driver rejected view")
	device.EXPECT().CreateImageView(gpu.ImageHandle(1), viewDesc).Return(gpu.ImageViewHandle(10), nil)
	device.EXPECT().CreateImageView(gpu.ImageHandle(2), viewDesc).Return(gpu.ImageViewHandle(0), failure)
	device.EXPECT().DestroyImageView(gpu.ImageViewHandle(10)).Return(nil)

	_, err = registry.CreateImageView(key, viewDesc, "ColorView")
	require.True(t, errors.Is(err, failure))

	device.EXPECT().DestroyImage(gpu.ImageHandle(1)).Return(nil)
	device.EXPECT().DestroyImage(gpu.ImageHandle(2)).Return(nil)
	require.NoError(t, registry.DestroyAll())
}

func TestDebugLabels(t *testing.T) {
	device, registry := readyRegistry(t, 2, RegistryCreateDebugLabels|RegistryCreateExternallySynchronized)

	key, err := registry.CreateImage(colorDesc, LifetimePerFrame, "ForwardColor")
	require.NoError(t, err)

	label, ok := device.Label(uint64(registry.Image(key, 1).Handle))
	require.True(t, ok)
	require.Equal(t, "ForwardColor(Frame 1)", label)

	global, err := registry.CreateImage(colorDesc, LifetimeGlobal, "History")
	require.NoError(t, err)

	label, ok = device.Label(uint64(registry.Image(global, 0).Handle))
	require.True(t, ok)
	require.Equal(t, "History", label)
}

func TestPrintDetailedMap(t *testing.T) {
	_, registry := readyRegistry(t, 2, 0)

	_, err := registry.CreateImage(colorDesc, LifetimePerFrame, "Color")
	require.NoError(t, err)
	_, err = registry.CreateBuffer(gpu.BufferDescription{Size: 64, Usage: core1_0.BufferUsageIndirectBuffer}, LifetimeGlobal, "Draws")
	require.NoError(t, err)

	writer := jwriter.NewWriter()
	registry.PrintDetailedMap(&writer)
	require.NoError(t, writer.Error())

	output := string(writer.Bytes())
	require.Contains(t, output, `"Name":"Color"`)
	require.Contains(t, output, `"Label":"Color(Frame 1)"`)
	require.Contains(t, output, `"Lifetime":"PerFrame"`)
	require.Contains(t, output, `"BufferBytes":64`)
}
