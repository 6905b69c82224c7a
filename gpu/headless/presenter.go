package headless

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/framegraph/gpu"
)

// Presentation is the record of one Presenter.Present
type Presentation struct {
	Image      int
	Slot       int
	Submission int
}

// Presenter is a simulated presentation surface with a fixed number of images that are handed out
// round-robin
type Presenter struct {
	device *Device
	format core1_0.Format
	extent core1_0.Extent2D
	count  int

	images    []gpu.ImageHandle
	views     []gpu.ImageViewHandle
	next      int
	destroyed bool

	presentations []Presentation
	recreations   int

	// OutOfDate, when set, causes the next Acquire to fail with gpu.ErrOutOfDate
	OutOfDate bool
}

var _ gpu.Presenter = &Presenter{}

func NewPresenter(device *Device, format core1_0.Format, extent core1_0.Extent2D, imageCount int) (*Presenter, error) {
	if imageCount < 1 {
		return nil, errors.Newf("a presenter needs at least one image, but %d were requested", imageCount)
	}

	presenter := &Presenter{
		device: device,
		format: format,
		count:  imageCount,
	}
	presenter.createImages(extent)
	return presenter, nil
}

func (p *Presenter) createImages(extent core1_0.Extent2D) {
	p.device.mutex.Lock()
	defer p.device.mutex.Unlock()

	p.extent = extent
	p.next = 0
	p.images = make([]gpu.ImageHandle, 0, p.count)
	p.views = make([]gpu.ImageViewHandle, 0, p.count)
	for i := 0; i < p.count; i++ {
		p.images = append(p.images, gpu.ImageHandle(p.device.allocateHandle()))
		p.views = append(p.views, gpu.ImageViewHandle(p.device.allocateHandle()))
	}
}

func (p *Presenter) Images() []gpu.ImageHandle {
	return p.images
}

func (p *Presenter) Views() []gpu.ImageViewHandle {
	return p.views
}

func (p *Presenter) Format() core1_0.Format {
	return p.format
}

func (p *Presenter) Extent() core1_0.Extent2D {
	return p.extent
}

func (p *Presenter) Acquire(sync gpu.FrameSync) (int, error) {
	if p.destroyed {
		return -1, errors.New("presenter was destroyed")
	}
	if p.OutOfDate {
		p.OutOfDate = false
		return -1, gpu.ErrOutOfDate
	}

	frameSync, ok := sync.(*FrameSync)
	if !ok {
		return -1, errors.Newf("headless presenter cannot acquire with a %T", sync)
	}

	p.device.mutex.Lock()
	frameSync.presentable = true
	p.device.mutex.Unlock()

	index := p.next
	p.next = (p.next + 1) % p.count
	return index, nil
}

func (p *Presenter) Present(sync gpu.FrameSync, index int) error {
	if index < 0 || index >= p.count {
		return errors.Newf("presentation image index %d out of range", index)
	}

	frameSync, ok := sync.(*FrameSync)
	if !ok {
		return errors.Newf("headless presenter cannot present with a %T", sync)
	}

	p.device.mutex.Lock()
	defer p.device.mutex.Unlock()

	if !frameSync.pending {
		return errors.Newf("presentation image %d presented before its frame was submitted", index)
	}

	p.presentations = append(p.presentations, Presentation{
		Image:      index,
		Slot:       frameSync.slot,
		Submission: len(p.device.submissions) - 1,
	})
	return nil
}

func (p *Presenter) Recreate(extent core1_0.Extent2D) error {
	if p.destroyed {
		return errors.New("presenter was destroyed")
	}

	p.recreations++
	p.createImages(extent)
	return nil
}

func (p *Presenter) Destroy() error {
	if p.destroyed {
		return errors.New("presenter was already destroyed")
	}
	p.destroyed = true
	return nil
}

// Presentations returns every presentation made so far, in order
func (p *Presenter) Presentations() []Presentation {
	return append([]Presentation(nil), p.presentations...)
}

// Recreations is the number of times Recreate has been called
func (p *Presenter) Recreations() int {
	return p.recreations
}
