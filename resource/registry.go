package resource

import (
	"fmt"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/framegraph/gpu"
	"github.com/vkngwrapper/framegraph/internal/utils"
)

// Image is one physical image instance
type Image struct {
	Handle      gpu.ImageHandle
	Description gpu.ImageDescription
	Label       string
	owned       bool
}

// Owned reports whether the registry created this image and will destroy it
func (i *Image) Owned() bool {
	return i.owned
}

// ImageView is one physical image view instance
type ImageView struct {
	Handle      gpu.ImageViewHandle
	Image       gpu.ImageHandle
	Description gpu.ImageViewDescription
	Label       string
	owned       bool
}

func (v *ImageView) Owned() bool {
	return v.owned
}

// Buffer is one physical buffer instance. Buffers are always owned.
type Buffer struct {
	Handle      gpu.BufferHandle
	Description gpu.BufferDescription
	Label       string
}

// instanceList is the logical entry a CompositeKey points at. Global entries have exactly one member.
type instanceList struct {
	kind     Kind
	lifetime Lifetime
	name     string
	members  []Key
}

// Registry owns every physical image, image view and buffer the framegraph creates, and tracks
// the foreign instances registered as external. Physical instances live in generational arenas;
// consumers only ever hold CompositeKeys.
type Registry struct {
	logger     *slog.Logger
	device     gpu.Device
	labeler    gpu.Labeler
	frameCount int

	mutex utils.OptionalRWMutex

	images  arena[Image]
	views   arena[ImageView]
	buffers arena[Buffer]
	lists   arena[instanceList]
}

// New creates a Registry that creates its resources through the provided device
func New(logger *slog.Logger, device gpu.Device, options CreateOptions) (*Registry, error) {
	if logger == nil {
		return nil, errors.New("logger must not be nil")
	}
	if device == nil {
		return nil, errors.New("device must not be nil")
	}

	err := options.validate()
	if err != nil {
		return nil, err
	}

	logger.Debug("Registry::New", slog.String("Flags", options.Flags.String()), slog.Int("FrameCount", options.FrameCount))

	registry := &Registry{
		logger:     logger,
		device:     device,
		frameCount: options.FrameCount,
		mutex: utils.OptionalRWMutex{
			UseMutex: options.Flags&RegistryCreateExternallySynchronized == 0,
		},
	}

	if options.Flags&RegistryCreateDebugLabels != 0 {
		registry.labeler, _ = device.(gpu.Labeler)
	}

	return registry, nil
}

// FrameCount is the number of instances each PerFrame resource is replicated into
func (r *Registry) FrameCount() int {
	return r.frameCount
}

func (r *Registry) replicationCount(lifetime Lifetime) (int, error) {
	switch lifetime {
	case LifetimeGlobal:
		return 1, nil
	case LifetimePerFrame:
		return r.frameCount, nil
	case LifetimeExternal:
		return 0, errors.Wrap(ErrExternalResource, "external resources must be registered, not created")
	}

	return 0, errors.Newf("unknown lifetime %s", lifetime)
}

func (r *Registry) instanceLabel(name string, lifetime Lifetime, index int) string {
	if lifetime == LifetimePerFrame {
		return fmt.Sprintf("%s(Frame %d)", name, index)
	}
	return name
}

func (r *Registry) applyLabel(kind gpu.ObjectKind, handle uint64, label string) {
	if r.labeler == nil {
		return
	}

	err := r.labeler.SetObjectLabel(kind, handle, label)
	if err != nil {
		r.logger.Warn("failed to set debug label", slog.String("kind", kind.String()), slog.String("label", label), slog.Any("error", err))
	}
}

func (r *Registry) insertList(kind Kind, lifetime Lifetime, name string, members []Key) CompositeKey {
	key := r.lists.insert(instanceList{
		kind:     kind,
		lifetime: lifetime,
		name:     name,
		members:  members,
	})

	return CompositeKey{kind: kind, lifetime: lifetime, key: key}
}

// CreateImage creates a logical image with one instance for Global lifetime or one instance per
// frame slot for PerFrame lifetime. If any instance fails to be created, the instances already
// created for this call are destroyed before the error is returned.
func (r *Registry) CreateImage(desc gpu.ImageDescription, lifetime Lifetime, name string) (CompositeKey, error) {
	r.logger.Debug("Registry::CreateImage", slog.String("name", name), slog.String("lifetime", lifetime.String()))

	count, err := r.replicationCount(lifetime)
	if err != nil {
		return CompositeKey{}, err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	members := make([]Key, 0, count)
	for i := 0; i < count; i++ {
		label := r.instanceLabel(name, lifetime, i)

		handle, err := r.device.CreateImage(desc)
		if err != nil {
			err = errors.Wrapf(err, "failed to create image %s", label)
			return CompositeKey{}, errors.CombineErrors(err, r.destroyMembers(KindImage, members))
		}

		r.applyLabel(gpu.ObjectImage, uint64(handle), label)
		members = append(members, r.images.insert(Image{
			Handle:      handle,
			Description: desc,
			Label:       label,
			owned:       true,
		}))
	}

	return r.insertList(KindImage, lifetime, name, members), nil
}

// CreateImageView creates one view for every instance of an owned logical image. The view key
// shares the image key's lifetime, and view i always views image instance i.
func (r *Registry) CreateImageView(image CompositeKey, desc gpu.ImageViewDescription, name string) (CompositeKey, error) {
	r.logger.Debug("Registry::CreateImageView", slog.String("name", name), slog.String("image", image.String()))

	r.mutex.Lock()
	defer r.mutex.Unlock()

	imageList, err := r.list(image, KindImage)
	if err != nil {
		return CompositeKey{}, err
	}
	if imageList.lifetime == LifetimeExternal {
		return CompositeKey{}, errors.Wrapf(ErrExternalResource, "cannot create owned views of %s", image)
	}

	members := make([]Key, 0, len(imageList.members))
	for i, imageKey := range imageList.members {
		label := r.instanceLabel(name, imageList.lifetime, i)
		imageEntry, _ := r.images.get(imageKey)

		handle, err := r.device.CreateImageView(imageEntry.Handle, desc)
		if err != nil {
			err = errors.Wrapf(err, "failed to create image view %s", label)
			return CompositeKey{}, errors.CombineErrors(err, r.destroyMembers(KindImageView, members))
		}

		r.applyLabel(gpu.ObjectImageView, uint64(handle), label)
		members = append(members, r.views.insert(ImageView{
			Handle:      handle,
			Image:       imageEntry.Handle,
			Description: desc,
			Label:       label,
			owned:       true,
		}))
	}

	return r.insertList(KindImageView, imageList.lifetime, name, members), nil
}

// CreateBuffer creates a logical buffer with one instance for Global lifetime or one instance per
// frame slot for PerFrame lifetime
func (r *Registry) CreateBuffer(desc gpu.BufferDescription, lifetime Lifetime, name string) (CompositeKey, error) {
	r.logger.Debug("Registry::CreateBuffer", slog.String("name", name), slog.String("lifetime", lifetime.String()), slog.Int("size", desc.Size))

	count, err := r.replicationCount(lifetime)
	if err != nil {
		return CompositeKey{}, err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	members := make([]Key, 0, count)
	for i := 0; i < count; i++ {
		label := r.instanceLabel(name, lifetime, i)

		handle, err := r.device.CreateBuffer(desc)
		if err != nil {
			err = errors.Wrapf(err, "failed to create buffer %s", label)
			return CompositeKey{}, errors.CombineErrors(err, r.destroyMembers(KindBuffer, members))
		}

		r.applyLabel(gpu.ObjectBuffer, uint64(handle), label)
		members = append(members, r.buffers.insert(Buffer{
			Handle:      handle,
			Description: desc,
			Label:       label,
		}))
	}

	return r.insertList(KindBuffer, lifetime, name, members), nil
}

// RegisterExternalImages records a list of foreign images and their views, such as the images of
// a presentation surface. The registry never destroys them.
func (r *Registry) RegisterExternalImages(images []gpu.ImageHandle, views []gpu.ImageViewHandle, desc gpu.ImageDescription, name string) (imageKey CompositeKey, viewKey CompositeKey, err error) {
	r.logger.Debug("Registry::RegisterExternalImages", slog.String("name", name), slog.Int("count", len(images)))

	if len(images) == 0 {
		return CompositeKey{}, CompositeKey{}, errors.Newf("external resource %s must contain at least one image", name)
	}
	if len(views) != len(images) {
		return CompositeKey{}, CompositeKey{}, errors.Newf("external resource %s has %d images but %d views", name, len(images), len(views))
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	viewDesc := gpu.ImageViewDescription{
		Format: desc.Format,
		Range:  gpu.WholeRange(gpu.AspectForFormat(desc.Format)),
	}

	imageMembers := make([]Key, 0, len(images))
	viewMembers := make([]Key, 0, len(views))
	for i := range images {
		label := fmt.Sprintf("%s(Image %d)", name, i)
		imageMembers = append(imageMembers, r.images.insert(Image{
			Handle:      images[i],
			Description: desc,
			Label:       label,
		}))
		viewMembers = append(viewMembers, r.views.insert(ImageView{
			Handle:      views[i],
			Image:       images[i],
			Description: viewDesc,
			Label:       label,
		}))
	}

	imageKey = r.insertList(KindImage, LifetimeExternal, name, imageMembers)
	viewKey = r.insertList(KindImageView, LifetimeExternal, name, viewMembers)
	return imageKey, viewKey, nil
}

func (r *Registry) list(key CompositeKey, kind Kind) (*instanceList, error) {
	if key.kind != kind {
		return nil, errors.Wrapf(ErrInvalidKey, "%s does not refer to a %s", key, kind)
	}

	list, ok := r.lists.get(key.key)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidKey, "%s does not refer to a live resource", key)
	}

	return list, nil
}

func (r *Registry) member(key CompositeKey, kind Kind, index int) (Key, error) {
	list, err := r.list(key, kind)
	if err != nil {
		return Key{}, err
	}

	if index < 0 {
		return Key{}, errors.Wrapf(ErrInvalidKey, "negative instance index %d for %s", index, key)
	}

	if list.lifetime == LifetimeGlobal {
		return list.members[0], nil
	}

	if index >= len(list.members) {
		return Key{}, errors.Wrapf(ErrInvalidKey, "instance index %d out of range for %s with %d instances", index, key, len(list.members))
	}

	return list.members[index], nil
}

// Instances returns the number of physical instances behind a key, or 0 if the key is not live
func (r *Registry) Instances(key CompositeKey) int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	list, ok := r.lists.get(key.key)
	if !ok || list.kind != key.kind {
		return 0
	}
	return len(list.members)
}

// LookupImage resolves an image key and instance index to its physical instance. Global keys
// ignore the index.
func (r *Registry) LookupImage(key CompositeKey, index int) (*Image, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	member, err := r.member(key, KindImage, index)
	if err != nil {
		return nil, err
	}

	image, _ := r.images.get(member)
	return image, nil
}

// LookupImageView resolves an image view key and instance index to its physical instance
func (r *Registry) LookupImageView(key CompositeKey, index int) (*ImageView, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	member, err := r.member(key, KindImageView, index)
	if err != nil {
		return nil, err
	}

	view, _ := r.views.get(member)
	return view, nil
}

// LookupBuffer resolves a buffer key and instance index to its physical instance
func (r *Registry) LookupBuffer(key CompositeKey, index int) (*Buffer, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	member, err := r.member(key, KindBuffer, index)
	if err != nil {
		return nil, err
	}

	buffer, _ := r.buffers.get(member)
	return buffer, nil
}

// Image is LookupImage for callers that hold keys they know to be valid. An invalid key or index
// is a programming error and panics with an error marked ErrInvalidKey.
func (r *Registry) Image(key CompositeKey, index int) *Image {
	image, err := r.LookupImage(key, index)
	if err != nil {
		panic(err)
	}
	return image
}

// ImageView is LookupImageView that panics on an invalid key or index
func (r *Registry) ImageView(key CompositeKey, index int) *ImageView {
	view, err := r.LookupImageView(key, index)
	if err != nil {
		panic(err)
	}
	return view
}

// Buffer is LookupBuffer that panics on an invalid key or index
func (r *Registry) Buffer(key CompositeKey, index int) *Buffer {
	buffer, err := r.LookupBuffer(key, index)
	if err != nil {
		panic(err)
	}
	return buffer
}

func (r *Registry) destroyMember(kind Kind, member Key) error {
	switch kind {
	case KindImage:
		image, ok := r.images.take(member)
		if !ok {
			return errors.Wrapf(ErrInvalidKey, "image instance %s was already destroyed", member)
		}
		if image.owned {
			return errors.Wrapf(r.device.DestroyImage(image.Handle), "failed to destroy image %s", image.Label)
		}
	case KindImageView:
		view, ok := r.views.take(member)
		if !ok {
			return errors.Wrapf(ErrInvalidKey, "image view instance %s was already destroyed", member)
		}
		if view.owned {
			return errors.Wrapf(r.device.DestroyImageView(view.Handle), "failed to destroy image view %s", view.Label)
		}
	case KindBuffer:
		buffer, ok := r.buffers.take(member)
		if !ok {
			return errors.Wrapf(ErrInvalidKey, "buffer instance %s was already destroyed", member)
		}
		return errors.Wrapf(r.device.DestroyBuffer(buffer.Handle), "failed to destroy buffer %s", buffer.Label)
	}

	return nil
}

func (r *Registry) destroyMembers(kind Kind, members []Key) error {
	var err error
	for _, member := range members {
		err = errors.CombineErrors(err, r.destroyMember(kind, member))
	}
	return err
}

// Destroy removes a logical resource and destroys every owned instance behind it. External
// resources are released without being destroyed. A key can be destroyed only once; later calls
// fail with ErrInvalidKey.
func (r *Registry) Destroy(key CompositeKey) error {
	r.logger.Debug("Registry::Destroy", slog.String("key", key.String()))

	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.destroy(key)
}

func (r *Registry) destroy(key CompositeKey) error {
	list, ok := r.lists.take(key.key)
	if !ok {
		return errors.Wrapf(ErrInvalidKey, "%s was already destroyed or never existed", key)
	}

	return r.destroyMembers(list.kind, list.members)
}

// destroyWhere destroys every logical resource that matches the predicate. Views are destroyed
// before the images they view.
func (r *Registry) destroyWhere(predicate func(list *instanceList) bool) error {
	var err error
	for _, kind := range []Kind{KindImageView, KindImage, KindBuffer} {
		for _, listKey := range r.lists.keys() {
			list, _ := r.lists.get(listKey)
			if list.kind != kind || !predicate(list) {
				continue
			}

			err = errors.CombineErrors(err, r.destroy(CompositeKey{kind: list.kind, lifetime: list.lifetime, key: listKey}))
		}
	}

	return err
}

// DestroyPerFrame destroys every PerFrame resource. Global and External resources are untouched.
func (r *Registry) DestroyPerFrame() error {
	r.logger.Debug("Registry::DestroyPerFrame")

	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.destroyWhere(func(list *instanceList) bool {
		return list.lifetime == LifetimePerFrame
	})
}

// DestroyAll destroys every owned resource and releases every external one
func (r *Registry) DestroyAll() error {
	r.logger.Debug("Registry::DestroyAll")

	r.mutex.Lock()
	defer r.mutex.Unlock()

	err := r.destroyWhere(func(list *instanceList) bool {
		return true
	})
	utils.DebugValidate(r)

	return err
}

// Validate checks that every logical entry has the expected number of live instances and that no
// instance is orphaned
func (r *Registry) Validate() error {
	referenced := map[Kind]int{}

	for _, listKey := range r.lists.keys() {
		list, _ := r.lists.get(listKey)
		key := CompositeKey{kind: list.kind, lifetime: list.lifetime, key: listKey}

		switch list.lifetime {
		case LifetimeGlobal:
			if len(list.members) != 1 {
				return errors.Newf("global resource %s has %d instances", key, len(list.members))
			}
		case LifetimePerFrame:
			if len(list.members) != r.frameCount {
				return errors.Newf("per-frame resource %s has %d instances but the frame count is %d", key, len(list.members), r.frameCount)
			}
		case LifetimeExternal:
			if len(list.members) == 0 {
				return errors.Newf("external resource %s has no instances", key)
			}
		}

		for _, member := range list.members {
			var live bool
			switch list.kind {
			case KindImage:
				_, live = r.images.get(member)
			case KindImageView:
				_, live = r.views.get(member)
			case KindBuffer:
				_, live = r.buffers.get(member)
			}

			if !live {
				return errors.Newf("resource %s refers to a destroyed instance %s", key, member)
			}
		}

		referenced[list.kind] += len(list.members)
	}

	if referenced[KindImage] != r.images.len() {
		return errors.Newf("%d image instances are live but %d are referenced", r.images.len(), referenced[KindImage])
	}
	if referenced[KindImageView] != r.views.len() {
		return errors.Newf("%d image view instances are live but %d are referenced", r.views.len(), referenced[KindImageView])
	}
	if referenced[KindBuffer] != r.buffers.len() {
		return errors.Newf("%d buffer instances are live but %d are referenced", r.buffers.len(), referenced[KindBuffer])
	}

	return nil
}
