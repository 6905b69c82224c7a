package resource

import (
	"fmt"
	"log/slog"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// Statistics counts the live logical resources and physical instances of a Registry
type Statistics struct {
	GlobalCount   int
	PerFrameCount int
	ExternalCount int

	ImageCount     int
	ImageViewCount int
	BufferCount    int
	BufferBytes    int
}

func (s *Statistics) Clear() {
	s.GlobalCount = 0
	s.PerFrameCount = 0
	s.ExternalCount = 0
	s.ImageCount = 0
	s.ImageViewCount = 0
	s.BufferCount = 0
	s.BufferBytes = 0
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.GlobalCount += other.GlobalCount
	s.PerFrameCount += other.PerFrameCount
	s.ExternalCount += other.ExternalCount
	s.ImageCount += other.ImageCount
	s.ImageViewCount += other.ImageViewCount
	s.BufferCount += other.BufferCount
	s.BufferBytes += other.BufferBytes
}

func (s *Statistics) printJson(json *jwriter.ObjectState) {
	json.Name("Global").Int(s.GlobalCount)
	json.Name("PerFrame").Int(s.PerFrameCount)
	json.Name("External").Int(s.ExternalCount)
	json.Name("Images").Int(s.ImageCount)
	json.Name("ImageViews").Int(s.ImageViewCount)
	json.Name("Buffers").Int(s.BufferCount)
	json.Name("BufferBytes").Int(s.BufferBytes)
}

// Statistics counts everything the registry currently holds
func (r *Registry) Statistics() Statistics {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var stats Statistics
	stats.Clear()

	for _, listKey := range r.lists.keys() {
		list, _ := r.lists.get(listKey)
		switch list.lifetime {
		case LifetimeGlobal:
			stats.GlobalCount++
		case LifetimePerFrame:
			stats.PerFrameCount++
		case LifetimeExternal:
			stats.ExternalCount++
		}
	}

	stats.ImageCount = r.images.len()
	stats.ImageViewCount = r.views.len()
	stats.BufferCount = r.buffers.len()
	for _, key := range r.buffers.keys() {
		buffer, _ := r.buffers.get(key)
		stats.BufferBytes += buffer.Description.Size
	}

	return stats
}

// PrintDetailedMap writes a json object describing every logical resource and its instances
func (r *Registry) PrintDetailedMap(writer *jwriter.Writer) {
	r.logger.Debug("Registry::PrintDetailedMap")

	stats := r.Statistics()

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	objState := writer.Object()
	defer objState.End()

	statsObj := objState.Name("Statistics").Object()
	stats.printJson(&statsObj)
	statsObj.End()

	arrayState := objState.Name("Resources").Array()
	defer arrayState.End()

	for _, listKey := range r.lists.keys() {
		list, _ := r.lists.get(listKey)

		obj := arrayState.Object()
		obj.Name("Name").String(list.name)
		obj.Name("Kind").String(list.kind.String())
		obj.Name("Lifetime").String(list.lifetime.String())
		r.printInstances(list, &obj)
		obj.End()
	}
}

func (r *Registry) printInstances(list *instanceList, json *jwriter.ObjectState) {
	instances := json.Name("Instances").Array()
	defer instances.End()

	for _, member := range list.members {
		obj := instances.Object()

		switch list.kind {
		case KindImage:
			image, ok := r.images.get(member)
			if !ok {
				r.logger.Error("registry references a destroyed image", slog.String("instance", member.String()))
				break
			}
			obj.Name("Handle").String(fmt.Sprintf("%#x", uint64(image.Handle)))
			obj.Name("Label").String(image.Label)
			obj.Name("Width").Int(image.Description.Extent.Width)
			obj.Name("Height").Int(image.Description.Extent.Height)
		case KindImageView:
			view, ok := r.views.get(member)
			if !ok {
				r.logger.Error("registry references a destroyed image view", slog.String("instance", member.String()))
				break
			}
			obj.Name("Handle").String(fmt.Sprintf("%#x", uint64(view.Handle)))
			obj.Name("Label").String(view.Label)
		case KindBuffer:
			buffer, ok := r.buffers.get(member)
			if !ok {
				r.logger.Error("registry references a destroyed buffer", slog.String("instance", member.String()))
				break
			}
			obj.Name("Handle").String(fmt.Sprintf("%#x", uint64(buffer.Handle)))
			obj.Name("Label").String(buffer.Label)
			obj.Name("Size").Int(buffer.Description.Size)
		}

		obj.End()
	}
}
