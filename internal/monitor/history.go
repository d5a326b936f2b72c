package monitor

import "sort"

// DefaultHistorySize is the default number of samples retained per metric.
// At the default 1s tick this is a one-minute rolling window.
const DefaultHistorySize = 60

// HistoryBuffer is a fixed-capacity ring buffer of samples for one metric.
// Pushing at capacity evicts the oldest sample. Samples are only ever
// removed by eviction.
type HistoryBuffer struct {
	data  []MetricSample
	head  int // next write position
	count int
	size  int
}

// NewHistoryBuffer creates a buffer holding at most capacity samples.
// A non-positive capacity falls back to DefaultHistorySize.
func NewHistoryBuffer(capacity int) *HistoryBuffer {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &HistoryBuffer{
		data: make([]MetricSample, capacity),
		size: capacity,
	}
}

// Push appends a sample, evicting the oldest one when full.
func (b *HistoryBuffer) Push(s MetricSample) {
	b.data[b.head] = s
	b.head = (b.head + 1) % b.size
	if b.count < b.size {
		b.count++
	}
}

// Len returns the number of retained samples.
func (b *HistoryBuffer) Len() int {
	return b.count
}

// Cap returns the buffer capacity.
func (b *HistoryBuffer) Cap() int {
	return b.size
}

// Samples returns the retained samples in arrival order (oldest first).
func (b *HistoryBuffer) Samples() []MetricSample {
	if b.count == 0 {
		return nil
	}

	result := make([]MetricSample, b.count)
	// head points to the next write position, so the oldest retained
	// sample sits count slots behind it
	start := (b.head - b.count + b.size) % b.size
	for i := 0; i < b.count; i++ {
		result[i] = b.data[(start+i)%b.size]
	}
	return result
}

// Values returns the retained values oldest first, ready for a sparkline.
func (b *HistoryBuffer) Values() []float64 {
	if b.count == 0 {
		return nil
	}

	result := make([]float64, b.count)
	start := (b.head - b.count + b.size) % b.size
	for i := 0; i < b.count; i++ {
		result[i] = b.data[(start+i)%b.size].Value
	}
	return result
}

// Last returns the newest sample, if any.
func (b *HistoryBuffer) Last() (MetricSample, bool) {
	if b.count == 0 {
		return MetricSample{}, false
	}
	return b.data[(b.head-1+b.size)%b.size], true
}

// History holds one HistoryBuffer per metric key.
// It is owned by DashboardState and, like it, is not safe for concurrent use.
type History struct {
	size    int
	buffers map[MetricKey]*HistoryBuffer
}

// NewHistory creates a history whose buffers hold size samples each.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		size:    size,
		buffers: make(map[MetricKey]*HistoryBuffer),
	}
}

// Size returns the per-metric capacity.
func (h *History) Size() int {
	return h.size
}

// Push appends a sample to the buffer for key, creating it if needed.
func (h *History) Push(key MetricKey, s MetricSample) {
	buf, ok := h.buffers[key]
	if !ok {
		buf = NewHistoryBuffer(h.size)
		h.buffers[key] = buf
	}
	buf.Push(s)
}

// Buffer returns the buffer for key, or nil if nothing was pushed yet.
func (h *History) Buffer(key MetricKey) *HistoryBuffer {
	return h.buffers[key]
}

// Values returns the retained values for key, oldest first.
func (h *History) Values(key MetricKey) []float64 {
	buf, ok := h.buffers[key]
	if !ok {
		return nil
	}
	return buf.Values()
}

// Forget drops the buffer for key.
func (h *History) Forget(key MetricKey) {
	delete(h.buffers, key)
}

// Keys returns all tracked keys in sorted order.
func (h *History) Keys() []MetricKey {
	keys := make([]MetricKey, 0, len(h.buffers))
	for k := range h.buffers {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
