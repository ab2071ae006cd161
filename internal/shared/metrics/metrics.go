package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

type counter struct {
	name string
	help string
	v    atomic.Uint64
}

var (
	uploadsTotal      = &counter{name: "image_uploads_total", help: "Total images stored"}
	uploadBytesTotal  = &counter{name: "image_upload_bytes_total", help: "Total bytes written by uploads"}
	fetchTotal        = &counter{name: "image_fetch_total", help: "Total image fetch requests"}
	fetchMissTotal    = &counter{name: "image_fetch_miss_total", help: "Image fetch requests that found nothing"}
	archiveBuiltTotal = &counter{name: "archive_built_total", help: "Total zip archives built"}

	counters = []*counter{uploadsTotal, uploadBytesTotal, fetchTotal, fetchMissTotal, archiveBuiltTotal}

	uploadSize = newHistogram("image_upload_size_bytes", "Size of stored uploads in bytes",
		[]float64{1 << 10, 16 << 10, 128 << 10, 1 << 20, 4 << 20, 16 << 20, 64 << 20})
	archiveDuration = newHistogram("archive_build_duration_ms", "Archive build duration in milliseconds",
		[]float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000})

	histograms = []*histogram{uploadSize, archiveDuration}
)

// IncUpload records one stored upload of n bytes.
func IncUpload(n int64) {
	uploadsTotal.v.Add(1)
	if n < 0 {
		n = 0
	}
	uploadBytesTotal.v.Add(uint64(n))
	uploadSize.Observe(float64(n))
}

// IncFetch records a fetch; hit reports whether the image was found.
func IncFetch(hit bool) {
	fetchTotal.v.Add(1)
	if !hit {
		fetchMissTotal.v.Add(1)
	}
}

// ObserveArchiveBuilt counts one archive and records how long it took.
func ObserveArchiveBuilt(d time.Duration) {
	archiveBuiltTotal.v.Add(1)
	ms := float64(d.Microseconds()) / 1000.0
	if ms < 0 {
		ms = 0
	}
	archiveDuration.Observe(ms)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	for _, c := range counters {
		writeCounter(&buf, c.name, c.help, c.v.Load())
	}
	for _, h := range histograms {
		writeHistogram(&buf, h.name, h.help, h.Snapshot())
	}
	return buf.String()
}

type histogram struct {
	name string
	help string

	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(name, help string, buckets []float64) *histogram {
	return &histogram{
		name:    name,
		help:    help,
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe stores value in the first bucket whose bound holds it.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

// writeHistogram emits cumulative buckets; counts hold per-bucket hits.
func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
