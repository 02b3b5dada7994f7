package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	streamBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "binlog",
			Subsystem: "decode",
			Name:      "stream_bytes_total",
			Help:      "Raw record-stream bytes consumed.",
		},
	)
	recordsDecoded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "binlog",
			Subsystem: "decode",
			Name:      "records_total",
			Help:      "Frames decoded from the record stream.",
		},
	)
	linesEmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "binlog",
			Subsystem: "decode",
			Name:      "lines_emitted_total",
			Help:      "Decoded lines handed to the sink.",
		},
	)
	recordErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "binlog",
			Subsystem: "decode",
			Name:      "record_errors_total",
			Help:      "Per-record decode failures by kind.",
		},
		[]string{"kind"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(streamBytes, recordsDecoded, linesEmitted, recordErrors)
	})
}

func RecordStreamBytes(n int) {
	RegisterMetrics()
	streamBytes.Add(float64(n))
}

func RecordDecoded() {
	RegisterMetrics()
	recordsDecoded.Inc()
}

func RecordLineEmitted() {
	RegisterMetrics()
	linesEmitted.Inc()
}

func RecordRecordError(kind string) {
	RegisterMetrics()
	recordErrors.WithLabelValues(kind).Inc()
}
