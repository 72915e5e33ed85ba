package stream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	startTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rigd",
		Subsystem: "stream",
		Name:      "process_starts_total",
		Help:      "Capture process start attempts by result",
	}, []string{"source", "result"})

	exitTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rigd",
		Subsystem: "stream",
		Name:      "process_exits_total",
		Help:      "Capture process exits",
	}, []string{"source"})

	chunksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rigd",
		Subsystem: "stream",
		Name:      "chunks_total",
		Help:      "Raw stdout chunks observed",
	}, []string{"source"})

	bytesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rigd",
		Subsystem: "stream",
		Name:      "bytes_total",
		Help:      "Raw stdout bytes observed",
	}, []string{"source"})
)
