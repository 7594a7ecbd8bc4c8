package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "playback",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method, path and status code.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "playback",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   []float64{0.05, 0.1, 0.3, 0.5, 1, 2, 5, 10, 30},
	}, []string{"method", "path"})

	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "playback",
		Name:      "active_sessions",
		Help:      "Number of currently monitored playback sessions.",
	})

	StateTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "playback",
		Name:      "state_transitions_total",
		Help:      "Total playback state transitions by from/to state.",
	}, []string{"from", "to"})

	TransitionRejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "playback",
		Name:      "transition_rejections_total",
		Help:      "Total actions rejected by the state machine, by current state and action kind.",
	}, []string{"state", "action"})

	BitrateDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "playback",
		Name:      "bitrate_decisions_total",
		Help:      "Total ABR decisions by kind (maintain, upgrade, downgrade).",
	}, []string{"kind"})

	CurrentBitrateBps = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "playback",
		Name:      "current_bitrate_bps",
		Help:      "Currently selected bitrate ladder rung, in bits per second.",
	})

	BandwidthEstimateBps = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "playback",
		Name:      "bandwidth_estimate_bps",
		Help:      "Current smoothed bandwidth estimate, in bits per second.",
	})

	BandwidthStability = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "playback",
		Name:      "bandwidth_stability",
		Help:      "Current bandwidth stability score in [0,1]; lower means more volatile.",
	})

	BufferingEventsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "playback",
		Name:      "buffering_events_total",
		Help:      "Total rebuffering episodes observed.",
	})

	BufferingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "playback",
		Name:      "buffering_duration_seconds",
		Help:      "Duration of rebuffering episodes in seconds.",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	})

	TimeToFirstFrame = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "playback",
		Name:      "time_to_first_frame_seconds",
		Help:      "Time from load start to first rendered frame, in seconds.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 3, 5, 10},
	})

	PerformanceAlertsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "playback",
		Name:      "performance_alerts_total",
		Help:      "Total performance alerts emitted by type and severity.",
	}, []string{"type", "severity"})

	AlertsDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "playback",
		Name:      "alerts_dropped_total",
		Help:      "Total performance alerts dropped because a subscriber's channel was full.",
	})

	PreloadTasksActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "playback",
		Name:      "preload_tasks_active",
		Help:      "Number of in-flight preload fetch tasks.",
	})

	PreloadTasksStartedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "playback",
		Name:      "preload_tasks_started_total",
		Help:      "Total preload tasks started, by priority.",
	}, []string{"priority"})

	PreloadTasksCancelledTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "playback",
		Name:      "preload_tasks_cancelled_total",
		Help:      "Total preload tasks cancelled, either superseded or explicitly stopped.",
	})

	MemoryPressureLevel = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "playback",
		Name:      "memory_pressure_level",
		Help:      "Current memory pressure level: 0=normal, 1=warning, 2=critical.",
	})

	MemoryCleanupsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "playback",
		Name:      "memory_cleanups_total",
		Help:      "Total times registered cleanup callbacks fired in response to rising memory pressure.",
	})
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		ActiveSessions,
		StateTransitionsTotal,
		TransitionRejectionsTotal,
		BitrateDecisionsTotal,
		CurrentBitrateBps,
		BandwidthEstimateBps,
		BandwidthStability,
		BufferingEventsTotal,
		BufferingDuration,
		TimeToFirstFrame,
		PerformanceAlertsTotal,
		AlertsDroppedTotal,
		PreloadTasksActive,
		PreloadTasksStartedTotal,
		PreloadTasksCancelledTotal,
		MemoryPressureLevel,
		MemoryCleanupsTotal,
	)
}
