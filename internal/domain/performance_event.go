package domain

// PerformanceEventKind tags a PerformanceEvent variant.
type PerformanceEventKind int

const (
	EventLoadStarted PerformanceEventKind = iota
	EventFirstFrameRendered
	EventBufferingStarted
	EventBufferingEnded
	EventPlaybackStalled
	EventPlaybackResumed
	EventQualityChanged
	EventMemoryWarning
	EventNetworkChanged
	EventBytesTransferred
)

// PerformanceEvent is the tagged-variant union record_event dispatches on.
// Only the fields relevant to Kind are meaningful.
type PerformanceEvent struct {
	Kind PerformanceEventKind

	DurationSeconds float64             // EventBufferingEnded, EventBytesTransferred
	BitsPerSecond   uint32              // EventQualityChanged
	MemoryLevel     MemoryPressureLevel // EventMemoryWarning
	NetworkQuality  NetworkQuality      // EventNetworkChanged
	Bytes           uint64              // EventBytesTransferred
}

func LoadStarted() PerformanceEvent { return PerformanceEvent{Kind: EventLoadStarted} }
func FirstFrameRendered() PerformanceEvent {
	return PerformanceEvent{Kind: EventFirstFrameRendered}
}
func BufferingStartedEvent() PerformanceEvent {
	return PerformanceEvent{Kind: EventBufferingStarted}
}
func BufferingEndedEvent(durationSeconds float64) PerformanceEvent {
	return PerformanceEvent{Kind: EventBufferingEnded, DurationSeconds: durationSeconds}
}
func PlaybackStalledEvent() PerformanceEvent {
	return PerformanceEvent{Kind: EventPlaybackStalled}
}
func PlaybackResumedEvent() PerformanceEvent {
	return PerformanceEvent{Kind: EventPlaybackResumed}
}
func QualityChangedEvent(bps uint32) PerformanceEvent {
	return PerformanceEvent{Kind: EventQualityChanged, BitsPerSecond: bps}
}
func MemoryWarningEvent(level MemoryPressureLevel) PerformanceEvent {
	return PerformanceEvent{Kind: EventMemoryWarning, MemoryLevel: level}
}
func NetworkChangedEvent(q NetworkQuality) PerformanceEvent {
	return PerformanceEvent{Kind: EventNetworkChanged, NetworkQuality: q}
}
func BytesTransferredEvent(bytes uint64, durationSeconds float64) PerformanceEvent {
	return PerformanceEvent{Kind: EventBytesTransferred, Bytes: bytes, DurationSeconds: durationSeconds}
}
