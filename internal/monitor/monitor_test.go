package monitor

import (
	"testing"
	"time"

	"github.com/streamcore/playback/internal/domain"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time { return f.t }
func (f *fakeClock) set(seconds float64) {
	f.t = time.Unix(0, 0).Add(time.Duration(seconds * float64(time.Second)))
}

func TestSnapshotTracksStartupAndBitrateEvents(t *testing.T) {
	clk := &fakeClock{}
	clk.set(0)
	m := New(domain.DefaultThresholds(), clk.now)
	m.StartMonitoring("S")

	alerts := m.Alerts()
	defer alerts.Unsubscribe()
	snaps := m.Snapshots()
	defer snaps.Unsubscribe()

	m.RecordEvent(domain.LoadStarted())
	<-snaps.C

	clk.set(1.2)
	m.RecordEvent(domain.FirstFrameRendered())
	snap := <-snaps.C
	if snap.TimeToFirstFrame == nil || *snap.TimeToFirstFrame != 1200*time.Millisecond {
		t.Fatalf("ttff = %v, want 1.2s", snap.TimeToFirstFrame)
	}

	select {
	case a := <-alerts.C:
		t.Fatalf("expected no alert for a 1.2s startup, got %+v", a)
	default:
	}

	m.RecordEvent(domain.BytesTransferredEvent(1_000_000, 1))
	snap = <-snaps.C
	if snap.CurrentBitrate != nil {
		t.Fatalf("current bitrate should be unchanged (no QualityChanged), got %v", *snap.CurrentBitrate)
	}

	clk.set(1.3)
	m.RecordEvent(domain.NetworkChangedEvent(domain.NetworkGood))
	<-snaps.C
}

func TestSlowStartupRaisesWarningAlert(t *testing.T) {
	clk := &fakeClock{}
	clk.set(0)
	thresholds := domain.PerformanceThresholds{WarningStartupTime: 2 * time.Second, CriticalStartupTime: 4 * time.Second}
	m := New(thresholds, clk.now)
	m.StartMonitoring("S")

	alerts := m.Alerts()
	defer alerts.Unsubscribe()
	snaps := m.Snapshots()
	defer snaps.Unsubscribe()

	m.RecordEvent(domain.LoadStarted())
	<-snaps.C

	clk.set(3.0)
	m.RecordEvent(domain.FirstFrameRendered())
	<-snaps.C

	select {
	case a := <-alerts.C:
		if a.Type != domain.AlertSlowStartup || a.Severity != domain.SeverityWarning {
			t.Fatalf("alert = %+v, want SlowStartup/Warning", a)
		}
		if a.StartupDuration != 3*time.Second {
			t.Fatalf("startup duration = %v, want 3s", a.StartupDuration)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a SlowStartup alert")
	}
}

func TestThirdBufferingStartWithinWindowRaisesFrequentRebufferingAlert(t *testing.T) {
	clk := &fakeClock{}
	clk.set(0)
	thresholds := domain.PerformanceThresholds{MaxBufferingEventsPerMinute: 2, CriticalRebufferingRatio: 0.05}
	m := New(thresholds, clk.now)
	m.StartMonitoring("S")

	alerts := m.Alerts()
	defer alerts.Unsubscribe()
	snaps := m.Snapshots()
	defer snaps.Unsubscribe()

	elapsed := 0.0
	for i := 0; i < 3; i++ {
		m.RecordEvent(domain.BufferingStartedEvent())
		<-snaps.C
		elapsed += 0.5
		clk.set(elapsed)
		m.RecordEvent(domain.BufferingEndedEvent(0.5))
		<-snaps.C
		elapsed += 10
		clk.set(elapsed)
	}

	var sawFrequent bool
	for {
		select {
		case a := <-alerts.C:
			if a.Type == domain.AlertFrequentRebuffering && a.Severity == domain.SeverityWarning {
				sawFrequent = true
			}
		default:
			goto done
		}
	}
done:
	if !sawFrequent {
		t.Fatal("expected a FrequentRebuffering alert after the third BufferingStarted")
	}
}

func TestStopMonitoringDropsEvents(t *testing.T) {
	clk := &fakeClock{}
	clk.set(0)
	m := New(domain.DefaultThresholds(), clk.now)
	m.StartMonitoring("S")
	m.StopMonitoring()

	snaps := m.Snapshots()
	defer snaps.Unsubscribe()

	m.RecordEvent(domain.LoadStarted())
	select {
	case s := <-snaps.C:
		t.Fatalf("expected no snapshot after StopMonitoring, got %+v", s)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestQualityDowngradeAlert(t *testing.T) {
	clk := &fakeClock{}
	clk.set(0)
	m := New(domain.DefaultThresholds(), clk.now)
	m.StartMonitoring("S")

	alerts := m.Alerts()
	defer alerts.Unsubscribe()
	snaps := m.Snapshots()
	defer snaps.Unsubscribe()

	m.RecordEvent(domain.QualityChangedEvent(3_000_000))
	<-snaps.C
	m.RecordEvent(domain.QualityChangedEvent(1_000_000))
	<-snaps.C

	select {
	case a := <-alerts.C:
		if a.Type != domain.AlertQualityDowngrade {
			t.Fatalf("alert type = %v, want QualityDowngrade", a.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a QualityDowngrade alert for a >25% drop")
	}
}

func TestRebufferingRatioZeroWhenSessionDurationZero(t *testing.T) {
	clk := &fakeClock{}
	clk.set(0)
	m := New(domain.DefaultThresholds(), clk.now)
	m.StartMonitoring("S")

	snap := m.buildSnapshot()
	if snap.RebufferingRatio() != 0 {
		t.Fatalf("ratio = %v, want 0 when session duration is 0", snap.RebufferingRatio())
	}
}
