package startup

import (
	"testing"
	"time"
)

func TestRecordLoadStartIsOnce(t *testing.T) {
	now := time.Unix(0, 0)
	clock := func() time.Time { return now }
	tr := New(clock)

	tr.RecordLoadStart()
	now = now.Add(time.Second)
	tr.RecordLoadStart()

	m := tr.Measurement()
	if !m.Start.Equal(time.Unix(0, 0)) {
		t.Fatalf("start = %v, want unchanged at first call", m.Start)
	}
}

func TestRecordFirstFrameRequiresStart(t *testing.T) {
	now := time.Unix(0, 0)
	clock := func() time.Time { return now }
	tr := New(clock)

	tr.RecordFirstFrame()
	m := tr.Measurement()
	if m.FirstFrame != nil {
		t.Fatal("first frame should be ignored without a prior start")
	}
}

func TestMeasurementComputesTTFF(t *testing.T) {
	now := time.Unix(0, 0)
	clock := func() time.Time { return now }
	tr := New(clock)

	tr.RecordLoadStart()
	now = now.Add(1200 * time.Millisecond)
	tr.RecordFirstFrame()

	m := tr.Measurement()
	if !m.IsComplete {
		t.Fatal("expected measurement to be complete")
	}
	if *m.TimeToFirstFrame != 1200*time.Millisecond {
		t.Fatalf("ttff = %v, want 1.2s", *m.TimeToFirstFrame)
	}
}

func TestRecordFirstFrameIsOnce(t *testing.T) {
	now := time.Unix(0, 0)
	clock := func() time.Time { return now }
	tr := New(clock)

	tr.RecordLoadStart()
	now = now.Add(time.Second)
	tr.RecordFirstFrame()
	firstTTFF := *tr.Measurement().TimeToFirstFrame

	now = now.Add(5 * time.Second)
	tr.RecordFirstFrame()
	secondTTFF := *tr.Measurement().TimeToFirstFrame

	if firstTTFF != secondTTFF {
		t.Fatalf("second RecordFirstFrame moved ttff: %v -> %v", firstTTFF, secondTTFF)
	}
}

func TestResetClears(t *testing.T) {
	now := time.Unix(0, 0)
	clock := func() time.Time { return now }
	tr := New(clock)

	tr.RecordLoadStart()
	tr.RecordFirstFrame()
	tr.Reset()

	m := tr.Measurement()
	if m.IsComplete || m.FirstFrame != nil {
		t.Fatalf("measurement after reset = %+v, want zero value", m)
	}
}
