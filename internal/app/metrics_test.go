package app

import (
	"errors"
	"testing"
	"time"
)

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()
	if m == nil {
		t.Fatal("NewMetrics() returned nil")
	}

	snapshot := m.Snapshot()
	if snapshot.Reloads != 0 || snapshot.FramesSent != 0 {
		t.Errorf("expected empty snapshot, got %+v", snapshot)
	}
	if snapshot.SinkErrorRate() != 0 {
		t.Errorf("expected 0 error rate, got %f", snapshot.SinkErrorRate())
	}
}

func TestMetrics_RecordReload(t *testing.T) {
	m := NewMetrics()

	m.RecordReload(10*time.Millisecond, nil)
	m.RecordReload(30*time.Millisecond, nil)
	m.RecordReload(5*time.Millisecond, errors.New("bad keymap"))

	snapshot := m.Snapshot()
	if snapshot.Reloads != 2 {
		t.Errorf("expected 2 reloads, got %d", snapshot.Reloads)
	}
	if snapshot.ReloadsFailed != 1 {
		t.Errorf("expected 1 failed reload, got %d", snapshot.ReloadsFailed)
	}
	if snapshot.AvgReloadNs != int64(20*time.Millisecond) {
		t.Errorf("expected avg 20ms, got %d ns", snapshot.AvgReloadNs)
	}
	if snapshot.MaxReloadNs != int64(30*time.Millisecond) {
		t.Errorf("expected max 30ms, got %d ns", snapshot.MaxReloadNs)
	}
}

func TestMetrics_RecordFrame(t *testing.T) {
	m := NewMetrics()

	m.RecordFrame(nil)
	m.RecordFrame(nil)
	m.RecordFrame(nil)
	m.RecordFrame(errors.New("device gone"))

	snapshot := m.Snapshot()
	if snapshot.FramesSent != 3 || snapshot.SinkErrors != 1 {
		t.Errorf("unexpected counts: %+v", snapshot)
	}
	if rate := snapshot.SinkErrorRate(); rate != 25 {
		t.Errorf("expected 25%% error rate, got %f", rate)
	}
}

func TestMetrics_Reset(t *testing.T) {
	m := NewMetrics()
	m.RecordRun()
	m.RecordFrame(nil)
	m.RecordReload(time.Millisecond, nil)

	m.Reset()

	snapshot := m.Snapshot()
	if snapshot.Runs != 0 || snapshot.FramesSent != 0 || snapshot.Reloads != 0 || snapshot.MaxReloadNs != 0 {
		t.Errorf("expected cleared snapshot, got %+v", snapshot)
	}
}

func TestTimer(t *testing.T) {
	timer := StartTimer()
	time.Sleep(2 * time.Millisecond)

	if timer.Elapsed() < 2*time.Millisecond {
		t.Errorf("Elapsed() = %v, want >= 2ms", timer.Elapsed())
	}
	if timer.ElapsedMs() < 2 {
		t.Errorf("ElapsedMs() = %f, want >= 2", timer.ElapsedMs())
	}
}
