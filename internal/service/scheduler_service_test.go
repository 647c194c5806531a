package service

import (
	"testing"
	"time"
)

func TestBuildDailySpec(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "09:30", want: "0 30 9 * * *"},
		{in: "0:0", want: "0 0 0 * * *"},
		{in: "23:59", want: "0 59 23 * * *"},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "12", wantErr: true},
		{in: "12:5:0", wantErr: true},
	}
	for _, tt := range tests {
		got, err := buildDailySpec(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("buildDailySpec(%q) = %q, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("buildDailySpec(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("buildDailySpec(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScheduleIntervalRejectsNonPositive(t *testing.T) {
	scheduler := NewSchedulerService(time.UTC)
	if _, err := scheduler.ScheduleInterval(0, func() {}); err == nil {
		t.Error("ScheduleInterval(0) accepted")
	}
	if _, err := scheduler.ScheduleInterval(-time.Hour, func() {}); err == nil {
		t.Error("ScheduleInterval(-1h) accepted")
	}
}

func TestScheduleIntervalFires(t *testing.T) {
	scheduler := NewSchedulerService(time.UTC)
	fired := make(chan struct{}, 1)
	if _, err := scheduler.ScheduleInterval(time.Second, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	}); err != nil {
		t.Fatalf("ScheduleInterval: %v", err)
	}

	scheduler.Start()
	defer scheduler.Stop()

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("interval job never fired")
	}
}
