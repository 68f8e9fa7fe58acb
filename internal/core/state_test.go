package core

import (
	"testing"
	"time"
)

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		name  string
		state *PlaybackState
		want  float64
	}{
		{name: "nil state", state: nil, want: 0},
		{name: "no track", state: &PlaybackState{Progress: time.Second}, want: 0},
		{
			name:  "halfway",
			state: &PlaybackState{Track: &Track{Duration: 4 * time.Minute}, Progress: 2 * time.Minute},
			want:  50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.ProgressPercent(); got != tt.want {
				t.Errorf("ProgressPercent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVolumeLevel(t *testing.T) {
	if got := (&PlaybackState{Volume: 35}).VolumeLevel(); got != 0.35 {
		t.Errorf("VolumeLevel() = %v, want 0.35", got)
	}
	var nilState *PlaybackState
	if got := nilState.VolumeLevel(); got != 0 {
		t.Errorf("nil VolumeLevel() = %v, want 0", got)
	}
	if nilState.HasTrack() {
		t.Error("nil HasTrack() = true")
	}
}

func TestDeviceControllable(t *testing.T) {
	if (&Device{IsRestricted: true}).Controllable() {
		t.Error("restricted device reported controllable")
	}
	if !(&Device{}).Controllable() {
		t.Error("unrestricted device reported not controllable")
	}
}
