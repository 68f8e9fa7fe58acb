package cli

import (
	"strings"
	"testing"
)

func TestSetConfigValue(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		want    any
		wantErr string
	}{
		{name: "string", key: "defaults.device", value: "Kitchen", want: "Kitchen"},
		{name: "int", key: "bridge.poll_interval", value: "250", want: int64(250)},
		{name: "unknown key", key: "player.room", value: "x", wantErr: "unknown key"},
		{name: "not an int", key: "api.timeout", value: "soon", wantErr: "must be an integer"},
		{name: "fails validation", key: "defaults.volume", value: "101", wantErr: "volume must be between"},
		{name: "bad repeat", key: "defaults.repeat", value: "album", wantErr: "invalid repeat mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := map[string]any{
				"spotify": map[string]any{"client_id": "abc"},
			}
			err := setConfigValue(raw, tt.key, tt.value)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("setConfigValue() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("setConfigValue() error = %v", err)
			}

			section, field, _ := strings.Cut(tt.key, ".")
			if got := raw[section].(map[string]any)[field]; got != tt.want {
				t.Errorf("%s = %#v, want %#v", tt.key, got, tt.want)
			}
			if raw["spotify"].(map[string]any)["client_id"] != "abc" {
				t.Error("unrelated key was lost")
			}
		})
	}
}
