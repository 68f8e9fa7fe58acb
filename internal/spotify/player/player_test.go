package player

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/tessro/spotconnect/internal/core"
	"github.com/tessro/spotconnect/internal/spotify/client"
)

type call struct {
	method string
	path   string
	query  string
	body   string
}

// newTestPlayer returns a player backed by a fake Web API that records calls
// and answers with respond (204 when respond is nil).
func newTestPlayer(t *testing.T, respond http.HandlerFunc) (*Player, func() []call) {
	t.Helper()
	var mu sync.Mutex
	var calls []call
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, call{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, body: string(body)})
		mu.Unlock()
		if respond == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		respond(w, r)
	}))
	t.Cleanup(srv.Close)

	c := client.New(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok"}), client.WithBaseURL(srv.URL))
	return New(c), func() []call {
		mu.Lock()
		defer mu.Unlock()
		return append([]call(nil), calls...)
	}
}

func TestSetPlaying(t *testing.T) {
	tests := []struct {
		name    string
		device  client.Optional[string]
		playing bool
		want    []call
	}{
		{
			name:    "play on device transfers first",
			device:  client.OnDevice("dev1"),
			playing: true,
			want: []call{
				{method: "PUT", path: "/me/player", body: `{"device_ids":["dev1"],"play":true}`},
				{method: "PUT", path: "/me/player/play", query: "device_id=dev1", body: "{}"},
			},
		},
		{
			name:    "play everywhere",
			device:  client.ActiveDevice,
			playing: true,
			want:    []call{{method: "PUT", path: "/me/player/play", body: "{}"}},
		},
		{
			name:    "pause on device",
			device:  client.OnDevice("dev1"),
			playing: false,
			want:    []call{{method: "PUT", path: "/me/player/pause", query: "device_id=dev1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, calls := newTestPlayer(t, nil)
			if err := p.WithDevice(tt.device).SetPlaying(context.Background(), tt.playing); err != nil {
				t.Fatalf("SetPlaying() error = %v", err)
			}
			got := calls()
			if len(got) != len(tt.want) {
				t.Fatalf("calls = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("call %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSetVolumeLevel(t *testing.T) {
	p, calls := newTestPlayer(t, nil)
	if err := p.SetVolumeLevel(context.Background(), 0.456); err != nil {
		t.Fatalf("SetVolumeLevel() error = %v", err)
	}
	got := calls()
	if len(got) != 1 || got[0].path != "/me/player/volume" || got[0].query != "volume_percent=46" {
		t.Errorf("calls = %+v", got)
	}
}

func TestSetRepeat(t *testing.T) {
	p, calls := newTestPlayer(t, nil)
	if err := p.SetRepeat(context.Background(), core.RepeatPlaylist); err != nil {
		t.Fatalf("SetRepeat() error = %v", err)
	}
	if got := calls(); len(got) != 1 || got[0].query != "state=context" {
		t.Errorf("calls = %+v", got)
	}

	if err := p.SetRepeat(context.Background(), "sometimes"); err == nil {
		t.Error("SetRepeat(sometimes) error = nil, want error")
	}
	if got := calls(); len(got) != 1 {
		t.Errorf("invalid mode sent a request: %+v", got)
	}
}

func TestPlayTrackAndContext(t *testing.T) {
	p, calls := newTestPlayer(t, nil)
	ctx := context.Background()

	if err := p.PlayTrack(ctx, "spotify:track:1"); err != nil {
		t.Fatalf("PlayTrack() error = %v", err)
	}
	if err := p.PlayContext(ctx, "spotify:playlist:2"); err != nil {
		t.Fatalf("PlayContext() error = %v", err)
	}

	got := calls()
	if len(got) != 2 {
		t.Fatalf("calls = %+v", got)
	}
	if got[0].body != `{"uris":["spotify:track:1"]}` {
		t.Errorf("PlayTrack body = %s", got[0].body)
	}
	if got[1].body != `{"context_uri":"spotify:playlist:2"}` {
		t.Errorf("PlayContext body = %s", got[1].body)
	}
}

func TestSetActive(t *testing.T) {
	p, calls := newTestPlayer(t, nil)
	if err := p.WithDevice(client.OnDevice("dev9")).SetActive(context.Background()); err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}
	if got := calls(); len(got) != 1 || got[0].body != `{"device_ids":["dev9"],"play":true}` {
		t.Errorf("calls = %+v", got)
	}
}

func TestDeviceOrActive(t *testing.T) {
	if DeviceOrActive("").IsSet() {
		t.Error("DeviceOrActive(\"\") targets a device, want active")
	}
	if id, ok := DeviceOrActive("abc").Get(); !ok || id != "abc" {
		t.Errorf("DeviceOrActive(abc) = %q, %v", id, ok)
	}
}

func TestGetState(t *testing.T) {
	p, _ := newTestPlayer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{
			"device":{"id":"d1","name":"Kitchen","type":"Speaker","is_active":true,"volume_percent":40},
			"shuffle_state":true,
			"repeat_state":"track",
			"is_playing":true,
			"progress_ms":30000,
			"context":{"type":"playlist","uri":"spotify:playlist:abc"},
			"item":{"id":"t1","name":"Song","duration_ms":180000,"artists":[{"name":"A"}],
				"album":{"name":"Album","images":[{"url":"http://img"}]}}
		}`)
	})

	state, err := p.GetState(context.Background())
	if err != nil {
		t.Fatalf("GetState() error = %v", err)
	}
	if !state.IsPlaying || !state.Shuffle || state.Repeat != core.RepeatTrack {
		t.Errorf("state = %+v", state)
	}
	if state.Volume != 40 || state.Progress != 30*time.Second {
		t.Errorf("Volume = %d, Progress = %v", state.Volume, state.Progress)
	}
	if state.Device == nil || state.Device.Type != core.DeviceTypeSpeaker {
		t.Errorf("Device = %+v", state.Device)
	}
	if state.Track == nil || state.Track.ImageURL != "http://img" {
		t.Errorf("Track = %+v", state.Track)
	}
	if state.ContextURI != "spotify:playlist:abc" {
		t.Errorf("ContextURI = %q", state.ContextURI)
	}
}

func TestConvertTrack(t *testing.T) {
	spotifyTrack := &client.Track{
		ID:         "track123",
		URI:        "spotify:track:track123",
		Name:       "Test Song",
		DurationMS: 180000,
		Artists: []client.Artist{
			{Name: "Artist One"},
			{Name: "Artist Two"},
		},
		Album: client.Album{
			Name: "Test Album",
		},
	}

	coreTrack := convertTrack(spotifyTrack)

	if coreTrack.ID != "track123" {
		t.Errorf("ID = %q, want %q", coreTrack.ID, "track123")
	}
	if coreTrack.Title != "Test Song" {
		t.Errorf("Title = %q, want %q", coreTrack.Title, "Test Song")
	}
	if coreTrack.Artist != "Artist One" {
		t.Errorf("Artist = %q, want %q", coreTrack.Artist, "Artist One")
	}
	if len(coreTrack.Artists) != 2 {
		t.Errorf("Artists count = %d, want 2", len(coreTrack.Artists))
	}
	if coreTrack.Duration != 180*time.Second {
		t.Errorf("Duration = %v, want %v", coreTrack.Duration, 180*time.Second)
	}
	if convertTrack(nil) != nil {
		t.Error("convertTrack(nil) should return nil")
	}
}

func TestConvertDevice(t *testing.T) {
	volume := 55
	tests := []struct {
		spotifyType string
		want        core.DeviceType
	}{
		{"Speaker", core.DeviceTypeSpeaker},
		{"Computer", core.DeviceTypeComputer},
		{"Smartphone", core.DeviceTypePhone},
		{"TV", core.DeviceTypeTV},
		{"Automobile", core.DeviceTypeCar},
		{"GameConsole", core.DeviceTypeOther},
	}

	for _, tt := range tests {
		d := convertDevice(&client.Device{ID: "d", Type: tt.spotifyType, IsRestricted: true, VolumePercent: &volume})
		if d.Type != tt.want {
			t.Errorf("convertDevice(%q).Type = %q, want %q", tt.spotifyType, d.Type, tt.want)
		}
		if !d.IsRestricted || d.Volume == nil || *d.Volume != 55 {
			t.Errorf("convertDevice(%q) = %+v", tt.spotifyType, d)
		}
	}
}

func TestFilterPlaylists(t *testing.T) {
	playlists := []client.Playlist{
		{ID: "1", Name: "Morning Jazz"},
		{ID: "2", Name: "Workout"},
		{ID: "3", Name: "Jazz"},
		{ID: "4", Name: "Late Night jazz Standards"},
	}

	if got := FilterPlaylists(playlists, ""); len(got) != len(playlists) {
		t.Errorf("empty query returned %d playlists, want %d", len(got), len(playlists))
	}

	got := FilterPlaylists(playlists, "jazz")
	ids := make([]string, len(got))
	for i, p := range got {
		ids[i] = p.ID
	}
	if strings.Join(ids, ",") != "3,1,4" {
		t.Errorf("FilterPlaylists(jazz) = %v, want [3 1 4]", ids)
	}

	if got := FilterPlaylists(playlists, "zzz"); len(got) != 0 {
		t.Errorf("FilterPlaylists(zzz) = %+v, want none", got)
	}
}
