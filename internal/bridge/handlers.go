package bridge

import (
	"net/http"

	"github.com/tessro/spotconnect/internal/spotify/client"
)

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "events": s.watcher != nil})
}

func (s *Server) listDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := s.player.GetDevices(r.Context())
	if err != nil {
		writeClientError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"devices": devices})
}

func (s *Server) listPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := s.player.Playlists(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeClientError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"playlists": playlists})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	searchType := client.SearchTypePlaylist
	if raw := query.Get("type"); raw != "" {
		parsed, err := client.ParseSearchType(raw)
		if err != nil {
			writeClientError(w, err)
			return
		}
		searchType = parsed
	}

	resp, err := s.player.Search(r.Context(), searchType, query.Get("q"))
	if err != nil {
		writeClientError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	state, err := s.target(r).GetState(r.Context())
	if err != nil {
		writeClientError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

type playRequest struct {
	ContextURI string `json:"context_uri"`
	TrackURI   string `json:"track_uri"`
}

func (s *Server) play(w http.ResponseWriter, r *http.Request) {
	var req playRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	p := s.target(r)
	var err error
	switch {
	case req.ContextURI != "" && req.TrackURI != "":
		writeError(w, http.StatusBadRequest, "invalid_argument", "context_uri and track_uri are mutually exclusive")
		return
	case req.ContextURI != "":
		err = p.PlayContext(r.Context(), req.ContextURI)
	case req.TrackURI != "":
		err = p.PlayTrack(r.Context(), req.TrackURI)
	default:
		err = p.SetPlaying(r.Context(), true)
	}
	respondCommand(w, err)
}

func (s *Server) pause(w http.ResponseWriter, r *http.Request) {
	respondCommand(w, s.target(r).SetPlaying(r.Context(), false))
}

func (s *Server) next(w http.ResponseWriter, r *http.Request) {
	respondCommand(w, s.target(r).Next(r.Context()))
}

func (s *Server) previous(w http.ResponseWriter, r *http.Request) {
	respondCommand(w, s.target(r).Prev(r.Context()))
}

func (s *Server) setActive(w http.ResponseWriter, r *http.Request) {
	if !r.URL.Query().Has("device_id") && !s.defaultDevice.IsSet() {
		writeError(w, http.StatusBadRequest, "invalid_argument", "device_id is required")
		return
	}
	respondCommand(w, s.target(r).SetActive(r.Context()))
}

type volumeRequest struct {
	Volume *float64 `json:"volume"`
	Level  *float64 `json:"level"`
}

func (s *Server) setVolume(w http.ResponseWriter, r *http.Request) {
	var req volumeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	p := s.target(r)
	switch {
	case req.Volume != nil && req.Level != nil:
		writeError(w, http.StatusBadRequest, "invalid_argument", "set either volume or level, not both")
	case req.Volume != nil:
		respondCommand(w, p.SetVolume(r.Context(), *req.Volume))
	case req.Level != nil:
		respondCommand(w, p.SetVolumeLevel(r.Context(), *req.Level))
	default:
		writeError(w, http.StatusBadRequest, "invalid_argument", "volume or level is required")
	}
}

type shuffleRequest struct {
	State *bool `json:"state"`
}

func (s *Server) setShuffle(w http.ResponseWriter, r *http.Request) {
	var req shuffleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if req.State == nil {
		writeError(w, http.StatusBadRequest, "invalid_argument", "state is required")
		return
	}
	respondCommand(w, s.target(r).SetShuffle(r.Context(), *req.State))
}

type repeatRequest struct {
	Mode string `json:"mode"`
}

func (s *Server) setRepeat(w http.ResponseWriter, r *http.Request) {
	var req repeatRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	respondCommand(w, s.target(r).SetRepeat(r.Context(), req.Mode))
}

type transferRequest struct {
	Play bool `json:"play"`
}

func (s *Server) transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if !r.URL.Query().Has("device_id") && !s.defaultDevice.IsSet() {
		writeError(w, http.StatusBadRequest, "invalid_argument", "device_id is required")
		return
	}
	respondCommand(w, s.target(r).Transfer(r.Context(), req.Play))
}

func respondCommand(w http.ResponseWriter, err error) {
	if err != nil {
		writeClientError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
