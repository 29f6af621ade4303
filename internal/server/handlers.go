package server

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/render/dot"
	"github.com/matzehuels/forcegraph/pkg/scene"
)

const maxBodyBytes = 8 << 20

// Drag phases accepted by POST /drag.
const (
	PhaseStart = "start"
	PhaseMove  = "move"
	PhaseEnd   = "end"
)

// DragRequest is the body of POST /drag. Deltas are in screen pixels.
type DragRequest struct {
	ID    string  `json:"id"`
	Phase string  `json:"phase"`
	DX    float64 `json:"dx,omitempty"`
	DY    float64 `json:"dy,omitempty"`
}

// ZoomRequest is the body of POST /zoom. Exactly one field should be set.
type ZoomRequest struct {
	Factor    float64          `json:"factor,omitempty"`
	Reset     bool             `json:"reset,omitempty"`
	Transform *scene.Transform `json:"transform,omitempty"`
}

// FocusRequest is the body of POST /focus.
type FocusRequest struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	f, ok := s.Frame()
	if !ok {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no frame rendered yet"))
		return
	}
	data, err := render.RenderJSON(f)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	f, ok := s.Frame()
	if !ok {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no frame rendered yet"))
		return
	}
	var opts []render.SVGOption
	if r.URL.Query().Get("labels") == "false" {
		opts = append(opts, render.WithoutLabels())
	}
	if bg := r.URL.Query().Get("background"); bg != "" {
		opts = append(opts, render.WithBackground(bg))
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(render.RenderSVG(f, opts...))
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	f, ok := s.Frame()
	if !ok {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no frame rendered yet"))
		return
	}
	opts := dot.Options{
		Labels:   r.URL.Query().Get("labels") != "false",
		Directed: r.URL.Query().Get("directed") == "true",
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.Write([]byte(dot.ToDOT(f, opts)))
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var l graph.Layout
	if err := s.query(r.Context(), func(sc *scene.Scene) { l = sc.Layout() }); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handlePutGraph(w http.ResponseWriter, r *http.Request) {
	format, err := requestFormat(r)
	if err != nil {
		writeError(w, err)
		return
	}
	g, err := graph.Read(http.MaxBytesReader(w, r.Body, maxBodyBytes), format)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.Update(r.Context(), g); err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("graph replaced", "nodes", len(g.Nodes), "links", len(g.Links))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	var req DragRequest
	if !decode(w, r, &req) {
		return
	}
	var ev scene.Event
	switch req.Phase {
	case PhaseStart:
		ev = scene.DragStartEvent(req.ID)
	case PhaseMove:
		ev = scene.DragMoveEvent(req.ID, req.DX, req.DY)
	case PhaseEnd:
		ev = scene.DragEndEvent(req.ID)
	default:
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "unknown drag phase %q", req.Phase))
		return
	}
	if err := s.send(r.Context(), ev); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request) {
	var req ZoomRequest
	if !decode(w, r, &req) {
		return
	}
	var ev scene.Event
	switch {
	case req.Reset:
		ev = scene.ResetZoomEvent()
	case req.Transform != nil:
		ev = scene.TransformEvent(*req.Transform)
	case req.Factor > 0:
		ev = scene.ZoomEvent(req.Factor)
	default:
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "zoom needs a positive factor, a transform or reset"))
		return
	}
	var t scene.Transform
	err := s.send(r.Context(), func(ctx context.Context, sc *scene.Scene) error {
		if err := ev(ctx, sc); err != nil {
			return err
		}
		t = sc.Transform()
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	var req FocusRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.send(r.Context(), scene.FocusEvent(req.ID)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	sub := &subscriber{conn: conn, send: make(chan []byte, sendBuffer)}
	if f, ok := s.Frame(); ok {
		if data, err := render.RenderJSON(f); err == nil {
			sub.send <- data
		}
	}
	if !s.hub.add(sub) {
		conn.Close()
		return
	}
	s.logger.Debug("subscriber connected", "remote", r.RemoteAddr, "subscribers", s.hub.len())

	go sub.writeLoop()
	sub.readLoop()
	s.hub.remove(sub)
	s.logger.Debug("subscriber left", "remote", r.RemoteAddr)
}

// requestFormat picks the graph codec from ?format= or the Content-Type.
func requestFormat(r *http.Request) (string, error) {
	if f := r.URL.Query().Get("format"); f != "" {
		return f, nil
	}
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return graph.FormatJSON, nil
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "content type %q", ct)
	}
	switch mt {
	case "application/json":
		return graph.FormatJSON, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return graph.FormatYAML, nil
	case "application/toml":
		return graph.FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported content type %q", mt)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errors.HTTPStatus(err), errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}
