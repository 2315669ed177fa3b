package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matzehuels/dfdlayout/pkg/buildinfo"
	"github.com/matzehuels/dfdlayout/pkg/dfd"
	apperr "github.com/matzehuels/dfdlayout/pkg/errors"
	"github.com/matzehuels/dfdlayout/pkg/graph"
	"github.com/matzehuels/dfdlayout/pkg/layout"
	"github.com/matzehuels/dfdlayout/pkg/pipeline"
)

// Request is the body of the layout and render endpoints: the parser
// graph, optionally with pipeline options.
type Request struct {
	dfd.Graph
	Options pipeline.Options `json:"options"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "dfdlayout API",
		"version": buildinfo.Resolved(),
		"formats": pipeline.Formats,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	l, err := s.runner.Layout(r.Context(), req.Graph, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := graph.MarshalLayout(l)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentType(pipeline.FormatJSON))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	req.Options.Formats = []string{format}

	res, err := s.runner.Execute(r.Context(), req.Graph, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set("X-Cache-Layout", hitOrMiss(res.CacheInfo.LayoutHit))
	w.Header().Set("X-Cache-Render", hitOrMiss(res.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// decode reads and validates the request body. On failure the error
// response has already been written.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (Request, bool) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	defer body.Close()

	var req Request
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErrorStatus(w, http.StatusRequestEntityTooLarge, string(apperr.ErrCodeInvalidInput),
				"request body exceeds limit")
			return Request{}, false
		}
		s.writeError(w, r, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "decode request"))
		return Request{}, false
	}

	req.Graph.NormalizeEdgeIDs()
	if err := req.Graph.Validate(); err != nil {
		s.writeError(w, r, err)
		return Request{}, false
	}
	req.Options.Layout = withDefaults(req.Options.Layout, s.cfg.Layout)
	req.Options.Logger = s.logger.With("id", RequestID(r.Context()))
	return req, true
}

// withDefaults fills the zero fields of o from def. The cycle policy's zero
// value is reject, so a server configured to break cycles applies that to
// every request that does not choose a policy.
func withDefaults(o, def layout.Options) layout.Options {
	if o.HorizontalSpacing == 0 {
		o.HorizontalSpacing = def.HorizontalSpacing
	}
	if o.VerticalSpacing == 0 {
		o.VerticalSpacing = def.VerticalSpacing
	}
	if o.GapRatio == 0 {
		o.GapRatio = def.GapRatio
	}
	if o.OutputLabel == "" {
		o.OutputLabel = def.OutputLabel
	}
	if o.CyclePolicy == 0 {
		o.CyclePolicy = def.CyclePolicy
	}
	if o.Collation == "" {
		o.Collation = def.Collation
	}
	return o
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.GetCode(err)
	if code == "" {
		code = apperr.ErrCodeInternal
	}
	status := apperr.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "id", RequestID(r.Context()), "error", err)
	}
	writeErrorStatus(w, status, string(code), apperr.UserMessage(err))
}

func writeErrorStatus(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func hitOrMiss(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
