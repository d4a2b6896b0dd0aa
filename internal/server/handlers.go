package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/buildinfo"
	errs "github.com/ru4ls/ComfyUI-Google-Fonts/pkg/errors"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/node"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/tensor"
)

const maxBodyBytes = 1 << 20

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type fontsResponse struct {
	Families []string `json:"families"`
}

type invokeRequest struct {
	Params map[string]any `json:"params"`
}

// InvokeResponse is the body returned by a successful invocation.
type InvokeResponse struct {
	ID       string         `json:"id"`
	Node     string         `json:"node"`
	Image    tensor.Tensor  `json:"image"`
	Mask     tensor.Tensor  `json:"mask"`
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	Resolved ResolvedFont   `json:"resolved"`
	Preview  string         `json:"preview,omitempty"` // base64 PNG thumbnail
	Timing   map[string]int `json:"timing_ms"`
}

// ResolvedFont reports the variant that was rendered.
type ResolvedFont struct {
	Family      string `json:"family"`
	Weight      string `json:"weight"`
	Style       string `json:"style"`
	Known       bool   `json:"known"`
	Substituted bool   `json:"substituted"`
}

type errorResponse struct {
	ID    string    `json:"id,omitempty"`
	Code  errs.Code `json:"code"`
	Field string    `json:"field,omitempty"`
	Error string    `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.Snapshot())
}

func (s *Server) handleFonts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, fontsResponse{Families: s.runner.Families(r.Context())})
}

func (s *Server) definitions(r *http.Request) []node.Definition {
	return node.Definitions(s.runner.Families(r.Context()))
}

func (s *Server) handleListNodes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.definitions(r))
}

func (s *Server) handleGetNode(w http.ResponseWriter, r *http.Request) {
	def, ok := node.Lookup(s.definitions(r), chi.URLParam(r, "name"))
	if !ok {
		s.writeError(w, "", errs.New(errs.ErrCodeNodeNotFound, "unknown node %q", chi.URLParam(r, "name")))
		return
	}
	writeJSON(w, http.StatusOK, def)
}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	name := chi.URLParam(r, "name")
	logger := s.logger.With("invocation", id, "node", name)

	def, ok := node.Lookup(s.definitions(r), name)
	if !ok {
		s.writeError(w, id, errs.New(errs.ErrCodeNodeNotFound, "unknown node %q", name))
		return
	}

	var req invokeRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, id, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request body"))
		return
	}

	opts, err := def.Options(req.Params)
	if err != nil {
		s.writeError(w, id, err)
		return
	}
	opts.Logger = logger

	if err := s.acquire(r.Context()); err != nil {
		s.writeError(w, id, errs.Wrap(errs.ErrCodeTimeout, err, "waiting for a render slot"))
		return
	}
	defer s.release()

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		logger.Error("Invocation failed", "error", err)
		s.writeError(w, id, err)
		return
	}
	defer result.Cleanup()

	if wantsPNG(r) {
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("X-Invocation-Id", id)
		w.WriteHeader(http.StatusOK)
		w.Write(result.Capture.PNG)
		return
	}

	res := result.Resolution
	resp := InvokeResponse{
		ID:     id,
		Node:   def.Name,
		Image:  result.Output.Image,
		Mask:   result.Output.Mask,
		Width:  result.Output.Width,
		Height: result.Output.Height,
		Resolved: ResolvedFont{
			Family:      res.Family,
			Weight:      string(res.Weight),
			Style:       string(res.Style),
			Known:       res.Known,
			Substituted: res.Substituted,
		},
		Timing: map[string]int{
			"catalog": int(result.Stats.CatalogTime.Milliseconds()),
			"render":  int(result.Stats.RenderTime.Milliseconds()),
			"package": int(result.Stats.PackageTime.Milliseconds()),
		},
	}
	if n, _ := strconv.Atoi(r.URL.Query().Get("preview")); n > 0 {
		if preview, err := thumbnail(result.Capture.PNG, n); err == nil {
			resp.Preview = preview
		} else {
			logger.Warn("Could not build preview", "error", err)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func wantsPNG(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "image/png") || r.URL.Query().Get("format") == "png"
}

func thumbnail(data []byte, maxSide int) (string, error) {
	img, err := tensor.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, tensor.Thumbnail(img, maxSide)); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func statusFor(err error) int {
	switch {
	case errs.IsValidation(err):
		return http.StatusBadRequest
	case errs.Is(err, errs.ErrCodeNodeNotFound), errs.Is(err, errs.ErrCodeNotFound):
		return http.StatusNotFound
	case errs.Is(err, errs.ErrCodeTimeout), errs.Is(err, errs.ErrCodeRateLimited):
		return http.StatusServiceUnavailable
	case errs.Is(err, errs.ErrCodeRender):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, id string, err error) {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	if id != "" {
		w.Header().Set("X-Invocation-Id", id)
	}
	writeJSON(w, statusFor(err), errorResponse{ID: id, Code: code, Field: errs.GetField(err), Error: errs.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
