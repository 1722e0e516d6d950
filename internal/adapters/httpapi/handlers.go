package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"go.trai.ch/catalyst/internal/core/domain"
)

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req domain.GenerateRequest
	if !s.decode(w, r, &req) {
		return
	}

	out := s.svc.Generate(r.Context(), req)
	if !out.OK() {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, out.Value)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req domain.GenerateRequest
	if !s.decode(w, r, &req) {
		return
	}

	out := s.svc.Preview(r.Context(), req)
	if !out.OK() {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", domain.ContentTypePDF)
	w.Header().Set("Content-Disposition", `inline; filename="`+domain.PreviewFileName+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Value)
}

func (s *Server) handleTailor(w http.ResponseWriter, r *http.Request) {
	var req tailorRequest
	if !s.decode(w, r, &req) {
		return
	}

	out := s.svc.Tailor(r.Context(), req.ResumeText, req.JobDescription)
	if !out.OK() {
		writeJSON(w, http.StatusInternalServerError, tailorResponse{TailoredContent: "Error: " + out.Failure.Message})
		return
	}
	writeJSON(w, http.StatusOK, tailorResponse{TailoredContent: out.Value})
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req resumeRequest
	if !s.decode(w, r, &req) {
		return
	}

	out := s.svc.Evaluate(r.Context(), req.Resume, req.JobDescription)
	if !out.OK() {
		writeJSON(w, http.StatusInternalServerError, evaluationResponse{EvaluationResult: "Error: " + out.Failure.Message})
		return
	}
	writeJSON(w, http.StatusOK, evaluationResponse{EvaluationResult: out.Value})
}

func (s *Server) handleCoverLetter(w http.ResponseWriter, r *http.Request) {
	var req resumeRequest
	if !s.decode(w, r, &req) {
		return
	}

	out := s.svc.CoverLetter(r.Context(), req.Resume, req.JobDescription)
	if !out.OK() {
		writeJSON(w, http.StatusInternalServerError, coverLetterResponse{GeneratedCoverLetter: "Error: " + out.Failure.Message})
		return
	}
	writeJSON(w, http.StatusOK, coverLetterResponse{GeneratedCoverLetter: out.Value})
}

// handleInterview takes the job description as the raw request body.
func (s *Server) handleInterview(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.rejectBody(w, err)
		return
	}

	out := s.svc.Interview(r.Context(), string(body))
	if !out.OK() {
		msg, _ := json.Marshal(out.Failure.Message)
		writeJSON(w, http.StatusInternalServerError, interviewResponse{Content: `{"error": ` + string(msg) + `}`})
		return
	}
	writeJSON(w, http.StatusOK, interviewResponse{Content: out.Value})
}

// handleDownload streams a session file. Every failure is reported as 404.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	out := s.svc.Download(r.Context(), chi.URLParam(r, "sessionId"), chi.URLParam(r, "fileName"))
	if !out.OK() {
		http.NotFound(w, r)
		return
	}
	handle := out.Value

	f, err := os.Open(handle.Path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		http.NotFound(w, r)
		return
	}

	h := w.Header()
	h.Set("Content-Type", handle.ContentType)
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": handle.Name}))
	if handle.Digest != "" {
		h.Set("ETag", `"`+handle.Digest+`"`)
	}
	http.ServeContent(w, r, handle.Name, info.ModTime(), f)
}

// decode reads a JSON body into v and answers the request itself on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.rejectBody(w, err)
		return false
	}
	return true
}

func (s *Server) rejectBody(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}
	s.logger.Warn("invalid request body: " + err.Error())
	http.Error(w, "invalid request body", http.StatusBadRequest)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
