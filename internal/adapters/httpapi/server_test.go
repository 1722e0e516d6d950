package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/catalyst/internal/adapters/httpapi"
	"go.trai.ch/catalyst/internal/core/domain"
	"go.trai.ch/catalyst/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const sessionID = "4f9c1a52-8d0e-4c38-9a57-2b8f6c1d7e30"

func newTestServer(t *testing.T) (*httpapi.Server, *mocks.MockResumeService, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockResumeService(ctrl)
	logger := mocks.NewMockLogger(ctrl)

	cfg := domain.DefaultConfig().Server
	cfg.MaxBodyBytes = 1 << 10
	cfg.ShutdownTimeout = time.Second
	return httpapi.NewServer(cfg, svc, logger), svc, logger
}

func do(t *testing.T, s *httpapi.Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestTextJobs(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		body     string
		expect   func(svc *mocks.MockResumeService, out domain.Outcome[string])
		wantCode int
		wantBody string
	}{
		{
			name: "tailor",
			path: "/api/v1/tailor",
			body: `{"resumeText":"r","jobDescription":"jd"}`,
			expect: func(svc *mocks.MockResumeService, out domain.Outcome[string]) {
				svc.EXPECT().Tailor(gomock.Any(), "r", "jd").Return(out)
			},
			wantCode: http.StatusOK,
			wantBody: `{"tailoredContent":"done"}`,
		},
		{
			name: "tailor with missing fields",
			path: "/api/v1/tailor",
			body: `{}`,
			expect: func(svc *mocks.MockResumeService, out domain.Outcome[string]) {
				svc.EXPECT().Tailor(gomock.Any(), "", "").Return(out)
			},
			wantCode: http.StatusOK,
			wantBody: `{"tailoredContent":"done"}`,
		},
		{
			name: "evaluate",
			path: "/api/v1/evaluate-resume",
			body: `{"resume":"r","jobDescription":"jd"}`,
			expect: func(svc *mocks.MockResumeService, out domain.Outcome[string]) {
				svc.EXPECT().Evaluate(gomock.Any(), "r", "jd").Return(out)
			},
			wantCode: http.StatusOK,
			wantBody: `{"evaluationResult":"done"}`,
		},
		{
			name: "cover letter",
			path: "/api/v1/generate-cover-letter",
			body: `{"resume":"r","jobDescription":"jd"}`,
			expect: func(svc *mocks.MockResumeService, out domain.Outcome[string]) {
				svc.EXPECT().CoverLetter(gomock.Any(), "r", "jd").Return(out)
			},
			wantCode: http.StatusOK,
			wantBody: `{"generatedCoverLetter":"done"}`,
		},
		{
			name: "interview takes the raw body",
			path: "/api/v1/interview/generate",
			body: "Senior Go engineer",
			expect: func(svc *mocks.MockResumeService, out domain.Outcome[string]) {
				svc.EXPECT().Interview(gomock.Any(), "Senior Go engineer").Return(out)
			},
			wantCode: http.StatusOK,
			wantBody: `{"content":"done"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, svc, _ := newTestServer(t)
			tt.expect(svc, domain.Ok("done"))

			rec := do(t, s, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestTextJobs_Failures(t *testing.T) {
	failed := domain.Fail[string](domain.ReasonExit, `Traceback: "quota"`)

	tests := []struct {
		name     string
		path     string
		body     string
		expect   func(svc *mocks.MockResumeService)
		wantBody string
	}{
		{
			name:     "tailor",
			path:     "/api/v1/tailor",
			body:     `{}`,
			expect:   func(svc *mocks.MockResumeService) { svc.EXPECT().Tailor(gomock.Any(), "", "").Return(failed) },
			wantBody: `{"tailoredContent":"Error: Traceback: \"quota\""}`,
		},
		{
			name:     "evaluate",
			path:     "/api/v1/evaluate-resume",
			body:     `{}`,
			expect:   func(svc *mocks.MockResumeService) { svc.EXPECT().Evaluate(gomock.Any(), "", "").Return(failed) },
			wantBody: `{"evaluationResult":"Error: Traceback: \"quota\""}`,
		},
		{
			name:     "cover letter",
			path:     "/api/v1/generate-cover-letter",
			body:     `{}`,
			expect:   func(svc *mocks.MockResumeService) { svc.EXPECT().CoverLetter(gomock.Any(), "", "").Return(failed) },
			wantBody: `{"generatedCoverLetter":"Error: Traceback: \"quota\""}`,
		},
		{
			name:     "interview wraps the message in a JSON string",
			path:     "/api/v1/interview/generate",
			body:     "jd",
			expect:   func(svc *mocks.MockResumeService) { svc.EXPECT().Interview(gomock.Any(), "jd").Return(failed) },
			wantBody: `{"content":"{\"error\": \"Traceback: \\\"quota\\\"\"}"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, svc, _ := newTestServer(t)
			tt.expect(svc)

			rec := do(t, s, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestInterview_ErrorContentIsJSON(t *testing.T) {
	s, svc, _ := newTestServer(t)
	svc.EXPECT().Interview(gomock.Any(), "jd").Return(domain.Fail[string](domain.ReasonTimeout, "worker timed out"))

	rec := do(t, s, http.MethodPost, "/api/v1/interview/generate", "jd")

	var resp struct{ Content string }
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, `{"error": "worker timed out"}`, resp.Content)

	var inner map[string]string
	require.NoError(t, json.Unmarshal([]byte(resp.Content), &inner))
	assert.Equal(t, "worker timed out", inner["error"])
}

func TestGenerate(t *testing.T) {
	s, svc, _ := newTestServer(t)
	svc.EXPECT().Generate(gomock.Any(), gomock.Cond(func(req domain.GenerateRequest) bool {
		return req.TemplateName == "classic" && req.ResumeData.PersonalInfo.FullName == "Ada Lovelace"
	})).Return(domain.Ok(domain.NewArtifactSet(sessionID)))

	body := `{"template_name":"classic","resume_data":{"personal_info":{"full_name":"Ada Lovelace"}}}`
	rec := do(t, s, http.MethodPost, "/api/v1/generate", body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"pdfUrl":"/api/v1/download/`+sessionID+`/resume.pdf",
		"latexUrl":"/api/v1/download/`+sessionID+`/resume.tex",
		"jsonUrl":"/api/v1/download/`+sessionID+`/resume.json"
	}`, rec.Body.String())
}

func TestGenerate_Failure(t *testing.T) {
	s, svc, _ := newTestServer(t)
	svc.EXPECT().Generate(gomock.Any(), gomock.Any()).
		Return(domain.Fail[domain.ArtifactSet](domain.ReasonUpstream, "generation service request failed"))

	rec := do(t, s, http.MethodPost, "/api/v1/generate", `{}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestPreview(t *testing.T) {
	s, svc, _ := newTestServer(t)
	svc.EXPECT().Preview(gomock.Any(), gomock.Any()).Return(domain.Ok([]byte("%PDF-1.7")))

	rec := do(t, s, http.MethodPost, "/api/v1/preview", `{"template_name":"classic"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="resume_preview.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.7", rec.Body.String())
}

func TestPreview_Failure(t *testing.T) {
	s, svc, _ := newTestServer(t)
	svc.EXPECT().Preview(gomock.Any(), gomock.Any()).
		Return(domain.Fail[[]byte](domain.ReasonArchive, "file not found in zip archive"))

	rec := do(t, s, http.MethodPost, "/api/v1/preview", `{}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestBadBodies(t *testing.T) {
	s, _, logger := newTestServer(t)
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	rec := do(t, s, http.MethodPost, "/api/v1/tailor", `{"resumeText":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/v1/generate", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	big := `{"resumeText":"` + strings.Repeat("x", 2<<10) + `"}`
	rec = do(t, s, http.MethodPost, "/api/v1/tailor", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/v1/interview/generate", strings.Repeat("x", 2<<10))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestDownload(t *testing.T) {
	s, svc, _ := newTestServer(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.tex")
	require.NoError(t, os.WriteFile(path, []byte(`\documentclass{article}`), domain.FilePerm))

	handle := domain.FileHandle{
		SessionID:   sessionID,
		Name:        "resume.tex",
		Path:        path,
		Size:        23,
		Digest:      "9c2b4f1e7a3d8e60",
		ContentType: domain.ContentTypeTeX,
	}
	svc.EXPECT().Download(gomock.Any(), sessionID, "resume.tex").Return(domain.Ok(handle)).Times(2)

	rec := do(t, s, http.MethodGet, "/api/v1/download/"+sessionID+"/resume.tex", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-tex", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=resume.tex", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, `"9c2b4f1e7a3d8e60"`, rec.Header().Get("ETag"))
	assert.Equal(t, `\documentclass{article}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/download/"+sessionID+"/resume.tex", nil)
	req.Header.Set("If-None-Match", `"9c2b4f1e7a3d8e60"`)
	cached := httptest.NewRecorder()
	s.Handler().ServeHTTP(cached, req)
	assert.Equal(t, http.StatusNotModified, cached.Code)
}

func TestDownload_QuotesFileName(t *testing.T) {
	s, svc, _ := newTestServer(t)
	name := `cv "final".pdf`
	path := filepath.Join(t.TempDir(), "cv.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF"), domain.FilePerm))

	svc.EXPECT().Download(gomock.Any(), sessionID, name).Return(domain.Ok(domain.FileHandle{
		SessionID:   sessionID,
		Name:        name,
		Path:        path,
		ContentType: domain.ContentTypePDF,
	}))

	rec := do(t, s, http.MethodGet, "/api/v1/download/"+sessionID+"/"+url.PathEscape(name), "")
	require.Equal(t, http.StatusOK, rec.Code)

	disposition, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	assert.Equal(t, name, params["filename"])
}

func TestDownload_NotFound(t *testing.T) {
	s, svc, _ := newTestServer(t)
	svc.EXPECT().Download(gomock.Any(), sessionID, "secret.txt").
		Return(domain.Fail[domain.FileHandle](domain.ReasonNotFound, "session file not found"))

	rec := do(t, s, http.MethodGet, "/api/v1/download/"+sessionID+"/secret.txt", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownload_FileVanished(t *testing.T) {
	s, svc, _ := newTestServer(t)
	svc.EXPECT().Download(gomock.Any(), sessionID, "resume.pdf").Return(domain.Ok(domain.FileHandle{
		Name: "resume.pdf",
		Path: filepath.Join(t.TempDir(), "resume.pdf"),
	}))

	rec := do(t, s, http.MethodGet, "/api/v1/download/"+sessionID+"/resume.pdf", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	s, _, _ := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/v1/nope", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, s, http.MethodGet, "/api/v1/tailor", "").Code)
}

func TestServe_GracefulShutdown(t *testing.T) {
	s, svc, logger := newTestServer(t)
	logger.EXPECT().Info(gomock.Cond(func(msg string) bool {
		return strings.HasPrefix(msg, "listening on 127.0.0.1:")
	}))
	logger.EXPECT().Info("shutting down http server")

	entered := make(chan struct{})
	svc.EXPECT().Tailor(gomock.Any(), "r", "jd").DoAndReturn(
		func(context.Context, string, string) domain.Outcome[string] {
			close(entered)
			time.Sleep(100 * time.Millisecond)
			return domain.Ok("finished during shutdown")
		},
	)

	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() {
		served <- s.Serve(ctx, ln)
	}()

	type response struct {
		code int
		body []byte
		err  error
	}
	respc := make(chan response, 1)
	go func() {
		url := "http://" + ln.Addr().String() + "/api/v1/tailor"
		req, _ := http.NewRequestWithContext(context.Background(), http.MethodPost, url,
			bytes.NewBufferString(`{"resumeText":"r","jobDescription":"jd"}`))
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			respc <- response{err: err}
			return
		}
		defer func() { _ = resp.Body.Close() }()
		body, err := io.ReadAll(resp.Body)
		respc <- response{code: resp.StatusCode, body: body, err: err}
	}()

	<-entered
	cancel()

	resp := <-respc
	require.NoError(t, resp.err)
	assert.Equal(t, http.StatusOK, resp.code)
	assert.JSONEq(t, `{"tailoredContent":"finished during shutdown"}`, string(resp.body))
	require.NoError(t, <-served)
}
