package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/catalyst/internal/adapters/archive"
	"go.trai.ch/catalyst/internal/adapters/logger"
	"go.trai.ch/catalyst/internal/adapters/sessions"
	"go.trai.ch/catalyst/internal/adapters/telemetry"
	"go.trai.ch/catalyst/internal/app"
	"go.trai.ch/catalyst/internal/core/domain"
	"go.trai.ch/catalyst/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type appMocks struct {
	loader *mocks.MockConfigLoader
	logger *mocks.MockLogger
	runner *mocks.MockTaskRunner
}

func setupApp(t *testing.T, cfg *domain.Config) (*app.App, appMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := appMocks{
		loader: mocks.NewMockConfigLoader(ctrl),
		logger: mocks.NewMockLogger(ctrl),
		runner: mocks.NewMockTaskRunner(ctrl),
	}
	if cfg != nil {
		m.loader.EXPECT().Load(gomock.Any(), "").Return(cfg, nil).AnyTimes()
	}
	a := app.New(m.loader, m.logger, m.runner, archive.NewUnpacker(), telemetry.NewNoOpTracer())
	return a, m
}

func testConfig(t *testing.T) *domain.Config {
	t.Helper()
	cfg := domain.DefaultConfig()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "sessions")
	cfg.Runner.ScriptsDir = "/srv/catalyst"
	cfg.Server.Listen = "127.0.0.1:0"
	cfg.Server.ShutdownTimeout = time.Second
	return &cfg
}

func TestApp_Configure_JSONLogs(t *testing.T) {
	log, ok := logger.New().(*logger.Logger)
	require.True(t, ok)
	var buf bytes.Buffer
	log.SetOutput(&buf)

	a := app.New(nil, log, nil, nil, nil)
	require.NoError(t, a.Configure(app.GlobalOptions{LogFormat: "json"}))

	log.Info("hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
}

func TestApp_Configure_UnknownFormat(t *testing.T) {
	a, _ := setupApp(t, nil)

	err := a.Configure(app.GlobalOptions{LogFormat: "xml"})
	require.ErrorIs(t, err, domain.ErrUnknownLogFormat)
}

func TestApp_Configure_PassesConfigPath(t *testing.T) {
	a, m := setupApp(t, nil)
	require.NoError(t, a.Configure(app.GlobalOptions{ConfigPath: "conf/catalyst.yaml", LogFormat: "pretty"}))

	cfg := testConfig(t)
	m.loader.EXPECT().Load(gomock.Any(), "conf/catalyst.yaml").Return(cfg, nil)

	_, err := a.ListSessions(context.Background())
	require.NoError(t, err)
}

func TestApp_RunJob_Success(t *testing.T) {
	a, m := setupApp(t, testConfig(t))

	m.runner.EXPECT().Run(gomock.Any(), gomock.Cond(func(task domain.Task) bool {
		return task.Input != nil && *task.Input == "my resume"+domain.InputDelimiter+"a job"
	})).Return(domain.Succeeded("Tailored resume"))

	var out bytes.Buffer
	err := a.RunJob(context.Background(), domain.JobTailor, app.RunOptions{
		Resume:         "my resume",
		JobDescription: "a job",
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "Tailored resume\n", out.String())
}

func TestApp_RunJob_Failure(t *testing.T) {
	a, m := setupApp(t, testConfig(t))

	m.runner.EXPECT().Run(gomock.Any(), gomock.Any()).
		Return(domain.Failed(domain.KindNonZeroExit, "Traceback: boom", 1))
	m.logger.EXPECT().Error(gomock.Any())

	var out bytes.Buffer
	err := a.RunJob(context.Background(), domain.JobEvaluate, app.RunOptions{}, &out)
	require.ErrorIs(t, err, domain.ErrJobFailed)
	assert.Contains(t, err.Error(), "Traceback: boom")
	assert.Empty(t, out.String())
}

func TestApp_RunJob_UnknownJob(t *testing.T) {
	a, _ := setupApp(t, testConfig(t))

	err := a.RunJob(context.Background(), "summarize", app.RunOptions{}, io.Discard)
	require.ErrorIs(t, err, domain.ErrUnknownJob)
	assert.NotErrorIs(t, err, domain.ErrJobFailed)
}

func TestApp_RunJob_ConfigError(t *testing.T) {
	a, m := setupApp(t, nil)
	m.loader.EXPECT().Load(gomock.Any(), "").
		Return(nil, zerr.Wrap(domain.ErrConfigParseFailed, "decode"))

	err := a.RunJob(context.Background(), domain.JobTailor, app.RunOptions{}, io.Discard)
	require.ErrorIs(t, err, domain.ErrConfigParseFailed)
}

func seedSessions(t *testing.T, cfg *domain.Config, n int) []string {
	t.Helper()
	store, err := sessions.NewStore(cfg.Storage.Path)
	require.NoError(t, err)

	ids := make([]string, 0, n)
	for range n {
		s, err := store.Create()
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(s.Root, domain.ResumePDF), []byte("%PDF"), domain.FilePerm))
		_, err = store.Commit(s, []string{domain.ResumePDF})
		require.NoError(t, err)
		ids = append(ids, s.ID)
	}
	return ids
}

func TestApp_Sessions(t *testing.T) {
	cfg := testConfig(t)
	a, m := setupApp(t, cfg)
	ids := seedSessions(t, cfg, 2)

	listed, err := a.ListSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 2)

	m.logger.EXPECT().Info("removed session " + ids[0])
	require.NoError(t, a.DeleteSession(context.Background(), ids[0]))

	listed, err = a.ListSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, ids[1], listed[0].ID)

	err = a.DeleteSession(context.Background(), ids[0])
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestApp_PruneSessions(t *testing.T) {
	cfg := testConfig(t)
	a, m := setupApp(t, cfg)
	ids := seedSessions(t, cfg, 1)

	m.logger.EXPECT().Info("pruned 1 session(s) older than 1ns")
	time.Sleep(time.Millisecond)

	pruned, err := a.PruneSessions(context.Background(), time.Nanosecond)
	require.NoError(t, err)
	assert.Equal(t, ids, pruned)
}

func TestApp_PruneSessions_Disabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.TTL = 0
	a, m := setupApp(t, cfg)

	m.logger.EXPECT().Warn("session expiry is disabled; pass --older-than to prune")

	pruned, err := a.PruneSessions(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, pruned)
}

func resumeBundle(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range map[string]string{
		domain.ResumePDF:  "%PDF-1.7",
		domain.ResumeTeX:  `\documentclass{article}`,
		domain.ResumeJSON: `{"ok":true}`,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestApp_Serve_GenerateAndDownload(t *testing.T) {
	bundle := resumeBundle(t)
	upstreamSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/generate", r.URL.Path)
		_, _ = w.Write(bundle)
	}))
	defer upstreamSrv.Close()

	cfg := testConfig(t)
	cfg.Upstream.URL = upstreamSrv.URL
	a, m := setupApp(t, cfg)
	a.WithHTTPClient(upstreamSrv.Client())

	base, stop := startServe(t, a, m)

	resp, err := http.Post(base+"/api/v1/generate", "application/json", strings.NewReader(`{"template_name":"classic"}`))
	require.NoError(t, err)
	var links domain.ArtifactSet
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&links))
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, strings.HasPrefix(links.PDFURL, domain.DownloadRoute+"/"))

	resp, err = http.Get(base + links.PDFURL)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "%PDF-1.7", string(body))

	stop()
}

func TestApp_Serve_ExtractionLimit(t *testing.T) {
	bundle := resumeBundle(t)
	upstreamSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(bundle)
	}))
	defer upstreamSrv.Close()

	cfg := testConfig(t)
	cfg.Upstream.URL = upstreamSrv.URL
	cfg.Upstream.MaxEntryBytes = 4
	a, m := setupApp(t, cfg)
	a.WithHTTPClient(upstreamSrv.Client())
	m.logger.EXPECT().Error(gomock.Any()).AnyTimes()

	base, stop := startServe(t, a, m)

	resp, err := http.Post(base+"/api/v1/generate", "application/json", strings.NewReader(`{"template_name":"classic"}`))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	stop()

	list, err := a.ListSessions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

// startServe runs Serve in the background and returns its base URL and a stop function.
func startServe(t *testing.T, a *app.App, m appMocks) (string, func()) {
	t.Helper()
	addrs := make(chan string, 1)
	m.logger.EXPECT().Info(gomock.Any()).Do(func(msg string) {
		if addr, ok := strings.CutPrefix(msg, "listening on "); ok {
			addrs <- addr
		}
	}).AnyTimes()
	m.logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Serve(ctx, app.ServeOptions{})
	}()

	var addr string
	select {
	case addr = <-addrs:
	case err := <-errCh:
		cancel()
		t.Fatalf("serve returned early: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("server did not start")
	}

	return "http://" + addr, func() {
		t.Helper()
		cancel()
		select {
		case err := <-errCh:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("server did not stop")
		}
	}
}

func TestApp_Serve_ListenFailure(t *testing.T) {
	cfg := testConfig(t)
	a, m := setupApp(t, cfg)
	m.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	err := a.Serve(context.Background(), app.ServeOptions{Listen: "256.0.0.1:bad"})
	require.ErrorIs(t, err, domain.ErrServeFailed)
	assert.False(t, errors.Is(err, context.Canceled))
}
