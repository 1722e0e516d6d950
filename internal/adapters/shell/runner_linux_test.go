//go:build linux

package shell_test

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/catalyst/internal/core/domain"
)

// gone reports whether pid no longer names a live process. Zombies count as
// gone because they hold no resources and only wait for their parent.
func gone(pid int) bool {
	if err := syscall.Kill(pid, 0); errors.Is(err, syscall.ESRCH) {
		return true
	}
	stat, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "stat"))
	if err != nil {
		return true
	}
	// Field 3 follows the parenthesised command name.
	rest := string(stat[strings.LastIndexByte(string(stat), ')')+1:])
	fields := strings.Fields(rest)
	return len(fields) > 0 && fields[0] == "Z"
}

func readPid(t *testing.T, path string) int {
	t.Helper()
	var raw []byte
	require.Eventually(t, func() bool {
		var err error
		raw, err = os.ReadFile(path)
		return err == nil && len(strings.TrimSpace(string(raw))) > 0
	}, 5*time.Second, 10*time.Millisecond)
	pid, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	require.NoError(t, err)
	return pid
}

func TestRunner_Run_TimeoutKillsDescendants(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "child.pid")
	r := newRunner(t)

	res := r.Run(t.Context(), domain.NewTask("tree", "sh",
		domain.WithArgs("-c", `sleep 60 & echo $! > "$PID_FILE"; wait`),
		domain.WithEnv(map[string]string{"PID_FILE": pidFile}),
		domain.WithTimeout(300*time.Millisecond),
	))

	require.False(t, res.OK())
	assert.Equal(t, domain.KindTimeout, res.Failure().Kind)

	pid := readPid(t, pidFile)
	assert.Eventually(t, func() bool { return gone(pid) }, 5*time.Second, 20*time.Millisecond,
		"descendant %d survived the timeout", pid)
}

func TestRunner_Run_SuccessReapsBackgroundChildren(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "child.pid")
	r := newRunner(t)

	res := r.Run(t.Context(), domain.NewTask("detach", "sh",
		domain.WithArgs("-c", `sleep 60 >/dev/null 2>&1 & echo $! > "$PID_FILE"; echo ok`),
		domain.WithEnv(map[string]string{"PID_FILE": pidFile}),
	))

	require.True(t, res.OK(), "unexpected failure: %v", res.Err())
	assert.Equal(t, "ok", res.Stdout())

	pid := readPid(t, pidFile)
	assert.Eventually(t, func() bool { return gone(pid) }, 5*time.Second, 20*time.Millisecond,
		"background child %d outlived the run", pid)
}
