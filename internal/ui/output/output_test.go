package output_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/catalyst/internal/ui/output"
	"go.trai.ch/catalyst/internal/ui/style"
)

func TestColorProfile(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, output.ColorProfile(), "NO_COLOR should force Ascii profile")

	t.Setenv("NO_COLOR", "")
	p := output.ColorProfile()
	assert.True(t, p >= termenv.TrueColor && p <= termenv.Ascii, "should return a valid profile")
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	out := output.New(&buf)
	assert.NotNil(t, out)

	_, _ = out.WriteString("test")
	assert.Equal(t, "test", buf.String())
}

func TestNew_Nil(t *testing.T) {
	assert.NotNil(t, output.New(nil))
}

func TestPaint_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	out := output.New(&bytes.Buffer{})
	assert.Equal(t, "ready", output.Paint(out, "ready", style.Green))
}

func TestPaint_TrueColor(t *testing.T) {
	out := termenv.NewOutput(&bytes.Buffer{}, termenv.WithProfile(termenv.TrueColor))

	painted := output.Paint(out, "failed", style.Red)
	assert.Contains(t, painted, "failed")
	assert.NotEqual(t, "failed", painted, "expected escape sequences")
}
