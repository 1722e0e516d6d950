// Package detector picks the log output format for the current environment.
package detector

import (
	"os"

	"go.trai.ch/catalyst/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// LogFormat is the rendering used for log lines.
type LogFormat int

const (
	// FormatAuto defers to environment detection.
	FormatAuto LogFormat = iota
	// FormatPretty renders colored human-readable lines.
	FormatPretty
	// FormatJSON renders one JSON object per line.
	FormatJSON
)

// String returns the flag spelling of the format.
func (f LogFormat) String() string {
	switch f {
	case FormatPretty:
		return "pretty"
	case FormatJSON:
		return "json"
	default:
		return "auto"
	}
}

// DetectEnvironment returns the recommended format based on the environment.
// Pretty output needs stderr to be a terminal outside of CI.
func DetectEnvironment() LogFormat {
	return detect(term.IsTerminal(int(os.Stderr.Fd())), os.Getenv("CI"))
}

func detect(isTTY bool, ci string) LogFormat {
	isCI := ci == "true" || ci == "1"
	if !isTTY || isCI {
		return FormatJSON
	}
	return FormatPretty
}

// ResolveFormat applies the --log-format flag to the detected format.
// userFlag should be one of: "auto", "pretty", "json", or empty.
func ResolveFormat(autoDetected LogFormat, userFlag string) (LogFormat, error) {
	switch userFlag {
	case "pretty", "text":
		return FormatPretty, nil
	case "json":
		return FormatJSON, nil
	case "auto", "":
		return autoDetected, nil
	default:
		return FormatAuto, zerr.With(zerr.Wrap(domain.ErrUnknownLogFormat, "resolve log format"), "value", userFlag)
	}
}
