// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package logging

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// TestLogger writes log lines to a test's log.
type TestLogger struct {
	Test testing.TB
}

var _ io.Writer = (*TestLogger)(nil)

func (l *TestLogger) Write(b []byte) (int, error) {
	l.Test.Helper()
	l.Test.Log(strings.TrimSuffix(string(b), "\n"))
	return len(b), nil
}

// NewTestLogger returns a debug-level logger that writes to the test's log,
// formatted with zerolog's console writer.
func NewTestLogger(t testing.TB) *slog.Logger {
	w := zerolog.ConsoleWriter{Out: &TestLogger{Test: t}, NoColor: true}
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// zerolog expects the message in the "message" field
			if a.Key == slog.MessageKey {
				return slog.String(zerolog.MessageFieldName, a.Value.String())
			}
			return a
		},
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
