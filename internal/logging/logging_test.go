// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContextAttrs(t *testing.T) {
	ctx := With(context.Background(), "foo", "bar", slog.Int("n", 1), 2)
	attrs := Attrs(ctx)
	require.Len(t, attrs, 3)
	require.Equal(t, "foo", attrs[0].Key)
	require.Equal(t, "bar", attrs[0].Value.String())
	require.Equal(t, "n", attrs[1].Key)
	require.Equal(t, "!BADKEY", attrs[2].Key)

	// Children do not modify their parent
	a := With(ctx, "a", 1)
	b := With(ctx, "b", 2)
	require.Len(t, Attrs(ctx), 3)
	require.Equal(t, "a", Attrs(a)[3].Key)
	require.Equal(t, "b", Attrs(b)[3].Key)
}

func TestTestLogger(t *testing.T) {
	logger := Module(NewTestLogger(t), "test")
	logger.Info("Hello world", "answer", 42)
}
