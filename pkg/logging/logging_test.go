package logging_test

import (
	"bytes"
	"context"
	"hatchplot/pkg/logging"
	"log/slog"
	"strings"
	"testing"
)

func TestDefaultSilent(t *testing.T) {
	logging.SetLogger(nil)
	if logging.Logger().Enabled(context.Background(), slog.LevelError) {
		t.Errorf("default logger should be disabled")
	}
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	logging.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer logging.SetLogger(nil)

	logging.Logger().Info("pass done", "strokes", 3)
	if !strings.Contains(buf.String(), "strokes=3") {
		t.Errorf("log output missing attribute: %q", buf.String())
	}
}
