package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"hrcore/internal/config"
)

func TestNewHonoursLevel(t *testing.T) {
	logger, err := New(config.Log{Level: "warn"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("expected info to be disabled at warn level")
	}
	if !logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatalf("expected error to be enabled")
	}
}

func TestNewDevelopmentDefaultsToInfo(t *testing.T) {
	logger, err := New(config.Log{Development: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if logger.Core().Enabled(zapcore.DebugLevel) || !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("expected info level")
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(config.Log{Level: "chatty"}); err == nil {
		t.Fatalf("expected unknown level to fail")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatalf("expected nop logger")
	}
}
