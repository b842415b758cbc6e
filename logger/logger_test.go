package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
		verbosity  int
		wantErr    bool
	}{
		{
			name:       "JSON output mode",
			jsonOutput: true,
			verbosity:  VerbosityUser,
		},
		{
			name:       "Console output mode",
			jsonOutput: false,
			verbosity:  VerbosityInfo,
		},
		{
			name:       "Console debug mode",
			jsonOutput: false,
			verbosity:  VerbosityDebug,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset global logger
			Logger = nil
			JSONOutput = false

			err := Initialize(tt.jsonOutput, tt.verbosity)
			if (err != nil) != tt.wantErr {
				t.Errorf("Initialize() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if Logger == nil {
				t.Fatal("Initialize() did not set global Logger")
			}
			if JSONOutput != tt.jsonOutput {
				t.Errorf("Initialize() JSONOutput = %v, want %v", JSONOutput, tt.jsonOutput)
			}

			wantLevel := VerbosityToLevel(tt.verbosity)
			if !Logger.Desugar().Core().Enabled(wantLevel) {
				t.Errorf("Initialize() level %v not enabled", wantLevel)
			}
			if wantLevel > zapcore.DebugLevel && Logger.Desugar().Core().Enabled(wantLevel-1) {
				t.Errorf("Initialize() level below %v should be disabled", wantLevel)
			}

			Logger.Sync()
			Logger = zap.NewNop().Sugar()
		})
	}
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{VerbosityUser, zapcore.WarnLevel},
		{VerbosityInfo, zapcore.InfoLevel},
		{VerbosityDebug, zapcore.DebugLevel},
		{7, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		if got := VerbosityToLevel(tt.verbosity); got != tt.want {
			t.Errorf("VerbosityToLevel(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}

func TestLevelName(t *testing.T) {
	if got := LevelName(VerbosityInfo); got != "Info (-v)" {
		t.Errorf("LevelName(1) = %q", got)
	}
	if got := LevelName(5); got != "Debug (-vv)" {
		t.Errorf("LevelName(5) = %q", got)
	}
}

func TestComponentLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Logger = zap.New(core).Sugar()
	defer func() { Logger = zap.NewNop().Sugar() }()

	ComponentLogger("processor").Infow("root generated", FieldRoot, "app.State")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].LoggerName != "processor" {
		t.Errorf("LoggerName = %q, want processor", entries[0].LoggerName)
	}
	if got := entries[0].ContextMap()[FieldRoot]; got != "app.State" {
		t.Errorf("root field = %v", got)
	}
}

func TestChildLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	parent := zap.New(core).Sugar()

	ChildLogger(parent, FieldPass, 2).Warnw("deferred")

	entries := logs.FilterMessage("deferred").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()[FieldPass]; got != int64(2) {
		t.Errorf("pass field = %v (%T)", got, got)
	}
}

func TestPackageHelpersWithNilLogger(t *testing.T) {
	Logger = nil
	defer func() { Logger = zap.NewNop().Sugar() }()

	// Must not panic
	Infow("x")
	Warnw("x")
	Errorw("x")
	Debugw("x")
	Cleanup()
}
