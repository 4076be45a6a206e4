package logging

import (
	"bytes"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/felixgeelhaar/bolt/v3"
)

// testLogger creates a logger that writes to a buffer for testing
func testLogger() (*bolt.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	handler := bolt.NewJSONHandler(buf)
	logger := bolt.New(handler).SetLevel(bolt.TRACE)
	return logger, buf
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	config := DefaultConfig()

	if config.Level != "info" {
		t.Errorf("Level = %s, want info", config.Level)
	}
	if config.Format != "console" {
		t.Errorf("Format = %s, want console", config.Format)
	}
	if config.Output != os.Stderr {
		t.Errorf("Output = %v, want os.Stderr", config.Output)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected bolt.Level
	}{
		{"trace", bolt.TRACE},
		{"debug", bolt.DEBUG},
		{"info", bolt.INFO},
		{"warn", bolt.WARN},
		{"error", bolt.ERROR},
		{"unknown", bolt.INFO},
		{"", bolt.INFO},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			result := parseLevel(tt.input)
			if result != tt.expected {
				t.Errorf("parseLevel(%s) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestPackFields(t *testing.T) {
	t.Parallel()

	logger, buf := testLogger()
	event := logger.Info()
	event = PackID("MyPack")(event)
	event = PackVersion("1.2.3")(event)
	event = Author("Acme")(event)
	event = Backend("s3")(event)
	event.Msg("test")

	for _, want := range []string{
		`"pack_id":"MyPack"`,
		`"pack_version":"1.2.3"`,
		`"author":"Acme"`,
		`"backend":"s3"`,
	} {
		if !bytes.Contains(buf.Bytes(), []byte(want)) {
			t.Errorf("expected %s in output: %s", want, buf.String())
		}
	}
}

func TestRequestFields(t *testing.T) {
	t.Parallel()

	logger, buf := testLogger()
	event := logger.Info()
	event = Endpoint("/contentpacks/metadata/installed")(event)
	event = Status(200)(event)
	event = Duration(1500 * time.Millisecond)(event)
	event.Msg("test")

	for _, want := range []string{
		`"endpoint":"/contentpacks/metadata/installed"`,
		`"status":200`,
		`"duration_ms":1500`,
	} {
		if !bytes.Contains(buf.Bytes(), []byte(want)) {
			t.Errorf("expected %s in output: %s", want, buf.String())
		}
	}
}

func TestStrField(t *testing.T) {
	t.Parallel()

	logger, buf := testLogger()
	event := logger.Info()
	Str("file", "pack.zip")(event).Msg("test")

	if !bytes.Contains(buf.Bytes(), []byte(`"file":"pack.zip"`)) {
		t.Errorf("expected file field in output: %s", buf.String())
	}
}

func TestErrorField(t *testing.T) {
	t.Parallel()

	t.Run("with error", func(t *testing.T) {
		t.Parallel()

		logger, buf := testLogger()
		event := logger.Info()
		ErrorField(errors.New("upload rejected"))(event).Msg("test")

		if !bytes.Contains(buf.Bytes(), []byte(`"error":"upload rejected"`)) {
			t.Errorf("expected error field in output: %s", buf.String())
		}
	})

	t.Run("with nil error", func(t *testing.T) {
		t.Parallel()

		logger, buf := testLogger()
		event := logger.Info()
		ErrorField(nil)(event).Msg("test")

		if bytes.Contains(buf.Bytes(), []byte(`"error"`)) {
			t.Errorf("unexpected error field in output: %s", buf.String())
		}
	})
}

func TestLogEventAddChainsFields(t *testing.T) {
	logger, buf := testLogger()

	event := &LogEvent{event: logger.Info()}
	event.Add(PackID("P")).Add(PackVersion("2.0.0")).Msg("test")

	if !bytes.Contains(buf.Bytes(), []byte(`"pack_id":"P"`)) {
		t.Errorf("expected pack_id field in output: %s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"pack_version":"2.0.0"`)) {
		t.Errorf("expected pack_version field in output: %s", buf.String())
	}
}

func TestGet(t *testing.T) {
	logger := Get()
	if logger == nil {
		t.Fatal("Get() returned nil")
	}
}

// TestSetLevel exercises level changes on the default logger after Init has
// already run once.
func TestSetLevel(t *testing.T) {
	SetLevel("debug")
	SetLevel("error")
	SetLevel("info")
}

func TestLevelHelpers(t *testing.T) {
	for name, fn := range map[string]func() *LogEvent{
		"Debug": Debug,
		"Info":  Info,
		"Warn":  Warn,
		"Error": Error,
	} {
		if fn() == nil {
			t.Fatalf("%s() returned nil", name)
		}
	}
}
