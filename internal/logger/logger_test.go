package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithComponentWritesJSON(t *testing.T) {
	l := New()
	var buf bytes.Buffer
	l.SetOutput(&buf)

	l.WithComponent("server").WithFields(Fields{"route": "/api/tuning"}).Info("request handled")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "server", line["component"])
	assert.Equal(t, "/api/tuning", line["route"])
	assert.Equal(t, "request handled", line["message"])
	assert.Contains(t, line, "timestamp")
}

func TestEntryChainKeepsFields(t *testing.T) {
	l := New()
	var buf bytes.Buffer
	l.SetOutput(&buf)

	l.WithFields(Fields{"design": "d1"}).
		WithComponent("store").
		WithError(errors.New("disk full")).
		Error("save failed")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "d1", line["design"])
	assert.Equal(t, "store", line["component"])
	assert.Equal(t, "disk full", line["error"])
}

func TestConfigure(t *testing.T) {
	l := New()
	require.NoError(t, l.Configure("debug", "text", "stdout", 0))
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, l.Formatter)

	assert.Error(t, l.Configure("loud", "json", "", 0))
	assert.Error(t, l.Configure("info", "xml", "", 0))
}

func TestConfigureFileOutput(t *testing.T) {
	l := New()
	path := filepath.Join(t.TempDir(), "subdesigner.log")
	require.NoError(t, l.Configure("info", "json", path, 0))
	l.WithComponent("test").Info("to file")
	assert.FileExists(t, path)
}

func TestLogDuration(t *testing.T) {
	l := New()
	var buf bytes.Buffer
	l.SetOutput(&buf)
	l.SetLevel(logrus.DebugLevel)

	LogDuration(l.WithComponent("design"), "evaluate", time.Now().Add(-5*time.Millisecond), nil)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "evaluate", line["operation"])
	assert.GreaterOrEqual(t, line["duration_ms"].(float64), 5.0)
}
