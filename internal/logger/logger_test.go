package logger

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLoggerInitialization(t *testing.T) {
	testCases := []struct {
		name     string
		level    LogLevel
		expected logrus.Level
	}{
		{"debug_level", DebugLevel, logrus.DebugLevel},
		{"info_level", InfoLevel, logrus.InfoLevel},
		{"warn_level", WarnLevel, logrus.WarnLevel},
		{"error_level", ErrorLevel, logrus.ErrorLevel},
		{"panic_level", PanicLevel, logrus.PanicLevel},
		{"invalid_level", "invalid", logrus.InfoLevel}, // default fallback
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			log = nil
			Init(tc.level)
			assert.Equal(t, tc.expected, Get().GetLevel())
		})
	}
}

func TestGetDefaultInitialization(t *testing.T) {
	log = nil

	// Get without Init must come up quiet
	logger := Get()
	assert.NotNil(t, logger)
	assert.Equal(t, logrus.PanicLevel, logger.GetLevel())
}

func TestFormattedLogging(t *testing.T) {
	log = nil
	Init(DebugLevel)

	var buf bytes.Buffer
	Get().SetOutput(&buf)

	Debugf("debug %s", "message")
	Infof("info %d", 42)
	Warnf("warn %v", true)
	Errorf("error %s", "case")

	out := buf.String()
	assert.Contains(t, out, "debug message")
	assert.Contains(t, out, "info 42")
	assert.Contains(t, out, "warn true")
	assert.Contains(t, out, "error case")
}

func TestWithField(t *testing.T) {
	log = nil
	Init(InfoLevel)

	var buf bytes.Buffer
	Get().SetOutput(&buf)

	WithField("key", "q").Info("guarded")
	assert.Contains(t, buf.String(), "key=q")
}
