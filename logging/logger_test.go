package logging

import (
	"bytes"
	"testing"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLogger(t *testing.T) {
	assert := assert.New(t)
	assert.NotNil(DefaultLogger())
	assert.NoError(DefaultLogger().Log("key", "value"))
}

func TestKeys(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("caller", CallerKey())
	assert.Equal("msg", MessageKey())
	assert.Equal("error", ErrorKey())
	assert.Equal("ts", TimestampKey())
}

func TestNew(t *testing.T) {
	assert := assert.New(t)
	for _, o := range []*Options{nil, new(Options), {JSON: true, Level: "debug"}} {
		logger := New(o)
		assert.NotNil(logger)
	}
}

func TestNewFilter(t *testing.T) {
	testData := []struct {
		level   string
		allowed []level.Value
		denied  []level.Value
	}{
		{"", []level.Value{level.ErrorValue()}, []level.Value{level.WarnValue(), level.InfoValue(), level.DebugValue()}},
		{"WARN", []level.Value{level.ErrorValue(), level.WarnValue()}, []level.Value{level.InfoValue(), level.DebugValue()}},
		{"info", []level.Value{level.ErrorValue(), level.WarnValue(), level.InfoValue()}, []level.Value{level.DebugValue()}},
		{"Debug", []level.Value{level.ErrorValue(), level.WarnValue(), level.InfoValue(), level.DebugValue()}, nil},
	}

	for _, record := range testData {
		t.Run(record.level, func(t *testing.T) {
			var (
				assert = assert.New(t)
				output bytes.Buffer
				logger = NewFilter(log.NewLogfmtLogger(&output), &Options{Level: record.level})
			)

			for _, v := range record.allowed {
				output.Reset()
				logger.Log(level.Key(), v, MessageKey(), "allowed")
				assert.Contains(output.String(), "allowed")
			}

			for _, v := range record.denied {
				output.Reset()
				logger.Log(level.Key(), v, MessageKey(), "denied")
				assert.Empty(output.String())
			}
		})
	}
}

func TestLevelFunctions(t *testing.T) {
	testData := []struct {
		name     string
		decorate func(log.Logger, ...interface{}) log.Logger
		expected level.Value
	}{
		{"Error", Error, level.ErrorValue()},
		{"Warn", Warn, level.WarnValue()},
		{"Info", Info, level.InfoValue()},
		{"Debug", Debug, level.DebugValue()},
	}

	for _, record := range testData {
		t.Run(record.name, func(t *testing.T) {
			var (
				assert  = assert.New(t)
				require = require.New(t)
				capture = NewCaptureLogger()
			)

			require.NoError(record.decorate(capture, "extra", 123).Log(MessageKey(), "message"))
			event := <-capture.Output()
			assert.Equal(record.expected, event[level.Key()])
			assert.Equal(123, event["extra"])
			assert.Equal("message", event[MessageKey()])
			assert.NotNil(event[CallerKey()])
		})
	}
}

func TestDefaultCaller(t *testing.T) {
	var (
		assert  = assert.New(t)
		capture = NewCaptureLogger()
	)

	DefaultCaller(capture, "key", "value").Log(MessageKey(), "message")
	event := <-capture.Output()
	assert.Equal("value", event["key"])
	assert.NotNil(event[CallerKey()])
	assert.NotContains(event, level.Key())
}
