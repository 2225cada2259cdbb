package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/natefinch/lumberjack.v2"
)

func testOptionsLoggerFactory(t *testing.T) {
	assert := assert.New(t)

	for _, o := range []*Options{nil, new(Options), {JSON: true}, {JSON: false}} {
		assert.NotNil(o.loggerFactory())
	}
}

func testOptionsOutput(t *testing.T) {
	assert := assert.New(t)

	for _, o := range []*Options{nil, {File: StdoutFile}} {
		output := o.output()
		assert.NotNil(output)
		_, err := output.Write([]byte("expected output: this shouldn't panic\n"))
		assert.NoError(err)
	}

	rolling := &Options{
		File:       "observe.log",
		MaxSize:    100,
		MaxAge:     9,
		MaxBackups: 3,
	}

	lumberjackLogger, ok := rolling.output().(*lumberjack.Logger)
	if assert.True(ok) {
		assert.Equal("observe.log", lumberjackLogger.Filename)
		assert.Equal(100, lumberjackLogger.MaxSize)
		assert.Equal(9, lumberjackLogger.MaxAge)
		assert.Equal(3, lumberjackLogger.MaxBackups)
	}
}

func testOptionsLevel(t *testing.T) {
	assert := assert.New(t)

	for _, o := range []*Options{nil, new(Options)} {
		assert.Empty(o.level())
	}

	assert.Equal("info", (&Options{Level: "info"}).level())
}

func TestOptions(t *testing.T) {
	t.Run("LoggerFactory", testOptionsLoggerFactory)
	t.Run("Output", testOptionsOutput)
	t.Run("Level", testOptionsLevel)
}
