package logging

import (
	"fmt"

	"github.com/go-kit/log"
)

// CaptureLogger is a go-kit Logger that sends each log event, as a map, to a channel.
// Intended for test assertions.  Log panics on an odd number of key/value arguments.
type CaptureLogger interface {
	log.Logger

	Output() <-chan map[interface{}]interface{}
}

type captureLogger struct {
	output chan map[interface{}]interface{}
}

func (cl *captureLogger) Output() <-chan map[interface{}]interface{} {
	return cl.output
}

func (cl *captureLogger) Log(kv ...interface{}) error {
	if len(kv)%2 != 0 {
		panic(fmt.Errorf("invalid key/value count: %d", len(kv)))
	}

	m := make(map[interface{}]interface{}, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}

	cl.output <- m
	return nil
}

// NewCaptureLogger creates a CaptureLogger whose channel buffers the given number of
// events.  A nonpositive size means 10.
func NewCaptureLogger(size ...int) CaptureLogger {
	n := 10
	if len(size) > 0 && size[0] > 0 {
		n = size[0]
	}

	return &captureLogger{
		output: make(chan map[interface{}]interface{}, n),
	}
}
