// Package logginghandler prints observation lifecycles to a go-kit logger.
package logginghandler

import (
	"github.com/go-kit/log"
	"github.com/xmidt-org/observe/logging"
	"github.com/xmidt-org/observe/observation"
)

// Handler is an observation.Handler that logs every lifecycle notification at the
// debug level.  Errors are logged at the error level.
type Handler struct {
	logger log.Logger
}

// New creates a Handler.  A nil logger yields logging.DefaultLogger().
func New(logger log.Logger) *Handler {
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	return &Handler{logger: logger}
}

func (h *Handler) log(c *observation.Context, event string, keyvals ...interface{}) {
	logging.Debug(h.logger).Log(
		append(
			[]interface{}{
				logging.MessageKey(), event,
				"observation", c.ID(),
				"name", c.ContextualName(),
			},
			keyvals...,
		)...,
	)
}

func (h *Handler) OnStart(c *observation.Context) {
	h.log(c, "start", "tags", c.LowCardinalityKeyValues())
}

func (h *Handler) OnError(c *observation.Context) {
	logging.Error(h.logger).Log(
		logging.MessageKey(), "error",
		logging.ErrorKey(), c.Error(),
		"observation", c.ID(),
		"name", c.ContextualName(),
	)
}

func (h *Handler) OnEvent(e observation.Event, c *observation.Context) {
	h.log(c, "event", "event", e)
}

func (h *Handler) OnScopeOpened(c *observation.Context) {
	h.log(c, "open")
}

func (h *Handler) OnScopeClosed(c *observation.Context) {
	h.log(c, "close")
}

func (h *Handler) OnScopeReset(c *observation.Context) {
	h.log(c, "reset")
}

func (h *Handler) OnStop(c *observation.Context) {
	h.log(c, "stop", "tags", c.AllKeyValues())
}

func (h *Handler) SupportsContext(*observation.Context) bool {
	return true
}
