package app

import (
	"github.com/okian/resumatch/internal/domain/state"
	"github.com/okian/resumatch/pkg/logger"
)

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithLogger sets a custom logger for the controller.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithFallbackMessage replaces the message shown for transport and decode failures.
func WithFallbackMessage(msg string) Option {
	return func(c *Controller) {
		if msg != "" {
			c.fallback = msg
		}
	}
}

// WithOnChange registers a callback invoked after every state change, in
// order, from the goroutine that made the change.
func WithOnChange(fn func(state.State)) Option {
	return func(c *Controller) {
		if fn != nil {
			c.onChange = append(c.onChange, fn)
		}
	}
}
