package form

import (
	"context"
	"fmt"

	"github.com/doeshing/irisform/internal/domain"
)

// Trigger names a UI control that can fire a command.
type Trigger string

const (
	TriggerSubmit       Trigger = "submit"
	TriggerSample       Trigger = "sample"
	TriggerField        Trigger = "field"
	TriggerClearHistory Trigger = "clear-history"
)

// Argument keys understood by the default handlers. The submit trigger takes
// field names as keys.
const (
	ArgSample = "sample"
	ArgField  = "field"
	ArgValue  = "value"
)

// Handler runs one command against the controller.
type Handler func(ctx context.Context, args map[string]string) error

// Register binds h to trigger, replacing any previous handler.
func (c *Controller) Register(trigger Trigger, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[trigger] = h
}

// Dispatch runs the handler bound to trigger and returns the resulting view.
func (c *Controller) Dispatch(ctx context.Context, trigger Trigger, args map[string]string) (View, error) {
	c.mu.Lock()
	h, ok := c.handlers[trigger]
	c.mu.Unlock()
	if !ok {
		return c.View(), fmt.Errorf("%w: %s", ErrUnknownTrigger, trigger)
	}
	err := h(ctx, args)
	return c.View(), err
}

func (c *Controller) registerDefaults() {
	c.handlers[TriggerSubmit] = func(ctx context.Context, args map[string]string) error {
		values := make(map[domain.Field]string, len(args))
		for name, value := range args {
			values[domain.Field(name)] = value
		}
		_, err := c.SubmitValues(ctx, values)
		return err
	}
	c.handlers[TriggerSample] = func(_ context.Context, args map[string]string) error {
		return c.LoadSample(args[ArgSample])
	}
	c.handlers[TriggerField] = func(_ context.Context, args map[string]string) error {
		return c.SetField(domain.Field(args[ArgField]), args[ArgValue])
	}
	c.handlers[TriggerClearHistory] = func(context.Context, map[string]string) error {
		return c.ClearHistory()
	}
}
