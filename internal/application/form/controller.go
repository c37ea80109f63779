// Package form implements the prediction form controller.
//
// A Controller owns the form state: the four raw input values, the current
// result view, the history log and the submit control. Surfaces (terminal,
// browser) never mutate that state directly; they dispatch named triggers
// and read back an immutable View.
package form

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/doeshing/irisform/internal/application/render"
	"github.com/doeshing/irisform/internal/domain"
	"github.com/doeshing/irisform/internal/ports"
)

var (
	// ErrSubmitInProgress is returned while a prediction request is in flight.
	ErrSubmitInProgress = errors.New("a prediction is already in progress")
	// ErrUnknownTrigger is returned by Dispatch for unregistered triggers.
	ErrUnknownTrigger = errors.New("unknown trigger")
	// ErrUnknownField is returned when setting a field the form does not have.
	ErrUnknownField = errors.New("unknown field")
)

// Deps are the collaborators of a Controller. Predictor and History are required.
type Deps struct {
	Predictor       ports.Predictor
	History         ports.HistoryRepository
	Alerter         ports.Alerter
	Metrics         ports.PredictionMetrics
	Logger          ports.Logger
	TimestampLayout string
	Now             func() time.Time
	// OnSubmitControl is called outside the state lock whenever the submit
	// control changes between idle and busy.
	OnSubmitControl func(render.SubmitControlView)
}

// Controller is the prediction form.
type Controller struct {
	deps Deps

	mu       sync.Mutex
	state    State
	handlers map[Trigger]Handler
}

// NewController rehydrates the history log and registers the default triggers.
func NewController(deps Deps) (*Controller, error) {
	if deps.Predictor == nil || deps.History == nil {
		return nil, errors.New("form.Controller dependencies not satisfied")
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.TimestampLayout == "" {
		deps.TimestampLayout = domain.DefaultTimestampLayout
	}

	c := &Controller{
		deps:     deps,
		state:    newState(deps.History.Load()),
		handlers: make(map[Trigger]Handler),
	}
	c.registerDefaults()
	c.observeHistorySize(len(c.state.History))
	return c, nil
}

// View returns a snapshot of the current state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.view()
}

// SetField stores the raw text of one input.
func (c *Controller) SetField(field domain.Field, value string) error {
	if !field.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Fields[field] = value
	return nil
}

// SetFields stores several inputs at once. Unknown fields abort before any change.
func (c *Controller) SetFields(values map[domain.Field]string) error {
	for field := range values {
		if !field.Valid() {
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for field, value := range values {
		c.state.Fields[field] = value
	}
	return nil
}

// LoadSample overwrites all four inputs with a preset. It never submits.
func (c *Controller) LoadSample(name string) error {
	sample, err := domain.LookupSample(name)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Fields = sample.Features.Values()
	c.state.Alert = ""
	return nil
}

// Submit validates the inputs and performs one prediction round trip.
//
// A *domain.ValidationError is alerted and returned; nothing is sent and the
// control stays idle. Request failures are rendered into the result view and
// not returned. Only successful predictions reach the history log.
func (c *Controller) Submit(ctx context.Context) (View, error) {
	return c.submit(ctx, nil)
}

// SubmitValues stores values and submits them as one step. While a request is
// in flight it returns ErrSubmitInProgress and leaves the fields untouched.
func (c *Controller) SubmitValues(ctx context.Context, values map[domain.Field]string) (View, error) {
	for field := range values {
		if !field.Valid() {
			return c.View(), fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}
	return c.submit(ctx, values)
}

func (c *Controller) submit(ctx context.Context, values map[domain.Field]string) (View, error) {
	c.mu.Lock()
	if c.state.Busy {
		view := c.state.view()
		c.mu.Unlock()
		return view, ErrSubmitInProgress
	}
	for field, value := range values {
		c.state.Fields[field] = value
	}
	c.state.Alert = ""
	features, err := domain.ParseFeatures(c.state.Fields)
	if err != nil {
		c.state.Alert = err.Error()
		view := c.state.view()
		c.mu.Unlock()
		c.alert(err.Error())
		c.observe(domain.OutcomeInvalidInput, 0)
		return view, err
	}
	c.state.Busy = true
	c.mu.Unlock()

	c.notifySubmitControl(true)
	defer c.notifySubmitControl(false)

	start := time.Now()
	prediction, err := c.predict(ctx, features)
	elapsed := time.Since(start)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Busy = false

	if err != nil {
		c.state.Result = render.Failure(err)
		c.logWarn("prediction failed", map[string]interface{}{"error": err.Error()})
		c.observe(domain.OutcomeRequestError, elapsed)
		return c.state.view(), nil
	}

	c.state.Result = render.Success(features, prediction)
	entry := domain.NewHistoryEntry(c.deps.Now(), c.deps.TimestampLayout, features, prediction)
	c.state.History = c.state.History.Prepend(entry)
	if err := c.deps.History.Save(c.state.History); err != nil {
		c.logError("history persist failed", err)
	}
	c.observe(domain.OutcomeSuccess, elapsed)
	c.observeHistorySize(len(c.state.History))
	return c.state.view(), nil
}

// ClearHistory empties the in-memory log and its stored mirror.
func (c *Controller) ClearHistory() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.deps.History.Clear(); err != nil {
		return err
	}
	c.state.History = domain.HistoryLog{}
	c.observeHistorySize(0)
	return nil
}

// predict converts panics in the predictor into request errors so the
// control always returns to idle.
func (c *Controller) predict(ctx context.Context, features domain.FeatureVector) (prediction domain.Prediction, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &domain.RequestError{Err: fmt.Errorf("predictor panic: %v", r)}
		}
	}()
	return c.deps.Predictor.Predict(ctx, features)
}

func (c *Controller) notifySubmitControl(busy bool) {
	if c.deps.OnSubmitControl != nil {
		c.deps.OnSubmitControl(render.SubmitControl(busy))
	}
}

func (c *Controller) alert(msg string) {
	if c.deps.Alerter != nil {
		c.deps.Alerter.Alert(msg)
	}
}

func (c *Controller) observe(outcome string, elapsed time.Duration) {
	if c.deps.Metrics != nil {
		c.deps.Metrics.ObservePrediction(outcome, elapsed)
	}
}

func (c *Controller) observeHistorySize(n int) {
	if c.deps.Metrics != nil {
		c.deps.Metrics.SetHistorySize(n)
	}
}

func (c *Controller) logWarn(msg string, fields map[string]interface{}) {
	if c.deps.Logger != nil {
		c.deps.Logger.Warn(msg, fields)
	}
}

func (c *Controller) logError(msg string, err error) {
	if c.deps.Logger != nil {
		c.deps.Logger.Error(msg, err, nil)
	}
}
