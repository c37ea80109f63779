package form

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/irisform/internal/application/history"
	"github.com/doeshing/irisform/internal/application/render"
	"github.com/doeshing/irisform/internal/domain"
	"github.com/doeshing/irisform/internal/infrastructure/predict"
	"github.com/doeshing/irisform/internal/infrastructure/storage"
	"github.com/doeshing/irisform/internal/pkg/logger"
)

type stubPredictor struct {
	calls      int32
	prediction domain.Prediction
	err        error
	block      chan struct{}
	started    chan struct{}
	features   []domain.FeatureVector
	mu         sync.Mutex
}

func (s *stubPredictor) Predict(ctx context.Context, features domain.FeatureVector) (domain.Prediction, error) {
	atomic.AddInt32(&s.calls, 1)
	s.mu.Lock()
	s.features = append(s.features, features)
	s.mu.Unlock()
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.block != nil {
		<-s.block
	}
	return s.prediction, s.err
}

type stubHistory struct {
	loaded  domain.HistoryLog
	saved   []domain.HistoryLog
	saveErr error
	cleared bool
}

func (s *stubHistory) Load() domain.HistoryLog { return s.loaded }

func (s *stubHistory) Save(log domain.HistoryLog) error {
	s.saved = append(s.saved, log)
	return s.saveErr
}

func (s *stubHistory) Clear() error {
	s.cleared = true
	return nil
}

type stubAlerter struct{ messages []string }

func (s *stubAlerter) Alert(msg string) { s.messages = append(s.messages, msg) }

type stubMetrics struct {
	outcomes    []string
	historySize int
}

func (s *stubMetrics) ObservePrediction(outcome string, _ time.Duration) {
	s.outcomes = append(s.outcomes, outcome)
}

func (s *stubMetrics) SetHistorySize(n int) { s.historySize = n }

func fixedNow() time.Time {
	return time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)
}

func newTestController(t *testing.T, p *stubPredictor, h *stubHistory) (*Controller, *stubAlerter, *stubMetrics) {
	t.Helper()
	alerter := &stubAlerter{}
	metrics := &stubMetrics{}
	c, err := NewController(Deps{
		Predictor: p,
		History:   h,
		Alerter:   alerter,
		Metrics:   metrics,
		Logger:    logger.NewNop(),
		Now:       fixedNow,
	})
	require.NoError(t, err)
	return c, alerter, metrics
}

func fillFields(t *testing.T, c *Controller, values ...string) {
	t.Helper()
	for i, field := range domain.Fields {
		require.NoError(t, c.SetField(field, values[i]))
	}
}

func TestNewControllerRequiresDeps(t *testing.T) {
	_, err := NewController(Deps{History: &stubHistory{}})
	assert.Error(t, err)
	_, err = NewController(Deps{Predictor: &stubPredictor{}})
	assert.Error(t, err)
}

func TestNewControllerRehydratesHistory(t *testing.T) {
	loaded := domain.HistoryLog{
		{Timestamp: "c", Prediction: 2, Species: domain.SpeciesLabel(2)},
		{Timestamp: "b", Prediction: 1, Species: domain.SpeciesLabel(1)},
		{Timestamp: "a", Prediction: 0, Species: domain.SpeciesLabel(0)},
	}
	c, _, metrics := newTestController(t, &stubPredictor{}, &stubHistory{loaded: loaded})

	view := c.View()
	assert.Equal(t, loaded, view.HistoryLog)
	require.Len(t, view.History.Items, 3)
	assert.Equal(t, "c", view.History.Items[0].Timestamp)
	assert.Equal(t, "a", view.History.Items[2].Timestamp)
	assert.Equal(t, 3, metrics.historySize)
	assert.Equal(t, render.ResultNone, view.Result.Kind)
	assert.Equal(t, domain.SubmitLabelIdle, view.Submit.Label)
	assert.True(t, view.Submit.Enabled)
}

func TestSubmitInvalidInputSkipsRequest(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		field  string
	}{
		{name: "empty sepal length", values: []string{"", "3.5", "1.4", "0.2"}, field: "sepal length"},
		{name: "text petal width", values: []string{"5.1", "3.5", "1.4", "abc"}, field: "petal width"},
		{name: "nan sepal width", values: []string{"5.1", "NaN", "1.4", "0.2"}, field: "sepal width"},
		{name: "inf petal length", values: []string{"5.1", "3.5", "+Inf", "0.2"}, field: "petal length"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &stubPredictor{}
			h := &stubHistory{}
			c, alerter, metrics := newTestController(t, p, h)
			fillFields(t, c, tt.values...)

			view, err := c.Submit(context.Background())

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "Please enter a valid number for "+tt.field, err.Error())
			assert.Equal(t, []string{err.Error()}, alerter.messages)
			assert.Equal(t, err.Error(), view.Alert)
			assert.Zero(t, atomic.LoadInt32(&p.calls))
			assert.Empty(t, h.saved)
			assert.Empty(t, view.HistoryLog)
			assert.True(t, view.Submit.Enabled)
			assert.Equal(t, []string{domain.OutcomeInvalidInput}, metrics.outcomes)
		})
	}
}

func TestSubmitSuccessRecordsHistory(t *testing.T) {
	p := &stubPredictor{prediction: 0}
	h := &stubHistory{}
	c, alerter, metrics := newTestController(t, p, h)
	fillFields(t, c, "5.1", " 3.5 ", "1.4", "0.2")

	view, err := c.Submit(context.Background())
	require.NoError(t, err)

	assert.Empty(t, alerter.messages)
	assert.Equal(t, []domain.FeatureVector{{5.1, 3.5, 1.4, 0.2}}, p.features)
	assert.Equal(t, render.ResultSuccess, view.Result.Kind)
	assert.Contains(t, view.Result.Title, "Setosa")
	assert.Equal(t, "5.1, 3.5, 1.4, 0.2", view.Result.Features)

	require.Len(t, view.HistoryLog, 1)
	entry := view.HistoryLog[0]
	assert.Equal(t, domain.Prediction(0), entry.Prediction)
	assert.Equal(t, "Setosa 🌸", entry.Species)
	assert.Equal(t, "3/9/2024, 2:05:07 PM", entry.Timestamp)
	require.Len(t, h.saved, 1)
	assert.Equal(t, view.HistoryLog, h.saved[0])
	assert.Equal(t, []string{domain.OutcomeSuccess}, metrics.outcomes)
	assert.Equal(t, 1, metrics.historySize)
	assert.Equal(t, domain.SubmitLabelIdle, view.Submit.Label)
}

func TestSubmitRequestErrorRendersFailure(t *testing.T) {
	p := &stubPredictor{err: &domain.RequestError{StatusCode: http.StatusInternalServerError}}
	h := &stubHistory{}
	c, alerter, metrics := newTestController(t, p, h)
	fillFields(t, c, "5.1", "3.5", "1.4", "0.2")

	view, err := c.Submit(context.Background())
	require.NoError(t, err)

	assert.Empty(t, alerter.messages)
	assert.Equal(t, render.ResultError, view.Result.Kind)
	assert.Equal(t, "Error", view.Result.Title)
	assert.Contains(t, view.Result.Message, "500")
	assert.Empty(t, view.HistoryLog)
	assert.Empty(t, h.saved)
	assert.Equal(t, []string{domain.OutcomeRequestError}, metrics.outcomes)
	assert.True(t, view.Submit.Enabled)
}

func TestSubmitReplacesPreviousResult(t *testing.T) {
	p := &stubPredictor{prediction: 2}
	c, _, _ := newTestController(t, p, &stubHistory{})
	fillFields(t, c, "6.3", "3.3", "6", "2.5")

	_, err := c.Submit(context.Background())
	require.NoError(t, err)

	p.err = &domain.RequestError{StatusCode: http.StatusBadGateway}
	view, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, render.ResultError, view.Result.Kind)
	assert.Empty(t, view.Result.Species)
	assert.Len(t, view.HistoryLog, 1)
}

func TestSubmitKeepsTenNewestEntries(t *testing.T) {
	p := &stubPredictor{}
	h := &stubHistory{}
	c, _, metrics := newTestController(t, p, h)

	for i := 0; i < 11; i++ {
		fillFields(t, c, fmt.Sprintf("%d", i+1), "3", "1", "0.5")
		p.prediction = domain.Prediction(i % 3)
		_, err := c.Submit(context.Background())
		require.NoError(t, err)
	}

	view := c.View()
	require.Len(t, view.HistoryLog, domain.MaxHistoryEntries)
	assert.Equal(t, 11.0, view.HistoryLog[0].Features[0])
	assert.Equal(t, 2.0, view.HistoryLog[9].Features[0])
	assert.Len(t, h.saved[len(h.saved)-1], domain.MaxHistoryEntries)
	assert.Equal(t, domain.MaxHistoryEntries, metrics.historySize)
}

func TestSubmitPersistFailureKeepsSessionLog(t *testing.T) {
	h := &stubHistory{saveErr: errors.New("disk full")}
	c, _, _ := newTestController(t, &stubPredictor{prediction: 1}, h)
	fillFields(t, c, "6", "2.7", "5.1", "1.6")

	view, err := c.Submit(context.Background())
	require.NoError(t, err)
	require.Len(t, view.HistoryLog, 1)
	assert.Equal(t, "Versicolor 🌺", view.HistoryLog[0].Species)
}

func TestSubmitWhileBusy(t *testing.T) {
	p := &stubPredictor{block: make(chan struct{}), started: make(chan struct{}, 1)}
	var controls []render.SubmitControlView
	var controlsMu sync.Mutex
	c, err := NewController(Deps{
		Predictor: p,
		History:   &stubHistory{},
		Now:       fixedNow,
		OnSubmitControl: func(v render.SubmitControlView) {
			controlsMu.Lock()
			controls = append(controls, v)
			controlsMu.Unlock()
		},
	})
	require.NoError(t, err)
	fillFields(t, c, "5.1", "3.5", "1.4", "0.2")

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background())
		done <- err
	}()
	<-p.started

	busy := c.View()
	assert.False(t, busy.Submit.Enabled)
	assert.Equal(t, domain.SubmitLabelBusy, busy.Submit.Label)

	_, err = c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInProgress)

	close(p.block)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), atomic.LoadInt32(&p.calls))

	idle := c.View()
	assert.True(t, idle.Submit.Enabled)
	assert.Equal(t, domain.SubmitLabelIdle, idle.Submit.Label)

	controlsMu.Lock()
	defer controlsMu.Unlock()
	require.Len(t, controls, 2)
	assert.Equal(t, domain.SubmitLabelBusy, controls[0].Label)
	assert.Equal(t, domain.SubmitLabelIdle, controls[1].Label)
}

func TestSubmitValuesWhileBusyLeavesFields(t *testing.T) {
	p := &stubPredictor{block: make(chan struct{}), started: make(chan struct{}, 1)}
	c, _, _ := newTestController(t, p, &stubHistory{})

	done := make(chan error, 1)
	go func() {
		_, err := c.SubmitValues(context.Background(), domain.FeatureVector{5.1, 3.5, 1.4, 0.2}.Values())
		done <- err
	}()
	<-p.started

	_, err := c.SubmitValues(context.Background(), map[domain.Field]string{domain.FieldSepalLength: "9"})
	assert.ErrorIs(t, err, ErrSubmitInProgress)
	assert.Equal(t, "5.1", c.View().Fields[domain.FieldSepalLength])

	close(p.block)
	require.NoError(t, <-done)
	assert.Equal(t, []domain.FeatureVector{{5.1, 3.5, 1.4, 0.2}}, p.features)
	assert.Equal(t, "5.1", c.View().Fields[domain.FieldSepalLength])
}

func TestSubmitValuesRejectsUnknownField(t *testing.T) {
	p := &stubPredictor{}
	c, _, _ := newTestController(t, p, &stubHistory{})
	_, err := c.SubmitValues(context.Background(), map[domain.Field]string{"stem-length": "1"})
	assert.ErrorIs(t, err, ErrUnknownField)
	assert.Zero(t, atomic.LoadInt32(&p.calls))
}

type panicPredictor struct{}

func (panicPredictor) Predict(context.Context, domain.FeatureVector) (domain.Prediction, error) {
	panic("boom")
}

func TestSubmitRecoversPredictorPanic(t *testing.T) {
	c, err := NewController(Deps{Predictor: panicPredictor{}, History: &stubHistory{}})
	require.NoError(t, err)
	fillFields(t, c, "5.1", "3.5", "1.4", "0.2")

	view, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, render.ResultError, view.Result.Kind)
	assert.Contains(t, view.Result.Message, "boom")
	assert.True(t, view.Submit.Enabled)
}

func TestLoadSample(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{name: "setosa", want: []string{"5.1", "3.5", "1.4", "0.2"}},
		{name: "versicolor", want: []string{"6", "2.7", "5.1", "1.6"}},
		{name: "virginica", want: []string{"6.3", "3.3", "6", "2.5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &stubPredictor{}
			c, _, _ := newTestController(t, p, &stubHistory{})
			require.NoError(t, c.LoadSample(tt.name))

			view := c.View()
			for i, field := range domain.Fields {
				assert.Equal(t, tt.want[i], view.Fields[field], field)
			}
			assert.Zero(t, atomic.LoadInt32(&p.calls))
			assert.Equal(t, render.ResultNone, view.Result.Kind)
		})
	}
}

func TestLoadUnknownSampleLeavesFields(t *testing.T) {
	c, _, _ := newTestController(t, &stubPredictor{}, &stubHistory{})
	fillFields(t, c, "1", "2", "3", "4")

	err := c.LoadSample("rose")
	assert.ErrorIs(t, err, domain.ErrUnknownSample)
	assert.Equal(t, "1", c.View().Fields[domain.FieldSepalLength])
}

func TestSetFieldRejectsUnknownField(t *testing.T) {
	c, _, _ := newTestController(t, &stubPredictor{}, &stubHistory{})
	assert.ErrorIs(t, c.SetField("stem-length", "1"), ErrUnknownField)
	assert.ErrorIs(t, c.SetFields(map[domain.Field]string{"stem-length": "1"}), ErrUnknownField)
}

func TestViewIsSnapshot(t *testing.T) {
	c, _, _ := newTestController(t, &stubPredictor{}, &stubHistory{})
	require.NoError(t, c.SetField(domain.FieldSepalLength, "1"))
	view := c.View()
	view.Fields[domain.FieldSepalLength] = "9"
	assert.Equal(t, "1", c.View().Fields[domain.FieldSepalLength])
}

func TestClearHistory(t *testing.T) {
	h := &stubHistory{loaded: domain.HistoryLog{{Timestamp: "a"}}}
	c, _, metrics := newTestController(t, &stubPredictor{}, h)

	require.NoError(t, c.ClearHistory())
	assert.True(t, h.cleared)
	view := c.View()
	assert.Empty(t, view.HistoryLog)
	assert.Equal(t, domain.HistoryPlaceholder, view.History.Placeholder)
	assert.Zero(t, metrics.historySize)
}

func TestDispatch(t *testing.T) {
	p := &stubPredictor{prediction: 2}
	h := &stubHistory{}
	c, _, _ := newTestController(t, p, h)
	ctx := context.Background()

	_, err := c.Dispatch(ctx, TriggerSample, map[string]string{ArgSample: "virginica"})
	require.NoError(t, err)
	_, err = c.Dispatch(ctx, TriggerField, map[string]string{ArgField: string(domain.FieldPetalWidth), ArgValue: "2.4"})
	require.NoError(t, err)

	view, err := c.Dispatch(ctx, TriggerSubmit, nil)
	require.NoError(t, err)
	assert.Contains(t, view.Result.Title, "Virginica")
	assert.Equal(t, []domain.FeatureVector{{6.3, 3.3, 6, 2.4}}, p.features)

	view, err = c.Dispatch(ctx, TriggerClearHistory, nil)
	require.NoError(t, err)
	assert.Empty(t, view.HistoryLog)

	_, err = c.Dispatch(ctx, "reset", nil)
	assert.ErrorIs(t, err, ErrUnknownTrigger)
}

func TestRegisterCustomHandler(t *testing.T) {
	c, _, _ := newTestController(t, &stubPredictor{}, &stubHistory{})
	called := false
	c.Register("reset", func(context.Context, map[string]string) error {
		called = true
		return nil
	})
	_, err := c.Dispatch(context.Background(), "reset", nil)
	require.NoError(t, err)
	assert.True(t, called)
}

func TestControllerAgainstHTTPEndpoint(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"data":[5.1,3.5,1.4,0.2]`) {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		if code := int(status.Load()); code != http.StatusOK {
			w.WriteHeader(code)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predictions":[0]}`))
	}))
	defer server.Close()

	store := storage.NewFileStore(filepath.Join(t.TempDir(), "storage.json"))
	manager := history.NewManager(store, logger.NewNop())
	client := predict.NewHTTPClient(server.URL, server.Client(), 5*time.Second, logger.NewNop())

	c, err := NewController(Deps{Predictor: client, History: manager, Now: fixedNow})
	require.NoError(t, err)
	require.NoError(t, c.LoadSample("setosa"))

	status.Store(http.StatusInternalServerError)
	view, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, render.ResultError, view.Result.Kind)
	assert.Contains(t, view.Result.Message, "HTTP error! status: 500")
	assert.Empty(t, manager.Load())

	status.Store(http.StatusOK)
	view, err = c.Submit(context.Background())
	require.NoError(t, err)
	assert.Contains(t, view.Result.Title, "Setosa")
	require.Len(t, view.HistoryLog, 1)

	reloaded, err := NewController(Deps{Predictor: client, History: history.NewManager(store, logger.NewNop())})
	require.NoError(t, err)
	assert.Equal(t, view.HistoryLog, reloaded.View().HistoryLog)
}
