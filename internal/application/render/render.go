// Package render maps domain values to display models.
//
// Every function here is pure: it takes features, predictions or the history
// log and returns plain structs. Terminal and browser adapters decide how a
// display model is drawn.
package render

import (
	"errors"
	"fmt"

	"github.com/doeshing/irisform/internal/domain"
)

// ResultKind tells which of the two result renderings is active.
type ResultKind string

const (
	ResultNone    ResultKind = "none"
	ResultSuccess ResultKind = "success"
	ResultError   ResultKind = "error"
)

// ResultView is the content of the result region.
type ResultView struct {
	Kind     ResultKind
	Title    string
	Species  string
	ClassID  domain.Prediction
	Features string
	Message  string
}

// HistoryItemView is one row of the history region.
type HistoryItemView struct {
	Species   string
	Features  string
	Timestamp string
}

// HistoryView is the content of the history region. Placeholder is set
// only when Items is empty.
type HistoryView struct {
	Items       []HistoryItemView
	Placeholder string
}

// SubmitControlView describes the submit button.
type SubmitControlView struct {
	Label   string
	Enabled bool
}

// Empty returns the result view shown before the first submission.
func Empty() ResultView {
	return ResultView{Kind: ResultNone}
}

// Success renders a successful prediction.
func Success(features domain.FeatureVector, prediction domain.Prediction) ResultView {
	species := domain.SpeciesLabel(prediction)
	return ResultView{
		Kind:     ResultSuccess,
		Title:    fmt.Sprintf("Prediction: %s", species),
		Species:  species,
		ClassID:  prediction,
		Features: features.String(),
	}
}

// Failure renders a failed prediction request.
func Failure(err error) ResultView {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	var reqErr *domain.RequestError
	if errors.As(err, &reqErr) {
		msg = reqErr.Error()
	}
	return ResultView{
		Kind:    ResultError,
		Title:   "Error",
		Message: msg,
	}
}

// History renders the log newest first, or the placeholder when it is empty.
func History(log domain.HistoryLog) HistoryView {
	if log.Empty() {
		return HistoryView{Placeholder: domain.HistoryPlaceholder}
	}
	items := make([]HistoryItemView, 0, len(log))
	for _, entry := range log {
		items = append(items, HistoryItemView{
			Species:   entry.Species,
			Features:  fmt.Sprintf("[%s]", entry.Features.String()),
			Timestamp: entry.Timestamp,
		})
	}
	return HistoryView{Items: items}
}

// SubmitControl renders the submit button for the busy flag.
func SubmitControl(busy bool) SubmitControlView {
	if busy {
		return SubmitControlView{Label: domain.SubmitLabelBusy, Enabled: false}
	}
	return SubmitControlView{Label: domain.SubmitLabelIdle, Enabled: true}
}
