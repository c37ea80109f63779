package form

import (
	"github.com/doeshing/irisform/internal/application/render"
	"github.com/doeshing/irisform/internal/domain"
)

// State is owned by exactly one Controller.
type State struct {
	Fields  map[domain.Field]string
	Result  render.ResultView
	History domain.HistoryLog
	Busy    bool
	Alert   string
}

func newState(history domain.HistoryLog) State {
	if history == nil {
		history = domain.HistoryLog{}
	}
	return State{
		Fields:  make(map[domain.Field]string, domain.FeatureCount),
		Result:  render.Empty(),
		History: history.Truncate(),
	}
}

// View is an immutable snapshot handed to surfaces.
type View struct {
	Fields     map[domain.Field]string
	Result     render.ResultView
	History    render.HistoryView
	HistoryLog domain.HistoryLog
	Submit     render.SubmitControlView
	Alert      string
}

func (s State) view() View {
	fields := make(map[domain.Field]string, len(s.Fields))
	for k, v := range s.Fields {
		fields[k] = v
	}
	return View{
		Fields:     fields,
		Result:     s.Result,
		History:    render.History(s.History),
		HistoryLog: s.History.Truncate(),
		Submit:     render.SubmitControl(s.Busy),
		Alert:      s.Alert,
	}
}
