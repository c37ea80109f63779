package domain

// Prediction is the class id returned by the prediction service.
type Prediction int

// UnknownSpecies is the label for class ids outside the trained classes.
const UnknownSpecies = "Unknown"

// Species describes one class the model was trained on.
type Species struct {
	ClassID Prediction
	Name    string
	Suffix  string
}

// Label is the display label, name plus decorative suffix.
func (s Species) Label() string {
	if s.Suffix == "" {
		return s.Name
	}
	return s.Name + " " + s.Suffix
}

var knownSpecies = map[Prediction]Species{
	0: {ClassID: 0, Name: "Setosa", Suffix: "🌸"},
	1: {ClassID: 1, Name: "Versicolor", Suffix: "🌺"},
	2: {ClassID: 2, Name: "Virginica", Suffix: "💮"},
}

// SpeciesFor looks up the class id. ok is false for unknown ids.
func SpeciesFor(id Prediction) (Species, bool) {
	s, ok := knownSpecies[id]
	return s, ok
}

// SpeciesLabel returns the display label for id, or "Unknown".
func SpeciesLabel(id Prediction) string {
	if s, ok := knownSpecies[id]; ok {
		return s.Label()
	}
	return UnknownSpecies
}
