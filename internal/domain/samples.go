package domain

import "sort"

// Sample is a named preset measurement.
type Sample struct {
	Name     string
	Features FeatureVector
}

var samples = map[string]FeatureVector{
	"setosa":     {5.1, 3.5, 1.4, 0.2},
	"versicolor": {6.0, 2.7, 5.1, 1.6},
	"virginica":  {6.3, 3.3, 6.0, 2.5},
}

// LookupSample returns the preset registered under name.
func LookupSample(name string) (Sample, error) {
	features, ok := samples[name]
	if !ok {
		return Sample{}, &UnknownSampleError{Name: name}
	}
	return Sample{Name: name, Features: features}, nil
}

// Samples returns every preset sorted by name.
func Samples() []Sample {
	out := make([]Sample, 0, len(samples))
	for name, features := range samples {
		out = append(out, Sample{Name: name, Features: features})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
