// Package domain defines the core entities of the prediction form.
//
// The domain layer has no knowledge of HTTP, storage engines or terminals;
// adapters in the infrastructure layer translate to and from these types.
package domain

import (
	"math"
	"strconv"
	"strings"
)

// FeatureCount is the number of measurements describing a specimen.
const FeatureCount = 4

// FeatureVector holds sepal length, sepal width, petal length and petal width, in that order.
type FeatureVector [FeatureCount]float64

// Field names one numeric input of the form.
type Field string

const (
	FieldSepalLength Field = "sepal-length"
	FieldSepalWidth  Field = "sepal-width"
	FieldPetalLength Field = "petal-length"
	FieldPetalWidth  Field = "petal-width"
)

// Fields lists the inputs in feature order.
var Fields = [FeatureCount]Field{
	FieldSepalLength,
	FieldSepalWidth,
	FieldPetalLength,
	FieldPetalWidth,
}

// Label returns the human readable field name ("sepal length").
func (f Field) Label() string {
	return strings.ReplaceAll(string(f), "-", " ")
}

// Valid reports whether f is one of the four form fields.
func (f Field) Valid() bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}
	return false
}

// ParseField converts one raw input value. Empty, non-numeric and non-finite
// values are rejected.
func ParseField(field Field, raw string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, &ValidationError{Field: field, Value: raw}
	}
	return value, nil
}

// ParseFeatures reads the four fields in order and stops at the first invalid one.
func ParseFeatures(values map[Field]string) (FeatureVector, error) {
	var features FeatureVector
	for i, field := range Fields {
		value, err := ParseField(field, values[field])
		if err != nil {
			return FeatureVector{}, err
		}
		features[i] = value
	}
	return features, nil
}

// Slice returns the features as a slice, the shape used on the wire.
func (v FeatureVector) Slice() []float64 {
	out := make([]float64, FeatureCount)
	copy(out, v[:])
	return out
}

// Strings formats each feature the shortest way that round-trips.
func (v FeatureVector) Strings() []string {
	out := make([]string, FeatureCount)
	for i, f := range v {
		out[i] = strconv.FormatFloat(f, 'f', -1, 64)
	}
	return out
}

// String joins the features with ", ".
func (v FeatureVector) String() string {
	return strings.Join(v.Strings(), ", ")
}

// Values maps each field to its formatted feature value.
func (v FeatureVector) Values() map[Field]string {
	formatted := v.Strings()
	out := make(map[Field]string, FeatureCount)
	for i, field := range Fields {
		out[field] = formatted[i]
	}
	return out
}
