package model

import (
	"encoding/json"
	"fmt"
)

// ParamKind discriminates the typed values a node parameter can hold.
type ParamKind int

const (
	ParamNumber ParamKind = iota
	ParamString
	ParamPoint
)

// ParamValue is a typed node parameter: a number, a string, or a 2D point.
// This replaces free-form literal encoding with an explicit schema so that
// serialization round-trips exactly.
type ParamValue struct {
	Kind   ParamKind
	Number float64
	Str    string
	Point  Point
}

// Num, Str and Pt are convenience constructors.
func Num(v float64) ParamValue { return ParamValue{Kind: ParamNumber, Number: v} }
func Str(s string) ParamValue  { return ParamValue{Kind: ParamString, Str: s} }
func Pt(p Point) ParamValue    { return ParamValue{Kind: ParamPoint, Point: p} }

// MarshalJSON encodes numbers and strings natively and points as a
// two-element array, so parameter maps stay human-readable.
func (v ParamValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ParamNumber:
		return json.Marshal(v.Number)
	case ParamString:
		return json.Marshal(v.Str)
	case ParamPoint:
		return json.Marshal([2]float64{v.Point.X, v.Point.Y})
	default:
		return nil, fmt.Errorf("unknown param kind %d", v.Kind)
	}
}

// UnmarshalJSON restores the typed value from its JSON form.
func (v *ParamValue) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*v = Num(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Str(s)
		return nil
	}
	var pt [2]float64
	if err := json.Unmarshal(data, &pt); err == nil {
		*v = Pt(Point{X: pt[0], Y: pt[1]})
		return nil
	}
	return fmt.Errorf("param value %s is not a number, string, or point", string(data))
}

// Equals reports exact equality of two parameter values.
func (v ParamValue) Equals(o ParamValue) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case ParamNumber:
		return v.Number == o.Number
	case ParamString:
		return v.Str == o.Str
	case ParamPoint:
		return v.Point == o.Point
	}
	return false
}
