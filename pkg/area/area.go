// Package area computes radiating area for drivers and cross-sectional area
// for ports. All areas are in square inches.
package area

import (
	"fmt"
	"math"

	"github.com/caraudioevents/subdesigner/pkg/spec"
	"github.com/caraudioevents/subdesigner/pkg/validation"
)

// Dimensions carries the per-shape geometry of one driver or port, in inches.
// Only the fields relevant to the shape are read.
type Dimensions struct {
	Diameter float64 `json:"diameter_in,omitempty"`
	Side     float64 `json:"side_in,omitempty"`
	Diagonal float64 `json:"diagonal_in,omitempty"`
	Width    float64 `json:"width_in,omitempty"`
	Height   float64 `json:"height_in,omitempty"`
}

// Area is the area of one unit and of the whole group.
type Area struct {
	Shape   string  `json:"shape"`
	PerUnit float64 `json:"per_unit_in2"`
	Count   int     `json:"count"`
	Total   float64 `json:"total_in2"`
}

// Round returns π(d/2)².
func Round(diameter float64) float64 {
	r := diameter / 2
	return math.Pi * r * r
}

// Square returns side².
func Square(side float64) float64 { return side * side }

// SquareFromDiagonal returns the area of a square given its corner-to-corner size.
func SquareFromDiagonal(diagonal float64) float64 { return diagonal * diagonal / 2 }

// Slot returns width × height.
func Slot(width, height float64) float64 { return width * height }

// ConeArea computes the radiating area of count identical drivers.
// Square drivers use Side when set, otherwise Diagonal.
func ConeArea(shape string, dims Dimensions, count int) (Area, error) {
	var per float64
	switch shape {
	case spec.ShapeRound:
		if err := validation.RequirePositive("diameter_in", dims.Diameter); err != nil {
			return Area{}, err
		}
		per = Round(dims.Diameter)
	case spec.ShapeSquare:
		switch {
		case dims.Side != 0:
			if err := validation.RequirePositive("side_in", dims.Side); err != nil {
				return Area{}, err
			}
			per = Square(dims.Side)
		default:
			if err := validation.RequirePositive("diagonal_in", dims.Diagonal); err != nil {
				return Area{}, err
			}
			per = SquareFromDiagonal(dims.Diagonal)
		}
	default:
		return Area{}, validation.Invalid("shape", shape, "round|square")
	}
	return aggregate(shape, per, count)
}

// PortArea computes the cross-sectional area of count identical ports.
func PortArea(shape string, dims Dimensions, count int) (Area, error) {
	var per float64
	switch shape {
	case spec.ShapeRound:
		if err := validation.RequirePositive("diameter_in", dims.Diameter); err != nil {
			return Area{}, err
		}
		per = Round(dims.Diameter)
	case spec.ShapeSquare:
		if err := validation.RequirePositive("side_in", dims.Side); err != nil {
			return Area{}, err
		}
		per = Square(dims.Side)
	case spec.ShapeSlot:
		if err := validation.FirstError(
			validation.RequirePositive("width_in", dims.Width),
			validation.RequirePositive("height_in", dims.Height),
		); err != nil {
			return Area{}, err
		}
		per = Slot(dims.Width, dims.Height)
	default:
		return Area{}, validation.Invalid("shape", shape, "round|square|slot")
	}
	return aggregate(shape, per, count)
}

// DriverCone computes cone area from a driver's nominal size and shape.
func DriverCone(d spec.DriverSpecs, count int) (Area, error) {
	shape := d.Shape
	if shape == "" {
		shape = spec.ShapeRound
	}
	dims := Dimensions{Diameter: d.NominalSizeIn}
	if shape == spec.ShapeSquare {
		dims = Dimensions{Side: d.NominalSizeIn}
	}
	a, err := ConeArea(shape, dims, count)
	if err != nil {
		return Area{}, fmt.Errorf("driver cone area: %w", err)
	}
	return a, nil
}

// PortDims maps a port definition onto area dimensions.
func PortDims(p spec.PortDimensions) Dimensions {
	return Dimensions{
		Diameter: p.Diameter,
		Side:     p.Width,
		Width:    p.Width,
		Height:   p.Height,
	}
}

// Sum adds the totals of several groups, such as mixed driver sizes.
func Sum(groups ...Area) float64 {
	total := 0.0
	for _, g := range groups {
		total += g.Total
	}
	return total
}

func aggregate(shape string, per float64, count int) (Area, error) {
	if err := validation.RequireCount("count", count); err != nil {
		return Area{}, err
	}
	return Area{
		Shape:   shape,
		PerUnit: per,
		Count:   count,
		Total:   per * float64(count),
	}, nil
}
