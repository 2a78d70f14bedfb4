package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit-safe lengths. Layout works in points; the canvas
// renderer converts to millimeters at its boundary.

// Unit represents the original unit of a length value as written in a form file.
type Unit int

const (
	UnitNone Unit = iota // bare numbers, read as points
	UnitPT
	UnitMM
	UnitCM
	UnitIN
)

// Conversion constants between pt and mm.
const (
	PtToMm = 25.4 / 72
	MmToPt = 72 / 25.4
)

// String returns the short suffix for u.
func (u Unit) String() string {
	switch u {
	case UnitPT:
		return "pt"
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// Points converts l to PDF points. Unit-less values are already points.
func (l Length) Points() float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value * MmToPt
	case UnitCM:
		return l.Value * 10 * MmToPt
	case UnitIN:
		return l.Value * 72
	default:
		return l.Value
	}
}

// ParseLength parses strings like "20", "20pt", "7.5mm" or "1in".
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	for _, suf := range []struct {
		s string
		u Unit
	}{{"pt", UnitPT}, {"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			v = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		if unit != UnitNone {
			return Length{}, fmt.Errorf("无法解析长度 %q（单位 %s）: %w", value, unit, err)
		}
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	return Length{Value: f, Unit: unit}, nil
}

// PaperSize returns the portrait size in points of a named paper format.
func PaperSize(name string) (width, height float64, ok bool) {
	switch strings.ToLower(name) {
	case "a4":
		return 595, 842, true
	case "letter":
		return 612, 792, true
	case "legal":
		return 612, 1008, true
	case "a5":
		return 420, 595, true
	}
	return 0, 0, false
}
