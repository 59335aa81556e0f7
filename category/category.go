// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package category labels percentiles for display.
//
// The server and the offline client fallback have always used different
// tables. Both are kept as named tables; they are not interchangeable.
package category

import "fmt"

// Table names
const (
	NameServer   = "server"
	NameFallback = "fallback"
)

// Band labels every percentile strictly below Below
type Band struct {
	Below float64
	Label string
}

// Table is an ordered list of bands plus the label for everything above them
type Table struct {
	Name  string
	Bands []Band
	Top   string
}

// Server is the five-band table returned with submission results
var Server = Table{
	Name: NameServer,
	Bands: []Band{
		{20, "Much less likely to perceive as overweight"},
		{40, "Somewhat less likely to perceive as overweight"},
		{60, "About average in weight perception"},
		{80, "Somewhat more likely to perceive as overweight"},
	},
	Top: "Much more likely to perceive as overweight",
}

// Fallback is the four-band table used when results are estimated offline
var Fallback = Table{
	Name: NameFallback,
	Bands: []Band{
		{25, "Less likely to perceive as overweight"},
		{50, "Somewhat less likely to perceive as overweight"},
		{75, "About average in weight perception"},
	},
	Top: "More likely to perceive as overweight",
}

// Label returns the label for a percentile
func (t Table) Label(percentile float64) string {
	for _, b := range t.Bands {
		if percentile < b.Below {
			return b.Label
		}
	}
	return t.Top
}

// ByName resolves a configured table name
func ByName(name string) (Table, error) {
	switch name {
	case NameServer:
		return Server, nil
	case NameFallback:
		return Fallback, nil
	}
	return Table{}, fmt.Errorf("unknown category table %q", name)
}
