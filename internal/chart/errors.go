package chart

import (
	"errors"
	"fmt"
)

var (
	ErrMissingTable   = errors.New("table not found")
	ErrBoilerplate    = errors.New("table heading not found")
	ErrRowShape       = errors.New("unexpected row shape")
	ErrPositionFormat = errors.New("malformed position")
	ErrDecanRange     = errors.New("position outside of sign")
	ErrScoreFormat    = errors.New("malformed score")
	ErrMissingColumn  = errors.New("missing column")
)

// extraction steps, used to identify which part of a page failed to parse
const (
	StepPlanetSign  = "planet-sign"
	StepHouseSign   = "house-sign"
	StepPlanetHouse = "planet-house"
	StepPlanetDecan = "planet-decan"
	StepHouseDecan  = "house-decan"
	StepScores      = "scores"
	StepProjection  = "projection"
)

// TableParseError is returned whenever a page does not have the shape the
// extraction pipeline expects.
type TableParseError struct {
	Step  string
	Table int
	// Row is -1 when the failure concerns the table as a whole.
	Row int
	Err error
}

func (e TableParseError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("parse %s (table %d): %s", e.Step, e.Table, e.Err)
	}
	return fmt.Sprintf("parse %s (table %d, row %d): %s", e.Step, e.Table, e.Row, e.Err)
}

func (e TableParseError) Unwrap() error {
	return e.Err
}
