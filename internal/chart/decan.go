package chart

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	degreeSign   = "°"
	signDegrees  = 30
	decanDegrees = 10
)

// ParsePosition converts a position within a sign formatted as
// `<degrees>°<minutes><unit>` (ex. `15°30'`) into fractional degrees.
func ParsePosition(text string) (float64, error) {
	text = strings.TrimSpace(text)

	parts := strings.Split(text, degreeSign)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q: expected exactly one %q", ErrPositionFormat, text, degreeSign)
	}
	degText := strings.TrimSpace(parts[0])
	minText := strings.TrimSpace(parts[1])

	unit, size := utf8.DecodeLastRuneInString(minText)
	if size == 0 || unit == utf8.RuneError || unicode.IsDigit(unit) || unit == '.' {
		return 0, fmt.Errorf("%w: %q: minutes have no unit", ErrPositionFormat, text)
	}
	minText = minText[:len(minText)-size]

	degrees, err := strconv.Atoi(degText)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: degrees: %w", ErrPositionFormat, text, err)
	}
	minutes, err := strconv.ParseFloat(minText, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: minutes: %w", ErrPositionFormat, text, err)
	}
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) || minutes < 0 || minutes >= 60 || degrees < 0 {
		return 0, fmt.Errorf("%w: %q: out of range", ErrPositionFormat, text)
	}

	return float64(degrees) + minutes/60, nil
}

// Decan returns which 10° third (1, 2 or 3) of a sign a position falls in.
func Decan(position float64) (int, error) {
	if math.IsNaN(position) || position < 0 || position >= signDegrees {
		return 0, fmt.Errorf("%w: %v", ErrDecanRange, position)
	}
	return int(math.Floor(position/decanDegrees)) + 1, nil
}

func decanRows(rows []signRow, step string, table int, out map[string]string) error {
	for _, row := range rows {
		position, err := ParsePosition(row.Position)
		if err != nil {
			return TableParseError{Step: step, Table: table, Row: row.Line, Err: err}
		}
		decan, err := Decan(position)
		if err != nil {
			return TableParseError{Step: step, Table: table, Row: row.Line, Err: err}
		}
		out[row.Name+DecanSuffix] = fmt.Sprintf("%s_%d", row.Sign, decan)
	}
	return nil
}

// DeriveDecans reads the sign tables of a chart page again, this time with
// their positions, and returns "<name>_D" -> "<sign>_<decan>" for every
// planet and, when includeHouses is set, every house.
//
// It does not depend on any state besides `doc`, calling it twice on the same
// page gives the same result.
func DeriveDecans(doc string, includeHouses bool) (map[string]string, error) {
	t, err := loadTables(doc)
	if err != nil {
		return nil, err
	}

	out := map[string]string{}

	planets, err := parsePlanetSigns(t, StepPlanetDecan)
	if err != nil {
		return nil, err
	}
	err = decanRows(planets, StepPlanetDecan, TablePlanetSign, out)
	if err != nil {
		return nil, err
	}

	if includeHouses {
		houses, err := parseHouseSigns(t, StepHouseDecan)
		if err != nil {
			return nil, err
		}
		err = decanRows(houses, StepHouseDecan, TableHouseSign, out)
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

// Enrich returns a copy of `record` with the decans of its document added.
func Enrich(record Record, includeHouses bool) (Record, error) {
	decans, err := DeriveDecans(record.Document, includeHouses)
	if err != nil {
		return Record{}, err
	}

	values := make(map[string]string, len(record.Values)+len(decans))
	for key, value := range record.Values {
		values[key] = value
	}
	for key, value := range decans {
		values[key] = value
	}

	enriched := Record{Values: values, Document: record.Document}
	for _, key := range enriched.Signs() {
		_, ok := values[key+DecanSuffix]
		if !ok {
			return Record{}, TableParseError{
				Step:  StepPlanetDecan,
				Table: TablePlanetSign,
				Row:   -1,
				Err:   fmt.Errorf("%w: no decan for %q", ErrMissingColumn, key),
			}
		}
	}

	return enriched, nil
}
