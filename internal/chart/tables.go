package chart

import (
	"fmt"
	"slices"
	"strings"

	"astrocompat/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Table positions on the chart page, counted over every <table> in document
// order. These are fixed by the layout of the remote chart page.
const (
	// TablePlanetSign is the "Zodiac : Tropical" table, one row per planet.
	TablePlanetSign = 2
	// TableHouseSign is the "Placidus" table, one row per house cusp.
	TableHouseSign = 3
	// TablePlanetHouse lists "<planet> in <house>", one row per planet.
	TablePlanetHouse = 4
)

const (
	planetSignHeading = "Zodiac : Tropical"
	houseSignHeading  = "Placidus"

	fieldSeparator = "|"
	// symbol|name|sign|position
	signRowFields = 4

	houseSeparator = " in "
)

// signRow is one line of a sign table.
type signRow struct {
	// Line is the index of the <tr> the row was read from.
	Line     int
	Name     string
	Sign     string
	Position string
}

type tables struct {
	sel *goquery.Selection
}

func loadTables(doc string) (tables, error) {
	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return tables{}, fmt.Errorf("parse html: %w", err)
	}
	return tables{sel: parsed.Find("table")}, nil
}

func (t tables) get(step string, index int) (*goquery.Selection, error) {
	if index >= t.sel.Length() {
		return nil, TableParseError{
			Step:  step,
			Table: index,
			Row:   -1,
			Err:   fmt.Errorf("%w: page has %d tables", ErrMissingTable, t.sel.Length()),
		}
	}
	return t.sel.Eq(index), nil
}

func isBlank(line string) bool {
	return strings.Trim(line, fieldSeparator+" \t") == ""
}

// parseSignTable is the single place that knows the flattened shape of a
// sign table: a heading line followed by `symbol|name|sign|position` lines.
// Row numbers in errors count every <tr> of the table, heading included.
func parseSignTable(t tables, step string, index int, heading string) ([]signRow, error) {
	table, err := t.get(step, index)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(htmlutil.TableText(table, fieldSeparator), "\n")
	first := slices.IndexFunc(lines, func(line string) bool {
		return !isBlank(line)
	})
	var headingLine string
	if first >= 0 {
		headingLine = strings.TrimLeft(strings.TrimSpace(lines[first]), fieldSeparator)
	}
	if first < 0 || !strings.HasPrefix(headingLine, heading) {
		return nil, TableParseError{
			Step:  step,
			Table: index,
			Row:   -1,
			Err:   fmt.Errorf("%w: expected %q", ErrBoilerplate, heading),
		}
	}
	// whatever shares the heading line is read like any other line
	lines[first] = strings.TrimPrefix(headingLine, heading)

	var rows []signRow
	for i := first; i < len(lines); i++ {
		line := lines[i]
		if isBlank(line) {
			continue
		}
		fields := strings.Split(strings.TrimSpace(line), fieldSeparator)
		if len(fields) != signRowFields {
			return nil, TableParseError{
				Step:  step,
				Table: index,
				Row:   i,
				Err:   fmt.Errorf("%w: expected %d fields, got %d in %q", ErrRowShape, signRowFields, len(fields), line),
			}
		}
		row := signRow{
			Line:     i,
			Name:     strings.TrimSpace(fields[1]),
			Sign:     strings.TrimSpace(fields[2]),
			Position: strings.TrimSpace(fields[3]),
		}
		if row.Name == "" || row.Sign == "" {
			return nil, TableParseError{
				Step:  step,
				Table: index,
				Row:   i,
				Err:   fmt.Errorf("%w: empty name or sign in %q", ErrRowShape, line),
			}
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, TableParseError{
			Step:  step,
			Table: index,
			Row:   -1,
			Err:   fmt.Errorf("%w: table has no rows", ErrRowShape),
		}
	}
	return rows, nil
}

func parsePlanetSigns(t tables, step string) ([]signRow, error) {
	return parseSignTable(t, step, TablePlanetSign, planetSignHeading)
}

func parseHouseSigns(t tables, step string) ([]signRow, error) {
	return parseSignTable(t, step, TableHouseSign, houseSignHeading)
}

// parsePlanetHouses reads the "<planet> in <house>" table.
func parsePlanetHouses(t tables) (map[string]string, error) {
	table, err := t.get(StepPlanetHouse, TablePlanetHouse)
	if err != nil {
		return nil, err
	}

	out := map[string]string{}
	for i, line := range htmlutil.RowTexts(table) {
		if isBlank(line) {
			continue
		}
		parts := strings.Split(line, houseSeparator)
		if len(parts) != 2 {
			return nil, TableParseError{
				Step:  StepPlanetHouse,
				Table: TablePlanetHouse,
				Row:   i,
				Err:   fmt.Errorf("%w: expected \"<planet>%s<house>\", got %q", ErrRowShape, houseSeparator, line),
			}
		}
		planet := strings.TrimSpace(parts[0])
		house := strings.TrimSpace(parts[1])
		if planet == "" || house == "" {
			return nil, TableParseError{
				Step:  StepPlanetHouse,
				Table: TablePlanetHouse,
				Row:   i,
				Err:   fmt.Errorf("%w: empty planet or house in %q", ErrRowShape, line),
			}
		}
		out[planet+HouseSuffix] = house
	}

	if len(out) == 0 {
		return nil, TableParseError{
			Step:  StepPlanetHouse,
			Table: TablePlanetHouse,
			Row:   -1,
			Err:   fmt.Errorf("%w: table has no rows", ErrRowShape),
		}
	}
	return out, nil
}
