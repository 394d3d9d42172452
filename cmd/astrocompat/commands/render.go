package commands

import (
	"fmt"
	"io"

	"astrocompat/internal/chart"
	"astrocompat/internal/scrapers/cafeastrology"
	"astrocompat/internal/session"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func birthLabel(p session.Person) string {
	if !p.TimeKnown {
		return p.Birth.Format("2006-01-02") + " (time unknown)"
	}
	return p.Birth.Format("2006-01-02 15:04")
}

func renderPerson(w io.Writer, columns []string, result session.Result) {
	p := result.Person
	fmt.Fprintf(w, "Person %d - Born %s in %s\n", p.Seq, birthLabel(p), p.Location)

	t := newTable(w)
	header := table.Row{}
	for _, column := range columns {
		header = append(header, column)
	}
	t.AppendHeader(header)

	row := table.Row{}
	for _, value := range p.Row {
		row = append(row, value)
	}
	t.AppendRow(row)
	t.Render()

	fmt.Fprintf(w, "Full chart: %s\n", result.ChartLink)
}

func renderScore(w io.Writer, score chart.Score) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Positive", "Negative", "Total"})
	t.AppendRow(table.Row{score.Positive, score.Negative, score.Total})
	t.Render()
}

func renderCompatibility(w io.Writer, result session.Result) {
	if len(result.Compatibility) == 0 {
		return
	}
	fmt.Fprintln(w, "Compatibility scores")

	t := newTable(w)
	t.AppendHeader(table.Row{"With", "Positive", "Negative", "Total", "Report"})
	for _, c := range result.Compatibility {
		t.AppendRow(table.Row{
			c.Reference.Name,
			c.Score.Positive,
			c.Score.Negative,
			c.Score.Total,
			c.Url,
		})
	}
	t.Render()
}

func renderResult(w io.Writer, columns []string, result session.Result) {
	renderPerson(w, columns, result)
	renderCompatibility(w, result)
}

func renderRecord(w io.Writer, record chart.Record) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Key", "Value"})
	for _, key := range record.Keys() {
		value, _ := record.Get(key)
		t.AppendRow(table.Row{key, value})
	}
	t.Render()
}

func renderLocations(w io.Writer, locations []cafeastrology.Location) {
	t := newTable(w)
	t.AppendHeader(table.Row{"#", "Name", "Region", "Country", "Latitude", "Longitude"})
	for i, l := range locations {
		t.AppendRow(table.Row{
			i + 1,
			l.Name,
			l.RegionCode,
			l.CountryCode,
			fmt.Sprintf("%.2f", l.Latitude),
			fmt.Sprintf("%.2f", l.Longitude),
		})
	}
	t.Render()
}
