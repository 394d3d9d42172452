package commands

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"astrocompat/internal/scrapers/cafeastrology"
)

// prompter asks for values on `out` and reads the answers line by line from
// `in`. An empty answer selects the default.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) prompter {
	return prompter{in: bufio.NewReader(in), out: out}
}

func (p prompter) line(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}

	text, err := p.in.ReadString('\n')
	text = strings.TrimSpace(text)
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	if text == "" {
		return def, nil
	}
	return text, nil
}

func (p prompter) int(label string, def, min, max int) (int, error) {
	for {
		text, err := p.line(label, strconv.Itoa(def))
		if err != nil {
			return 0, err
		}
		value, err := strconv.Atoi(text)
		if err == nil && value >= min && value <= max {
			return value, nil
		}
		fmt.Fprintf(p.out, "expected a number between %d and %d\n", min, max)
	}
}

func (p prompter) confirm(label string, def bool) (bool, error) {
	defText := "n"
	if def {
		defText = "y"
	}
	for {
		text, err := p.line(label+" (y/n)", defText)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(text) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

func (p prompter) location() (cafeastrology.Location, error) {
	for {
		text, err := p.line("Location (name or number, see the locations command)", "")
		if err != nil {
			return cafeastrology.Location{}, err
		}
		location, err := resolveLocation(text)
		if err == nil {
			return location, nil
		}
		fmt.Fprintln(p.out, err)
	}
}

func (p prompter) sex() (cafeastrology.Sex, error) {
	for {
		text, err := p.line("Gender (female/male)", "female")
		if err != nil {
			return 0, err
		}
		sex, err := cafeastrology.ParseSex(strings.TrimSpace(text))
		if err == nil {
			return sex, nil
		}
		fmt.Fprintln(p.out, err)
	}
}

// chartRequest asks for the birth details of one person.
func (p prompter) chartRequest(seq int) (cafeastrology.ChartRequest, error) {
	fmt.Fprintf(p.out, "Enter birth details for Person %d\n", seq)

	var (
		req cafeastrology.ChartRequest
		err error
	)
	req.Year, err = p.int("Year", 2000, cafeastrology.MinYear, cafeastrology.MaxYear)
	if err != nil {
		return req, err
	}
	req.Month, err = p.int("Month", 1, 1, 12)
	if err != nil {
		return req, err
	}
	req.Day, err = p.int("Day", 1, 1, 31)
	if err != nil {
		return req, err
	}
	req.TimeKnown, err = p.confirm("Include time", false)
	if err != nil {
		return req, err
	}
	if req.TimeKnown {
		req.Hour, err = p.int("Hour", 12, 0, 23)
		if err != nil {
			return req, err
		}
		req.Minute, err = p.int("Minute", 0, 0, 59)
		if err != nil {
			return req, err
		}
	}
	req.Location, err = p.location()
	if err != nil {
		return req, err
	}
	req.Sex, err = p.sex()
	if err != nil {
		return req, err
	}
	return req, nil
}
