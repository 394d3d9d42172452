package cafeastrology

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

type Sex int

const (
	Female Sex = 0
	Male   Sex = 1
)

func (s Sex) String() string {
	switch s {
	case Female:
		return "Female"
	case Male:
		return "Male"
	}
	return fmt.Sprintf("Sex(%d)", int(s))
}

// ParseSex accepts the names used by the chart form ("female", "f", "0", ...).
func ParseSex(value string) (Sex, error) {
	switch value {
	case "female", "Female", "f", "F", "0":
		return Female, nil
	case "male", "Male", "m", "M", "1":
		return Male, nil
	}
	return 0, fmt.Errorf("unknown sex %q, expected female or male", value)
}

const (
	MinYear = 1900
	MaxYear = 2100

	// the hour and minute submitted when the time of birth is unknown
	unknownHour   = 12
	unknownMinute = 0
)

var ErrInvalidRequest = errors.New("invalid chart request")

// ChartRequest is the birth data submitted to the chart form.
type ChartRequest struct {
	Year  int
	Month int
	Day   int
	// Hour and Minute are only read when TimeKnown is set.
	Hour   int
	Minute int

	TimeKnown bool
	Location  Location
	Sex       Sex
}

// IncludeHouses reports whether house data can be requested, houses are only
// meaningful with a known time of birth.
func (r ChartRequest) IncludeHouses() bool {
	return r.TimeKnown
}

// Birth returns the birth datetime that is submitted, 12:00 when the time is
// unknown.
func (r ChartRequest) Birth() time.Time {
	hour, minute := unknownHour, unknownMinute
	if r.TimeKnown {
		hour, minute = r.Hour, r.Minute
	}
	return time.Date(r.Year, time.Month(r.Month), r.Day, hour, minute, 0, 0, time.UTC)
}

func (r ChartRequest) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
	}

	if r.Year < MinYear || r.Year > MaxYear {
		return invalid("year %d is outside of %d-%d", r.Year, MinYear, MaxYear)
	}
	if r.Month < 1 || r.Month > 12 {
		return invalid("month %d is outside of 1-12", r.Month)
	}
	date := time.Date(r.Year, time.Month(r.Month), r.Day, 0, 0, 0, 0, time.UTC)
	if r.Day < 1 || date.Day() != r.Day {
		return invalid("%04d-%02d has no day %d", r.Year, r.Month, r.Day)
	}
	if r.TimeKnown {
		if r.Hour < 0 || r.Hour > 23 {
			return invalid("hour %d is outside of 0-23", r.Hour)
		}
		if r.Minute < 0 || r.Minute > 59 {
			return invalid("minute %d is outside of 0-59", r.Minute)
		}
	}
	if r.Location.Name == "" {
		return invalid("location is missing")
	}
	if r.Sex != Female && r.Sex != Male {
		return invalid("unknown sex %d", int(r.Sex))
	}
	return nil
}

// PseudoName derives the chart name submitted to the form from the birth
// datetime. The service only needs a name, it is never shown.
func PseudoName(birth time.Time) string {
	return birth.Format("200601021504")
}

// FormData returns the fields posted to the chart form.
func (r ChartRequest) FormData() map[string]string {
	birth := r.Birth()
	data := map[string]string{
		"command":   "new",
		"index":     "0",
		"lang":      "en",
		"d1year":    strconv.Itoa(birth.Year()),
		"d1month":   strconv.Itoa(int(birth.Month())),
		"d1day":     strconv.Itoa(birth.Day()),
		"d1hour":    strconv.Itoa(birth.Hour()),
		"d1min":     strconv.Itoa(birth.Minute()),
		"name":      PseudoName(birth),
		"sex":       strconv.Itoa(int(r.Sex)),
		"citylist":  r.Location.String(),
		"shareable": "true",
	}
	if !r.IncludeHouses() {
		data["nohouses"] = "true"
	}
	return data
}
