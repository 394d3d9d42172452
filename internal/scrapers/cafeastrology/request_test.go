package cafeastrology

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func dallas(t testing.TB) Location {
	l, ok := FindLocation("Dallas")
	if !ok {
		t.Fatal("dallas is missing from the location table")
	}
	return l
}

func TestFormData(t *testing.T) {
	req := ChartRequest{
		Year:      1990,
		Month:     8,
		Day:       7,
		Hour:      14,
		Minute:    5,
		TimeKnown: true,
		Location:  dallas(t),
		Sex:       Male,
	}
	require.NoError(t, req.Validate())

	diff := cmp.Diff(map[string]string{
		"command":   "new",
		"index":     "0",
		"lang":      "en",
		"d1year":    "1990",
		"d1month":   "8",
		"d1day":     "7",
		"d1hour":    "14",
		"d1min":     "5",
		"name":      "199008071405",
		"sex":       "1",
		"citylist":  "Dallas,48,1,32.78,-96.80",
		"shareable": "true",
	}, req.FormData())
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestFormDataUnknownTime(t *testing.T) {
	req := ChartRequest{
		Year:     2001,
		Month:    2,
		Day:      28,
		Hour:     23,
		Minute:   59,
		Location: dallas(t),
	}
	require.NoError(t, req.Validate())
	require.False(t, req.IncludeHouses())
	require.Equal(t, time.Date(2001, 2, 28, 12, 0, 0, 0, time.UTC), req.Birth())

	data := req.FormData()
	require.Equal(t, "true", data["nohouses"])
	require.Equal(t, "12", data["d1hour"])
	require.Equal(t, "0", data["d1min"])
	require.Equal(t, "0", data["sex"])
	require.Equal(t, "200102281200", data["name"])
}

func TestValidate(t *testing.T) {
	valid := ChartRequest{
		Year:      2000,
		Month:     2,
		Day:       29,
		TimeKnown: true,
		Location:  dallas(t),
	}
	require.NoError(t, valid.Validate())

	cases := []struct {
		name   string
		mutate func(r *ChartRequest)
	}{
		{"year too small", func(r *ChartRequest) { r.Year = 1899 }},
		{"year too large", func(r *ChartRequest) { r.Year = 2101 }},
		{"month zero", func(r *ChartRequest) { r.Month = 0 }},
		{"month 13", func(r *ChartRequest) { r.Month = 13 }},
		{"day zero", func(r *ChartRequest) { r.Day = 0 }},
		{"no leap day", func(r *ChartRequest) { r.Year = 2001 }},
		{"april 31", func(r *ChartRequest) { r.Month = 4; r.Day = 31 }},
		{"hour 24", func(r *ChartRequest) { r.Hour = 24 }},
		{"minute 60", func(r *ChartRequest) { r.Minute = 60 }},
		{"no location", func(r *ChartRequest) { r.Location = Location{} }},
		{"unknown sex", func(r *ChartRequest) { r.Sex = 2 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := valid
			c.mutate(&req)
			err := req.Validate()
			require.True(t, errors.Is(err, ErrInvalidRequest), "got %v", err)
		})
	}

	unknownTime := valid
	unknownTime.TimeKnown = false
	unknownTime.Hour = 99
	require.NoError(t, unknownTime.Validate())
}

func TestParseSex(t *testing.T) {
	for _, value := range []string{"female", "F", "0"} {
		sex, err := ParseSex(value)
		require.NoError(t, err)
		require.Equal(t, Female, sex)
	}
	for _, value := range []string{"male", "m", "1"} {
		sex, err := ParseSex(value)
		require.NoError(t, err)
		require.Equal(t, Male, sex)
	}
	_, err := ParseSex("x")
	require.Error(t, err)
	require.Equal(t, "Male", Male.String())
}
