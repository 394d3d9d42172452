package chart

import (
	"fmt"
	"strconv"
	"strings"

	"astrocompat/lib/htmlutil"
)

const scoreTable = 0

// Score is a compatibility score between two charts, as computed by the
// synastry page.
type Score struct {
	Positive int
	Negative int
	Total    int
}

// ParseScores reads the last three numbers of the first table on a synastry
// page as the positive, negative and total scores.
func ParseScores(doc string) (Score, error) {
	t, err := loadTables(doc)
	if err != nil {
		return Score{}, err
	}
	table, err := t.get(StepScores, scoreTable)
	if err != nil {
		return Score{}, err
	}

	tokens := strings.Fields(htmlutil.Text(table, " "))
	if len(tokens) < 3 {
		return Score{}, TableParseError{
			Step:  StepScores,
			Table: scoreTable,
			Row:   -1,
			Err:   fmt.Errorf("%w: expected at least 3 tokens, got %d", ErrScoreFormat, len(tokens)),
		}
	}

	var values [3]int
	for i, token := range tokens[len(tokens)-3:] {
		values[i], err = strconv.Atoi(token)
		if err != nil {
			return Score{}, TableParseError{
				Step:  StepScores,
				Table: scoreTable,
				Row:   -1,
				Err:   fmt.Errorf("%w: %q is not an integer", ErrScoreFormat, token),
			}
		}
	}

	return Score{
		Positive: values[0],
		Negative: values[1],
		Total:    values[2],
	}, nil
}
