package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func parse(t testing.TB, doc string) *goquery.Document {
	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	return parsed
}

const table = `<table>
	<tr><th colspan="4">Zodiac : Tropical</th></tr>
	<tr><td><img src="sun.png"></td><td>Sun</td><td> Leo </td><td>15°30'</td></tr>
	<tr><td>☽</td><td>Moon</td><td>Pisces</td><td>5&deg;0&#39;</td></tr>
</table>`

func TestTableText(t *testing.T) {
	doc := parse(t, table)
	text := TableText(doc.Find("table"), "|")
	require.Equal(t, "Zodiac : Tropical\n|Sun|Leo|15°30'\n☽|Moon|Pisces|5°0'", text)
}

func TestRowTexts(t *testing.T) {
	doc := parse(t, `<table>
		<tr><td>Sun in
		  10th House</td></tr>
		<tr><td>N&nbsp;Node</td><td>in 3rd House</td></tr>
	</table>`)
	rows := RowTexts(doc.Find("table"))
	require.Equal(t, []string{"Sun in 10th House", "N Node in 3rd House"}, rows)
}

func TestText(t *testing.T) {
	doc := parse(t, `<table><tr><td>Positive</td><td>Negative</td><td>Total</td></tr>
		<tr><td>10</td><td>3</td><td>7</td></tr></table>`)
	require.Equal(t, "Positive Negative Total 10 3 7", Text(doc.Find("table"), " "))
}

func TestGetText(t *testing.T) {
	doc := parse(t, `<p>a<b>b</b>c</p>`)
	require.Equal(t, "abc", GetText(doc.Find("p").Nodes[0]))
}
