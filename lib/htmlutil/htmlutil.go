package htmlutil

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// GetText concatenates every text node under `node` without any separator.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

func collectText(node *html.Node, out *[]string) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		*out = append(*out, node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		collectText(child, out)
		child = child.NextSibling
	}
}

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// Normalize collapses every run of whitespace (including non-breaking
// spaces) into a single space and drops non-printable characters.
func Normalize(s string) string {
	return removeNonPrintable(strings.Join(strings.Fields(s), " "))
}

// Text joins the text nodes of every node in the selection with `sep`,
// text nodes that are only whitespace are skipped.
func Text(sel *goquery.Selection, sep string) string {
	var parts []string
	for _, n := range sel.Nodes {
		var texts []string
		collectText(n, &texts)
		for _, text := range texts {
			text = Normalize(text)
			if text == "" {
				continue
			}
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, sep)
}

// RowTexts returns the normalized text of every row of a table, cells are
// joined with a single space.
func RowTexts(table *goquery.Selection) []string {
	var rows []string
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		rows = append(rows, Text(row.Find("th, td"), " "))
	})
	return rows
}

// TableText flattens a table into one line per row, the normalized text of
// each cell in a row is joined with `sep`. Empty cells are kept so that the
// position of a field in a line matches the position of its cell.
func TableText(table *goquery.Selection, sep string) string {
	var lines []string
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		var cells []string
		row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			var text string
			for _, n := range cell.Nodes {
				text += GetText(n)
			}
			cells = append(cells, Normalize(text))
		})
		lines = append(lines, strings.Join(cells, sep))
	})
	return strings.Join(lines, "\n")
}
