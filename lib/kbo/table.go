package kbo

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"kbostats-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Table is one extracted statistics table. Rows keep source order,
// source order encodes the site's ranking.
type Table struct {
	Header []string
	Rows   [][]string
}

// ParseStatTable extracts the statistics table from one page of HTML.
// The widest table in the document is taken to be the statistics
// table: the listing pages carry small layout tables around it, the
// record table always has the most columns.
func ParseStatTable(htmlText string) (Table, error) {
	return parseTable(htmlText, false)
}

// ParseRecordPage is ParseStatTable plus a leading player_id column
// parsed from the player link of each row, so rows can be joined with
// other datasets later. Rows without a player link get an empty id.
func ParseRecordPage(htmlText string) (Table, error) {
	return parseTable(htmlText, true)
}

func parseTable(htmlText string, withPlayerIDs bool) (Table, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return Table{}, fmt.Errorf("parse html: %w", err)
	}

	table := widestTable(doc)
	if table == nil {
		return Table{}, ErrNoTable
	}

	headerRow := table.Find("thead tr").First()
	var dataRows *goquery.Selection
	if headerRow.Length() > 0 {
		dataRows = table.Find("tbody tr")
		if dataRows.Length() == 0 {
			dataRows = table.Find("tr").NotSelection(headerRow)
		}
	} else {
		rows := table.Find("tr")
		headerRow = rows.First()
		dataRows = rows.Slice(1, rows.Length())
	}

	header := cellTexts(headerRow)
	if len(header) == 0 {
		return Table{}, ErrNoTable
	}

	out := Table{Header: header}
	dataRows.Each(func(_ int, tr *goquery.Selection) {
		cells := cellTexts(tr)
		// repeated header rows and merged-cell footer rows never match
		// the header shape
		if len(cells) != len(header) || slices.Equal(cells, header) {
			return
		}
		for i, c := range cells {
			cells[i] = normalizeCell(c)
		}
		if withPlayerIDs {
			cells = append([]string{playerID(tr)}, cells...)
		}
		out.Rows = append(out.Rows, cells)
	})

	if len(out.Rows) == 0 {
		return Table{}, ErrNoRows
	}
	if withPlayerIDs {
		out.Header = append([]string{"player_id"}, out.Header...)
	}
	return out, nil
}

func widestTable(doc *goquery.Document) *goquery.Selection {
	var widest *goquery.Selection
	width := 0
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		w := table.Find("tr").First().Find("th,td").Length()
		if w > width {
			width = w
			widest = table
		}
	})
	return widest
}

func cellTexts(row *goquery.Selection) []string {
	var texts []string
	row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
		texts = append(texts, htmlutil.CellText(cell.Nodes[0]))
	})
	return texts
}

var thousandsRegex = regexp.MustCompile(`^\d{1,3}(,\d{3})+$`)

// normalizeCell strips thousands separators from purely numeric
// values. Everything else is preserved as literal text so rate stats
// like ".301" round trip exactly.
func normalizeCell(s string) string {
	if thousandsRegex.MatchString(s) {
		return strings.ReplaceAll(s, ",", "")
	}
	return s
}

var playerIDRegex = regexp.MustCompile(`playerId=(\d+)`)

// playerID pulls the numeric player id from the link in the row's
// second cell (the player name column on every record page).
func playerID(tr *goquery.Selection) string {
	cells := tr.Find("th,td")
	if cells.Length() < 2 {
		return ""
	}
	href := cells.Eq(1).Find("a").AttrOr("href", "")
	groups := playerIDRegex.FindStringSubmatch(href)
	if len(groups) < 2 {
		return ""
	}
	return groups[1]
}

// MergeTables concatenates the page fragments of one combination in
// visit order. Fragment headers must be identical, a drifting header
// means the site served incompatible pages and concatenating them
// would corrupt the output.
func MergeTables(pages []Table) (Table, error) {
	if len(pages) == 0 {
		return Table{}, ErrNoTable
	}
	merged := Table{Header: pages[0].Header}
	for i, p := range pages {
		if !slices.Equal(p.Header, merged.Header) {
			return Table{}, fmt.Errorf("%w: page %d has %v, expected %v",
				ErrHeaderMismatch, i+1, p.Header, merged.Header)
		}
		merged.Rows = append(merged.Rows, p.Rows...)
	}
	if len(merged.Rows) == 0 {
		return Table{}, ErrNoRows
	}
	return merged, nil
}

// FilterTeam narrows a league-wide table to one team's rows by
// matching the team column against the Korean name, then the site
// code. Tables without a team column, or where nothing matches, are
// returned unchanged (the form already scoped them server side).
func FilterTeam(t Table, team Team) Table {
	col := -1
	for i, h := range t.Header {
		if strings.Contains(h, "팀") || strings.EqualFold(h, "team") {
			col = i
			break
		}
	}
	if col < 0 {
		return t
	}

	match := func(eq func(string) bool) [][]string {
		var rows [][]string
		for _, row := range t.Rows {
			if eq(row[col]) {
				rows = append(rows, row)
			}
		}
		return rows
	}

	contains := func(v, substr string) bool {
		return substr != "" && strings.Contains(v, substr)
	}
	for _, eq := range []func(string) bool{
		func(v string) bool { return team.Korean != "" && v == team.Korean },
		func(v string) bool { return team.Code != "" && v == team.Code },
		func(v string) bool { return contains(v, team.Korean) || contains(v, team.Code) },
	} {
		if rows := match(eq); len(rows) > 0 {
			return Table{Header: t.Header, Rows: rows}
		}
	}
	return t
}
