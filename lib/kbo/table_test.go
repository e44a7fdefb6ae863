package kbo

import (
	"testing"

	_ "embed"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/hitter_basic.html
var hitterBasicHTML string

func TestParseRecordPage(t *testing.T) {
	table, err := ParseRecordPage(hitterBasicHTML)
	require.NoError(t, err)

	require.Equal(t, []string{
		"player_id", "순위", "선수명", "팀명", "AVG", "G", "타석", "타수", "안타", "홈런", "타점",
	}, table.Header)

	// the repeated header row and the colspan footer must be dropped,
	// everything else stays in source order
	require.Len(t, table.Rows, 3)
	require.Equal(t, []string{"50066", "1", "김현수", "LG", "0.301", "140", "1234", "512", "154", "18", "88"}, table.Rows[0])
	require.Equal(t, "64300", table.Rows[1][0])
	require.Equal(t, "홍창기", table.Rows[1][2])
	// no player link on this row, the id column stays empty
	require.Equal(t, "", table.Rows[2][0])
	require.Equal(t, "오지환", table.Rows[2][2])
}

func TestParseStatTableNoIDColumn(t *testing.T) {
	table, err := ParseStatTable(hitterBasicHTML)
	require.NoError(t, err)
	require.Equal(t, "순위", table.Header[0])
	require.Len(t, table.Rows, 3)
}

func TestParseRecordPageIdempotent(t *testing.T) {
	first, err := ParseRecordPage(hitterBasicHTML)
	require.NoError(t, err)
	second, err := ParseRecordPage(hitterBasicHTML)
	require.NoError(t, err)

	diff := cmp.Diff(first, second)
	require.Empty(t, diff)
}

func TestParseStatTableNoTable(t *testing.T) {
	_, err := ParseStatTable(`<html><body><p>점검 중입니다</p></body></html>`)
	require.ErrorIs(t, err, ErrNoTable)
}

func TestParseStatTableHeaderOnly(t *testing.T) {
	_, err := ParseStatTable(`<html><body><table>
		<thead><tr><th>순위</th><th>선수명</th></tr></thead>
		<tbody></tbody>
	</table></body></html>`)
	require.ErrorIs(t, err, ErrNoRows)
}

func TestParseStatTableRowOrder(t *testing.T) {
	table, err := ParseStatTable(`<html><body><table>
		<tr><th>name</th><th>value</th></tr>
		<tr><td>A</td><td>1</td></tr>
		<tr><td>B</td><td>2</td></tr>
		<tr><td>C</td><td>3</td></tr>
	</table></body></html>`)
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"A", "1"},
		{"B", "2"},
		{"C", "3"},
	}, table.Rows)
}

func TestNormalizeCell(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{"1,234", "1234"},
		{"12,345,678", "12345678"},
		{".301", ".301"},
		{"0.301", "0.301"},
		{"010", "010"},
		{"12,34", "12,34"},
		{"김현수", "김현수"},
		{"-", "-"},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, normalizeCell(test.in), "input %q", test.in)
	}
}

func TestMergeTables(t *testing.T) {
	a := Table{Header: []string{"name", "value"}, Rows: [][]string{{"A", "1"}}}
	b := Table{Header: []string{"name", "value"}, Rows: [][]string{{"B", "2"}}}

	merged, err := MergeTables([]Table{a, b})
	require.NoError(t, err)
	require.Equal(t, [][]string{{"A", "1"}, {"B", "2"}}, merged.Rows)

	_, err = MergeTables(nil)
	require.ErrorIs(t, err, ErrNoTable)

	c := Table{Header: []string{"name", "score"}, Rows: [][]string{{"C", "3"}}}
	_, err = MergeTables([]Table{a, c})
	require.ErrorIs(t, err, ErrHeaderMismatch)

	_, err = MergeTables([]Table{{Header: []string{"name"}}})
	require.ErrorIs(t, err, ErrNoRows)
}

func TestFilterTeam(t *testing.T) {
	lg := Team{Name: "LG", Code: "LG", Korean: "LG"}
	doosan := Team{Name: "Doosan", Code: "OB", Korean: "두산"}

	table := Table{
		Header: []string{"순위", "선수명", "팀명", "AVG"},
		Rows: [][]string{
			{"1", "김현수", "LG", "0.301"},
			{"2", "양의지", "두산", "0.305"},
			{"3", "홍창기", "LG", "0.290"},
		},
	}

	filtered := FilterTeam(table, doosan)
	require.Equal(t, [][]string{{"2", "양의지", "두산", "0.305"}}, filtered.Rows)

	filtered = FilterTeam(table, lg)
	require.Len(t, filtered.Rows, 2)

	// no team column, nothing to filter on
	noTeam := Table{
		Header: []string{"순위", "선수명", "AVG"},
		Rows:   [][]string{{"1", "김현수", "0.301"}},
	}
	require.Equal(t, noTeam, FilterTeam(noTeam, lg))

	// team codes in the cells instead of korean names
	codes := Table{
		Header: []string{"팀명", "승"},
		Rows:   [][]string{{"OB", "76"}, {"LG", "86"}},
	}
	filtered = FilterTeam(codes, doosan)
	require.Equal(t, [][]string{{"OB", "76"}}, filtered.Rows)
}
