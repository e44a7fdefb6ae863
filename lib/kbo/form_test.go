package kbo

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(hitterBasicHTML))
	require.NoError(t, err)
	return doc
}

func TestCollectHiddenInputs(t *testing.T) {
	doc := loadFixture(t)

	form := CollectHiddenInputs(doc)
	require.Equal(t, "dDwtMTM2NzIxNTt0PDtsPGk8MT47PjtsPHQ8O2w8aTwxPjs+Ow==", form["__VIEWSTATE"])
	require.Equal(t, "CA0B0334", form["__VIEWSTATEGENERATOR"])
	require.Contains(t, form, "__EVENTVALIDATION")
	// visible inputs are not form state
	require.NotContains(t, form, "txtSearchPlayerName")
}

func TestBuildSelectParams(t *testing.T) {
	doc := loadFixture(t)
	container := doc.Find(".compare.schItem")
	require.Equal(t, 1, container.Length())

	spec := RequestSpec{
		Season:   2023,
		Team:     Team{Name: "Doosan", Code: "OB", Korean: "두산"},
		Category: CategoryHitter,
	}
	params, err := BuildSelectParams(container, spec)
	require.NoError(t, err)

	require.Equal(t, "2023", params["ctl00$ctl00$ctl00$cphContents$cphContents$cphContents$ddlSeason$ddlSeason"])
	require.Equal(t, "OB", params["ctl00$ctl00$ctl00$cphContents$cphContents$cphContents$ddlTeam$ddlTeam"])
	// the hitter page pins series and situation to regular season
	require.Equal(t, "0,9,6", params["ctl00$ctl00$ctl00$cphContents$cphContents$cphContents$ddlSeries$ddlSeries"])
	require.Equal(t, "s1", params["ctl00$ctl00$ctl00$cphContents$cphContents$cphContents$ddlSituation$ddlSituation"])
}

func TestBuildSelectParamsNoSeriesForPitcher(t *testing.T) {
	doc := loadFixture(t)
	container := doc.Find(".compare.schItem")

	spec := RequestSpec{
		Season:   2023,
		Team:     Team{Name: "LG", Code: "LG", Korean: "LG"},
		Category: CategoryPitcher,
	}
	params, err := BuildSelectParams(container, spec)
	require.NoError(t, err)
	require.NotContains(t, params, "ctl00$ctl00$ctl00$cphContents$cphContents$cphContents$ddlSeries$ddlSeries")
}

func TestBuildSelectParamsUnknownSeason(t *testing.T) {
	doc := loadFixture(t)
	container := doc.Find(".compare.schItem")

	spec := RequestSpec{
		Season:   1999,
		Team:     Team{Name: "LG", Code: "LG", Korean: "LG"},
		Category: CategoryHitter,
	}
	_, err := BuildSelectParams(container, spec)
	require.ErrorIs(t, err, ErrUnknownOption)
}

func TestBuildSelectParamsUnknownTeam(t *testing.T) {
	doc := loadFixture(t)
	container := doc.Find(".compare.schItem")

	spec := RequestSpec{
		Season:   2023,
		Team:     Team{Name: "Busan", Code: "BS", Korean: "부산"},
		Category: CategoryHitter,
	}
	_, err := BuildSelectParams(container, spec)
	require.ErrorIs(t, err, ErrUnknownOption)
}

func TestBuildSelectParamsUnknownCategory(t *testing.T) {
	doc := loadFixture(t)
	_, err := BuildSelectParams(doc.Selection, RequestSpec{Season: 2023, Category: Category("coach")})
	require.ErrorIs(t, err, ErrUnknownCategory)
}

func TestBuildSeasonParams(t *testing.T) {
	doc := loadFixture(t)

	params, err := BuildSeasonParams(doc.Selection, 2024, false)
	require.NoError(t, err)
	require.Equal(t, "2024", params["ctl00$ctl00$ctl00$cphContents$cphContents$cphContents$ddlSeason$ddlSeason"])

	_, err = BuildSeasonParams(doc.Selection, 1982, false)
	require.ErrorIs(t, err, ErrUnknownOption)
}

func TestPagerPostbacks(t *testing.T) {
	doc := loadFixture(t)

	events := pagerPostbacks(doc)
	// the duplicate btnNo2 anchor is posted once, btnLast and plain
	// links are skipped
	require.Len(t, events, 1)
	require.Equal(t, "ctl00$ctl00$ctl00$cphContents$cphContents$cphContents$ucPager$btnNo2", events[0].target)
	require.Equal(t, "", events[0].arg)
}

func TestLookupTeam(t *testing.T) {
	teams := DefaultTeams()

	team, err := LookupTeam(teams, "Doosan")
	require.NoError(t, err)
	require.Equal(t, "OB", team.Code)

	_, err = LookupTeam(teams, "Busan")
	require.ErrorIs(t, err, ErrUnknownTeam)
}
