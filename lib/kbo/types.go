package kbo

import (
	"errors"
	"fmt"
)

// Category identifies which player statistics table a request targets.
type Category string

const (
	CategoryHitter  Category = "hitter"
	CategoryPitcher Category = "pitcher"
	CategoryDefense Category = "defense"
	CategoryRunner  Category = "runner"
)

// Categories returns every known category in crawl order.
func Categories() []Category {
	return []Category{CategoryHitter, CategoryPitcher, CategoryDefense, CategoryRunner}
}

// pageBinding ties a category to its listing page and the container
// class holding the page's select controls. The markup classes come
// from the live site and change when the site is redesigned.
type pageBinding struct {
	path      string
	container string
	// the hitter page shares its form with postseason views, so the
	// series/situation selectors must be pinned to the regular season
	pinSeries bool
}

var recordPages = map[Category]pageBinding{
	CategoryHitter:  {path: "/Record/Player/HitterBasic/Basic1.aspx", container: ".compare.schItem", pinSeries: true},
	CategoryPitcher: {path: "/Record/Player/PitcherBasic/Basic1.aspx", container: ".compare"},
	CategoryDefense: {path: "/Record/Player/Defense/Basic.aspx", container: ".compare"},
	CategoryRunner:  {path: "/Record/Player/Runner/Basic.aspx", container: ".compare.mgt25"},
}

func (c Category) Valid() bool {
	_, ok := recordPages[c]
	return ok
}

// SummaryKind identifies a league-wide team aggregate table.
type SummaryKind string

const (
	SummaryHitting  SummaryKind = "hitting"
	SummaryPitching SummaryKind = "pitching"
	SummaryDefense  SummaryKind = "defense"
	SummaryRunning  SummaryKind = "running"
)

func SummaryKinds() []SummaryKind {
	return []SummaryKind{SummaryHitting, SummaryPitching, SummaryDefense, SummaryRunning}
}

var summaryPages = map[SummaryKind]pageBinding{
	SummaryHitting:  {path: "/Record/Team/Hitter/Basic1.aspx", pinSeries: true},
	SummaryPitching: {path: "/Record/Team/Pitcher/Basic1.aspx"},
	SummaryDefense:  {path: "/Record/Team/Defense/Basic.aspx"},
	SummaryRunning:  {path: "/Record/Team/Runner/Basic.aspx"},
}

const standingsPath = "/Record/TeamRank/TeamRank.aspx"

// Team is one franchise. Name is the english folder name, Code the
// site's option value, Korean the display name used in table cells.
type Team struct {
	Name   string `json:"name"`
	Code   string `json:"code"`
	Korean string `json:"korean"`
}

// RequestSpec is one (season, team, category) combination. It drives
// both the outbound form submission and the destination file path.
type RequestSpec struct {
	Season   int
	Team     Team
	Category Category
}

func (s RequestSpec) String() string {
	return fmt.Sprintf("%d/%s/%s", s.Season, s.Team.Name, s.Category)
}

var (
	ErrUnknownTeam     = errors.New("no site code mapping for team")
	ErrUnknownCategory = errors.New("unknown stat category")
	// ErrUnknownOption means a select control exists but none of its
	// options matched the requested value. The site's selector values
	// changed, the request must not be sent with a guess.
	ErrUnknownOption  = errors.New("no matching option for selector")
	ErrNoTable        = errors.New("no statistics table in document")
	ErrNoRows         = errors.New("statistics table has no data rows")
	ErrHeaderMismatch = errors.New("table header differs across pages")
)
