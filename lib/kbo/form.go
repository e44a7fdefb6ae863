package kbo

import (
	"fmt"
	"strconv"
	"strings"

	"kbostats-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// CollectHiddenInputs harvests the ASP.NET form state (__VIEWSTATE,
// __EVENTVALIDATION and friends) that must be echoed back on every
// POST for the server to accept the request.
func CollectHiddenInputs(doc *goquery.Document) map[string]string {
	form := map[string]string{}
	doc.Find("input").Each(func(_ int, input *goquery.Selection) {
		name := input.AttrOr("name", "")
		if name == "" {
			return
		}
		typ := input.AttrOr("type", "")
		if typ != "" && typ != "hidden" {
			return
		}
		form[name] = input.AttrOr("value", "")
	})
	return form
}

// matchOption returns the value of the first option in sel for which
// match returns true, or false when none does.
func matchOption(sel *goquery.Selection, match func(value, label string) bool) (string, bool) {
	var chosen string
	found := false
	sel.Find("option").EachWithBreak(func(_ int, opt *goquery.Selection) bool {
		value := opt.AttrOr("value", "")
		label := strings.TrimSpace(opt.Text())
		if match(value, label) {
			chosen = value
			found = true
			return false
		}
		return true
	})
	return chosen, found
}

// BuildSelectParams resolves the page's select controls into the form
// values for one request. It matches the season selector against the
// year, the team selector against the team's site code (falling back
// to the Korean name) and, for the hitter page, pins the series and
// situation selectors to the regular season defaults.
//
// A selector that exists but offers no matching option fails with
// ErrUnknownOption: the site's values changed and sending a guessed
// request would silently produce the wrong table.
func BuildSelectParams(container *goquery.Selection, spec RequestSpec) (map[string]string, error) {
	binding, ok := recordPages[spec.Category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, spec.Category)
	}

	params := map[string]string{}
	var optErr error

	container.Find("select").Each(func(_ int, sel *goquery.Selection) {
		name := sel.AttrOr("name", "")
		if name == "" || optErr != nil {
			return
		}
		lname := strings.ToLower(name)

		switch {
		case strings.Contains(lname, "ddlseason"):
			year := strconv.Itoa(spec.Season)
			value, found := matchOption(sel, func(v, label string) bool {
				return v == year || strings.Contains(label, year)
			})
			if !found {
				optErr = fmt.Errorf("%w: season %d in %q", ErrUnknownOption, spec.Season, name)
				return
			}
			params[name] = value

		case strings.Contains(lname, "ddlteam"):
			value, found := matchOption(sel, func(v, label string) bool {
				return v == spec.Team.Code ||
					label == spec.Team.Code ||
					label == spec.Team.Korean
			})
			if !found {
				// some seasons label the option with a longer club name
				value, found = matchOption(sel, func(v, label string) bool {
					return textutil.MatchName(label, spec.Team.Korean)
				})
			}
			if !found {
				optErr = fmt.Errorf("%w: team %s (%s) in %q", ErrUnknownOption, spec.Team.Name, spec.Team.Code, name)
				return
			}
			params[name] = value

		case binding.pinSeries && strings.Contains(lname, "ddlseries"):
			value, found := matchOption(sel, func(v, label string) bool {
				return strings.Contains(label, "KBO 정규시즌")
			})
			if found {
				params[name] = value
			}

		case binding.pinSeries && strings.Contains(lname, "ddlsituation"):
			value, found := matchOption(sel, func(v, label string) bool {
				return strings.Contains(label, "경기상황별1") || strings.Contains(label, "경기상황별2")
			})
			if found {
				params[name] = value
			}
		}
	})

	if optErr != nil {
		return nil, optErr
	}
	return params, nil
}

// BuildSeasonParams resolves only the season (and optionally series)
// selectors, used by the standings and team summary pages which have
// no team selector.
func BuildSeasonParams(container *goquery.Selection, season int, pinSeries bool) (map[string]string, error) {
	params := map[string]string{}
	var optErr error

	container.Find("select").Each(func(_ int, sel *goquery.Selection) {
		name := sel.AttrOr("name", "")
		if name == "" || optErr != nil {
			return
		}
		lname := strings.ToLower(name)

		switch {
		case strings.Contains(lname, "ddlseason") || strings.Contains(lname, "season"):
			year := strconv.Itoa(season)
			value, found := matchOption(sel, func(v, label string) bool {
				return v == year || strings.Contains(label, year)
			})
			if !found {
				optErr = fmt.Errorf("%w: season %d in %q", ErrUnknownOption, season, name)
				return
			}
			params[name] = value

		case pinSeries && strings.Contains(lname, "ddlseries"):
			value, found := matchOption(sel, func(v, label string) bool {
				return strings.Contains(label, "정규시즌")
			})
			if found {
				params[name] = value
			}
		}
	})

	if optErr != nil {
		return nil, optErr
	}
	return params, nil
}
