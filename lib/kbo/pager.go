package kbo

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type postback struct {
	target string
	arg    string
}

var doPostBackRegex = regexp.MustCompile(`__doPostBack\(\s*'([^']*)'\s*,\s*'([^']*)'\s*\)`)

// pagerPostbacks finds the numbered page buttons of the result pager.
// Only btnNo targets are collected: the first/prev/next/last buttons
// post duplicates of pages the numbered buttons already cover. Each
// target is returned once, in document order.
func pagerPostbacks(doc *goquery.Document) []postback {
	var events []postback
	seen := map[string]bool{}

	doc.Find(".paging a").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if !strings.HasPrefix(href, "javascript:__doPostBack") {
			return
		}
		groups := doPostBackRegex.FindStringSubmatch(href)
		if len(groups) < 3 {
			return
		}
		target, arg := groups[1], groups[2]
		if !strings.Contains(target, "btnNo") {
			return
		}
		key := target + "|" + arg
		if seen[key] {
			return
		}
		seen[key] = true
		events = append(events, postback{target: target, arg: arg})
	})

	return events
}
