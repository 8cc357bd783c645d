package parser

import "strings"

type rule struct {
	name    string
	match   []string
	exclude []string
}

// order matters: Edge and Chrome both claim Safari, Edge also claims Chrome
var browsers = []rule{
	{name: "Edge", match: []string{"edg/", "edge/"}},
	{name: "Firefox", match: []string{"firefox/"}},
	{name: "Chrome", match: []string{"chrome/", "crios/"}},
	{name: "Safari", match: []string{"safari/"}},
	{name: "curl", match: []string{"curl/"}},
}

var platforms = []rule{
	{name: "Android", match: []string{"android"}},
	{name: "iOS", match: []string{"iphone", "ipad"}},
	{name: "Windows", match: []string{"windows"}},
	{name: "macOS", match: []string{"mac os"}, exclude: []string{"iphone", "ipad"}},
	{name: "Linux", match: []string{"linux"}},
}

// ParseUserAgent reduces a User-Agent header to an operating system and a
// browser family, "Unknown" when nothing matches.
func ParseUserAgent(ua string) (os, browser string) {
	ua = strings.ToLower(ua)
	return first(platforms, ua), first(browsers, ua)
}

func first(rules []rule, ua string) string {
	for _, r := range rules {
		if containsAny(ua, r.exclude) {
			continue
		}
		if containsAny(ua, r.match) {
			return r.name
		}
	}
	return "Unknown"
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
