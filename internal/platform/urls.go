package platform

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	urlPattern  = regexp.MustCompile(`https://[^\s"']+`)
	ansiPattern = regexp.MustCompile("\x1b\\[[0-9;]*m")
)

// matchURLs returns every https URL in the output, in order
func matchURLs(output string) []string {
	return urlPattern.FindAllString(stripANSI(output), -1)
}

// stripANSI removes terminal color codes that vendor CLIs wrap their
// output in
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// trimURL drops trailing punctuation picked up by the URL pattern
func trimURL(raw string) string {
	return strings.TrimRight(raw, `.,;)"'`)
}

// lastURLWithSuffix returns the last URL whose host ends with suffix.
// The vendor CLIs print the final deployment URL after any inspect or
// preview links, so the last match is the one that counts.
func lastURLWithSuffix(output string, suffixes ...string) string {
	found := ""
	for _, raw := range matchURLs(output) {
		raw = trimURL(raw)
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		for _, suffix := range suffixes {
			if strings.HasSuffix(u.Host, suffix) {
				found = raw
			}
		}
	}
	return found
}

// labeledURL returns the URL on the first line carrying one of the given
// labels, e.g. "Website URL:" in netlify deploy output
func labeledURL(output string, labels ...string) string {
	for _, line := range strings.Split(stripANSI(output), "\n") {
		for _, label := range labels {
			if !strings.Contains(line, label) {
				continue
			}
			if urls := matchURLs(line); len(urls) > 0 {
				return trimURL(urls[len(urls)-1])
			}
		}
	}
	return ""
}
