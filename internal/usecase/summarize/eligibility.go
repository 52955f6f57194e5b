package summarize

import "regexp"

// Denylist of URL patterns that never get a summary: search result pages,
// messaging apps, LLM chat UIs, video platforms, social feeds and webmail.
// The gmail pattern is anchored so the inbox root matches but individual
// mails (#inbox/<id>) stay eligible.
var denylistPatterns = []*regexp.Regexp{
	regexp.MustCompile(`google\.com/search`),
	regexp.MustCompile(`web\.whatsapp\.com`),
	regexp.MustCompile(`chatgpt\.com`),
	regexp.MustCompile(`youtube\.com/`),
	regexp.MustCompile(`linkedin\.com/feed/`),
	regexp.MustCompile(`mail\.google\.com/mail/u/0/#inbox$`),
}

// IsWorth reports whether an article is worth spending generation budget on.
// Pure function over the raw request URL, no I/O: it runs before any paid
// API call.
func IsWorth(id, rawURL string) bool {
	for _, pattern := range denylistPatterns {
		if pattern.MatchString(rawURL) {
			return false
		}
	}
	return true
}
