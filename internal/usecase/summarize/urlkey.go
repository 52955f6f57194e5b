package summarize

import (
	"crypto/sha256"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultInstructions is the instructions value mixed into the content id
// when the caller supplies none. It is part of the id derivation contract:
// changing it would orphan every cached summary.
const DefaultInstructions = "default"

// NormalizeURL parses a URL and strips its query string and fragment. Two
// URLs differing only in query parameters or fragment normalize to the same
// canonical string.
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), nil
}

// GenerateID derives the stable content id for a URL and option set. The id
// is the SHA-256 hex digest of the normalized URL concatenated with the
// instructions and the audio flag, so differently-configured summaries never
// collide in the cache. The flip side is accepted: trivially different
// option defaults for the same article produce distinct ids and duplicate
// generation work.
func GenerateID(raw, instructions string, includeAudio bool) (id, clean string, err error) {
	clean, err = NormalizeURL(raw)
	if err != nil {
		return "", "", err
	}
	if instructions == "" {
		instructions = DefaultInstructions
	}
	sum := sha256.Sum256([]byte(clean + instructions + strconv.FormatBool(includeAudio)))
	return fmt.Sprintf("%x", sum), clean, nil
}

// ShortURL returns a compact display form of a canonical URL, suitable for
// appending to a tweet
func ShortURL(clean string) string {
	short := strings.TrimPrefix(clean, "https://")
	short = strings.TrimPrefix(short, "http://")
	return strings.TrimSuffix(short, "/")
}
