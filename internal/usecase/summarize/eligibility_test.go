package summarize

import "testing"

func TestIsWorth_DenylistedPlatforms(t *testing.T) {
	denied := []string{
		"https://www.google.com/search?q=how+to+make+bread",
		"https://web.whatsapp.com/",
		"https://chatgpt.com/c/abc123",
		"https://www.youtube.com/watch?v=xyz",
		"https://www.linkedin.com/feed/",
		"https://mail.google.com/mail/u/0/#inbox",
	}
	for _, url := range denied {
		if IsWorth("id", url) {
			t.Fatalf("expected %q to be denied", url)
		}
	}
}

func TestIsWorth_RegularArticles(t *testing.T) {
	allowed := []string{
		"https://news.example/2026/09/some-article",
		"https://www.linkedin.com/pulse/some-post",
		"https://blog.example.com/go-generics",
		// an opened mail, not the inbox listing
		"https://mail.google.com/mail/u/0/#inbox/FMfcgzQbdrTkWx",
	}
	for _, url := range allowed {
		if !IsWorth("id", url) {
			t.Fatalf("expected %q to be allowed", url)
		}
	}
}
