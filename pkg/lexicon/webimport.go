package lexicon

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
)

var wordRe = regexp.MustCompile(`[a-zA-Z]+`)

// ExtractWords pulls the readable article text out of an HTML document and
// returns its distinct lowercase alphabetic words, in first-seen order.
func ExtractWords(body io.Reader, pageURL *url.URL) ([]string, error) {
	article, err := readability.FromReader(body, pageURL)
	if err != nil {
		return nil, fmt.Errorf("readability extraction failed: %w", err)
	}

	seen := make(map[string]struct{})
	var words []string
	for _, match := range wordRe.FindAllString(article.TextContent, -1) {
		w := strings.ToLower(match)
		if len(w) == 1 && !validSingleLetters[w] {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	return words, nil
}

// ImportFromURL fetches a web page, extracts its readable words, and imports
// them into the store as dictionary entries tagged with the page URL.
func (im *Importer) ImportFromURL(ctx context.Context, rawURL string) (int, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return 0, fmt.Errorf("bad url %q: %w", rawURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", "audiocipher-cli")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetch %s returned status: %s", rawURL, resp.Status)
	}

	words, err := ExtractWords(resp.Body, pageURL)
	if err != nil {
		return 0, err
	}
	return im.ImportEntries(words, KindWord, rawURL)
}
