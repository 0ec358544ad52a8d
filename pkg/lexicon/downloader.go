package lexicon

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// DefaultWordlistURL serves a plain-text English wordlist, one word per line.
const DefaultWordlistURL = "https://raw.githubusercontent.com/dwyl/english-words/master/words_alpha.txt"

// EnsureWordlist checks if a wordlist exists at path. If not, it downloads
// one from url (DefaultWordlistURL when empty) and writes it there.
func EnsureWordlist(ctx context.Context, path, url string) error {
	if _, err := os.Stat(path); err == nil {
		// File exists
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	if url == "" {
		url = DefaultWordlistURL
	}

	fmt.Printf("Wordlist not found at %s. Attempting auto-download...\n", path)

	client := &http.Client{Timeout: 2 * time.Minute}
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "audiocipher-cli")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download wordlist: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wordlist download returned status: %s", resp.Status)
	}

	tmp := path + ".partial"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write wordlist: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
