package duel

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultDictionaryURL = "https://api.dictionaryapi.dev/api/v2/entries/en"

// DictionaryChecker validates words against a dictionary web service: a
// 200 response means the word exists, a 404 means it does not.
type DictionaryChecker struct {
	baseURL string
	client  *http.Client
}

// NewDictionaryChecker creates a checker against the public dictionary
// API.
func NewDictionaryChecker() *DictionaryChecker {
	return NewDictionaryCheckerWithURL(defaultDictionaryURL)
}

// NewDictionaryCheckerWithURL creates a checker against the given
// endpoint, used by tests to point at a local server.
func NewDictionaryCheckerWithURL(baseURL string) *DictionaryChecker {
	return &DictionaryChecker{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// IsValidWord implements WordChecker
func (c *DictionaryChecker) IsValidWord(word string) (bool, error) {
	resp, err := c.client.Get(c.baseURL + "/" + url.PathEscape(word))
	if err != nil {
		return false, fmt.Errorf("dictionary lookup for %q: %w", word, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("dictionary lookup for %q: unexpected status %d", word, resp.StatusCode)
	}
}
