package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultBaseURL is the public MyMemory endpoint.
	DefaultBaseURL = "https://api.mymemory.translated.net/get"

	// langPair asks for English to Urdu.
	langPair = "en|ur"

	// FallbackMessage is what clients receive whenever the upstream call
	// fails; translation errors never surface as HTTP errors.
	FallbackMessage = "Translation service error."
)

// Client calls the MyMemory translation API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given endpoint. An empty baseURL
// selects the public MyMemory service.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
}

// EnglishToUrdu translates the text, returning an error on any upstream
// failure: network, status, or payload shape.
func (c *Client) EnglishToUrdu(ctx context.Context, text string) (string, error) {
	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", langPair)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build translation request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translation service returned status %d", resp.StatusCode)
	}

	var parsed myMemoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode translation response: %w", err)
	}
	if parsed.ResponseData.TranslatedText == "" {
		return "", fmt.Errorf("translation service returned an empty translation")
	}
	return parsed.ResponseData.TranslatedText, nil
}
