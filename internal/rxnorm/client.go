package rxnorm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://rxnav.nlm.nih.gov/REST"

type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New returns a client for the RxNav REST API rooted at baseURL.
// An empty baseURL falls back to DefaultBaseURL, a zero timeout to 10s.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// -- drugs.json --

type DrugsResponse struct {
	DrugGroup *DrugGroup `json:"drugGroup"`
}

type DrugGroup struct {
	Name         string         `json:"name"`
	ConceptGroup []ConceptGroup `json:"conceptGroup"`
}

type ConceptGroup struct {
	TTY               string              `json:"tty"`
	ConceptProperties []ConceptProperties `json:"conceptProperties"`
}

type ConceptProperties struct {
	RxCUI    string `json:"rxcui"`
	Name     string `json:"name"`
	Synonym  string `json:"synonym"`
	TTY      string `json:"tty"`
	Language string `json:"language"`
}

// -- interaction.json --

type InteractionResponse struct {
	InteractionTypeGroup []InteractionTypeGroup `json:"interactionTypeGroup"`

	// Raw is the response body as received.
	Raw json.RawMessage `json:"-"`
}

type InteractionTypeGroup struct {
	SourceName      string            `json:"sourceName"`
	InteractionType []InteractionType `json:"interactionType"`
}

type InteractionType struct {
	InteractionPair []InteractionPair `json:"interactionPair"`
}

type InteractionPair struct {
	InteractionConcept []InteractionConcept `json:"interactionConcept"`
	Severity           *string              `json:"severity"`
	Description        *string              `json:"description"`
}

type InteractionConcept struct {
	MinConceptItem *MinConceptItem `json:"minConceptItem"`
}

type MinConceptItem struct {
	RxCUI string `json:"rxcui"`
	Name  string `json:"name"`
	TTY   string `json:"tty"`
}

// SearchDrugs resolves a free-text drug name into concept groups.
func (c *Client) SearchDrugs(ctx context.Context, name string) (*DrugsResponse, error) {
	searchURL := fmt.Sprintf("%s/drugs.json?name=%s", c.baseURL, url.QueryEscape(name))

	var out DrugsResponse
	if _, err := c.getJSON(ctx, searchURL, &out); err != nil {
		return nil, fmt.Errorf("failed to search rxnorm: %w", err)
	}
	return &out, nil
}

// Interactions fetches interaction data for a single RxCUI.
func (c *Client) Interactions(ctx context.Context, rxcui string) (*InteractionResponse, error) {
	checkURL := fmt.Sprintf("%s/interaction/interaction.json?rxcui=%s", c.baseURL, url.QueryEscape(rxcui))

	var out InteractionResponse
	raw, err := c.getJSON(ctx, checkURL, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interactions: %w", err)
	}
	out.Raw = raw
	return &out, nil
}

// getJSON decodes the body into dst and also returns it unparsed.
func (c *Client) getJSON(ctx context.Context, rawURL string, dst any) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("rxnorm responded with %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return json.RawMessage(body), nil
}
