// Package addresslookup relays UK address searches to getAddress.io so the
// provider API key stays server-side. The relay normalizes the provider's
// address-details shape into the wizard's structured address.
package addresslookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"leadgate/internal/wizard/models"
	dErrors "leadgate/pkg/domainerrors"
)

// maxSuggestions bounds how many autocomplete matches are relayed.
const maxSuggestions = 50

// Suggestion is one autocomplete match. A Suggestion with an empty ID is
// the manual-entry affordance: selecting it means "keep what I typed".
type Suggestion struct {
	Address string `json:"address"`
	ID      string `json:"id,omitempty"`
}

// Lookup is the provider-facing side of the relay.
type Lookup interface {
	Autocomplete(ctx context.Context, term string) ([]Suggestion, error)
	Get(ctx context.Context, id string) (*models.Address, error)
}

// Client calls getAddress.io.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	logger  *slog.Logger
}

func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		logger:  logger,
	}
}

// ManualEntrySuggestion returns the affordance appended to every result
// list. The wording differs when no matches were found.
func ManualEntrySuggestion(hasResults bool) Suggestion {
	if hasResults {
		return Suggestion{Address: "Can't see your address? Enter address manually"}
	}
	return Suggestion{Address: "Enter address manually"}
}

type autocompleteResponse struct {
	Suggestions []struct {
		Address string `json:"address"`
		ID      string `json:"id"`
	} `json:"suggestions"`
}

// Autocomplete searches for addresses matching term. At most maxSuggestions
// matches come back; the manual-entry affordance is always last.
func (c *Client) Autocomplete(ctx context.Context, term string) ([]Suggestion, error) {
	var decoded autocompleteResponse
	endpoint := c.baseURL + "/autocomplete/" + url.PathEscape(term) + "?api-key=" + url.QueryEscape(c.apiKey) + "&all=true"
	if err := c.getJSON(ctx, endpoint, &decoded); err != nil {
		return nil, err
	}

	matches := decoded.Suggestions
	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}
	suggestions := make([]Suggestion, 0, len(matches)+1)
	for _, m := range matches {
		suggestions = append(suggestions, Suggestion{Address: m.Address, ID: m.ID})
	}
	suggestions = append(suggestions, ManualEntrySuggestion(len(matches) > 0))
	return suggestions, nil
}

type detailsResponse struct {
	Line1      string `json:"line_1"`
	Line2      string `json:"line_2"`
	Line3      string `json:"line_3"`
	TownOrCity string `json:"town_or_city"`
	Locality   string `json:"locality"`
	Postcode   string `json:"postcode"`
}

// Get fetches the full details for a suggestion and folds the provider's
// three address lines into the wizard's two: lines one and two join into
// Line1, line three becomes Line2. Locality is the town fallback.
func (c *Client) Get(ctx context.Context, id string) (*models.Address, error) {
	var decoded detailsResponse
	endpoint := c.baseURL + "/get/" + url.PathEscape(id) + "?api-key=" + url.QueryEscape(c.apiKey)
	if err := c.getJSON(ctx, endpoint, &decoded); err != nil {
		return nil, err
	}

	line1Parts := make([]string, 0, 2)
	for _, p := range []string{decoded.Line1, decoded.Line2} {
		if p != "" {
			line1Parts = append(line1Parts, p)
		}
	}
	city := decoded.TownOrCity
	if city == "" {
		city = decoded.Locality
	}
	return &models.Address{
		Line1:    strings.Join(line1Parts, ", "),
		Line2:    decoded.Line3,
		City:     city,
		Postcode: decoded.Postcode,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, dst any) error {
	if c.apiKey == "" {
		return dErrors.New(dErrors.CodeInternal, "address lookup API key not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "build lookup request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "address provider unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("address lookup failed", "status", resp.StatusCode, "body", string(body))
		return dErrors.New(dErrors.CodeUnavailable,
			fmt.Sprintf("address provider returned %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "decode address provider response")
	}
	return nil
}
