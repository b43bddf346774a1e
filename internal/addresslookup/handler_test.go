package addresslookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadgate/internal/platform/metrics"
	"leadgate/internal/wizard/models"
	dErrors "leadgate/pkg/domainerrors"
	"leadgate/pkg/testutil"
)

var testMetrics = metrics.New()

type fakeLookup struct {
	suggestions []Suggestion
	address     *models.Address
	err         error
}

func (f *fakeLookup) Autocomplete(context.Context, string) ([]Suggestion, error) {
	return f.suggestions, f.err
}

func (f *fakeLookup) Get(context.Context, string) (*models.Address, error) {
	return f.address, f.err
}

func newTestRouter(lookup Lookup) http.Handler {
	r := chi.NewRouter()
	NewHandler(lookup, testLogger(), testMetrics).Register(r)
	return r
}

func TestHandleLookup(t *testing.T) {
	t.Run("autocomplete", func(t *testing.T) {
		router := newTestRouter(&fakeLookup{suggestions: []Suggestion{
			{Address: "12 High Street, Leeds, LS1 4AB", ID: "id-1"},
			ManualEntrySuggestion(true),
		}})

		req := testutil.NewJSONRequest(t, http.MethodPost, "/address-lookup",
			map[string]string{"action": "autocomplete", "term": "12 High"})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Suggestions []Suggestion `json:"suggestions"`
		}
		testutil.DecodeBody(t, rec, &body)
		require.Len(t, body.Suggestions, 2)
		assert.Equal(t, "id-1", body.Suggestions[0].ID)
	})

	t.Run("get returns the structured address", func(t *testing.T) {
		router := newTestRouter(&fakeLookup{address: &models.Address{
			Line1:    "12 High Street",
			City:     "Leeds",
			Postcode: "LS1 4AB",
		}})

		req := testutil.NewJSONRequest(t, http.MethodPost, "/address-lookup",
			map[string]string{"action": "get", "id": "id-1"})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var got models.Address
		testutil.DecodeBody(t, rec, &got)
		assert.Equal(t, "Leeds", got.City)
	})

	t.Run("missing term", func(t *testing.T) {
		router := newTestRouter(&fakeLookup{})
		req := testutil.NewJSONRequest(t, http.MethodPost, "/address-lookup",
			map[string]string{"action": "autocomplete"})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown action", func(t *testing.T) {
		router := newTestRouter(&fakeLookup{})
		req := testutil.NewJSONRequest(t, http.MethodPost, "/address-lookup",
			map[string]string{"action": "delete"})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("provider outage surfaces as bad gateway", func(t *testing.T) {
		router := newTestRouter(&fakeLookup{err: dErrors.New(dErrors.CodeUnavailable, "address provider unreachable")})
		req := testutil.NewJSONRequest(t, http.MethodPost, "/address-lookup",
			map[string]string{"action": "autocomplete", "term": "12"})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}
