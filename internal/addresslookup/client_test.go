package addresslookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "leadgate/pkg/domainerrors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClientAutocomplete(t *testing.T) {
	t.Run("relays matches and appends manual entry", func(t *testing.T) {
		var gotPath, gotQuery string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotQuery = r.URL.RawQuery
			w.Write([]byte(`{"suggestions":[
				{"address":"12 High Street, Leeds, LS1 4AB","id":"id-1"},
				{"address":"12 High Close, Leeds, LS2 9XY","id":"id-2"}
			]}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "k123", testLogger())
		got, err := c.Autocomplete(context.Background(), "12 High")
		require.NoError(t, err)

		assert.Equal(t, "/autocomplete/12 High", gotPath)
		assert.Contains(t, gotQuery, "api-key=k123")
		assert.Contains(t, gotQuery, "all=true")

		require.Len(t, got, 3)
		assert.Equal(t, Suggestion{Address: "12 High Street, Leeds, LS1 4AB", ID: "id-1"}, got[0])
		assert.Equal(t, "Can't see your address? Enter address manually", got[2].Address)
		assert.Empty(t, got[2].ID)
	})

	t.Run("no matches still offers manual entry", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"suggestions":[]}`))
		}))
		defer srv.Close()

		got, err := NewClient(srv.URL, "k123", testLogger()).Autocomplete(context.Background(), "zzz")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Enter address manually", got[0].Address)
	})

	t.Run("caps the relay at fifty matches", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var many []map[string]string
			for i := 0; i < 80; i++ {
				many = append(many, map[string]string{
					"address": fmt.Sprintf("%d Test Road", i),
					"id":      fmt.Sprintf("id-%d", i),
				})
			}
			json.NewEncoder(w).Encode(map[string]any{"suggestions": many})
		}))
		defer srv.Close()

		got, err := NewClient(srv.URL, "k123", testLogger()).Autocomplete(context.Background(), "Test")
		require.NoError(t, err)
		assert.Len(t, got, 51)
	})

	t.Run("provider failure is an upstream error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "expired key", http.StatusUnauthorized)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, "k123", testLogger()).Autocomplete(context.Background(), "12")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	})

	t.Run("missing key fails before any request", func(t *testing.T) {
		_, err := NewClient("http://example.invalid", "", testLogger()).Autocomplete(context.Background(), "12")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func TestClientGet(t *testing.T) {
	t.Run("folds provider lines into the wizard shape", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/get/id-1", r.URL.Path)
			w.Write([]byte(`{
				"line_1":"Flat 3",
				"line_2":"12 High Street",
				"line_3":"Millbank",
				"town_or_city":"Leeds",
				"locality":"",
				"postcode":"LS1 4AB"
			}`))
		}))
		defer srv.Close()

		got, err := NewClient(srv.URL, "k123", testLogger()).Get(context.Background(), "id-1")
		require.NoError(t, err)
		assert.Equal(t, "Flat 3, 12 High Street", got.Line1)
		assert.Equal(t, "Millbank", got.Line2)
		assert.Equal(t, "Leeds", got.City)
		assert.Equal(t, "LS1 4AB", got.Postcode)
	})

	t.Run("locality stands in for a missing town", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"line_1":"1 Main St","town_or_city":"","locality":"Holywood","postcode":"BT18 9AB"}`))
		}))
		defer srv.Close()

		got, err := NewClient(srv.URL, "k123", testLogger()).Get(context.Background(), "id-2")
		require.NoError(t, err)
		assert.Equal(t, "Holywood", got.City)
	})
}
