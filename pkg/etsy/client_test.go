package etsy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return NewClient(resty.New(), baseURL, "secret-token", nil)
}

func TestClient_Fetch_Success(t *testing.T) {
	var gotKey, gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("api_key")
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":1,"results":[{"listing_id":1234567890123,"title":"Mug"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	res, err := c.Fetch(context.Background(), "/shops/abc/listings/active", map[string]string{"limit": "25"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "secret-token", gotKey)
	assert.Equal(t, "25", gotLimit)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, int64(1), res.Count())

	results := res.Results()
	require.Len(t, results, 1)
	listing := results[0].(map[string]any)
	assert.Equal(t, json.Number("1234567890123"), listing["listing_id"])
	assert.Equal(t, "Mug", listing["title"])
}

func TestClient_Fetch_PermissionFallback(t *testing.T) {
	tests := []struct {
		name   string
		code   int
		body   string
		status int
	}{
		{name: "body 403", code: http.StatusBadRequest, body: `{"data":{"status":403}}`, status: 403},
		{name: "body 401", code: http.StatusUnauthorized, body: `{"data":{"status":401}}`, status: 401},
		{name: "http 403 无 body", code: http.StatusForbidden, body: ``, status: 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			res, err := newTestClient(srv.URL).Fetch(context.Background(), "/private/listings/1/images", nil, nil)
			require.NoError(t, err)
			assert.Equal(t, []any{}, res.Data)
			assert.Empty(t, res.Results())
		})
	}
}

func TestClient_Fetch_CustomFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"data":{"status":403}}`))
	}))
	defer srv.Close()

	fallback := map[string]any{"results": []any{}}
	res, err := newTestClient(srv.URL).Fetch(context.Background(), "/x", nil, fallback)
	require.NoError(t, err)
	assert.Equal(t, fallback, res.Data)
}

func TestClient_Fetch_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"data":{"status":500}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Fetch(context.Background(), "/shops/abc/listings/active", nil, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 500, apiErr.Status)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), srv.URL+"/shops/abc/listings/active")
	assert.NotContains(t, err.Error(), "secret-token")
}

func TestClient_Fetch_APIErrorUsesHTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Fetch(context.Background(), "/missing", nil, nil)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestClient_Fetch_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	_, err := newTestClient(baseURL).Fetch(context.Background(), "/shops/abc/listings/active", nil, nil)
	require.Error(t, err)

	var tErr *TransportError
	require.True(t, errors.As(err, &tErr))
	assert.NotEmpty(t, tErr.Code)
	assert.Equal(t, baseURL+"/shops/abc/listings/active", tErr.URL)
	assert.True(t, strings.HasPrefix(err.Error(), tErr.Code+" - "))
}

func TestClient_Fetch_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Fetch(context.Background(), "/x", nil, nil)
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestEndpointPaths(t *testing.T) {
	assert.Equal(t, "/shops/my%20shop/listings/active", ActiveListingsPath("my shop"))
	assert.Equal(t, "/private/listings/42/images", ListingImagesPath(json.Number("42")))
}

func TestResponse_ResultsNonObject(t *testing.T) {
	var nilRes *Response
	assert.Empty(t, nilRes.Results())
	assert.Empty(t, (&Response{Data: []any{}}).Results())
	assert.Empty(t, (&Response{Data: map[string]any{"results": "nope"}}).Results())
	assert.Equal(t, int64(0), (&Response{Data: "x"}).Count())
}
