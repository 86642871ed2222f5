package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dimitrov9812/car-listing-api/internal/cars"
	"github.com/dimitrov9812/car-listing-api/internal/http/router"
	"github.com/dimitrov9812/car-listing-api/internal/storage/memory"
	"github.com/dimitrov9812/car-listing-api/internal/types"
	"github.com/dimitrov9812/car-listing-api/internal/validation"
)

const key = "cars"

func setup(t *testing.T) (*httptest.Server, *memory.Memory) {
	t.Helper()
	m := memory.New()
	ts := httptest.NewServer(router.New(cars.New(m, key), []string{"*"}))
	t.Cleanup(ts.Close)
	return ts, m
}

func civic() map[string]any {
	features := map[string]any{}
	for _, f := range types.FeatureFlags {
		features[f] = false
	}
	return map[string]any{
		"make":     "Honda",
		"model":    "Civic",
		"price":    20000,
		"type":     "sedan",
		"features": features,
		"pictures": []any{},
		"publisher": map[string]any{
			"firstName":      "Ana",
			"lastName":       "Petrova",
			"displayName":    "ana.p",
			"phone":          "+359 88 123 4567",
			"address":        "1 Vitosha Blvd, Sofia",
			"profilePicture": "https://example.com/ana.png",
		},
	}
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	ts, _ := setup(t)

	resp := do(t, http.MethodGet, ts.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"status": "ok"}, decode[map[string]any](t, resp))
}

func TestCivicLifecycle(t *testing.T) {
	ts, _ := setup(t)
	start := time.Now().UTC().Truncate(time.Millisecond)

	// POST /cars
	resp := do(t, http.MethodPost, ts.URL+"/cars", civic())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	created := decode[map[string]any](t, resp)

	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	published, err := time.Parse(time.RFC3339Nano, created["datePublished"].(string))
	require.NoError(t, err)
	assert.False(t, published.Before(start))
	assert.Equal(t, "Honda", created["make"])
	assert.Equal(t, float64(20000), created["price"])

	// GET /cars/{id} returns the identical object
	resp = do(t, http.MethodGet, ts.URL+"/cars/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created, decode[map[string]any](t, resp))

	// PUT /cars/{id} changes only price
	resp = do(t, http.MethodPut, ts.URL+"/cars/"+id, map[string]any{"price": 21000})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[map[string]any](t, resp)
	want := map[string]any{}
	for k, v := range created {
		want[k] = v
	}
	want["price"] = float64(21000)
	assert.Equal(t, want, updated)

	// GET /cars lists it
	resp = do(t, http.MethodGet, ts.URL+"/cars", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{want}, decode[[]any](t, resp))

	// DELETE /cars/{id}
	resp = do(t, http.MethodDelete, ts.URL+"/cars/"+id, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Empty(t, body)

	// GET /cars/{id} is gone
	resp = do(t, http.MethodGet, ts.URL+"/cars/"+id, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, map[string]any{"error": "Car not found"}, decode[map[string]any](t, resp))
}

func TestListEmptyIsArray(t *testing.T) {
	ts, _ := setup(t)

	resp := do(t, http.MethodGet, ts.URL+"/cars", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(body))
}

func TestCreateRejections(t *testing.T) {
	ts, m := setup(t)

	missingMake := civic()
	delete(missingMake, "make")

	features19 := civic()
	delete(features19["features"].(map[string]any), "sunroof")

	features21 := civic()
	features21["features"].(map[string]any)["hovercraftMode"] = false

	badPublisher := civic()
	badPublisher["publisher"] = map[string]any{"firstName": "Ana"}

	withID := civic()
	withID["id"] = "mine"

	for name, tc := range map[string]struct {
		body any
		msg  string
	}{
		"missing key":    {missingMake, validation.MsgInvalidCar},
		"extra id key":   {withID, validation.MsgInvalidCar},
		"19 features":    {features19, validation.MsgInvalidFeatures},
		"21 features":    {features21, validation.MsgInvalidFeatures},
		"bad publisher":  {badPublisher, validation.MsgInvalidPublisher},
		"array":          {[]any{civic()}, validation.MsgInvalidCar},
		"null":           {"null", validation.MsgInvalidCar},
		"empty object":   {map[string]any{}, validation.MsgInvalidCar},
		"scalar body":    {"42", validation.MsgInvalidCar},
		"empty body":     {"", "request body is empty"},
	} {
		t.Run(name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/cars", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, map[string]any{"error": tc.msg}, decode[map[string]any](t, resp))
		})
	}

	_, saved := m.Raw(key)
	assert.False(t, saved, "rejected creates must not touch storage")
}

func TestCreateMalformedJSON(t *testing.T) {
	ts, _ := setup(t)

	resp := do(t, http.MethodPost, ts.URL+"/cars", `{"make": "Honda",`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, decode[map[string]any](t, resp)["error"])
}

func TestGetUnknownID(t *testing.T) {
	ts, _ := setup(t)

	resp := do(t, http.MethodGet, ts.URL+"/cars/never-created", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, map[string]any{"error": "Car not found"}, decode[map[string]any](t, resp))
}

func TestUpdateUnknownIDLeavesCollection(t *testing.T) {
	ts, m := setup(t)

	resp := do(t, http.MethodPost, ts.URL+"/cars", civic())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	before, _ := m.Raw(key)

	resp = do(t, http.MethodPut, ts.URL+"/cars/nope", map[string]any{"price": 1})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, map[string]any{"error": "Car not found"}, decode[map[string]any](t, resp))

	after, _ := m.Raw(key)
	assert.Equal(t, before, after)
}

func TestUpdateBadBodies(t *testing.T) {
	ts, _ := setup(t)

	resp := do(t, http.MethodPost, ts.URL+"/cars", civic())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := decode[map[string]any](t, resp)["id"].(string)

	for name, body := range map[string]any{
		"array":  []any{1},
		"null":   "null",
		"string": `"price"`,
		"empty":  "",
	} {
		t.Run(name, func(t *testing.T) {
			resp := do(t, http.MethodPut, ts.URL+"/cars/"+id, body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestUpdateCannotChangeIdentity(t *testing.T) {
	ts, _ := setup(t)

	resp := do(t, http.MethodPost, ts.URL+"/cars", civic())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[map[string]any](t, resp)
	id := created["id"].(string)

	resp = do(t, http.MethodPut, ts.URL+"/cars/"+id, map[string]any{
		"id":            "other",
		"datePublished": "2000-01-01T00:00:00.000Z",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created, decode[map[string]any](t, resp))
}

func TestDeleteUnknownID(t *testing.T) {
	ts, m := setup(t)

	resp := do(t, http.MethodPost, ts.URL+"/cars", civic())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, http.MethodDelete, ts.URL+"/cars/nope", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	list, err := m.Load(context.Background(), key)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCORSHeaders(t *testing.T) {
	ts, _ := setup(t)

	resp := do(t, http.MethodOptions, ts.URL+"/cars", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	resp = do(t, http.MethodGet, ts.URL+"/cars", nil)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestMethodNotAllowed(t *testing.T) {
	ts, _ := setup(t)

	resp := do(t, http.MethodPatch, ts.URL+"/cars/1", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
