package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"karma-light/internal/delivery"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeWarehouseLookup returns canned warehouses or an error
type fakeWarehouseLookup struct {
	warehouses []delivery.Warehouse
	err        error
	gotCity    string
}

func (f *fakeWarehouseLookup) Warehouses(_ context.Context, city string) ([]delivery.Warehouse, error) {
	f.gotCity = city
	return f.warehouses, f.err
}

func newDeliveryTestServer(t *testing.T, lookup WarehouseLookup) *httptest.Server {
	t.Helper()

	handler := NewDeliveryHandler(lookup, zap.NewNop())
	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestWarehousesLookup(t *testing.T) {
	lookup := &fakeWarehouseLookup{warehouses: []delivery.Warehouse{
		{ID: "wh-1", Name: "Відділення №1"},
	}}
	srv := newDeliveryTestServer(t, lookup)

	resp, err := http.Get(srv.URL + "/delivery/warehouses?city=Київ")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Warehouses []delivery.Warehouse `json:"warehouses"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Warehouses, 1)
	assert.Equal(t, "wh-1", body.Warehouses[0].ID)
	assert.Equal(t, "Київ", lookup.gotCity)
}

func TestWarehousesUpstreamFailureDegradesToEmptyList(t *testing.T) {
	lookup := &fakeWarehouseLookup{err: errors.New("breaker open")}
	srv := newDeliveryTestServer(t, lookup)

	resp, err := http.Get(srv.URL + "/delivery/warehouses?city=Київ")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Warehouses []delivery.Warehouse `json:"warehouses"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body.Warehouses)
}

func TestWarehousesRequiresCity(t *testing.T) {
	srv := newDeliveryTestServer(t, &fakeWarehouseLookup{})

	resp, err := http.Get(srv.URL + "/delivery/warehouses")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp2, err := http.Get(srv.URL + "/delivery/warehouses?city=%20%20")
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}
