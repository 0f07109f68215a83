package suppliers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/meridian/internal/observability"
)

func newTestServer(t *testing.T) (*httptest.Server, *memoryRepo) {
	t.Helper()
	repo := newMemoryRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, NewService(repo, nil), observability.NewMetrics())

	r := chi.NewRouter()
	r.Route("/suppliers", handler.MountRoutes)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, repo
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestListSuppliersEmpty(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/suppliers")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.JSONEq(t, "[]", string(body))
}

func TestCreateAndGetSupplier(t *testing.T) {
	srv, _ := newTestServer(t)
	supplier := patrickStar(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/suppliers", supplier)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "/suppliers/"+supplier.ID.String(), resp.Header.Get("Location"))

	var created Supplier
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.Equal(t, supplier, created)

	getResp, err := http.Get(srv.URL + "/suppliers/" + supplier.ID.String())
	require.NoError(t, err)
	defer getResp.Body.Close()

	require.Equal(t, http.StatusOK, getResp.StatusCode)
	var fetched Supplier
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&fetched))
	require.Equal(t, supplier, fetched)
}

func TestCreateSupplierValidationFailure(t *testing.T) {
	srv, repo := newTestServer(t)
	supplier := patrickStar(t)
	supplier.Phones = []Phone{{ID: mustID(t, "03"), PhoneNumber: "12345678901"}}

	resp := doJSON(t, http.MethodPost, srv.URL+"/suppliers", supplier)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var failure struct {
		Errors map[string][]string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&failure))
	require.Equal(t,
		[]string{"Phone number is invalid. Must be only numbers and a max of 10 digits"},
		failure.Errors["phones[0].phoneNumber"])
	require.Empty(t, repo.store)
}

func TestCreateSupplierReportsEveryFailure(t *testing.T) {
	srv, _ := newTestServer(t)
	activation := time.Date(2030, 6, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))
	supplier := patrickStar(t)
	supplier.ActivationDate = &activation
	supplier.Emails = []Email{{ID: mustID(t, "02"), EmailAddress: "broken"}}
	supplier.Phones = []Phone{{ID: mustID(t, "03"), PhoneNumber: "abc"}}

	resp := doJSON(t, http.MethodPost, srv.URL+"/suppliers", supplier)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var failure struct {
		Errors map[string][]string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&failure))
	require.Len(t, failure.Errors, 3)
	require.Contains(t, failure.Errors, "emails[0].emailAddress")
	require.Contains(t, failure.Errors, "phones[0].phoneNumber")
	require.Contains(t, failure.Errors, "activationDate")
}

func TestCreateDuplicateSupplier(t *testing.T) {
	srv, _ := newTestServer(t)
	supplier := patrickStar(t)

	first := doJSON(t, http.MethodPost, srv.URL+"/suppliers", supplier)
	first.Body.Close()
	require.Equal(t, http.StatusCreated, first.StatusCode)

	second := doJSON(t, http.MethodPost, srv.URL+"/suppliers", supplier)
	defer second.Body.Close()
	require.Equal(t, http.StatusConflict, second.StatusCode)
}

func TestGetSupplierNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/suppliers/00000000-0000-0000-0000-0000000000ff")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetSupplierInvalidID(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/suppliers/not-a-uuid")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteInactiveSupplier(t *testing.T) {
	srv, repo := newTestServer(t)
	supplier := patrickStar(t)

	created := doJSON(t, http.MethodPost, srv.URL+"/suppliers", supplier)
	created.Body.Close()

	resp := doJSON(t, http.MethodDelete, srv.URL+"/suppliers/"+supplier.ID.String(), nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var deleted Supplier
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&deleted))
	require.Equal(t, supplier, deleted)
	require.Empty(t, repo.store)
}

func TestDeleteActiveSupplierBlocked(t *testing.T) {
	srv, repo := newTestServer(t)
	supplier := patrickStar(t)
	activation := time.Now().UTC().AddDate(0, 0, 1).Truncate(time.Second)
	supplier.ActivationDate = &activation

	created := doJSON(t, http.MethodPost, srv.URL+"/suppliers", supplier)
	created.Body.Close()
	require.Equal(t, http.StatusCreated, created.StatusCode)

	resp := doJSON(t, http.MethodDelete, srv.URL+"/suppliers/"+supplier.ID.String(), nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), "Supplier is active and cannot be deleted"))
	require.Len(t, repo.store, 1)
}

func TestDeleteMissingSupplierAnswersOK(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodDelete, srv.URL+"/suppliers/00000000-0000-0000-0000-0000000000ff", nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "null", strings.TrimSpace(string(body)))
}
