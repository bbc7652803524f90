package clients

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhelezov/gym-dashboard/internal/api"
	"github.com/zhelezov/gym-dashboard/internal/models"
	"github.com/zhelezov/gym-dashboard/internal/querycache"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newService(t *testing.T, handler http.Handler) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := api.New(srv.URL, 5*time.Second, nil, testLogger())
	return New(client, querycache.New(testLogger()), testLogger())
}

func TestList_FiltersOutNonClients(t *testing.T) {
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":2,"results":[
			{"id":"c1","email":"c1@ex.com","role":"client","profile":{"nickname":"Мария Орлова","phone_number":"+7911"},"date_joined":"2024-04-01"},
			{"id":"t1","email":"t1@ex.com","role":"trainer","profile":{"nickname":"Тренер"},"date_joined":"2024-04-02"}
		]}`))
	}))

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)

	c := got[0]
	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, "Мария", c.FirstName)
	assert.Equal(t, "Орлова", c.LastName)
	assert.Equal(t, "+7911", c.Phone)
	assert.Equal(t, noActivePlan, c.MembershipName)
	assert.Equal(t, models.ClientStatusActive, c.Status)
}

func TestPasses_Mapping(t *testing.T) {
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "c1", r.URL.Query().Get("client"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"p1","client":"c1","pricing_option":"po1","pricing_option_name":"Gold","credits_remaining":7,"expiry_date":"2025-01-01","is_active":true},
			{"id":"p2","client":"c1","pricing_option":"po2","credits_remaining":0,"expiry_date":"2024-01-01","is_active":false}
		]`))
	}))

	got, err := svc.Passes(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Gold", got[0].PricingOptionName)
	assert.Equal(t, 7, got[0].SessionsRemaining)
	assert.True(t, got[0].IsActive)
	// Пустое имя тарифа деградирует до заглушки
	assert.Equal(t, "Unknown Plan", got[1].PricingOptionName)
}

func TestGetWithPasses_MembershipFromFirstActivePass(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /scheduling/client-passes/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"p0","pricing_option":"po0","pricing_option_name":"Expired","is_active":false},
			{"id":"p1","pricing_option":"po1","pricing_option_name":"Gold","is_active":true}
		]`))
	})
	mux.HandleFunc("GET /users/profiles/c1/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","email":"c1@ex.com","role":"client","profile":{"nickname":"Мария Орлова"},"date_joined":"2024-04-01"}`))
	})
	svc := newService(t, mux)

	got, err := svc.GetWithPasses(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "Gold", got.Client.MembershipName)
	assert.Len(t, got.Passes, 2)
}

func TestAssignPass_SendsWirePayloadAndInvalidates(t *testing.T) {
	listCalls := 0

	mux := http.NewServeMux()
	mux.HandleFunc("GET /scheduling/client-passes/", func(w http.ResponseWriter, _ *http.Request) {
		listCalls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})
	mux.HandleFunc("POST /scheduling/client-passes/", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "c1", payload["client"])
		assert.Equal(t, "po1", payload["pricing_option"])
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"p9"}`))
	})
	svc := newService(t, mux)

	_, err := svc.Passes(context.Background(), "c1")
	require.NoError(t, err)

	err = svc.AssignPass(context.Background(), models.DummyAssignPass{
		ClientID: "c1", PricingOptionID: "po1",
	})
	require.NoError(t, err)

	// Выдача абонемента инвалидирует списки абонементов
	_, err = svc.Passes(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, listCalls)
}
