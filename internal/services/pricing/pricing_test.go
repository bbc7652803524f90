package pricing

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhelezov/gym-dashboard/internal/api"
	"github.com/zhelezov/gym-dashboard/internal/models"
	"github.com/zhelezov/gym-dashboard/internal/querycache"
)

type staticToken string

func (t staticToken) AccessToken() string { return string(t) }

func newTestService(t *testing.T, handler http.Handler) (*Service, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := api.New(srv.URL, 5*time.Second, staticToken("T1"), log)
	return New(client, querycache.New(log), log), srv
}

const wireOptionsJSON = `[
  {"id": "p1", "name": "Monthly Unlimited", "price": "79.99", "session_credits": 999,
   "duration_days": 30, "created_at": "2025-01-10T00:00:00Z"},
  {"id": "p2", "name": "10 Class Pack", "price": "120.00", "session_credits": 10,
   "duration_days": 90, "created_at": "2025-02-01T00:00:00Z"},
  {"id": "p3", "name": "Annual", "price": "799.00", "session_credits": 0,
   "duration_days": 365, "created_at": "2025-03-01T00:00:00Z"},
  {"id": "p4", "name": "Drop In", "price": "broken", "session_credits": 1,
   "duration_days": null, "created_at": "2025-04-01T00:00:00Z"}
]`

func TestList_Mapping(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /scheduling/pricing-options/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(wireOptionsJSON))
	})

	svc, _ := newTestService(t, mux)

	plans, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 4)

	cases := []struct {
		name  string
		plan  models.PricingPlan
		typ   models.PlanType
		cycle models.BillingCycle
		price float64
		days  int
	}{
		{"безлимит по кредитам это членство", plans[0], models.PlanTypeMembership, models.BillingMonthly, 79.99, 30},
		{"конечные кредиты это пакет занятий", plans[1], models.PlanTypeClassPack, models.BillingQuarterly, 120.00, 90},
		{"нулевые кредиты это членство", plans[2], models.PlanTypeMembership, models.BillingYearly, 799.00, 365},
		{"битая цена деградирует до нуля", plans[3], models.PlanTypeClassPack, models.BillingOneTime, 0, 30},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.typ, tc.plan.Type)
			assert.Equal(t, tc.cycle, tc.plan.BillingCycle)
			assert.Equal(t, tc.price, tc.plan.Price)
			assert.Equal(t, tc.days, tc.plan.ValidityDays)
			assert.True(t, tc.plan.IsActive)
		})
	}
}

func TestBillingCycle(t *testing.T) {
	days := func(d int) *int { return &d }

	cases := []struct {
		name string
		in   *int
		want models.BillingCycle
	}{
		{"без длительности", nil, models.BillingOneTime},
		{"месяц", days(30), models.BillingMonthly},
		{"граница месяца", days(31), models.BillingMonthly},
		{"квартал", days(90), models.BillingQuarterly},
		{"год", days(365), models.BillingYearly},
		{"полгода не попадает ни в один период", days(180), models.BillingOneTime},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, billingCycle(tc.in))
		})
	}
}

func TestCreate_SendsDecimalPriceAndInvalidates(t *testing.T) {
	var listCalls int
	var created wireCreateOption

	mux := http.NewServeMux()
	mux.HandleFunc("GET /scheduling/pricing-options/", func(w http.ResponseWriter, r *http.Request) {
		listCalls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})
	mux.HandleFunc("POST /scheduling/pricing-options/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "p9", "name": "New Pack", "price": "45.50",
			"session_credits": 5, "duration_days": 30, "created_at": "2025-05-01T00:00:00Z"}`))
	})

	svc, _ := newTestService(t, mux)

	_, err := svc.List(context.Background())
	require.NoError(t, err)

	plan, err := svc.Create(context.Background(), models.DummyPlan{
		Name:       "New Pack",
		Price:      45.5,
		MaxClasses: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "45.50", created.Price)
	assert.Equal(t, defaultValidityDays, created.DurationDays)
	assert.Equal(t, "p9", plan.ID)

	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, listCalls)
}

func TestUpdate_SeedsDetail(t *testing.T) {
	var detailCalls int

	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /scheduling/pricing-options/p1/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "p1", "name": "Renamed", "price": "79.99",
			"session_credits": 999, "duration_days": 30, "created_at": "2025-01-10T00:00:00Z"}`))
	})
	mux.HandleFunc("GET /scheduling/pricing-options/p1/", func(w http.ResponseWriter, r *http.Request) {
		detailCalls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "p1"}`))
	})

	svc, _ := newTestService(t, mux)

	name := "Renamed"
	updated, err := svc.Update(context.Background(), "p1", models.DummyPlanUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	got, err := svc.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, 0, detailCalls)
}

func TestArchive_Unsupported(t *testing.T) {
	svc, _ := newTestService(t, http.NewServeMux())

	err := svc.Archive(context.Background(), "p1")
	assert.ErrorIs(t, err, ErrArchiveUnsupported)
}
