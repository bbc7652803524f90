// Package pricing содержит бизнес-логику работы с тарифами зала.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/zhelezov/gym-dashboard/internal/api"
	"github.com/zhelezov/gym-dashboard/internal/models"
	"github.com/zhelezov/gym-dashboard/internal/querycache"
)

const resource = "pricing"

const optionsPath = "/scheduling/pricing-options/"

// ErrArchiveUnsupported возвращается операцией Archive: у backend-а
// нет признака активности тарифа, мягкое архивирование невозможно.
var ErrArchiveUnsupported = errors.New("pricing option archive is not supported by the backend")

// unlimitedCredits порог, с которого пакет считается безлимитным членством.
const unlimitedCredits = 999

// defaultValidityDays подставляется тарифам без duration_days.
const defaultValidityDays = 30

// Service реализует операции над тарифами с кешированием списков.
type Service struct {
	api   *api.Client
	cache *querycache.Cache
	log   *slog.Logger
}

// New создает новый Service.
func New(apiClient *api.Client, cache *querycache.Cache, log *slog.Logger) *Service {
	return &Service{api: apiClient, cache: cache, log: log}
}

type wireOption struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Price           string  `json:"price"`
	SessionCredits  int     `json:"session_credits"`
	DurationDays    *int    `json:"duration_days"`
	FixedStartDate  *string `json:"fixed_start_date"`
	FixedExpiryDate *string `json:"fixed_expiry_date"`
	CreatedAt       string  `json:"created_at"`
}

type wireCreateOption struct {
	Name           string `json:"name"`
	Price          string `json:"price"`
	SessionCredits int    `json:"session_credits"`
	DurationDays   int    `json:"duration_days,omitempty"`
}

type wireUpdateOption struct {
	Name           *string `json:"name,omitempty"`
	Price          *string `json:"price,omitempty"`
	SessionCredits *int    `json:"session_credits,omitempty"`
	DurationDays   *int    `json:"duration_days,omitempty"`
}

// mapOptionToPlan переводит backend-тариф в доменный план.
// Цена приходит десятичной строкой; нечитаемая цена деградирует до нуля.
func mapOptionToPlan(o wireOption) models.PricingPlan {
	price, err := strconv.ParseFloat(o.Price, 64)
	if err != nil {
		price = 0
	}

	validityDays := defaultValidityDays
	if o.DurationDays != nil && *o.DurationDays > 0 {
		validityDays = *o.DurationDays
	}

	planType := models.PlanTypeClassPack
	if o.SessionCredits == 0 || o.SessionCredits >= unlimitedCredits {
		planType = models.PlanTypeMembership
	}

	return models.PricingPlan{
		ID:           o.ID,
		Name:         o.Name,
		Description:  fmt.Sprintf("%d sessions, valid for %d days", o.SessionCredits, validityDays),
		Type:         planType,
		Price:        price,
		BillingCycle: billingCycle(o.DurationDays),
		MaxClasses:   o.SessionCredits,
		ValidityDays: validityDays,
		Features: []string{
			fmt.Sprintf("%d session credits", o.SessionCredits),
			fmt.Sprintf("Valid for %d days", validityDays),
		},
		IsActive:  true,
		CreatedAt: o.CreatedAt,
	}
}

// billingCycle выводит период оплаты из длительности тарифа в днях.
func billingCycle(durationDays *int) models.BillingCycle {
	if durationDays == nil || *durationDays <= 0 {
		return models.BillingOneTime
	}
	switch d := *durationDays; {
	case d <= 31:
		return models.BillingMonthly
	case d <= 93:
		return models.BillingQuarterly
	case d >= 360:
		return models.BillingYearly
	default:
		return models.BillingOneTime
	}
}

// formatPrice сериализует цену в десятичную строку backend-а.
func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', 2, 64)
}

// List возвращает все тарифы.
func (s *Service) List(ctx context.Context) ([]models.PricingPlan, error) {
	key := querycache.ListKey(resource)
	return querycache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) ([]models.PricingPlan, error) {
		list, err := api.Get[api.List[wireOption]](ctx, s.api, optionsPath)
		if err != nil {
			return nil, err
		}

		plans := make([]models.PricingPlan, 0, len(list.Results))
		for _, o := range list.Results {
			plans = append(plans, mapOptionToPlan(o))
		}
		return plans, nil
	})
}

// Get возвращает тариф по ID.
func (s *Service) Get(ctx context.Context, id string) (*models.PricingPlan, error) {
	key := querycache.DetailKey(resource, id)
	plan, err := querycache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) (models.PricingPlan, error) {
		o, err := api.Get[wireOption](ctx, s.api, optionsPath+id+"/")
		if err != nil {
			return models.PricingPlan{}, err
		}
		return mapOptionToPlan(o), nil
	})
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// Create создает тариф и инвалидирует списочные ключи.
func (s *Service) Create(ctx context.Context, req models.DummyPlan) (*models.PricingPlan, error) {
	validityDays := req.ValidityDays
	if validityDays == 0 {
		validityDays = defaultValidityDays
	}
	payload := wireCreateOption{
		Name:           req.Name,
		Price:          formatPrice(req.Price),
		SessionCredits: req.MaxClasses,
		DurationDays:   validityDays,
	}

	o, err := api.Post[wireOption](ctx, s.api, optionsPath, payload)
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateLists(resource)
	plan := mapOptionToPlan(o)
	s.log.Info("pricing option created", slog.String("id", plan.ID))
	return &plan, nil
}

// Update частично обновляет тариф, инвалидирует списки и сеет карточку.
func (s *Service) Update(ctx context.Context, id string, req models.DummyPlanUpdate) (*models.PricingPlan, error) {
	payload := wireUpdateOption{
		Name:           req.Name,
		SessionCredits: req.MaxClasses,
		DurationDays:   req.ValidityDays,
	}
	if req.Price != nil {
		price := formatPrice(*req.Price)
		payload.Price = &price
	}

	o, err := api.Patch[wireOption](ctx, s.api, optionsPath+id+"/", payload)
	if err != nil {
		return nil, err
	}

	plan := mapOptionToPlan(o)
	s.cache.InvalidateLists(resource)
	s.cache.Seed(querycache.DetailKey(resource, plan.ID), plan)
	s.log.Info("pricing option updated", slog.String("id", plan.ID))
	return &plan, nil
}

// Delete удаляет тариф и инвалидирует его ключи.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, optionsPath+id+"/"); err != nil {
		return err
	}
	s.cache.InvalidateLists(resource)
	s.cache.Invalidate(querycache.DetailKey(resource, id))
	s.log.Info("pricing option deleted", slog.String("id", id))
	return nil
}

// Archive намеренно не реализован: backend не хранит признак активности,
// а имитировать архив повторным чтением карточки — значит врать вызывающему.
func (s *Service) Archive(_ context.Context, id string) error {
	s.log.Warn("archive requested for pricing option", slog.String("id", id))
	return ErrArchiveUnsupported
}
