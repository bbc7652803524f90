// Package clients содержит бизнес-логику работы с клиентами зала
// и их абонементами.
package clients

import (
	"context"
	"log/slog"
	"strings"

	"github.com/zhelezov/gym-dashboard/internal/api"
	"github.com/zhelezov/gym-dashboard/internal/models"
	"github.com/zhelezov/gym-dashboard/internal/querycache"
)

const (
	resource       = "clients"
	resourcePasses = "client-passes"
)

const (
	profilesPath = "/users/profiles/"
	passesPath   = "/scheduling/client-passes/"
)

// noActivePlan подставляется клиентам без действующего абонемента.
const noActivePlan = "No Active Plan"

// Service реализует операции над клиентами с кешированием списков.
type Service struct {
	api   *api.Client
	cache *querycache.Cache
	log   *slog.Logger
}

// New создает новый Service.
func New(apiClient *api.Client, cache *querycache.Cache, log *slog.Logger) *Service {
	return &Service{api: apiClient, cache: cache, log: log}
}

type wireProfile struct {
	Nickname     string  `json:"nickname"`
	Bio          string  `json:"bio"`
	ProfileImage *string `json:"profile_image"`
	PhoneNumber  string  `json:"phone_number"`
}

type wireUser struct {
	ID         string       `json:"id"`
	Email      string       `json:"email"`
	Role       string       `json:"role"`
	Profile    *wireProfile `json:"profile"`
	DateJoined string       `json:"date_joined"`
}

type wirePass struct {
	ID                string `json:"id"`
	Client            string `json:"client"`
	ClientName        string `json:"client_name"`
	ClientEmail       string `json:"client_email"`
	PricingOption     string `json:"pricing_option"`
	PricingOptionName string `json:"pricing_option_name"`
	CreditsRemaining  int    `json:"credits_remaining"`
	StartDate         string `json:"start_date"`
	ExpiryDate        string `json:"expiry_date"`
	IsActive          bool   `json:"is_active"`
	CreatedAt         string `json:"created_at"`
}

// mapUserToClient переводит backend-пользователя в доменного клиента.
func mapUserToClient(u wireUser, membershipName string) models.Client {
	client := models.Client{
		ID:             u.ID,
		Email:          u.Email,
		Status:         models.ClientStatusActive,
		MembershipName: membershipName,
		JoinDate:       u.DateJoined,
		// Отдельного трекинга визитов на backend нет
		LastVisit: u.DateJoined,
	}
	if client.MembershipName == "" {
		client.MembershipName = noActivePlan
	}
	if u.Profile == nil {
		return client
	}

	parts := strings.Fields(u.Profile.Nickname)
	if len(parts) > 0 {
		client.FirstName = parts[0]
		client.LastName = strings.Join(parts[1:], " ")
	}
	client.Phone = u.Profile.PhoneNumber
	if u.Profile.ProfileImage != nil {
		client.Avatar = *u.Profile.ProfileImage
	}
	return client
}

// mapPass переводит backend-абонемент в доменный.
func mapPass(p wirePass) models.ClientPass {
	name := p.PricingOptionName
	if name == "" {
		name = "Unknown Plan"
	}
	return models.ClientPass{
		ID:                p.ID,
		PricingOptionID:   p.PricingOption,
		PricingOptionName: name,
		SessionsRemaining: p.CreditsRemaining,
		ExpiresAt:         p.ExpiryDate,
		IsActive:          p.IsActive,
	}
}

// List возвращает всех клиентов зала.
func (s *Service) List(ctx context.Context) ([]models.Client, error) {
	key := querycache.ListKey(resource)
	return querycache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) ([]models.Client, error) {
		list, err := api.Get[api.List[wireUser]](ctx, s.api, profilesPath)
		if err != nil {
			return nil, err
		}

		clients := make([]models.Client, 0, len(list.Results))
		for _, u := range list.Results {
			if u.Role != "client" {
				continue
			}
			clients = append(clients, mapUserToClient(u, ""))
		}
		return clients, nil
	})
}

// Passes возвращает абонементы клиента.
func (s *Service) Passes(ctx context.Context, clientID string) ([]models.ClientPass, error) {
	key := querycache.ListKey(resourcePasses, "client="+clientID)
	return querycache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) ([]models.ClientPass, error) {
		list, err := api.Get[api.List[wirePass]](ctx, s.api, passesPath+"?client="+clientID)
		if err != nil {
			return nil, err
		}

		passes := make([]models.ClientPass, 0, len(list.Results))
		for _, p := range list.Results {
			passes = append(passes, mapPass(p))
		}
		return passes, nil
	})
}

// AssignPass выдаёт клиенту абонемент и инвалидирует затронутые списки.
func (s *Service) AssignPass(ctx context.Context, req models.DummyAssignPass) error {
	_, err := api.Post[map[string]any](ctx, s.api, passesPath, map[string]string{
		"client":         req.ClientID,
		"pricing_option": req.PricingOptionID,
	})
	if err != nil {
		return err
	}

	s.cache.InvalidateLists(resourcePasses)
	s.cache.InvalidateLists(resource)
	s.log.Info("pass assigned",
		slog.String("client_id", req.ClientID),
		slog.String("pricing_option_id", req.PricingOptionID))
	return nil
}

// GetWithPasses возвращает клиента вместе с его абонементами.
// Название членства берётся из первого активного абонемента.
func (s *Service) GetWithPasses(ctx context.Context, clientID string) (*models.ClientWithPasses, error) {
	passes, err := s.Passes(ctx, clientID)
	if err != nil {
		return nil, err
	}

	key := querycache.DetailKey(resource, clientID)
	result, err := querycache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) (models.Client, error) {
		u, err := api.Get[wireUser](ctx, s.api, profilesPath+clientID+"/")
		if err != nil {
			return models.Client{}, err
		}
		return mapUserToClient(u, ""), nil
	})
	if err != nil {
		return nil, err
	}

	for _, p := range passes {
		if p.IsActive {
			result.MembershipName = p.PricingOptionName
			break
		}
	}

	return &models.ClientWithPasses{Client: result, Passes: passes}, nil
}
