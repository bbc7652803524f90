// Package staff содержит бизнес-логику работы с сотрудниками зала.
//
// Сервис ходит к backend через api.Client и переводит его snake_case-схему
// в доменные структуры дашборда и обратно. Частичные записи backend-а
// деградируют до пустых значений, а не до ошибок.
package staff

import (
	"context"
	"log/slog"
	"strings"

	"github.com/zhelezov/gym-dashboard/internal/api"
	"github.com/zhelezov/gym-dashboard/internal/models"
	"github.com/zhelezov/gym-dashboard/internal/querycache"
)

const resource = "staff"

const profilesPath = "/users/profiles/"

// defaultPassword подставляется при создании сотрудника без пароля:
// backend требует пароль всегда.
const defaultPassword = "TempPassword123!"

// Service реализует операции над сотрудниками с кешированием списков.
type Service struct {
	api   *api.Client
	cache *querycache.Cache
	log   *slog.Logger
}

// New создает новый Service.
func New(apiClient *api.Client, cache *querycache.Cache, log *slog.Logger) *Service {
	return &Service{api: apiClient, cache: cache, log: log}
}

// List возвращает сотрудников (тренеров и менеджеров) с учётом фильтров.
// Фильтры применяются после маппинга: backend отдаёт профили без них.
func (s *Service) List(ctx context.Context, filter models.StaffFilter) ([]models.StaffMember, error) {
	key := querycache.ListKey(resource, filterPairs(filter)...)
	return querycache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) ([]models.StaffMember, error) {
		list, err := api.Get[api.List[wireUser]](ctx, s.api, profilesPath)
		if err != nil {
			return nil, err
		}

		staff := make([]models.StaffMember, 0, len(list.Results))
		for _, u := range list.Results {
			if u.Role != wireRoleTrainer && u.Role != wireRoleManager {
				continue
			}
			member := mapUserToStaff(u)
			if filter.Role != "" && member.Role != filter.Role {
				continue
			}
			if filter.Status != "" && member.Status != filter.Status {
				continue
			}
			staff = append(staff, member)
		}
		return staff, nil
	})
}

// Get возвращает сотрудника по ID.
func (s *Service) Get(ctx context.Context, id string) (*models.StaffMember, error) {
	key := querycache.DetailKey(resource, id)
	member, err := querycache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) (models.StaffMember, error) {
		u, err := api.Get[wireUser](ctx, s.api, profilesPath+id+"/")
		if err != nil {
			return models.StaffMember{}, err
		}
		return mapUserToStaff(u), nil
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Create создает сотрудника через админский эндпоинт create_staff
// и инвалидирует списочные ключи.
func (s *Service) Create(ctx context.Context, req models.DummyStaff) (*models.StaffMember, error) {
	password := req.Password
	if password == "" {
		password = defaultPassword
	}
	payload := wireCreateStaff{
		Email:    req.Email,
		Password: password,
		Role:     mapRoleToWire(models.StaffRole(req.Role)),
		Nickname: strings.TrimSpace(req.FirstName + " " + req.LastName),
		Bio:      req.Bio,
	}

	u, err := api.Post[wireUser](ctx, s.api, profilesPath+"create_staff/", payload)
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateLists(resource)
	member := mapUserToStaff(u)
	s.log.Info("staff member created", slog.String("id", member.ID))
	return &member, nil
}

// Update частично обновляет профиль сотрудника, инвалидирует списки
// и кладёт свежую карточку в кеш, чтобы не ходить за ней повторно.
func (s *Service) Update(ctx context.Context, id string, req models.DummyStaffUpdate) (*models.StaffMember, error) {
	payload := wireUpdateStaff{}
	if req.FirstName != "" || req.LastName != "" {
		nickname := strings.TrimSpace(req.FirstName + " " + req.LastName)
		if nickname != "" {
			payload.ensureProfile().Nickname = &nickname
		}
	}
	if req.Bio != "" {
		payload.ensureProfile().Bio = &req.Bio
	}

	u, err := api.Patch[wireUser](ctx, s.api, profilesPath+id+"/", payload)
	if err != nil {
		return nil, err
	}

	member := mapUserToStaff(u)
	s.cache.InvalidateLists(resource)
	s.cache.Seed(querycache.DetailKey(resource, member.ID), member)
	s.log.Info("staff member updated", slog.String("id", member.ID))
	return &member, nil
}

// Delete удаляет сотрудника и инвалидирует его ключи.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, profilesPath+id+"/"); err != nil {
		return err
	}
	s.cache.InvalidateLists(resource)
	s.cache.Invalidate(querycache.DetailKey(resource, id))
	s.log.Info("staff member deleted", slog.String("id", id))
	return nil
}

// filterPairs превращает фильтр в стабильный набор пар для ключа кеша.
func filterPairs(filter models.StaffFilter) []string {
	var pairs []string
	if filter.Role != "" {
		pairs = append(pairs, "role="+string(filter.Role))
	}
	if filter.Status != "" {
		pairs = append(pairs, "status="+string(filter.Status))
	}
	return pairs
}
