// Package schedule содержит бизнес-логику расписания занятий.
package schedule

import (
	"context"
	"log/slog"
	"time"

	"github.com/zhelezov/gym-dashboard/internal/api"
	"github.com/zhelezov/gym-dashboard/internal/models"
	"github.com/zhelezov/gym-dashboard/internal/querycache"
)

const resource = "schedule"

const sessionsPath = "/scheduling/sessions/"

// weekDays длина окна недельной выборки расписания.
const weekDays = 7

// Service реализует CRUD занятий с кешированием и недельной фильтрацией.
type Service struct {
	api   *api.Client
	cache *querycache.Cache
	log   *slog.Logger
}

// New создает новый Service.
func New(apiClient *api.Client, cache *querycache.Cache, log *slog.Logger) *Service {
	return &Service{api: apiClient, cache: cache, log: log}
}

// List возвращает все занятия.
func (s *Service) List(ctx context.Context) ([]models.ClassSession, error) {
	key := querycache.ListKey(resource)
	return querycache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) ([]models.ClassSession, error) {
		return s.fetch(ctx, sessionsPath)
	})
}

// ListWeek возвращает занятия за неделю, начинающуюся с weekStart.
// Фильтрация делается на стороне backend-а полуоткрытым интервалом дат.
func (s *Service) ListWeek(ctx context.Context, weekStart time.Time) ([]models.ClassSession, error) {
	from := weekStart.Format("2006-01-02")
	to := weekStart.AddDate(0, 0, weekDays).Format("2006-01-02")

	key := querycache.ListKey(resource, "week="+from)
	return querycache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) ([]models.ClassSession, error) {
		path := sessionsPath + "?start_time__gte=" + from + "&start_time__lt=" + to
		return s.fetch(ctx, path)
	})
}

func (s *Service) fetch(ctx context.Context, path string) ([]models.ClassSession, error) {
	list, err := api.Get[api.List[wireSession]](ctx, s.api, path)
	if err != nil {
		return nil, err
	}

	sessions := make([]models.ClassSession, 0, len(list.Results))
	for _, ws := range list.Results {
		sessions = append(sessions, mapSession(ws))
	}
	return sessions, nil
}

// Get возвращает занятие по ID.
func (s *Service) Get(ctx context.Context, id string) (*models.ClassSession, error) {
	key := querycache.DetailKey(resource, id)
	session, err := querycache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) (models.ClassSession, error) {
		ws, err := api.Get[wireSession](ctx, s.api, sessionsPath+id+"/")
		if err != nil {
			return models.ClassSession{}, err
		}
		return mapSession(ws), nil
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Create создает занятие и инвалидирует списочные ключи.
func (s *Service) Create(ctx context.Context, req models.DummySession) (*models.ClassSession, error) {
	ws, err := api.Post[wireSession](ctx, s.api, sessionsPath, wireCreateFromRequest(req))
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateLists(resource)
	session := mapSession(ws)
	s.log.Info("class session created", slog.String("id", session.ID))
	return &session, nil
}

// Update частично обновляет занятие, инвалидирует списки и сеет карточку.
func (s *Service) Update(ctx context.Context, id string, req models.DummySessionUpdate) (*models.ClassSession, error) {
	ws, err := api.Patch[wireSession](ctx, s.api, sessionsPath+id+"/", wirePatchFromRequest(req))
	if err != nil {
		return nil, err
	}

	session := mapSession(ws)
	s.cache.InvalidateLists(resource)
	s.cache.Seed(querycache.DetailKey(resource, session.ID), session)
	s.log.Info("class session updated", slog.String("id", session.ID))
	return &session, nil
}

// Delete удаляет занятие и инвалидирует его ключи.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, sessionsPath+id+"/"); err != nil {
		return err
	}
	s.cache.InvalidateLists(resource)
	s.cache.Invalidate(querycache.DetailKey(resource, id))
	s.log.Info("class session deleted", slog.String("id", id))
	return nil
}
