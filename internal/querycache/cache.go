// Package querycache кеширует результаты ресурсных сервисов по ключу
// (ресурс, фильтр). Конкурентные запросы одного ключа делят один сетевой
// вызов через singleflight; мутации явно инвалидируют списочные ключи.
package querycache

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Key ключ кеша: тип ресурса и каноническая строка фильтра.
// Для списков фильтр начинается с "list", для карточек — с "detail:".
type Key struct {
	Resource string
	Filter   string
}

// ListKey собирает списочный ключ. Пары фильтра должны приходить
// в стабильном порядке, иначе одинаковые запросы разойдутся по ключам.
func ListKey(resource string, filters ...string) Key {
	filter := "list"
	if len(filters) > 0 {
		filter += "?" + strings.Join(filters, "&")
	}
	return Key{Resource: resource, Filter: filter}
}

// DetailKey собирает ключ карточки ресурса.
func DetailKey(resource, id string) Key {
	return Key{Resource: resource, Filter: "detail:" + id}
}

func (k Key) String() string {
	return k.Resource + "/" + k.Filter
}

type entry struct {
	value any
	stale bool
}

// Cache кеш типа ключ-значение с явной инвалидацией.
// gens считает инвалидации по ключу: fetch, начавшийся до инвалидации,
// не имеет права записать свой результат поверх неё.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]*entry
	gens    map[Key]uint64
	group   singleflight.Group
	log     *slog.Logger
}

// New создает пустой кеш.
func New(log *slog.Logger) *Cache {
	return &Cache{
		entries: make(map[Key]*entry),
		gens:    make(map[Key]uint64),
		log:     log,
	}
}

// lookup возвращает закешированное значение, если оно свежее.
func (c *Cache) lookup(key Key) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || e.stale {
		return nil, false
	}
	return e.value, true
}

// getOrFetch возвращает кешированное значение либо выполняет fetch,
// деля полёт между конкурентными вызовами одного ключа.
// Ошибка fetch ничего не кеширует: следующий вызов начнёт заново.
func (c *Cache) getOrFetch(ctx context.Context, key Key, fetch func(ctx context.Context) (any, error)) (any, error) {
	if v, ok := c.lookup(key); ok {
		return v, nil
	}

	v, err, shared := c.group.Do(key.String(), func() (any, error) {
		// Пока мы ждали очередь singleflight, значение могло появиться
		if v, ok := c.lookup(key); ok {
			return v, nil
		}

		// Регистрируем ключ, чтобы инвалидация видела полёт и
		// сдвинула поколение
		c.mu.Lock()
		if _, ok := c.gens[key]; !ok {
			c.gens[key] = 0
		}
		started := c.gens[key]
		c.mu.Unlock()

		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.gens[key] == started {
			c.entries[key] = &entry{value: v}
		} else {
			// Ключ инвалидирован во время полёта: результат устарел,
			// отдаём его вызвавшему, но не кешируем
			c.log.Debug("discarding fetch result invalidated in flight",
				slog.String("key", key.String()))
		}
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.log.Debug("query shared in-flight fetch", slog.String("key", key.String()))
	}
	return v, nil
}

// GetOrFetch типизированная обёртка над кешем.
func GetOrFetch[T any](ctx context.Context, c *Cache, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	v, err := c.getOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Seed кладёт значение в кеш, минуя fetch. Используется мутациями,
// чтобы после update карточка отдавалась без лишнего запроса.
func (c *Cache) Seed(key Key, value any) {
	c.mu.Lock()
	c.gens[key]++
	c.entries[key] = &entry{value: value}
	c.mu.Unlock()
}

// Invalidate помечает один ключ устаревшим. Повторная инвалидация
// уже устаревшего ключа ничего не меняет.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	c.gens[key]++
	if e, ok := c.entries[key]; ok {
		e.stale = true
	}
	c.mu.Unlock()
}

// InvalidatePrefix помечает устаревшими все ключи ресурса,
// чей фильтр начинается с prefix, включая ключи с полётом без записи.
func (c *Cache) InvalidatePrefix(resource, prefix string) {
	c.mu.Lock()
	for k, e := range c.entries {
		if k.Resource == resource && strings.HasPrefix(k.Filter, prefix) {
			e.stale = true
		}
	}
	for k := range c.gens {
		if k.Resource == resource && strings.HasPrefix(k.Filter, prefix) {
			c.gens[k]++
		}
	}
	c.mu.Unlock()
}

// InvalidateLists помечает устаревшим всё списочное пространство ресурса.
func (c *Cache) InvalidateLists(resource string) {
	c.InvalidatePrefix(resource, "list")
}
