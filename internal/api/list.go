package api

import (
	"bytes"
	"encoding/json"
)

// List универсальная обёртка над списочными ответами backend.
// Эндпоинты отдают либо голый массив, либо DRF-конверт
// {count, next, previous, results}; обе формы разбираются здесь один раз,
// чтобы ресурсные сервисы об этом различии не знали.
type List[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

type listEnvelope[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// UnmarshalJSON принимает обе формы ответа.
func (l *List[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		l.Results = items
		l.Count = len(items)
		l.Next, l.Previous = nil, nil
		return nil
	}

	var env listEnvelope[T]
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	l.Count = env.Count
	l.Next = env.Next
	l.Previous = env.Previous
	l.Results = env.Results
	return nil
}
