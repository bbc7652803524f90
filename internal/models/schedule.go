package models

// SessionType тип занятия в терминах дашборда.
type SessionType string

const (
	SessionGroupClass       SessionType = "group-class"
	SessionPersonalTraining SessionType = "personal-training"
	SessionWorkshop         SessionType = "workshop"
	SessionOpenGym          SessionType = "open-gym"
)

// ClassSession занятие в расписании (не путать с авторизационной сессией).
// EnrolledCount выводится из флага is_full backend-а: реального счётчика
// записавшихся там нет, поэтому EnrollmentApprox всегда true.
type ClassSession struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Type             SessionType `json:"type"`
	TrainerID        string      `json:"trainer_id"`
	TrainerName      string      `json:"trainer_name"`
	StartTime        string      `json:"start_time"`
	EndTime          string      `json:"end_time"`
	Capacity         int         `json:"capacity"`
	EnrolledCount    int         `json:"enrolled_count"`
	EnrollmentApprox bool        `json:"enrollment_approx"`
	Location         string      `json:"location"`
	IsFull           bool        `json:"is_full"`
	MeetingURL       string      `json:"meeting_url,omitempty"`
}

// DummySession используется для приёма данных нового занятия из JSON-запроса.
type DummySession struct {
	Title     string `json:"title" validate:"required"`
	Type      string `json:"type" validate:"required,oneof=group-class personal-training workshop open-gym"`
	TrainerID string `json:"trainer_id" validate:"required,uuid"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	Capacity  int    `json:"capacity" validate:"required,gt=0"`
}

// DummySessionUpdate частичное обновление занятия.
type DummySessionUpdate struct {
	Title      *string `json:"title,omitempty"`
	StartTime  *string `json:"start_time,omitempty"`
	EndTime    *string `json:"end_time,omitempty"`
	Capacity   *int    `json:"capacity,omitempty" validate:"omitempty,gt=0"`
	TrainerID  *string `json:"trainer_id,omitempty" validate:"omitempty,uuid"`
	MeetingURL *string `json:"meeting_url,omitempty"`
}
