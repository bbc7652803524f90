package schedule

import "github.com/zhelezov/gym-dashboard/internal/models"

// Backend хранит занятия с полем staff и плоским перечислением типов;
// дашборд оперирует тренером и собственными типами занятий.

const (
	wireTypePhysical = "physical"
	wireTypeVirtual  = "virtual"
	wireTypeWorkshop = "workshop"
	wireTypeOpenGym  = "open_gym"
)

const trainerNameTBD = "TBD"

type wireSession struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Staff       string  `json:"staff"`
	StaffName   string  `json:"staff_name"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	Capacity    int     `json:"capacity"`
	SessionType string  `json:"session_type"`
	MeetingURL  *string `json:"meeting_url"`
	IsFull      bool    `json:"is_full"`
}

type wireCreateSession struct {
	Title       string `json:"title"`
	Staff       string `json:"staff"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Capacity    int    `json:"capacity"`
	SessionType string `json:"session_type"`
}

type wirePatchSession struct {
	Title      *string `json:"title,omitempty"`
	Staff      *string `json:"staff,omitempty"`
	StartTime  *string `json:"start_time,omitempty"`
	EndTime    *string `json:"end_time,omitempty"`
	Capacity   *int    `json:"capacity,omitempty"`
	MeetingURL *string `json:"meeting_url,omitempty"`
}

// mapTypeFromWire переводит тип занятия backend-а в доменный.
// Неизвестные значения попадают в групповое занятие.
func mapTypeFromWire(t string) models.SessionType {
	switch t {
	case wireTypeVirtual:
		return models.SessionPersonalTraining
	case wireTypeWorkshop:
		return models.SessionWorkshop
	case wireTypeOpenGym:
		return models.SessionOpenGym
	default:
		return models.SessionGroupClass
	}
}

// mapTypeToWire обратное отображение, по умолчанию physical.
func mapTypeToWire(t models.SessionType) string {
	switch t {
	case models.SessionPersonalTraining:
		return wireTypeVirtual
	case models.SessionWorkshop:
		return wireTypeWorkshop
	case models.SessionOpenGym:
		return wireTypeOpenGym
	default:
		return wireTypePhysical
	}
}

// mapSession собирает доменное занятие из ответа backend-а.
// Счётчика записавшихся у backend-а нет: при is_full считаем занятие
// заполненным до capacity, иначе нулём, и честно помечаем оценку.
func mapSession(ws wireSession) models.ClassSession {
	name := ws.StaffName
	if name == "" {
		name = trainerNameTBD
	}

	enrolled := 0
	if ws.IsFull {
		enrolled = ws.Capacity
	}

	location := "Studio"
	if ws.SessionType == wireTypeVirtual {
		location = "Online"
	}

	meetingURL := ""
	if ws.MeetingURL != nil {
		meetingURL = *ws.MeetingURL
	}

	return models.ClassSession{
		ID:               ws.ID,
		Title:            ws.Title,
		Type:             mapTypeFromWire(ws.SessionType),
		TrainerID:        ws.Staff,
		TrainerName:      name,
		StartTime:        ws.StartTime,
		EndTime:          ws.EndTime,
		Capacity:         ws.Capacity,
		EnrolledCount:    enrolled,
		EnrollmentApprox: true,
		Location:         location,
		IsFull:           ws.IsFull,
		MeetingURL:       meetingURL,
	}
}

func wireCreateFromRequest(req models.DummySession) wireCreateSession {
	return wireCreateSession{
		Title:       req.Title,
		Staff:       req.TrainerID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Capacity:    req.Capacity,
		SessionType: mapTypeToWire(models.SessionType(req.Type)),
	}
}

func wirePatchFromRequest(req models.DummySessionUpdate) wirePatchSession {
	return wirePatchSession{
		Title:      req.Title,
		Staff:      req.TrainerID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Capacity:   req.Capacity,
		MeetingURL: req.MeetingURL,
	}
}
