package models

// ClientStatus статус клиента зала.
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusInactive ClientStatus = "inactive"
	ClientStatusPending  ClientStatus = "pending"
)

// Client клиент зала. MembershipName берётся из первого активного
// абонемента, при его отсутствии остаётся значение по умолчанию.
type Client struct {
	ID             string       `json:"id"`
	FirstName      string       `json:"first_name"`
	LastName       string       `json:"last_name"`
	Email          string       `json:"email"`
	Phone          string       `json:"phone,omitempty"`
	Avatar         string       `json:"avatar,omitempty"`
	MembershipName string       `json:"membership_name"`
	Status         ClientStatus `json:"status"`
	JoinDate       string       `json:"join_date"`
	LastVisit      string       `json:"last_visit,omitempty"`
}

// ClientPass купленный клиентом абонемент: остаток занятий и срок действия.
type ClientPass struct {
	ID                string `json:"id"`
	PricingOptionID   string `json:"pricing_option_id"`
	PricingOptionName string `json:"pricing_option_name"`
	SessionsRemaining int    `json:"sessions_remaining"`
	ExpiresAt         string `json:"expires_at"`
	IsActive          bool   `json:"is_active"`
}

// ClientWithPasses клиент вместе со всеми его абонементами.
type ClientWithPasses struct {
	Client Client       `json:"client"`
	Passes []ClientPass `json:"passes"`
}

// DummyAssignPass используется для приёма запроса на выдачу абонемента клиенту.
type DummyAssignPass struct {
	ClientID        string `json:"client_id" validate:"required,uuid"`
	PricingOptionID string `json:"pricing_option_id" validate:"required,uuid"`
}
