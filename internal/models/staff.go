package models

// StaffRole роль сотрудника в терминах дашборда.
type StaffRole string

const (
	StaffRoleTrainer StaffRole = "trainer"
	StaffRoleManager StaffRole = "manager"
	StaffRoleOwner   StaffRole = "owner"
)

// StaffStatus статус сотрудника.
type StaffStatus string

const (
	StaffStatusActive   StaffStatus = "active"
	StaffStatusOnLeave  StaffStatus = "on-leave"
	StaffStatusInactive StaffStatus = "inactive"
)

// StaffMember сотрудник зала: тренер или менеджер.
// Поля заполняются из профиля backend-пользователя; отсутствующие
// в ответе значения деградируют до пустых строк.
type StaffMember struct {
	ID              string      `json:"id"`
	FirstName       string      `json:"first_name"`
	LastName        string      `json:"last_name"`
	Email           string      `json:"email"`
	Phone           string      `json:"phone,omitempty"`
	Role            StaffRole   `json:"role"`
	Status          StaffStatus `json:"status"`
	Avatar          string      `json:"avatar,omitempty"`
	Specializations []string    `json:"specializations"`
	HireDate        string      `json:"hire_date"`
}

// StaffFilter необязательные фильтры списка сотрудников,
// применяются после маппинга ответа backend.
type StaffFilter struct {
	Role   StaffRole
	Status StaffStatus
}

// DummyStaff используется для приёма данных нового сотрудника из JSON-запроса.
type DummyStaff struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password,omitempty"`
	Role      string `json:"role" validate:"required,oneof=trainer manager"`
	Bio       string `json:"bio,omitempty"`
}

// DummyStaffUpdate частичное обновление сотрудника; на backend
// можно изменить только поля профиля.
type DummyStaffUpdate struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Bio       string `json:"bio,omitempty"`
}
