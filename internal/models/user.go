// Package models содержит доменные структуры дашборда:
// пользователя сессии, брендинг тенанта, сотрудников, клиентов,
// тарифы и занятия, а также вспомогательные типы для приёма JSON-запросов.
package models

// Role роль пользователя платформы.
type Role string

const (
	RolePlatformAdmin Role = "platform_admin"
	RoleGymOwner      Role = "gym_owner"
	RoleGymManager    Role = "gym_manager"
	RoleTrainer       Role = "trainer"
	RoleClient        Role = "client"
)

// User представляет пользователя, вернувшегося из login-эндпоинта.
// Запись неизменяема после получения и не обновляется в течение сессии.
type User struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Role            Role   `json:"role"`
	Nickname        string `json:"nickname"`
	IsPlatformAdmin bool   `json:"is_platform_admin"`
	TenantID        string `json:"tenant_id,omitempty"`
	TenantSubdomain string `json:"tenant_subdomain,omitempty"`
}

// Branding цветовая пара тенанта, применяемая к оболочке дашборда.
type Branding struct {
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
}

// SessionSnapshot снимок авторизационной сессии, который переживает
// перезапуск процесса. Branding может быть nil, если тенант не задан
// или его брендинг не удалось получить.
type SessionSnapshot struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	User         *User     `json:"user"`
	Branding     *Branding `json:"branding,omitempty"`
}

// Valid сообщает, достаточно ли данных в снимке, чтобы восстановить сессию.
func (s *SessionSnapshot) Valid() bool {
	return s != nil && s.AccessToken != "" && s.User != nil && s.User.ID != ""
}

// DummyLogin используется для приёма данных входа из JSON-запроса.
type DummyLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
