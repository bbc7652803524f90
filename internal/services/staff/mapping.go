package staff

import (
	"strings"

	"github.com/zhelezov/gym-dashboard/internal/models"
)

const (
	wireRoleTrainer = "trainer"
	wireRoleManager = "gym_manager"
	wireRoleOwner   = "gym_owner"
)

type wireProfile struct {
	Nickname        string   `json:"nickname"`
	Bio             string   `json:"bio"`
	ProfileImage    *string  `json:"profile_image"`
	PhoneNumber     string   `json:"phone_number"`
	Specializations []string `json:"specializations"`
	StaffStatus     string   `json:"staff_status"`
}

type wireUser struct {
	ID         string       `json:"id"`
	Email      string       `json:"email"`
	Role       string       `json:"role"`
	Profile    *wireProfile `json:"profile"`
	DateJoined string       `json:"date_joined"`
}

type wireCreateStaff struct {
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	Role         string  `json:"role"`
	Nickname     string  `json:"nickname"`
	Bio          string  `json:"bio"`
	ProfileImage *string `json:"profile_image"`
}

type wireProfilePatch struct {
	Nickname *string `json:"nickname,omitempty"`
	Bio      *string `json:"bio,omitempty"`
}

type wireUpdateStaff struct {
	Profile *wireProfilePatch `json:"profile,omitempty"`
}

func (w *wireUpdateStaff) ensureProfile() *wireProfilePatch {
	if w.Profile == nil {
		w.Profile = &wireProfilePatch{}
	}
	return w.Profile
}

// mapUserToStaff переводит backend-пользователя в доменного сотрудника.
// Профиль может отсутствовать: тогда поля остаются пустыми.
func mapUserToStaff(u wireUser) models.StaffMember {
	member := models.StaffMember{
		ID:              u.ID,
		Email:           u.Email,
		Role:            mapRoleFromWire(u.Role),
		Status:          models.StaffStatusActive,
		HireDate:        u.DateJoined,
		Specializations: []string{},
	}

	if u.Profile == nil {
		return member
	}

	member.FirstName, member.LastName = splitNickname(u.Profile.Nickname)
	member.Phone = u.Profile.PhoneNumber
	member.Status = mapStatusFromWire(u.Profile.StaffStatus)
	if u.Profile.ProfileImage != nil {
		member.Avatar = *u.Profile.ProfileImage
	}
	if u.Profile.Specializations != nil {
		member.Specializations = u.Profile.Specializations
	}
	return member
}

// splitNickname делит nickname backend-а на имя и фамилию:
// первая часть — имя, остальное — фамилия.
func splitNickname(nickname string) (first, last string) {
	parts := strings.Fields(nickname)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// mapRoleFromWire переводит роль backend-а в роль дашборда.
// Неизвестные роли схлопываются в тренера.
func mapRoleFromWire(role string) models.StaffRole {
	switch role {
	case wireRoleManager:
		return models.StaffRoleManager
	case wireRoleOwner:
		return models.StaffRoleOwner
	default:
		return models.StaffRoleTrainer
	}
}

// mapRoleToWire обратный перевод роли для запросов к backend.
func mapRoleToWire(role models.StaffRole) string {
	if role == models.StaffRoleManager {
		return wireRoleManager
	}
	return wireRoleTrainer
}

// mapStatusFromWire переводит staff_status backend-а; пустой статус
// считается активным.
func mapStatusFromWire(status string) models.StaffStatus {
	switch status {
	case "on_leave":
		return models.StaffStatusOnLeave
	case "inactive":
		return models.StaffStatusInactive
	default:
		return models.StaffStatusActive
	}
}

// mapStatusToWire обратный перевод статуса.
func mapStatusToWire(status models.StaffStatus) string {
	switch status {
	case models.StaffStatusOnLeave:
		return "on_leave"
	case models.StaffStatusInactive:
		return "inactive"
	default:
		return "active"
	}
}
