package models

// PlanType вид тарифа: безлимитное членство или пакет занятий.
type PlanType string

const (
	PlanTypeMembership PlanType = "membership"
	PlanTypeClassPack  PlanType = "class-pack"
)

// BillingCycle период оплаты тарифа, выводится из длительности в днях.
type BillingCycle string

const (
	BillingMonthly   BillingCycle = "monthly"
	BillingQuarterly BillingCycle = "quarterly"
	BillingYearly    BillingCycle = "yearly"
	BillingOneTime   BillingCycle = "one-time"
)

// PricingPlan тариф зала: членство или пакет кредитов на занятия.
type PricingPlan struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Type         PlanType     `json:"type"`
	Price        float64      `json:"price"`
	BillingCycle BillingCycle `json:"billing_cycle"`
	MaxClasses   int          `json:"max_classes"`
	ValidityDays int          `json:"validity_days"`
	Features     []string     `json:"features"`
	IsActive     bool         `json:"is_active"`
	CreatedAt    string       `json:"created_at"`
}

// DummyPlan используется для приёма данных тарифа из JSON-запроса.
type DummyPlan struct {
	Name         string  `json:"name" validate:"required"`
	Price        float64 `json:"price" validate:"required,gte=0"`
	MaxClasses   int     `json:"max_classes" validate:"gte=0"`
	ValidityDays int     `json:"validity_days" validate:"gte=0"`
}

// DummyPlanUpdate частичное обновление тарифа. Указатели отличают
// "поле не передано" от нулевого значения.
type DummyPlanUpdate struct {
	Name         *string  `json:"name,omitempty"`
	Price        *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	MaxClasses   *int     `json:"max_classes,omitempty" validate:"omitempty,gte=0"`
	ValidityDays *int     `json:"validity_days,omitempty" validate:"omitempty,gte=0"`
}
