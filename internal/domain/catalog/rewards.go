// Package catalog содержит неизменяемые каталоги портала: награды, ресурсы,
// внешний рейтинг и справочники программ. Каталоги определены внешним
// источником и движком не изменяются: ограниченное количество награды -
// презентационный атрибут, движок его не уменьшает.
package catalog

import "github.com/KunafaIceCream/udst-healthpage/internal/domain/progression"

// ══════════════════════════════════════════════════════════════════════════════
// REWARDS (Каталог наград)
// ══════════════════════════════════════════════════════════════════════════════

// RewardCategory представляет категорию награды.
type RewardCategory string

const (
	CategoryAcademic    RewardCategory = "academic"
	CategoryWellness    RewardCategory = "wellness"
	CategoryExperience  RewardCategory = "experience"
	CategoryMerchandise RewardCategory = "merchandise"

	// CategoryAll - фильтр "все категории", а не категория награды.
	CategoryAll RewardCategory = "all"
)

// IsValid проверяет, что категория награды известна.
func (c RewardCategory) IsValid() bool {
	switch c {
	case CategoryAcademic, CategoryWellness, CategoryExperience, CategoryMerchandise:
		return true
	default:
		return false
	}
}

// Reward описывает награду каталога.
type Reward struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	PointsCost  progression.Points `json:"points_cost"`
	Category    RewardCategory     `json:"category"`
	IconTag     string             `json:"icon_tag"`
	Available   bool               `json:"available"`

	// LimitedQuantity - остаток для лимитированных наград.
	// Ноль означает отсутствие лимита.
	LimitedQuantity int `json:"limited_quantity,omitempty"`
}

// IsLimited возвращает true для лимитированной награды.
func (r Reward) IsLimited() bool {
	return r.LimitedQuantity > 0
}

// rewards перечислены в порядке витрины: он определяет выбор
// "следующей награды" на прогресс-баре.
var rewards = []Reward{
	{
		ID:          "sim-lab-priority",
		Name:        "Priority Sim Lab Booking",
		Description: "Get priority access to book simulation lab sessions for one week.",
		PointsCost:  100,
		Category:    CategoryAcademic,
		IconTag:     "Stethoscope",
		Available:   true,
	},
	{
		ID:          "study-guide-bundle",
		Name:        "Premium Study Guide Bundle",
		Description: "Unlock exclusive study materials and exam prep guides for your program.",
		PointsCost:  75,
		Category:    CategoryAcademic,
		IconTag:     "BookOpen",
		Available:   true,
	},
	{
		ID:              "coffee-voucher",
		Name:            "Campus Café Voucher",
		Description:     "Redeem for a free coffee or snack at the UDST campus café.",
		PointsCost:      50,
		Category:        CategoryWellness,
		IconTag:         "Coffee",
		Available:       true,
		LimitedQuantity: 20,
	},
	{
		ID:          "certificate-recognition",
		Name:        "Digital Recognition Certificate",
		Description: "Receive a shareable certificate recognizing your engagement achievements.",
		PointsCost:  150,
		Category:    CategoryExperience,
		IconTag:     "Award",
		Available:   true,
	},
	{
		ID:              "guest-lecture-pass",
		Name:            "VIP Guest Lecture Pass",
		Description:     "Reserved front-row seating at the next Health Sciences guest lecture.",
		PointsCost:      120,
		Category:        CategoryExperience,
		IconTag:         "Ticket",
		Available:       true,
		LimitedQuantity: 10,
	},
	{
		ID:          "clinical-case-access",
		Name:        "Extended Case Study Access",
		Description: "One month of access to the advanced clinical case study database.",
		PointsCost:  200,
		Category:    CategoryAcademic,
		IconTag:     "FileText",
		Available:   true,
	},
	{
		ID:          "peer-mentor-session",
		Name:        "Peer Mentoring Session",
		Description: "Book a one-on-one session with a senior student mentor in your field.",
		PointsCost:  80,
		Category:    CategoryAcademic,
		IconTag:     "Users",
		Available:   true,
	},
	{
		ID:              "wellness-workshop",
		Name:            "Wellness Workshop Pass",
		Description:     "Free entry to the next healthcare professional wellness workshop.",
		PointsCost:      60,
		Category:        CategoryWellness,
		IconTag:         "Heart",
		Available:       true,
		LimitedQuantity: 15,
	},
}

// Rewards возвращает копию каталога наград в витринном порядке.
func Rewards() []Reward {
	out := make([]Reward, len(rewards))
	copy(out, rewards)
	return out
}

// RewardsByCategory возвращает награды указанной категории.
// CategoryAll возвращает весь каталог.
func RewardsByCategory(category RewardCategory) []Reward {
	if category == CategoryAll {
		return Rewards()
	}

	var out []Reward
	for _, r := range rewards {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

// FindReward возвращает награду по идентификатору.
func FindReward(id string) (Reward, bool) {
	for _, r := range rewards {
		if r.ID == id {
			return r, true
		}
	}
	return Reward{}, false
}

// RewardCategories возвращает категории в порядке фильтров витрины.
func RewardCategories() []RewardCategory {
	return []RewardCategory{CategoryAll, CategoryAcademic, CategoryWellness, CategoryExperience}
}
