package progression

import (
	"time"

	"github.com/KunafaIceCream/udst-healthpage/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// BADGES (Значки)
// ══════════════════════════════════════════════════════════════════════════════

// BadgeKind представляет вид значка. Набор видов закрытый: движок оперирует
// перечислением, а сопоставление с иконками остаётся в слое отображения.
type BadgeKind string

const (
	// BadgeCollaborator - выполнено 3 совместные работы.
	BadgeCollaborator BadgeKind = "collaborator"
	// BadgeEarlyBird - вход до 8 утра.
	BadgeEarlyBird BadgeKind = "early-bird"
	// BadgeStreakMaster - серия из 7 дней.
	BadgeStreakMaster BadgeKind = "streak-master"
	// BadgeResourceExplorer - открыто 10 разных ресурсов.
	BadgeResourceExplorer BadgeKind = "resource-explorer"
	// BadgeForumChampion - 5 обсуждений на форуме. Вид числится в каталоге,
	// но движок его не присуждает: счётчика обсуждений нет.
	BadgeForumChampion BadgeKind = "forum-champion"
)

// IsValid проверяет, что вид значка известен.
func (k BadgeKind) IsValid() bool {
	switch k {
	case BadgeCollaborator, BadgeEarlyBird, BadgeStreakMaster,
		BadgeResourceExplorer, BadgeForumChampion:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление вида.
func (k BadgeKind) String() string {
	return string(k)
}

// EarnedBadge представляет полученный значок.
type EarnedBadge struct {
	// Kind - вид значка.
	Kind BadgeKind `json:"kind"`

	// EarnedAt - когда получен.
	EarnedAt time.Time `json:"earned_at"`
}

// BadgeDefinition описывает значок каталога.
type BadgeDefinition struct {
	Kind        BadgeKind
	Name        string
	Description string
	IconTag     string
}

// Пороговые значения правил присуждения.
const (
	streakMasterThreshold     = 7
	resourceExplorerThreshold = 10
	collaboratorThreshold     = 3
	earlyBirdHour             = 8
)

// BadgeDefinitions возвращает все определения значков каталога.
func BadgeDefinitions() []BadgeDefinition {
	return []BadgeDefinition{
		{BadgeCollaborator, "Collaborator Badge", "Complete 3 peer reviews", "Users"},
		{BadgeEarlyBird, "Early Bird", "Log in before 8 AM", "Sun"},
		{BadgeStreakMaster, "Streak Master", "Maintain a 7-day streak", "Flame"},
		{BadgeResourceExplorer, "Resource Explorer", "Access 10 different resources", "BookOpen"},
		{BadgeForumChampion, "Forum Champion", "Post 5 forum discussions", "MessageSquare"},
	}
}

// FindBadgeDefinition возвращает определение значка по виду.
func FindBadgeDefinition(kind BadgeKind) (BadgeDefinition, bool) {
	for _, def := range BadgeDefinitions() {
		if def.Kind == kind {
			return def, true
		}
	}
	return BadgeDefinition{}, false
}

// ══════════════════════════════════════════════════════════════════════════════
// BADGE CHECKER
// ══════════════════════════════════════════════════════════════════════════════

// HasBadge проверяет, получен ли значок указанного вида.
func (r *Record) HasBadge(kind BadgeKind) bool {
	for _, b := range r.Badges {
		if b.Kind == kind {
			return true
		}
	}
	return false
}

// BadgeChecker проверяет условия присуждения значков.
//
// Присуждение - защёлка: однажды полученный значок не переоценивается и не
// отзывается, даже если породивший его счётчик позже уменьшится. Членство
// в наборе значков по виду - единственный источник истины.
type BadgeChecker struct {
	// EarlyBirdEnabled включает правило "ранней пташки".
	EarlyBirdEnabled bool
}

// NewBadgeChecker создаёт проверщик со всеми правилами.
func NewBadgeChecker() *BadgeChecker {
	return &BadgeChecker{EarlyBirdEnabled: true}
}

// Check оценивает правила для ещё не полученных значков и добавляет новые
// значки в запись. Возвращает список только что присуждённых значков.
// Функция идемпотентна: повторный вызов с тем же состоянием ничего не меняет.
func (c *BadgeChecker) Check(r *Record, now time.Time) []EarnedBadge {
	var unlocked []EarnedBadge

	award := func(kind BadgeKind) {
		badge := EarnedBadge{Kind: kind, EarnedAt: now}
		r.Badges = append(r.Badges, badge)
		unlocked = append(unlocked, badge)
	}

	if r.Streak >= streakMasterThreshold && !r.HasBadge(BadgeStreakMaster) {
		award(BadgeStreakMaster)
	}

	if len(r.ResourcesAccessed) >= resourceExplorerThreshold && !r.HasBadge(BadgeResourceExplorer) {
		award(BadgeResourceExplorer)
	}

	if r.Collaborations >= collaboratorThreshold && !r.HasBadge(BadgeCollaborator) {
		award(BadgeCollaborator)
	}

	if len(unlocked) > 0 {
		r.touch()
	}

	return unlocked
}

// CheckEarlyBird оценивает правило "ранней пташки" по местному времени входа.
// Вызывается только при старте сессии, а не после каждой мутации.
func (c *BadgeChecker) CheckEarlyBird(r *Record, loginAt time.Time) *EarnedBadge {
	if !c.EarlyBirdEnabled || r.HasBadge(BadgeEarlyBird) {
		return nil
	}

	if timeutil.ToDoha(loginAt).Hour() >= earlyBirdHour {
		return nil
	}

	badge := EarnedBadge{Kind: BadgeEarlyBird, EarnedAt: loginAt}
	r.Badges = append(r.Badges, badge)
	r.touch()
	return &badge
}
