package progression

import (
	"time"

	"github.com/KunafaIceCream/udst-healthpage/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN EVENTS
// События создаются при изменении записи прогресса; обработчики реагируют
// на них через шину событий.
// ══════════════════════════════════════════════════════════════════════════════

// RecordCreatedEvent - создана новая запись прогресса.
type RecordCreatedEvent struct {
	shared.BaseEvent
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Program string `json:"program"`
}

// Payload implements shared.Event.
func (e RecordCreatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"email":   e.Email,
		"name":    e.Name,
		"role":    e.Role,
		"program": e.Program,
	}
}

// NewRecordCreatedEvent создаёт событие регистрации.
func NewRecordCreatedEvent(r *Record) RecordCreatedEvent {
	return RecordCreatedEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventRecordCreated, r.ID),
		Email:     r.Email,
		Name:      r.Name,
		Role:      string(r.Role),
		Program:   string(r.Program),
	}
}

// LoggedInEvent - выполнен вход по email.
type LoggedInEvent struct {
	shared.BaseEvent
	Email string `json:"email"`
}

// Payload implements shared.Event.
func (e LoggedInEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"email": e.Email,
	}
}

// NewLoggedInEvent создаёт событие входа.
func NewLoggedInEvent(r *Record) LoggedInEvent {
	return LoggedInEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventLoggedIn, r.ID),
		Email:     r.Email,
	}
}

// SessionResumedEvent - сессия возобновлена при старте процесса.
type SessionResumedEvent struct {
	shared.BaseEvent
	Streak     int    `json:"streak"`
	Transition string `json:"transition"`
	DaysAway   int    `json:"days_away"`
}

// Payload implements shared.Event.
func (e SessionResumedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"streak":     e.Streak,
		"transition": e.Transition,
		"days_away":  e.DaysAway,
	}
}

// NewSessionResumedEvent создаёт событие возобновления сессии.
func NewSessionResumedEvent(r *Record, transition StreakTransition, daysAway int) SessionResumedEvent {
	return SessionResumedEvent{
		BaseEvent:  shared.NewBaseEvent(shared.EventSessionResumed, r.ID),
		Streak:     r.Streak,
		Transition: string(transition),
		DaysAway:   daysAway,
	}
}

// PointsChangedEvent - изменился баланс очков.
type PointsChangedEvent struct {
	shared.BaseEvent
	Delta    int    `json:"delta"`
	NewTotal int    `json:"new_total"`
	Reason   string `json:"reason"` // например, "resource_access", "redemption"
}

// Payload implements shared.Event.
func (e PointsChangedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"delta":     e.Delta,
		"new_total": e.NewTotal,
		"reason":    e.Reason,
	}
}

// NewPointsChangedEvent создаёт событие изменения баланса.
func NewPointsChangedEvent(r *Record, delta Points, reason string) PointsChangedEvent {
	return PointsChangedEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventPointsChanged, r.ID),
		Delta:     delta.Int(),
		NewTotal:  r.Points.Int(),
		Reason:    reason,
	}
}

// ResourceAccessedEvent - пользователь впервые открыл ресурс.
type ResourceAccessedEvent struct {
	shared.BaseEvent
	ResourceID    string `json:"resource_id"`
	TotalAccessed int    `json:"total_accessed"`
}

// Payload implements shared.Event.
func (e ResourceAccessedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"resource_id":    e.ResourceID,
		"total_accessed": e.TotalAccessed,
	}
}

// NewResourceAccessedEvent создаёт событие первого открытия ресурса.
func NewResourceAccessedEvent(r *Record, resourceID string) ResourceAccessedEvent {
	return ResourceAccessedEvent{
		BaseEvent:     shared.NewBaseEvent(shared.EventResourceAccessed, r.ID),
		ResourceID:    resourceID,
		TotalAccessed: len(r.ResourcesAccessed),
	}
}

// CollaborationAddedEvent - записана совместная работа.
type CollaborationAddedEvent struct {
	shared.BaseEvent
	Collaborations int `json:"collaborations"`
}

// Payload implements shared.Event.
func (e CollaborationAddedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"collaborations": e.Collaborations,
	}
}

// NewCollaborationAddedEvent создаёт событие совместной работы.
func NewCollaborationAddedEvent(r *Record) CollaborationAddedEvent {
	return CollaborationAddedEvent{
		BaseEvent:      shared.NewBaseEvent(shared.EventCollaborationAdded, r.ID),
		Collaborations: r.Collaborations,
	}
}

// BadgeUnlockedEvent - присуждён новый значок.
type BadgeUnlockedEvent struct {
	shared.BaseEvent
	Kind      string    `json:"kind"`
	BadgeName string    `json:"badge_name"`
	EarnedAt  time.Time `json:"earned_at"`
}

// Payload implements shared.Event.
func (e BadgeUnlockedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"kind":       e.Kind,
		"badge_name": e.BadgeName,
		"earned_at":  e.EarnedAt.Format(time.RFC3339),
	}
}

// NewBadgeUnlockedEvent создаёт событие присуждения значка.
func NewBadgeUnlockedEvent(r *Record, badge EarnedBadge) BadgeUnlockedEvent {
	name := string(badge.Kind)
	if def, ok := FindBadgeDefinition(badge.Kind); ok {
		name = def.Name
	}
	return BadgeUnlockedEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventBadgeUnlocked, r.ID),
		Kind:      string(badge.Kind),
		BadgeName: name,
		EarnedAt:  badge.EarnedAt,
	}
}

// RewardRedeemedEvent - награда обменена на очки.
type RewardRedeemedEvent struct {
	shared.BaseEvent
	RewardID   string `json:"reward_id"`
	PointsCost int    `json:"points_cost"`
	NewBalance int    `json:"new_balance"`
}

// Payload implements shared.Event.
func (e RewardRedeemedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"reward_id":   e.RewardID,
		"points_cost": e.PointsCost,
		"new_balance": e.NewBalance,
	}
}

// NewRewardRedeemedEvent создаёт событие обмена награды.
func NewRewardRedeemedEvent(r *Record, rewardID string, cost Points) RewardRedeemedEvent {
	return RewardRedeemedEvent{
		BaseEvent:  shared.NewBaseEvent(shared.EventRewardRedeemed, r.ID),
		RewardID:   rewardID,
		PointsCost: cost.Int(),
		NewBalance: r.Points.Int(),
	}
}

// DailyBonusClaimedEvent - получен ежедневный бонус.
type DailyBonusClaimedEvent struct {
	shared.BaseEvent
	ClaimedOn  string `json:"claimed_on"`
	NewBalance int    `json:"new_balance"`
}

// Payload implements shared.Event.
func (e DailyBonusClaimedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"claimed_on":  e.ClaimedOn,
		"new_balance": e.NewBalance,
	}
}

// NewDailyBonusClaimedEvent создаёт событие ежедневного бонуса.
func NewDailyBonusClaimedEvent(r *Record, claimedOn string) DailyBonusClaimedEvent {
	return DailyBonusClaimedEvent{
		BaseEvent:  shared.NewBaseEvent(shared.EventDailyBonusClaimed, r.ID),
		ClaimedOn:  claimedOn,
		NewBalance: r.Points.Int(),
	}
}

// RecordDeletedEvent - запись удалена при выходе из системы.
type RecordDeletedEvent struct {
	shared.BaseEvent
	Email string `json:"email"`
}

// Payload implements shared.Event.
func (e RecordDeletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"email": e.Email,
	}
}

// NewRecordDeletedEvent создаёт событие удаления записи.
func NewRecordDeletedEvent(r *Record) RecordDeletedEvent {
	return RecordDeletedEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventRecordDeleted, r.ID),
		Email:     r.Email,
	}
}

// PinToggledEvent - ресурс закреплён или откреплён.
type PinToggledEvent struct {
	shared.BaseEvent
	ResourceID string `json:"resource_id"`
	Pinned     bool   `json:"pinned"`
}

// Payload implements shared.Event.
func (e PinToggledEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"resource_id": e.ResourceID,
		"pinned":      e.Pinned,
	}
}

// NewPinToggledEvent создаёт событие закрепления ресурса.
func NewPinToggledEvent(r *Record, resourceID string, pinned bool) PinToggledEvent {
	return PinToggledEvent{
		BaseEvent:  shared.NewBaseEvent(shared.EventResourcePinToggled, r.ID),
		ResourceID: resourceID,
		Pinned:     pinned,
	}
}
