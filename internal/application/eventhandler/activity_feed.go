package eventhandler

import (
	"fmt"
	"sync"
	"time"

	"github.com/KunafaIceCream/udst-healthpage/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// ACTIVITY FEED
// Подписывается на все доменные события и держит кольцевой буфер последних
// действий для ленты "недавняя активность" на панели. Буфер живёт в памяти
// процесса и очищается при перезапуске.
// ═══════════════════════════════════════════════════════════════════════════

// DefaultFeedCapacity - размер кольцевого буфера по умолчанию.
const DefaultFeedCapacity = 50

// ActivityEntry - одна строка ленты активности.
type ActivityEntry struct {
	// EventType - тип породившего события.
	EventType shared.EventType `json:"event_type"`

	// Description - человекочитаемое описание действия.
	Description string `json:"description"`

	// OccurredAt - когда действие произошло.
	OccurredAt time.Time `json:"occurred_at"`
}

// ActivityFeed накапливает последние события.
type ActivityFeed struct {
	mu       sync.Mutex
	entries  []ActivityEntry
	capacity int
}

// NewActivityFeed создаёт ленту с указанной ёмкостью.
// Неположительная ёмкость заменяется значением по умолчанию.
func NewActivityFeed(capacity int) *ActivityFeed {
	if capacity <= 0 {
		capacity = DefaultFeedCapacity
	}
	return &ActivityFeed{capacity: capacity}
}

// Handle реализует shared.EventHandler. Подписывается через SubscribeAll.
func (f *ActivityFeed) Handle(event shared.Event) error {
	entry := ActivityEntry{
		EventType:   event.EventType(),
		Description: describe(event),
		OccurredAt:  event.OccurredAt(),
	}

	f.mu.Lock()
	f.entries = append(f.entries, entry)
	if len(f.entries) > f.capacity {
		f.entries = f.entries[len(f.entries)-f.capacity:]
	}
	f.mu.Unlock()
	return nil
}

// Recent возвращает до n последних записей, новые первыми.
func (f *ActivityFeed) Recent(n int) []ActivityEntry {
	f.mu.Lock()
	defer f.mu.Unlock()

	if n <= 0 || n > len(f.entries) {
		n = len(f.entries)
	}
	out := make([]ActivityEntry, 0, n)
	for i := len(f.entries) - 1; i >= len(f.entries)-n; i-- {
		out = append(out, f.entries[i])
	}
	return out
}

// Len возвращает текущее количество записей.
func (f *ActivityFeed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

func describe(event shared.Event) string {
	payload := event.Payload()

	switch event.EventType() {
	case shared.EventRecordCreated:
		return fmt.Sprintf("%v joined the portal", payload["name"])
	case shared.EventLoggedIn:
		return "logged in"
	case shared.EventSessionResumed:
		return fmt.Sprintf("session resumed, streak %v (%v)", payload["streak"], payload["transition"])
	case shared.EventResourceAccessed:
		return fmt.Sprintf("opened resource %v", payload["resource_id"])
	case shared.EventCollaborationAdded:
		return "completed a collaboration"
	case shared.EventBadgeUnlocked:
		return fmt.Sprintf("unlocked badge %v", payload["badge_name"])
	case shared.EventRewardRedeemed:
		return fmt.Sprintf("redeemed reward %v", payload["reward_id"])
	case shared.EventDailyBonusClaimed:
		return "claimed the daily bonus"
	case shared.EventResourcePinToggled:
		return fmt.Sprintf("toggled pin on %v", payload["resource_id"])
	case shared.EventRecordDeleted:
		return "logged out"
	default:
		return string(event.EventType())
	}
}
