// Package eventhandler содержит обработчики доменных событий.
package eventhandler

import (
	"sync"

	"github.com/KunafaIceCream/udst-healthpage/internal/domain/progression"
	"github.com/KunafaIceCream/udst-healthpage/internal/domain/shared"
	"github.com/KunafaIceCream/udst-healthpage/pkg/logger"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON BADGE UNLOCKED HANDLER
// Реагирует на получение значка: структурированная запись в журнал и счётчик
// по видам значков. Счётчик отдаётся панели администратора.
// ═══════════════════════════════════════════════════════════════════════════

// OnBadgeUnlockedHandler обрабатывает событие получения значка.
type OnBadgeUnlockedHandler struct {
	logger *logger.Logger

	mu     sync.Mutex
	counts map[progression.BadgeKind]int
}

// NewOnBadgeUnlockedHandler создаёт обработчик.
func NewOnBadgeUnlockedHandler(log *logger.Logger) *OnBadgeUnlockedHandler {
	return &OnBadgeUnlockedHandler{
		logger: log.With(logger.Component("eventhandler.badge_unlocked")),
		counts: make(map[progression.BadgeKind]int),
	}
}

// Handle реализует shared.EventHandler.
func (h *OnBadgeUnlockedHandler) Handle(event shared.Event) error {
	if event.EventType() != shared.EventBadgeUnlocked {
		return nil
	}

	unlocked, ok := event.(progression.BadgeUnlockedEvent)
	if !ok {
		// Событие пришло из другого процесса в обобщённом конверте;
		// достаём вид значка из полезной нагрузки.
		kind, _ := event.Payload()["kind"].(string)
		h.record(progression.BadgeKind(kind))
		return nil
	}

	h.record(progression.BadgeKind(unlocked.Kind))
	h.logger.Info("badge unlocked",
		logger.MemberID(event.AggregateID()),
		logger.BadgeName(unlocked.BadgeName),
	)
	return nil
}

func (h *OnBadgeUnlockedHandler) record(kind progression.BadgeKind) {
	if kind == "" {
		return
	}
	h.mu.Lock()
	h.counts[kind]++
	h.mu.Unlock()
}

// Counts возвращает снимок счётчиков по видам значков.
func (h *OnBadgeUnlockedHandler) Counts() map[progression.BadgeKind]int {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(map[progression.BadgeKind]int, len(h.counts))
	for k, v := range h.counts {
		out[k] = v
	}
	return out
}
