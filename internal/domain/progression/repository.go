package progression

import (
	"context"

	"github.com/KunafaIceCream/udst-healthpage/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// STORE INTERFACES
// Эти интерфейсы определяют контракт для работы с хранилищем данных.
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// RecordStore хранит единственную активную запись прогресса.
// Каждая операция перезаписывает запись целиком под фиксированным ключом;
// частичных обновлений нет.
type RecordStore interface {
	// LoadRecord возвращает сохранённую запись.
	// Возвращает ErrRecordNotFound, если записи нет.
	LoadRecord(ctx context.Context) (*Record, error)

	// SaveRecord сохраняет запись целиком, заменяя предыдущую версию.
	SaveRecord(ctx context.Context, record *Record) error

	// DeleteRecord удаляет запись. Удаление необратимо.
	DeleteRecord(ctx context.Context) error
}

// FlagStore хранит вспомогательные флаги, живущие отдельно от записи.
type FlagStore interface {
	// ─────────────────────────────────────────────────────────────────────────
	// Daily Bonus
	// ─────────────────────────────────────────────────────────────────────────

	// DailyBonusClaimedOn возвращает дату последнего получения ежедневного
	// бонуса. Нулевая дата означает, что бонус ещё не получали.
	DailyBonusClaimedOn(ctx context.Context) (timeutil.CivilDate, error)

	// SetDailyBonusClaimedOn записывает дату получения бонуса.
	SetDailyBonusClaimedOn(ctx context.Context, date timeutil.CivilDate) error

	// ClearDailyBonus удаляет флаг бонуса (при выходе из системы).
	ClearDailyBonus(ctx context.Context) error

	// ─────────────────────────────────────────────────────────────────────────
	// Pinned Resources
	// Множество закреплённых ресурсов переживает выход из системы:
	// закрепление - кураторская настройка факультета, а не личный прогресс.
	// ─────────────────────────────────────────────────────────────────────────

	// PinnedResources возвращает множество закреплённых ресурсов.
	// Отсутствие ключа - пустое множество, не ошибка.
	PinnedResources(ctx context.Context) (PinnedSet, error)

	// SavePinnedResources сохраняет множество целиком.
	SavePinnedResources(ctx context.Context, pinned PinnedSet) error
}

// Store объединяет оба хранилища. Реализации обязаны использовать независимые
// ключи для записи, флага бонуса и закреплённых ресурсов.
type Store interface {
	RecordStore
	FlagStore
}
