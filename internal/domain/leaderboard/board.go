// Package leaderboard содержит доменную модель лидерборда портала
// UDST Health Sciences. Лидерборд - производное представление: он каждый раз
// строится заново из внешнего списка участников и текущей записи прогресса
// и нигде не сохраняется.
package leaderboard

import (
	"errors"
	"fmt"
	"sort"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Rank представляет позицию участника в лидерборде.
// Rank начинается с 1 (первое место).
type Rank int

// IsValid проверяет, что ранг положительный.
func (r Rank) IsValid() bool {
	return r > 0
}

// String возвращает строковое представление ранга.
func (r Rank) String() string {
	return fmt.Sprintf("#%d", r)
}

// CurrentUserName - подпись синтетической записи текущего пользователя.
const CurrentUserName = "You"

// DefaultWindowSize - размер видимого окна лидерборда.
const DefaultWindowSize = 5

// ══════════════════════════════════════════════════════════════════════════════
// ENTRIES
// ══════════════════════════════════════════════════════════════════════════════

// Standing представляет внешнего участника рейтинга. Внешний список не несёт
// идентификаторов: участники различаются только именем и баллами.
type Standing struct {
	Username string `json:"username"`
	Points   int    `json:"points"`
}

// Entry представляет одну строку составленного лидерборда.
type Entry struct {
	// Rank - позиция в видимом окне.
	Rank Rank `json:"rank"`

	// Username - отображаемое имя участника.
	Username string `json:"username"`

	// Points - баллы участника.
	Points int `json:"points"`

	// IsCurrentUser - true для синтетической записи текущего пользователя.
	IsCurrentUser bool `json:"is_current_user"`
}

// ══════════════════════════════════════════════════════════════════════════════
// COMPOSER
// ══════════════════════════════════════════════════════════════════════════════

// ErrEmptyStandings - внешний список участников пуст.
var ErrEmptyStandings = errors.New("standings list is empty")

// Composer строит видимое окно лидерборда из внешнего списка участников
// и баллов текущего пользователя.
type Composer struct {
	standings  []Standing
	windowSize int
}

// NewComposer создаёт Composer поверх внешнего списка.
// Список копируется и сортируется по убыванию баллов один раз.
func NewComposer(standings []Standing, windowSize int) (*Composer, error) {
	if len(standings) == 0 {
		return nil, ErrEmptyStandings
	}
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}

	sorted := make([]Standing, len(standings))
	copy(sorted, standings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Points > sorted[j].Points
	})

	return &Composer{standings: sorted, windowSize: windowSize}, nil
}

// UserRank возвращает ранг пользователя: 1 + количество участников с большими
// или равными баллами. При равенстве баллов преимущество у существующих
// участников: пользователь встаёт после них.
func (c *Composer) UserRank(userPoints int) Rank {
	rank := 1
	for _, s := range c.standings {
		if s.Points >= userPoints {
			rank++
		}
	}
	return Rank(rank)
}

// Compose строит видимое окно лидерборда.
//
// Если ранг пользователя помещается в окно, синтетическая запись "You"
// вставляется на свою позицию, а последний участник вытесняется, чтобы
// размер окна остался неизменным. Иначе пользователь в окно не попадает.
func (c *Composer) Compose(userPoints int) []Entry {
	userRank := c.UserRank(userPoints)

	entries := make([]Entry, 0, c.windowSize)
	for _, s := range c.standings {
		entries = append(entries, Entry{
			Username: s.Username,
			Points:   s.Points,
		})
	}

	if int(userRank) <= c.windowSize {
		you := Entry{
			Username:      CurrentUserName,
			Points:        userPoints,
			IsCurrentUser: true,
		}
		idx := int(userRank) - 1
		entries = append(entries, Entry{})
		copy(entries[idx+1:], entries[idx:])
		entries[idx] = you
	}

	if len(entries) > c.windowSize {
		entries = entries[:c.windowSize]
	}

	for i := range entries {
		entries[i].Rank = Rank(i + 1)
	}
	return entries
}
