// Package progression содержит доменную модель прогресса пользователя портала.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package progression

import (
	"errors"
	"strings"
	"time"

	"github.com/KunafaIceCream/udst-healthpage/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Points представляет баланс очков вовлечённости пользователя.
// Баланс сам по себе не обязан быть неотрицательным: проверка платёжеспособности
// выполняется только на границе обмена наград.
type Points int

// Add складывает очки.
func (p Points) Add(delta Points) Points {
	return p + delta
}

// CanAfford проверяет, хватает ли очков на указанную стоимость.
func (p Points) CanAfford(cost Points) bool {
	return p >= cost
}

// Shortfall возвращает, скольких очков не хватает до стоимости.
// Возвращает 0, если очков достаточно.
func (p Points) Shortfall(cost Points) Points {
	if p >= cost {
		return 0
	}
	return cost - p
}

// Int возвращает числовое значение.
func (p Points) Int() int {
	return int(p)
}

// Константы начисления очков.
const (
	// WelcomeBonus - приветственный бонус при регистрации.
	WelcomeBonus Points = 50
	// ResourceAccessBonus - бонус за первое открытие ресурса.
	ResourceAccessBonus Points = 5
	// CollaborationBonus - бонус за участие в совместной работе.
	CollaborationBonus Points = 15
	// DailyBonus - ежедневный бонус за вход.
	DailyBonus Points = 10
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Role определяет роль пользователя на портале.
type Role string

const (
	// RoleStudent - студент программы.
	RoleStudent Role = "student"
	// RoleFaculty - преподаватель.
	RoleFaculty Role = "faculty"
)

// IsValid проверяет, что роль корректна.
func (r Role) IsValid() bool {
	return r == RoleStudent || r == RoleFaculty
}

// CanCurate возвращает true, если роль позволяет закреплять ресурсы.
func (r Role) CanCurate() bool {
	return r == RoleFaculty
}

// Program представляет учебную программу колледжа Health Sciences.
// Программа назначается при регистрации и после этого не меняется;
// фильтр просмотра ресурсов - отдельная настройка интерфейса.
type Program string

const (
	// ProgramParamedicine - парамедицина (B.Sc. P).
	ProgramParamedicine Program = "paramedicine"
	// ProgramNursing - сестринское дело (B.Sc. N).
	ProgramNursing Program = "nursing"
	// ProgramRadiography - медицинская радиография (B.Sc. MR).
	ProgramRadiography Program = "radiography"
)

// IsValid проверяет, что программа корректна.
func (p Program) IsValid() bool {
	switch p {
	case ProgramParamedicine, ProgramNursing, ProgramRadiography:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление программы.
func (p Program) String() string {
	return string(p)
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidName - пустое имя.
	ErrInvalidName = errors.New("invalid name: must not be empty")

	// ErrInvalidEmail - пустой или некорректный email.
	ErrInvalidEmail = errors.New("invalid email: must not be empty")

	// ErrInvalidPassword - слишком короткий пароль.
	ErrInvalidPassword = errors.New("invalid password: must be at least 6 characters")

	// ErrInvalidRole - неизвестная роль.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidProgram - неизвестная программа.
	ErrInvalidProgram = errors.New("invalid program")

	// ErrRecordNotFound - запись прогресса не найдена.
	ErrRecordNotFound = errors.New("progression record not found")
)

// MinPasswordLength - минимальная длина пароля при регистрации.
const MinPasswordLength = 6

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: RECORD
// ══════════════════════════════════════════════════════════════════════════════

// Record - центральная сущность движка вовлечённости: запись прогресса
// одного пользователя. Ровно одна активная запись на сессию.
type Record struct {
	// ID - внутренний уникальный идентификатор (UUID в строковом формате).
	// Назначается при создании и не меняется.
	ID string `json:"id"`

	// Name - отображаемое имя пользователя.
	Name string `json:"name"`

	// Email - ключ поиска записи при возобновлении сессии.
	Email string `json:"email"`

	// PasswordHash - bcrypt-хеш пароля. Хранится, чтобы не держать пароль
	// открытым текстом; при входе НЕ сверяется.
	PasswordHash string `json:"password_hash,omitempty"`

	// Role - роль пользователя (student или faculty).
	Role Role `json:"role"`

	// Program - домашняя программа пользователя.
	Program Program `json:"program"`

	// Points - текущий баланс очков.
	Points Points `json:"points"`

	// Streak - количество последовательных дней с активностью (>= 1).
	Streak int `json:"streak"`

	// Badges - полученные значки в порядке получения.
	Badges []EarnedBadge `json:"badges"`

	// ResourcesAccessed - идентификаторы открытых ресурсов в порядке
	// первого открытия. Повторные открытия не записываются.
	ResourcesAccessed []string `json:"resources_accessed"`

	// Collaborations - счётчик совместных работ.
	Collaborations int `json:"collaborations"`

	// LastLogin - время последнего входа или возобновления сессии.
	LastLogin time.Time `json:"last_login"`

	// CreatedAt - время создания записи.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRecordParams содержит параметры для создания новой записи прогресса.
type NewRecordParams struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Program      Program
}

// NewRecord создаёт новую запись прогресса с валидацией всех полей.
// Новая запись получает приветственный бонус и серию из одного дня.
func NewRecord(params NewRecordParams) (*Record, error) {
	if params.ID == "" {
		return nil, errors.New("record id is required")
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	email := strings.TrimSpace(params.Email)
	if email == "" {
		return nil, ErrInvalidEmail
	}

	if !params.Role.IsValid() {
		return nil, ErrInvalidRole
	}

	if !params.Program.IsValid() {
		return nil, ErrInvalidProgram
	}

	now := time.Now().UTC()

	return &Record{
		ID:                params.ID,
		Name:              name,
		Email:             email,
		PasswordHash:      params.PasswordHash,
		Role:              params.Role,
		Program:           params.Program,
		Points:            WelcomeBonus,
		Streak:            1,
		Badges:            []EarnedBadge{},
		ResourcesAccessed: []string{},
		Collaborations:    0,
		LastLogin:         now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS (Business Logic)
// ══════════════════════════════════════════════════════════════════════════════

// AddPoints изменяет баланс на delta (может быть отрицательной).
// Нижней границы нет: контроль платёжеспособности - забота обмена наград.
func (r *Record) AddPoints(delta Points) Points {
	r.Points = r.Points.Add(delta)
	r.touch()
	return r.Points
}

// HasAccessedResource проверяет, открывал ли пользователь ресурс ранее.
func (r *Record) HasAccessedResource(resourceID string) bool {
	for _, id := range r.ResourcesAccessed {
		if id == resourceID {
			return true
		}
	}
	return false
}

// AccessResource записывает первое открытие ресурса и начисляет бонус.
// Повторное открытие - no-op: возвращает false, запись не меняется.
func (r *Record) AccessResource(resourceID string) bool {
	if r.HasAccessedResource(resourceID) {
		return false
	}
	r.ResourcesAccessed = append(r.ResourcesAccessed, resourceID)
	r.Points = r.Points.Add(ResourceAccessBonus)
	r.touch()
	return true
}

// AddCollaboration увеличивает счётчик совместных работ и начисляет бонус.
// Дедупликации нет - операция повторяемая.
func (r *Record) AddCollaboration() {
	r.Collaborations++
	r.Points = r.Points.Add(CollaborationBonus)
	r.touch()
}

// touch обновляет UpdatedAt.
func (r *Record) touch() {
	r.UpdatedAt = time.Now().UTC()
}

// ══════════════════════════════════════════════════════════════════════════════
// STREAK (Серия активных дней)
// ══════════════════════════════════════════════════════════════════════════════

// StreakTransition описывает результат пересчёта серии при возобновлении сессии.
type StreakTransition string

const (
	// StreakUnchanged - возобновление в тот же календарный день.
	StreakUnchanged StreakTransition = "unchanged"
	// StreakExtended - возобновление на следующий день, серия продолжена.
	StreakExtended StreakTransition = "extended"
	// StreakResetTransition - пропущен хотя бы один день, серия сброшена.
	StreakResetTransition StreakTransition = "reset"
)

// StampLogin записывает момент входа и возвращает предыдущую отметку.
// Серию не трогает: пересчёт серии выполняет только ResumeStreak.
func (r *Record) StampLogin(now time.Time) time.Time {
	previous := r.LastLogin
	r.LastLogin = now
	r.touch()
	return previous
}

// ResumeStreak пересчитывает серию по календарной разнице дней между последним
// входом и моментом возобновления. Это единственное место, где меняется Streak.
// Возвращает характер перехода и количество пропущенных календарных дней.
//
//	1 день   -> серия +1
//	> 1 дня  -> серия = 1
//	тот же день -> без изменений
func (r *Record) ResumeStreak(now time.Time) (StreakTransition, int) {
	daysDiff := timeutil.DaysBetween(r.LastLogin, now)

	transition := StreakUnchanged
	switch {
	case daysDiff == 1:
		r.Streak++
		transition = StreakExtended
	case daysDiff > 1:
		r.Streak = 1
		transition = StreakResetTransition
	}

	r.LastLogin = now
	r.touch()
	return transition, daysDiff
}

// ══════════════════════════════════════════════════════════════════════════════
// AUXILIARY FLAGS
// ══════════════════════════════════════════════════════════════════════════════

// PinnedSet - упорядоченное множество закреплённых ресурсов.
// Хранится отдельно от записи прогресса и имеет собственный жизненный цикл.
type PinnedSet []string

// Contains проверяет членство ресурса в множестве.
func (s PinnedSet) Contains(resourceID string) bool {
	for _, id := range s {
		if id == resourceID {
			return true
		}
	}
	return false
}

// Toggle переключает членство ресурса: добавляет отсутствующий и удаляет
// присутствующий. Возвращает новое множество и true, если ресурс закреплён.
func (s PinnedSet) Toggle(resourceID string) (PinnedSet, bool) {
	if !s.Contains(resourceID) {
		return append(append(PinnedSet{}, s...), resourceID), true
	}

	next := make(PinnedSet, 0, len(s)-1)
	for _, id := range s {
		if id != resourceID {
			next = append(next, id)
		}
	}
	return next, false
}
