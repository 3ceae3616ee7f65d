// Package progression содержит доменную модель вовлечённости портала
// UDST Health Sciences.
//
// Это ядро бизнес-логики системы. Пакет определяет:
//
//   - Сущности (Entities): Record, EarnedBadge
//   - Value Objects: Points, Role, Program, PinnedSet
//   - Доменные события (Events): RecordCreated, PointsChanged, BadgeUnlocked и др.
//   - Интерфейсы хранилищ: RecordStore, FlagStore, Store
//
// # Архитектурные принципы
//
// Пакет следует принципам Clean Architecture и DDD:
//
//  1. Нулевые внешние зависимости - только стандартная библиотека Go
//     и pkg/timeutil
//  2. Dependency Inversion - определяет интерфейсы, которые реализуются
//     в infrastructure
//  3. Rich Domain Model - бизнес-логика инкапсулирована в сущностях
//
// # Основные сущности
//
// Record - центральная сущность, представляющая прогресс участника:
//
//	record, err := NewRecord(NewRecordParams{
//	    ID:           uuid.New().String(),
//	    Name:         "Имя Участника",
//	    Email:        "student@udst.edu.qa",
//	    PasswordHash: hash,
//	    Role:         RoleStudent,
//	    Program:      ProgramNursing,
//	})
//
// Новая запись сразу получает приветственный бонус и серию входа в один день.
//
// # Правила начисления
//
// Баллы изменяются только через методы сущности:
//
//	record.AddPoints(ResourceAccessBonus)   // первый доступ к ресурсу
//	record.AddPoints(CollaborationBonus)    // новая коллаборация
//	record.AddPoints(-cost)                 // списание при обмене награды
//
// Отрицательный баланс запрещён только в точке обмена: проверка
// r.Points.CanAfford(cost) выполняется до списания.
//
// # Серия входов
//
// Серия изменяется ровно один раз за сессию, при возобновлении:
//
//	transition, daysAway := record.ResumeStreak(time.Now())
//
// Разница в один календарный день продлевает серию, больший разрыв
// сбрасывает её до единицы, повторный вход в тот же день ничего не меняет.
//
// # Значки
//
// Значки присваиваются по принципу защёлки: однажды заработанный значок
// не отзывается, даже если счётчик опустился ниже порога:
//
//	checker := NewBadgeChecker()
//	unlocked := checker.Check(record, time.Now())
//	for _, badge := range unlocked {
//	    event := NewBadgeUnlockedEvent(record, badge)
//	    eventBus.Publish(ctx, event)
//	}
package progression
