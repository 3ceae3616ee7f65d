package catalog

import (
	"github.com/KunafaIceCream/udst-healthpage/internal/domain/leaderboard"
	"github.com/KunafaIceCream/udst-healthpage/internal/domain/progression"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRAMS (Справочник программ)
// ══════════════════════════════════════════════════════════════════════════════

// ProgramInfo описывает учебную программу колледжа.
type ProgramInfo struct {
	Program     progression.Program `json:"program"`
	Title       string              `json:"title"`
	ShortTitle  string              `json:"short_title"`
	Description string              `json:"description"`
	IconTag     string              `json:"icon_tag"`
}

var programs = []ProgramInfo{
	{
		Program:     progression.ProgramParamedicine,
		Title:       "Paramedicine (B.Sc. P)",
		ShortTitle:  "Paramedicine",
		Description: "Prepare for emergency care roles with hands-on simulation training, advanced life support protocols, and real-world clinical rotations.",
		IconTag:     "Ambulance",
	},
	{
		Program:     progression.ProgramNursing,
		Title:       "Nursing (B.Sc. N)",
		ShortTitle:  "Nursing",
		Description: "Become a registered nurse leader through comprehensive clinical education, patient care excellence, and evidence-based practice.",
		IconTag:     "Heart",
	},
	{
		Program:     progression.ProgramRadiography,
		Title:       "Medical Radiography (B.Sc. MR)",
		ShortTitle:  "Medical Radiography",
		Description: "Master imaging technology with advanced radiology software, diagnostic techniques, and cutting-edge medical imaging equipment.",
		IconTag:     "Scan",
	},
}

// Programs возвращает справочник программ.
func Programs() []ProgramInfo {
	out := make([]ProgramInfo, len(programs))
	copy(out, programs)
	return out
}

// FindProgram возвращает описание программы.
func FindProgram(program progression.Program) (ProgramInfo, bool) {
	for _, p := range programs {
		if p.Program == program {
			return p, true
		}
	}
	return ProgramInfo{}, false
}

// ══════════════════════════════════════════════════════════════════════════════
// STANDINGS (Внешний рейтинг)
// ══════════════════════════════════════════════════════════════════════════════

// WeeklyStandings возвращает внешний рейтинг участников недели.
// Список приходит из внешнего источника и в рамках движка статичен.
func WeeklyStandings() []leaderboard.Standing {
	return []leaderboard.Standing{
		{Username: "StudentA", Points: 520},
		{Username: "StudentB", Points: 485},
		{Username: "StudentC", Points: 450},
		{Username: "StudentD", Points: 420},
		{Username: "StudentE", Points: 395},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// DAILY CHALLENGES (Ежедневные задания)
// ══════════════════════════════════════════════════════════════════════════════

// DailyChallenge описывает ежедневное задание.
type DailyChallenge struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Points      progression.Points `json:"points"`
}

// DailyChallenges возвращает список ежедневных заданий.
func DailyChallenges() []DailyChallenge {
	return []DailyChallenge{
		{ID: "dc1", Title: "Daily Login", Description: "Log in today for bonus points!", Points: progression.DailyBonus},
		{ID: "dc2", Title: "Access a Resource", Description: "Open any learning resource", Points: progression.ResourceAccessBonus},
		{ID: "dc3", Title: "Visit the Forum", Description: "Check the collaboration forum", Points: progression.ResourceAccessBonus},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ANNOUNCEMENTS (Объявления)
// ══════════════════════════════════════════════════════════════════════════════

// Announcement описывает объявление факультета.
type Announcement struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Date    string `json:"date"`
	Content string `json:"content"`
}

// Announcements возвращает объявления факультета, новые первыми.
func Announcements() []Announcement {
	return []Announcement{
		{ID: "1", Title: "Spring 2026 Registration Open", Date: "2026-01-15", Content: "Course registration for Spring 2026 is now available."},
		{ID: "2", Title: "Clinical Placement Updates", Date: "2026-01-10", Content: "New clinical sites added for nursing students."},
		{ID: "3", Title: "Equipment Maintenance", Date: "2026-01-08", Content: "Radiology lab will be closed for maintenance on Jan 20."},
	}
}
