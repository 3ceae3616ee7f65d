package catalog

import "github.com/KunafaIceCream/udst-healthpage/internal/domain/progression"

// ══════════════════════════════════════════════════════════════════════════════
// RESOURCES (Каталог учебных ресурсов)
// ══════════════════════════════════════════════════════════════════════════════

// ResourceType представляет тип учебного ресурса.
type ResourceType string

const (
	ResourceLMS          ResourceType = "lms"
	ResourceCalendar     ResourceType = "calendar"
	ResourceDrive        ResourceType = "drive"
	ResourceForum        ResourceType = "forum"
	ResourceSoftware     ResourceType = "software"
	ResourceAnnouncement ResourceType = "announcement"
)

// ProgramScope определяет аудиторию ресурса: конкретная программа или все.
type ProgramScope string

// ScopeAll - ресурс доступен всем программам.
const ScopeAll ProgramScope = "all"

// Matches проверяет, виден ли ресурс участнику указанной программы.
func (s ProgramScope) Matches(program progression.Program) bool {
	return s == ScopeAll || string(s) == string(program)
}

// Resource описывает учебный ресурс каталога.
// DefaultPinned - рекомендация каталога; фактическое закрепление живёт
// в progression.PinnedSet и управляется преподавателями.
type Resource struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Type          ResourceType `json:"type"`
	Program       ProgramScope `json:"program"`
	URL           string       `json:"url"`
	DefaultPinned bool         `json:"default_pinned"`
	IconTag       string       `json:"icon_tag"`
}

var resources = []Resource{
	// Paramedicine
	{ID: "p1", Title: "Emergency Care Protocols", Description: "LMS course materials for emergency response", Type: ResourceLMS, Program: "paramedicine", URL: "#", DefaultPinned: true, IconTag: "BookOpen"},
	{ID: "p2", Title: "Sim Lab Scheduler", Description: "Book your simulation lab sessions", Type: ResourceCalendar, Program: "paramedicine", URL: "#", IconTag: "Calendar"},
	{ID: "p3", Title: "Paramedicine Resources", Description: "Shared Google Drive folder", Type: ResourceDrive, Program: "paramedicine", URL: "#", IconTag: "Folder"},
	{ID: "p4", Title: "Peer Discussion Forum", Description: "Collaborate with fellow students", Type: ResourceForum, Program: "paramedicine", URL: "#", IconTag: "MessageSquare"},

	// Nursing
	{ID: "n1", Title: "Clinical Rotation Tools", Description: "Track and manage clinical placements", Type: ResourceLMS, Program: "nursing", URL: "#", DefaultPinned: true, IconTag: "Stethoscope"},
	{ID: "n2", Title: "Peer Review Forum", Description: "Share and review case studies", Type: ResourceForum, Program: "nursing", URL: "#", IconTag: "MessageSquare"},
	{ID: "n3", Title: "Study Guides Library", Description: "Comprehensive nursing study materials", Type: ResourceDrive, Program: "nursing", URL: "#", IconTag: "FileText"},
	{ID: "n4", Title: "Skills Lab Booking", Description: "Reserve nursing skills lab time", Type: ResourceCalendar, Program: "nursing", URL: "#", IconTag: "Calendar"},

	// Radiography
	{ID: "r1", Title: "Radiology Software Access", Description: "PACS and imaging software portal", Type: ResourceSoftware, Program: "radiography", URL: "#", DefaultPinned: true, IconTag: "Monitor"},
	{ID: "r2", Title: "Case Study Database", Description: "Browse diagnostic imaging cases", Type: ResourceLMS, Program: "radiography", URL: "#", IconTag: "Database"},
	{ID: "r3", Title: "Equipment Booking", Description: "Reserve imaging equipment", Type: ResourceCalendar, Program: "radiography", URL: "#", IconTag: "Calendar"},
	{ID: "r4", Title: "Imaging Techniques Guide", Description: "Best practices and protocols", Type: ResourceDrive, Program: "radiography", URL: "#", IconTag: "FileImage"},

	// All programs
	{ID: "a1", Title: "LMS Dashboard", Description: "Access all your courses", Type: ResourceLMS, Program: ScopeAll, URL: "#", DefaultPinned: true, IconTag: "GraduationCap"},
	{ID: "a2", Title: "Shared Resources", Description: "College-wide resource library", Type: ResourceDrive, Program: ScopeAll, URL: "#", IconTag: "FolderOpen"},
	{ID: "a3", Title: "Collaboration Forum", Description: "Cross-program discussions", Type: ResourceForum, Program: ScopeAll, URL: "#", IconTag: "Users"},
	{ID: "a4", Title: "Faculty Announcements", Description: "Latest updates from faculty", Type: ResourceAnnouncement, Program: ScopeAll, URL: "#", DefaultPinned: true, IconTag: "Bell"},
}

// Resources возвращает копию каталога ресурсов.
func Resources() []Resource {
	out := make([]Resource, len(resources))
	copy(out, resources)
	return out
}

// ResourcesForProgram возвращает ресурсы программы вместе с общими.
func ResourcesForProgram(program progression.Program) []Resource {
	var out []Resource
	for _, r := range resources {
		if r.Program.Matches(program) {
			out = append(out, r)
		}
	}
	return out
}

// FindResource возвращает ресурс по идентификатору.
func FindResource(id string) (Resource, bool) {
	for _, r := range resources {
		if r.ID == id {
			return r, true
		}
	}
	return Resource{}, false
}
