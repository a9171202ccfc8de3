package nav

// Section ids.
const (
	SectionAssignments      = "assignments"
	SectionSubmissions      = "submissions"
	SectionInterview        = "interview"
	SectionLearning         = "learning"
	SectionPapers           = "papers"
	SectionCreateAssignment = "create-assignment"
	SectionAssistant        = "assistant"

	// Modes of the mode-based layout.
	ModeTeach = "teach"
	ModePaper = "paper"
	ModeGrade = "grade"
)

// Navigation styles accepted by LayoutFor.
const (
	StyleSections = "sections"
	StyleModes    = "modes"
)

// Layout maps each dashboard to its ordered section ids.
type Layout map[Screen][]string

// SectionsLayout is the section-based dashboard arrangement.
func SectionsLayout() Layout {
	return Layout{
		ScreenStudent: {SectionAssignments, SectionSubmissions, SectionInterview, SectionLearning},
		ScreenTeacher: {SectionPapers, SectionCreateAssignment, SectionAssistant},
	}
}

// ModesLayout is the flat mode-based arrangement.
func ModesLayout() Layout {
	return Layout{
		ScreenStudent: {SectionInterview, SectionLearning, SectionAssignments},
		ScreenTeacher: {ModeTeach, ModePaper, ModeGrade, SectionPapers},
	}
}

// LayoutFor returns the layout for a configured style, defaulting to
// sections.
func LayoutFor(style string) Layout {
	if style == StyleModes {
		return ModesLayout()
	}
	return SectionsLayout()
}
