package domain

// CandidateProfile is the canonical, normalized representation of a
// candidate's resume content. Every collection is non-nil once built by
// Normalize; renderers receive it by value and only read from it.
type CandidateProfile struct {
	Name           string       `json:"name"`
	Designation    string       `json:"designation"`
	Objective      string       `json:"objective"`
	Education      Education    `json:"education"`
	Skills         Skills       `json:"skills"`
	Projects       []Project    `json:"projects"`
	ProjectShape   ProjectShape `json:"project_shape"`
	Contact        Contact      `json:"contact"`
	Experience     []Experience `json:"experience"`
	Certifications []string     `json:"certifications"`
	Declaration    string       `json:"declaration"`
}

const (
	DefaultName        = "Candidate"
	DefaultDesignation = "Professional"
	DefaultObjective   = "Experienced professional seeking new opportunities."
)

// EducationKind tags which raw shape the education field arrived in.
type EducationKind string

const (
	EducationNone       EducationKind = ""
	EducationText       EducationKind = "text"
	EducationList       EducationKind = "list"
	EducationStructured EducationKind = "structured"
)

type EducationRecord struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Duration    string `json:"duration"`
}

// Education is a tagged union: exactly one of Text, Items or Records is
// meaningful, selected by Kind.
type Education struct {
	Kind    EducationKind     `json:"kind"`
	Text    string            `json:"text,omitempty"`
	Items   []string          `json:"items"`
	Records []EducationRecord `json:"records"`
}

func (e Education) Empty() bool {
	switch e.Kind {
	case EducationText:
		return e.Text == ""
	case EducationList:
		return len(e.Items) == 0
	case EducationStructured:
		return len(e.Records) == 0
	}
	return true
}

// Lines flattens education into display lines regardless of shape.
func (e Education) Lines() []string {
	switch e.Kind {
	case EducationText:
		if e.Text == "" {
			return nil
		}
		return []string{e.Text}
	case EducationList:
		return e.Items
	case EducationStructured:
		out := make([]string, 0, len(e.Records))
		for _, r := range e.Records {
			out = append(out, joinNonEmpty(", ", r.Degree, r.Institution, r.Duration))
		}
		return out
	}
	return nil
}

type SkillsKind string

const (
	SkillsNone        SkillsKind = ""
	SkillsFlat        SkillsKind = "flat"
	SkillsCategorized SkillsKind = "categorized"
)

type SkillCategory struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// Skills is either a flat list or an ordered list of named categories.
type Skills struct {
	Kind       SkillsKind      `json:"kind"`
	Items      []string        `json:"items"`
	Categories []SkillCategory `json:"categories"`
}

func (s Skills) Empty() bool {
	switch s.Kind {
	case SkillsFlat:
		return len(s.Items) == 0
	case SkillsCategorized:
		return len(s.Categories) == 0
	}
	return true
}

// All returns every skill in display order, categories flattened.
func (s Skills) All() []string {
	if s.Kind == SkillsFlat {
		return s.Items
	}
	var out []string
	for _, c := range s.Categories {
		out = append(out, c.Items...)
	}
	return out
}

// ProjectShape records which of the two historical project shapes the
// profile was built from, so ToMap can round-trip it.
type ProjectShape string

const (
	ProjectsNone    ProjectShape = ""
	ProjectsMapping ProjectShape = "project_details"
	ProjectsList    ProjectShape = "projects"
)

type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Description string `json:"description"`
	Technology  string `json:"technology"`
	RolePlayed  string `json:"role_played"`
}

type Contact struct {
	Email    string   `json:"email,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Location string   `json:"location,omitempty"`
	Text     string   `json:"text,omitempty"`
	Links    []string `json:"links"`
}

func (c Contact) Empty() bool {
	return c.Email == "" && c.Phone == "" && c.Location == "" && c.Text == "" && len(c.Links) == 0
}

type Experience struct {
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Duration         string   `json:"duration"`
	Responsibilities []string `json:"responsibilities"`
}

// PlaceholderProfile is returned when no candidate material was supplied
// at all.
func PlaceholderProfile() CandidateProfile {
	return cannedProfile(DefaultName, "provided")
}

// FallbackProfile is used when the text-generation output could not be
// turned into a profile. The name is guessed from the old resume text.
func FallbackProfile(oldResumeText string) CandidateProfile {
	name := FirstShortLine(oldResumeText)
	if name == "" {
		name = DefaultName
	}
	return cannedProfile(name, "extracted")
}

func cannedProfile(name, verb string) CandidateProfile {
	return CandidateProfile{
		Name:        name,
		Designation: DefaultDesignation,
		Objective:   DefaultObjective,
		Education:   Education{Kind: EducationList, Items: []string{"Education details not " + verb}, Records: []EducationRecord{}},
		Skills:      Skills{Kind: SkillsFlat, Items: []string{"Skills not " + verb}, Categories: []SkillCategory{}},
		Projects: []Project{{
			ID:          "project1",
			Name:        "Project",
			Role:        "Team Member",
			Description: "Project description not " + verb,
			Technology:  "Technologies not " + verb,
			RolePlayed:  "Role details not " + verb,
		}},
		ProjectShape:   ProjectsMapping,
		Contact:        Contact{Links: []string{}},
		Experience:     []Experience{},
		Certifications: []string{},
	}
}

// FirstShortLine returns the first non-empty trimmed line shorter than 50
// characters, or "".
func FirstShortLine(text string) string {
	for _, line := range splitLines(text) {
		if line != "" && len([]rune(line)) < 50 {
			return line
		}
	}
	return ""
}
