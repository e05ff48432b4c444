package render

import (
	"fmt"
	"sort"
)

type HeaderStyle string

const (
	HeaderPlain    HeaderStyle = "plain"
	HeaderCentered HeaderStyle = "centered"
	HeaderBar      HeaderStyle = "bar"
	HeaderGradient HeaderStyle = "gradient"
)

type BulletStyle string

const (
	BulletGlyph BulletStyle = "glyph"
	BulletImage BulletStyle = "image"
)

type SectionKind string

const (
	SectionObjective      SectionKind = "objective"
	SectionContact        SectionKind = "contact"
	SectionEducation      SectionKind = "education"
	SectionSkills         SectionKind = "skills"
	SectionExperience     SectionKind = "experience"
	SectionProjects       SectionKind = "projects"
	SectionCertifications SectionKind = "certifications"
	SectionDeclaration    SectionKind = "declaration"
)

type Section struct {
	Kind  SectionKind
	Title string
}

// RGB is a palette entry in 0-255 components.
type RGB struct{ R, G, B uint8 }

func (c RGB) CSS() string { return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B) }

type Palette struct {
	Primary   RGB
	Accent    RGB
	Text      RGB
	Title     RGB
	Band      RGB
	ProjectBG RGB
	// Gradient, when set, paints the header bar from the first to the last stop.
	Gradient []RGB
}

// Layout describes one resume design. Every layout is rendered by the same
// template; only this configuration differs.
type Layout struct {
	ID           int
	Name         string
	Description  string
	Header       HeaderStyle
	Sections     []Section
	Bullet       BulletStyle
	Palette      Palette
	Font         string
	ProjectTable bool
	SkillColumns int
	Logo         bool
	// Band, when non-empty, is the label of the shaded strip that carries
	// the objective under the header.
	Band string
}

const DefaultLayoutID = 1

var definitions = map[int]Layout{
	1: {
		ID:          1,
		Name:        "Classic",
		Description: "Traditional layout with company logo, blue headings and a project table",
		Header:      HeaderPlain,
		Sections: []Section{
			{SectionObjective, "Objective"},
			{SectionEducation, "Education"},
			{SectionSkills, "Skills"},
			{SectionExperience, "Experience"},
			{SectionProjects, "Projects"},
			{SectionCertifications, "Certifications"},
			{SectionDeclaration, "Declaration"},
		},
		Bullet: BulletGlyph,
		Palette: Palette{
			Primary: RGB{0, 0, 0},
			Accent:  RGB{0, 0, 255},
			Text:    RGB{0, 0, 0},
			Title:   RGB{0, 0, 255},
		},
		Font:         "Arial, Helvetica, sans-serif",
		ProjectTable: true,
		SkillColumns: 1,
		Logo:         true,
	},
	2: {
		ID:          2,
		Name:        "Typewriter",
		Description: "Centered monospace header with image bullets",
		Header:      HeaderCentered,
		Sections: []Section{
			{SectionObjective, "Summary"},
			{SectionEducation, "Education"},
			{SectionSkills, "Skills"},
			{SectionExperience, "Experience"},
			{SectionProjects, "Projects"},
			{SectionCertifications, "Certifications"},
		},
		Bullet: BulletImage,
		Palette: Palette{
			Primary: RGB{0, 0, 0},
			Accent:  RGB{0, 0, 0},
			Text:    RGB{0, 0, 0},
			Title:   RGB{0, 0, 0},
		},
		Font:         "'Courier New', Courier, monospace",
		SkillColumns: 1,
	},
	3: {
		ID:          3,
		Name:        "Executive",
		Description: "Dark blue header bar with gold accent and a profile band",
		Header:      HeaderBar,
		Sections: []Section{
			{SectionContact, "Contact"},
			{SectionSkills, "Skills"},
			{SectionExperience, "Experience"},
			{SectionProjects, "Projects"},
			{SectionEducation, "Education"},
			{SectionCertifications, "Certifications"},
		},
		Bullet: BulletGlyph,
		Palette: Palette{
			Primary: RGB{30, 45, 80},
			Accent:  RGB{255, 215, 0},
			Text:    RGB{50, 50, 50},
			Title:   RGB{30, 45, 80},
			Band:    RGB{240, 240, 240},
		},
		Font:         "Helvetica, Arial, sans-serif",
		SkillColumns: 2,
		Band:         "PROFILE",
	},
	4: {
		ID:          4,
		Name:        "Portfolio",
		Description: "Purple gradient header with a skills grid and project cards",
		Header:      HeaderGradient,
		Sections: []Section{
			{SectionObjective, "About Me"},
			{SectionSkills, "Skills"},
			{SectionProjects, "PORTFOLIO"},
			{SectionExperience, "Experience"},
			{SectionEducation, "Education"},
			{SectionCertifications, "Certifications"},
		},
		Bullet: BulletGlyph,
		Palette: Palette{
			Primary:   RGB{102, 0, 204},
			Accent:    RGB{187, 143, 206},
			Text:      RGB{40, 40, 40},
			Title:     RGB{102, 51, 204},
			ProjectBG: RGB{230, 230, 250},
			Gradient:  []RGB{{153, 119, 230}, {127, 85, 217}, {102, 51, 204}},
		},
		Font:         "Helvetica, Arial, sans-serif",
		SkillColumns: 3,
	},
	5: {
		ID:          5,
		Name:        "Minimal",
		Description: "Plain serif layout with a technical skills block",
		Header:      HeaderPlain,
		Sections: []Section{
			{SectionObjective, "Summary"},
			{SectionSkills, "TECHNICAL SKILLS"},
			{SectionExperience, "Experience"},
			{SectionProjects, "Projects"},
			{SectionEducation, "Education"},
		},
		Bullet: BulletGlyph,
		Palette: Palette{
			Text:  RGB{0, 0, 0},
			Title: RGB{0, 0, 0},
		},
		Font:         "'Times New Roman', Times, serif",
		SkillColumns: 1,
	},
}

// Definition returns any defined layout, registered or not. It exists for
// previews and tooling; request handling goes through a Registry.
func Definition(id int) (Layout, bool) {
	l, ok := definitions[id]
	return l, ok
}

// Registry holds the layouts that requests may select.
type Registry struct {
	layouts map[int]Layout
}

// NewRegistry registers the given layout ids. The default layout is always
// registered.
func NewRegistry(ids ...int) *Registry {
	r := &Registry{layouts: map[int]Layout{}}
	r.layouts[DefaultLayoutID] = definitions[DefaultLayoutID]
	for _, id := range ids {
		if l, ok := definitions[id]; ok {
			r.layouts[id] = l
		}
	}
	return r
}

// DefaultRegistry exposes layouts 1 through 4. Minimal is defined but not
// offered.
func DefaultRegistry() *Registry {
	return NewRegistry(1, 2, 3, 4)
}

// Lookup resolves id, falling back to the default layout for anything
// unregistered.
func (r *Registry) Lookup(id int) (Layout, bool) {
	if l, ok := r.layouts[id]; ok {
		return l, false
	}
	return r.layouts[DefaultLayoutID], true
}

// List returns the registered layouts ordered by id.
func (r *Registry) List() []Layout {
	out := make([]Layout, 0, len(r.layouts))
	for _, l := range r.layouts {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
