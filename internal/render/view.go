package render

import (
	"fmt"
	"html/template"
	"net/url"
	"regexp"
	"strings"

	"resume-builder/internal/domain"

	"golang.org/x/net/publicsuffix"
)

const glyph = "•"

type link struct {
	URL   string
	Label string
}

type listView struct {
	Marker template.HTML
	Items  []string
}

type sectionView struct {
	Kind  SectionKind
	Title string
}

type skillGroupView struct {
	Name  string
	Items []string
}

type projectView struct {
	Name, Role, Description, Technology, RolePlayed string
}

type experienceView struct {
	Title, Company, Duration string
	Responsibilities         []string
}

type documentView struct {
	Layout       Layout
	CSS          template.CSS
	Vars         template.CSS
	Logo         template.URL
	Marker       template.HTML
	Name         string
	Designation  string
	ContactLines []string
	Links        []link

	Objective        string
	Sections         []sectionView
	Education        []string
	EducationRecords []domain.EducationRecord
	Skills           []string
	SkillGroups      []skillGroupView
	Projects         []projectView
	Experience       []experienceView
	Certifications   []string
	Declaration      string

	Paragraphs []string
}

func (r *Renderer) headerView(p domain.CandidateProfile, l Layout) documentView {
	v := documentView{
		Layout:      l,
		CSS:         r.css,
		Vars:        cssVars(l),
		Name:        Sanitize(p.Name),
		Designation: Sanitize(p.Designation),
		Marker:      template.HTML(`<span class="bullet">` + glyph + `</span>`),
	}
	if l.Logo {
		v.Logo = r.logo
	}
	if l.Bullet == BulletImage && r.bullet != "" {
		v.Marker = template.HTML(`<img class="bullet" src="` + string(r.bullet) + `" alt="">`)
	}
	for _, s := range []string{p.Contact.Email, p.Contact.Phone, p.Contact.Location, p.Contact.Text} {
		if s = strings.TrimSpace(s); s != "" {
			v.ContactLines = append(v.ContactLines, Sanitize(s))
		}
	}
	for _, u := range p.Contact.Links {
		v.Links = append(v.Links, linkFor(u))
	}
	return v
}

func (r *Renderer) resumeView(p domain.CandidateProfile, l Layout) documentView {
	v := r.headerView(p, l)
	v.Objective = Sanitize(p.Objective)
	v.Declaration = Sanitize(p.Declaration)

	if p.Education.Kind == domain.EducationStructured {
		for _, rec := range p.Education.Records {
			v.EducationRecords = append(v.EducationRecords, domain.EducationRecord{
				Degree:      Sanitize(rec.Degree),
				Institution: Sanitize(rec.Institution),
				Duration:    Sanitize(rec.Duration),
			})
		}
	} else {
		v.Education = sanitizeAll(p.Education.Lines())
	}

	if p.Skills.Kind == domain.SkillsCategorized {
		for _, c := range p.Skills.Categories {
			v.SkillGroups = append(v.SkillGroups, skillGroupView{Name: Sanitize(c.Name), Items: sanitizeAll(c.Items)})
		}
	} else {
		v.Skills = sanitizeAll(p.Skills.Items)
	}

	for _, pr := range p.Projects {
		v.Projects = append(v.Projects, projectView{
			Name:        Sanitize(pr.Name),
			Role:        Sanitize(pr.Role),
			Description: Sanitize(pr.Description),
			Technology:  Sanitize(pr.Technology),
			RolePlayed:  Sanitize(pr.RolePlayed),
		})
	}
	for _, e := range p.Experience {
		v.Experience = append(v.Experience, experienceView{
			Title:            Sanitize(e.Title),
			Company:          Sanitize(e.Company),
			Duration:         Sanitize(e.Duration),
			Responsibilities: sanitizeAll(e.Responsibilities),
		})
	}
	v.Certifications = sanitizeAll(p.Certifications)

	// absent sections are left out rather than rendered empty
	for _, s := range l.Sections {
		if v.has(s.Kind) {
			v.Sections = append(v.Sections, sectionView{Kind: s.Kind, Title: s.Title})
		}
	}
	return v
}

func (v documentView) has(k SectionKind) bool {
	switch k {
	case SectionObjective:
		return v.Objective != "" && v.Layout.Band == ""
	case SectionContact:
		return len(v.ContactLines) > 0
	case SectionEducation:
		return len(v.Education) > 0 || len(v.EducationRecords) > 0
	case SectionSkills:
		return len(v.Skills) > 0 || len(v.SkillGroups) > 0
	case SectionExperience:
		return len(v.Experience) > 0
	case SectionProjects:
		return len(v.Projects) > 0
	case SectionCertifications:
		return len(v.Certifications) > 0
	case SectionDeclaration:
		return v.Declaration != ""
	}
	return false
}

func cssVars(l Layout) template.CSS {
	p := l.Palette
	header := p.Primary.CSS()
	if len(p.Gradient) > 0 {
		stops := make([]string, 0, len(p.Gradient))
		for _, c := range p.Gradient {
			stops = append(stops, c.CSS())
		}
		header = "linear-gradient(90deg, " + strings.Join(stops, ", ") + ")"
	}
	projectBG := "transparent"
	if p.ProjectBG != (RGB{}) {
		projectBG = p.ProjectBG.CSS()
	}
	band := p.Band.CSS()
	if p.Band == (RGB{}) {
		band = "#f0f0f0"
	}
	cols := l.SkillColumns
	if cols < 1 {
		cols = 1
	}
	return template.CSS(fmt.Sprintf(
		"--font: %s; --primary: %s; --accent: %s; --text: %s; --title: %s; --band: %s; --project-bg: %s; --header-bg: %s; --skill-columns: %d;",
		l.Font, p.Primary.CSS(), p.Accent.CSS(), p.Text.CSS(), p.Title.CSS(), band, projectBG, header, cols,
	))
}

// linkFor labels a contact link by its registrable domain, so
// https://www.linkedin.com/in/jane shows as linkedin.com.
func linkFor(raw string) link {
	candidate := strings.TrimSpace(raw)
	if !strings.HasPrefix(candidate, "http://") && !strings.HasPrefix(candidate, "https://") {
		candidate = "https://" + candidate
	}
	parsed, err := url.Parse(candidate)
	if err != nil || parsed.Hostname() == "" {
		return link{URL: candidate, Label: Sanitize(raw)}
	}
	host := parsed.Hostname()
	label := strings.TrimPrefix(host, "www.")
	if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		label = etld
	}
	return link{URL: candidate, Label: label}
}

var blankLine = regexp.MustCompile(`\n\s*\n`)

// Paragraphs splits letter text on blank lines, folding the remaining line
// breaks of each paragraph into spaces.
func Paragraphs(letter string) []string {
	letter = strings.ReplaceAll(strings.TrimSpace(letter), "\r\n", "\n")
	var out []string
	for _, para := range blankLine.Split(letter, -1) {
		para = strings.Join(strings.Fields(para), " ")
		if para != "" {
			out = append(out, Sanitize(para))
		}
	}
	return out
}

func sanitizeAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, Sanitize(s))
		}
	}
	return out
}
