package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Normalize converts a loosely-shaped profile object, as returned by the
// text-generation service, into a CandidateProfile. Every accepted synonym
// and shape is resolved here once so that renderers never branch on raw
// types.
func Normalize(m map[string]interface{}) CandidateProfile {
	if m == nil {
		m = map[string]interface{}{}
	}
	p := CandidateProfile{
		Name:        asString(m["name"]),
		Designation: asString(m["designation"]),
		Objective:   asString(firstPresent(m, "objective", "summarized_objective", "summary")),
	}
	if p.Name == "" {
		p.Name = DefaultName
	}
	if p.Designation == "" {
		p.Designation = DefaultDesignation
	}

	p.Education = normalizeEducation(m["education"])
	p.Skills = normalizeSkills(m["skills"])
	p.Projects, p.ProjectShape = normalizeProjects(m)
	p.Contact = normalizeContact(m)
	p.Experience = normalizeExperience(firstPresent(m, "work_experience", "experience"))
	p.Certifications = toStrings(m["certifications"])
	p.Declaration = asString(m["declaration"])
	return p
}

func normalizeEducation(v interface{}) Education {
	out := Education{Items: []string{}, Records: []EducationRecord{}}
	switch t := v.(type) {
	case nil:
	case string:
		if s := strings.TrimSpace(t); s != "" {
			out.Kind = EducationText
			out.Text = s
		}
	case []interface{}:
		structured := false
		for _, it := range t {
			if _, ok := it.(map[string]interface{}); ok {
				structured = true
				break
			}
		}
		for _, it := range t {
			switch e := it.(type) {
			case map[string]interface{}:
				rec := EducationRecord{
					Degree:      asString(firstPresent(e, "degree", "qualification", "title", "course")),
					Institution: asString(firstPresent(e, "institution", "university", "school", "college")),
					Duration:    asString(firstPresent(e, "duration", "year", "years", "dates", "period")),
				}
				if rec != (EducationRecord{}) {
					out.Records = append(out.Records, rec)
				}
			default:
				s := asString(e)
				if s == "" {
					continue
				}
				if structured {
					out.Records = append(out.Records, EducationRecord{Degree: s})
				} else {
					out.Items = append(out.Items, s)
				}
			}
		}
		if structured {
			out.Kind = EducationStructured
		} else if len(out.Items) > 0 {
			out.Kind = EducationList
		}
	case map[string]interface{}:
		// a single structured record
		return normalizeEducation([]interface{}{t})
	default:
		if s := asString(t); s != "" {
			out.Kind = EducationText
			out.Text = s
		}
	}
	return out
}

func normalizeSkills(v interface{}) Skills {
	out := Skills{Items: []string{}, Categories: []SkillCategory{}}
	switch t := v.(type) {
	case nil:
	case map[string]interface{}:
		for _, k := range sortedKeys(t) {
			items := toStrings(t[k])
			if len(items) == 0 {
				continue
			}
			out.Categories = append(out.Categories, SkillCategory{Name: k, Items: items})
		}
		if len(out.Categories) > 0 {
			out.Kind = SkillsCategorized
		}
	default:
		out.Items = toStrings(t)
		if len(out.Items) > 0 {
			out.Kind = SkillsFlat
		}
	}
	return out
}

func normalizeProjects(m map[string]interface{}) ([]Project, ProjectShape) {
	if v, ok := m["project_details"]; ok && v != nil {
		if ps := projectsFrom(v); len(ps) > 0 {
			return ps, ProjectsMapping
		}
	}
	if v, ok := m["projects"]; ok && v != nil {
		if ps := projectsFrom(v); len(ps) > 0 {
			return ps, ProjectsList
		}
	}
	return []Project{}, ProjectsNone
}

func projectsFrom(v interface{}) []Project {
	out := []Project{}
	switch t := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.SliceStable(keys, func(i, j int) bool { return naturalLess(keys[i], keys[j]) })
		for _, k := range keys {
			if p, ok := projectFrom(k, t[k]); ok {
				out = append(out, p)
			}
		}
	case []interface{}:
		for i, it := range t {
			if p, ok := projectFrom(fmt.Sprintf("project%d", i+1), it); ok {
				out = append(out, p)
			}
		}
	}
	return out
}

func projectFrom(id string, v interface{}) (Project, bool) {
	switch t := v.(type) {
	case map[string]interface{}:
		p := Project{
			ID:          id,
			Name:        asString(firstPresent(t, "name", "title", "project_name")),
			Role:        asString(t["role"]),
			Description: asString(firstPresent(t, "description", "summary")),
			Technology:  strings.Join(toStrings(firstPresent(t, "technology", "technologies", "tech_stack", "stack")), ", "),
			RolePlayed:  asString(t["role_played"]),
		}
		if p.Name == "" && p.Description == "" && p.Role == "" && p.Technology == "" && p.RolePlayed == "" {
			return Project{}, false
		}
		return p, true
	default:
		if s := asString(t); s != "" {
			return Project{ID: id, Name: s}, true
		}
	}
	return Project{}, false
}

func normalizeContact(m map[string]interface{}) Contact {
	c := Contact{Links: []string{}}
	for _, key := range []string{"contact_information", "contact"} {
		switch t := m[key].(type) {
		case map[string]interface{}:
			mergeContact(&c, t)
		case string:
			if c.Text == "" {
				c.Text = strings.TrimSpace(t)
			}
		}
	}
	// flat fields fill whatever the nested objects left blank
	mergeContact(&c, m)
	return c
}

func mergeContact(c *Contact, m map[string]interface{}) {
	if c.Email == "" {
		c.Email = asString(m["email"])
	}
	if c.Phone == "" {
		c.Phone = asString(firstPresent(m, "phone_number", "phone", "mobile"))
	}
	if c.Location == "" {
		c.Location = asString(firstPresent(m, "location", "address"))
	}
	if c.Text == "" {
		c.Text = asString(m["text"])
	}
	for _, key := range []string{"links", "linkedin", "github", "website", "portfolio"} {
		for _, l := range toStrings(m[key]) {
			if !contains(c.Links, l) {
				c.Links = append(c.Links, l)
			}
		}
	}
}

func normalizeExperience(v interface{}) []Experience {
	out := []Experience{}
	items, ok := v.([]interface{})
	if !ok {
		if mm, ok := v.(map[string]interface{}); ok {
			items = []interface{}{mm}
		}
	}
	for _, it := range items {
		e, ok := it.(map[string]interface{})
		if !ok {
			if s := asString(it); s != "" {
				out = append(out, Experience{Title: s, Responsibilities: []string{}})
			}
			continue
		}
		x := Experience{
			Title:            asString(firstPresent(e, "title", "position", "role", "designation")),
			Company:          asString(firstPresent(e, "company", "organization", "employer")),
			Duration:         asString(firstPresent(e, "duration", "period", "dates", "years")),
			Responsibilities: toLines(firstPresent(e, "responsibilities", "bullets", "details", "description")),
		}
		if x.Title == "" && x.Company == "" && len(x.Responsibilities) == 0 {
			continue
		}
		out = append(out, x)
	}
	return out
}

// ToMap renders the profile back into its canonical JSON object. The
// project shape the profile was built from is preserved.
func (p CandidateProfile) ToMap() map[string]interface{} {
	out := map[string]interface{}{
		"name":        p.Name,
		"designation": p.Designation,
		"objective":   p.Objective,
	}

	switch p.Education.Kind {
	case EducationText:
		out["education"] = p.Education.Text
	case EducationStructured:
		recs := make([]interface{}, 0, len(p.Education.Records))
		for _, r := range p.Education.Records {
			recs = append(recs, map[string]interface{}{"degree": r.Degree, "institution": r.Institution, "duration": r.Duration})
		}
		out["education"] = recs
	default:
		out["education"] = stringsToAny(p.Education.Items)
	}

	if p.Skills.Kind == SkillsCategorized {
		cats := map[string]interface{}{}
		for _, c := range p.Skills.Categories {
			cats[c.Name] = stringsToAny(c.Items)
		}
		out["skills"] = cats
	} else {
		out["skills"] = stringsToAny(p.Skills.Items)
	}

	if p.ProjectShape == ProjectsList {
		list := make([]interface{}, 0, len(p.Projects))
		for _, pr := range p.Projects {
			list = append(list, projectMap(pr))
		}
		out["projects"] = list
	} else {
		details := map[string]interface{}{}
		for _, pr := range p.Projects {
			details[pr.ID] = projectMap(pr)
		}
		out["project_details"] = details
	}

	contact := map[string]interface{}{"links": stringsToAny(p.Contact.Links)}
	if p.Contact.Email != "" {
		contact["email"] = p.Contact.Email
	}
	if p.Contact.Phone != "" {
		contact["phone_number"] = p.Contact.Phone
	}
	if p.Contact.Location != "" {
		contact["location"] = p.Contact.Location
	}
	if p.Contact.Text != "" {
		contact["text"] = p.Contact.Text
	}
	out["contact_information"] = contact

	exp := make([]interface{}, 0, len(p.Experience))
	for _, e := range p.Experience {
		exp = append(exp, map[string]interface{}{
			"title":            e.Title,
			"company":          e.Company,
			"duration":         e.Duration,
			"responsibilities": stringsToAny(e.Responsibilities),
		})
	}
	out["work_experience"] = exp
	out["certifications"] = stringsToAny(p.Certifications)
	if p.Declaration != "" {
		out["declaration"] = p.Declaration
	}
	return out
}

func projectMap(p Project) map[string]interface{} {
	return map[string]interface{}{
		"name":        p.Name,
		"role":        p.Role,
		"description": p.Description,
		"technology":  p.Technology,
		"role_played": p.RolePlayed,
	}
}

func firstPresent(m map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
				continue
			}
			return v
		}
	}
	return nil
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []interface{}:
		return strings.Join(toStrings(t), ", ")
	case map[string]interface{}:
		parts := []string{}
		for _, k := range sortedKeys(t) {
			if s := asString(t[k]); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " - ")
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

// toStrings flattens a string, list or object into display strings. A
// comma separated string counts as a list.
func toStrings(v interface{}) []string {
	out := []string{}
	switch t := v.(type) {
	case nil:
	case string:
		for _, part := range strings.FieldsFunc(t, func(r rune) bool { return r == ',' || r == '\n' || r == ';' }) {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
	case []interface{}:
		for _, it := range t {
			if m, ok := it.(map[string]interface{}); ok {
				if name := asString(firstPresent(m, "name", "title")); name != "" {
					if issuer := asString(firstPresent(m, "issuer", "organization")); issuer != "" {
						name += " - " + issuer
					}
					out = append(out, name)
					continue
				}
			}
			if s := asString(it); s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	default:
		if s := asString(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// toLines is toStrings without comma splitting, for prose items.
func toLines(v interface{}) []string {
	if s, ok := v.(string); ok {
		out := []string{}
		for _, l := range splitLines(s) {
			if l != "" {
				out = append(out, l)
			}
		}
		return out
	}
	return toStrings(v)
}

func stringsToAny(ss []string) []interface{} {
	out := make([]interface{}, 0, len(ss))
	for _, s := range ss {
		out = append(out, s)
	}
	return out
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// naturalLess orders "project2" before "project10".
func naturalLess(a, b string) bool {
	pa, na := splitTrailingNumber(a)
	pb, nb := splitTrailingNumber(b)
	if pa != pb {
		return pa < pb
	}
	if na != nb {
		return na < nb
	}
	return a < b
}

func splitTrailingNumber(s string) (string, int) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return s, -1
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil {
		return s, -1
	}
	return s[:i], n
}

func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		out = append(out, strings.TrimSpace(l))
	}
	return out
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}
