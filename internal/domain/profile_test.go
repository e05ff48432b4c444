package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

func TestNormalizeEducationShapes(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		kind  EducationKind
		lines []string
	}{
		{"string", `{"education":"BSc Physics"}`, EducationText, []string{"BSc Physics"}},
		{"flat list", `{"education":["BSc Physics","MSc Math"]}`, EducationList, []string{"BSc Physics", "MSc Math"}},
		{"structured", `{"education":[{"degree":"BSc","institution":"X","duration":"2020"}]}`, EducationStructured, []string{"BSc, X, 2020"}},
		{"single object", `{"education":{"degree":"PhD","university":"Y"}}`, EducationStructured, []string{"PhD, Y"}},
		{"mixed list", `{"education":["Diploma",{"degree":"BSc"}]}`, EducationStructured, []string{"Diploma", "BSc"}},
		{"absent", `{}`, EducationNone, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Normalize(decode(t, tt.raw))
			assert.Equal(t, tt.kind, p.Education.Kind)
			assert.Equal(t, tt.lines, p.Education.Lines())
			assert.NotNil(t, p.Education.Items)
			assert.NotNil(t, p.Education.Records)
		})
	}
}

func TestNormalizeSkills(t *testing.T) {
	flat := Normalize(decode(t, `{"skills":["Go","SQL"]}`))
	assert.Equal(t, SkillsFlat, flat.Skills.Kind)
	assert.Equal(t, []string{"Go", "SQL"}, flat.Skills.All())

	cats := Normalize(decode(t, `{"skills":{"Languages":["Go","Python"],"Cloud":"AWS, GCP","Empty":[]}}`))
	require.Equal(t, SkillsCategorized, cats.Skills.Kind)
	require.Len(t, cats.Skills.Categories, 2)
	assert.Equal(t, "Cloud", cats.Skills.Categories[0].Name)
	assert.Equal(t, []string{"AWS", "GCP"}, cats.Skills.Categories[0].Items)
	assert.Equal(t, []string{"AWS", "GCP", "Go", "Python"}, cats.Skills.All())
}

func TestNormalizeProjectsBothShapes(t *testing.T) {
	mapping := Normalize(decode(t, `{"project_details":{
		"project10":{"name":"Ten","technology":["Go","Redis"]},
		"project2":{"name":"Two","role":"Lead","role_played":"Design"}}}`))
	list := Normalize(decode(t, `{"projects":[
		{"title":"Two","role":"Lead","role_played":"Design"},
		{"project_name":"Ten","technology":"Go, Redis"}]}`))

	assert.Equal(t, ProjectsMapping, mapping.ProjectShape)
	assert.Equal(t, ProjectsList, list.ProjectShape)
	require.Len(t, mapping.Projects, 2)
	require.Len(t, list.Projects, 2)
	for i := range mapping.Projects {
		assert.Equal(t, mapping.Projects[i].Name, list.Projects[i].Name)
		assert.Equal(t, mapping.Projects[i].Technology, list.Projects[i].Technology)
	}
	assert.Equal(t, "Go, Redis", mapping.Projects[1].Technology)
}

func TestNormalizeContactSynonyms(t *testing.T) {
	nested := Normalize(decode(t, `{"contact_information":{"email":"a@b.c","phone":"123","linkedin":"https://linkedin.com/in/a"}}`))
	assert.Equal(t, "a@b.c", nested.Contact.Email)
	assert.Equal(t, "123", nested.Contact.Phone)
	assert.Equal(t, []string{"https://linkedin.com/in/a"}, nested.Contact.Links)

	flat := Normalize(decode(t, `{"email":"x@y.z","phone_number":"555"}`))
	assert.Equal(t, "x@y.z", flat.Contact.Email)
	assert.Equal(t, "555", flat.Contact.Phone)

	text := Normalize(decode(t, `{"contact":"Berlin | x@y.z"}`))
	assert.Equal(t, "Berlin | x@y.z", text.Contact.Text)
}

func TestNormalizeExperienceAndDefaults(t *testing.T) {
	p := Normalize(decode(t, `{"summarized_objective":"Ship things","experience":[
		{"position":"Engineer","company":"Acme","duration":"2020-2023","responsibilities":"Built X, improving Y\nLed Z"}]}`))
	assert.Equal(t, DefaultName, p.Name)
	assert.Equal(t, DefaultDesignation, p.Designation)
	assert.Equal(t, "Ship things", p.Objective)
	require.Len(t, p.Experience, 1)
	assert.Equal(t, "Engineer", p.Experience[0].Title)
	assert.Equal(t, []string{"Built X, improving Y", "Led Z"}, p.Experience[0].Responsibilities)
	assert.NotNil(t, p.Certifications)
	assert.NotNil(t, p.Projects)
}

func TestNormalizeRoundTrip(t *testing.T) {
	raw := decode(t, `{"name":"Jane Doe","designation":"Engineer","objective":"Build",
		"education":[{"degree":"BSc","institution":"X","duration":"2020"}],
		"skills":{"Lang":["Go"]},
		"projects":[{"title":"P","description":"D"}],
		"email":"j@d.io","certifications":[{"name":"CKA","issuer":"CNCF"}],
		"work_experience":[{"title":"Dev","company":"C","responsibilities":["a","b"]}]}`)
	p := Normalize(raw)
	assert.Equal(t, []string{"CKA - CNCF"}, p.Certifications)
	assert.Equal(t, p, Normalize(p.ToMap()))
}

func TestFallbackProfiles(t *testing.T) {
	p := FallbackProfile("\n   \nJane Doe\nSenior Engineer...")
	assert.Equal(t, "Jane Doe", p.Name)
	assert.Equal(t, "Professional", p.Designation)
	assert.Equal(t, []string{"Education details not extracted"}, p.Education.Items)

	long := FallbackProfile("This first line is definitely far too long to be a person's name at all")
	assert.Equal(t, DefaultName, long.Name)

	ph := PlaceholderProfile()
	assert.Equal(t, "Candidate", ph.Name)
	assert.Equal(t, "Skills not provided", ph.Skills.Items[0])
	require.Len(t, ph.Projects, 1)
	assert.Equal(t, "Role details not provided", ph.Projects[0].RolePlayed)
}
