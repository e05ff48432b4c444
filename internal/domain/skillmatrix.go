package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Standardized names for the first four skill-matrix columns.
const (
	ColFirstName  = "First_Name"
	ColLastName   = "Last_Name"
	ColExperience = "Experience"
	ColExpertise  = "Expertise"
	ColID         = "ID"
	ColSheetName  = "Sheet Name"
)

// Spreadsheets seen in the wild use either naming convention.
var (
	FirstNameKeys = []string{ColFirstName, "First Name"}
	LastNameKeys  = []string{ColLastName, "Last Name"}
)

// SkillMatrixRecord is one spreadsheet row. Columns keeps the header
// order; JSON output lists "ID" first and then the columns in that order.
type SkillMatrixRecord struct {
	ID      int
	Columns []string
	Values  map[string]interface{}
}

func (r SkillMatrixRecord) Get(key string) (interface{}, bool) {
	v, ok := r.Values[key]
	return v, ok
}

// StringField returns the first string-valued column among keys.
func (r SkillMatrixRecord) StringField(keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := r.Values[k].(string); ok {
			return s, true
		}
	}
	return "", false
}

// ToMap flattens the record into {"ID": n, column: value...}.
func (r SkillMatrixRecord) ToMap() map[string]interface{} {
	out := make(map[string]interface{}, len(r.Values)+1)
	out[ColID] = r.ID
	for k, v := range r.Values {
		out[k] = v
	}
	return out
}

func (r SkillMatrixRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeJSONField(&buf, ColID, r.ID, true); err != nil {
		return nil, err
	}

	seen := map[string]bool{ColID: true}
	for _, k := range r.orderedKeys() {
		if seen[k] {
			continue
		}
		seen[k] = true
		if err := writeJSONField(&buf, k, r.Values[k], false); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// orderedKeys lists the present values in header order, followed by any
// values outside the header sorted by name.
func (r SkillMatrixRecord) orderedKeys() []string {
	keys := make([]string, 0, len(r.Values))
	inHeader := make(map[string]bool, len(r.Columns))
	for _, k := range r.Columns {
		inHeader[k] = true
		if _, ok := r.Values[k]; ok {
			keys = append(keys, k)
		}
	}
	var rest []string
	for k := range r.Values {
		if !inHeader[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func writeJSONField(buf *bytes.Buffer, key string, value interface{}, first bool) error {
	kb, err := json.Marshal(key)
	if err != nil {
		return err
	}
	vb, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("column %q: %w", key, err)
	}
	if !first {
		buf.WriteByte(',')
	}
	buf.Write(kb)
	buf.WriteByte(':')
	buf.Write(vb)
	return nil
}

// UnmarshalJSON keeps the key order of the document in Columns.
func (r *SkillMatrixRecord) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("skill matrix record: expected object, got %v", tok)
	}

	r.Values = map[string]interface{}{}
	r.Columns = nil
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			return err
		}
		if key == ColID {
			if f, ok := v.(float64); ok {
				r.ID = int(f)
			}
			continue
		}
		if _, dup := r.Values[key]; !dup {
			r.Columns = append(r.Columns, key)
		}
		r.Values[key] = v
	}
	_, err = dec.Token()
	return err
}

// SheetGroup holds the records of one worksheet.
type SheetGroup struct {
	SheetName string              `json:"Sheet Name"`
	Data      []SkillMatrixRecord `json:"Data"`
}

// EmployeeInfo is the summary row listed for a skill matrix.
type EmployeeInfo struct {
	ID        int    `json:"ID"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	SheetName string `json:"sheet_name"`
	FullName  string `json:"full_name"`
}

// Employees lists every record that carries both a first and last name.
func Employees(groups []SheetGroup) []EmployeeInfo {
	out := []EmployeeInfo{}
	for _, g := range groups {
		for _, rec := range g.Data {
			first, okF := rec.StringField(FirstNameKeys...)
			last, okL := rec.StringField(LastNameKeys...)
			if !okF || !okL || first == "" || last == "" {
				continue
			}
			out = append(out, EmployeeInfo{
				ID:        rec.ID,
				FirstName: first,
				LastName:  last,
				SheetName: g.SheetName,
				FullName:  strings.TrimSpace(first + " " + last),
			})
		}
	}
	return out
}

// FindByID returns every record with the given id, tagged with its sheet.
func FindByID(groups []SheetGroup, id int) []map[string]interface{} {
	out := []map[string]interface{}{}
	for _, g := range groups {
		for _, rec := range g.Data {
			if rec.ID == id {
				m := rec.ToMap()
				m[ColSheetName] = g.SheetName
				out = append(out, m)
			}
		}
	}
	return out
}

// FindByName matches first and last name exactly on the standardized
// columns and falls back to a case-insensitive match across both column
// naming conventions.
func FindByName(groups []SheetGroup, first, last string) []map[string]interface{} {
	out := []map[string]interface{}{}
	for _, g := range groups {
		for _, rec := range g.Data {
			f, _ := rec.Values[ColFirstName].(string)
			l, _ := rec.Values[ColLastName].(string)
			if f == first && l == last {
				m := rec.ToMap()
				m[ColSheetName] = g.SheetName
				out = append(out, m)
			}
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, g := range groups {
		for _, rec := range g.Data {
			if matchesFold(rec, FirstNameKeys, first) && matchesFold(rec, LastNameKeys, last) {
				m := rec.ToMap()
				m[ColSheetName] = g.SheetName
				out = append(out, m)
			}
		}
	}
	return out
}

func matchesFold(rec SkillMatrixRecord, keys []string, want string) bool {
	for _, k := range keys {
		if s, ok := rec.Values[k].(string); ok && strings.EqualFold(s, want) {
			return true
		}
	}
	return false
}

// CountRecords totals the rows across groups.
func CountRecords(groups []SheetGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g.Data)
	}
	return n
}

// SkillMatrixSnapshot is one immutable upload of a skill matrix. Uploads
// under the same session bump Version; readers holding an older snapshot
// keep a consistent view.
type SkillMatrixSnapshot struct {
	SessionID string       `json:"session_id"`
	Version   int          `json:"version"`
	LoadedAt  time.Time    `json:"loaded_at"`
	Source    string       `json:"source,omitempty"`
	Groups    []SheetGroup `json:"groups"`
}
