package teams

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultTeam receives every category the table does not know about.
const DefaultTeam = "General IT Team"

// Assignment maps one category to the team responsible for it.
type Assignment struct {
	Category string `yaml:"name"`
	Team     string `yaml:"team"`
}

var builtinAssignments = []Assignment{
	{Category: "hardware issue", Team: "Hardware Support Team"},
	{Category: "software bug", Team: "Software Engineering Team"},
	{Category: "password reset", Team: "IT Support Desk"},
}

// Table is the category to team routing table. It is immutable once built.
type Table struct {
	order       []string
	assignments map[string]string
	fallback    string
}

type fileFormat struct {
	DefaultTeam string       `yaml:"default_team"`
	Categories  []Assignment `yaml:"categories"`
}

// Default returns the built-in routing table.
func Default() *Table {
	t, _ := New(builtinAssignments, DefaultTeam)
	return t
}

// New builds a table from ordered assignments. Category order is kept and used as
// the candidate label order for zero-shot classification.
func New(assignments []Assignment, fallback string) (*Table, error) {
	if len(assignments) == 0 {
		return nil, fmt.Errorf("routing table needs at least one category")
	}
	if strings.TrimSpace(fallback) == "" {
		fallback = DefaultTeam
	}

	t := &Table{
		order:       make([]string, 0, len(assignments)),
		assignments: make(map[string]string, len(assignments)),
		fallback:    fallback,
	}
	for _, a := range assignments {
		category := strings.TrimSpace(a.Category)
		team := strings.TrimSpace(a.Team)
		if category == "" || team == "" {
			return nil, fmt.Errorf("invalid assignment %q -> %q: category and team are required", a.Category, a.Team)
		}
		if _, dup := t.assignments[category]; dup {
			return nil, fmt.Errorf("duplicate category %q", category)
		}
		t.order = append(t.order, category)
		t.assignments[category] = team
	}
	return t, nil
}

// Load reads a YAML routing table:
//
//	default_team: General IT Team
//	categories:
//	  - name: hardware issue
//	    team: Hardware Support Team
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read teams file: %w", err)
	}
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse teams yaml: %w", err)
	}
	t, err := New(f.Categories, f.DefaultTeam)
	if err != nil {
		return nil, fmt.Errorf("teams file %s: %w", path, err)
	}
	return t, nil
}

// Assign returns the team for category. It never fails.
func (t *Table) Assign(category string) string {
	if team, ok := t.assignments[category]; ok {
		return team
	}
	return t.fallback
}

// Categories returns the known categories in table order.
func (t *Table) Categories() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

func (t *Table) DefaultTeam() string {
	return t.fallback
}
