// Package types provides type definitions for structured data used throughout the smart-applier system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Profile is the user's semantic document: identity, categorised skills,
// projects, experience and achievements.
type Profile struct {
	Personal     Personal            `json:"personal"`
	Summary      string              `json:"summary,omitempty"`
	Skills       map[string][]string `json:"skills" validate:"dive,keys,required,endkeys,dive,required"`
	Projects     []Project           `json:"projects,omitempty" validate:"dive"`
	Experience   []Experience        `json:"experience,omitempty" validate:"dive"`
	Education    []Education         `json:"education,omitempty"`
	Achievements []string            `json:"achievements,omitempty"`
}

// Personal holds contact details. The core treats it as opaque.
type Personal struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

// Project is a titled piece of work
type Project struct {
	Title       string `json:"title" validate:"required"`
	Description Text   `json:"description,omitempty"`
}

// Experience is a single role held by the user
type Experience struct {
	Company     string `json:"company,omitempty"`
	Role        string `json:"role,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Description Text   `json:"description,omitempty"`
}

// Education is a degree or course entry
type Education struct {
	Degree      string `json:"degree,omitempty"`
	Institution string `json:"institution,omitempty"`
	Year        string `json:"year,omitempty"`
}

// Text is free text that also accepts a JSON array of strings, joined by a
// single space. Generative rewrites frequently return descriptions as lists.
type Text string

// UnmarshalJSON accepts either a string or an array of strings
func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}

	var parts []string
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("description must be a string or a list of strings: %w", err)
	}
	*t = Text(strings.Join(parts, " "))
	return nil
}

// String returns the text as a plain string
func (t Text) String() string {
	return string(t)
}

// Validate validates the profile using the validator.
func (p *Profile) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// SkillCategories returns the skill category names in sorted order.
// Map iteration order is random, so anything that builds text from the
// skills map must go through this to stay deterministic.
func (p *Profile) SkillCategories() []string {
	categories := make([]string, 0, len(p.Skills))
	for category := range p.Skills {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

// AllSkills returns every skill term in category order, as written.
func (p *Profile) AllSkills() []string {
	var all []string
	for _, category := range p.SkillCategories() {
		all = append(all, p.Skills[category]...)
	}
	return all
}

// Clone returns a deep copy of the profile
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	if p.Skills != nil {
		c.Skills = make(map[string][]string, len(p.Skills))
		for k, v := range p.Skills {
			c.Skills[k] = append([]string(nil), v...)
		}
	}
	c.Projects = append([]Project(nil), p.Projects...)
	c.Experience = append([]Experience(nil), p.Experience...)
	c.Education = append([]Education(nil), p.Education...)
	c.Achievements = append([]string(nil), p.Achievements...)
	return &c
}

// CoerceProfile trims skill terms and drops empty terms and categories.
// It is applied where external collaborators hand a profile to the core.
func CoerceProfile(p *Profile) {
	if p == nil {
		return
	}
	skills := make(map[string][]string, len(p.Skills))
	for _, category := range p.SkillCategories() {
		name := strings.TrimSpace(category)
		if name == "" {
			continue
		}
		for _, term := range p.Skills[category] {
			if term = strings.TrimSpace(term); term != "" {
				skills[name] = append(skills[name], term)
			}
		}
	}
	p.Skills = skills

	var achievements []string
	for _, a := range p.Achievements {
		if a = strings.TrimSpace(a); a != "" {
			achievements = append(achievements, a)
		}
	}
	p.Achievements = achievements
}

// ProfileSummary is the listing view of a stored profile
type ProfileSummary struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}
