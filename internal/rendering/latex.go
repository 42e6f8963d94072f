// Package rendering provides functionality to render LaTeX resumes from templates.
package rendering

import (
	"bytes"
	"context"
	"embed"
	"os"
	"strings"
	"text/template"

	"github.com/jonathan/smart-applier/internal/types"
)

//go:embed templates/resume.tex.tmpl
var templateFS embed.FS

const defaultTemplate = "templates/resume.tex.tmpl"

// FormatLaTeX is the document format produced by LaTeXRenderer
const FormatLaTeX = "tex"

// TemplateData represents the data structure passed to the LaTeX template.
// Every string is already escaped.
type TemplateData struct {
	Name         string
	Contact      []string
	Summary      string
	Skills       []SkillLine
	Companies    []CompanySection
	Projects     []ProjectLine
	Education    []EducationLine
	Achievements []string
}

// SkillLine is one skill category with its terms joined by commas
type SkillLine struct {
	Category string
	Terms    string
}

// CompanySection represents a company with one or more roles
type CompanySection struct {
	Company string
	Roles   []RoleSection
}

// RoleSection represents a role within a company
type RoleSection struct {
	Role     string
	Duration string
	Bullets  []string
}

// ProjectLine is a project title with its description
type ProjectLine struct {
	Title       string
	Description string
}

// EducationLine is one education entry
type EducationLine struct {
	Degree      string
	Institution string
	Year        string
}

// LaTeXRenderer renders a profile into a LaTeX document
type LaTeXRenderer struct {
	tmpl *template.Template
	name string
}

// NewLaTeXRenderer parses the template at templatePath, or the built-in
// template when templatePath is empty.
func NewLaTeXRenderer(templatePath string) (*LaTeXRenderer, error) {
	var (
		content []byte
		err     error
		name    = templatePath
	)
	if templatePath == "" {
		name = builtinTemplate
		content, err = templateFS.ReadFile(defaultTemplate)
	} else {
		content, err = readTemplate(templatePath)
	}
	if err != nil {
		return nil, err
	}
	tmpl, err := parseTemplate(name, string(content))
	if err != nil {
		return nil, err
	}
	return &LaTeXRenderer{tmpl: tmpl, name: name}, nil
}

// Format returns the document format
func (r *LaTeXRenderer) Format() string { return FormatLaTeX }

// Render executes the template for profile
func (r *LaTeXRenderer) Render(ctx context.Context, profile *types.Profile) ([]byte, error) {
	if profile == nil {
		return nil, &RenderError{Format: FormatLaTeX, Message: "profile is required"}
	}
	if err := ctx.Err(); err != nil {
		return nil, &RenderError{Format: FormatLaTeX, Message: "render cancelled", Cause: err}
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, BuildTemplateData(profile)); err != nil {
		return nil, &TemplateError{
			Template: r.name,
			Message:  "failed to execute template",
			Cause:    err,
		}
	}
	return buf.Bytes(), nil
}

func readTemplate(templatePath string) ([]byte, error) {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &TemplateError{Template: templatePath, Message: "template file not found", Cause: err}
		}
		return nil, &TemplateError{Template: templatePath, Message: "failed to read template file", Cause: err}
	}
	return content, nil
}

// parseTemplate parses template content with the LaTeX helper functions
func parseTemplate(name, content string) (*template.Template, error) {
	tmpl, err := template.New("resume").Funcs(template.FuncMap{
		"escape": EscapeLaTeX,
	}).Parse(content)
	if err != nil {
		return nil, &TemplateError{Template: name, Message: "failed to parse template", Cause: err}
	}
	return tmpl, nil
}

// BuildTemplateData escapes the profile into template data. Skill categories
// are emitted in sorted order and experience is grouped by company.
func BuildTemplateData(p *types.Profile) *TemplateData {
	data := &TemplateData{
		Name:    EscapeLaTeX(p.Personal.Name),
		Summary: EscapeLaTeX(p.Summary),
	}
	for _, c := range []string{p.Personal.Email, p.Personal.Phone, p.Personal.Location, p.Personal.LinkedIn, p.Personal.GitHub} {
		if c = strings.TrimSpace(c); c != "" {
			data.Contact = append(data.Contact, EscapeLaTeX(c))
		}
	}

	for _, category := range p.SkillCategories() {
		terms := p.Skills[category]
		if len(terms) == 0 {
			continue
		}
		escaped := make([]string, len(terms))
		for i, t := range terms {
			escaped[i] = EscapeLaTeX(t)
		}
		data.Skills = append(data.Skills, SkillLine{
			Category: EscapeLaTeX(categoryTitle(category)),
			Terms:    strings.Join(escaped, ", "),
		})
	}

	data.Companies = groupByCompany(p.Experience)

	for _, proj := range p.Projects {
		data.Projects = append(data.Projects, ProjectLine{
			Title:       EscapeLaTeX(proj.Title),
			Description: EscapeLaTeX(proj.Description.String()),
		})
	}
	for _, ed := range p.Education {
		data.Education = append(data.Education, EducationLine{
			Degree:      EscapeLaTeX(ed.Degree),
			Institution: EscapeLaTeX(ed.Institution),
			Year:        EscapeLaTeX(ed.Year),
		})
	}
	for _, a := range p.Achievements {
		data.Achievements = append(data.Achievements, EscapeLaTeX(a))
	}
	return data
}

// groupByCompany groups roles under the company they were held at, keeping
// the order in which companies first appear
func groupByCompany(experience []types.Experience) []CompanySection {
	companies := []CompanySection{}
	index := make(map[string]int)

	for _, exp := range experience {
		name := strings.TrimSpace(exp.Company)
		i, seen := index[name]
		if !seen {
			i = len(companies)
			index[name] = i
			companies = append(companies, CompanySection{Company: EscapeLaTeX(name)})
		}

		role := RoleSection{
			Role:     EscapeLaTeX(exp.Role),
			Duration: EscapeLaTeX(exp.Duration),
		}
		if desc := strings.TrimSpace(exp.Description.String()); desc != "" {
			role.Bullets = []string{EscapeLaTeX(desc)}
		}
		companies[i].Roles = append(companies[i].Roles, role)
	}
	return companies
}

// categoryTitle turns a skill category key like "data_tools" into "Data Tools"
func categoryTitle(category string) string {
	words := strings.Fields(strings.NewReplacer("_", " ", "-", " ").Replace(category))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
