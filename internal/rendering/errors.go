package rendering

import "fmt"

// builtinTemplate names the embedded template in errors
const builtinTemplate = "built-in"

// TemplateError reports a resume template that could not be loaded, parsed
// or executed. Template is the file path, or "built-in".
type TemplateError struct {
	Template string
	Message  string
	Cause    error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template %s: %s: %v", e.Template, e.Message, e.Cause)
	}
	return fmt.Sprintf("template %s: %s", e.Template, e.Message)
}

func (e *TemplateError) Unwrap() error { return e.Cause }

// RenderError reports a resume that could not be produced for reasons other
// than the template itself
type RenderError struct {
	Format  string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render %s: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("render %s: %s", e.Format, e.Message)
}

func (e *RenderError) Unwrap() error { return e.Cause }
