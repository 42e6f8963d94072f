// Package schemas holds the JSON Schema documents for externally supplied
// profiles and job lists.
package schemas

import "embed"

//go:embed *.schema.json
var files embed.FS

// Schema file names
const (
	ProfileSchema = "profile.schema.json"
	JobsSchema    = "jobs.schema.json"
)

// Read returns the contents of a schema file
func Read(name string) ([]byte, error) {
	return files.ReadFile(name)
}
