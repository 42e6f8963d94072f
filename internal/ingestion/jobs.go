package ingestion

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/smart-applier/internal/schemas"
	"github.com/jonathan/smart-applier/internal/types"
)

// ReadJobsCSV reads a job table with a header row. Columns are matched
// loosely by name; one whose name contains "skill" is required.
func ReadJobsCSV(r io.Reader) ([]types.JobRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, types.NewStageError(types.StageInput, types.ErrInvalidInput, "malformed CSV", err)
	}
	if len(records) == 0 {
		return nil, types.InvalidInput("job table is empty")
	}
	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return types.JobsFromRows(header, records[1:])
}

// ReadJobsJSON reads a JSON array of job objects. Values may be strings,
// numbers or null; keys are matched like CSV column names.
func ReadJobsJSON(data []byte) ([]types.JobRecord, error) {
	if err := schemas.ValidateJobsJSON(string(data)); err != nil {
		return nil, types.NewStageError(types.StageInput, types.ErrInvalidInput, "job list does not match schema", err)
	}

	var raw []map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, types.NewStageError(types.StageInput, types.ErrInvalidInput, "malformed job list", err)
	}

	objects := make([]map[string]string, len(raw))
	for i, obj := range raw {
		objects[i] = make(map[string]string, len(obj))
		for k, v := range obj {
			switch val := v.(type) {
			case nil:
				objects[i][k] = ""
			case string:
				objects[i][k] = val
			default:
				objects[i][k] = fmt.Sprint(val)
			}
		}
	}

	header := types.HeaderFromObjects(objects)
	if len(header) == 0 {
		return []types.JobRecord{}, nil
	}
	rows := make([][]string, len(objects))
	for i, obj := range objects {
		row := make([]string, len(header))
		for j, name := range header {
			row[j] = obj[name]
		}
		rows[i] = row
	}
	return types.JobsFromRows(header, rows)
}

// ReadJobsFile reads a .csv or .json job file
func ReadJobsFile(path string) ([]types.JobRecord, *Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}

	var (
		jobs   []types.JobRecord
		format string
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		format = FormatCSV
		jobs, err = ReadJobsCSV(bytes.NewReader(data))
	case ".json":
		format = FormatJSON
		jobs, err = ReadJobsJSON(data)
	default:
		return nil, nil, types.InvalidInput(fmt.Sprintf("unsupported job file type %q", filepath.Ext(path)))
	}
	if err != nil {
		return nil, nil, err
	}
	return jobs, NewMetadata(string(data), path, format), nil
}
