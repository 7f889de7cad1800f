package course

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	structureFile = "structure.json"
	progressFile  = "progress.json"
)

// Dir is a course directory on disk, holding the parsed structure and the
// progress record side by side.
type Dir struct {
	path string
}

// OpenDir wraps an existing or to-be-created course directory.
func OpenDir(path string) *Dir {
	return &Dir{path: path}
}

// Path returns the course directory path.
func (d *Dir) Path() string { return d.path }

// Init parses the book at bookPath, writes the structure, and creates an
// empty progress record. Refuses to overwrite an initialized course.
func (d *Dir) Init(bookPath string) ([]Section, *Progress, error) {
	if _, err := os.Stat(filepath.Join(d.path, structureFile)); err == nil {
		return nil, nil, fmt.Errorf("course already initialized at %s", d.path)
	}

	raw, err := os.ReadFile(bookPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read book: %w", err)
	}

	sections, err := ParseSections(string(raw))
	if err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create course dir: %w", err)
	}

	if err := writeJSON(filepath.Join(d.path, structureFile), sections); err != nil {
		return nil, nil, err
	}

	progress := NewProgress(bookPath, sections)
	if err := d.SaveProgress(progress); err != nil {
		return nil, nil, err
	}

	return sections, progress, nil
}

// Sections loads the parsed section structure.
func (d *Dir) Sections() ([]Section, error) {
	raw, err := os.ReadFile(filepath.Join(d.path, structureFile))
	if err != nil {
		return nil, fmt.Errorf("read structure: %w", err)
	}
	var sections []Section
	if err := json.Unmarshal(raw, &sections); err != nil {
		return nil, fmt.Errorf("parse structure: %w", err)
	}
	return sections, nil
}

// SaveSections rewrites the structure record, preserving cached
// explanations across runs.
func (d *Dir) SaveSections(sections []Section) error {
	return writeJSON(filepath.Join(d.path, structureFile), sections)
}

// Progress loads the progress record, backfilling fields that older files
// may lack so downstream code never sees nil collections.
func (d *Dir) Progress() (*Progress, error) {
	raw, err := os.ReadFile(filepath.Join(d.path, progressFile))
	if err != nil {
		return nil, fmt.Errorf("read progress: %w", err)
	}
	var p Progress
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse progress: %w", err)
	}
	if p.Sections == nil {
		p.Sections = make(map[string]*SectionProgress)
	}
	for _, sp := range p.Sections {
		if sp.Answered == nil {
			sp.Answered = []string{}
		}
		if sp.Exercises == nil {
			sp.Exercises = []Attempt{}
		}
	}
	return &p, nil
}

// SaveProgress writes the progress record atomically. An interrupted save
// never leaves a truncated progress file behind.
func (d *Dir) SaveProgress(p *Progress) error {
	return writeJSON(filepath.Join(d.path, progressFile), p)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
