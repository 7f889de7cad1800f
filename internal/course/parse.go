package course

import (
	"fmt"
	"strconv"
	"strings"
)

// sectionMarker separates sections in a prepared book file. Everything on
// the marker line after the marker itself becomes the section title.
const sectionMarker = "-=section=-"

func sectionKey(id int) string {
	return strconv.Itoa(id)
}

// ParseSections splits book text into sections at marker lines. Text
// before the first marker is ignored unless no marker exists at all, in
// which case the whole text becomes a single untitled section.
func ParseSections(text string) ([]Section, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("book is empty")
	}

	var sections []Section
	var current *Section
	var body strings.Builder

	flush := func() {
		if current == nil {
			return
		}
		current.Content = strings.TrimSpace(body.String())
		sections = append(sections, *current)
		body.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, sectionMarker) {
			flush()
			title := strings.TrimSpace(strings.TrimPrefix(trimmed, sectionMarker))
			if title == "" {
				title = fmt.Sprintf("Section %d", len(sections)+1)
			}
			current = &Section{ID: len(sections) + 1, Title: title}
			continue
		}
		if current != nil {
			body.WriteString(line)
			body.WriteString("\n")
		}
	}
	flush()

	if len(sections) == 0 {
		sections = append(sections, Section{
			ID:      1,
			Title:   "Section 1",
			Content: strings.TrimSpace(text),
		})
	}

	// Marker with no body is a preparation mistake worth surfacing early.
	for _, s := range sections {
		if s.Content == "" {
			return nil, fmt.Errorf("section %d (%s) has no content", s.ID, s.Title)
		}
	}

	return sections, nil
}
