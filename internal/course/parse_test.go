package course

import "testing"

func TestParseSections_SplitsOnMarkers(t *testing.T) {
	text := `preamble to ignore
-=section=- The Basics
Paris is the capital of France.

-=section=- Going Deeper
Lyon is known for gastronomy.
`
	sections, err := ParseSections(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].ID != 1 || sections[0].Title != "The Basics" {
		t.Fatalf("unexpected first section: %+v", sections[0])
	}
	if sections[0].Content != "Paris is the capital of France." {
		t.Fatalf("unexpected content: %q", sections[0].Content)
	}
	if sections[1].ID != 2 || sections[1].Title != "Going Deeper" {
		t.Fatalf("unexpected second section: %+v", sections[1])
	}
}

func TestParseSections_NoMarkersYieldsSingleSection(t *testing.T) {
	sections, err := ParseSections("just a plain text with no structure")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Title != "Section 1" {
		t.Fatalf("unexpected title: %q", sections[0].Title)
	}
}

func TestParseSections_UntitledMarkerGetsDefaultTitle(t *testing.T) {
	sections, err := ParseSections("-=section=-\nsome content here")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sections[0].Title != "Section 1" {
		t.Fatalf("unexpected title: %q", sections[0].Title)
	}
}

func TestParseSections_EmptyBookRejected(t *testing.T) {
	if _, err := ParseSections("   \n  "); err == nil {
		t.Fatal("expected error for empty book")
	}
}

func TestParseSections_EmptySectionRejected(t *testing.T) {
	if _, err := ParseSections("-=section=- Title\n\n-=section=- Other\ncontent"); err == nil {
		t.Fatal("expected error for a section with no content")
	}
}
