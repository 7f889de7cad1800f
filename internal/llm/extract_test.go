package llm

import "testing"

func TestStripReasoning_RemovesClosedTags(t *testing.T) {
	in := "<think>working it out</think>The answer is 4."
	if got := StripReasoning(in); got != "The answer is 4." {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestStripReasoning_ThinkingVariant(t *testing.T) {
	in := "<thinking>hmm</thinking>\n\nDone."
	if got := StripReasoning(in); got != "Done." {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestStripReasoning_UnclosedTagTruncates(t *testing.T) {
	in := "Result: 42\n<think>this never ends"
	if got := StripReasoning(in); got != "Result: 42" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestStripReasoning_NoTags(t *testing.T) {
	if got := StripReasoning("plain text"); got != "plain text" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestStripFences_LanguageTag(t *testing.T) {
	in := "```json\n{\"a\":1}\n```"
	if got := StripFences(in); got != `{"a":1}` {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestStripFences_BareFence(t *testing.T) {
	in := "```\n[1,2]\n```"
	if got := StripFences(in); got != "[1,2]" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestStripFences_NoFence(t *testing.T) {
	if got := StripFences(`  {"a":1}  `); got != `{"a":1}` {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestExtractJSONObject_SurroundingProse(t *testing.T) {
	in := `Here is your result: {"score": 4, "comment": "Good"} and hope that helps!`
	if got := ExtractJSONObject(in); got != `{"score": 4, "comment": "Good"}` {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestExtractJSONObject_FencedWithReasoning(t *testing.T) {
	in := "<think>let me grade this</think>```json\n{\"is_correct\": true}\n```"
	if got := ExtractJSONObject(in); got != `{"is_correct": true}` {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestExtractJSONObject_NestedBraces(t *testing.T) {
	in := `{"outer": {"inner": 1}}`
	if got := ExtractJSONObject(in); got != `{"outer": {"inner": 1}}` {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestExtractJSONArray_FencedBatch(t *testing.T) {
	in := "```json\n[{\"id\":1}]\n```"
	if got := ExtractJSONArray(in); got != `[{"id":1}]` {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestExtractJSONArray_ProseAroundArray(t *testing.T) {
	in := "Sure! Here are the exercises:\n[{\"id\":1},{\"id\":2}]\nEnjoy."
	if got := ExtractJSONArray(in); got != `[{"id":1},{"id":2}]` {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestExtractJSONArray_NoBracketsFallsBack(t *testing.T) {
	if got := ExtractJSONArray("no json here"); got != "no json here" {
		t.Fatalf("unexpected result: %q", got)
	}
}
