package verify

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/abhisek/lectio/internal/exercisegen"
)

// verifySingleChoice grades a single-choice answer locally. The answer may
// be a 1-based option index or the literal option text.
func (v *Verifier) verifySingleChoice(ex *exercisegen.Exercise, userAnswer string) Verdict {
	userAnswer = strings.TrimSpace(userAnswer)

	selected := userAnswer
	selectedIdx := -1
	if n, err := strconv.Atoi(userAnswer); err == nil && n >= 1 && n <= len(ex.Options) {
		selectedIdx = n - 1
		selected = ex.Options[selectedIdx]
	}

	correct := strings.EqualFold(strings.TrimSpace(selected), strings.TrimSpace(ex.CorrectOption))

	// Positional fallback: when option labels drift between generation and
	// grading, a matching index still counts.
	if !correct && selectedIdx >= 0 && selectedIdx == optionIndex(ex.Options, ex.CorrectOption) {
		correct = true
	}

	verdict := Verdict{
		IsCorrect:     correct,
		CorrectAnswer: ex.CorrectOption,
	}
	if correct {
		verdict.Feedback = "Correct!"
	} else {
		verdict.Feedback = fmt.Sprintf("Incorrect. The correct answer is %q.", ex.CorrectOption)
	}
	return verdict
}

// verifyMultipleChoice grades a multiple-choice answer. The selected index
// set must equal the correct index set exactly. A locally wrong answer
// with a learner justification escalates to remote arbitration.
func (v *Verifier) verifyMultipleChoice(ctx context.Context, ex *exercisegen.Exercise, userAnswer, userComment string) Verdict {
	correctText := ex.CorrectAnswerText()

	selected, err := parseIndexList(userAnswer, len(ex.Options))
	if err != nil {
		return Verdict{
			IsCorrect:     false,
			Feedback:      fmt.Sprintf("Could not read your answer: %v. Enter the option numbers separated by commas, e.g. \"1,3\".", err),
			CorrectAnswer: correctText,
		}
	}

	correct := correctIndexSet(ex)
	if indexSetsEqual(selected, correct) {
		return Verdict{
			IsCorrect:     true,
			Feedback:      "Correct!",
			CorrectAnswer: correctText,
		}
	}

	local := Verdict{
		IsCorrect:     false,
		Feedback:      fmt.Sprintf("Incorrect. The correct answer is: %s.", correctText),
		CorrectAnswer: correctText,
	}

	// A non-empty justification earns one arbitration call; a parseable
	// remote verdict replaces the local one.
	if strings.TrimSpace(userComment) != "" {
		if remote, ok := v.arbitrate(ctx, ex, selected, correct, userComment); ok {
			remote.CorrectAnswer = correctText
			return remote
		}
	} else if v.config.Explain {
		if explanation := v.explainSelection(ctx, ex, selected, correct); explanation != "" {
			local.Feedback += "\n\n" + explanation
		}
	}

	return local
}

// parseIndexList parses a comma-separated list of 1-based option indices
// into a set of 0-based indices.
func parseIndexList(s string, optionCount int) (map[int]bool, error) {
	set := make(map[int]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", part)
		}
		if n < 1 || n > optionCount {
			return nil, fmt.Errorf("option %d is out of range", n)
		}
		set[n-1] = true
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("no options selected")
	}
	return set, nil
}

// correctIndexSet resolves the correct option texts to 0-based indices by
// case-insensitive match against the option list.
func correctIndexSet(ex *exercisegen.Exercise) map[int]bool {
	set := make(map[int]bool)
	for _, answer := range ex.CorrectOptions {
		if i := optionIndex(ex.Options, answer); i >= 0 {
			set[i] = true
		}
	}
	return set
}

// optionIndex finds the index of text in options, case-insensitively.
// Returns -1 when absent.
func optionIndex(options []string, text string) int {
	text = strings.TrimSpace(text)
	for i, opt := range options {
		if strings.EqualFold(strings.TrimSpace(opt), text) {
			return i
		}
	}
	return -1
}

func indexSetsEqual(a, b map[int]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// formatIndexSet renders a 0-based index set as sorted 1-based numbers.
func formatIndexSet(set map[int]bool) string {
	nums := make([]int, 0, len(set))
	for i := range set {
		nums = append(nums, i+1)
	}
	sort.Ints(nums)
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
