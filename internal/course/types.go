// Package course holds the persisted course shapes: the section structure
// parsed from a book and the per-section learner progress.
package course

// Section is one unit of course content.
type Section struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`

	// Explanations caches generated explanations by detail level, so a
	// level already explained is served without another backend call.
	Explanations map[string]string `json:"explanations,omitempty"`
}

// Attempt is the immutable record of one answered exercise. Appended to
// the owning section's history right after verification, never mutated.
type Attempt struct {
	Question string `json:"question"`
	Stage    int    `json:"stage"`

	// Options snapshots the choice list shown to the learner.
	Options []string `json:"options"`

	// UserAnswer is normalized to option text (a list for multiple
	// choice), never a bare index.
	UserAnswer any `json:"user_answer"`

	// CorrectAnswer snapshots the correct answer at grading time.
	CorrectAnswer any `json:"correct_answer"`

	IsCorrect bool `json:"is_correct"`
}

// Evaluation is the holistic per-section score. Score 0 with a nil pointer
// distinguishes "never evaluated"; a stored 0 means the evaluation could
// not be computed.
type Evaluation struct {
	Score   *int   `json:"score"`
	Comment string `json:"comment"`
}

// SectionProgress tracks everything the learner did in one section.
type SectionProgress struct {
	Completed bool `json:"completed"`

	// ExercisesCompleted counts attempts with IsCorrect = true.
	ExercisesCompleted int `json:"exercises_completed"`

	// Answered lists question texts answered correctly, guarding against
	// re-serving the same question.
	Answered []string `json:"answered"`

	// Exercises is the full attempt history in insertion order.
	Exercises []Attempt `json:"exercises"`

	Evaluation Evaluation `json:"evaluation"`
}

// HasAnswered reports whether the question was already answered correctly.
func (sp *SectionProgress) HasAnswered(question string) bool {
	for _, q := range sp.Answered {
		if q == question {
			return true
		}
	}
	return false
}

// RecordAttempt appends one attempt and updates the derived fields.
func (sp *SectionProgress) RecordAttempt(a Attempt) {
	sp.Exercises = append(sp.Exercises, a)
	if a.IsCorrect {
		sp.ExercisesCompleted++
		if !sp.HasAnswered(a.Question) {
			sp.Answered = append(sp.Answered, a.Question)
		}
	}
}

// Progress is the whole-course progress record.
type Progress struct {
	BookPath string `json:"book_path"`

	// Sections maps section ID (as a string, matching the JSON shape) to
	// its progress.
	Sections map[string]*SectionProgress `json:"sections"`
}

// NewProgress creates an empty progress record covering the given sections.
func NewProgress(bookPath string, sections []Section) *Progress {
	p := &Progress{
		BookPath: bookPath,
		Sections: make(map[string]*SectionProgress, len(sections)),
	}
	for _, s := range sections {
		p.Sections[sectionKey(s.ID)] = newSectionProgress()
	}
	return p
}

// Section returns the progress record for a section ID, creating it when
// missing so old progress files keep working after a structure change.
func (p *Progress) Section(id int) *SectionProgress {
	key := sectionKey(id)
	sp, ok := p.Sections[key]
	if !ok {
		sp = newSectionProgress()
		if p.Sections == nil {
			p.Sections = make(map[string]*SectionProgress)
		}
		p.Sections[key] = sp
	}
	return sp
}

func newSectionProgress() *SectionProgress {
	return &SectionProgress{
		Answered:  []string{},
		Exercises: []Attempt{},
	}
}
