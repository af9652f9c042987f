package domain

// Flashcard is a single question/answer pair.
type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QuizQuestion is a multiple-choice question. CorrectIndex always indexes
// into Options.
type QuizQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

// GenerationResult is the structured content produced for one generation
// request. A result whose fields are all empty is a degraded result: the
// language model answered but nothing could be extracted from it.
type GenerationResult struct {
	Summary    string         `json:"summary"`
	Flashcards []Flashcard    `json:"flashcards"`
	Quiz       []QuizQuestion `json:"quiz"`
}

// EmptyGenerationResult returns the degraded result with non-nil slices so it
// encodes as empty JSON arrays.
func EmptyGenerationResult() GenerationResult {
	return GenerationResult{
		Summary:    "",
		Flashcards: []Flashcard{},
		Quiz:       []QuizQuestion{},
	}
}

// IsEmpty reports whether the result carries no content at all.
func (r GenerationResult) IsEmpty() bool {
	return r.Summary == "" && len(r.Flashcards) == 0 && len(r.Quiz) == 0
}
