package generation

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yachaflex/yachaflex-api/internal/domain"
)

// WordRange is an inclusive target length in words.
type WordRange struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// LevelProfile describes the shape of the content generated for one stress level.
type LevelProfile struct {
	// Guidance describes the learner's state to the model.
	Guidance string `yaml:"guidance" json:"guidance"`
	// SummaryStyle names the kind of summary, e.g. "DETAILED summary".
	SummaryStyle  string    `yaml:"summary_style"  json:"summary_style"`
	SummaryWords  WordRange `yaml:"summary_words"  json:"summary_words"`
	Flashcards    int       `yaml:"flashcards"     json:"flashcards"`
	QuizQuestions int       `yaml:"quiz_questions" json:"quiz_questions"`
	QuizOptions   int       `yaml:"quiz_options"   json:"quiz_options"`
}

// Validate checks that the profile asks for a non-empty, well-formed result.
func (p LevelProfile) Validate() error {
	switch {
	case p.SummaryWords.Min <= 0 || p.SummaryWords.Max < p.SummaryWords.Min:
		return errors.New("summary_words must satisfy 0 < min <= max")
	case p.Flashcards <= 0:
		return errors.New("flashcards must be positive")
	case p.QuizQuestions <= 0:
		return errors.New("quiz_questions must be positive")
	case p.QuizOptions < 2:
		return errors.New("quiz_options must be at least 2")
	case p.SummaryStyle == "":
		return errors.New("summary_style cannot be empty")
	}
	return nil
}

// Profiles maps every stress level to its LevelProfile.
type Profiles map[domain.StressLevel]LevelProfile

// DefaultProfiles returns the built-in profile table.
func DefaultProfiles() Profiles {
	return Profiles{
		domain.StressLevelLow: {
			Guidance:      "The student is calm and focused.",
			SummaryStyle:  "DETAILED summary",
			SummaryWords:  WordRange{Min: 500, Max: 700},
			Flashcards:    10,
			QuizQuestions: 7,
			QuizOptions:   5,
		},
		domain.StressLevelMedium: {
			Guidance:      "The student has moderate stress.",
			SummaryStyle:  "SIMPLIFIED summary",
			SummaryWords:  WordRange{Min: 200, Max: 350},
			Flashcards:    5,
			QuizQuestions: 4,
			QuizOptions:   4,
		},
		domain.StressLevelHigh: {
			Guidance:      "The student is highly stressed.",
			SummaryStyle:  "VERY SHORT micro-summary",
			SummaryWords:  WordRange{Min: 50, Max: 80},
			Flashcards:    3,
			QuizQuestions: 2,
			QuizOptions:   3,
		},
	}
}

// For returns the profile for level.
func (p Profiles) For(level domain.StressLevel) (LevelProfile, error) {
	profile, ok := p[level]
	if !ok {
		return LevelProfile{}, fmt.Errorf("%w: no profile for stress level %q", ErrInvalidConfig, level)
	}
	return profile, nil
}

// Validate checks that every level has a valid profile.
func (p Profiles) Validate() error {
	for _, level := range []domain.StressLevel{
		domain.StressLevelLow,
		domain.StressLevelMedium,
		domain.StressLevelHigh,
	} {
		profile, err := p.For(level)
		if err != nil {
			return err
		}
		if err := profile.Validate(); err != nil {
			return fmt.Errorf("%w: profile %q: %v", ErrInvalidConfig, level, err)
		}
	}
	return nil
}

// LoadProfiles reads a YAML profile table from path and merges it over
// DefaultProfiles: levels and fields missing from the file keep their
// defaults. An empty path returns the defaults.
//
//	high:
//	  summary_words: {min: 40, max: 60}
//	  flashcards: 2
func LoadProfiles(path string) (Profiles, error) {
	profiles := DefaultProfiles()
	if path == "" {
		return profiles, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read level profiles from %s: %v", ErrInvalidConfig, path, err)
	}

	return ParseProfiles(data)
}

// ParseProfiles is LoadProfiles for an in-memory YAML document.
func ParseProfiles(data []byte) (Profiles, error) {
	profiles := DefaultProfiles()

	var nodes map[string]yaml.Node
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("%w: failed to parse level profiles: %v", ErrInvalidConfig, err)
	}

	for key, node := range nodes {
		level, err := domain.ParseStressLevel(key)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown stress level %q in level profiles", ErrInvalidConfig, key)
		}

		profile := profiles[level]
		if err := node.Decode(&profile); err != nil {
			return nil, fmt.Errorf("%w: failed to decode profile %q: %v", ErrInvalidConfig, key, err)
		}
		profiles[level] = profile
	}

	if err := profiles.Validate(); err != nil {
		return nil, err
	}
	return profiles, nil
}
