package generation

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/yachaflex/yachaflex-api/internal/domain"
)

// Strategy names the step of Extract that produced a result.
type Strategy string

// Extraction strategies, tried in this order.
const (
	StrategyDirect    Strategy = "direct"
	StrategyBraceSpan Strategy = "brace_span"
	StrategyNone      Strategy = "none"
)

// Extraction is the outcome of decoding a raw model answer.
type Extraction struct {
	Result   domain.GenerationResult
	Strategy Strategy
}

// Degraded reports whether nothing usable was recovered from the answer.
func (e Extraction) Degraded() bool {
	return e.Result.IsEmpty()
}

const fence = "```"

// Extract decodes a model answer that should contain a JSON object with
// summary, flashcards and quiz keys. It never fails: when no strategy yields
// an object the empty result is returned with StrategyNone.
//
// Strategies, first success wins:
//  1. strip a ``` fence (optionally tagged) that brackets the whole trimmed text,
//     then decode what remains;
//  2. decode the span from the first '{' to the last '}' of the original text.
func Extract(raw string) Extraction {
	if obj, ok := decodeObject(stripFence(raw)); ok {
		return Extraction{Result: resultFromObject(obj), Strategy: StrategyDirect}
	}

	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start >= 0 && end > start {
		if obj, ok := decodeObject(raw[start : end+1]); ok {
			return Extraction{Result: resultFromObject(obj), Strategy: StrategyBraceSpan}
		}
	}

	return Extraction{Result: domain.EmptyGenerationResult(), Strategy: StrategyNone}
}

// stripFence removes a leading ``` (with an optional language tag) and a
// trailing ``` when both are present. Otherwise the trimmed text is returned.
func stripFence(raw string) string {
	text := strings.TrimSpace(raw)
	if len(text) < 2*len(fence) || !strings.HasPrefix(text, fence) || !strings.HasSuffix(text, fence) {
		return text
	}

	inner := text[len(fence) : len(text)-len(fence)]
	tagEnd := 0
	for tagEnd < len(inner) && isTagByte(inner[tagEnd]) {
		tagEnd++
	}
	return strings.TrimSpace(inner[tagEnd:])
}

func isTagByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_' || c == '+'
}

// decodeObject decodes s as a single JSON object.
func decodeObject(s string) (map[string]any, bool) {
	if s == "" {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// resultFromObject reads the known keys. A missing key or a value
// of the wrong type counts as absent.
func resultFromObject(obj map[string]any) domain.GenerationResult {
	result := domain.EmptyGenerationResult()
	result.Summary, _ = obj["summary"].(string)

	if items, ok := obj["flashcards"].([]any); ok {
		for _, item := range items {
			if card, ok := flashcardFrom(item); ok {
				result.Flashcards = append(result.Flashcards, card)
			}
		}
	}

	if items, ok := obj["quiz"].([]any); ok {
		for _, item := range items {
			if q, ok := quizQuestionFrom(item); ok {
				result.Quiz = append(result.Quiz, q)
			}
		}
	}

	return result
}

func flashcardFrom(v any) (domain.Flashcard, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return domain.Flashcard{}, false
	}
	question, _ := m["question"].(string)
	answer, _ := m["answer"].(string)
	if question == "" && answer == "" {
		return domain.Flashcard{}, false
	}
	return domain.Flashcard{Question: question, Answer: answer}, true
}

// quizQuestionFrom drops items whose correct_index does not index into options.
func quizQuestionFrom(v any) (domain.QuizQuestion, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return domain.QuizQuestion{}, false
	}

	rawOptions, ok := m["options"].([]any)
	if !ok || len(rawOptions) == 0 {
		return domain.QuizQuestion{}, false
	}
	options := make([]string, 0, len(rawOptions))
	for _, o := range rawOptions {
		s, ok := scalarString(o)
		if !ok {
			return domain.QuizQuestion{}, false
		}
		options = append(options, s)
	}

	index, ok := integer(m["correct_index"])
	if !ok || index < 0 || index >= len(options) {
		return domain.QuizQuestion{}, false
	}

	question, _ := m["question"].(string)
	return domain.QuizQuestion{
		Question:     question,
		Options:      options,
		CorrectIndex: index,
	}, true
}

// scalarString renders strings, numbers and booleans as option text.
func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

// integer accepts whole JSON numbers and numeric strings.
func integer(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		if t != math.Trunc(t) || math.Abs(t) > math.MaxInt32 {
			return 0, false
		}
		return int(t), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
