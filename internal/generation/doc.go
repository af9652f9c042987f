// Package generation turns learning material into stress-adapted study
// content using an external large language model.
//
// The Orchestrator resolves the learner's effective stress level, builds a
// level-specific prompt from the configured LevelProfile table, calls an
// LLMClient with a bounded timeout and decodes the untrusted answer with
// Extract. Transport failures surface as a retryable *ServiceUnavailableError;
// answers that cannot be decoded degrade to an empty GenerationResult instead
// of failing. Concrete clients live in internal/platform/gemini and
// internal/platform/openai.
package generation
