// Package gemini implements generation.LLMClient on Google's Gemini API
// through the google.golang.org/genai SDK.
//
// Requests carry the system instruction separately from the user content and
// ask for an application/json answer. Transient failures may be retried with
// exponential backoff when llm.max_retries is set; safety blocks and empty
// answers are returned immediately.
package gemini
