// Package openai implements generation.LLMClient against any OpenAI-compatible
// chat completions endpoint. The default endpoint is Groq.
package openai
