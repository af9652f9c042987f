// Package mocks holds hand-written test doubles for the interfaces that
// services and the generation orchestrator depend on.
//
// Each mock exposes one XxxFn field per method. A nil field falls back to a
// simple default (usually a zero value or an in-memory lookup), so tests only
// set the behaviour they assert on:
//
//	llm := &mocks.MockLLMClient{
//	    CompleteFn: func(ctx context.Context, p generation.Prompt) (string, error) {
//	        return `{"summary":"ok","flashcards":[],"quiz":[]}`, nil
//	    },
//	}
package mocks
