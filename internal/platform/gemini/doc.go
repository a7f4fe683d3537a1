// Package gemini provides an implementation of the generation.Completer
// interface backed by Google's Gemini API.
//
// This package is an infrastructure adapter: it translates a prompt into a
// GenerateContent call through the google.golang.org/genai client and hands
// the raw response text back. It does not retry, enforce timeouts or parse
// snippets; the generation.Adapter wrapping it owns those concerns. API
// errors are surfaced as *generation.StatusError so the adapter can tell
// throttling apart from outages.
package gemini
