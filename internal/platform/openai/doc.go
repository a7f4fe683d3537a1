// Package openai provides a generation.Completer for OpenAI-compatible chat
// completion endpoints. The same client serves OpenAI itself and OpenRouter;
// only the base URL and default model differ.
package openai
