// Package config handles configuration loading, parsing, and validation
// from various sources (environment variables, files). It provides type-safe
// access to application settings needed by different components while keeping
// configuration details separate from business logic.
//
// Every key can be set through an environment variable with the SCRY_ prefix,
// where nesting dots become underscores: llm.gemini_api_key is read from
// SCRY_LLM_GEMINI_API_KEY.
package config
