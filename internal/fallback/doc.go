// Package fallback provides static, deterministic feed content used whenever
// the upstream provider cannot supply enough fresh snippets.
//
// Every generated snippet references the topic verbatim and carries a short
// id derived from the topic, a caller-supplied salt and the snippet position,
// so successive pages (different salts) never produce identical strings.
package fallback
