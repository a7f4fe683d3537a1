// Package ciutil detects the CI environment and provides the external
// services that integration tests need, such as a Redis connection.
//
// Integration tests skip when their service is not configured locally. In CI
// a missing service is a failure when SCRY_REQUIRE_INTEGRATION is set, so a
// misconfigured pipeline cannot silently skip them.
package ciutil
