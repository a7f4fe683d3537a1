// Package api exposes the feed over HTTP. Handlers translate query
// parameters into generation requests, map domain errors to status codes
// and never let internal error text reach clients.
package api
