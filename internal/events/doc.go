// Package events carries provider call events from the generation adapter to
// observers (logging, metrics) without putting them on the request path.
// Emission never blocks: when the buffer is full the event is dropped.
package events
