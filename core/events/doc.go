// Package events defines the trace events emitted while dishes are
// dispatched to kitchen stations. They are delivered synchronously to a
// dispatch.Tracer and fanned out on the event bus for observers.
package events
