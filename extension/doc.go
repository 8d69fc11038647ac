// Package extension lets host applications register the Go types carried as
// request payloads.  Payloads survive JSON round-trips (queues, durable
// stores) as generic maps; a registered type allows the engine to hand the
// payload back as the concrete struct the requester submitted.
package extension
