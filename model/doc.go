// Package model contains the in-memory representation of approval requests,
// decisions, approvers and policies used by the Arbiter engine.
//
// Policies are typically loaded from a YAML document or registered in code
// and are captured by value on every request, so later catalog changes never
// affect in-flight requests.  The aggregates defined here are storage
// agnostic – DAO implementations persist and return copies via Clone.
package model
