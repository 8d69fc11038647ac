// Package arbiter provides a multi-approver decision workflow engine.
//
// Requests are opened against named approval policies that define how many
// approvers, holding which roles, must sign off before the request is
// approved.  The engine records immutable decisions, escalates requests that
// linger, expires requests past their deadline and notifies approvers
// through pluggable channels.
//
// Arbiter is designed to be embedded in host applications.  End-users
// typically interact with the engine via the high-level Service façade
// exposed by the root package:
//
//	srv := arbiter.New()
//	engine := srv.Engine()
//	request, _ := engine.CreateRequest(ctx, &workflow.CreateInput{...})
//	_, msg, _ := engine.SubmitDecision(ctx, &workflow.DecisionInput{...})
//
// For more details see the README and individual sub-packages.
package arbiter
