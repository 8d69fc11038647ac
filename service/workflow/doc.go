// Package workflow implements the approval engine: it creates requests
// against catalog policies, records approver decisions, finalizes requests
// when a quorum is reached, and sweeps pending requests for timeout and
// escalation.  All request mutations for a given id are serialized behind a
// per-request lock, so concurrent decisions interleave safely.
package workflow
