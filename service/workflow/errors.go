package workflow

import "errors"

var (
	// ErrUnknownPolicy indicates the named or selected policy is not in the
	// catalog.
	ErrUnknownPolicy = errors.New("unknown policy")

	// ErrRequestNotFound indicates the request id resolves to nothing.
	ErrRequestNotFound = errors.New("request not found")

	// ErrRequestNotPending indicates a mutation targeted a request that
	// already reached a terminal status.
	ErrRequestNotPending = errors.New("request is not pending")

	// ErrApproverNotRegistered indicates the deciding approver is unknown
	// to the registry.
	ErrApproverNotRegistered = errors.New("approver not registered")

	// ErrDuplicateDecision indicates the approver already decided on this
	// request.  Decisions are immutable; there is no vote changing.
	ErrDuplicateDecision = errors.New("approver already decided on this request")

	// ErrReasoningRequired indicates the bound policy demands a reasoning
	// text and none was supplied.
	ErrReasoningRequired = errors.New("reasoning is required by policy")

	// ErrInvalidOutcome indicates a decision outcome other than APPROVED or
	// REJECTED.
	ErrInvalidOutcome = errors.New("invalid decision outcome")
)
