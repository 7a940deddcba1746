package constants

// Context keys shared between middleware and handlers
const (
	ContextKeyUserID = "user_id"
	ContextKeyOrgID  = "organization_id"
	ContextKeyRole   = "organization_role"
)

// Header carrying the organization the caller is acting in
const HeaderOrganizationID = "X-Organization-ID"

// Auth constraints
const MinPasswordLength = 8

// DefaultAttendanceDedupSeconds is the half-width of the window in which a
// repeated check-in/check-out for the same assignment and worker is treated
// as a retransmission rather than a new event.
const DefaultAttendanceDedupSeconds = 60

// MaxSuggestedAssignments caps how many drafts the suggestion endpoint accepts
// from the AI in a single request.
const MaxSuggestedAssignments = 20
