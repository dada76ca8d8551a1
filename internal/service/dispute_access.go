package service

import (
	"workspace-disputes-be/internal/entity"
)

// DisputeAction is one operation a caller may perform on a dispute.
type DisputeAction string

const (
	ActionView     DisputeAction = "view"
	ActionUpdate   DisputeAction = "update"
	ActionEscalate DisputeAction = "escalate"
	ActionResolve  DisputeAction = "resolve"
	ActionAssign   DisputeAction = "assign"
	ActionReopen   DisputeAction = "reopen"
	ActionDelete   DisputeAction = "delete"
)

// AccessSet is the set of actions a caller is allowed on one dispute.
type AccessSet map[DisputeAction]bool

func (s AccessSet) Can(action DisputeAction) bool {
	return s[action]
}

// ResolveDisputeAccess derives, in one place, everything a caller may do to
// a dispute from their role and relationship to it. Every operation
// consults this instead of re-deriving admin/assignee/party checks inline.
func ResolveDisputeAccess(dispute *entity.Dispute, caller *entity.User) AccessSet {
	isAdmin := caller.Role == entity.UserRoleAdmin
	isAssignee := dispute.AssignedTo != nil && *dispute.AssignedTo == caller.Id
	isParty := dispute.ComplainantID == caller.Id || dispute.RespondentID == caller.Id

	// Any authenticated user may view a dispute; staff-only fields are
	// redacted at the response layer instead of gating the read.
	access := AccessSet{ActionView: true}

	if isAdmin || isAssignee || isParty {
		access[ActionUpdate] = true
		access[ActionEscalate] = true
	}
	if isAdmin || isAssignee {
		access[ActionResolve] = true
	}
	if isAdmin {
		access[ActionAssign] = true
		access[ActionReopen] = true
		access[ActionDelete] = true
	}

	return access
}
