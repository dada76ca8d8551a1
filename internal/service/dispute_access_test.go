package service

import (
	"testing"

	"workspace-disputes-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestResolveDisputeAccess(t *testing.T) {
	complainant := uuid.New()
	respondent := uuid.New()
	assigneeId := uuid.New()

	dispute := &entity.Dispute{
		ID:            uuid.New(),
		ComplainantID: complainant,
		RespondentID:  respondent,
		AssignedTo:    &assigneeId,
	}

	admin := &entity.User{Id: uuid.New(), Role: entity.UserRoleAdmin}
	moderator := &entity.User{Id: uuid.New(), Role: entity.UserRoleModerator}
	assignee := &entity.User{Id: assigneeId, Role: entity.UserRoleModerator}
	party := &entity.User{Id: complainant, Role: entity.UserRoleUser}
	outsider := &entity.User{Id: uuid.New(), Role: entity.UserRoleUser}

	cases := []struct {
		name    string
		caller  *entity.User
		allowed []DisputeAction
		denied  []DisputeAction
	}{
		{
			name:    "admin can do everything",
			caller:  admin,
			allowed: []DisputeAction{ActionView, ActionUpdate, ActionEscalate, ActionResolve, ActionAssign, ActionReopen, ActionDelete},
		},
		{
			name:    "assignee handles but does not administer",
			caller:  assignee,
			allowed: []DisputeAction{ActionView, ActionUpdate, ActionEscalate, ActionResolve},
			denied:  []DisputeAction{ActionAssign, ActionReopen, ActionDelete},
		},
		{
			name:    "party participates but cannot decide",
			caller:  party,
			allowed: []DisputeAction{ActionView, ActionUpdate, ActionEscalate},
			denied:  []DisputeAction{ActionResolve, ActionAssign, ActionReopen, ActionDelete},
		},
		{
			name:    "unassigned moderator only observes",
			caller:  moderator,
			allowed: []DisputeAction{ActionView},
			denied:  []DisputeAction{ActionUpdate, ActionEscalate, ActionResolve, ActionAssign, ActionReopen, ActionDelete},
		},
		{
			name:    "outsider can only view",
			caller:  outsider,
			allowed: []DisputeAction{ActionView},
			denied:  []DisputeAction{ActionUpdate, ActionEscalate, ActionResolve, ActionAssign, ActionReopen, ActionDelete},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			access := ResolveDisputeAccess(dispute, tc.caller)
			for _, action := range tc.allowed {
				assert.True(t, access.Can(action), "expected %s to be allowed", action)
			}
			for _, action := range tc.denied {
				assert.False(t, access.Can(action), "expected %s to be denied", action)
			}
		})
	}
}
