// Package access decides who may review a program's reports.
package access

import (
	"context"

	"github.com/google/uuid"

	"bookclub_backend/internals/constants"
)

type RoleLookup interface {
	RoleOf(ctx context.Context, userID uuid.UUID) (string, error)
}

type OrganizerLookup interface {
	IsOrganizer(ctx context.Context, programID, userID uuid.UUID) (bool, error)
}

// ReviewerPolicy grants review rights to platform admins and to the program's organizers.
type ReviewerPolicy struct {
	Roles      RoleLookup
	Organizers OrganizerLookup
}

func (p ReviewerPolicy) CanReview(ctx context.Context, programID, userID uuid.UUID) (bool, error) {
	role, err := p.Roles.RoleOf(ctx, userID)
	if err != nil {
		return false, err
	}
	if constants.IsAdminRole(role) {
		return true, nil
	}
	return p.Organizers.IsOrganizer(ctx, programID, userID)
}
