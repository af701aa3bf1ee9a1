// Package access decides whether an actor may perform an operation on a
// content item, an ordered child or a user account.
package access

import (
	"talenta-backend/internal/domains/lifecycle"
	"talenta-backend/internal/shared/apperror"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "USER"
	RoleCreator   Role = "CREATOR"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleCreator, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// Actor is the resolved caller. A nil *Actor is an anonymous caller.
type Actor struct {
	UserID   uuid.UUID
	Role     Role
	IsActive bool
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

type Operation string

const (
	OpRead    Operation = "read"
	OpList    Operation = "list"
	OpCreate  Operation = "create"
	OpUpdate  Operation = "update"
	OpDelete  Operation = "delete"
	OpReorder Operation = "reorder"
	OpPublish Operation = "publish"
	// OpDemote is a role change away from ADMIN on a user account.
	OpDemote Operation = "demote"
	// OpDeactivate clears IsActive on a user account.
	OpDeactivate Operation = "deactivate"
)

type Kind int

const (
	KindContent Kind = iota
	KindChild
	KindUser
)

type ContributorStatus string

const (
	ContributorPending  ContributorStatus = "PENDING"
	ContributorApproved ContributorStatus = "APPROVED"
	ContributorRejected ContributorStatus = "REJECTED"
)

// Resource is what the decision is made about.
//
// For KindContent, OwnerID and Status describe the book or audio. For
// KindChild, OwnerID is the owner of the top-level content item, Status
// the child's own status, and ParentStatus the status of the content item.
// For KindUser, OwnerID is the target account and TargetRole its role.
type Resource struct {
	Kind         Kind
	OwnerID      uuid.UUID
	Status       lifecycle.Status
	ParentStatus lifecycle.Status

	AuthorID           uuid.UUID
	Contributor        ContributorStatus
	AllowContributions bool

	TargetRole Role
}

// Content describes a book or audio item.
func Content(ownerID uuid.UUID, status lifecycle.Status) Resource {
	return Resource{Kind: KindContent, OwnerID: ownerID, Status: status}
}

// Child describes a chapter or part whose top-level item is owned by ownerID.
func Child(ownerID uuid.UUID, status, parentStatus lifecycle.Status, authorID uuid.UUID) Resource {
	return Resource{
		Kind:         KindChild,
		OwnerID:      ownerID,
		Status:       status,
		ParentStatus: parentStatus,
		AuthorID:     authorID,
	}
}

// Account describes a user account.
func Account(userID uuid.UUID, role Role) Resource {
	return Resource{Kind: KindUser, OwnerID: userID, TargetRole: role}
}

// WithContribution marks the actor's contributor status on the book.
func (r Resource) WithContribution(status ContributorStatus, allowed bool) Resource {
	r.Contributor = status
	r.AllowContributions = allowed
	return r
}

type Reason string

const (
	ReasonUnauthenticated Reason = "UNAUTHENTICATED"
	ReasonNotOwner        Reason = "NOT_OWNER"
	ReasonNotActive       Reason = "NOT_ACTIVE"
	ReasonProtectedAdmin  Reason = "PROTECTED_ADMIN"
	ReasonForbiddenSelf   Reason = "FORBIDDEN_SELF"
)

type Decision struct {
	Allowed bool
	Reason  Reason
	Message string
}

var allow = Decision{Allowed: true}

func deny(reason Reason, message string) Decision {
	return Decision{Reason: reason, Message: message}
}

// Err returns nil for an allowed decision. UNAUTHENTICATED becomes a 401,
// every other reason a 403.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	if d.Reason == ReasonUnauthenticated {
		err := apperror.Unauthenticated(d.Message)
		err.Reason = string(d.Reason)
		return err
	}
	err := apperror.Forbidden(d.Message)
	err.Reason = string(d.Reason)
	return err
}

// Hide returns notFound for a denied decision so that read paths never
// reveal that a hidden entity exists.
func (d Decision) Hide(notFound error) error {
	if d.Allowed {
		return nil
	}
	return notFound
}

// Authorize evaluates the rules for res and op.
func Authorize(actor *Actor, res Resource, op Operation) Decision {
	if res.Kind == KindUser {
		return authorizeAccount(actor, res, op)
	}

	if isRead(op) && publiclyVisible(res) {
		return allow
	}
	if actor == nil {
		return deny(ReasonUnauthenticated, "Authentication required")
	}
	if !actor.IsActive {
		return deny(ReasonNotActive, "Account is deactivated")
	}
	if actor.UserID == res.OwnerID {
		return allow
	}
	if isRead(op) && actor.IsAdmin() {
		return allow
	}

	if res.Contributor == ContributorApproved && res.AllowContributions {
		if isRead(op) {
			return allow
		}
		if res.Kind == KindChild {
			switch op {
			case OpCreate, OpUpdate, OpReorder:
				return allow
			case OpDelete:
				if res.AuthorID == actor.UserID {
					return allow
				}
				return deny(ReasonNotOwner, "You can only delete content you authored")
			}
		}
	}

	return deny(ReasonNotOwner, "You do not have permission to perform this action")
}

func authorizeAccount(actor *Actor, res Resource, op Operation) Decision {
	if actor == nil {
		return deny(ReasonUnauthenticated, "Authentication required")
	}
	if !actor.IsActive {
		return deny(ReasonNotActive, "Account is deactivated")
	}

	self := actor.UserID == res.OwnerID
	if !actor.IsAdmin() {
		if self && isRead(op) {
			return allow
		}
		return deny(ReasonNotOwner, "Admin access required")
	}

	switch op {
	case OpRead, OpList:
		return allow
	case OpUpdate:
		if res.TargetRole == RoleAdmin && !self {
			return deny(ReasonProtectedAdmin, "Cannot modify other admin accounts")
		}
		return allow
	case OpDemote:
		if self {
			return deny(ReasonForbiddenSelf, "Cannot remove your own admin role")
		}
		if res.TargetRole == RoleAdmin {
			return deny(ReasonProtectedAdmin, "Cannot modify other admin accounts")
		}
		return allow
	case OpDeactivate:
		if self {
			return deny(ReasonForbiddenSelf, "Cannot deactivate your own account")
		}
		if res.TargetRole == RoleAdmin {
			return deny(ReasonProtectedAdmin, "Cannot modify other admin accounts")
		}
		return allow
	case OpDelete:
		// admin protection outranks the self check
		if res.TargetRole == RoleAdmin {
			return deny(ReasonProtectedAdmin, "Cannot delete admin accounts")
		}
		if self {
			return deny(ReasonForbiddenSelf, "Cannot delete your own account")
		}
		return allow
	}
	return deny(ReasonNotOwner, "Admin access required")
}

func isRead(op Operation) bool {
	return op == OpRead || op == OpList
}

func publiclyVisible(res Resource) bool {
	if !lifecycle.IsPublic(res.Status) {
		return false
	}
	if res.Kind == KindChild && res.ParentStatus != "" {
		return lifecycle.IsPublic(res.ParentStatus)
	}
	return true
}
