/**
 * @description
 * This file defines the user model for the member-portal along with the role and
 * verification vocabulary used by the role-switching flow.
 *
 * @notes
 * - A user holds a set of roles and one active role. The active role is what the
 *   rest of the system authorizes against; the role set is what the user may
 *   switch between.
 * - Role elevation above `public` is gated by an association-issued verification
 *   code (HNHG + four digits) that stays valid for thirty days. The derived
 *   verification state is computed in the app layer, never stored.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies one of the portal's access levels.
type Role string

const (
	RolePublic     Role = "public"
	RoleSubEditor  Role = "sub_editor"
	RoleSubAdmin   Role = "sub_admin"
	RoleSuperAdmin Role = "super_admin"
)

// IsAdmin reports whether the role can receive administrative alerts such as
// overdue-loan notices.
func (r Role) IsAdmin() bool {
	return r == RoleSubAdmin || r == RoleSuperAdmin
}

// VerificationState is the derived state of a user's role verification.
type VerificationState string

const (
	VerificationUnverified VerificationState = "unverified"
	VerificationVerified   VerificationState = "verified"
	VerificationExpired    VerificationState = "expired"
)

// DonorBadge is awarded based on a member's cumulative donations.
type DonorBadge string

const (
	BadgeBronze DonorBadge = "bronze"
	BadgeGold   DonorBadge = "gold"
)

// User represents a portal member. Maps to the `users` table.
type User struct {
	ID                 uuid.UUID   `json:"id"`
	Email              string      `json:"email"`
	Name               string      `json:"name"`
	PasswordHash       string      `json:"-"`
	Roles              []Role      `json:"roles"`
	ActiveRole         Role        `json:"active_role"`
	AssociationID      *uuid.UUID  `json:"association_id,omitempty"`
	Points             int64       `json:"points"`
	DonorBadge         *DonorBadge `json:"donor_badge,omitempty"`
	TotalDonations     int64       `json:"total_donations"` // in sen
	VerificationCode   *string     `json:"-"`
	VerificationExpiry *time.Time  `json:"verification_expiry,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
}

// HasRole reports whether the role belongs to the user's role set. Records
// written before role sets existed may carry an empty set; those are treated
// as holding the active role plus public.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.EffectiveRoles() {
		if r == role {
			return true
		}
	}
	return false
}

// EffectiveRoles returns the role set, defaulting legacy records to
// {activeRole, public}.
func (u *User) EffectiveRoles() []Role {
	if len(u.Roles) > 0 {
		return u.Roles
	}
	if u.ActiveRole == "" || u.ActiveRole == RolePublic {
		return []Role{RolePublic}
	}
	return []Role{u.ActiveRole, RolePublic}
}
