package model

import "time"

// MemberRole is the role a user holds on an organization. Authorization only
// cares about owners; member exists for provisioned non-owner accounts.
type MemberRole string

const (
	MemberRoleOwner  MemberRole = "owner"
	MemberRoleMember MemberRole = "member"
)

type OrganizationMember struct {
	CreatedAt      time.Time  `json:"created_at"`
	Role           MemberRole `json:"role"`
	UserID         int64      `json:"user_id"`
	OrganizationID int64      `json:"organization_id"`
}
