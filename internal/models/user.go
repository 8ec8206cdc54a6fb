package models

type Role string

const (
	RoleMember     Role = "member"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusDisabled Status = "disabled"
)

type Committee string

const (
	CommitteeCentral    Committee = "central"
	CommitteeProvincial Committee = "provincial"
	CommitteeDistrict   Committee = "district"
	CommitteeCampus     Committee = "campus"
)

// Committees lists the organizational tiers in display order.
var Committees = []Committee{
	CommitteeCentral,
	CommitteeProvincial,
	CommitteeDistrict,
	CommitteeCampus,
}

func (c Committee) Valid() bool {
	for _, known := range Committees {
		if c == known {
			return true
		}
	}
	return false
}

// UserProfile is the member record as the backend serves it. MembershipID and
// IssueDate are present only while Status is approved.
type UserProfile struct {
	ID           string    `json:"id"`
	Username     string    `json:"username,omitempty"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	Institution  string    `json:"institution"`
	Committee    Committee `json:"committee"`
	Position     string    `json:"position,omitempty"`
	BloodGroup   string    `json:"blood_group,omitempty"`
	Photo        string    `json:"photo,omitempty"`
	Role         Role      `json:"role"`
	Status       Status    `json:"status"`
	MembershipID string    `json:"membership_id,omitempty"`
	IssueDate    string    `json:"issue_date,omitempty"`
	CreatedAt    string    `json:"created_at,omitempty"`
}

func (u UserProfile) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

func (u UserProfile) IsApproved() bool {
	return u.Status == StatusApproved
}
