package api

import (
	"context"
	"net/http"

	"annfsu/app/internal/models"
)

// ProfilePatch is a partial self-update. Nil fields are left untouched;
// Photo pointing at an empty string clears the avatar.
type ProfilePatch struct {
	FullName    *string           `json:"full_name,omitempty"`
	Phone       *string           `json:"phone,omitempty"`
	Address     *string           `json:"address,omitempty"`
	Institution *string           `json:"institution,omitempty"`
	Committee   *models.Committee `json:"committee,omitempty"`
	Position    *string           `json:"position,omitempty"`
	BloodGroup  *string           `json:"blood_group,omitempty"`
	Photo       *string           `json:"photo,omitempty"`
}

func (c *Client) UpdateProfile(ctx context.Context, patch ProfilePatch) (models.UserProfile, error) {
	var user models.UserProfile
	err := c.do(ctx, http.MethodPut, "/api/profile/update", patch, &user)
	return user, err
}

// MemberPatch is the admin-side partial update of another member.
type MemberPatch struct {
	Status   *models.Status `json:"status,omitempty"`
	Role     *models.Role   `json:"role,omitempty"`
	Position *string        `json:"position,omitempty"`
}

func (c *Client) UpdateMember(ctx context.Context, memberID string, patch MemberPatch) (models.UserProfile, error) {
	var user models.UserProfile
	err := c.do(ctx, http.MethodPut, "/api/members/"+memberID, patch, &user)
	return user, err
}

// Apply files (or re-files, after a rejection) a membership application.
func (c *Client) Apply(ctx context.Context) (models.UserProfile, error) {
	var user models.UserProfile
	err := c.do(ctx, http.MethodPost, "/api/membership/apply", nil, &user)
	return user, err
}
