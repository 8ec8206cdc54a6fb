package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"annfsu/app/internal/models"
)

// AdminAction is one of the member moderation verbs.
type AdminAction string

const (
	ActionApprove AdminAction = "approve"
	ActionReject  AdminAction = "reject"
	ActionDisable AdminAction = "disable"
	ActionEnable  AdminAction = "enable"
)

func (c *Client) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	err := c.do(ctx, http.MethodGet, "/api/admin/dashboard/stats", nil, &stats)
	return stats, err
}

// AdminUsers lists members, optionally filtered by status.
func (c *Client) AdminUsers(ctx context.Context, statusFilter models.Status) ([]models.UserProfile, error) {
	path := "/api/admin/users"
	if statusFilter != "" {
		path += "?status_filter=" + url.QueryEscape(string(statusFilter))
	}
	var users []models.UserProfile
	err := c.do(ctx, http.MethodGet, path, nil, &users)
	return users, err
}

// AdminUserAction applies a moderation verb to a member and returns the
// updated profile.
func (c *Client) AdminUserAction(ctx context.Context, memberID string, action AdminAction) (models.UserProfile, error) {
	var user models.UserProfile
	path := fmt.Sprintf("/api/admin/users/%s/%s", memberID, action)
	err := c.do(ctx, http.MethodPut, path, nil, &user)
	return user, err
}

func (c *Client) AdminActivities(ctx context.Context, limit int) ([]models.AdminActivity, error) {
	path := "/api/admin/activities"
	if limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}
	var activities []models.AdminActivity
	err := c.do(ctx, http.MethodGet, path, nil, &activities)
	return activities, err
}
