package devserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"annfsu/app/internal/models"
)

type profileUpdateRequest struct {
	FullName    *string           `json:"full_name"`
	Phone       *string           `json:"phone"`
	Address     *string           `json:"address"`
	Institution *string           `json:"institution"`
	Committee   *models.Committee `json:"committee"`
	Position    *string           `json:"position"`
	BloodGroup  *string           `json:"blood_group"`
	Photo       *string           `json:"photo"`
}

// UpdateProfile patches the caller's own profile. Photo set to "" clears
// the avatar.
func (s *Server) UpdateProfile(c *gin.Context) {
	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	user := currentUser(c)
	updated, err := s.store.updateUser(user.ID, func(record *userRecord) error {
		if req.FullName != nil {
			record.FullName = *req.FullName
		}
		if req.Phone != nil {
			record.Phone = *req.Phone
		}
		if req.Address != nil {
			record.Address = *req.Address
		}
		if req.Institution != nil {
			record.Institution = *req.Institution
		}
		if req.Committee != nil {
			if !req.Committee.Valid() {
				return errors.New("unknown committee")
			}
			record.Committee = *req.Committee
		}
		if req.Position != nil {
			record.Position = *req.Position
		}
		if req.BloodGroup != nil {
			record.BloodGroup = *req.BloodGroup
		}
		if req.Photo != nil {
			record.Photo = *req.Photo
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Apply files (or re-files after a rejection) a membership application.
func (s *Server) Apply(c *gin.Context) {
	user := currentUser(c)

	updated, err := s.store.updateUser(user.ID, func(record *userRecord) error {
		switch record.Status {
		case models.StatusApproved:
			return errors.New("already an approved member")
		case models.StatusPending:
			return errors.New("application already submitted")
		}
		record.Status = models.StatusPending
		return nil
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, updated)
}

type memberUpdateRequest struct {
	Status   *models.Status `json:"status"`
	Role     *models.Role   `json:"role"`
	Position *string        `json:"position"`
}

// UpdateMember is the admin-side patch of another member.
func (s *Server) UpdateMember(c *gin.Context) {
	var req memberUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	memberID := c.Param("id")
	changes := map[string]any{}
	updated, err := s.store.updateUser(memberID, func(record *userRecord) error {
		if req.Status != nil {
			record.Status = *req.Status
			changes["status"] = *req.Status
		}
		if req.Role != nil {
			record.Role = *req.Role
			changes["role"] = *req.Role
		}
		if req.Position != nil {
			record.Position = *req.Position
			changes["position"] = *req.Position
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
		return
	}

	s.store.logActivity(currentUser(c), "update", "member", memberID, changes)
	c.JSON(http.StatusOK, updated)
}

func (s *Server) AdminListUsers(c *gin.Context) {
	statusFilter := models.Status(c.Query("status_filter"))
	c.JSON(http.StatusOK, s.store.listUsers(statusFilter))
}

// AdminUserAction handles approve, reject, disable and enable.
func (s *Server) AdminUserAction(c *gin.Context) {
	memberID := c.Param("id")
	action := c.Param("action")

	var (
		updated models.UserProfile
		err     error
	)
	switch action {
	case "approve":
		updated, err = s.store.approveUser(memberID)
	case "reject":
		updated, err = s.store.updateUser(memberID, func(record *userRecord) error {
			record.Status = models.StatusRejected
			return nil
		})
	case "disable":
		updated, err = s.store.updateUser(memberID, func(record *userRecord) error {
			record.Status = models.StatusDisabled
			return nil
		})
	case "enable":
		updated, err = s.store.updateUser(memberID, func(record *userRecord) error {
			record.Status = models.StatusApproved
			return nil
		})
	default:
		c.JSON(http.StatusNotFound, gin.H{"detail": "unknown action"})
		return
	}
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
		return
	}

	details := map[string]any{"member_name": updated.FullName}
	if updated.MembershipID != "" {
		details["membership_id"] = updated.MembershipID
	}
	s.store.logActivity(currentUser(c), action, "member", memberID, details)

	c.JSON(http.StatusOK, updated)
}

func (s *Server) DashboardStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.stats())
}

func (s *Server) AdminActivities(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	c.JSON(http.StatusOK, s.store.listActivities(limit))
}
