package devserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"annfsu/app/internal/models"
)

type signupRequest struct {
	Username    string           `json:"username"`
	Email       string           `json:"email" binding:"required,email"`
	Password    string           `json:"password" binding:"required,min=6"`
	FullName    string           `json:"full_name" binding:"required"`
	Phone       string           `json:"phone" binding:"required"`
	Address     string           `json:"address" binding:"required"`
	Institution string           `json:"institution" binding:"required"`
	Committee   models.Committee `json:"committee" binding:"required"`
	Position    string           `json:"position"`
	BloodGroup  string           `json:"blood_group"`
	Photo       string           `json:"photo"`
}

type tokenResponse struct {
	AccessToken string             `json:"access_token"`
	TokenType   string             `json:"token_type"`
	User        models.UserProfile `json:"user"`
}

// Signup registers an account and files a pending membership application.
func (s *Server) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if !req.Committee.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "unknown committee"})
		return
	}

	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	user, err := s.store.createUser(models.UserProfile{
		Username:    strings.TrimSpace(req.Username),
		Email:       strings.TrimSpace(strings.ToLower(req.Email)),
		FullName:    req.FullName,
		Phone:       req.Phone,
		Address:     req.Address,
		Institution: req.Institution,
		Committee:   req.Committee,
		Position:    req.Position,
		BloodGroup:  req.BloodGroup,
		Photo:       req.Photo,
		Role:        models.RoleMember,
		Status:      models.StatusPending,
	}, passwordHash)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	s.sendToken(c, user)
}

type loginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	record, ok := s.store.findByIdentifier(strings.TrimSpace(req.Identifier))
	if !ok || !verifyPassword(req.Password, record.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "invalid credentials"})
		return
	}
	if record.Status == models.StatusDisabled {
		c.JSON(http.StatusForbidden, gin.H{"detail": "account disabled"})
		return
	}

	s.sendToken(c, record.public())
}

type otpRequest struct {
	Phone string `json:"phone" binding:"required"`
}

func (s *Server) RequestOTP(c *gin.Context) {
	var req otpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if _, ok := s.store.findByPhone(req.Phone); !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "phone number not registered"})
		return
	}

	code, err := generateOTP()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	s.store.putOTP(req.Phone, code, s.cfg.Security.OTPTTL)

	// Stands in for the SMS gateway.
	s.log.Info().Str("phone", req.Phone).Str("otp", code).Msg("otp issued")

	c.JSON(http.StatusOK, gin.H{
		"message":            "OTP sent successfully",
		"expires_in_minutes": int(s.cfg.Security.OTPTTL.Minutes()),
	})
}

type otpVerifyRequest struct {
	Phone string `json:"phone" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

func (s *Server) VerifyOTP(c *gin.Context) {
	var req otpVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if err := s.store.consumeOTP(req.Phone, req.OTP); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": err.Error()})
		return
	}

	record, ok := s.store.findByPhone(req.Phone)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "user not found"})
		return
	}
	if record.Status == models.StatusDisabled {
		c.JSON(http.StatusForbidden, gin.H{"detail": "account disabled"})
		return
	}

	s.sendToken(c, record.public())
}

func (s *Server) Me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

func (s *Server) sendToken(c *gin.Context, user models.UserProfile) {
	token, err := generateAccessToken(s.cfg.Security.JWTSecret, user.ID, s.cfg.Security.JWTTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}
