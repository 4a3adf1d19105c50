package service

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/akramer2025-dev/brandstore-sub001/internal/model"
	"github.com/akramer2025-dev/brandstore-sub001/internal/repository"
	"github.com/akramer2025-dev/brandstore-sub001/internal/ws"
	"github.com/akramer2025-dev/brandstore-sub001/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSessionTimeout     = errors.New("session expired due to inactivity")
)

type AuthService interface {
	Login(email, password string) (*LoginResponse, error)
	ResetPassword(email, oldPassword, newPassword string) error
	ValidateToken(tokenString string) (*TokenValidationResponse, error)
	Heartbeat(userID uuid.UUID) error
}

type LoginResponse struct {
	Token      string             `json:"token"`
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type TokenValidationResponse struct {
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type authService struct {
	userRepo repository.UserRepository
	wsHub    *ws.Hub
}

func NewAuthService(userRepo repository.UserRepository, hub *ws.Hub) AuthService {
	return &authService{
		userRepo: userRepo,
		wsHub:    hub,
	}
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	// 1. Find user by email
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// 2. Check if user is active
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 3. Verify password
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// 4. Vendor users cannot log in when their store is deactivated
	if user.Vendor != nil && !user.Vendor.IsActive {
		return nil, ErrVendorInactive
	}

	roleCode := ""
	if user.Role != nil {
		roleCode = user.Role.Code
	}

	vendorID := ""
	if user.VendorID != nil {
		vendorID = user.VendorID.String()
	}

	// 5. Single Session: rotate token version, refresh LastSeenAt
	newTokenVersion := uuid.New().String()
	now := time.Now()
	user.TokenVersion = newTokenVersion
	user.LastSeenAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, errors.New("failed to update session")
	}

	// 6. Generate JWT token with TokenVersion
	token, err := jwt.GenerateToken(user.ID, user.Email, user.FullName, roleCode, vendorID, user.GetPrivilegeCodes(), newTokenVersion)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token:      token,
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}

func (s *authService) ResetPassword(email, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return ErrUserNotFound
	}

	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}

	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}

	return s.userRepo.Update(user)
}

func (s *authService) ValidateToken(tokenString string) (*TokenValidationResponse, error) {
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// Strict single session: version in DB must match the token
	if user.TokenVersion != claims.TokenVersion {
		return nil, errors.New("session expired (logged in on another device)")
	}

	// Inactivity check: LastSeenAt must be within 5 minutes
	if user.LastSeenAt == nil || time.Since(*user.LastSeenAt) > 5*time.Minute {
		return nil, ErrSessionTimeout
	}

	return &TokenValidationResponse{
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}

func (s *authService) Heartbeat(userID uuid.UUID) error {
	if err := s.userRepo.UpdateLastSeen(userID); err != nil {
		return err
	}

	// Broadcast presence so connected dashboards stay current
	go func() {
		payload := map[string]interface{}{
			"type":         "user_status_update",
			"user_id":      userID.String(),
			"status":       "online",
			"last_seen_at": time.Now(),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()

	return nil
}
