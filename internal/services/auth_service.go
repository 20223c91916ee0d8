package services

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/harborview/hms-backend/internal/database"
	"github.com/harborview/hms-backend/internal/models"
	"github.com/harborview/hms-backend/internal/utils"
	"github.com/harborview/hms-backend/pkg/jwt"
)

// AuthService handles staff authentication: login, logout, token checks,
// and account administration.
type AuthService struct {
	staffRepo   *database.StaffRepository
	sessionRepo *database.StaffSessionRepository
	jwtService  *jwt.Service
	logger      *logrus.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	staffRepo *database.StaffRepository,
	sessionRepo *database.StaffSessionRepository,
	jwtService *jwt.Service,
	logger *logrus.Logger,
) *AuthService {
	return &AuthService{
		staffRepo:   staffRepo,
		sessionRepo: sessionRepo,
		jwtService:  jwtService,
		logger:      logger,
	}
}

// Login authenticates a staff account and issues an access token. The
// session row it records is what logout later revokes.
func (s *AuthService) Login(req *models.LoginRequest, userAgent, ipAddress string, now time.Time) (*models.LoginResponse, error) {
	staff, err := s.staffRepo.GetByUsername(req.Username)
	if err != nil {
		// Same answer for a missing account and a wrong password.
		return nil, fmt.Errorf("invalid username or password")
	}

	if !staff.IsActive {
		return nil, fmt.Errorf("account is inactive")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid username or password")
	}

	token, claims, err := s.jwtService.Generate(staff.ID, staff.Username, string(staff.Role), now)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	session := &models.StaffSession{
		StaffID:   staff.ID,
		TokenID:   claims.ID,
		Device:    utils.DescribeDevice(userAgent),
		IPAddress: ipAddress,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, fmt.Errorf("failed to record session: %w", err)
	}

	if err := s.staffRepo.UpdateLastLogin(staff.ID, now); err != nil {
		s.logger.WithFields(logrus.Fields{
			"staff_id": staff.ID,
			"error":    err.Error(),
		}).Warn("Failed to update last login")
	}
	staff.LastLoginAt = &now

	s.logger.WithFields(logrus.Fields{
		"staff_id": staff.ID,
		"username": staff.Username,
		"device":   session.Device,
		"ip":       session.IPAddress,
	}).Info("Staff logged in")

	return &models.LoginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		Staff:     staff,
	}, nil
}

// Authenticate validates a presented token against both the signature and
// the session store, and returns the owning account.
func (s *AuthService) Authenticate(token string, now time.Time) (*models.Staff, *jwt.Claims, error) {
	claims, err := s.jwtService.Validate(token)
	if err != nil {
		return nil, nil, err
	}

	session, err := s.sessionRepo.GetByTokenID(claims.ID)
	if err != nil {
		return nil, nil, err
	}
	if session == nil || session.Revoked() || now.After(session.ExpiresAt) {
		return nil, nil, fmt.Errorf("session is no longer valid")
	}

	staff, err := s.staffRepo.GetByID(claims.StaffID)
	if err != nil {
		return nil, nil, err
	}
	if !staff.IsActive {
		return nil, nil, fmt.Errorf("account is inactive")
	}

	return staff, claims, nil
}

// Logout revokes the session behind a token. The token keeps its signature
// but no longer passes Authenticate.
func (s *AuthService) Logout(token string, now time.Time) error {
	claims, err := s.jwtService.Validate(token)
	if err != nil {
		return err
	}

	if err := s.sessionRepo.Revoke(claims.ID, now); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"staff_id": claims.StaffID,
		"username": claims.Username,
	}).Info("Staff logged out")

	return nil
}

// CreateStaff opens a new staff account with a bcrypt-hashed password
func (s *AuthService) CreateStaff(req *models.CreateStaffRequest) (*models.Staff, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	staff := &models.Staff{
		Username:     req.Username,
		PasswordHash: string(hash),
		DisplayName:  req.DisplayName,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.staffRepo.Create(staff); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"staff_id": staff.ID,
		"username": staff.Username,
		"role":     staff.Role,
	}).Info("Staff account created")

	return staff, nil
}

// ListStaff retrieves all staff accounts
func (s *AuthService) ListStaff() ([]models.Staff, error) {
	return s.staffRepo.List()
}

// SetStaffActive enables or disables an account. Disabling also revokes
// every live session, so outstanding tokens die with the account.
func (s *AuthService) SetStaffActive(staffID string, active bool, now time.Time) error {
	if err := s.staffRepo.SetActive(staffID, active); err != nil {
		return err
	}

	if !active {
		if err := s.sessionRepo.RevokeAllForStaff(staffID, now); err != nil {
			return err
		}
	}

	s.logger.WithFields(logrus.Fields{
		"staff_id": staffID,
		"active":   active,
	}).Info("Staff account updated")

	return nil
}

// ChangePassword replaces an account's password and revokes its sessions
func (s *AuthService) ChangePassword(staffID, newPassword string, now time.Time) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.staffRepo.UpdatePassword(staffID, string(hash)); err != nil {
		return err
	}

	return s.sessionRepo.RevokeAllForStaff(staffID, now)
}

// ListSessions retrieves the live sessions of one account
func (s *AuthService) ListSessions(staffID string, now time.Time) ([]models.StaffSession, error) {
	return s.sessionRepo.ListActiveForStaff(staffID, now)
}

// CleanupSessions removes sessions whose tokens have expired
func (s *AuthService) CleanupSessions(now time.Time) (int64, error) {
	return s.sessionRepo.CleanupExpired(now)
}
