package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CronService manages scheduled background jobs
type CronService struct {
	cron            *cron.Cron
	reservationSvc  *ReservationService
	authSvc         *AuthService
	rateLimitSvc    *RateLimitService
	overdueSchedule string
	sessionSchedule string
	logger          *logrus.Logger
}

// NewCronService creates a new CronService. The schedules are five-field
// cron expressions.
func NewCronService(reservationSvc *ReservationService, authSvc *AuthService, rateLimitSvc *RateLimitService, overdueSchedule, sessionSchedule string, logger *logrus.Logger) *CronService {
	return &CronService{
		cron:            cron.New(),
		reservationSvc:  reservationSvc,
		authSvc:         authSvc,
		rateLimitSvc:    rateLimitSvc,
		overdueSchedule: overdueSchedule,
		sessionSchedule: sessionSchedule,
		logger:          logger,
	}
}

// Start starts all cron jobs
func (s *CronService) Start() error {
	// Job 1: Check out overdue reservations.
	if _, err := s.cron.AddFunc(s.overdueSchedule, s.sweepOverdueJob); err != nil {
		return fmt.Errorf("failed to schedule overdue sweep: %w", err)
	}

	// Job 2: Drop expired sessions.
	if _, err := s.cron.AddFunc(s.sessionSchedule, s.cleanupSessionsJob); err != nil {
		return fmt.Errorf("failed to schedule session cleanup: %w", err)
	}

	// Job 3: Drop login attempt records that fell out of every window.
	if _, err := s.cron.AddFunc(s.sessionSchedule, s.cleanupLoginAttemptsJob); err != nil {
		return fmt.Errorf("failed to schedule login attempt cleanup: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Cron service started")

	// Run the sweep once at startup so a restarted server catches up
	// on reservations that went overdue while it was down.
	go s.sweepOverdueJob()

	return nil
}

// Stop stops all cron jobs and waits for running ones to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

// sweepOverdueJob checks out reservations whose checkout date has passed
func (s *CronService) sweepOverdueJob() {
	start := time.Now()

	swept, err := s.reservationSvc.SweepOverdue(start)
	if err != nil {
		s.logger.WithField("error", err.Error()).Error("Overdue sweep failed")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"swept":    swept,
		"duration": time.Since(start).String(),
	}).Info("Overdue sweep finished")
}

// cleanupSessionsJob removes sessions whose tokens have expired
func (s *CronService) cleanupSessionsJob() {
	removed, err := s.authSvc.CleanupSessions(time.Now())
	if err != nil {
		s.logger.WithField("error", err.Error()).Error("Session cleanup failed")
		return
	}

	if removed > 0 {
		s.logger.WithField("removed", removed).Info("Expired sessions removed")
	}
}

// cleanupLoginAttemptsJob removes stale login throttle records
func (s *CronService) cleanupLoginAttemptsJob() {
	removed, err := s.rateLimitSvc.CleanupExpiredAttempts()
	if err != nil {
		s.logger.WithField("error", err.Error()).Error("Login attempt cleanup failed")
		return
	}

	if removed > 0 {
		s.logger.WithField("removed", removed).Info("Stale login attempts removed")
	}
}
