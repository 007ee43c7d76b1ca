package workers

import (
	"time"

	"feedinneed_backend/internal/logger"
	"feedinneed_backend/internal/repositories"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Housekeeping runs the periodic sweeps: removing stale unverified accounts
// and expiring donations past their pickup window.
type Housekeeping struct {
	db           *gorm.DB
	userRepo     repositories.UserRepository
	donationRepo repositories.DonationRepository
	notifRepo    repositories.NotificationRepository

	schedule          string
	maxUnverifiedAge  time.Duration
	maxNotificationAge time.Duration

	cron *cron.Cron
}

func NewHousekeeping(
	db *gorm.DB,
	userRepo repositories.UserRepository,
	donationRepo repositories.DonationRepository,
	notifRepo repositories.NotificationRepository,
	schedule string,
	maxUnverifiedAgeDays int,
) *Housekeeping {
	return &Housekeeping{
		db:                 db,
		userRepo:           userRepo,
		donationRepo:       donationRepo,
		notifRepo:          notifRepo,
		schedule:           schedule,
		maxUnverifiedAge:   time.Duration(maxUnverifiedAgeDays) * 24 * time.Hour,
		maxNotificationAge: 90 * 24 * time.Hour,
	}
}

// Start registers the sweep on the cron schedule and runs it once right away
// so a restart never leaves stale rows sitting until the next tick.
func (h *Housekeeping) Start() error {
	h.cron = cron.New()
	if _, err := h.cron.AddFunc(h.schedule, h.Sweep); err != nil {
		return err
	}
	h.cron.Start()

	go h.Sweep()

	logger.Info("housekeeping started", "schedule", h.schedule)
	return nil
}

func (h *Housekeeping) Stop() {
	if h.cron != nil {
		h.cron.Stop()
	}
}

// Sweep runs every housekeeping task once. Tasks are independent; a failure
// in one does not stop the others.
func (h *Housekeeping) Sweep() {
	now := time.Now()

	expired, err := h.donationRepo.ExpireOverdue(h.db, now)
	logger.WorkerLog("housekeeping", "expire overdue donations", err)
	if err == nil && expired > 0 {
		logger.Info("expired overdue donations", "count", expired)
	}

	cutoff := now.Add(-h.maxUnverifiedAge)
	removed, err := h.userRepo.DeleteUnverifiedOlderThan(h.db, cutoff)
	logger.WorkerLog("housekeeping", "delete stale unverified accounts", err)
	if err == nil && removed > 0 {
		logger.Info("removed stale unverified accounts", "count", removed, "cutoff", cutoff)
	}

	cleaned, err := h.notifRepo.DeleteOlderThan(h.db, now.Add(-h.maxNotificationAge))
	logger.WorkerLog("housekeeping", "clean old notifications", err)
	if err == nil && cleaned > 0 {
		logger.Info("cleaned old read notifications", "count", cleaned)
	}
}
