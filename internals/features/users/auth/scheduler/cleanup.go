package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	membershipService "iteamhub_backend/internals/features/memberships/membership/service"
	authRepo "iteamhub_backend/internals/features/users/auth/repository"
)

// StartAuthCleanupScheduler sweeps expired blacklist rows and refresh
// tokens once per interval (default 24h, AUTH_CLEANUP_INTERVAL_HOURS).
func StartAuthCleanupScheduler(db *gorm.DB) {
	go func() {
		interval := 24 * time.Hour
		if v := os.Getenv("AUTH_CLEANUP_INTERVAL_HOURS"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				interval = time.Duration(n) * time.Hour
			}
		}

		for {
			if n, err := authRepo.CleanupExpiredBlacklist(db); err != nil {
				log.Printf("[CLEANUP] blacklist sweep failed: %v", err)
			} else if n > 0 {
				log.Printf("[CLEANUP] removed %d expired blacklist tokens", n)
			}
			if n, err := authRepo.DeleteExpiredRefreshTokens(db); err != nil {
				log.Printf("[CLEANUP] refresh token sweep failed: %v", err)
			} else if n > 0 {
				log.Printf("[CLEANUP] removed %d expired refresh tokens", n)
			}
			time.Sleep(interval)
		}
	}()
}

// StartMembershipExpiryScheduler flips overdue active memberships to
// expired (default hourly, MEMBERSHIP_EXPIRY_INTERVAL_MINUTES).
func StartMembershipExpiryScheduler(db *gorm.DB) {
	go func() {
		interval := time.Hour
		if v := os.Getenv("MEMBERSHIP_EXPIRY_INTERVAL_MINUTES"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				interval = time.Duration(n) * time.Minute
			}
		}

		for {
			if n, err := membershipService.ExpireOverdueMemberships(db); err != nil {
				log.Printf("[EXPIRY] membership sweep failed: %v", err)
			} else if n > 0 {
				log.Printf("[EXPIRY] expired %d overdue memberships", n)
			}
			time.Sleep(interval)
		}
	}()
}
