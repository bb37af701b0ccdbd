package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"iteamhub_backend/internals/constants"
	"iteamhub_backend/internals/features/memberships/membership/model"
	helper "iteamhub_backend/internals/helpers"
)

// E-IDs look like ITS/2025/STU/0042: society tag, activation year, role
// prefix, then a sequence scoped to (year, prefix). Sequences are allocated
// from the eid_counters row locked inside the activation transaction, so two
// concurrent activations cannot observe the same value. Numbers past 9999
// simply grow wider.
const eidTag = "ITS"

func FormatEID(year int, prefix string, seq int) string {
	return fmt.Sprintf("%s/%d/%s/%04d", eidTag, year, prefix, seq)
}

// ParseEIDSequence extracts the trailing sequence number of an E-ID.
// Returns ok=false for anything malformed.
func ParseEIDSequence(eid string) (int, bool) {
	parts := strings.Split(eid, "/")
	if len(parts) != 4 {
		return 0, false
	}
	n, err := strconv.Atoi(parts[3])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// AllocateEID hands out the next E-ID for (year, role). Must be called
// inside the transaction that also persists the membership update; the
// counter row stays locked until that transaction ends.
func AllocateEID(tx *gorm.DB, role constants.Role, year int) (string, error) {
	prefix := role.EIDPrefix()
	if prefix == "" {
		return "", fmt.Errorf("role %q has no E-ID prefix", role)
	}

	var counter model.EIDCounterModel
	err := helper.LockForUpdate(tx).
		Where("year = ? AND role_prefix = ?", year, prefix).
		Take(&counter).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// First allocation for this scope: seed from whatever E-IDs already
		// exist (legacy rows predate the counter table).
		seed, serr := legacyMaxSequence(tx, year, prefix)
		if serr != nil {
			return "", serr
		}
		counter = model.EIDCounterModel{Year: year, RolePrefix: prefix, LastSeq: seed}
		if cerr := tx.Create(&counter).Error; cerr != nil {
			return "", cerr
		}
	case err != nil:
		return "", err
	}

	counter.LastSeq++
	if err := tx.Model(&model.EIDCounterModel{}).
		Where("year = ? AND role_prefix = ?", year, prefix).
		Update("last_seq", counter.LastSeq).Error; err != nil {
		return "", err
	}

	return FormatEID(year, prefix, counter.LastSeq), nil
}

// legacyMaxSequence scans assigned E-IDs for the scope and returns the
// highest sequence found (0 when none). Malformed entries contribute
// nothing.
func legacyMaxSequence(tx *gorm.DB, year int, prefix string) (int, error) {
	var eids []string
	pattern := fmt.Sprintf("%s/%d/%s/%%", eidTag, year, prefix)
	if err := tx.Model(&model.MembershipModel{}).
		Where("eid LIKE ?", pattern).
		Pluck("eid", &eids).Error; err != nil {
		return 0, err
	}

	maxSeq := 0
	for _, eid := range eids {
		if n, ok := ParseEIDSequence(eid); ok && n > maxSeq {
			maxSeq = n
		}
	}
	return maxSeq, nil
}
