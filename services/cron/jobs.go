package cron

import (
	"fmt"
	"time"

	"github.com/skillora/skillora-api/model"
)

// CloseExpiredInternships moves published internships whose application
// deadline has passed to closed. Applying already rejects expired postings;
// this keeps listings honest.
func (m *CronManager) CloseExpiredInternships() {
	jobName := "close_expired_internships"

	result := m.db.Model(&model.Internship{}).
		Where("status = ? AND application_deadline <= ?", model.InternshipStatusPublished, time.Now()).
		Update("status", model.InternshipStatusClosed)
	if result.Error != nil {
		m.logJobError(jobName, result.Error)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("closed %d expired internships", result.RowsAffected))
}

// PurgeOldNotifications deletes read notifications older than 90 days.
func (m *CronManager) PurgeOldNotifications() {
	jobName := "purge_old_notifications"
	cutoff := time.Now().AddDate(0, 0, -90)

	result := m.db.Unscoped().
		Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&model.Notification{})
	if result.Error != nil {
		m.logJobError(jobName, result.Error)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("purged %d notifications", result.RowsAffected))
}

// ReconcileSeatCounters realigns each internship's seats_filled column with
// the count of selected applications. Selection already updates the counter
// in the same transaction; this catches drift from manual data edits.
func (m *CronManager) ReconcileSeatCounters() {
	jobName := "reconcile_seat_counters"

	err := m.db.Exec(`
		UPDATE internships SET seats_filled = (
			SELECT COUNT(*) FROM internship_applications
			WHERE internship_applications.internship_id = internships.id
			  AND internship_applications.status = ?
			  AND internship_applications.deleted_at IS NULL
		)
		WHERE internships.deleted_at IS NULL`, model.ApplicationStatusSelected).Error
	if err != nil {
		m.logJobError(jobName, err)
		return
	}

	m.logJobComplete(jobName, "seat counters reconciled")
}
