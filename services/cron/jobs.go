package cron

import (
	"fmt"
	"time"

	"github.com/vidyasetu/school-api/model"
)

// SnapshotTenantCounts logs per-tenant row counts once an hour. The counts
// feed the platform dashboard and make tenant growth visible in the job log
// without a separate metrics stack.
func (m *CronManager) SnapshotTenantCounts() {
	jobName := "tenant_snapshot"

	var schools, students, enrollments, activeEnrollments int64

	if err := m.db.Model(&model.School{}).Count(&schools).Error; err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to count schools: %w", err))
		return
	}
	if err := m.db.Model(&model.Student{}).Count(&students).Error; err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to count students: %w", err))
		return
	}
	if err := m.db.Model(&model.Enrollment{}).Count(&enrollments).Error; err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to count enrollments: %w", err))
		return
	}
	if err := m.db.Model(&model.Enrollment{}).Where("is_active = ?", true).Count(&activeEnrollments).Error; err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to count active enrollments: %w", err))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf(
		"schools=%d students=%d enrollments=%d active_enrollments=%d",
		schools, students, enrollments, activeEnrollments))
}

// CleanupOldJobLogs removes cron job log rows older than 30 days.
func (m *CronManager) CleanupOldJobLogs() {
	jobName := "cleanup_cron_logs"

	cutoff := time.Now().Add(-30 * 24 * time.Hour)

	result := m.db.Where("created_at < ? AND job_name != ?", cutoff, jobName).
		Delete(&model.CronJobLog{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to delete old logs: %w", result.Error))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Deleted %d log rows older than 30 days", result.RowsAffected))
}
