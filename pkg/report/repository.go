package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/sprintlens/sprintlens/pkg/task"
)

// ErrReportNotFound is returned when the requested report uid does not exist.
var ErrReportNotFound = errors.New("report not found")

type Repository interface {
	StoreReport(ctx context.Context, report Report, records []task.TaskRecord) error
	ListReports(ctx context.Context) ([]Report, error)
	GetReport(ctx context.Context, uid string) (Report, error)
	GetTasks(ctx context.Context, uid string) ([]task.TaskRecord, error)
	DeleteReport(ctx context.Context, uid string) error
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) StoreReport(ctx context.Context, report Report, records []task.TaskRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		err := fmt.Errorf("could not begin transaction: %w", err)
		log.Error(err)
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO report (uid, filename, uploaded_at, task_count) VALUES ($1, $2, $3, $4)`,
		report.Uid, report.Filename, report.UploadedAt, report.TaskCount,
	)
	if err != nil {
		err := fmt.Errorf("could not store report: %w", err)
		log.Error(err)
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO report_task (
			report_uid,
			position,
			number,
			short_description,
			assigned_to,
			state,
			epic,
			sprint,
			sprint_start,
			sprint_end,
			planned_hours,
			real_hours
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`)
	if err != nil {
		err := fmt.Errorf("could not prepare task insert: %w", err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	for position, record := range records {
		_, err := stmt.ExecContext(ctx,
			report.Uid,
			position,
			record.Number,
			record.ShortDescription,
			record.AssignedTo,
			record.State,
			record.Epic,
			record.Sprint,
			record.SprintStart,
			record.SprintEnd,
			record.PlannedHours,
			record.RealHours,
		)
		if err != nil {
			err := fmt.Errorf("could not store task record %d: %w", position, err)
			log.Error(err)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		err := fmt.Errorf("could not commit report: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) ListReports(ctx context.Context) ([]Report, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT uid, filename, uploaded_at, task_count FROM report ORDER BY uploaded_at DESC`,
	)
	if err != nil {
		err := fmt.Errorf("could not query reports: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	reports := make([]Report, 0)
	for rows.Next() {
		var report Report
		if err := rows.Scan(&report.Uid, &report.Filename, &report.UploadedAt, &report.TaskCount); err != nil {
			err := fmt.Errorf("could not scan report: %w", err)
			log.Error(err)
			return nil, err
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over reports: %w", err)
		log.Error(err)
		return nil, err
	}
	return reports, nil
}

func (r *RepositoryImpl) GetReport(ctx context.Context, uid string) (Report, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT uid, filename, uploaded_at, task_count FROM report WHERE uid = $1`, uid,
	)
	var report Report
	if err := row.Scan(&report.Uid, &report.Filename, &report.UploadedAt, &report.TaskCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Report{}, ErrReportNotFound
		}
		err := fmt.Errorf("could not scan report: %w", err)
		log.Error(err)
		return Report{}, err
	}
	return report, nil
}

func (r *RepositoryImpl) GetTasks(ctx context.Context, uid string) ([]task.TaskRecord, error) {
	// Resolve the report first so a missing uid is distinguishable from a
	// report without tasks.
	if _, err := r.GetReport(ctx, uid); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT
			number,
			short_description,
			assigned_to,
			state,
			epic,
			sprint,
			sprint_start,
			sprint_end,
			planned_hours,
			real_hours
		FROM report_task WHERE report_uid = $1 ORDER BY position`, uid)
	if err != nil {
		err := fmt.Errorf("could not query task records: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	records := make([]task.TaskRecord, 0)
	for rows.Next() {
		var record task.TaskRecord
		var sprintStart, sprintEnd sql.NullTime
		if err := rows.Scan(
			&record.Number,
			&record.ShortDescription,
			&record.AssignedTo,
			&record.State,
			&record.Epic,
			&record.Sprint,
			&sprintStart,
			&sprintEnd,
			&record.PlannedHours,
			&record.RealHours,
		); err != nil {
			err := fmt.Errorf("could not scan task record: %w", err)
			log.Error(err)
			return nil, err
		}
		if sprintStart.Valid {
			start := sprintStart.Time.UTC()
			record.SprintStart = &start
		}
		if sprintEnd.Valid {
			end := sprintEnd.Time.UTC()
			record.SprintEnd = &end
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over task records: %w", err)
		log.Error(err)
		return nil, err
	}
	return records, nil
}

func (r *RepositoryImpl) DeleteReport(ctx context.Context, uid string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM report WHERE uid = $1`, uid)
	if err != nil {
		err := fmt.Errorf("could not delete report: %w", err)
		log.Error(err)
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return err
	}
	if affected == 0 {
		return ErrReportNotFound
	}
	return nil
}
