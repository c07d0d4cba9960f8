package report

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/sprintlens/sprintlens/internal/event_bus"
	"github.com/sprintlens/sprintlens/internal/utils"
	"github.com/sprintlens/sprintlens/pkg/task"
)

// Service exposes the report lifecycle and every metric projection. All
// projections are pure recomputations over the report's stored task records;
// none depends on another's output.
type Service interface {
	CreateReport(ctx context.Context, filename string, export io.Reader) (Report, error)
	ListReports(ctx context.Context) ([]Report, error)
	GetReport(ctx context.Context, uid string) (Report, error)
	DeleteReport(ctx context.Context, uid string) error

	UserSummary(ctx context.Context, uid string) ([]UserSummaryRow, error)
	EpicSummary(ctx context.Context, uid string) ([]GroupSummaryRow, error)
	SprintSummary(ctx context.Context, uid string) ([]GroupSummaryRow, error)
	StatusSummary(ctx context.Context, uid string) ([]StatusCount, error)
	EfficiencySummary(ctx context.Context, uid string) ([]EfficiencyBucket, error)
	DailyWorkload(ctx context.Context, uid string) ([]DailyLoadPoint, bool, error)
	Overview(ctx context.Context, uid string) (OverviewMetrics, error)
	Tasks(ctx context.Context, uid string, filter TaskFilter) (ExplorerResult, error)
}

type ServiceImpl struct {
	repo      Repository
	bus       *event_bus.EventBus
	clock     utils.Clock
	doneState string
}

func NewService(repo Repository, bus *event_bus.EventBus, doneState string) *ServiceImpl {
	return &ServiceImpl{
		repo:      repo,
		bus:       bus,
		clock:     &utils.SystemClock{},
		doneState: doneState,
	}
}

func (s *ServiceImpl) CreateReport(ctx context.Context, filename string, export io.Reader) (Report, error) {
	records, err := task.ReadRecords(export)
	if err != nil {
		return Report{}, fmt.Errorf("could not ingest export: %w", err)
	}

	report := Report{
		Uid:        uuid.NewString(),
		Filename:   filename,
		UploadedAt: s.clock.Now(),
		TaskCount:  len(records),
	}
	if err := s.repo.StoreReport(ctx, report, records); err != nil {
		return Report{}, fmt.Errorf("failed to store report: %w", err)
	}
	log.Infof("Stored report %s (%d tasks) from %q", report.Uid, report.TaskCount, filename)

	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.ReportCreatedEvent, event_bus.ReportCreated{
		Uid:       report.Uid,
		Filename:  report.Filename,
		TaskCount: report.TaskCount,
	})); err != nil {
		log.Warnf("Failed to publish report.created event: %v", err)
	}

	return report, nil
}

func (s *ServiceImpl) ListReports(ctx context.Context) ([]Report, error) {
	return s.repo.ListReports(ctx)
}

func (s *ServiceImpl) GetReport(ctx context.Context, uid string) (Report, error) {
	return s.repo.GetReport(ctx, uid)
}

func (s *ServiceImpl) DeleteReport(ctx context.Context, uid string) error {
	if err := s.repo.DeleteReport(ctx, uid); err != nil {
		return err
	}
	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.ReportDeletedEvent, event_bus.ReportDeleted{Uid: uid})); err != nil {
		log.Warnf("Failed to publish report.deleted event: %v", err)
	}
	return nil
}

func (s *ServiceImpl) UserSummary(ctx context.Context, uid string) ([]UserSummaryRow, error) {
	records, err := s.loadTasks(ctx, uid)
	if err != nil {
		return nil, err
	}
	return SummarizeByUser(records, s.doneState), nil
}

func (s *ServiceImpl) EpicSummary(ctx context.Context, uid string) ([]GroupSummaryRow, error) {
	records, err := s.loadTasks(ctx, uid)
	if err != nil {
		return nil, err
	}
	return SummarizeByEpic(records, s.doneState), nil
}

func (s *ServiceImpl) SprintSummary(ctx context.Context, uid string) ([]GroupSummaryRow, error) {
	records, err := s.loadTasks(ctx, uid)
	if err != nil {
		return nil, err
	}
	return SummarizeBySprint(records, s.doneState), nil
}

func (s *ServiceImpl) StatusSummary(ctx context.Context, uid string) ([]StatusCount, error) {
	records, err := s.loadTasks(ctx, uid)
	if err != nil {
		return nil, err
	}
	return SummarizeByStatus(records), nil
}

func (s *ServiceImpl) EfficiencySummary(ctx context.Context, uid string) ([]EfficiencyBucket, error) {
	records, err := s.loadTasks(ctx, uid)
	if err != nil {
		return nil, err
	}
	return EfficiencyDistribution(records, s.doneState), nil
}

func (s *ServiceImpl) DailyWorkload(ctx context.Context, uid string) ([]DailyLoadPoint, bool, error) {
	records, err := s.loadTasks(ctx, uid)
	if err != nil {
		return nil, false, err
	}
	points, available := DistributeDailyWorkload(records)
	return points, available, nil
}

func (s *ServiceImpl) Overview(ctx context.Context, uid string) (OverviewMetrics, error) {
	records, err := s.loadTasks(ctx, uid)
	if err != nil {
		return OverviewMetrics{}, err
	}
	return Summarize(records, s.doneState), nil
}

func (s *ServiceImpl) Tasks(ctx context.Context, uid string, filter TaskFilter) (ExplorerResult, error) {
	records, err := s.loadTasks(ctx, uid)
	if err != nil {
		return ExplorerResult{}, err
	}
	return ExploreTasks(records, filter, s.doneState), nil
}

func (s *ServiceImpl) loadTasks(ctx context.Context, uid string) ([]task.TaskRecord, error) {
	records, err := s.repo.GetTasks(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks of report %s: %w", uid, err)
	}
	return records, nil
}
