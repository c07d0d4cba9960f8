package report

import (
	"context"
	"sort"

	"github.com/sprintlens/sprintlens/pkg/task"
)

// repositoryStub is an in-memory Repository used by service and handler tests.
type repositoryStub struct {
	reports map[string]Report
	tasks   map[string][]task.TaskRecord
}

func newRepositoryStub() *repositoryStub {
	return &repositoryStub{
		reports: make(map[string]Report),
		tasks:   make(map[string][]task.TaskRecord),
	}
}

func (s *repositoryStub) StoreReport(ctx context.Context, report Report, records []task.TaskRecord) error {
	s.reports[report.Uid] = report
	s.tasks[report.Uid] = records
	return nil
}

func (s *repositoryStub) ListReports(ctx context.Context) ([]Report, error) {
	reports := make([]Report, 0, len(s.reports))
	for _, report := range s.reports {
		reports = append(reports, report)
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].UploadedAt.After(reports[j].UploadedAt)
	})
	return reports, nil
}

func (s *repositoryStub) GetReport(ctx context.Context, uid string) (Report, error) {
	report, ok := s.reports[uid]
	if !ok {
		return Report{}, ErrReportNotFound
	}
	return report, nil
}

func (s *repositoryStub) GetTasks(ctx context.Context, uid string) ([]task.TaskRecord, error) {
	if _, ok := s.reports[uid]; !ok {
		return nil, ErrReportNotFound
	}
	return s.tasks[uid], nil
}

func (s *repositoryStub) DeleteReport(ctx context.Context, uid string) error {
	if _, ok := s.reports[uid]; !ok {
		return ErrReportNotFound
	}
	delete(s.reports, uid)
	delete(s.tasks, uid)
	return nil
}

func (s *repositoryStub) reset() {
	s.reports = make(map[string]Report)
	s.tasks = make(map[string][]task.TaskRecord)
}
