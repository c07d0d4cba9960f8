package app

import (
	"database/sql"

	log "github.com/sirupsen/logrus"
	"github.com/sprintlens/sprintlens/internal/config"
	"github.com/sprintlens/sprintlens/internal/event_bus"
	"github.com/sprintlens/sprintlens/internal/utils"
	"github.com/sprintlens/sprintlens/pkg/report"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus

	ReportRepo    report.Repository
	ReportService report.Service
	CsvRenderer   *report.CsvRenderer
	ReportHandler *report.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	registerEventLogging(deps.EventBus)

	deps.Clock = &utils.SystemClock{}

	deps.ReportRepo = report.NewRepository(db)
	deps.ReportService = report.NewService(deps.ReportRepo, deps.EventBus, cfg.Report.DoneState)
	deps.CsvRenderer = report.NewCsvRenderer()
	deps.ReportHandler = report.NewHandler(deps.ReportService, deps.CsvRenderer)

	return deps
}

func registerEventLogging(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped(bus, event_bus.ReportCreatedEvent, func(e event_bus.EventT[event_bus.ReportCreated]) error {
		log.Infof("Report %s created from %q with %d tasks", e.Data.Uid, e.Data.Filename, e.Data.TaskCount)
		return nil
	})
	event_bus.SubscribeTyped(bus, event_bus.ReportDeletedEvent, func(e event_bus.EventT[event_bus.ReportDeleted]) error {
		log.Infof("Report %s deleted", e.Data.Uid)
		return nil
	})
}
