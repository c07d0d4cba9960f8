package event_bus

// Event types published by the report lifecycle.
const (
	ReportCreatedEvent EventType = "report.created"
	ReportDeletedEvent EventType = "report.deleted"
)

// ReportCreated is published after an export has been ingested and stored.
type ReportCreated struct {
	Uid       string
	Filename  string
	TaskCount int
}

// ReportDeleted is published after a report and its task records are removed.
type ReportDeleted struct {
	Uid string
}
