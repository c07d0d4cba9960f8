package report

import (
	"bytes"
	"encoding/csv"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// CsvRenderer renders projection tables as delimited text with a header row.
// Values keep their raw numeric formatting; locale or unit formatting is a
// presentation concern left to consumers.
type CsvRenderer struct {
}

func NewCsvRenderer() *CsvRenderer {
	return &CsvRenderer{}
}

func (c *CsvRenderer) RenderUserSummary(rows []UserSummaryRow) (string, error) {
	data := [][]string{{"assigned_to", "total_planned_hours", "total_real_hours", "difference", "estimation_accuracy"}}
	for _, row := range rows {
		data = append(data, []string{
			row.AssignedTo,
			formatHours(row.TotalPlannedHours),
			formatHours(row.TotalRealHours),
			formatHours(row.Difference),
			formatHours(row.EstimationAccuracy),
		})
	}
	return writeCsv(data)
}

// RenderGroupSummary renders an epic or sprint summary; keyHeader names the
// grouping column.
func (c *CsvRenderer) RenderGroupSummary(keyHeader string, rows []GroupSummaryRow) (string, error) {
	data := [][]string{{keyHeader, "num_tasks", "total_planned_hours", "total_real_hours", "difference", "pct_completed"}}
	for _, row := range rows {
		data = append(data, []string{
			row.Key,
			strconv.Itoa(row.NumTasks),
			formatHours(row.TotalPlannedHours),
			formatHours(row.TotalRealHours),
			formatHours(row.Difference),
			formatHours(row.PctCompleted),
		})
	}
	return writeCsv(data)
}

func (c *CsvRenderer) RenderStatusSummary(rows []StatusCount) (string, error) {
	data := [][]string{{"state", "count"}}
	for _, row := range rows {
		data = append(data, []string{row.State, strconv.Itoa(row.Count)})
	}
	return writeCsv(data)
}

func (c *CsvRenderer) RenderEfficiencySummary(buckets []EfficiencyBucket) (string, error) {
	data := [][]string{{"category", "count"}}
	for _, bucket := range buckets {
		data = append(data, []string{bucket.Category, strconv.Itoa(bucket.Count)})
	}
	return writeCsv(data)
}

func (c *CsvRenderer) RenderDailyWorkload(points []DailyLoadPoint) (string, error) {
	data := [][]string{{"date", "planned_hours", "real_hours"}}
	for _, point := range points {
		data = append(data, []string{
			point.Date.Format("02/01/2006"),
			formatHours(point.PlannedHours),
			formatHours(point.RealHours),
		})
	}
	return writeCsv(data)
}

func (c *CsvRenderer) RenderTasks(views []TaskView) (string, error) {
	data := [][]string{{"number", "short_description", "assigned_to", "state", "epic", "sprint", "planned_hours", "real_hours", "difference"}}
	for _, view := range views {
		data = append(data, []string{
			view.Number,
			view.ShortDescription,
			view.AssignedTo,
			view.State,
			view.Epic,
			view.Sprint,
			formatHours(view.PlannedHours),
			formatHours(view.RealHours),
			formatHours(view.Difference),
		})
	}
	return writeCsv(data)
}

func writeCsv(data [][]string) (string, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}
	return b.String(), nil
}

func formatHours(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
