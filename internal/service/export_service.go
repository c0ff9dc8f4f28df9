package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/visitation-api/internal/models"
	"github.com/noah-isme/visitation-api/pkg/export"
	"github.com/noah-isme/visitation-api/pkg/storage"
)

type timelineProvider interface {
	Preview(ctx context.Context, planID string) (*models.TimelineResult, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ExportFormat
	ExpiresAt    time.Time
}

// ExportService renders the visitation timetable grid and persists the
// resulting files.
type ExportService struct {
	plans    planSnapshotProvider
	timeline timelineProvider
	storage  fileStorage
	csv      csvRenderer
	pdf      pdfRenderer
	signer   *storage.SignedURLSigner
	logger   *zap.Logger
	cfg      ExportConfig
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// NewExportService constructs an ExportService.
func NewExportService(plans planSnapshotProvider, timeline timelineProvider, storage fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		plans:    plans,
		timeline: timeline,
		storage:  storage,
		csv:      csv,
		pdf:      pdf,
		signer:   signer,
		logger:   logger,
		cfg:      cfg,
	}
}

// Generate expands the plan's current timeline, renders the grid in the job's
// format and stores the file. The export reflects the plan state at
// processing time, which may be newer than the state at enqueue time.
func (s *ExportService) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	plan, err := s.plans.Snapshot(ctx, job.PlanID)
	if err != nil {
		return nil, err
	}
	timeline, err := s.timeline.Preview(ctx, job.PlanID)
	if err != nil {
		return nil, err
	}

	dataset := buildTimetableGrid(plan, timeline.Items)
	title := plan.SchoolName
	if title == "" {
		title = "방문 수업 시간표"
	} else {
		title = fmt.Sprintf("%s 방문 수업 시간표", plan.SchoolName)
	}

	var payload []byte
	switch job.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := s.buildFilename(job, plan)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	signedURL := strings.TrimRight(s.cfg.APIPrefix, "/")
	if signedURL == "" {
		signedURL = "/api/v1"
	}
	signedURL = fmt.Sprintf("%s/export/%s", signedURL, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ExportJob, plan models.PlanState) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	namePart := sanitizeFilename(plan.SchoolName)
	return fmt.Sprintf("timetable_%s_v%d_%s.%s", namePart, plan.Version, timestamp, job.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "plan"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

const gridCornerHeader = "교시"

// buildTimetableGrid pivots the flat session list into the printed grid:
// one column per occupied date, one row per period, each cell listing the
// sessions in that slot as "<class> (<n>차시)".
func buildTimetableGrid(plan models.PlanState, items []models.ScheduleItem) export.Dataset {
	type slotKey struct {
		date   string
		period int
	}

	dates := make([]string, 0)
	seenDates := make(map[string]string)
	cells := make(map[slotKey][]string)

	for _, item := range items {
		if _, ok := seenDates[item.Date]; !ok {
			seenDates[item.Date] = fmt.Sprintf("%s (%s)", item.Date, item.DayOfWeek)
			dates = append(dates, item.Date)
		}
		key := slotKey{date: item.Date, period: item.Period}
		cells[key] = append(cells[key], fmt.Sprintf("%s (%d차시)", item.ClassName, item.SessionNumber))
	}

	headers := make([]string, 0, len(dates)+1)
	headers = append(headers, gridCornerHeader)
	for _, date := range dates {
		headers = append(headers, seenDates[date])
	}

	rows := make([]map[string]string, 0, len(plan.Periods))
	for _, period := range plan.Periods {
		row := make(map[string]string, len(headers))
		row[gridCornerHeader] = fmt.Sprintf("%d교시", period.Number)
		for _, date := range dates {
			row[seenDates[date]] = strings.Join(cells[slotKey{date: date, period: period.Number}], ", ")
		}
		rows = append(rows, row)
	}

	return export.Dataset{Headers: headers, Rows: rows}
}
