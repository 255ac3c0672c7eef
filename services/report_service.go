package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"pg-portal/config"
	"pg-portal/models"
)

// Dataset labels of the report charts.
const (
	LabelTotalActive = "Total Active Tenants"
	LabelVeg         = "Veg Preference"
	LabelNonVeg      = "Non-Veg Preference"
	LabelAllocated   = "Allocated Beds"
	LabelVacant      = "Vacant Beds"
)

// Export formats.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
)

// Dataset is one plotted line.
type Dataset struct {
	Label string  `json:"label"`
	Data  []int64 `json:"data"`
}

// ChartSeries is a set of datasets sharing x-axis labels.
type ChartSeries struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// ReportView carries the data of the five report charts.
type ReportView struct {
	HasMealData       bool        `json:"hasMealData"`
	HasAllocationData bool        `json:"hasAllocationData"`
	Total             ChartSeries `json:"total"`
	Veg               ChartSeries `json:"veg"`
	NonVeg            ChartSeries `json:"nonVeg"`
	Allocated         ChartSeries `json:"allocated"`
	Vacant            ChartSeries `json:"vacant"`
}

// ExportFile is a rendered report ready to download.
type ExportFile struct {
	Name        string
	ContentType string
	Body        []byte
	ArchiveURL  string
}

// ReportService builds the admin dashboard and report views.
type ReportService struct {
	dashboard DashboardAPI
	archiver  Archiver
	loc       *time.Location
	now       func() time.Time
}

// NewReportService wires the dashboard client. archiver may be nil to skip archiving exports.
func NewReportService(dashboard DashboardAPI, archiver Archiver, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &ReportService{dashboard: dashboard, archiver: archiver, loc: loc, now: time.Now}
}

// Home loads the dashboard summary.
func (s *ReportService) Home(ctx context.Context) (*models.DashboardSummary, error) {
	summary, err := s.dashboard.Summary(ctx)
	if err != nil {
		config.Log.WithError(err).Error("📊 Failed to load dashboard summary")
		return nil, err
	}
	return summary, nil
}

func (s *ReportService) loadStats(ctx context.Context) ([]models.MealStatsPoint, []models.AllocationStatsPoint, error) {
	var (
		meal       []models.MealStatsPoint
		allocation []models.AllocationStatsPoint
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		meal, err = s.dashboard.MealStats(gctx)
		return err
	})
	g.Go(func() (err error) {
		allocation, err = s.dashboard.AllocationStats(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		config.Log.WithError(err).Error("📉 Failed to load report charts")
		return nil, nil, err
	}
	return SortMealStats(meal), SortAllocationStats(allocation), nil
}

// Report loads both statistics series and shapes them for charting.
func (s *ReportService) Report(ctx context.Context) (*ReportView, error) {
	meal, allocation, err := s.loadStats(ctx)
	if err != nil {
		return nil, err
	}
	return BuildReport(meal, allocation, s.loc), nil
}

// SortMealStats orders points by date, then meal number.
func SortMealStats(stats []models.MealStatsPoint) []models.MealStatsPoint {
	out := append([]models.MealStatsPoint(nil), stats...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].StatsDate.Time, out[j].StatsDate.Time
		if !a.Equal(b) {
			return a.Before(b)
		}
		return out[i].MealNo < out[j].MealNo
	})
	return out
}

// SortAllocationStats orders points by date.
func SortAllocationStats(stats []models.AllocationStatsPoint) []models.AllocationStatsPoint {
	out := append([]models.AllocationStatsPoint(nil), stats...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StatsDate.Before(out[j].StatsDate.Time)
	})
	return out
}

// MealLabel renders "d/MM - mealNo".
func MealLabel(p models.MealStatsPoint, loc *time.Location) string {
	return fmt.Sprintf("%s - %d", p.StatsDate.In(loc).Format("2/01"), p.MealNo)
}

// AllocationLabel renders "d/MM".
func AllocationLabel(p models.AllocationStatsPoint, loc *time.Location) string {
	return p.StatsDate.In(loc).Format("2/01")
}

func emptySeries() ChartSeries {
	return ChartSeries{Labels: []string{}, Datasets: []Dataset{}}
}

// BuildReport shapes sorted statistics into chart series.
func BuildReport(meal []models.MealStatsPoint, allocation []models.AllocationStatsPoint, loc *time.Location) *ReportView {
	view := &ReportView{
		Total: emptySeries(), Veg: emptySeries(), NonVeg: emptySeries(),
		Allocated: emptySeries(), Vacant: emptySeries(),
	}

	if len(meal) > 0 {
		labels := make([]string, len(meal))
		total := make([]int64, len(meal))
		veg := make([]int64, len(meal))
		nonVeg := make([]int64, len(meal))
		for i, p := range meal {
			labels[i] = MealLabel(p, loc)
			total[i], veg[i], nonVeg[i] = p.TotalCount, p.VegCount, p.NonVegCount
		}
		view.HasMealData = true
		view.Total = ChartSeries{Labels: labels, Datasets: []Dataset{{Label: LabelTotalActive, Data: total}}}
		view.Veg = ChartSeries{Labels: labels, Datasets: []Dataset{{Label: LabelVeg, Data: veg}}}
		view.NonVeg = ChartSeries{Labels: labels, Datasets: []Dataset{{Label: LabelNonVeg, Data: nonVeg}}}
	}

	if len(allocation) > 0 {
		labels := make([]string, len(allocation))
		allocated := make([]int64, len(allocation))
		vacant := make([]int64, len(allocation))
		for i, p := range allocation {
			labels[i] = AllocationLabel(p, loc)
			allocated[i], vacant[i] = p.AllocatedCount, p.VacantCount
		}
		view.HasAllocationData = true
		view.Allocated = ChartSeries{Labels: labels, Datasets: []Dataset{{Label: LabelAllocated, Data: allocated}}}
		view.Vacant = ChartSeries{Labels: labels, Datasets: []Dataset{{Label: LabelVacant, Data: vacant}}}
	}

	return view
}

var (
	mealHeaders       = []string{"Date", "Meal", LabelTotalActive, LabelVeg, LabelNonVeg}
	allocationHeaders = []string{"Date", "Total Beds", LabelAllocated, LabelVacant}
)

func mealRecords(stats []models.MealStatsPoint, loc *time.Location) [][]string {
	rows := make([][]string, len(stats))
	for i, p := range stats {
		rows[i] = []string{
			p.StatsDate.In(loc).Format("2006-01-02"),
			strconv.Itoa(p.MealNo),
			strconv.FormatInt(p.TotalCount, 10),
			strconv.FormatInt(p.VegCount, 10),
			strconv.FormatInt(p.NonVegCount, 10),
		}
	}
	return rows
}

func allocationRecords(stats []models.AllocationStatsPoint, loc *time.Location) [][]string {
	rows := make([][]string, len(stats))
	for i, p := range stats {
		rows[i] = []string{
			p.StatsDate.In(loc).Format("2006-01-02"),
			strconv.FormatInt(p.TotalCount, 10),
			strconv.FormatInt(p.AllocatedCount, 10),
			strconv.FormatInt(p.VacantCount, 10),
		}
	}
	return rows
}

// Export renders the statistics in format and archives the file when an archiver is set.
// Archiving failures are logged and do not fail the export.
func (s *ReportService) Export(ctx context.Context, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatXLSX
	}

	meal, allocation, err := s.loadStats(ctx)
	if err != nil {
		return nil, err
	}

	var file *ExportFile
	switch format {
	case FormatXLSX:
		file, err = s.exportExcel(meal, allocation)
	case FormatCSV:
		file, err = s.exportCSV(meal, allocation)
	case FormatPDF:
		file, err = s.exportPDF(meal, allocation)
	default:
		return nil, invalid("Unsupported export format %q.", format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s report: %w", format, err)
	}

	stamp := s.now().UTC().Format("20060102-150405")
	file.Name = "pg-report-" + stamp + "." + format

	if s.archiver != nil {
		url, err := s.archiver.Archive(ctx, "reports/"+file.Name, file.Body, file.ContentType)
		if err != nil {
			config.Log.WithError(err).Warn("⚠️ Failed to archive report")
		} else {
			file.ArchiveURL = url
			config.Log.WithField("url", url).Info("✅ Report archived")
		}
	}
	return file, nil
}

func (s *ReportService) exportExcel(meal []models.MealStatsPoint, allocation []models.AllocationStatsPoint) (*ExportFile, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSheet(f, "Meals", mealHeaders, mealRecords(meal, s.loc)); err != nil {
		return nil, err
	}
	if err := writeSheet(f, "Allocation", allocationHeaders, allocationRecords(allocation, s.loc)); err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex("Meals"); err == nil {
		f.SetActiveSheet(idx)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return &ExportFile{
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Body:        buf.Bytes(),
	}, nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]string) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, cell, h)
	}
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			// keep counts numeric so the sheet can chart them
			if n, err := strconv.ParseInt(value, 10, 64); err == nil && c > 0 {
				f.SetCellValue(sheet, cell, n)
				continue
			}
			f.SetCellValue(sheet, cell, value)
		}
	}
	return nil
}

func (s *ReportService) exportCSV(meal []models.MealStatsPoint, allocation []models.AllocationStatsPoint) (*ExportFile, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	write := func(section string, headers []string, rows [][]string) error {
		if err := w.Write([]string{section}); err != nil {
			return err
		}
		if err := w.Write(headers); err != nil {
			return err
		}
		return w.WriteAll(rows)
	}
	if err := write("Meals", mealHeaders, mealRecords(meal, s.loc)); err != nil {
		return nil, err
	}
	if err := w.Write(nil); err != nil {
		return nil, err
	}
	if err := write("Allocation", allocationHeaders, allocationRecords(allocation, s.loc)); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return &ExportFile{ContentType: "text/csv", Body: buf.Bytes()}, nil
}

func (s *ReportService) exportPDF(meal []models.MealStatsPoint, allocation []models.AllocationStatsPoint) (*ExportFile, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "PG Occupancy Report")
	pdf.Ln(12)

	table := func(title string, headers []string, widths []float64, rows [][]string) {
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(40, 8, title)
		pdf.Ln(8)
		pdf.SetFont("Arial", "B", 9)
		for i, h := range headers {
			pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
		for _, row := range rows {
			for i, v := range row {
				pdf.CellFormat(widths[i], 6, v, "1", 0, "C", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(6)
	}

	table("Meals", mealHeaders, []float64{30, 20, 45, 35, 40}, mealRecords(meal, s.loc))
	table("Allocation", allocationHeaders, []float64{30, 30, 40, 40}, allocationRecords(allocation, s.loc))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return &ExportFile{ContentType: "application/pdf", Body: buf.Bytes()}, nil
}
