// Package export renders dashboard data as Excel workbooks for
// download. Exports are bulkhead-capped because building a workbook
// holds the full dataset in memory.
package export

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/mhalvorsen/coachdesk/internal/domain"
	"github.com/mhalvorsen/coachdesk/internal/infra/resilience"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// SheetSpec describes one worksheet: a title, a header row and string
// rows.
type SheetSpec struct {
	Title  string
	Header []string
	Rows   [][]string
}

// ReportExporter builds report workbooks.
type ReportExporter struct {
	bulkhead *resilience.Bulkhead
	logger   *zap.Logger
}

// NewReportExporter creates the exporter with the given concurrency cap.
func NewReportExporter(maxConcurrent int, logger *zap.Logger) *ReportExporter {
	return &ReportExporter{
		bulkhead: resilience.NewBulkhead(maxConcurrent),
		logger:   logger,
	}
}

var reportHeader = []string{
	"Week Ending", "Revenue", "Expenses", "Editing Cost", "Net Profit",
	"Shoots", "New Clients", "Unique Clients", "Avg Order Value",
}

// ReportsWorkbook renders weekly reports into a single-sheet workbook
// and returns the serialized file.
func (e *ReportExporter) ReportsWorkbook(ctx context.Context, reports []domain.WeeklyReport) ([]byte, error) {
	if err := e.bulkhead.Acquire(ctx); err != nil {
		return nil, err
	}
	defer e.bulkhead.Release()

	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, []string{
			r.WeekEnding,
			money(r.Revenue),
			money(r.Expenses),
			money(r.EditingCost),
			money(r.NetProfit),
			strconv.Itoa(r.Shoots),
			strconv.Itoa(r.NewClients),
			strconv.Itoa(r.UniqueClients),
			money(r.AvgOrderValue),
		})
	}

	wb, err := buildWorkbook([]SheetSpec{{
		Title:  "Weekly Reports",
		Header: reportHeader,
		Rows:   rows,
	}})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}

	e.logger.Info("report workbook exported", zap.Int("rows", len(rows)))
	return buf.Bytes(), nil
}

// buildWorkbook assembles the sheets with a bold header row, an
// autofilter and heuristic column widths.
func buildWorkbook(sheets []SheetSpec) (*excelize.File, error) {
	f := excelize.NewFile()

	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, s := range sheets {
		name := s.Title
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return nil, fmt.Errorf("new sheet: %w", err)
			}
		}

		for col, h := range s.Header {
			cell := fmt.Sprintf("%s1", colName(col+1))
			if err := f.SetCellStr(name, cell, h); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
		end := colName(len(s.Header)) + "1"
		_ = f.SetCellStyle(name, "A1", end, bold)
		_ = f.AutoFilter(name, "A1:"+end, nil)

		for r, row := range s.Rows {
			for c, val := range row {
				cell := fmt.Sprintf("%s%d", colName(c+1), r+2)
				if err := f.SetCellStr(name, cell, val); err != nil {
					return nil, fmt.Errorf("set cell %s: %w", cell, err)
				}
			}
		}

		// Width heuristic from the header and the first rows.
		for c := 1; c <= len(s.Header); c++ {
			maxim := len(s.Header[c-1])
			for r := 0; r < min(50, len(s.Rows)); r++ {
				if l := len(s.Rows[r][c-1]); l > maxim {
					maxim = l
				}
			}
			w := float64(maxim) * 0.9
			if w < 12 {
				w = 12
			}
			if w > 40 {
				w = 40
			}
			_ = f.SetColWidth(name, colName(c), colName(c), w)
		}
	}
	return f, nil
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func colName(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+(n%26))) + s
		n /= 26
	}
	return s
}
