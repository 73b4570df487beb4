package report

import (
	"context"
	"fmt"
	"io"
	"time"
	"waste-collection-service/internal/platform/obs"
	"waste-collection-service/internal/ports"
	"waste-collection-service/internal/services"

	"github.com/xuri/excelize/v2"
)

const (
	SheetBins         = "Bins"
	SheetDumpingSpots = "DumpingSpots"
	SheetTrucks       = "Trucks"
	SheetSupport      = "Support"
)

const timeLayout = "2006-01-02 15:04:05"

// Source is the data a report is built from.
type Source struct {
	Bins   ports.BinRepository
	Spots  ports.DumpingSpotRepository
	Trucks ports.TruckRepository
}

// Build assembles the workbook. The caller must Close it.
func Build(ctx context.Context, src Source, now time.Time) (_ *excelize.File, err error) {
	defer obs.Time(ctx, "report.Build")(&err)

	bins, err := src.Bins.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("build report: list bins: %w", err)
	}
	spots, err := src.Spots.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("build report: list dumping spots: %w", err)
	}
	trucks, err := src.Trucks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("build report: list trucks: %w", err)
	}
	triage, err := services.TriageBins(ctx, src.Bins, now)
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}

	f := excelize.NewFile()
	ok := false
	defer func() {
		if !ok {
			_ = f.Close()
		}
	}()

	w := &sheetWriter{f: f}

	binRows := make([][]any, 0, len(bins))
	for _, b := range bins {
		binRows = append(binRows, []any{
			b.BinID, b.FillLevel, b.Status(), b.Lat, b.Lon,
			b.OrganicPct, b.PlasticPct, b.MetalPct, formatTime(b.LastUpdated),
		})
	}
	w.sheet(SheetBins, []string{
		"Bin ID", "Fill Level (%)", "Status", "Latitude", "Longitude",
		"Organic (%)", "Plastic (%)", "Metal (%)", "Last Updated",
	}, binRows)

	spotRows := make([][]any, 0, len(spots))
	for _, d := range spots {
		spotRows = append(spotRows, []any{
			d.SpotID, d.Lat, d.Lon, d.TotalCapacity, d.CurrentFillLevel(),
			d.OrganicContent, d.PlasticContent, d.MetalContent,
		})
	}
	w.sheet(SheetDumpingSpots, []string{
		"Spot ID", "Latitude", "Longitude", "Total Capacity", "Fill Level (%)",
		"Organic", "Plastic", "Metal",
	}, spotRows)

	truckRows := make([][]any, 0, len(trucks))
	for _, t := range trucks {
		truckRows = append(truckRows, []any{
			t.TruckID, t.DriverName, string(t.Status), t.FuelLevel, t.Lat, t.Lon, formatTime(t.LastUpdated),
		})
	}
	w.sheet(SheetTrucks, []string{
		"Truck ID", "Driver", "Status", "Fuel Level (%)", "Latitude", "Longitude", "Last Updated",
	}, truckRows)

	supportRows := make([][]any, 0, len(triage.Tickets))
	for _, t := range triage.Tickets {
		supportRows = append(supportRows, []any{
			t.Bin.BinID, string(t.Severity), t.Reason, t.Bin.FillLevel, formatTime(t.Bin.LastUpdated),
		})
	}
	w.sheet(SheetSupport, []string{"Bin ID", "Severity", "Reason", "Fill Level", "Last Updated"}, supportRows)

	if w.err != nil {
		return nil, fmt.Errorf("build report: %w", w.err)
	}

	// NewFile starts with Sheet1; the bins sheet replaces it.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("build report: drop default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex(SheetBins); err == nil {
		f.SetActiveSheet(idx)
	}

	ok = true
	return f, nil
}

// Write builds the workbook and streams it to out.
func Write(ctx context.Context, out io.Writer, src Source, now time.Time) error {
	f, err := Build(ctx, src, now)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(out); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

// sheetWriter keeps the first error so sheets can be written without checks in between.
type sheetWriter struct {
	f      *excelize.File
	header int
	err    error
}

func (w *sheetWriter) headerStyle() int {
	if w.header != 0 || w.err != nil {
		return w.header
	}
	w.header, w.err = w.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#2E7D32"}, Pattern: 1},
	})
	return w.header
}

func (w *sheetWriter) sheet(name string, headers []string, rows [][]any) {
	if w.err != nil {
		return
	}
	if _, err := w.f.NewSheet(name); err != nil {
		w.err = fmt.Errorf("create sheet %s: %w", name, err)
		return
	}

	hdr := make([]any, len(headers))
	for i, h := range headers {
		hdr[i] = h
	}
	if err := w.f.SetSheetRow(name, "A1", &hdr); err != nil {
		w.err = fmt.Errorf("sheet %s: header: %w", name, err)
		return
	}
	if style := w.headerStyle(); w.err == nil {
		w.err = w.f.SetRowStyle(name, 1, 1, style)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			w.err = err
			return
		}
		if err := w.f.SetSheetRow(name, cell, &row); err != nil {
			w.err = fmt.Errorf("sheet %s: row %d: %w", name, i+2, err)
			return
		}
	}

	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		w.err = err
		return
	}
	if w.err == nil {
		w.err = w.f.SetColWidth(name, "A", last, 16)
	}
}
