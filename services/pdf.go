package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// TripPDFData bundles everything the itinerary document renders.
type TripPDFData struct {
	Destination string
	Origin      string
	StartDate   string // YYYY-MM-DD
	EndDate     string
	Travelers   int
	Budget      float64
	Itinerary   *Itinerary
}

// GenerateTripPDF renders a completed trip's itinerary to PDF bytes. Nothing
// touches the filesystem; the bytes are streamed straight to the client.
func GenerateTripPDF(data TripPDFData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.AddPage()

	// ── Header bar ───────────────────────────────────────────
	pdf.SetFillColor(16, 42, 67)
	pdf.Rect(0, 0, 210, 26, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(18, 7)
	pdf.CellFormat(100, 10, "Voyago", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(18, 16)
	pdf.CellFormat(170, 6, "Trip Itinerary - "+data.Destination, "", 1, "L", false, 0, "")

	pdf.SetY(32)
	pdf.SetTextColor(0, 0, 0)

	sectionHeader := func(title string) {
		pdf.SetFillColor(16, 42, 67)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(174, 8, "  "+title, "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(50, 7, label, "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(124, 7, value, "", 1, "L", false, 0, "")
	}

	// ── Trip overview ─────────────────────────────────────────
	sectionHeader("Trip Overview")
	row("Destination", data.Destination)
	if data.Origin != "" {
		row("From", data.Origin)
	}
	row("Dates", fmt.Sprintf("%s to %s", fmtDateReadable(data.StartDate), fmtDateReadable(data.EndDate)))
	row("Travelers", fmt.Sprintf("%d", data.Travelers))
	if data.Budget > 0 {
		row("Budget", fmt.Sprintf("$%.0f", data.Budget))
	}
	if data.Itinerary.EstimatedDailyExpenses != "" {
		row("Est. daily expenses", data.Itinerary.EstimatedDailyExpenses)
	}
	pdf.Ln(3)

	// ── Flights ───────────────────────────────────────────────
	sectionHeader("Flights")
	switch {
	case data.Itinerary.Flights.Skipped:
		row("Flights", "Skipped by traveler")
	case len(data.Itinerary.Flights.Options) > 0:
		f := data.Itinerary.Flights.Options[0]
		row("Airline", f.Airline)
		row("Duration", f.Duration)
		stops := "Direct"
		if f.Stops > 0 {
			stops = fmt.Sprintf("%d stop(s)", f.Stops)
		}
		row("Stops", stops)
		row("Price", fmt.Sprintf("$%.0f per person", f.Price))
		if data.Itinerary.Flights.Source == SourceEstimated {
			row("Note", "Estimated prices - verify before booking")
		}
	default:
		row("Flights", "No options found")
	}
	pdf.Ln(3)

	// ── Hotel ─────────────────────────────────────────────────
	sectionHeader("Hotel")
	switch {
	case data.Itinerary.Hotels.Skipped:
		row("Hotel", "Skipped by traveler")
	case len(data.Itinerary.Hotels.Options) > 0:
		h := data.Itinerary.Hotels.Options[0]
		row("Hotel", h.Name)
		row("Location", h.Location)
		row("Rating", fmt.Sprintf("%.1f / 5.0", h.Rating))
		row("Price", fmt.Sprintf("$%.0f per night", h.Price))
	default:
		row("Hotel", "No options found")
	}
	pdf.Ln(3)

	// ── Day by day ────────────────────────────────────────────
	for _, day := range data.Itinerary.DayByDay {
		if pdf.GetY() > 240 {
			pdf.AddPage()
		}
		sectionHeader(fmt.Sprintf("Day %d - %s", day.Day, day.Title))
		for _, act := range day.Activities {
			title := act.Title
			if act.Restaurant != "" && act.Restaurant != act.Title {
				title += " at " + act.Restaurant
			}
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(24, 6, act.Time, "", 0, "L", false, 0, "")
			pdf.CellFormat(150, 6, title, "", 1, "L", false, 0, "")
			if act.Description != "" {
				pdf.SetFont("Helvetica", "", 9)
				pdf.SetTextColor(90, 90, 90)
				pdf.SetX(42)
				pdf.MultiCell(150, 4.5, act.Description, "", "L", false)
				pdf.SetTextColor(0, 0, 0)
			}
			pdf.Ln(1)
		}
		pdf.Ln(2)
	}

	// ── Getting around ────────────────────────────────────────
	if len(data.Itinerary.Transportation) > 0 {
		if pdf.GetY() > 230 {
			pdf.AddPage()
		}
		sectionHeader("Getting Around")
		for _, t := range data.Itinerary.Transportation {
			row(t.Mode, t.TypicalPrice)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf generation failed: %w", err)
	}
	return buf.Bytes(), nil
}

func fmtDateReadable(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("02 Jan 2006")
}
