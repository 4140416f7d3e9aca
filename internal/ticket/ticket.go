// Package ticket renders registration codes as QR images and printable
// PDF tickets.
package ticket

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/spott-events/spott/internal/model"
)

// DefaultQRSize is the PNG edge length in pixels.
const DefaultQRSize = 256

// QRPNG encodes code as a PNG QR image of size x size pixels.  The
// payload is the bare code; the scanner sends it to check-in unchanged.
func QRPNG(code string, size int) ([]byte, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("ticket: empty code")
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	return qrcode.Encode(code, qrcode.Medium, size)
}

// PDF renders a one-page A4 ticket with the event details and QR code.
func PDF(t model.Ticket) ([]byte, error) {
	png, err := QRPNG(t.Registration.QRCode, DefaultQRSize)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Ticket "+t.Registration.QRCode, true)
	pdf.AddPage()

	r, g, b := hexRGB(t.Event.ThemeColor)
	pdf.SetFillColor(r, g, b)
	pdf.Rect(0, 0, 210, 24, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 18)
	pdf.SetXY(10, 7)
	pdf.Cell(0, 10, tr(t.Event.Title))

	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(10, 34)
	pdf.SetFont("Arial", "", 12)
	line := func(label, value string) {
		if value == "" {
			return
		}
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(30, 8, tr(label))
		pdf.SetFont("Arial", "", 12)
		pdf.Cell(0, 8, tr(value))
		pdf.Ln(8)
	}
	line("Attendee", t.Registration.AttendeeName)
	line("Email", t.Registration.AttendeeEmail)
	line("Starts", t.Event.StartDate.UTC().Format("Mon 02 Jan 2006 15:04 MST"))
	line("Ends", t.Event.EndDate.UTC().Format("Mon 02 Jan 2006 15:04 MST"))
	line("Where", where(t.Event))
	line("Category", t.Event.Category)
	line("Code", t.Registration.QRCode)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("qr", 140, 34, 55, 55, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("ticket: render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func where(e model.Event) string {
	if e.LocationType == model.LocationOnline {
		if e.Venue != "" {
			return "Online, " + e.Venue
		}
		return "Online"
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{e.Address, e.City, e.State} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// hexRGB parses #rrggbb, falling back to the default theme color.
func hexRGB(s string) (int, int, int) {
	var r, g, b int
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		fmt.Sscanf(model.DefaultThemeColor, "#%02x%02x%02x", &r, &g, &b)
	}
	return r, g, b
}
