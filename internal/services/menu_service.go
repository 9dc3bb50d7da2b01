package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"restaurantapi/internal/domain/models"
	"restaurantapi/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// MenuService renders a printable menu card for a restaurant.
type MenuService struct {
	Restaurants RestaurantStore
	Now         func() time.Time
}

func (s MenuService) RenderMenu(ctx context.Context, restaurantID int64) ([]byte, string, error) {
	rest, err := s.Restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(utils.RequestIDFrom(ctx), "menu", "render", fmt.Sprintf("restaurant_id=%d dishes=%d", rest.ID, len(rest.Dishes)))

	now := utils.NowUTC()
	if s.Now != nil {
		now = s.Now()
	}
	return buildMenuPDF(rest, now)
}

func buildMenuPDF(r models.Restaurant, printed time.Time) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(r.Name+" menu"), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr(safe(r.Name, "Restaurant")))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	lines := []string{
		fmt.Sprintf("Category : %s", safe(r.Category, "-")),
		fmt.Sprintf("Address  : %s, %s %s", safe(r.Address.Street, "-"), safe(r.Address.PostalCode, ""), safe(r.Address.City, "-")),
		fmt.Sprintf("Delivery : %s", yesNo(r.HasDelivery)),
	}
	if r.ContactNumber != "" || r.ContactEmail != "" {
		lines = append(lines, fmt.Sprintf("Contact  : %s", strings.TrimSpace(r.ContactNumber+" "+r.ContactEmail)))
	}
	for _, s := range lines {
		pdf.Cell(0, 6, tr(s))
		pdf.Ln(6)
	}
	if d := strings.TrimSpace(r.Description); d != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 5, tr(d), "", "", false)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Menu")
	pdf.Ln(9)

	if len(r.Dishes) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.Cell(0, 7, "No dishes yet.")
		pdf.Ln(7)
	}
	for i, d := range r.Dishes {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(150, 7, tr(fmt.Sprintf("%d) %s", i+1, safe(d.Name, "-"))), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, utils.FormatMoney(d.Price), "", 1, "R", false, 0, "")
		if desc := strings.TrimSpace(d.Description); desc != "" {
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(150, 5, tr(desc), "", "", false)
		}
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 5, "Printed "+printed.Format("2006-01-02 15:04"))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("MENU_%d_%s.pdf", r.ID, safeFilenamePart(r.Name))
	return buf.Bytes(), filename, nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if r := []rune(s); len(r) > 40 {
		s = string(r[:40])
	}
	return s
}
