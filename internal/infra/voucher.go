package infra

// voucher.go — redemption voucher generation using go-pdf/fpdf.
// Produces an A6 voucher with the reward name, points spent, driver name and
// the redemption id the driver presents when collecting the reward.
//
// The output file is saved to storagePath/voucher_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
)

// VoucherData carries everything the rendered voucher shows.
type VoucherData struct {
	RedemptionID string
	DriverName   string
	RewardName   string
	PointsSpent  int
	RedeemedAt   time.Time
}

// GenerateVoucherPDF writes the voucher and returns the absolute file path.
func GenerateVoucherPDF(v VoucherData, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("voucher: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("voucher_%s.pdf", v.RedemptionID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A6", "")
	pdf.SetMargins(8, 8, 8)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 16

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "FleetPoints", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Reward Voucher", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.Line(8, pdf.GetY(), pageW-8, pdf.GetY())
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 6, v.RewardName, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Driver: %s", v.DriverName), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Points spent: %d", v.PointsSpent), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, v.RedeemedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, fmt.Sprintf("Ref: %s", v.RedemptionID), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.MultiCell(contentW, 4, "Present this voucher together with your driver badge to collect the reward.", "", "L", false)

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("voucher: write pdf: %w", err)
	}
	return filePath, nil
}
