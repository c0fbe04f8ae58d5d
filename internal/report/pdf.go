package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const snapshotImage = "report"

// BuildDocument places the snapshot on a single page sized to half its
// pixel dimensions, so a 2x raster maps one image pixel pair per point.
func BuildDocument(snap Snapshot, title string) ([]byte, error) {
	if len(snap.PNG) == 0 || snap.Width <= 0 || snap.Height <= 0 {
		return nil, fmt.Errorf("empty snapshot")
	}
	w, h := float64(snap.Width)/2, float64(snap.Height)/2

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetTitle(title, true)
	pdf.SetCreator("Rosa Menta", true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(snapshotImage, opts, bytes.NewReader(snap.PNG))
	pdf.ImageOptions(snapshotImage, 0, 0, w, h, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
