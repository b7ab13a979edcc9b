package models

import "time"

// Report is a monthly FII analysis report. The PDF lives in object storage
// under PDFKey; subscribers receive a short-lived presigned URL.
type Report struct {
	ID             int       `db:"id" json:"id"`
	FundTicker     string    `db:"fund_ticker" json:"fundTicker"`
	Title          string    `db:"title" json:"title"`
	Summary        string    `db:"summary" json:"summary"`
	ReferenceMonth string    `db:"reference_month" json:"referenceMonth"`
	PDFKey         string    `db:"pdf_key" json:"-"`
	Published      bool      `db:"published" json:"published"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}
