package report

import (
	"context"
	"io"
	"time"
)

// Report kinds and their filename prefixes.
const (
	KindPricePrediction = "prediksi-harga"
	KindRevenueSim      = "simulasi-pendapatan"
	KindSlopeAnalysis   = "laporan-lereng"
	KindPlantingGuide   = "panduan-tanam"
)

const contentType = "text/plain; charset=utf-8"

// Report is the metadata of a stored text report.
type Report struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Slug        string    `json:"slug"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ObjectStorage abstracts blob storage (S3-compatible or memory).
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) (StoredObject, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// StoredObject captures persisted blob metadata.
type StoredObject struct {
	Key      string
	Size     int64
	MimeType string
	ETag     string
}
