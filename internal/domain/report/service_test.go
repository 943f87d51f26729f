package report

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/ecoscope/siagatani/pkg/errors"
)

func TestServiceSaveAndGet(t *testing.T) {
	store := newStubStorage()
	svc := newServiceUnderTest(store)

	rep, err := svc.Save(context.Background(), KindSlopeAnalysis, "Desa Kejajar", "LAPORAN ANALISIS LERENG")
	require.NoError(t, err)
	require.Equal(t, "11111111-2222-3333-4444-555555555555", rep.ID)
	require.Equal(t, "laporan-lereng-desa-kejajar-2025-08-01.txt", rep.Filename)
	require.Equal(t, int64(len("LAPORAN ANALISIS LERENG")), rep.Size)
	require.Contains(t, store.blobs, "reports/11111111-2222-3333-4444-555555555555/body.txt")
	require.Contains(t, store.blobs, "reports/11111111-2222-3333-4444-555555555555/meta.json")

	got, body, err := svc.Get(context.Background(), rep.ID)
	require.NoError(t, err)
	require.Equal(t, rep.Filename, got.Filename)
	require.Equal(t, "LAPORAN ANALISIS LERENG", string(body))
}

func TestServiceSaveValidates(t *testing.T) {
	svc := newServiceUnderTest(newStubStorage())

	_, err := svc.Save(context.Background(), " ", "x", "body")
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	_, err = svc.Save(context.Background(), KindPlantingGuide, "sumbang", "   ")
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestServiceSaveStorageFailure(t *testing.T) {
	store := newStubStorage()
	store.putErr = errors.New("bucket unreachable")
	svc := newServiceUnderTest(store)

	_, err := svc.Save(context.Background(), KindPricePrediction, "padi", "body")
	require.True(t, apperrors.IsCode(err, "storage_error"))
}

func TestServiceGetUnknown(t *testing.T) {
	svc := newServiceUnderTest(newStubStorage())

	_, _, err := svc.Get(context.Background(), "not-a-uuid")
	require.True(t, apperrors.IsCode(err, "not_found"))

	_, _, err = svc.Get(context.Background(), "9b2e7f7c-8d34-4f5e-9a61-2c0f1f1d9a11")
	require.True(t, apperrors.IsCode(err, "not_found"))
}

func TestFilenameWithoutSlug(t *testing.T) {
	at := time.Date(2025, 7, 27, 23, 0, 0, 0, time.UTC)
	require.Equal(t, "panduan-tanam-2025-07-27.txt", Filename(KindPlantingGuide, "", at))
	require.Equal(t, "desa-garung", Slugify("  Desa   Garung "))
}

func newServiceUnderTest(store ObjectStorage) *service {
	svc := NewService(store, slog.New(slog.NewTextHandler(io.Discard, nil))).(*service)
	svc.now = func() time.Time { return time.Date(2025, 8, 1, 3, 0, 0, 0, time.UTC) }
	svc.newID = func() string { return "11111111-2222-3333-4444-555555555555" }
	return svc
}

type stubStorage struct {
	mu     sync.Mutex
	blobs  map[string][]byte
	putErr error
}

func newStubStorage() *stubStorage {
	return &stubStorage{blobs: make(map[string][]byte)}
}

func (s *stubStorage) Put(_ context.Context, key string, data []byte, mimeType string) (StoredObject, error) {
	if s.putErr != nil {
		return StoredObject{}, s.putErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = data
	return StoredObject{Key: key, Size: int64(len(data)), MimeType: mimeType}, nil
}

func (s *stubStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, errors.New("missing")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *stubStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}
