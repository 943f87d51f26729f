package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/ecoscope/siagatani/pkg/errors"
)

// Service saves rendered reports and serves them back for download.
type Service interface {
	Save(ctx context.Context, kind, slug, content string) (Report, error)
	Get(ctx context.Context, id string) (Report, []byte, error)
}

type service struct {
	storage ObjectStorage
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

// NewService constructs the report service.
func NewService(storage ObjectStorage, logger *slog.Logger) Service {
	return &service{
		storage: storage,
		logger:  logger.With("component", "report.service"),
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
}

func (s *service) Save(ctx context.Context, kind, slug, content string) (Report, error) {
	kind = Slugify(kind)
	if kind == "" {
		return Report{}, apperrors.Wrap("invalid_input", "report kind cannot be empty", nil)
	}
	if strings.TrimSpace(content) == "" {
		return Report{}, apperrors.Wrap("invalid_input", "report content cannot be empty", nil)
	}
	slug = Slugify(slug)

	createdAt := s.now().UTC()
	rep := Report{
		ID:          s.newID(),
		Kind:        kind,
		Slug:        slug,
		Filename:    Filename(kind, slug, createdAt),
		ContentType: contentType,
		Size:        int64(len(content)),
		CreatedAt:   createdAt,
	}

	if _, err := s.storage.Put(ctx, bodyKey(rep.ID), []byte(content), contentType); err != nil {
		return Report{}, apperrors.Wrap("storage_error", "failed to store report", err)
	}
	meta, err := json.Marshal(rep)
	if err != nil {
		return Report{}, apperrors.Wrap("internal_error", "failed to encode report metadata", err)
	}
	if _, err := s.storage.Put(ctx, metaKey(rep.ID), meta, "application/json"); err != nil {
		_ = s.storage.Delete(ctx, bodyKey(rep.ID))
		return Report{}, apperrors.Wrap("storage_error", "failed to store report", err)
	}

	s.logger.Info("report saved", "id", rep.ID, "kind", rep.Kind, "filename", rep.Filename, "bytes", rep.Size)
	return rep, nil
}

func (s *service) Get(ctx context.Context, id string) (Report, []byte, error) {
	id = strings.TrimSpace(id)
	if _, err := uuid.Parse(id); err != nil {
		return Report{}, nil, apperrors.Wrap("not_found", "report not found", nil)
	}

	meta, err := s.read(ctx, metaKey(id))
	if err != nil {
		s.logger.Debug("report metadata missing", "id", id, "error", err)
		return Report{}, nil, apperrors.Wrap("not_found", "report not found", err)
	}
	var rep Report
	if err := json.Unmarshal(meta, &rep); err != nil {
		return Report{}, nil, apperrors.Wrap("internal_error", "failed to decode report metadata", err)
	}
	body, err := s.read(ctx, bodyKey(id))
	if err != nil {
		return Report{}, nil, apperrors.Wrap("not_found", "report not found", err)
	}
	return rep, body, nil
}

func (s *service) read(ctx context.Context, key string) ([]byte, error) {
	rc, err := s.storage.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Filename builds the download name <kind>-<slug>-<YYYY-MM-DD>.txt.
func Filename(kind, slug string, at time.Time) string {
	parts := []string{kind}
	if slug != "" {
		parts = append(parts, slug)
	}
	parts = append(parts, at.UTC().Format(time.DateOnly))
	return strings.Join(parts, "-") + ".txt"
}

// Slugify lowercases s and replaces runs of whitespace with a single dash.
func Slugify(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}

func bodyKey(id string) string {
	return fmt.Sprintf("reports/%s/body.txt", id)
}

func metaKey(id string) string {
	return fmt.Sprintf("reports/%s/meta.json", id)
}
