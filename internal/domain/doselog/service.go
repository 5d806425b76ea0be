package doselog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"medication-reminders/internal/recurrence"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("dose event not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type RecordInput struct {
	Day    int64
	Time   recurrence.TimeOfDay
	Status DoseStatus
	Source Source
	Notes  string
}

func (s *Service) Record(ctx context.Context, medicationID int64, in RecordInput) (DoseEvent, error) {
	if medicationID <= 0 {
		return DoseEvent{}, ErrInvalidInput
	}
	if in.Status != StatusTaken && in.Status != StatusSkipped {
		return DoseEvent{}, ErrInvalidInput
	}

	src := in.Source
	if src == "" {
		src = SourceManual
	}

	e := DoseEvent{
		ID:           uuid.NewString(),
		MedicationID: medicationID,
		Day:          in.Day,
		Time:         in.Time,
		Status:       in.Status,
		Source:       src,
		Notes:        strings.TrimSpace(in.Notes),
		RecordedAt:   s.now(),
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return DoseEvent{}, err
	}
	return e, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (DoseEvent, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return DoseEvent{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByMedication(ctx context.Context, medicationID int64, filter ListFilter) ([]DoseEvent, error) {
	return s.repo.ListByMedication(ctx, medicationID, filter)
}

// Void marca el registro como voided (no se borra).
func (s *Service) Void(ctx context.Context, id string) (DoseEvent, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return DoseEvent{}, ErrInvalidInput
	}
	if err := s.repo.Void(ctx, id); err != nil {
		return DoseEvent{}, err
	}
	return s.repo.GetByID(ctx, id)
}
