package service

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/healthtrack/config"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/pkg/metrics"
)

const tracerName = "github.com/dmehra2102/prod-golang-projects/healthtrack/internal/service"

// PatientService runs the validation-and-persistence pipeline for patient
// records. Every mutating call performs at most one store mutation, after all
// validators and guards have passed.
type PatientService struct {
	repo             patient.Repository
	collector        *metrics.Collector
	log              *zap.Logger
	tracer           trace.Tracer
	validateOnUpdate bool
}

func NewPatientService(repo patient.Repository, collector *metrics.Collector, log *zap.Logger, cfg config.RecordsConfig) *PatientService {
	return &PatientService{
		repo:             repo,
		collector:        collector,
		log:              log,
		tracer:           otel.Tracer(tracerName),
		validateOnUpdate: cfg.ValidateOnUpdate,
	}
}

func (s *PatientService) Create(ctx context.Context, cmd *patient.CreateRecordCommand) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "PatientService.Create")
	defer span.End()

	canonical, err := s.checkRecord(ctx, cmd.Name, cmd.NationalID, nil)
	if err != nil {
		return 0, s.fail(span, err)
	}

	rec := &patient.Record{
		Name:                cmd.Name,
		NationalID:          cmd.NationalID,
		NationalIDCanonical: canonical,
		Temperature:         cmd.Temperature,
		FrequentSickness:    cmd.FrequentSickness,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return 0, s.fail(span, s.mutationError("create", 0, err))
	}

	s.collector.ObserveRecordsCreated()
	span.SetAttributes(attribute.Int64("record.id", rec.ID))
	s.log.Info("patient record created", zap.Int64("record_id", rec.ID))

	return rec.ID, nil
}

func (s *PatientService) List(ctx context.Context) ([]*patient.Record, error) {
	ctx, span := s.tracer.Start(ctx, "PatientService.List")
	defer span.End()

	records, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("failed to list patient records", zap.Error(err))
		return nil, s.fail(span, storageError("list", err))
	}
	span.SetAttributes(attribute.Int("record.count", len(records)))
	return records, nil
}

// Get returns the record with the given id, or nil with no error when there
// is none.
func (s *PatientService) Get(ctx context.Context, id int64) (*patient.Record, error) {
	ctx, span := s.tracer.Start(ctx, "PatientService.Get",
		trace.WithAttributes(attribute.Int64("record.id", id)))
	defer span.End()

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, patient.ErrRecordNotFound) {
			return nil, nil
		}
		s.log.Error("failed to get patient record", zap.Int64("record_id", id), zap.Error(err))
		return nil, s.fail(span, storageError("get", err))
	}
	return rec, nil
}

// Update overwrites every mutable field of the record and returns the number
// of rows changed. An id that does not exist yields 0 and no error whatever
// the payload: the validators and guards only run against an existing row.
// With validation on update disabled they are skipped entirely and only the
// storage constraints apply.
func (s *PatientService) Update(ctx context.Context, id int64, cmd *patient.UpdateRecordCommand) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "PatientService.Update",
		trace.WithAttributes(attribute.Int64("record.id", id)))
	defer span.End()

	canonical := patient.CanonicalNationalID(cmd.NationalID)
	if s.validateOnUpdate {
		if _, err := s.repo.GetByID(ctx, id); err != nil {
			if errors.Is(err, patient.ErrRecordNotFound) {
				return 0, nil
			}
			s.log.Error("failed to load patient record for update", zap.Int64("record_id", id), zap.Error(err))
			return 0, s.fail(span, storageError("update", err))
		}

		var err error
		if canonical, err = s.checkRecord(ctx, cmd.Name, cmd.NationalID, &id); err != nil {
			return 0, s.fail(span, err)
		}
	}

	changes, err := s.repo.Update(ctx, id, &patient.Record{
		Name:                cmd.Name,
		NationalID:          cmd.NationalID,
		NationalIDCanonical: canonical,
		Temperature:         cmd.Temperature,
		FrequentSickness:    cmd.FrequentSickness,
	})
	if err != nil {
		return 0, s.fail(span, s.mutationError("update", id, err))
	}

	s.log.Info("patient record updated", zap.Int64("record_id", id), zap.Int64("changes", changes))
	return changes, nil
}

func (s *PatientService) Delete(ctx context.Context, id int64) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "PatientService.Delete",
		trace.WithAttributes(attribute.Int64("record.id", id)))
	defer span.End()

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.log.Error("failed to delete patient record", zap.Int64("record_id", id), zap.Error(err))
		return 0, s.fail(span, storageError("delete", err))
	}

	s.collector.ObserveRecordsDeleted(deleted)
	s.log.Info("patient record deleted", zap.Int64("record_id", id), zap.Int64("deleted", deleted))
	return deleted, nil
}

// DeleteAll removes every record in one statement. It cannot be undone.
func (s *PatientService) DeleteAll(ctx context.Context) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "PatientService.DeleteAll")
	defer span.End()

	deleted, err := s.repo.DeleteAll(ctx)
	if err != nil {
		s.log.Error("failed to delete all patient records", zap.Error(err))
		return 0, s.fail(span, storageError("delete all", err))
	}

	s.collector.ObserveRecordsDeleted(deleted)
	s.log.Warn("all patient records deleted", zap.Int64("deleted", deleted))
	return deleted, nil
}

// checkRecord runs the pipeline in order and stops at the first failure:
// required fields, national ID format, national ID uniqueness, name
// uniqueness. It returns the canonical national ID.
func (s *PatientService) checkRecord(ctx context.Context, name, nationalID string, excludeID *int64) (string, error) {
	if err := validateRequired(name, nationalID); err != nil {
		s.collector.ObserveGuardRejection(metrics.ReasonInvalidFormat)
		return "", err
	}

	canonical, err := patient.ValidateNationalID(nationalID)
	if err != nil {
		s.collector.ObserveGuardRejection(metrics.ReasonInvalidFormat)
		return "", err
	}

	if err := checkDuplicateNationalID(ctx, s.repo, canonical, excludeID); err != nil {
		if errors.Is(err, patient.ErrConflict) {
			s.collector.ObserveGuardRejection(metrics.ReasonDuplicateNID)
		}
		return "", err
	}

	if err := checkDuplicateName(ctx, s.repo, name, excludeID); err != nil {
		if errors.Is(err, patient.ErrConflict) {
			s.collector.ObserveGuardRejection(metrics.ReasonDuplicateName)
		}
		return "", err
	}

	return canonical, nil
}

// mutationError classifies a failed insert or update. A conflict here means a
// concurrent writer got past the guards and the unique index rejected the row.
func (s *PatientService) mutationError(op string, id int64, err error) error {
	if errors.Is(err, patient.ErrConflict) {
		s.collector.ObserveStorageConflict()
		s.log.Warn("unique constraint rejected patient record",
			zap.String("operation", op), zap.Int64("record_id", id), zap.Error(err))
		return err
	}
	s.log.Error("failed to write patient record",
		zap.String("operation", op), zap.Int64("record_id", id), zap.Error(err))
	return storageError(op, err)
}

func (s *PatientService) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func validateRequired(name, nationalID string) error {
	var errs []string

	if strings.TrimSpace(name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(nationalID) == "" {
		errs = append(errs, "nationalId is required")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
