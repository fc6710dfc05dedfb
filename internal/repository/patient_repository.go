package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/patient"
)

const pgUniqueViolation = "23505"

type PatientRepository struct {
	db *gorm.DB
}

var _ patient.Repository = (*PatientRepository)(nil)

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) Create(ctx context.Context, rec *patient.Record) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		if conflict := uniqueViolation(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("inserting patient record: %w", err)
	}
	return nil
}

func (r *PatientRepository) List(ctx context.Context) ([]*patient.Record, error) {
	var records []*patient.Record
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("listing patient records: %w", err)
	}
	return records, nil
}

func (r *PatientRepository) GetByID(ctx context.Context, id int64) (*patient.Record, error) {
	var rec patient.Record
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, patient.ErrRecordNotFound
		}
		return nil, fmt.Errorf("getting patient record %d: %w", id, err)
	}
	return &rec, nil
}

func (r *PatientRepository) Update(ctx context.Context, id int64, rec *patient.Record) (int64, error) {
	// A map writes zero values too (temperature 0, empty sickness history).
	res := r.db.WithContext(ctx).
		Model(&patient.Record{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":                  rec.Name,
			"national_id":           rec.NationalID,
			"national_id_canonical": rec.NationalIDCanonical,
			"temperature":           rec.Temperature,
			"frequent_sickness":     rec.FrequentSickness,
		})
	if res.Error != nil {
		if conflict := uniqueViolation(res.Error); conflict != nil {
			return 0, conflict
		}
		return 0, fmt.Errorf("updating patient record %d: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}

func (r *PatientRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&patient.Record{})
	if res.Error != nil {
		return 0, fmt.Errorf("deleting patient record %d: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}

func (r *PatientRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&patient.Record{})
	if res.Error != nil {
		return 0, fmt.Errorf("deleting all patient records: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *PatientRepository) ExistsByNationalID(ctx context.Context, canonical string, excludeID *int64) (bool, error) {
	return r.exists(ctx, "national_id_canonical", canonical, excludeID)
}

func (r *PatientRepository) ExistsByName(ctx context.Context, name string, excludeID *int64) (bool, error) {
	return r.exists(ctx, "name", name, excludeID)
}

func (r *PatientRepository) exists(ctx context.Context, column, value string, excludeID *int64) (bool, error) {
	q := r.db.WithContext(ctx).Model(&patient.Record{}).Where(column+" = ?", value)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("checking %s uniqueness: %w", column, err)
	}
	return count > 0, nil
}

// uniqueViolation maps a unique constraint error from either backend to a
// ConflictError naming the offending field, or returns nil.
func uniqueViolation(err error) *patient.ConflictError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return nil
		}
		return &patient.ConflictError{Field: conflictField(pgErr.ConstraintName)}
	}

	// SQLite: "UNIQUE constraint failed: patient_records.name (2067)"
	if msg := err.Error(); strings.Contains(msg, "UNIQUE constraint failed") {
		return &patient.ConflictError{Field: conflictField(msg)}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &patient.ConflictError{Field: patient.FieldUnknown}
	}
	return nil
}

func conflictField(s string) patient.Field {
	switch {
	case strings.Contains(s, "national_id"):
		return patient.FieldNationalID
	case strings.Contains(s, "name"):
		return patient.FieldName
	default:
		return patient.FieldUnknown
	}
}
