package service

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/patient"
)

// checkDuplicateNationalID fails with a national ID conflict when another
// record already holds the canonical value. excludeID skips the row being
// updated.
func checkDuplicateNationalID(ctx context.Context, repo patient.Repository, canonical string, excludeID *int64) error {
	exists, err := repo.ExistsByNationalID(ctx, canonical, excludeID)
	if err != nil {
		return storageError("check national id", err)
	}
	if exists {
		return &patient.ConflictError{Field: patient.FieldNationalID}
	}
	return nil
}

func checkDuplicateName(ctx context.Context, repo patient.Repository, name string, excludeID *int64) error {
	exists, err := repo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return storageError("check name", err)
	}
	if exists {
		return &patient.ConflictError{Field: patient.FieldName}
	}
	return nil
}
