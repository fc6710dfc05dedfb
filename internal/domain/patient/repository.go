package patient

//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks

import (
	"context"
)

type Repository interface {
	// Create inserts r and sets r.ID and r.RecordedAt. Returns *ConflictError when
	// a unique constraint rejects the row.
	Create(ctx context.Context, r *Record) error

	// List returns every record ordered by ID.
	List(ctx context.Context) ([]*Record, error)

	// GetByID returns ErrRecordNotFound if no row has this id.
	GetByID(ctx context.Context, id int64) (*Record, error)

	// Update overwrites the mutable columns of the row with this id and returns
	// the number of rows changed.
	Update(ctx context.Context, id int64, r *Record) (int64, error)

	Delete(ctx context.Context, id int64) (int64, error)

	// DeleteAll removes every row in a single statement.
	DeleteAll(ctx context.Context) (int64, error)

	// ExistsByNationalID checks the canonical national ID, ignoring excludeID when set.
	ExistsByNationalID(ctx context.Context, canonical string, excludeID *int64) (bool, error)

	// ExistsByName checks for uniqueness without fetching the full record.
	ExistsByName(ctx context.Context, name string, excludeID *int64) (bool, error)
}
