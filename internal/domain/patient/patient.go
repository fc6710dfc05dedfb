package patient

import (
	"time"
)

// Record is a single patient health record. ID and RecordedAt are assigned by
// the store and never change afterwards.
type Record struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	RecordedAt time.Time `gorm:"column:recorded_at;autoCreateTime;not null"`

	Name string `gorm:"column:name;type:varchar(255);not null;uniqueIndex:ux_patient_records_name"`

	// NationalID keeps the submitted formatting (e.g. embedded spaces).
	NationalID string `gorm:"column:national_id;type:varchar(64);not null"`
	// NationalIDCanonical is the digits-only form; uniqueness is enforced on it.
	NationalIDCanonical string `gorm:"column:national_id_canonical;type:varchar(64);not null;uniqueIndex:ux_patient_records_national_id"`

	Temperature      float64 `gorm:"column:temperature"`
	FrequentSickness string  `gorm:"column:frequent_sickness;type:text"`
}

func (Record) TableName() string {
	return "patient_records"
}

type CreateRecordCommand struct {
	Name             string
	NationalID       string
	Temperature      float64
	FrequentSickness string
}

// UpdateRecordCommand replaces every mutable field.
type UpdateRecordCommand struct {
	Name             string
	NationalID       string
	Temperature      float64
	FrequentSickness string
}
