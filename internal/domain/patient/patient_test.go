package patient

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNationalID(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		canonical string
		wantErr   bool
	}{
		{name: "plain 16 digits", raw: "1234567890123456", canonical: "1234567890123456"},
		{name: "grouped with spaces", raw: "1234 5678 9012 3456", canonical: "1234567890123456"},
		{name: "letters and dashes are stripped", raw: "abcd-1234-5678-9012-3456", canonical: "1234567890123456"},
		{name: "too short", raw: "123", wantErr: true},
		{name: "too long", raw: "12345678901234567", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "non-ascii digits do not count", raw: "１２３４567890123456", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateNationalID(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidFormat))
				var fe *FormatError
				require.True(t, errors.As(err, &fe))
				assert.Equal(t, "nationalId", fe.Field)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.canonical, got)
		})
	}
}

// Succeeds iff the digit-only form has exactly 16 characters.
func TestValidateNationalID_DigitCountProperty(t *testing.T) {
	fillers := []string{"", " ", "-", "ab", "/.", "x y"}
	for digits := 0; digits <= 20; digits++ {
		for _, filler := range fillers {
			var b strings.Builder
			for i := 0; i < digits; i++ {
				b.WriteString(filler)
				fmt.Fprintf(&b, "%d", i%10)
			}
			raw := b.String()

			_, err := ValidateNationalID(raw)
			if digits == NationalIDDigits {
				assert.NoError(t, err, "raw=%q", raw)
			} else {
				assert.ErrorIs(t, err, ErrInvalidFormat, "raw=%q", raw)
			}
		}
	}
}

func TestCanonicalNationalID(t *testing.T) {
	assert.Equal(t, "123", CanonicalNationalID(" 1-2 a3 "))
	assert.Equal(t, "", CanonicalNationalID("none"))
}

func TestConflictError(t *testing.T) {
	tests := []struct {
		field Field
		msg   string
	}{
		{FieldNationalID, "a patient with the same national ID already exists"},
		{FieldName, "a patient with the same name already exists"},
		{FieldUnknown, "a patient with the same name or national ID already exists"},
	}
	for _, tt := range tests {
		err := fmt.Errorf("creating record: %w", &ConflictError{Field: tt.field})
		assert.ErrorIs(t, err, ErrConflict)
		assert.NotErrorIs(t, err, ErrInvalidFormat)
		assert.Contains(t, err.Error(), tt.msg)
	}
}

func TestStorageError(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := &StorageError{Op: "list", Err: cause}

	assert.Equal(t, "disk I/O error", err.Error())
	assert.ErrorIs(t, err, ErrStorageFailure)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "list: storage failure", (&StorageError{Op: "list"}).Error())
}

func TestRecord_TableName(t *testing.T) {
	assert.Equal(t, "patient_records", Record{}.TableName())
}
