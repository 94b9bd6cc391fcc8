package validation

import (
	"fmt"

	dErrors "carehub/pkg/domain-errors"
)

// Field length limits shared by request validation and store schemas.
const (
	MaxEmailLength     = 255
	MaxNameLength      = 100
	MaxIDNumberLength  = 64
	MaxPhoneLength     = 32
	MaxAddressLength   = 500
	MaxPasswordLength  = 72 // bcrypt ignores everything past 72 bytes
	MaxMedicationField = 200
	MaxReminders       = 24
)

// CheckSliceCount validates that a slice does not exceed the maximum count.
func CheckSliceCount(fieldName string, count, max int) error {
	if count > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("too many %s: max %d allowed", fieldName, max))
	}
	return nil
}

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}
