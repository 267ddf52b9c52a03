package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstraintViolationMessages(t *testing.T) {
	// Each rule produces a message naming what collided; the shell shows
	// these verbatim.
	assert.Contains(t, (&ConstraintViolation{Rule: UniquePeriod}).Error(), "month")
	assert.Contains(t, (&ConstraintViolation{Rule: UniqueEmail}).Error(), "email")
	assert.Contains(t, (&ConstraintViolation{Rule: UniquePhone}).Error(), "phone")
}

func TestStoreErrorUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := &StoreError{Op: "records.list", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "records.list")
}

func TestValidationResult(t *testing.T) {
	var res ValidationResult
	assert.True(t, res.OK())
	assert.NoError(t, res.Err())

	res.Add("year", ValidationRange, "year out of range")
	res.Add("month", ValidationFutureDate, "only completed months can be reported")

	assert.False(t, res.OK())
	assert.True(t, res.HasKind(ValidationRange))
	assert.True(t, res.HasKind(ValidationFutureDate))
	assert.False(t, res.HasKind(ValidationRequired))

	err := res.Err()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "year out of range")
}
