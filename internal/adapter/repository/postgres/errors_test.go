package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/returntrack/returntrack-backend/internal/domain"
)

func TestTranslateError_UniquePeriod(t *testing.T) {
	err := translateError("records.create", &pq.Error{
		Code:       "23505",
		Constraint: "monthly_records_user_period_key",
	})

	var conflict *domain.ConstraintViolation
	assert.ErrorAs(t, err, &conflict)
	assert.Equal(t, domain.UniquePeriod, conflict.Rule)
}

func TestTranslateError_UniqueEmailAndPhone(t *testing.T) {
	cases := map[string]domain.UniqueRule{
		"users_email_key": domain.UniqueEmail,
		"users_phone_key": domain.UniquePhone,
	}

	for constraint, rule := range cases {
		err := translateError("profiles.create", &pq.Error{Code: "23505", Constraint: constraint})

		var conflict *domain.ConstraintViolation
		assert.ErrorAs(t, err, &conflict, constraint)
		assert.Equal(t, rule, conflict.Rule)
	}
}

func TestTranslateError_WrappedDriverError(t *testing.T) {
	inner := &pq.Error{Code: "23505", Constraint: "users_email_key"}
	err := translateError("profiles.create", fmt.Errorf("exec failed: %w", inner))

	var conflict *domain.ConstraintViolation
	assert.ErrorAs(t, err, &conflict)
}

func TestTranslateError_UnknownConstraintIsStoreError(t *testing.T) {
	err := translateError("records.create", &pq.Error{Code: "23505", Constraint: "something_else"})

	var storeErr *domain.StoreError
	assert.ErrorAs(t, err, &storeErr)
}

func TestTranslateError_TransportFailure(t *testing.T) {
	cause := errors.New("connection reset by peer")
	err := translateError("records.list", cause)

	var storeErr *domain.StoreError
	assert.ErrorAs(t, err, &storeErr)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "records.list", storeErr.Op)
}
