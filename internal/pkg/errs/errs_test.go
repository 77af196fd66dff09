package errs_test

import (
	"errors"
	"testing"

	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("assignmentId", "123")

		assert.Equal(t, "assignmentId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("record not found")
		err := errs.NewObjectNotFoundErrorWithCause("assignmentId", "123", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: assignmentId, ID is: 123 (cause: record not found)",
			err.Error())
	})
}

func TestNotAuthorizedError(t *testing.T) {
	t.Run("NewNotAuthorizedError", func(t *testing.T) {
		err := errs.NewNotAuthorizedError("assignment", "courier-7")

		assert.Equal(t, "assignment", err.ParamName)
		assert.Equal(t, "courier-7", err.SubjectID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "not authorized: courier-7 over assignment", err.Error())
		assert.Equal(t, errs.ErrNotAuthorized, err.Unwrap())
	})

	t.Run("NewNotAuthorizedErrorWithCause", func(t *testing.T) {
		cause := errors.New("not in broadcast set")
		err := errs.NewNotAuthorizedErrorWithCause("assignment", "courier-7", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"not authorized: courier-7 over assignment (cause: not in broadcast set)",
			err.Error())
	})
}

func TestConflictError(t *testing.T) {
	t.Run("NewConflictError", func(t *testing.T) {
		err := errs.NewConflictError("assignment status", "Expired")

		assert.Equal(t, "assignment status", err.ParamName)
		assert.Equal(t, "Expired", err.State)
		require.NoError(t, err.Cause)
		assert.Equal(t, "state conflict: assignment status is Expired", err.Error())
		assert.Equal(t, errs.ErrConflict, err.Unwrap())
	})

	t.Run("NewConflictErrorWithCause", func(t *testing.T) {
		cause := errors.New("no rows updated")
		err := errs.NewConflictErrorWithCause("assignment status", "Assigned", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"state conflict: assignment status is Assigned (cause: no rows updated)",
			err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("latitude")

		assert.Equal(t, "latitude", err.ParamName)
		assert.Equal(t, "value is invalid: latitude", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("not a number")
		err := errs.NewValueIsInvalidErrorWithCause("latitude", cause)

		assert.Equal(t, "value is invalid: latitude (cause: not a number)", err.Error())
	})
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredError("orderId")

	assert.Equal(t, "orderId", err.ParamName)
	assert.Equal(t, "value is required: orderId", err.Error())
	assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("NewValueIsOutOfRangeError", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("latitude", 120.0, -90.0, 90.0)

		assert.Equal(t, "latitude", err.ParamName)
		assert.Equal(t, 120.0, err.Value)
		assert.Equal(t, -90.0, err.Min)
		assert.Equal(t, 90.0, err.Max)
		assert.Equal(t,
			"value is out of range: 120 is latitude, min value is -90, max value is 90",
			err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("messages_are_single_line", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10)

		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestErrorsCanBeClassified(t *testing.T) {
	t.Run("errors_Is_matches_sentinels", func(t *testing.T) {
		require.ErrorIs(t, errs.NewObjectNotFoundError("id", "1"), errs.ErrObjectNotFound)
		require.ErrorIs(t, errs.NewNotAuthorizedError("assignment", "c1"), errs.ErrNotAuthorized)
		require.ErrorIs(t, errs.NewConflictError("status", "Expired"), errs.ErrConflict)
		require.ErrorIs(t, errs.NewValueIsInvalidError("point"), errs.ErrValueIsInvalid)
		require.ErrorIs(t, errs.NewValueIsRequiredError("shopId"), errs.ErrValueIsRequired)
		require.ErrorIs(t, errs.NewValueIsOutOfRangeError("lon", 200, -180, 180), errs.ErrValueIsOutOfRange)
	})

	t.Run("sentinels_do_not_cross_match", func(t *testing.T) {
		err := errs.NewConflictError("status", "Assigned")

		assert.NotErrorIs(t, err, errs.ErrObjectNotFound)
		assert.NotErrorIs(t, err, errs.ErrNotAuthorized)
	})
}
