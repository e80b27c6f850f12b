package errdef_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/tribeshub/backend/internal/errdef"

	"github.com/stretchr/testify/assert"
)

func TestIsBadRequest(t *testing.T) {
	assert.False(t, errdef.IsBadRequest(errors.New("some error")))
	assert.True(t, errdef.IsBadRequest(errdef.NewBadRequest("some error")))
}

func TestIsNotFound(t *testing.T) {
	assert.False(t, errdef.IsNotFound(errors.New("some error")))
	assert.True(t, errdef.IsNotFound(errdef.NewNotFound("some error")))
}

func TestIsUnauthorized(t *testing.T) {
	assert.False(t, errdef.IsUnauthorized(errors.New("some error")))
	assert.True(t, errdef.IsUnauthorized(errdef.NewUnauthorized("some error")))
}

func TestIsForbidden(t *testing.T) {
	assert.False(t, errdef.IsForbidden(errors.New("some error")))
	assert.True(t, errdef.IsForbidden(errdef.NewForbidden("some error")))
}

func TestIsDuplicated(t *testing.T) {
	assert.False(t, errdef.IsDuplicated(errors.New("some error")))
	assert.True(t, errdef.IsDuplicated(errdef.NewDuplicated("some error")))
}

func TestIsUnavailable(t *testing.T) {
	assert.False(t, errdef.IsUnavailable(errors.New("some error")))
	assert.True(t, errdef.IsUnavailable(errdef.NewUnavailable("some error")))
}

func TestWrappedErrorsKeepTheirKind(t *testing.T) {
	err := fmt.Errorf("sending failed: %w", errdef.NewNotFound("no such community"))
	assert.True(t, errdef.IsNotFound(err))
	assert.False(t, errdef.IsBadRequest(err))
}
