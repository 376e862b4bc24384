package errors_test

import (
	stderrors "errors"
	"testing"

	apperr "github.com/KirkDiggler/battle-engine/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestWrap_PreservesCode(t *testing.T) {
	base := apperr.NotFoundf("spell %s not found", "Ember").WithMeta("spell", "Ember")
	wrapped := apperr.Wrap(base, "failed to choose action")

	assert.True(t, apperr.IsNotFound(wrapped))
	assert.Equal(t, "Ember", apperr.GetMeta(wrapped)["spell"])
	assert.Equal(t, "failed to choose action: spell Ember not found", wrapped.Error())
}

func TestWrap_ForeignErrorIsUnknown(t *testing.T) {
	wrapped := apperr.Wrap(stderrors.New("boom"), "redis")
	assert.Equal(t, apperr.CodeUnknown, apperr.GetCode(wrapped))
	assert.Nil(t, apperr.Wrap(nil, "ignored"))
}

func TestWrapWithCode(t *testing.T) {
	wrapped := apperr.WrapWithCode(stderrors.New("bad yaml"), apperr.CodeValidation, "load effects")
	assert.True(t, apperr.IsValidation(wrapped))
	assert.False(t, apperr.IsFailedPrecondition(wrapped))
}
