package handler

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/weiwangfds/noteapi/internal/errors"
)

type sample struct {
	Title string   `validate:"required,max=5"`
	Tags  []string `validate:"required,dive,max=2"`
}

func TestBindErrorFields(t *testing.T) {
	v := validator.New()
	err := v.Struct(sample{Title: "too long", Tags: []string{"ok", "long"}})
	require.Error(t, err)

	appErr, ok := apperrors.GetAppError(bindError(err))
	require.True(t, ok)
	assert.True(t, apperrors.IsValidation(appErr))
	assert.Equal(t, map[string]string{
		"title":   "must be at most 5 characters",
		"tags[1]": "must be at most 2 characters",
	}, appErr.Fields)

	err = v.Struct(sample{})
	appErr, _ = apperrors.GetAppError(bindError(err))
	assert.Equal(t, "is required", appErr.Fields["title"])
	assert.Equal(t, "is required", appErr.Fields["tags"])
}

func TestBindErrorMalformed(t *testing.T) {
	err := bindError(errors.New("unexpected EOF"))
	appErr, ok := apperrors.GetAppError(err)
	require.True(t, ok)
	assert.True(t, apperrors.IsValidation(err))
	assert.Empty(t, appErr.Fields)
	assert.Equal(t, "unexpected EOF", appErr.Details)
}
