package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("bad"), KindValidation},
		{"not found", NotFound("Asset"), KindNotFound},
		{"wrapped", fmt.Errorf("commit: %w", ReferentialConflict("in use")), KindReferentialConflict},
		{"plain", errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestWithFieldKeepsFirstMessage(t *testing.T) {
	err := Validation("Invalid field name: cpu").
		WithField("cpu", "Invalid field name: cpu").
		WithField("cpu", "second")

	assert.Equal(t, "Invalid field name: cpu", err.Fields["cpu"])
	assert.Equal(t, "Invalid field name: cpu", err.Error())
}

func TestIs(t *testing.T) {
	assert.False(t, Is(nil, KindInternal))
	assert.True(t, Is(TooManyAttempts("slow down"), KindTooManyAttempts))
	assert.Equal(t, "Category not found", NotFound("Category").Error())
}
