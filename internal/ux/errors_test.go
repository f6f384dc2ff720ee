package ux

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/taskgraph/internal/errors"
)

func TestEnhanceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		suggestion string
	}{
		{
			name:       "missing plan",
			err:        fmt.Errorf("open plan.json: no such file or directory"),
			suggestion: "taskgraph plan create",
		},
		{
			name:       "permission",
			err:        fmt.Errorf("open prd.md: permission denied"),
			suggestion: "Check file permissions",
		},
		{
			name:       "s3 endpoint",
			err:        fmt.Errorf("dial tcp 127.0.0.1:9000: connect: connection refused"),
			suggestion: "storage.s3.endpoint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enhanced := EnhanceError(tt.err)
			var ews *ErrorWithSuggestion
			assert.ErrorAs(t, enhanced, &ews)
			assert.Contains(t, ews.Suggestion, tt.suggestion)
			assert.ErrorIs(t, enhanced, tt.err)
		})
	}
}

func TestEnhanceError_PassThrough(t *testing.T) {
	assert.Nil(t, EnhanceError(nil))

	coded := errors.NewFileNotFoundError("plan.json")
	assert.Same(t, coded, EnhanceError(coded))

	plain := fmt.Errorf("something odd")
	assert.Equal(t, plain, EnhanceError(plain))
}

func TestFormatError(t *testing.T) {
	err := FormatError(fmt.Errorf("boom"), "plan create")
	assert.EqualError(t, err, "plan create: boom")
	assert.Nil(t, FormatError(nil, "x"))
}
