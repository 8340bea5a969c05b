package gcp

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestIsPreconditionFailed(t *testing.T) {
	assert.True(t, isPreconditionFailed(&googleapi.Error{Code: 412}))
	assert.True(t, isPreconditionFailed(fmt.Errorf("finalize upload: %w", &googleapi.Error{Code: 412})),
		"a wrapped 412 must still read as already-written")
	assert.False(t, isPreconditionFailed(&googleapi.Error{Code: 403}))
	assert.False(t, isPreconditionFailed(errors.New("network down")))
	assert.False(t, isPreconditionFailed(nil))
}
