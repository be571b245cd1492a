package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.core")
	defer teardown()
	//
	err := Error(EPRECONDITION, "no active document")
	assert.Equal(t, EPRECONDITION, Code(err))
	assert.Equal(t, "no active document", UserMessage(err))
	assert.True(t, Is(err, EPRECONDITION))
	assert.False(t, Is(err, EGEOMETRY))
	assert.Equal(t, NOERROR, Code(nil))
	assert.Equal(t, "", UserMessage(nil))
}

func TestWrappedErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.core")
	defer teardown()
	//
	cause := errors.New("offset failed")
	err := WrapError(cause, EGEOMETRY, "cannot offset %s", "Wire001")
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "cannot offset Wire001", UserMessage(err))
	outer := fmt.Errorf("upgrade: %w", err)
	assert.Equal(t, EGEOMETRY, Code(outer))
	assert.Equal(t, EINTERNAL, Code(cause))
	nilwrap := ErrorWithCode(nil, EDEPENDENCY)
	assert.Equal(t, EDEPENDENCY, Code(nilwrap))
}
