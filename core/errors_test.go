package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryErrorUnwraps(t *testing.T) {
	err := NewQueryError("retrieve", "some question", fmt.Errorf("%w: k must be >= 1", ErrValidation))

	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "retrieve")
	assert.Contains(t, err.Error(), "some question")

	var qe *QueryError
	assert.ErrorAs(t, error(err), &qe)
	assert.Equal(t, "retrieve", qe.Op)
}

func TestQueryErrorWithoutQuery(t *testing.T) {
	err := NewQueryError("load", "", errors.New("boom"))
	assert.Equal(t, "load: boom", err.Error())
}
