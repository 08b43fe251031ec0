package fault_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ariefcatur/go-laptop-shop/internal/fault"
)

func TestCodeOf(t *testing.T) {
	err := fault.New(fault.CodeNotFound, "order not found: %s", "42")
	code, ok := fault.CodeOf(err)
	assert.True(t, ok)
	assert.Equal(t, fault.CodeNotFound, code)
	assert.Equal(t, "order not found: 42", err.Error())
}

func TestCodeOfWrapped(t *testing.T) {
	err := fmt.Errorf("create order: %w", fault.New(fault.CodeInsufficientStock, "not enough stock"))
	assert.True(t, fault.IsCode(err, fault.CodeInsufficientStock))
	assert.False(t, fault.IsCode(err, fault.CodeNotFound))
}

func TestCodeOfPlainError(t *testing.T) {
	_, ok := fault.CodeOf(errors.New("boom"))
	assert.False(t, ok)
}
