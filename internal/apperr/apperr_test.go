package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordError(t *testing.T) {
	err := Corrupt("orders.txt", 3, "expected %d fields, got %d", 7, 5)

	assert.Equal(t, "orders.txt:3: corrupt record: expected 7 fields, got 5", err.Error())
	assert.True(t, errors.Is(err, ErrCorruptRecord))

	var recErr *RecordError
	wrapped := fmt.Errorf("load orders: %w", err)
	assert.True(t, errors.As(wrapped, &recErr))
	assert.Equal(t, 3, recErr.Line)
	assert.Equal(t, "orders.txt", recErr.File)
}
