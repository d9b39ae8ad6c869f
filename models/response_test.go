package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponses(t *testing.T) {
	ok := SuccessResponse(map[string]int{"built": 784})
	assert.Equal(t, 200, ok.Code)
	assert.Equal(t, "success", ok.Message)
	_, err := time.Parse(time.RFC3339, ok.Timestamp)
	require.NoError(t, err)

	bad := ErrorFrom(400, errors.New("单元格下标越界: 999"))
	assert.Equal(t, 400, bad.Code)
	assert.Equal(t, "单元格下标越界: 999", bad.Message)
	assert.Nil(t, bad.Data)

	assert.Equal(t, "unknown error", ErrorFrom(500, nil).Message)
}
