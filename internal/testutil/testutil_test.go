package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewStepClock(start, time.Millisecond)

	a := c.Now()
	b := c.Now()
	assert.Equal(t, start.Add(time.Millisecond), a)
	assert.Equal(t, time.Millisecond, b.Sub(a))

	c.Reset(start)
	assert.Equal(t, start.Add(time.Millisecond), c.Now())
}

func TestFixedIDGenerator(t *testing.T) {
	assert.Equal(t, "abc", NewFixedIDGenerator("abc").Generate())
	assert.Equal(t, "test-trace-default", NewFixedIDGenerator("").Generate())
}

func TestProductStore(t *testing.T) {
	s := ProductStore(t)
	records, err := s.Query(context.Background(), `SELECT * FROM "products" ORDER BY "id" ASC`, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4}, IntIDs(records))
}

func TestProductsModelValidates(t *testing.T) {
	require.NoError(t, ProductsModel().Validate())
	assert.Equal(t, []string{"products"}, Registry(t).Names())
}
