package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotalThreeNightStay(t *testing.T) {
	got, err := ComputeTotal(2000, 3, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(6000), got.Subtotal)
	assert.Equal(t, int64(1080), got.Taxes)
	assert.Equal(t, int64(300), got.ServiceFee)
	assert.Equal(t, int64(7380), got.Total)
}

func TestComputeTotalWithAddOns(t *testing.T) {
	addOns := []AddOn{
		{Name: "breakfast", Price: 150, Quantity: 3},
		{Name: "airport pickup", Price: 500, Quantity: 1},
	}
	got, err := ComputeTotal(2000, 3, addOns)
	require.NoError(t, err)

	assert.Equal(t, int64(950), got.AddOnTotal)
	preTax := got.Subtotal + got.AddOnTotal
	assert.Equal(t, (preTax*18+50)/100, got.Taxes)
	assert.Equal(t, (preTax*5+50)/100, got.ServiceFee)
	assert.Equal(t, preTax+got.Taxes+got.ServiceFee, got.Total)
}

func TestComputeTotalIsDeterministic(t *testing.T) {
	first, err := ComputeTotal(1837, 5, []AddOn{{Name: "spa", Price: 99, Quantity: 2}})
	require.NoError(t, err)
	second, err := ComputeTotal(1837, 5, []AddOn{{Name: "spa", Price: 99, Quantity: 2}})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputeTotalRejectsInvalidInput(t *testing.T) {
	_, err := ComputeTotal(0, 3, nil)
	assert.ErrorIs(t, err, ErrInvalidPricingInput)

	_, err = ComputeTotal(2000, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidPricingInput)

	_, err = ComputeTotal(2000, 3, []AddOn{{Name: "bad", Price: -1, Quantity: 1}})
	assert.ErrorIs(t, err, ErrInvalidPricingInput)
}

func TestValidateClientTotal(t *testing.T) {
	assert.True(t, ValidateClientTotal(7380, 7380, 5))
	assert.True(t, ValidateClientTotal(7011, 7380, 5), "just inside 5%")
	assert.True(t, ValidateClientTotal(7749, 7380, 5))
	assert.False(t, ValidateClientTotal(7010, 7380, 5), "just outside 5%")
	assert.False(t, ValidateClientTotal(3690, 7380, 5))
}
