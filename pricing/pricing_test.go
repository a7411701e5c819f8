package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCents(t *testing.T) {
	assert.Equal(t, int64(10000), Cents(100))
	assert.Equal(t, int64(500), Cents(5))
	assert.Equal(t, int64(1999), Cents(19.99))
	// rounds instead of truncating
	assert.Equal(t, int64(1003), Cents(10.029))
}

func TestInitialAmount(t *testing.T) {
	amount, err := InitialAmount(100, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), amount)

	amount, err = InitialAmount(19.90, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5970), amount)

	_, err = InitialAmount(100, 0)
	assert.Error(t, err)

	_, err = InitialAmount(0, 1)
	assert.Error(t, err)
}

func TestCouponRoundTrip(t *testing.T) {
	amount, err := ApplyCoupon(10000, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(9500), amount)

	restored, err := RemoveCoupon(amount, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), restored)
}

func TestCouponCannotZeroTheCharge(t *testing.T) {
	_, err := ApplyCoupon(500, 5)
	assert.Error(t, err)

	_, err = ApplyCoupon(400, 5)
	assert.Error(t, err)
}

func TestOrderBumpRoundTrip(t *testing.T) {
	amount, err := ApplyOrderBump(10000, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(12000), amount)

	restored, err := RemoveOrderBump(amount, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), restored)
}

func TestQuantityChangePreservesBumpsAndCoupon(t *testing.T) {
	// base 100 x1 + bump 20 - coupon 5 = 115.00
	amount, err := QuantityChange(11500, 1, 3, 100, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(31500), amount)

	// back down again
	amount, err = QuantityChange(amount, 3, 1, 100, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(11500), amount)
}

func TestQuantityChangeWithoutExtras(t *testing.T) {
	amount, err := QuantityChange(10000, 1, 2, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), amount)
}

func TestQuantityChangeRejectsNonPositive(t *testing.T) {
	_, err := QuantityChange(10000, 1, 0, 100, 0)
	assert.Error(t, err)

	_, err = QuantityChange(10000, 1, -2, 100, 0)
	assert.Error(t, err)
}
