package cart

import (
	"testing"

	"github.com/galazzia/storefront-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(productID uint, price int64, qty int, color, size string) models.CartItem {
	return models.CartItem{ProductID: productID, Price: decimal.NewFromInt(price), Quantity: qty, Color: color, Size: size}
}

func TestMergeSameKeySumsQuantity(t *testing.T) {
	var items []models.CartItem
	items = Merge(items, item(1, 45000, 1, "lila", "M"))
	items = Merge(items, item(1, 45000, 2, "lila", "M"))
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)

	items = Merge(items, item(1, 45000, 1, "lila", "L"))
	items = Merge(items, item(1, 45000, 1, "negro", "M"))
	assert.Len(t, items, 3)
	assert.Equal(t, 5, ItemCount(items))
}

func TestItemCountIsSumOfQuantities(t *testing.T) {
	items := []models.CartItem{item(1, 10, 2, "", ""), item(2, 10, 3, "", ""), item(3, 10, 1, "", "")}
	assert.Equal(t, 6, ItemCount(items))
	assert.Equal(t, 0, ItemCount(nil))
}

func TestUpdateQuantityAndRemove(t *testing.T) {
	items := []models.CartItem{item(1, 10, 2, "a", "S"), item(2, 10, 1, "", "")}

	items, err := UpdateQuantity(items, Key{ProductID: 1, Color: "a", Size: "S"}, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, items[0].Quantity)

	items, err = UpdateQuantity(items, Key{ProductID: 1, Color: "a", Size: "S"}, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, uint(2), items[0].ProductID)

	_, err = UpdateQuantity(items, Key{ProductID: 9}, 1)
	assert.ErrorIs(t, err, ErrItemNotFound)

	items, err = Remove(items, Key{ProductID: 2})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSubtotalWorkedExample(t *testing.T) {
	items := []models.CartItem{item(1, 45000, 1, "", ""), item(2, 65000, 2, "", "")}
	assert.True(t, Subtotal(items).Equal(decimal.NewFromInt(175000)))
}

func TestSummarizeWithCoupon(t *testing.T) {
	c := &models.Cart{Items: []models.CartItem{item(1, 50000, 2, "", "")}, CouponCode: "galazzialolita"}
	s := Summarize(c)
	assert.Equal(t, 2, s.ItemCount)
	assert.Equal(t, 15, s.DiscountPercent)
	assert.True(t, s.Subtotal.Equal(decimal.NewFromInt(100000)))
	assert.True(t, s.Discount.Equal(decimal.NewFromInt(15000)))
	assert.True(t, s.Total.Equal(decimal.NewFromInt(85000)))
}

func TestCouponPercent(t *testing.T) {
	pct, err := CouponPercent(" GalazziaLolita ")
	require.NoError(t, err)
	assert.Equal(t, 15, pct)

	for _, code := range []string{"", "LOLITA", "GALAZZIA10"} {
		_, err := CouponPercent(code)
		assert.ErrorIs(t, err, ErrInvalidCoupon, code)
	}
}

func TestItemFromProductUsesDiscountedPrice(t *testing.T) {
	p := &models.Product{ID: 4, Name: "Vestido", Price: decimal.NewFromInt(10000), Discount: 20, Color: "rojo"}
	it := ItemFromProduct(p, 2, "", "M")
	assert.True(t, it.Price.Equal(decimal.NewFromInt(8000)))
	assert.True(t, it.OriginalPrice.Valid)
	assert.Empty(t, it.Color)
	assert.Equal(t, "M", it.Size)
	assert.Equal(t, Key{ProductID: 4, Size: "M"}, KeyOf(it))
}
