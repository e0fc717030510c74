package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertCartsEqual(t *testing.T, want, got Cart) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ProductID, got[i].ProductID)
		assert.Equal(t, want[i].Name, got[i].Name)
		assert.Equal(t, want[i].Quantity, got[i].Quantity)
		assert.Truef(t, want[i].UnitPrice.Equal(got[i].UnitPrice),
			"price mismatch at %d: want %s got %s", i, want[i].UnitPrice, got[i].UnitPrice)
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	c, _ := Add(Cart{}, 1, "Widget", price("9.99"), 2)
	c, _ = Add(c, 2, "Gadget «fancy»", price("20.00"), 1)
	c, _ = Add(c, 3, `Quote"d`, price("0.50"), 7)

	blob, err := Encode(c)
	require.NoError(t, err)

	assertCartsEqual(t, c, Decode(blob))
}

func TestCodec_RoundTripEmpty(t *testing.T) {
	blob, err := Encode(Cart{})
	require.NoError(t, err)
	assert.Equal(t, "[]", blob)
	assert.Empty(t, Decode(blob))
}

func TestCodec_EncodeNilCart(t *testing.T) {
	blob, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", blob)
}

func TestDecode_CorruptBlobYieldsEmptyCart(t *testing.T) {
	blobs := []string{
		"",
		"not json at all",
		`{"productId":1}`, // object, not an array
		`[{"productId":"one","quantity":2}]`, // wrong field type
		`[{"productId":1,"unitPrice":"not-a-number","quantity":2}]`,
		`[[1,2,3]]`,
		"\x00\x01\x02",
		`[{"productId":1,`, // truncated
	}

	for _, blob := range blobs {
		assert.Emptyf(t, Decode(blob), "blob %q should decode to an empty cart", blob)
	}
}

func TestDecode_DropsNonPositiveQuantities(t *testing.T) {
	blob := `[{"productId":1,"name":"A","unitPrice":"1.00","quantity":0},` +
		`{"productId":2,"name":"B","unitPrice":"2.00","quantity":-4},` +
		`{"productId":3,"name":"C","unitPrice":"3.00","quantity":2}]`

	c := Decode(blob)

	require.Len(t, c, 1)
	assert.Equal(t, int64(3), c[0].ProductID)
	assert.Equal(t, 2, c[0].Quantity)
}

func TestDecode_MergesDuplicateProducts(t *testing.T) {
	blob := `[{"productId":1,"name":"A","unitPrice":"1.00","quantity":2},` +
		`{"productId":1,"name":"A again","unitPrice":"9.00","quantity":3}]`

	c := Decode(blob)

	require.Len(t, c, 1)
	assert.Equal(t, 5, c[0].Quantity)
	assert.Equal(t, "A", c[0].Name)
	assert.True(t, c[0].UnitPrice.Equal(price("1.00")))
}

func TestDecode_PreservesOrder(t *testing.T) {
	c, _ := Add(Cart{}, 5, "E", price("5.00"), 1)
	c, _ = Add(c, 1, "A", price("1.00"), 1)
	c, _ = Add(c, 3, "C", price("3.00"), 1)

	blob, err := Encode(c)
	require.NoError(t, err)

	got := Decode(blob)
	require.Len(t, got, 3)
	assert.Equal(t, int64(5), got[0].ProductID)
	assert.Equal(t, int64(1), got[1].ProductID)
	assert.Equal(t, int64(3), got[2].ProductID)
}
