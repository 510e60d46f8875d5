package walmart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricescout/backend/internal/domain"
)

func TestNormalizePriceString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{
			name:  "installment plan with down payment",
			input: "$41.58/month for 24 months with $0 down",
			want:  997.92,
			ok:    true,
		},
		{
			name:  "installment plan with non-zero down payment",
			input: "$20.00/month for 12 months, $50 down",
			want:  290.00,
			ok:    true,
		},
		{
			name:  "installment plan without down payment",
			input: "$10/month for 6 months",
			want:  60.00,
			ok:    true,
		},
		{
			name:  "plain dollar amount",
			input: "$899.99",
			want:  899.99,
			ok:    true,
		},
		{
			name:  "amount with thousands separator",
			input: "$1,299.00",
			want:  1299.00,
			ok:    true,
		},
		{
			name:  "bare number",
			input: "42.5",
			want:  42.50,
			ok:    true,
		},
		{
			name:  "garbage",
			input: "call for price",
			ok:    false,
		},
		{
			name:  "negative price",
			input: "-5.00",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := normalizePriceString(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestUpstreamPrice_UnmarshalJSON(t *testing.T) {
	t.Run("numeric price is rounded to 2 decimals", func(t *testing.T) {
		var item searchItem
		require.NoError(t, json.Unmarshal([]byte(`{"name":"x","salePrice":899.999}`), &item))
		assert.True(t, item.SalePrice.valid)
		assert.Equal(t, 900.00, item.SalePrice.value)
	})

	t.Run("installment string price", func(t *testing.T) {
		var item searchItem
		require.NoError(t, json.Unmarshal(
			[]byte(`{"name":"x","salePrice":"$41.58/month for 24 months with $0 down"}`), &item))
		assert.True(t, item.SalePrice.valid)
		assert.Equal(t, 997.92, item.SalePrice.value)
	})

	t.Run("unparseable price leaves record excludable, not an error", func(t *testing.T) {
		var item searchItem
		require.NoError(t, json.Unmarshal([]byte(`{"name":"x","salePrice":"TBD"}`), &item))
		assert.False(t, item.SalePrice.valid)
	})

	t.Run("negative numeric price is invalid", func(t *testing.T) {
		var item searchItem
		require.NoError(t, json.Unmarshal([]byte(`{"name":"x","salePrice":-1}`), &item))
		assert.False(t, item.SalePrice.valid)
	})
}

func TestMapOffers(t *testing.T) {
	valid := searchItem{
		Name:       "Test Laptop",
		SalePrice:  upstreamPrice{value: 899.99, valid: true},
		ProductURL: "https://walmart.example/p/1",
		Image:      "https://walmart.example/i/1.jpg",
	}

	t.Run("maps complete record", func(t *testing.T) {
		offers := mapOffers([]searchItem{valid})
		require.Len(t, offers, 1)
		assert.Equal(t, domain.StoreWalmart, offers[0].Store)
		assert.Equal(t, "Test Laptop", offers[0].Name)
		assert.Equal(t, 899.99, offers[0].Price)
		assert.Equal(t, "https://walmart.example/p/1", offers[0].URL)
		assert.Equal(t, "https://walmart.example/i/1.jpg", offers[0].Image)
	})

	t.Run("excludes records missing name, price, link or image", func(t *testing.T) {
		noName := valid
		noName.Name = ""
		noPrice := valid
		noPrice.SalePrice = upstreamPrice{}
		noLink := valid
		noLink.ProductURL = ""
		noImage := valid
		noImage.Image = ""

		offers := mapOffers([]searchItem{noName, noPrice, noLink, noImage, valid})
		require.Len(t, offers, 1)
		assert.Equal(t, "Test Laptop", offers[0].Name)
	})

	t.Run("caps contribution at 10 offers", func(t *testing.T) {
		items := make([]searchItem, 15)
		for i := range items {
			items[i] = valid
		}
		offers := mapOffers(items)
		assert.Len(t, offers, maxOffers)
	})
}
