package izettle_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jd-116/izettle-go/izettle"
	"github.com/jd-116/izettle-go/izettletest"
)

func TestCreateProductDefaults(t *testing.T) {
	_, config := newFixture(t, izettletest.Config{})
	client, err := izettle.NewClient(config)
	require.NoError(t, err)

	product := izettle.Product{Name: "espresso"}
	require.NoError(t, client.CreateProduct(&product))

	// The client fills in what the platform requires:
	// a product UUID, at least one variant with its own UUID,
	// and a zero VAT percentage
	assert.NotEmpty(t, product.UUID)
	require.Len(t, product.Variants, 1)
	assert.NotEmpty(t, product.Variants[0].UUID)
	assert.Equal(t, "0", product.VatPercentage)

	stored, err := client.GetProduct(product.UUID)
	require.NoError(t, err)
	assert.Equal(t, product.UUID, stored.UUID)
	assert.Equal(t, "espresso", stored.Name)
}

func TestProductLifecycle(t *testing.T) {
	_, config := newFixture(t, izettletest.Config{})
	client, err := izettle.NewClient(config)
	require.NoError(t, err)

	product := izettle.Product{Name: "cold brew"}
	require.NoError(t, client.CreateProduct(&product))

	update := product
	update.Name = "cold brew (large)"
	require.NoError(t, client.UpdateProduct(product.UUID, &update))

	updated, err := client.GetProduct(product.UUID)
	require.NoError(t, err)
	assert.Equal(t, "cold brew (large)", updated.Name)

	require.NoError(t, client.DeleteProduct(product.UUID))

	_, err = client.GetProduct(product.UUID)
	require.Error(t, err)
	requestErr, ok := err.(*izettle.RequestError)
	require.True(t, ok, "expected a *RequestError, got %T", err)
	assert.Equal(t, http.StatusNotFound, requestErr.Status)
}

func TestProductVariants(t *testing.T) {
	_, config := newFixture(t, izettletest.Config{})
	client, err := izettle.NewClient(config)
	require.NoError(t, err)

	product := izettle.Product{Name: "tea"}
	require.NoError(t, client.CreateProduct(&product))

	variant := izettle.Variant{Name: "loose leaf"}
	require.NoError(t, client.CreateVariant(product.UUID, &variant))
	require.NotEmpty(t, variant.UUID)

	renamed := izettle.Variant{Name: "loose leaf (50g)"}
	require.NoError(t, client.UpdateVariant(product.UUID, variant.UUID, &renamed))

	stored, err := client.GetProduct(product.UUID)
	require.NoError(t, err)
	require.Len(t, stored.Variants, 2)

	found := false
	for _, v := range stored.Variants {
		if v.UUID == variant.UUID {
			assert.Equal(t, "loose leaf (50g)", v.Name)
			found = true
		}
	}
	assert.True(t, found, "the updated variant should still be on the product")

	require.NoError(t, client.DeleteVariant(product.UUID, variant.UUID))

	stored, err = client.GetProduct(product.UUID)
	require.NoError(t, err)
	assert.Len(t, stored.Variants, 1)
}

func TestDeleteProductsBulk(t *testing.T) {
	_, config := newFixture(t, izettletest.Config{})
	client, err := izettle.NewClient(config)
	require.NoError(t, err)

	first := izettle.Product{Name: "first"}
	second := izettle.Product{Name: "second"}
	require.NoError(t, client.CreateProduct(&first))
	require.NoError(t, client.CreateProduct(&second))

	products, err := client.GetAllProducts()
	require.NoError(t, err)
	require.Len(t, products, 2)

	require.NoError(t, client.DeleteProducts([]string{first.UUID, second.UUID}))

	products, err = client.GetAllProducts()
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestCategories(t *testing.T) {
	_, config := newFixture(t, izettletest.Config{})
	client, err := izettle.NewClient(config)
	require.NoError(t, err)

	category := izettle.Category{Name: "drinks"}
	require.NoError(t, client.CreateCategory(&category))
	require.NotEmpty(t, category.UUID)

	stored, err := client.GetCategory(category.UUID)
	require.NoError(t, err)
	assert.Equal(t, "drinks", stored.Name)

	categories, err := client.GetAllCategories()
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}

func TestDiscounts(t *testing.T) {
	_, config := newFixture(t, izettletest.Config{})
	client, err := izettle.NewClient(config)
	require.NoError(t, err)

	discount := izettle.Discount{Name: "happy hour", Percentage: "10"}
	require.NoError(t, client.CreateDiscount(&discount))
	require.NotEmpty(t, discount.UUID)

	update := discount
	update.Percentage = "15"
	require.NoError(t, client.UpdateDiscount(discount.UUID, &update))

	stored, err := client.GetDiscount(discount.UUID)
	require.NoError(t, err)
	assert.Equal(t, "15", stored.Percentage)

	discounts, err := client.GetAllDiscounts()
	require.NoError(t, err)
	assert.Len(t, discounts, 1)

	require.NoError(t, client.DeleteDiscount(discount.UUID))

	_, err = client.GetDiscount(discount.UUID)
	require.Error(t, err)
}

func TestPurchases(t *testing.T) {
	fake, config := newFixture(t, izettletest.Config{})
	client, err := izettle.NewClient(config)
	require.NoError(t, err)

	// Purchases are recorded by the point-of-sale apps,
	// so the test seeds them directly into the fake
	for _, uuid := range []string{"purchase-1", "purchase-2", "purchase-3"} {
		fake.Store.AddPurchase(izettle.Purchase{
			PurchaseUUID: uuid,
			Currency:     "SEK",
			Amount:       1500,
		})
	}

	single, err := client.GetPurchase("purchase-2")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), single.Amount)

	list, err := client.GetPurchases(nil)
	require.NoError(t, err)
	require.Len(t, list.Purchases, 3)
	assert.Equal(t, "purchase-1", list.FirstPurchaseHash)
	assert.Equal(t, "purchase-3", list.LastPurchaseHash)

	newest, err := client.GetPurchases(&izettle.PurchaseFilter{Limit: 1, Descending: true})
	require.NoError(t, err)
	require.Len(t, newest.Purchases, 1)
	assert.Equal(t, "purchase-3", newest.Purchases[0].PurchaseUUID)

	// Resume the ascending listing from the first returned hash
	resumed, err := client.GetPurchases(&izettle.PurchaseFilter{LastPurchaseHash: "purchase-1"})
	require.NoError(t, err)
	require.Len(t, resumed.Purchases, 2)
	assert.Equal(t, "purchase-2", resumed.Purchases[0].PurchaseUUID)
}

func TestCreateImage(t *testing.T) {
	_, config := newFixture(t, izettletest.Config{})
	client, err := izettle.NewClient(config)
	require.NoError(t, err)

	response, err := client.CreateImage(&izettle.Image{
		ImageFormat: "JPEG",
		ImageURL:    "https://www.example.com/image.jpg",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(response.ImageLookupKey, ".jpeg"))
	require.NotEmpty(t, response.ImageURLs)
}
