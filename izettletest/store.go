package izettletest

import (
	"sync"

	"github.com/jd-116/izettle-go/izettle"
)

// Store is the mutex-guarded in-memory resource state behind the fake
// platform: products, categories, discounts, and recorded purchases.
// Purchases are read-only through the API
// and are seeded directly by tests via AddPurchase
type Store struct {
	sync.Mutex
	products   map[string]izettle.Product
	categories map[string]izettle.Category
	discounts  map[string]izettle.Discount
	purchases  []izettle.Purchase
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		products:   make(map[string]izettle.Product),
		categories: make(map[string]izettle.Category),
		discounts:  make(map[string]izettle.Discount),
		purchases:  []izettle.Purchase{},
	}
}

// PutProduct inserts or replaces a product
func (s *Store) PutProduct(product izettle.Product) {
	s.Lock()
	defer s.Unlock()

	s.products[product.UUID] = product
}

// GetProduct gets a single product by UUID
func (s *Store) GetProduct(uuid string) (izettle.Product, bool) {
	s.Lock()
	defer s.Unlock()

	product, ok := s.products[uuid]
	return product, ok
}

// GetAllProducts gets every stored product
func (s *Store) GetAllProducts() []izettle.Product {
	s.Lock()
	defer s.Unlock()

	products := []izettle.Product{}
	for _, product := range s.products {
		products = append(products, product)
	}

	return products
}

// DeleteProduct removes a single product,
// reporting whether it existed
func (s *Store) DeleteProduct(uuid string) bool {
	s.Lock()
	defer s.Unlock()

	if _, ok := s.products[uuid]; !ok {
		return false
	}

	delete(s.products, uuid)
	return true
}

// DeleteProducts removes multiple products at once.
// Missing UUIDs are ignored, matching the real bulk endpoint
func (s *Store) DeleteProducts(uuids []string) {
	s.Lock()
	defer s.Unlock()

	for _, uuid := range uuids {
		delete(s.products, uuid)
	}
}

// AddVariant appends a variant to an existing product,
// reporting whether the product existed
func (s *Store) AddVariant(productUUID string, variant izettle.Variant) bool {
	s.Lock()
	defer s.Unlock()

	product, ok := s.products[productUUID]
	if !ok {
		return false
	}

	product.Variants = append(product.Variants, variant)
	s.products[productUUID] = product
	return true
}

// UpdateVariant replaces a variant of an existing product in place,
// reporting whether both the product and the variant existed.
// The variant keeps its UUID even if the update payload omits it
func (s *Store) UpdateVariant(productUUID string, variantUUID string, variant izettle.Variant) bool {
	s.Lock()
	defer s.Unlock()

	product, ok := s.products[productUUID]
	if !ok {
		return false
	}

	for i := range product.Variants {
		if product.Variants[i].UUID == variantUUID {
			variant.UUID = variantUUID
			product.Variants[i] = variant
			s.products[productUUID] = product
			return true
		}
	}

	return false
}

// DeleteVariant removes a variant from an existing product,
// reporting whether both the product and the variant existed
func (s *Store) DeleteVariant(productUUID string, variantUUID string) bool {
	s.Lock()
	defer s.Unlock()

	product, ok := s.products[productUUID]
	if !ok {
		return false
	}

	for i := range product.Variants {
		if product.Variants[i].UUID == variantUUID {
			product.Variants = append(product.Variants[:i], product.Variants[i+1:]...)
			s.products[productUUID] = product
			return true
		}
	}

	return false
}

// PutCategory inserts or replaces a category
func (s *Store) PutCategory(category izettle.Category) {
	s.Lock()
	defer s.Unlock()

	s.categories[category.UUID] = category
}

// GetCategory gets a single category by UUID
func (s *Store) GetCategory(uuid string) (izettle.Category, bool) {
	s.Lock()
	defer s.Unlock()

	category, ok := s.categories[uuid]
	return category, ok
}

// GetAllCategories gets every stored category
func (s *Store) GetAllCategories() []izettle.Category {
	s.Lock()
	defer s.Unlock()

	categories := []izettle.Category{}
	for _, category := range s.categories {
		categories = append(categories, category)
	}

	return categories
}

// PutDiscount inserts or replaces a discount
func (s *Store) PutDiscount(discount izettle.Discount) {
	s.Lock()
	defer s.Unlock()

	s.discounts[discount.UUID] = discount
}

// GetDiscount gets a single discount by UUID
func (s *Store) GetDiscount(uuid string) (izettle.Discount, bool) {
	s.Lock()
	defer s.Unlock()

	discount, ok := s.discounts[uuid]
	return discount, ok
}

// GetAllDiscounts gets every stored discount
func (s *Store) GetAllDiscounts() []izettle.Discount {
	s.Lock()
	defer s.Unlock()

	discounts := []izettle.Discount{}
	for _, discount := range s.discounts {
		discounts = append(discounts, discount)
	}

	return discounts
}

// DeleteDiscount removes a single discount,
// reporting whether it existed
func (s *Store) DeleteDiscount(uuid string) bool {
	s.Lock()
	defer s.Unlock()

	if _, ok := s.discounts[uuid]; !ok {
		return false
	}

	delete(s.discounts, uuid)
	return true
}

// AddPurchase seeds a recorded purchase.
// Purchases keep their insertion order,
// which the listing endpoint treats as chronological
func (s *Store) AddPurchase(purchase izettle.Purchase) {
	s.Lock()
	defer s.Unlock()

	s.purchases = append(s.purchases, purchase)
}

// GetPurchase gets a single purchase by UUID
func (s *Store) GetPurchase(uuid string) (izettle.Purchase, bool) {
	s.Lock()
	defer s.Unlock()

	for _, purchase := range s.purchases {
		if purchase.PurchaseUUID == uuid {
			return purchase, true
		}
	}

	return izettle.Purchase{}, false
}

// ListPurchases returns purchases in chronological order,
// optionally reversed, resumed after the purchase
// with the given hash, and capped at limit.
// The fake uses the purchase UUID as its pagination hash
func (s *Store) ListPurchases(limit int, lastPurchaseHash string, descending bool) []izettle.Purchase {
	s.Lock()
	defer s.Unlock()

	ordered := make([]izettle.Purchase, len(s.purchases))
	copy(ordered, s.purchases)
	if descending {
		for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		}
	}

	if lastPurchaseHash != "" {
		for i, purchase := range ordered {
			if purchase.PurchaseUUID == lastPurchaseHash {
				ordered = ordered[i+1:]
				break
			}
		}
	}

	if limit > 0 && limit < len(ordered) {
		ordered = ordered[:limit]
	}

	return ordered
}
