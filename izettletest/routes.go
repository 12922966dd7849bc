package izettletest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	"github.com/segmentio/ksuid"

	"github.com/jd-116/izettle-go/izettle"
)

// notFound writes the platform's structured 404 response shape
func notFound(w http.ResponseWriter, kind string, uuid string) {
	jsonResponse(w, http.StatusNotFound, map[string]interface{}{
		"errorType":        "ENTITY_NOT_FOUND",
		"developerMessage": fmt.Sprintf("%s with uuid %s was not found", kind, uuid),
	})
}

// badRequest writes the platform's structured 400 response shape
func badRequest(w http.ResponseWriter, message string) {
	jsonResponse(w, http.StatusBadRequest, map[string]interface{}{
		"errorType":        "VALIDATION_ERROR",
		"developerMessage": message,
	})
}

func (s *Server) handleGetAllProducts(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, s.Store.GetAllProducts())
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	product := izettle.Product{}
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		badRequest(w, "The request body could not be parsed as a product")
		return
	}

	if product.UUID == "" {
		badRequest(w, "A product requires a uuid")
		return
	}
	if product.Name == "" {
		badRequest(w, "A product requires a name")
		return
	}
	if len(product.Variants) == 0 {
		badRequest(w, "A product requires at least one variant")
		return
	}

	s.Store.PutProduct(product)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")
	product, ok := s.Store.GetProduct(uuid)
	if !ok {
		notFound(w, "Product", uuid)
		return
	}

	jsonResponse(w, http.StatusOK, product)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")
	existing, ok := s.Store.GetProduct(uuid)
	if !ok {
		notFound(w, "Product", uuid)
		return
	}

	update := izettle.Product{}
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		badRequest(w, "The request body could not be parsed as a product")
		return
	}

	// A partial update payload keeps the stored values it omits
	update.UUID = uuid
	if update.Name == "" {
		update.Name = existing.Name
	}
	if len(update.Variants) == 0 {
		update.Variants = existing.Variants
	}

	s.Store.PutProduct(update)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")
	if !s.Store.DeleteProduct(uuid) {
		notFound(w, "Product", uuid)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteProducts(w http.ResponseWriter, r *http.Request) {
	s.Store.DeleteProducts(r.URL.Query()["uuid"])
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateVariant(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")

	variant := izettle.Variant{}
	if err := json.NewDecoder(r.Body).Decode(&variant); err != nil {
		badRequest(w, "The request body could not be parsed as a variant")
		return
	}

	if !s.Store.AddVariant(uuid, variant) {
		notFound(w, "Product", uuid)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateVariant(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")
	variantUUID := chi.URLParam(r, "variantUUID")

	variant := izettle.Variant{}
	if err := json.NewDecoder(r.Body).Decode(&variant); err != nil {
		badRequest(w, "The request body could not be parsed as a variant")
		return
	}

	if !s.Store.UpdateVariant(uuid, variantUUID, variant) {
		notFound(w, "Variant", variantUUID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteVariant(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")
	variantUUID := chi.URLParam(r, "variantUUID")

	if !s.Store.DeleteVariant(uuid, variantUUID) {
		notFound(w, "Variant", variantUUID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetAllCategories(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, s.Store.GetAllCategories())
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	category := izettle.Category{}
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		badRequest(w, "The request body could not be parsed as a category")
		return
	}

	if category.UUID == "" || category.Name == "" {
		badRequest(w, "A category requires a uuid and a name")
		return
	}

	s.Store.PutCategory(category)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")
	category, ok := s.Store.GetCategory(uuid)
	if !ok {
		notFound(w, "Category", uuid)
		return
	}

	jsonResponse(w, http.StatusOK, category)
}

func (s *Server) handleGetAllDiscounts(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, s.Store.GetAllDiscounts())
}

func (s *Server) handleCreateDiscount(w http.ResponseWriter, r *http.Request) {
	discount := izettle.Discount{}
	if err := json.NewDecoder(r.Body).Decode(&discount); err != nil {
		badRequest(w, "The request body could not be parsed as a discount")
		return
	}

	if discount.UUID == "" {
		badRequest(w, "A discount requires a uuid")
		return
	}
	if discount.Percentage == "" && discount.Amount == nil {
		badRequest(w, "A discount requires either a percentage or an amount")
		return
	}

	s.Store.PutDiscount(discount)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetDiscount(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")
	discount, ok := s.Store.GetDiscount(uuid)
	if !ok {
		notFound(w, "Discount", uuid)
		return
	}

	jsonResponse(w, http.StatusOK, discount)
}

func (s *Server) handleUpdateDiscount(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")
	if _, ok := s.Store.GetDiscount(uuid); !ok {
		notFound(w, "Discount", uuid)
		return
	}

	discount := izettle.Discount{}
	if err := json.NewDecoder(r.Body).Decode(&discount); err != nil {
		badRequest(w, "The request body could not be parsed as a discount")
		return
	}

	discount.UUID = uuid
	s.Store.PutDiscount(discount)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteDiscount(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")
	if !s.Store.DeleteDiscount(uuid) {
		notFound(w, "Discount", uuid)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListPurchases(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 0
	if rawLimit := query.Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 0 {
			badRequest(w, "The limit parameter must be a non-negative integer")
			return
		}
		limit = parsed
	}

	descending := query.Get("descending") == "true"
	lastPurchaseHash := query.Get("lastPurchaseHash")

	purchases := s.Store.ListPurchases(limit, lastPurchaseHash, descending)

	list := izettle.PurchaseList{Purchases: purchases}
	if len(purchases) > 0 {
		list.FirstPurchaseHash = purchases[0].PurchaseUUID
		list.LastPurchaseHash = purchases[len(purchases)-1].PurchaseUUID
	}

	jsonResponse(w, http.StatusOK, list)
}

func (s *Server) handleGetPurchase(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")
	purchase, ok := s.Store.GetPurchase(uuid)
	if !ok {
		notFound(w, "Purchase", uuid)
		return
	}

	jsonResponse(w, http.StatusOK, purchase)
}

func (s *Server) handleCreateImage(w http.ResponseWriter, r *http.Request) {
	image := izettle.Image{}
	if err := json.NewDecoder(r.Body).Decode(&image); err != nil {
		badRequest(w, "The request body could not be parsed as an image")
		return
	}

	if len(image.ImageData) == 0 && image.ImageURL == "" {
		badRequest(w, "An image requires either inline data or a source URL")
		return
	}

	format := strings.ToLower(image.ImageFormat)
	if format == "" {
		format = "png"
	}

	lookupKey := fmt.Sprintf("%s.%s", ksuid.New().String(), format)
	jsonResponse(w, http.StatusOK, izettle.ImageResponse{
		ImageLookupKey: lookupKey,
		ImageURLs: []string{
			fmt.Sprintf("https://image.izettle.com/productimage/L/0/%s", lookupKey),
		},
	})
}
