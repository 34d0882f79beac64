// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	producterrors "github.com/abgdnv/productapi/internal/errors"
	"github.com/abgdnv/productapi/internal/service"
	"github.com/abgdnv/productapi/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const WelcomeMessage = "Welcome to the Product API! Go to /api/products to see all products."

const (
	msgProductNotFound = "Product not found"
	msgMissingFields   = "Missing required product fields"
	msgInvalidBody     = "Invalid request body"
)

type Handler struct {
	service    service.ProductService
	validate   *validator.Validate
	translator *web.ErrorTranslator
	logger     *slog.Logger
}

// DeleteResponse is the body returned after a successful delete.
type DeleteResponse struct {
	Message string             `json:"message"`
	Product service.ProductDto `json:"product"`
}

// NewHandler creates a new instance of Handler with the provided service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	logger = logger.With("component", "rest")
	return &Handler{
		service:    service,
		validate:   validator.New(),
		translator: web.NewErrorTranslator(logger),
		logger:     logger,
	}
}

// RegisterRoutes registers the HTTP routes for the product API.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Welcome)

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.translator.Handle(h.FindAll))
		r.Post("/", h.translator.Handle(h.Create))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.translator.Handle(h.FindByID))
			r.Put("/", h.translator.Handle(h.Update))
			r.Delete("/", h.translator.Handle(h.DeleteByID))
		})
	})
}

// Welcome answers the root path with a plain text greeting.
func (h *Handler) Welcome(w http.ResponseWriter, _ *http.Request) {
	web.RespondText(w, http.StatusOK, WelcomeMessage)
}

// FindAll retrieves a list of all products.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) error {
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		return err
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
	return nil
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) error {
	id := r.PathValue("id")
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		return mapServiceError(err)
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
	return nil
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) error {
	var productCreateDto service.ProductCreateDto
	if err := decodeBody(r, &productCreateDto); err != nil {
		return err
	}
	if err := h.validate.Struct(productCreateDto); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errorFields := make(map[string]string)
			for _, fieldErr := range validationErrors {
				errorFields[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			h.logger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorFields)
		}
		return web.NewHTTPError(http.StatusBadRequest, msgMissingFields, err)
	}

	newProduct, err := h.service.Create(r.Context(), productCreateDto)
	if err != nil {
		return err
	}
	h.logger.InfoContext(r.Context(), "Product created successfully", "ID", newProduct.ID, "Name", newProduct.Name)
	web.RespondJSON(w, h.logger, http.StatusCreated, newProduct)
	return nil
}

// Update overrides the fields present in the body. An "id" in the body is ignored.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) error {
	id := r.PathValue("id")
	var productUpdateDto service.ProductUpdateDto
	if err := decodeBody(r, &productUpdateDto); err != nil {
		return err
	}

	updated, err := h.service.Update(r.Context(), id, productUpdateDto)
	if err != nil {
		return mapServiceError(err)
	}
	h.logger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
	return nil
}

// DeleteByID deletes a product by its ID and echoes the removed record.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) error {
	id := r.PathValue("id")
	deleted, err := h.service.DeleteByID(r.Context(), id)
	if err != nil {
		return mapServiceError(err)
	}
	h.logger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	web.RespondJSON(w, h.logger, http.StatusOK, DeleteResponse{Message: "Product deleted", Product: *deleted})
	return nil
}

// decodeBody reads a JSON object into dst. An empty body decodes as {}.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return web.NewHTTPError(http.StatusBadRequest, msgInvalidBody, err)
	}
	return nil
}

func mapServiceError(err error) error {
	if errors.Is(err, producterrors.ErrProductNotFound) {
		return web.NewHTTPError(http.StatusNotFound, msgProductNotFound, err)
	}
	return err
}
