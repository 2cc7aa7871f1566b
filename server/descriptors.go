package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/godamri/helix-audit/http/response"
	"github.com/godamri/helix-audit/schema"
)

// DescriptorHandler exposes the resolved audit shape of a record type:
// which fields will be audited, their kinds, and their lookup bindings.
// Compliance reviews use it to verify exclusions took effect.
type DescriptorHandler struct {
	resolver *schema.Resolver
}

func NewDescriptorHandler(resolver *schema.Resolver) *DescriptorHandler {
	return &DescriptorHandler{resolver: resolver}
}

func (h *DescriptorHandler) RegisterRoutes(r chi.Router) {
	r.Get("/audit/descriptors/{type}", h.HandleDescribe)
}

func (h *DescriptorHandler) HandleDescribe(w http.ResponseWriter, r *http.Request) {
	typeKey := chi.URLParam(r, "type")

	rt, err := h.resolver.Describe(r.Context(), typeKey)
	if err != nil {
		if errors.Is(err, schema.ErrAmbiguousGeneration) {
			response.ErrorJSON(w, r, http.StatusNotFound, response.ErrNotFound, "record type has no published schema generation")
			return
		}
		response.ErrorJSON(w, r, response.MapStatus(response.ErrAuditMetadata), response.ErrAuditMetadata, "descriptor resolution failed")
		return
	}

	response.JSON(w, r, http.StatusOK, rt)
}
