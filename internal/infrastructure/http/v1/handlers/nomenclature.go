package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"onghub/internal/domain/nomenclature"
	"onghub/internal/infrastructure/http/v1/dto"
)

// NomenclatureHandler serves the reference lists used by organization forms.
type NomenclatureHandler struct {
	*BaseHandler
	service *nomenclature.Service
}

// NewNomenclatureHandler creates a new NomenclatureHandler.
func NewNomenclatureHandler(base *BaseHandler, service *nomenclature.Service) *NomenclatureHandler {
	return &NomenclatureHandler{BaseHandler: base, service: service}
}

// Cities searches cities by name or county.
// GET /nomenclatures/cities
func (h *NomenclatureHandler) Cities(c *gin.Context) {
	var q dto.CitySearchQuery
	if !h.BindQuery(c, &q) {
		return
	}
	cities, err := h.service.SearchCities(c.Request.Context(), q.Search, q.CountyID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cities)
}

// GET /nomenclatures/counties
func (h *NomenclatureHandler) Counties(c *gin.Context) { serveList(h, c, h.service.ListCounties) }

// GET /nomenclatures/regions
func (h *NomenclatureHandler) Regions(c *gin.Context) { serveList(h, c, h.service.ListRegions) }

// GET /nomenclatures/domains
func (h *NomenclatureHandler) Domains(c *gin.Context) { serveList(h, c, h.service.ListDomains) }

// GET /nomenclatures/federations
func (h *NomenclatureHandler) Federations(c *gin.Context) { serveList(h, c, h.service.ListFederations) }

// GET /nomenclatures/coalitions
func (h *NomenclatureHandler) Coalitions(c *gin.Context) { serveList(h, c, h.service.ListCoalitions) }

func serveList[T any](h *NomenclatureHandler, c *gin.Context, fn func(context.Context) ([]T, error)) {
	items, err := fn(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	h.OK(c, items)
}
