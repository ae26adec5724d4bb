package http

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pricescout/backend/internal/domain"
	"github.com/pricescout/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	prices *usecase.PriceService
}

// NewHandler creates a new HTTP handler
func NewHandler(prices *usecase.PriceService) *Handler {
	return &Handler{prices: prices}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pricescout-backend",
		"version": "1.0.0",
	})
}

// Catalog returns master categories, their categories and suggested products
func (h *Handler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"master_categories": usecase.Catalog()})
}

// Compare handles price comparison requests
func (h *Handler) Compare(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req domain.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	results, err := h.prices.RunCompare(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCategory) || errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[HTTP] compare %q failed: %v", req.ProductName, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": sentence(err)})
		return
	}

	c.JSON(http.StatusOK, results)
}

// DetectAnomalies flags supplied records priced more than the threshold above their mean
func (h *Handler) DetectAnomalies(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var records []domain.ProductRecord
	if err := c.ShouldBindJSON(&records); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "anomalies": []domain.Anomaly{}, "error": "Invalid request body"})
		return
	}

	anomalies, err := h.prices.DetectRecordAnomalies(records)
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "anomalies": []domain.Anomaly{}, "error": err.Error()})
	case errors.Is(err, domain.ErrNoValidPrices):
		c.JSON(http.StatusOK, gin.H{"status": "error", "anomalies": []domain.Anomaly{}, "error": "No valid prices found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "anomalies": []domain.Anomaly{}, "error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{
			"status":        "success",
			"anomalies":     anomalies,
			"total_flagged": len(anomalies),
		})
	}
}

// variantAnomalyRequest is the body of the variant-level anomaly endpoint
type variantAnomalyRequest struct {
	Category string                 `json:"category"`
	Products []domain.ProductRecord `json:"products"`
}

// DetectVariantAnomalies runs the variant discovery and unit price pipeline
func (h *Handler) DetectVariantAnomalies(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req variantAnomalyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	report, err := h.prices.RunAnomalyDetection(c.Request.Context(), req.Category, req.Products)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[HTTP] variant anomalies for %q failed: %v", req.Category, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// arbitrageRequest leaves quantity and threshold optional so defaults can apply
type arbitrageRequest struct {
	Query        string   `json:"query"`
	URL          string   `json:"url"`
	Pincode      string   `json:"pincode"`
	Quantity     *int     `json:"quantity"`
	ThresholdINR *float64 `json:"threshold_inr"`
}

// Arbitrage finds the cheapest platform and the platforms priced well above it
func (h *Handler) Arbitrage(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var body arbitrageRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	req := domain.ArbitrageRequest{
		Query:        body.Query,
		URL:          body.URL,
		Pincode:      body.Pincode,
		Quantity:     1,
		ThresholdINR: h.prices.ArbitrageThreshold(),
	}
	if body.Quantity != nil {
		req.Quantity = *body.Quantity
	}
	if body.ThresholdINR != nil {
		req.ThresholdINR = *body.ThresholdINR
	}

	report, err := h.prices.RunArbitrage(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[HTTP] arbitrage %q failed: %v", req.Query, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// ready writes 503 when the handler was built without a price service
func (h *Handler) ready(c *gin.Context) bool {
	if h.prices == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Price service not configured"})
		return false
	}
	return true
}

// sentence capitalizes the first letter of an error message
func sentence(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
