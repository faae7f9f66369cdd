package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"printfarm-service/internal/models"
	"printfarm-service/internal/service"
	"printfarm-service/internal/store"
	"printfarm-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	catalog    *service.CatalogService
	production *service.ProductionService
	inventory  *service.InventoryService
	orders     *service.OrderService
	importer   *service.ImportService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalog *service.CatalogService,
	production *service.ProductionService,
	inventory *service.InventoryService,
	orders *service.OrderService,
	importer *service.ImportService,
) *Handler {
	return &Handler{
		catalog:    catalog,
		production: production,
		inventory:  inventory,
		orders:     orders,
		importer:   importer,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/filaments", h.listFilaments)
		v1.POST("/filaments", h.createFilament)
		v1.PUT("/filaments/:id", h.updateFilament)
		v1.DELETE("/filaments/:id", h.deleteFilament)
		v1.POST("/filaments/:id/purchase", h.purchaseFilament)

		v1.GET("/printers", h.listPrinters)
		v1.POST("/printers", h.createPrinter)
		v1.PUT("/printers/:id", h.updatePrinter)
		v1.DELETE("/printers/:id", h.deletePrinter)

		v1.GET("/products", h.listProducts)
		v1.POST("/products", h.createProduct)
		v1.PUT("/products/:id", h.updateProduct)
		v1.DELETE("/products/:id", h.deleteProduct)
		v1.GET("/products/:id/stock", h.productStock)

		v1.GET("/expenses", h.listExpenses)
		v1.POST("/expenses", h.createExpense)
		v1.PUT("/expenses/:id", h.updateExpense)
		v1.DELETE("/expenses/:id", h.deleteExpense)

		v1.GET("/marketplaces", h.listMarketplaces)
		v1.POST("/marketplaces", h.createMarketplace)
		v1.PUT("/marketplaces/:id", h.updateMarketplace)
		v1.DELETE("/marketplaces/:id", h.deleteMarketplace)

		v1.GET("/prints", h.listPrints)
		v1.GET("/prints/:id", h.getPrint)
		v1.POST("/prints", h.registerProduction)
		v1.DELETE("/prints/:id", h.deletePrint)

		v1.POST("/quotes", h.quote)

		v1.GET("/orders", h.listOrders)
		v1.GET("/orders/:id", h.getOrder)
		v1.POST("/orders", h.createOrder)
		v1.PUT("/orders/:id", h.updateOrder)
		v1.DELETE("/orders/:id", h.deleteOrder)
		v1.POST("/orders/:id/preview-shipment", h.previewShipment)
		v1.POST("/orders/:id/ship", h.shipOrder)

		v1.POST("/imports/orders", h.importOrders)

		v1.GET("/config", h.getConfig)
		v1.PUT("/config", h.saveConfig)

		v1.GET("/stock/alerts", h.stockAlerts)
	}
}

// userID resolves the acting user from the X-User-ID header
func userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.GetHeader("X-User-ID"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid X-User-ID header"})
		return 0, false
	}
	return id, true
}

// pathID parses the :id path parameter
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

// respondErr maps service and store error classes to HTTP statuses
func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, store.ErrReferenced):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Cannot delete: record is used by existing orders or production batches",
		})
	case errors.Is(err, service.ErrAlreadyShipped):
		c.JSON(http.StatusConflict, gin.H{"error": "Order is already shipped"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error", "details": err.Error()})
	}
}

func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "time": time.Now().Unix()})
}

func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready", "time": time.Now().Unix()})
}

// --- filaments ---

func (h *Handler) listFilaments(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	filaments, err := h.catalog.ListFilaments(c.Request.Context(), uid)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, filaments)
}

func (h *Handler) createFilament(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var f models.Filament
	if err := c.ShouldBindJSON(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	f.UserID = uid
	if err := h.catalog.CreateFilament(c.Request.Context(), &f); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

func (h *Handler) updateFilament(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var f models.Filament
	if err := c.ShouldBindJSON(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	f.ID = id
	if err := h.catalog.UpdateFilament(c.Request.Context(), &f); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *Handler) deleteFilament(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteFilament(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) purchaseFilament(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Rolls int `json:"rolls" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	filament, err := h.inventory.RecordFilamentPurchase(c.Request.Context(), id, req.Rolls)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, filament)
}

// --- printers ---

func (h *Handler) listPrinters(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	printers, err := h.catalog.ListPrinters(c.Request.Context(), uid)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, printers)
}

func (h *Handler) createPrinter(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var p models.Printer
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	p.UserID = uid
	if err := h.catalog.CreatePrinter(c.Request.Context(), &p); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) updatePrinter(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var p models.Printer
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	p.ID = id
	if err := h.catalog.UpdatePrinter(c.Request.Context(), &p); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) deletePrinter(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.catalog.DeletePrinter(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- products ---

func (h *Handler) listProducts(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	products, err := h.catalog.ListProducts(c.Request.Context(), uid)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) createProduct(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	p.UserID = uid
	if err := h.catalog.CreateProduct(c.Request.Context(), &p); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) updateProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	p.ID = id
	if err := h.catalog.UpdateProduct(c.Request.Context(), &p); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) productStock(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	qty, err := h.inventory.GetProductStock(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product_id": id, "stock_quantity": qty})
}

// --- expenses ---

func (h *Handler) listExpenses(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	expenses, err := h.catalog.ListExpenses(c.Request.Context(), uid)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}

func (h *Handler) createExpense(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var e models.Expense
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	e.UserID = uid
	if err := h.catalog.CreateExpense(c.Request.Context(), &e); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *Handler) updateExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var e models.Expense
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	e.ID = id
	if err := h.catalog.UpdateExpense(c.Request.Context(), &e); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) deleteExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteExpense(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- marketplaces ---

func (h *Handler) listMarketplaces(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	marketplaces, err := h.catalog.ListMarketplaces(c.Request.Context(), uid)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, marketplaces)
}

func (h *Handler) createMarketplace(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var m models.Marketplace
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	m.UserID = uid
	if err := h.catalog.CreateMarketplace(c.Request.Context(), &m); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *Handler) updateMarketplace(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var m models.Marketplace
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	m.ID = id
	if err := h.catalog.UpdateMarketplace(c.Request.Context(), &m); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) deleteMarketplace(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteMarketplace(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- production ---

func (h *Handler) listPrints(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	prints, err := h.production.ListPrints(c.Request.Context(), uid)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, prints)
}

func (h *Handler) getPrint(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	print, filaments, expenses, err := h.production.GetPrint(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"print":     print,
		"filaments": filaments,
		"expenses":  expenses,
	})
}

func (h *Handler) registerProduction(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req service.RegisterProductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	req.UserID = uid
	resp, err := h.production.RegisterProduction(c.Request.Context(), &req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) deletePrint(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.production.DeletePrint(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) quote(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req service.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	req.UserID = uid
	resp, err := h.production.Quote(c.Request.Context(), &req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// --- orders ---

func (h *Handler) listOrders(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	orders, err := h.orders.ListOrders(c.Request.Context(), uid)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) getOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	order, items, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order, "items": items})
}

func (h *Handler) createOrder(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	req.UserID = uid
	resp, err := h.orders.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) updateOrder(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	req.UserID = uid
	resp, err := h.orders.UpdateOrder(c.Request.Context(), id, &req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) deleteOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.orders.DeleteOrder(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) previewShipment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	preview, err := h.orders.PreviewShipment(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

func (h *Handler) shipOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.orders.ShipOrder(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": id, "status": models.OrderStatusShipped})
}

// --- import ---

func (h *Handler) importOrders(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req struct {
		MarketplaceID int64                  `json:"marketplace_id" binding:"required"`
		Orders        []models.ExternalOrder `json:"orders" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	result, err := h.importer.ReconcileBatch(c.Request.Context(), uid, req.MarketplaceID, req.Orders)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// --- config ---

func (h *Handler) getConfig(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	cfg, err := h.catalog.GetConfig(c.Request.Context(), uid)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *Handler) saveConfig(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var cfg models.UserConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	cfg.UserID = uid
	if err := h.catalog.SaveConfig(c.Request.Context(), &cfg); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// --- stock ---

func (h *Handler) stockAlerts(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	filaments, err := h.inventory.LowStockFilaments(c.Request.Context(), uid)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, filaments)
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
