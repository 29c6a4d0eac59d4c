package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/service"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	carts     *service.CartService
	checkout  *service.CheckoutService
	decisions *service.DecisionService
	catalog   *service.CatalogService
	inventory *service.InventoryService
	reports   *service.ReportService
	settings  *service.SettingsService
	users     *service.UserService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	carts *service.CartService,
	checkout *service.CheckoutService,
	decisions *service.DecisionService,
	catalog *service.CatalogService,
	inventory *service.InventoryService,
	reports *service.ReportService,
	settings *service.SettingsService,
	users *service.UserService,
) *Handler {
	return &Handler{
		carts:     carts,
		checkout:  checkout,
		decisions: decisions,
		catalog:   catalog,
		inventory: inventory,
		reports:   reports,
		settings:  settings,
		users:     users,
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
		v1.POST("/users", h.upsertUser)
		v1.GET("/users/:id", h.getUser)

		v1.POST("/cart/items", h.addToCart)
		v1.GET("/cart", h.listCart)
		v1.DELETE("/cart", h.clearCart)

		v1.POST("/checkout", h.submitCheckout)

		// The pending triage queue lives on the collection route; a static
		// /payments/pending segment would collide with the :id wildcard.
		v1.GET("/payments", h.pendingPayments)
		v1.POST("/payments/:id/confirm", h.confirmPayment)
		v1.POST("/payments/:id/reject", h.rejectPayment)

		v1.GET("/listings", h.browseListings)
		v1.POST("/listings", h.createListing)
		v1.GET("/listings/:id", h.getListing)
		v1.DELETE("/listings/:id", h.deleteListing)
		v1.GET("/listings/:id/buyer", h.listingBuyer)
		v1.GET("/inventory/active", h.activeInventory)
		v1.GET("/inventory/sold", h.soldInventory)
		v1.GET("/inventory/all", h.allInventory)

		v1.GET("/cities", h.cities)
		v1.POST("/cities", h.addCity)
		v1.PUT("/cities/:id", h.renameCity)
		v1.DELETE("/cities/:id", h.deleteCity)
		v1.GET("/cities/:id/areas", h.areas)
		v1.POST("/cities/:id/areas", h.addArea)
		v1.PUT("/areas/:id", h.renameArea)
		v1.DELETE("/areas/:id", h.deleteArea)
		v1.GET("/areas/:id/count", h.areaCount)
		v1.GET("/variants", h.variants)
		v1.POST("/variants", h.addVariant)
		v1.PUT("/variants/:name", h.renameVariant)
		v1.DELETE("/variants/:name", h.deleteVariant)
		v1.GET("/variants/:name/classes", h.classes)
		v1.POST("/variants/:name/classes", h.addClass)
		v1.PUT("/variants/:name/classes/:class", h.renameClass)
		v1.DELETE("/variants/:name/classes/:class", h.deleteClass)
		v1.GET("/variants/:name/classes/:class/count", h.classCount)

		v1.GET("/reports/stats", h.stats)
		v1.GET("/reports/purchases", h.purchaseHistory)
		v1.GET("/reports/paid-users", h.paidUsers)
		v1.GET("/reports/payments", h.paymentsReport)
		v1.GET("/orders/:id", h.getOrder)

		v1.GET("/settings/:key", h.getSetting)
		v1.PUT("/settings/:key", h.setSetting)
		v1.GET("/payment-details", h.paymentDetails)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

type upsertUserRequest struct {
	ID        int64  `json:"id" binding:"required"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

func (h *Handler) upsertUser(c *gin.Context) {
	var req upsertUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.users.Upsert(c.Request.Context(), req.ID, req.Username, req.FirstName); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) getUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type addToCartRequest struct {
	UserID    int64 `json:"user_id" binding:"required"`
	ListingID int64 `json:"listing_id" binding:"required"`
}

func (h *Handler) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	added, err := h.carts.Add(c.Request.Context(), req.UserID, req.ListingID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added})
}

func (h *Handler) listCart(c *gin.Context) {
	userID, ok := queryUserID(c)
	if !ok {
		return
	}
	entries, err := h.carts.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": entries})
}

func (h *Handler) clearCart(c *gin.Context) {
	userID, ok := queryUserID(c)
	if !ok {
		return
	}
	if err := h.carts.Clear(c.Request.Context(), userID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type checkoutRequest struct {
	UserID   int64  `json:"user_id" binding:"required"`
	ProofRef string `json:"proof_ref" binding:"required"`
}

func (h *Handler) submitCheckout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.checkout.Submit(c.Request.Context(), req.UserID, req.ProofRef)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) confirmPayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	result, err := h.decisions.Confirm(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) rejectPayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	result, err := h.decisions.Reject(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) pendingPayments(c *gin.Context) {
	payments, err := h.reports.PendingPayments(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

func (h *Handler) browseListings(c *gin.Context) {
	cityID, err1 := strconv.ParseInt(c.Query("city_id"), 10, 64)
	areaID, err2 := strconv.ParseInt(c.Query("area_id"), 10, 64)
	variant := c.Query("variant")
	class := c.Query("class")
	if err1 != nil || err2 != nil || variant == "" || class == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "city_id, area_id, variant and class are required"})
		return
	}

	listings, err := h.catalog.Browse(c.Request.Context(), cityID, areaID, variant, class)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

type createListingRequest struct {
	CityID      int64  `json:"city_id" binding:"required"`
	AreaID      int64  `json:"area_id" binding:"required"`
	Variant     string `json:"variant" binding:"required"`
	Class       string `json:"class" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Price       int64  `json:"price" binding:"required,min=1"`
	ImageRef    string `json:"image_ref" binding:"required"`
}

func (h *Handler) createListing(c *gin.Context) {
	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	id, err := h.inventory.Create(c.Request.Context(), &store.NewListing{
		CityID:      req.CityID,
		AreaID:      req.AreaID,
		Variant:     req.Variant,
		Class:       req.Class,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ImageRef:    req.ImageRef,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"listing_id": id})
}

func (h *Handler) getListing(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	listing, err := h.inventory.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *Handler) deleteListing(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.inventory.SoftDelete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listingBuyer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	buyer, err := h.inventory.Buyer(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buyer)
}

func (h *Handler) activeInventory(c *gin.Context) { h.inventoryList(c, h.inventory.ListActive) }
func (h *Handler) soldInventory(c *gin.Context)   { h.inventoryList(c, h.inventory.ListSold) }
func (h *Handler) allInventory(c *gin.Context)    { h.inventoryList(c, h.inventory.ListAll) }

func (h *Handler) inventoryList(c *gin.Context, fetch func(ctx context.Context, limit int) ([]models.Listing, error)) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	listings, err := fetch(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

func (h *Handler) cities(c *gin.Context) {
	cities, err := h.catalog.Cities(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cities": cities})
}

type addCityRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) addCity(c *gin.Context) {
	var req addCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	id, err := h.catalog.AddCity(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"city_id": id})
}

func (h *Handler) areas(c *gin.Context) {
	cityID, ok := paramID(c, "id")
	if !ok {
		return
	}
	areas, err := h.catalog.Areas(c.Request.Context(), cityID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"areas": areas})
}

func (h *Handler) addArea(c *gin.Context) {
	cityID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req addCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	id, err := h.catalog.AddArea(c.Request.Context(), cityID, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"area_id": id})
}

func (h *Handler) variants(c *gin.Context) {
	variants, err := h.catalog.Variants(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"variants": variants})
}

func (h *Handler) classes(c *gin.Context) {
	classes, err := h.catalog.Classes(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"classes": classes})
}

func (h *Handler) renameCity(c *gin.Context) {
	cityID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req addCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.catalog.RenameCity(c.Request.Context(), cityID, req.Name); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteCity(c *gin.Context) {
	cityID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteCity(c.Request.Context(), cityID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) renameArea(c *gin.Context) {
	areaID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req addCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.catalog.RenameArea(c.Request.Context(), areaID, req.Name); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteArea(c *gin.Context) {
	areaID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteArea(c.Request.Context(), areaID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) areaCount(c *gin.Context) {
	areaID, ok := paramID(c, "id")
	if !ok {
		return
	}
	count, err := h.catalog.AreaCount(c.Request.Context(), areaID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

type addVariantRequest struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

func (h *Handler) addVariant(c *gin.Context) {
	var req addVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.catalog.AddVariant(c.Request.Context(), req.Name, req.SortOrder); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (h *Handler) renameVariant(c *gin.Context) {
	var req addCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.catalog.RenameVariant(c.Request.Context(), c.Param("name"), req.Name); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteVariant(c *gin.Context) {
	if err := h.catalog.DeleteVariant(c.Request.Context(), c.Param("name")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) addClass(c *gin.Context) {
	var req addVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.catalog.AddClass(c.Request.Context(), c.Param("name"), req.Name, req.SortOrder); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (h *Handler) renameClass(c *gin.Context) {
	var req addCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.catalog.RenameClass(c.Request.Context(), c.Param("name"), c.Param("class"), req.Name); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteClass(c *gin.Context) {
	if err := h.catalog.DeleteClass(c.Request.Context(), c.Param("name"), c.Param("class")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) classCount(c *gin.Context) {
	count, err := h.catalog.ClassCount(c.Request.Context(), c.Param("name"), c.Param("class"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.reports.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) purchaseHistory(c *gin.Context) {
	userID, ok := queryUserID(c)
	if !ok {
		return
	}
	records, err := h.reports.PurchaseHistory(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": records})
}

func (h *Handler) paidUsers(c *gin.Context) {
	users, err := h.reports.PaidUsers(c.Request.Context(), 50)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) paymentsReport(c *gin.Context) {
	rows, err := h.reports.PaymentsReport(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": rows})
}

func (h *Handler) getOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, items, err := h.reports.Order(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order, "items": items})
}

func (h *Handler) getSetting(c *gin.Context) {
	value, err := h.settings.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": c.Param("key"), "value": value})
}

type setSettingRequest struct {
	Value string `json:"value" binding:"required"`
}

func (h *Handler) setSetting(c *gin.Context) {
	var req setSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.settings.Set(c.Request.Context(), c.Param("key"), req.Value); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) paymentDetails(c *gin.Context) {
	details, err := h.settings.PaymentDetails(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment_details": details})
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func queryUserID(c *gin.Context) (int64, bool) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return 0, false
	}
	return userID, true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "invalid request body",
		"details": err.Error(),
	})
}

// writeError maps domain failures onto HTTP statuses. Anything outside
// the taxonomy is a retryable internal failure.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty_cart"})
	case errors.Is(err, models.ErrOutOfStock):
		c.JSON(http.StatusConflict, gin.H{"error": "out_of_stock"})
	case errors.Is(err, models.ErrAlreadyProcessed):
		c.JSON(http.StatusConflict, gin.H{"error": "already_processed"})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"details": err.Error(),
		})
	}
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
