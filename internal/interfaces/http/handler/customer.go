package handler

import (
	"github.com/gin-gonic/gin"
	appcustomer "github.com/hitzu/taxdown-tech-challenge/internal/application/customer"
	"github.com/hitzu/taxdown-tech-challenge/internal/domain/customer"
	"github.com/hitzu/taxdown-tech-challenge/internal/interfaces/http/router"
	"github.com/shopspring/decimal"
)

// CustomerHandler exposes the customer use cases over HTTP
type CustomerHandler struct {
	BaseHandler
	customerService *appcustomer.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *appcustomer.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
	}
}

// RegisterRoutes mounts the handler under /customers
func (h *CustomerHandler) RegisterRoutes(g *router.DomainGroup) {
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.PATCH("/:id/available-credit", h.AddAvailableCredit)
}

// Create godoc
// @ID           createCustomer
// @Summary      Create a customer
// @Description  Registers a customer. Email and phone number together must be unique among live customers.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body CreateCustomerRequest true "Customer creation request"
// @Success      201 {object} dto.Response{data=CustomerResponse}
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	created, err := h.customerService.Create(c.Request.Context(), req.toServiceRequest())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, created)
}

// GetByID godoc
// @ID           getCustomerById
// @Summary      Get a customer
// @Description  Returns a live customer by id
// @Tags         customers
// @Produce      json
// @Param        id path int true "Customer ID" minimum(1)
// @Success      200 {object} dto.Response{data=CustomerResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /customers/{id} [get]
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, err := customer.ParseCustomerID(c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	found, err := h.customerService.FindByID(c.Request.Context(), id.Value())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if found == nil {
		notFound := customer.NewNotFoundError(id)
		h.NotFound(c, notFound.Code, notFound.Message)
		return
	}

	h.Success(c, found)
}

// List godoc
// @ID           listCustomers
// @Summary      List customers
// @Description  Returns one page of live customers and the total count
// @Tags         customers
// @Produce      json
// @Param        sortBy query string false "Sort field" Enums(availableCredit, name, createdAt) default(createdAt)
// @Param        sortOrder query string false "Sort direction" Enums(asc, desc) default(asc)
// @Param        page query int false "Page number" default(1) minimum(1)
// @Param        pageSize query int false "Page size" default(10) minimum(1)
// @Success      200 {object} dto.Response{data=CustomerListResponse}
// @Failure      400 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	var query ListCustomersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	req := query.toServiceRequest()
	result, err := h.customerService.FindAll(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := req.Page, req.PageSize
	if page == 0 {
		page = appcustomer.DefaultPage
	}
	if pageSize == 0 {
		pageSize = appcustomer.DefaultPageSize
	}
	h.SuccessWithMeta(c, result, result.Total, page, pageSize)
}

// Update godoc
// @ID           updateCustomer
// @Summary      Update a customer
// @Description  Applies a partial update; only the supplied fields change
// @Tags         customers
// @Accept       json
// @Param        id path int true "Customer ID" minimum(1)
// @Param        request body UpdateCustomerRequest true "Fields to change"
// @Success      204
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	id, err := customer.ParseCustomerID(c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.customerService.Update(c.Request.Context(), id.Value(), req.toServiceRequest()); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete godoc
// @ID           deleteCustomer
// @Summary      Delete a customer
// @Description  Soft-deletes a customer; it disappears from every read
// @Tags         customers
// @Param        id path int true "Customer ID" minimum(1)
// @Success      204
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, err := customer.ParseCustomerID(c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), id.Value()); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// AddAvailableCredit godoc
// @ID           addAvailableCredit
// @Summary      Adjust available credit
// @Description  Adds a signed amount to the balance; the result may not go below zero
// @Tags         customers
// @Accept       json
// @Param        id path int true "Customer ID" minimum(1)
// @Param        request body AvailableCreditRequest true "Signed amount"
// @Success      204
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /customers/{id}/available-credit [patch]
func (h *CustomerHandler) AddAvailableCredit(c *gin.Context) {
	id, err := customer.ParseCustomerID(c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req AvailableCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	err = h.customerService.AddAvailableCredit(c.Request.Context(), appcustomer.AddAvailableCreditRequest{
		ID:     id.Value(),
		Amount: decimal.NewFromFloat(*req.AvailableCredit),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
