package controllers

import (
	"net/http"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/models"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/services"
	"github.com/gin-gonic/gin"
)

const customerNotFound = "Customer not found"

type CustomerController struct {
	service   services.CustomerService
	validator *RequestValidator
}

func NewCustomerController(service services.CustomerService, validator *RequestValidator) *CustomerController {
	return &CustomerController{service: service, validator: validator}
}

func (cc *CustomerController) ListCustomers(c *gin.Context) {
	offset, limit, svcErr := cc.validator.ParsePagination(c)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	customers, page, svcErr := cc.service.ListCustomers(c.Request.Context(), offset, limit)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers, "pagination": page})
}

func (cc *CustomerController) GetCustomer(c *gin.Context) {
	id, ok := parseID(c, customerNotFound)
	if !ok {
		return
	}
	customer, svcErr := cc.service.GetCustomer(c.Request.Context(), id)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	var req models.CreateCustomerRequest
	if svcErr := cc.validator.BindJSON(c, &req); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	customer, svcErr := cc.service.CreateCustomer(c.Request.Context(), &req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	respondAction(c, http.StatusCreated, customer.ID, actionCreated)
}

func (cc *CustomerController) UpdateCustomer(c *gin.Context) {
	id, ok := parseID(c, customerNotFound)
	if !ok {
		return
	}
	var req models.UpdateCustomerRequest
	if svcErr := cc.validator.BindJSON(c, &req); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	customer, svcErr := cc.service.UpdateCustomer(c.Request.Context(), id, &req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	respondAction(c, http.StatusOK, customer.ID, actionUpdated)
}

func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	id, ok := parseID(c, customerNotFound)
	if !ok {
		return
	}
	if svcErr := cc.service.DeleteCustomer(c.Request.Context(), id); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	respondAction(c, http.StatusOK, id, actionDeleted)
}
