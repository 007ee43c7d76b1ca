package handlers

import (
	"feedinneed_backend/internal/middleware"
	"feedinneed_backend/internal/models"
	"feedinneed_backend/internal/services"
	"feedinneed_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type DonationHandler struct {
	*BaseHandler
	donationService services.DonationService
}

func NewDonationHandler(base *BaseHandler, donationService services.DonationService) *DonationHandler {
	return &DonationHandler{BaseHandler: base, donationService: donationService}
}

func (h *DonationHandler) RegisterRoutes(r *gin.RouterGroup) {
	donations := r.Group("/donations")
	{
		// Browsing the public listing needs no account.
		donations.GET("", h.ListPublic)

		authed := donations.Group("", middleware.AuthMiddleware())
		{
			authed.GET("/mine", h.ListMine)
			authed.GET("/:donationId", h.Get)
			authed.POST("", middleware.RequireRoles(models.UserRoleDonor), h.Create)
			authed.PUT("/:donationId", h.Update)
			authed.DELETE("/:donationId", h.Delete)
			authed.POST("/:donationId/cancel", middleware.RequireRoles(models.UserRoleDonor), h.Cancel)
		}
	}

	admin := r.Group("/admin/donations")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireStaff())
	{
		admin.GET("/pending", h.ListPending)
		admin.POST("/:donationId/approve", h.Approve)
		admin.POST("/:donationId/reject", h.Reject)
	}
}

func (h *DonationHandler) Create(c *gin.Context) {
	donorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateDonationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	donation, err := h.donationService.Create(donorID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	message := "Donation posted, awaiting approval"
	if donation.IsApproved {
		message = "Donation posted and approved"
	}
	h.Created(c, message, donation)
}

func (h *DonationHandler) Get(c *gin.Context) {
	donation, err := h.donationService.Get(c.Param("donationId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, "", donation)
}

func (h *DonationHandler) Update(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateDonationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	donation, err := h.donationService.Update(actorID, h.GetUserRole(c), c.Param("donationId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, "Donation updated", donation)
}

func (h *DonationHandler) Delete(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.donationService.Delete(actorID, h.GetUserRole(c), c.Param("donationId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, "Donation deleted", nil)
}

func (h *DonationHandler) Cancel(c *gin.Context) {
	donorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.donationService.Cancel(donorID, c.Param("donationId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, "Donation cancelled", nil)
}

func (h *DonationHandler) ListPublic(c *gin.Context) {
	var query dto.DonationListQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	resp, err := h.donationService.ListPublic(&query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, "", resp)
}

func (h *DonationHandler) ListMine(c *gin.Context) {
	donorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	page, pageSize := h.ParsePagination(c)

	resp, err := h.donationService.ListByDonor(donorID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, "", resp)
}

func (h *DonationHandler) ListPending(c *gin.Context) {
	page, pageSize := h.ParsePagination(c)

	resp, err := h.donationService.ListPendingApproval(page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, "", resp)
}

func (h *DonationHandler) Approve(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.donationService.Approve(adminID, c.Param("donationId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, "Donation approved", nil)
}

func (h *DonationHandler) Reject(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RejectDonationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.donationService.Reject(adminID, c.Param("donationId"), req.Reason); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, "Donation rejected", nil)
}
