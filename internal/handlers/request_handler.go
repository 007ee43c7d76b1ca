package handlers

import (
	"feedinneed_backend/internal/middleware"
	"feedinneed_backend/internal/models"
	"feedinneed_backend/internal/services"
	"feedinneed_backend/internal/services/dto"
	"feedinneed_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	*BaseHandler
	requestService services.RequestService
}

func NewRequestHandler(base *BaseHandler, requestService services.RequestService) *RequestHandler {
	return &RequestHandler{BaseHandler: base, requestService: requestService}
}

func (h *RequestHandler) RegisterRoutes(r *gin.RouterGroup) {
	requests := r.Group("/requests")
	requests.Use(middleware.AuthMiddleware())
	{
		requests.POST("", middleware.RequireRoles(models.UserRoleReceiver), h.Create)
		requests.GET("/mine", h.ListMine)
		requests.GET("/incoming", middleware.RequireRoles(models.UserRoleDonor), h.ListIncoming)
		requests.GET("/:requestId", h.Get)
		requests.POST("/:requestId/cancel", h.Cancel)
		requests.POST("/:requestId/complete", h.Complete)
		// Code-only and QR confirmation without knowing the request id.
		requests.POST("/complete", h.CompleteWithoutID)
	}

	admin := r.Group("/admin/requests")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireStaff())
	{
		admin.GET("/pending", h.ListPending)
		admin.POST("/:requestId/approve", h.Approve)
		admin.POST("/:requestId/reject", h.Reject)
	}
}

func (h *RequestHandler) Create(c *gin.Context) {
	receiverID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateRequestRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	request, err := h.requestService.Create(receiverID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	message := "Request submitted, awaiting approval"
	if request.Status == models.RequestStatusApproved {
		message = "Request approved automatically"
	}
	h.Created(c, message, request)
}

func (h *RequestHandler) Get(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	request, err := h.requestService.Get(actorID, h.GetUserRole(c), c.Param("requestId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, "", request)
}

func (h *RequestHandler) Cancel(c *gin.Context) {
	receiverID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.requestService.Cancel(receiverID, c.Param("requestId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, "Request cancelled", nil)
}

// Complete confirms the pickup for a known request id using the explicit
// confirmation code.
func (h *RequestHandler) Complete(c *gin.Context) {
	receiverID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CompleteRequestRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	if req.ConfirmationCode == "" {
		h.HandleServiceError(c, apperrors.NewBadRequestError("confirmation_code is required"))
		return
	}

	request, err := h.requestService.CompleteWithCode(receiverID, c.Param("requestId"), req.ConfirmationCode)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, "Pickup confirmed", request)
}

// CompleteWithoutID serves the two lookup-based confirmations: a scanned QR
// payload, or a bare code matched across the caller's approved requests.
func (h *RequestHandler) CompleteWithoutID(c *gin.Context) {
	receiverID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CompleteRequestRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	var (
		request *models.Request
		err     error
	)
	switch {
	case req.QRData != "":
		request, err = h.requestService.CompleteWithQR(receiverID, req.QRData)
	case req.ConfirmationCode != "":
		request, err = h.requestService.CompleteWithCodeOnly(receiverID, req.ConfirmationCode)
	default:
		err = apperrors.NewBadRequestError("Provide qr_data or confirmation_code")
	}
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, "Pickup confirmed", request)
}

func (h *RequestHandler) ListMine(c *gin.Context) {
	receiverID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	page, pageSize := h.ParsePagination(c)

	resp, err := h.requestService.ListByReceiver(receiverID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, "", resp)
}

func (h *RequestHandler) ListIncoming(c *gin.Context) {
	donorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	page, pageSize := h.ParsePagination(c)

	resp, err := h.requestService.ListForDonor(donorID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, "", resp)
}

func (h *RequestHandler) ListPending(c *gin.Context) {
	page, pageSize := h.ParsePagination(c)

	resp, err := h.requestService.ListPending(page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, "", resp)
}

func (h *RequestHandler) Approve(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	request, err := h.requestService.Approve(adminID, c.Param("requestId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, "Request approved", request)
}

func (h *RequestHandler) Reject(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RejectRequestRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.requestService.Reject(adminID, c.Param("requestId"), req.Reason); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, "Request rejected", nil)
}
