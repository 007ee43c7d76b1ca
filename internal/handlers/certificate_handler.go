package handlers

import (
	"feedinneed_backend/internal/middleware"
	"feedinneed_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type CertificateHandler struct {
	*BaseHandler
	certificateService services.CertificateService
}

func NewCertificateHandler(base *BaseHandler, certificateService services.CertificateService) *CertificateHandler {
	return &CertificateHandler{BaseHandler: base, certificateService: certificateService}
}

func (h *CertificateHandler) RegisterRoutes(r *gin.RouterGroup) {
	certificates := r.Group("/certificates")
	{
		// Public authenticity check, no token needed.
		certificates.GET("/verify/:number", h.Verify)

		authed := certificates.Group("")
		authed.Use(middleware.AuthMiddleware())
		{
			authed.GET("/mine", h.ListMine)
			authed.GET("/:certificateId", h.Get)
		}
	}
}

func (h *CertificateHandler) Get(c *gin.Context) {
	certificate, err := h.certificateService.Get(c.Param("certificateId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, "", certificate)
}

func (h *CertificateHandler) Verify(c *gin.Context) {
	certificate, err := h.certificateService.VerifyByNumber(c.Param("number"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, "Certificate is authentic", certificate)
}

func (h *CertificateHandler) ListMine(c *gin.Context) {
	donorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	page, pageSize := h.ParsePagination(c)

	resp, err := h.certificateService.ListByDonor(donorID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, "", resp)
}
