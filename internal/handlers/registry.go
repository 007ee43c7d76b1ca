package handlers

// AppHandlers holds every handler the router mounts.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	DonationHandler     *DonationHandler
	RequestHandler      *RequestHandler
	RatingHandler       *RatingHandler
	CertificateHandler  *CertificateHandler
	NotificationHandler *NotificationHandler
	UploadHandler       *UploadHandler
}
