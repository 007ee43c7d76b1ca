package services

// ServiceContainer holds every service the handlers depend on.
type ServiceContainer struct {
	AuthService         AuthService
	UserService         UserService
	DonationService     DonationService
	RequestService      RequestService
	RatingService       RatingService
	CertificateService  CertificateService
	NotificationService NotificationService
	UploadService       UploadService
}
