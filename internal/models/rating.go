package models

type Rating struct {
	BaseModel
	RequestID  string `gorm:"not null;index;uniqueIndex:idx_request_rater_direction" json:"request_id"`
	DonationID string `gorm:"not null;index" json:"donation_id"`

	RatedUserID string     `gorm:"not null;index" json:"rated_user_id"`
	RatedByID   string     `gorm:"not null;uniqueIndex:idx_request_rater_direction" json:"rated_by_id"`
	RatingType  RatingType `gorm:"type:varchar(30);not null;uniqueIndex:idx_request_rater_direction" json:"rating_type"`

	Rating   int    `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Feedback string `json:"feedback"`

	// Relations
	Request   Request `gorm:"foreignKey:RequestID" json:"-"`
	RatedUser User    `gorm:"foreignKey:RatedUserID" json:"rated_user,omitempty"`
	RatedBy   User    `gorm:"foreignKey:RatedByID" json:"rated_by,omitempty"`
}
