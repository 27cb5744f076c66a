package dto

import "time"

type CreateReviewDTO struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type ReviewDTO struct {
	ID               uint      `json:"id"`
	UserName         string    `json:"user_name"`
	Rating           int       `json:"rating"`
	Comment          string    `json:"comment"`
	VerifiedPurchase bool      `json:"verified_purchase"`
	CreatedAt        time.Time `json:"created_at"`
}
