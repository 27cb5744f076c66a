package dto

type CreateCampaignDTO struct {
	Budget float64 `json:"budget" validate:"required,gt=0"`
}
