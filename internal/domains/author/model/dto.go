package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"royalty-backend/internal/shared/utils"
)

// CreateAuthorRequest - POST /v1/authors
type CreateAuthorRequest struct {
	Name string  `json:"name"`
	Bio  *string `json:"bio,omitempty"`
}

// Normalize trims and collapses whitespace in Name.
func (req *CreateAuthorRequest) Normalize() {
	req.Name = NormalizeName(req.Name)
}

// Validate expects Normalize to have been called.
func (req CreateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Name,
			validation.Required.Error(ErrNameBlank.Error()),
			validation.RuneLength(0, MaxNameLength).Error(ErrNameTooLong.Error()),
		),
		validation.Field(&req.Bio,
			validation.RuneLength(0, MaxBioLength).Error(ErrBioTooLong.Error()),
		),
	)
}

type AuthorResponse struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Bio  *string `json:"bio,omitempty"`
}

// AuthorFilter - query parameters for listing authors
type AuthorFilter struct {
	Search string
	Page   utils.Page
}
