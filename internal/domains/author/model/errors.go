package model

import "errors"

var (
	ErrAuthorNotFound = errors.New("author not found")
	ErrDuplicateName  = errors.New("author with this name already exists")
	ErrNameBlank      = errors.New("Name cannot be blank.")
	ErrNameTooLong    = errors.New("Name must be at most 255 characters.")
	ErrBioTooLong     = errors.New("Bio must be at most 5000 characters.")
)
