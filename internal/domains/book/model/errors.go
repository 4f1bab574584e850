package model

import "errors"

var (
	ErrBookNotFound    = errors.New("book not found")
	ErrDuplicateISBN13 = errors.New("book with this ISBN-13 already exists")
)

// Field-scoped validation messages.
const (
	MsgTitleRequired           = "Title is required."
	MsgTitleTooLong            = "Title must be at most 255 characters."
	MsgPublicationDateRequired = "Publication date is required."
	MsgPublicationDateInvalid  = "Publication date must be a valid date (YYYY-MM-DD)."
	MsgISBN13Required          = "ISBN-13 is required."
	MsgISBN13Digits            = "ISBN-13 must contain only digits."
	MsgISBN13Length            = "ISBN-13 must be exactly 13 digits."
	MsgISBN10Length            = "ISBN-10 must be exactly 10 characters."
	MsgISBN10Format            = "ISBN-10 must be 9 digits followed by a digit or X."
	MsgISBN13Taken             = "A book with this ISBN-13 already exists."
	MsgAuthorsRequired         = "At least one author is required."
)
