package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	authormodel "royalty-backend/internal/domains/author/model"
	"royalty-backend/internal/shared/utils"
)

const (
	MaxTitleLength = 255
	// RateScale matches NUMERIC(5,4).
	RateScale = 4
)

var (
	digitsRe = regexp.MustCompile(`^\d+$`)
	isbn10Re = regexp.MustCompile(`^\d{9}[\dXx]$`)
)

// NormalizeISBN13 strips separators and validates the 13-digit form.
func NormalizeISBN13(raw string) (string, error) {
	v := utils.StripSeparators(raw)
	err := validation.Validate(v,
		validation.Required.Error(MsgISBN13Required),
		validation.Match(digitsRe).Error(MsgISBN13Digits),
		validation.RuneLength(13, 13).Error(MsgISBN13Length),
	)
	return v, err
}

// NormalizeISBN10 strips separators, validates and upper-cases a trailing x.
// Blank input means "no ISBN-10" and yields nil.
func NormalizeISBN10(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	v := utils.StripSeparators(*raw)
	if v == "" {
		return nil, nil
	}
	if err := validation.Validate(v,
		validation.RuneLength(10, 10).Error(MsgISBN10Length),
		validation.Match(isbn10Re).Error(MsgISBN10Format),
	); err != nil {
		return nil, err
	}
	v = strings.ToUpper(v)
	return &v, nil
}

func normalizeTitle(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	return v, validation.Validate(v,
		validation.Required.Error(MsgTitleRequired),
		validation.RuneLength(0, MaxTitleLength).Error(MsgTitleTooLong),
	)
}

func parsePublicationDate(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, errors.New(MsgPublicationDateRequired)
	}
	t, err := utils.ParseDate(raw)
	if err != nil {
		return time.Time{}, errors.New(MsgPublicationDateInvalid)
	}
	return t, nil
}

// ToBook validates the scalar fields of a create request. Field errors are
// keyed by request field name.
func (req CreateBookRequest) ToBook() (*Book, validation.Errors) {
	errs := validation.Errors{}
	b := &Book{}

	b.Title, errs["title"] = normalizeTitle(req.Title)
	b.PublicationDate, errs["publication_date"] = parsePublicationDate(req.PublicationDate)
	b.ISBN13, errs["isbn_13"] = NormalizeISBN13(req.ISBN13)
	b.ISBN10, errs["isbn_10"] = NormalizeISBN10(req.ISBN10)

	return b, errs
}

// ApplyTo validates the present fields of a partial update and copies them
// onto b.
func (req UpdateBookRequest) ApplyTo(b *Book) validation.Errors {
	errs := validation.Errors{}

	if req.Title != nil {
		b.Title, errs["title"] = normalizeTitle(*req.Title)
	}
	if req.PublicationDate != nil {
		b.PublicationDate, errs["publication_date"] = parsePublicationDate(*req.PublicationDate)
	}
	if req.ISBN13 != nil {
		b.ISBN13, errs["isbn_13"] = NormalizeISBN13(*req.ISBN13)
	}
	if req.ISBN10 != nil {
		b.ISBN10, errs["isbn_10"] = NormalizeISBN10(req.ISBN10)
	}

	return errs
}

// ValidateContracts checks a full replacement contract list before anything
// is written. known maps the ids of existing authors referenced by id to
// their names; an id missing from known is reported. Authors are named in
// messages, never identified by list position.
func ValidateContracts(entries []ContractInput, known map[int64]string) error {
	if len(entries) == 0 {
		return errors.New(MsgAuthorsRequired)
	}

	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		var label, key string
		if e.AuthorID != nil {
			name, ok := known[*e.AuthorID]
			if !ok {
				return fmt.Errorf("Author with id %d does not exist.", *e.AuthorID)
			}
			label, key = name, utils.FoldName(name)
		} else {
			name := authormodel.NormalizeName(e.Name)
			if name == "" {
				return authormodel.ErrNameBlank
			}
			label, key = name, utils.FoldName(name)
		}

		if err := validateRate(label, e.RoyaltyRate); err != nil {
			return err
		}

		if seen[key] {
			return fmt.Errorf("Author %s is added more than once.", label)
		}
		seen[key] = true
	}
	return nil
}

func validateRate(author string, rate *decimal.Decimal) error {
	switch {
	case rate == nil:
		return fmt.Errorf("Royalty rate for author %s is required.", author)
	case rate.IsNegative():
		return fmt.Errorf("Royalty rate for author %s cannot be negative.", author)
	case rate.GreaterThan(decimal.NewFromInt(1)):
		return fmt.Errorf("Royalty rate for author %s must be less than or equal to 1 (decimal percentage).", author)
	case !rate.Equal(rate.Round(RateScale)):
		return fmt.Errorf("Royalty rate for author %s must calculate to a valid percentage (e.g. 0.15).", author)
	}
	return nil
}

// ReferencedAuthorIDs lists the author ids named by entries.
func ReferencedAuthorIDs(entries []ContractInput) []int64 {
	var ids []int64
	for _, e := range entries {
		if e.AuthorID != nil {
			ids = append(ids, *e.AuthorID)
		}
	}
	return ids
}
