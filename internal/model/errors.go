package model

import "errors"

var (
	ErrQueryEmpty   = errors.New("query is empty")
	ErrTooManyTerms = errors.New("query has too many terms")
	ErrURIEmpty     = errors.New("uri is empty")
	ErrTitleTooLong = errors.New("title is too long")
	ErrInvalidTag   = errors.New("invalid tag")
)
