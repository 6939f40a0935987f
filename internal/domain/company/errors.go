package company

import "errors"

var (
	ErrCompanyNotFound  = errors.New("company not found")
	ErrCompanyNameEmpty = errors.New("company name is required")
)
