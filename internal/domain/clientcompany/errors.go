package clientcompany

import "errors"

var (
	ErrClientCompanyNotFound = errors.New("client company not found")
	ErrClientCompanyInUse    = errors.New("client company still has equipment or work orders")
)
