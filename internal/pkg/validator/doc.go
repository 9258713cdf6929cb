// Package validator validates request structs.
//
// Usecases depend on the Validator interface. V10Validator is backed by
// go-playground/validator v10 with English messages and reports failures as a
// snake_case field to message map.
package validator
