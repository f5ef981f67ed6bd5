// Package errors provides classified error primitives used across nortreport.
//
// A ClassifiedError carries a category (config, filesystem, render, ...), a severity and
// structured context. The CLI adapter maps categories to process exit codes.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryConfig, "links document unreadable").
//		Fatal().
//		WithContext("path", path).
//		Build()
package errors
