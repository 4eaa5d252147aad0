// Package error defines domain-specific errors for the Finance Tracker application.
package error

import (
	"errors"
	"strings"
)

// Transaction domain errors.
var (
	// ErrTransactionNotFound is returned when a transaction is not found in the system.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrNotAuthorizedToModifyTransaction is returned when user is not authorized to modify a transaction.
	ErrNotAuthorizedToModifyTransaction = errors.New("not authorized to modify transaction")

	// ErrInvalidTransactionType is returned when the transaction type is invalid.
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrInvalidTransactionDate is returned when the transaction date is invalid.
	ErrInvalidTransactionDate = errors.New("invalid transaction date")

	// ErrInvalidTransactionAmount is returned when the transaction amount is invalid.
	ErrInvalidTransactionAmount = errors.New("invalid transaction amount")

	// ErrMissingCategory is returned when a transaction is submitted without a category.
	ErrMissingCategory = errors.New("category is required")

	// ErrCategoryNotFoundForTransaction is returned when the specified category is not found.
	ErrCategoryNotFoundForTransaction = errors.New("category not found")

	// ErrCategoryNotOwnedByUser is returned when the category does not belong to the user.
	ErrCategoryNotOwnedByUser = errors.New("category does not belong to user")

	// ErrCategoryTypeMismatch is returned when the category type differs from the transaction type.
	ErrCategoryTypeMismatch = errors.New("category type does not match transaction type")

	// ErrDescriptionTooLong is returned when the transaction description exceeds the maximum length.
	ErrDescriptionTooLong = errors.New("description too long")

	// ErrInvalidFilter is returned when a filter value cannot be interpreted.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrFetchFailed is returned when the transaction set could not be read.
	ErrFetchFailed = errors.New("failed to fetch transactions")

	// ErrPersistFailed is returned when a mutation could not be stored.
	ErrPersistFailed = errors.New("failed to store transaction")

	// ErrMalformedAmount marks a stored amount that is not a number.
	ErrMalformedAmount = errors.New("malformed stored amount")
)

// TransactionErrorCode defines error codes for transaction errors.
// Format: TXN-XXYYYY where XX is category and YYYY is specific error.
type TransactionErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidTransactionType   TransactionErrorCode = "TXN-010001"
	ErrCodeInvalidTransactionDate   TransactionErrorCode = "TXN-010002"
	ErrCodeInvalidTransactionAmount TransactionErrorCode = "TXN-010003"
	ErrCodeTransactionNotFound      TransactionErrorCode = "TXN-010004"
	ErrCodeNotAuthorizedTransaction TransactionErrorCode = "TXN-010005"
	ErrCodeTxnCategoryNotFound      TransactionErrorCode = "TXN-010006"
	ErrCodeTxnCategoryNotOwned      TransactionErrorCode = "TXN-010007"
	ErrCodeDescriptionTooLong       TransactionErrorCode = "TXN-010008"
	ErrCodeMissingTransactionFields TransactionErrorCode = "TXN-010010"
	ErrCodeMissingCategory          TransactionErrorCode = "TXN-010011"
	ErrCodeCategoryTypeMismatch     TransactionErrorCode = "TXN-010012"
	ErrCodeInvalidFilter            TransactionErrorCode = "TXN-010013"

	// Transport errors (02XXXX)
	ErrCodeFetchFailed   TransactionErrorCode = "TXN-020001"
	ErrCodePersistFailed TransactionErrorCode = "TXN-020002"

	// Data quality errors (03XXXX)
	ErrCodeMalformedAmount TransactionErrorCode = "TXN-030001"
)

// TransactionError represents a transaction error with code and message.
type TransactionError struct {
	Code    TransactionErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *TransactionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *TransactionError) Unwrap() error {
	return e.Err
}

// NewTransactionError creates a new TransactionError with the given code and message.
func NewTransactionError(code TransactionErrorCode, message string, err error) *TransactionError {
	return &TransactionError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsValidation reports whether err is a user input error that blocked submission.
func IsValidation(err error) bool {
	return hasCodeClass(err, "TXN-01")
}

// IsTransport reports whether err came from a failed call to the store.
func IsTransport(err error) bool {
	return hasCodeClass(err, "TXN-02")
}

func hasCodeClass(err error, prefix string) bool {
	var txnErr *TransactionError
	if errors.As(err, &txnErr) {
		return strings.HasPrefix(string(txnErr.Code), prefix)
	}
	return false
}
