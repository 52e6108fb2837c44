// Package errors provides structured error handling for the retrieval service.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (corpus files, index storage)
//   - 3XX: Network errors (embedding provider, store transport)
//   - 4XX: Validation errors (bad requests)
//   - 5XX: Dependency errors (store or pathway unavailable)
//   - 6XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates corpus and index I/O errors.
	CategoryIO Category = "IO"
	// CategoryNetwork indicates network-related errors.
	CategoryNetwork Category = "NETWORK"
	// CategoryValidation indicates request validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryDependency indicates an unavailable external dependency.
	CategoryDependency Category = "DEPENDENCY"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but process can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// IO errors (200-299)
	ErrCodeCorpusNotFound = "ERR_201_CORPUS_NOT_FOUND"
	ErrCodeCorpusParse    = "ERR_202_CORPUS_PARSE"
	ErrCodeIndexStorage   = "ERR_203_INDEX_STORAGE"

	// Network errors (300-399)
	ErrCodeNetworkTimeout     = "ERR_301_NETWORK_TIMEOUT"
	ErrCodeNetworkUnavailable = "ERR_302_NETWORK_UNAVAILABLE"

	// Validation errors (400-499)
	ErrCodeQueryEmpty      = "ERR_401_QUERY_EMPTY"
	ErrCodeInvalidLanguage = "ERR_402_INVALID_LANGUAGE"
	ErrCodeInvalidChunking = "ERR_403_INVALID_CHUNKING"
	ErrCodeInvalidInput    = "ERR_404_INVALID_INPUT"

	// Dependency errors (500-599)
	ErrCodeStoreUnavailable = "ERR_501_STORE_UNAVAILABLE"
	ErrCodeDenseUnavailable = "ERR_502_DENSE_UNAVAILABLE"

	// Internal errors (600-699)
	ErrCodeInternal        = "ERR_601_INTERNAL"
	ErrCodeSearchFailed    = "ERR_602_SEARCH_FAILED"
	ErrCodeIndexFailed     = "ERR_603_INDEX_FAILED"
	ErrCodeEmbeddingFailed = "ERR_604_EMBEDDING_FAILED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '3':
		return CategoryNetwork
	case '4':
		return CategoryValidation
	case '5':
		return CategoryDependency
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	if code == ErrCodeIndexStorage {
		return SeverityFatal
	}
	if isRetryableCode(code) {
		return SeverityWarning
	}
	return SeverityError
}

// isRetryableCode checks if an error code represents a retryable error.
func isRetryableCode(code string) bool {
	switch code {
	case ErrCodeNetworkTimeout, ErrCodeNetworkUnavailable:
		return true
	default:
		return false
	}
}
