package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidPeriod        ErrorCode = 102
	ErrCodeInvalidThreshold     ErrorCode = 103
	ErrCodeEmptySeries          ErrorCode = 104
	ErrCodeMisalignedSeries     ErrorCode = 105
	ErrCodeInvalidSymbol        ErrorCode = 106

	// Data/provider errors (200-299)
	ErrCodeNoDataFound           ErrorCode = 200
	ErrCodeFetchFailed           ErrorCode = 201
	ErrCodeDataSourceUnavailable ErrorCode = 202
	ErrCodeQueryFailed           ErrorCode = 203
	ErrCodeParseFailed           ErrorCode = 204
	ErrCodeInvalidProvider       ErrorCode = 205

	// Export errors (300-399)
	ErrCodeExportFailed ErrorCode = 300
)
