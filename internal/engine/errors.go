package engine

import "errors"

// Encoding-layer sentinels. Wrapped into the errors returned while filling
// the byte buffer (reader.go) so a caller can distinguish them with
// errors.Is instead of matching on message text.
var (
	ErrInvalidEncoding  = errors.New("invalid encoding")
	ErrNulInStream      = errors.New("embedded NUL byte in input stream")
	ErrPartialUTF8AtEOF = errors.New("incomplete multi-byte character at end of stream")
)

// Scan-layer sentinels, wrapped into the errors raised while tokenizing
// (scanner.go).
var (
	ErrUnexpectedIndent   = errors.New("unexpected indentation")
	ErrTabInIndent        = errors.New("tab character used for indentation")
	ErrUnterminatedString = errors.New("unterminated quoted string")
	ErrInvalidEscape      = errors.New("invalid escape sequence")
	ErrBadDirective       = errors.New("malformed directive")
	ErrUnmatchedFlow      = errors.New("unmatched flow collection indicator")
	ErrBadBlockIndicator  = errors.New("misplaced block indicator")
)

// Parse-layer sentinels, wrapped into the errors raised while building
// events from the token stream (state_machine.go).
var (
	ErrUnexpectedToken       = errors.New("unexpected token")
	ErrDuplicateKey          = errors.New("duplicate mapping key")
	ErrTagUndefined          = errors.New("undefined tag handle")
	ErrVersionUnsupported    = errors.New("unsupported YAML version")
	ErrDirectiveAfterContent = errors.New("directive not followed by document start")
)
