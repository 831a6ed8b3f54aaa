package services

import "net/http"

type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindConflict
	KindInvalid
)

// Error is a user-visible failure carrying the status code handlers answer with.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var (
	ErrContentNotFound    = &Error{Kind: KindNotFound, Code: "CONTENT_NOT_FOUND", Message: "content not found"}
	ErrFieldNotFound      = &Error{Kind: KindNotFound, Code: "FIELD_NOT_FOUND", Message: "field not found"}
	ErrCollectionNotFound = &Error{Kind: KindNotFound, Code: "COLLECTION_NOT_FOUND", Message: "collection not found"}
	ErrFieldExists        = &Error{Kind: KindConflict, Code: "FIELD_EXISTS", Message: "field already exists"}
	ErrDuplicateField     = &Error{Kind: KindConflict, Code: "DUPLICATE_FIELD", Message: "duplicate field"}
	ErrContentExists      = &Error{Kind: KindConflict, Code: "CONTENT_EXISTS", Message: "content already exists"}
	ErrNoContentTypes     = &Error{Kind: KindInvalid, Code: "NO_CONTENT_TYPES", Message: "document defines no object schemas"}
)
