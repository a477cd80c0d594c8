package service

import (
	"fmt"
	"net/http"
	"strings"
)

// Error is a failed core operation. Code is the HTTP status the boundary
// answers with; Message is surfaced to the caller verbatim. The
// "ERROR[code]: text" wire format is a transport concern and is produced
// only when the response is serialized.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string { return e.Message }

// Wire renders the transport form of the error message.
func (e *Error) Wire() string {
	return fmt.Sprintf("ERROR[%d]: %s", e.Code, e.Message)
}

func errMissingField(name string) *Error {
	return &Error{http.StatusBadRequest, fmt.Sprintf("Field(%s) not found.", name)}
}

func errNullField(name string) *Error {
	return &Error{http.StatusBadRequest, fmt.Sprintf("Field(%s) can not be null.", name)}
}

func errLengthExceeded(name string, got, max int) *Error {
	return &Error{http.StatusBadRequest, fmt.Sprintf("Field(%s) exceeds max length(%d > %d).", name, got, max)}
}

func errInvalidEnumValue(name string, valid []string) *Error {
	return &Error{http.StatusBadRequest,
		fmt.Sprintf("Invalid value for %s, valid values are %s.", name, symbolList(valid))}
}

func errUnknownUser(name, email string) *Error {
	return &Error{http.StatusBadRequest,
		fmt.Sprintf("Field(%s) can't be set, because user with specified email(%s) not exists.", name, email)}
}

func errTaskNotFound(id uint64) *Error {
	return &Error{http.StatusNotFound, fmt.Sprintf("A task(%d) not exists.", id)}
}

func errNotAuthor(id uint64) *Error {
	return &Error{http.StatusForbidden, fmt.Sprintf("You are not an author of the task(%d).", id)}
}

func errNotAuthorOrPerformer(id uint64) *Error {
	return &Error{http.StatusForbidden, fmt.Sprintf("You are not an author or a performer of the task(%d).", id)}
}

func errUnidentifiedRequester() *Error {
	return &Error{http.StatusUnauthorized, "Can't identify requester."}
}

func errFilterNull(name string) *Error {
	return &Error{http.StatusBadRequest, fmt.Sprintf("Filter(%s) can't be null.", name)}
}

func errFilterUnidentified(name string) *Error {
	return &Error{http.StatusBadRequest, fmt.Sprintf("Can't identify the filter(%s) value.", name)}
}

func errFilterNotLong(name string) *Error {
	return &Error{http.StatusBadRequest, fmt.Sprintf("Filter(%s) is not Long type.", name)}
}

func errFilterNegative(name string) *Error {
	return &Error{http.StatusBadRequest, fmt.Sprintf("Filter(%s) can't have a negative value.", name)}
}

func errFilterNotBoolean(name string) *Error {
	return &Error{http.StatusBadRequest, fmt.Sprintf("Filter(%s) is not Boolean type.", name)}
}

func errFilterNotEnum(name string, valid []string) *Error {
	return &Error{http.StatusBadRequest,
		fmt.Sprintf("Filter(%s) is not one of the expected value %s.", name, symbolList(valid))}
}

func errOffsetRequiresLimit() *Error {
	return &Error{http.StatusBadRequest, "For an offset value > 0 need to provide a limit value > 0."}
}

func errOffsetBeyondRange(skip, total int64) *Error {
	return &Error{http.StatusBadRequest,
		fmt.Sprintf("You wanted to skip %d, but after filtering there were only %d items left.", skip, total)}
}

func errNullCommentText() *Error {
	return &Error{http.StatusBadRequest, "Comment text can't be null."}
}

func errCommentTextTooLong(got, max int) *Error {
	return &Error{http.StatusBadRequest,
		fmt.Sprintf("Comment text exceeds max length(%d > %d).", got, max)}
}

// ErrMissingCredentials reports a login request without email or password.
func ErrMissingCredentials() *Error {
	return &Error{http.StatusBadRequest, "The Email and Password fields are required and cannot be null."}
}

// ErrAuthenticationFailed reports rejected login credentials.
func ErrAuthenticationFailed() *Error {
	return &Error{http.StatusForbidden, "Authentication failed."}
}

// symbolList renders enum symbols as "[A, B, C]".
func symbolList(values []string) string {
	return "[" + strings.Join(values, ", ") + "]"
}
