package errors

import "fmt"

// PaginationErrorData carries the traversal state at the point of failure.
type PaginationErrorData struct {
	Cursor        string `json:"cursor,omitempty"`
	PagesAdmitted int    `json:"pages_admitted,omitempty"`
	PageLimit     int    `json:"page_limit,omitempty"`
}

// DuplicateCursor creates an error for a server that returned a cursor already
// seen within the same traversal. Following it again would loop forever.
func DuplicateCursor(cursor string) MCPError {
	return NewError(
		CodeDuplicateCursor,
		fmt.Sprintf("server repeated pagination cursor %q", cursor),
		CategoryProtocol,
		SeverityError,
	).WithData(&PaginationErrorData{
		Cursor: cursor,
	})
}

// PageLimitExceeded creates an error for a traversal that requested more pages
// than the configured maximum.
func PageLimitExceeded(limit int) MCPError {
	return NewError(
		CodePageLimitExceeded,
		fmt.Sprintf("pagination exceeded the maximum of %d pages", limit),
		CategoryProtocol,
		SeverityError,
	).WithData(&PaginationErrorData{
		PageLimit: limit,
	})
}

// IsDuplicateCursor reports whether err is a duplicate-cursor violation.
func IsDuplicateCursor(err error) bool {
	return IsCode(err, CodeDuplicateCursor)
}

// IsPageLimitExceeded reports whether err is a page-limit violation.
func IsPageLimitExceeded(err error) bool {
	return IsCode(err, CodePageLimitExceeded)
}

// IsProtocolViolation reports whether err was raised because the server broke
// the pagination contract, as opposed to a transport failure.
func IsProtocolViolation(err error) bool {
	return IsCategory(err, CategoryProtocol)
}
