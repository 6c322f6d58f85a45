package gatewaysdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/tenantgate/pkg/httpx"
)

// APIError is the error envelope written by the gateway:
//
//	{"success": false, "message": "..."}
//
// Server handlers write it with WriteError; the Client decodes non-2xx
// responses into it.
type APIError struct {
	StatusCode int    `json:"-"`
	Success    bool   `json:"success"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway: %d %s", e.StatusCode, e.Message)
}

// Is matches on status code so callers can compare against the predefined
// errors regardless of message wording.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.StatusCode == e.StatusCode
}

// WriteError writes e as a JSON response.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(APIError{Message: e.Message})
}

// NewAPIError creates an error with a custom message.
func NewAPIError(status int, message string) *APIError {
	return &APIError{StatusCode: status, Message: message}
}

var (
	// ErrMissingCredentials is returned when login omits username or password.
	ErrMissingCredentials = NewAPIError(http.StatusBadRequest, "Username and password are required")

	// ErrInvalidBody is returned when a request body cannot be parsed.
	ErrInvalidBody = NewAPIError(http.StatusBadRequest, "Invalid request body")

	// ErrInvalidCredentials is returned for a failed login. The message is
	// the same for unknown users and wrong passwords.
	ErrInvalidCredentials = NewAPIError(http.StatusUnauthorized, "Invalid username or password")

	// ErrUnauthorized is returned when a protected operation has no valid token.
	ErrUnauthorized = NewAPIError(http.StatusUnauthorized, "Unauthorized access")

	// ErrForbidden is returned when the caller is authenticated but not allowed.
	ErrForbidden = NewAPIError(http.StatusForbidden, "Forbidden")

	// ErrTenantNotFound is returned when the caller's tenant has no partition.
	ErrTenantNotFound = NewAPIError(http.StatusNotFound, "Tenant not found")

	// ErrServerError hides internal failures from the caller.
	ErrServerError = NewAPIError(http.StatusInternalServerError, "Internal server error")
)

// parseErrorResponse turns a non-2xx response into an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var e APIError
	if err := json.Unmarshal(body, &e); err != nil || e.Message == "" {
		e.Message = http.StatusText(resp.StatusCode)
	}
	e.StatusCode = resp.StatusCode
	e.Success = false
	return &e
}
