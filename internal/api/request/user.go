package request

// CreateUserRequest represents the request body for registering a user
type CreateUserRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName,omitempty"`
}
