package http

// Request and response bodies for the auth endpoints. The wire shapes are
// part of the public contract, so they live here rather than being declared
// inline per handler.

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type userPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type authResponse struct {
	Message string      `json:"message"`
	User    userPayload `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// errorResponse carries a stable message plus, outside production, the
// underlying error detail.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
