package models

// LoginRequest carries the shared admin password. There is no user registry;
// the dashboard is a single-operator surface and Firebase sessions are the
// primary path anyway.
type LoginRequest struct {
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Password == "" {
		errors["password"] = "Password is required"
	}

	return errors
}

type AuthResponse struct {
	Token string `json:"token"`
}
