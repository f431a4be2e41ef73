package models

// Session is the record of the current authenticated identity plus transient
// request state. Invariant: IsAuthenticated is true if and only if both Token
// and User are set. Only the session store mutates it; readers get copies.
type Session struct {
	Token           string `json:"token,omitempty"`
	User            *User  `json:"user,omitempty"`
	IsAuthenticated bool   `json:"is_authenticated"`

	// Transient, never persisted.
	Loading   bool   `json:"-"`
	LastError string `json:"-"`
}

// AuthResponse is the shape returned by POST /auth/login and
// POST /auth/phone/verify. When the password is correct but the phone is not
// yet verified, Token is empty and RequiresPhoneVerification is set; OTPPreview
// is only ever present on non-production backends and must be treated as
// optional.
type AuthResponse struct {
	Token                     string `json:"token,omitempty"`
	TokenType                 string `json:"token_type,omitempty"`
	RequiresPhoneVerification bool   `json:"requires_phone_verification,omitempty"`
	User                      *User  `json:"user,omitempty"`
	Message                   string `json:"message,omitempty"`
	OTPPreview                string `json:"otp_preview,omitempty"`
}

// Authenticated reports whether the response completes authentication.
func (r *AuthResponse) Authenticated() bool {
	return r != nil && r.Token != "" && r.User != nil
}

// Registration is the body of POST /auth/register. Organization fields are
// only meaningful for business and institution accounts.
type Registration struct {
	LastName             string `json:"nom"`
	FirstName            string `json:"prenom"`
	Email                string `json:"email"`
	Phone                string `json:"telephone"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	AccountType          string `json:"type_utilisateur"`
	OrganizationName     string `json:"nom_organisation,omitempty"`
	OrganizationType     string `json:"type_organisation,omitempty"`
}

// RegisterResponse is the shape returned by POST /auth/register. Registration
// never authenticates the caller; the returned user is not yet verified.
type RegisterResponse struct {
	Message                   string `json:"message"`
	RequiresEmailVerification bool   `json:"requires_email_verification"`
	RequiresPhoneVerification bool   `json:"requires_phone_verification"`
	User                      *User  `json:"user"`
}
