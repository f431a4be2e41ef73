package models

type credentialKind int

const (
	kindNone credentialKind = iota
	kindEmail
	kindPhone
)

// LoginCredentials is a discriminated pair of identifier and password: either
// email-based or phone-based, never both and never neither. The zero value is
// invalid and rejected by the session store; use the constructors.
type LoginCredentials struct {
	kind       credentialKind
	identifier string
	password   string
}

// EmailCredentials builds credentials for an email login.
func EmailCredentials(email, password string) LoginCredentials {
	return LoginCredentials{kind: kindEmail, identifier: email, password: password}
}

// PhoneCredentials builds credentials for a phone-number login.
func PhoneCredentials(phone, password string) LoginCredentials {
	return LoginCredentials{kind: kindPhone, identifier: phone, password: password}
}

// Email returns the email identifier, if these are email credentials.
func (c LoginCredentials) Email() (string, bool) {
	return c.identifier, c.kind == kindEmail
}

// Phone returns the phone identifier, if these are phone credentials.
func (c LoginCredentials) Phone() (string, bool) {
	return c.identifier, c.kind == kindPhone
}

// Password returns the transient password. Not persisted anywhere.
func (c LoginCredentials) Password() string {
	return c.password
}

// IsZero reports whether the credentials were not built by a constructor.
func (c LoginCredentials) IsZero() bool {
	return c.kind == kindNone
}
