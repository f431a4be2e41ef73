// Package models defines the wire and state types shared by the portal API
// client and the session store. Field names follow the backend's JSON
// contract, which uses French identifiers (nom, prenom, telephone, ...).
package models

// User is the portal account as returned by the API. The session replaces it
// wholesale on every successful login or verification response; it is never
// partially mutated.
type User struct {
	ID            string         `json:"id"`
	LastName      string         `json:"nom"`
	FirstName     string         `json:"prenom"`
	Email         string         `json:"email"`
	Phone         string         `json:"telephone"`
	EmailVerified bool           `json:"email_verified"`
	PhoneVerified bool           `json:"telephone_verified"`
	AccountType   string         `json:"type_utilisateur,omitempty"`
	Profile       map[string]any `json:"profil,omitempty"`
}

// Account types accepted by the registration endpoint.
const (
	AccountIndividual  = "individual"
	AccountBusiness    = "business"
	AccountInstitution = "institution"
)

// Clone returns a deep copy, so session snapshots cannot alias store state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Profile != nil {
		c.Profile = make(map[string]any, len(u.Profile))
		for k, v := range u.Profile {
			c.Profile[k] = v
		}
	}
	return &c
}
