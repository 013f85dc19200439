package domain

// User is the mock-auth identity record. There is no credential
// verification; a login simply mints a record from name and email.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// Preferences are the per-user generation defaults. A missing
// preferences record means "use defaults", not an error.
type Preferences struct {
	DefaultPlatform string `json:"defaultPlatform"`
	DefaultTone     string `json:"defaultTone"`
}
