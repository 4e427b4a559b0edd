package domain

// MailingAddress is the structured address used for identity verification.
// A legacy single free-text address form exists in older data; it is a
// migration concern and is not modeled here.
type MailingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

// IdentityRecord is the stored caller profile, keyed by normalized phone
// number. It is maintained by an external system; this service only reads
// it and, after a successful verification, updates the Verified flag.
type IdentityRecord struct {
	PhoneNumber    string         `json:"phone_number"`
	FullName       string         `json:"full_name"`
	Email          string         `json:"email,omitempty"`
	MailingAddress MailingAddress `json:"mailing_address"`
	ClaimID        string         `json:"claim_id,omitempty"`
	Verified       bool           `json:"verified"`
}
