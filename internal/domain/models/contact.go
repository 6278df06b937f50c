package models

// ContactPayload is a visitor's message as captured at submission time.
// Once embedded into a Challenge it is never updated, so the payload that
// gets forwarded is exactly the one that was validated.
type ContactPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}
