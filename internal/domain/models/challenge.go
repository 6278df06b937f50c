package models

import (
	"time"
)

// Challenge is a single-use emailed passcode bound to the address it was
// sent to and to the payload captured when it was issued. At most one
// challenge exists in storage at any time.
type Challenge struct {
	ID         string
	Code       string
	BoundEmail string
	Payload    ContactPayload
	ExpiresAt  time.Time
}
