package notes

import "time"

// Note is the persisted shape of a note: the ciphertext envelope plus
// metadata. Body content only ever exists in plaintext inside a request
// pipeline; storage sees these fields and nothing else. Tags are plaintext
// metadata so listing can filter on them.
type Note struct {
	ID         string
	UserID     string
	Nonce      []byte
	Ciphertext []byte
	Tag        []byte
	Tags       []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PlainNote is the decrypted view handed back to the transport layer.
type PlainNote struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Owner carries the authenticated caller's identity and derived key into
// note operations. It is built from the request principal only, never from
// request payload fields.
type Owner struct {
	UserID     string
	ExternalID string
	Key        []byte
}
