package domain

// ModerationStatus is the gateway's view of where a joke sits in the
// approval workflow. The downstream store only persists the Approved flag,
// so a rejected joke is indistinguishable from one never reviewed; both
// surface as StatusPending.
type ModerationStatus string

const (
	StatusPending  ModerationStatus = "pending"
	StatusApproved ModerationStatus = "approved"
)

// Joke mirrors the downstream store's record. The store assigns the ID; the
// gateway never keeps a local copy and re-fetches before every mutation.
type Joke struct {
	ID       string `json:"id"`
	Content  string `json:"content"`
	TypeID   string `json:"type"`
	Approved bool   `json:"approved"`
}

// Status derives the moderation status from the approved flag.
func (j *Joke) Status() ModerationStatus {
	if j.Approved {
		return StatusApproved
	}
	return StatusPending
}

// JokeType is a joke category kept by the downstream store.
type JokeType struct {
	ID    string `json:"id"`
	Label string `json:"type"`
}
