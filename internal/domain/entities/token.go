package entities

// TokenQuery is the raw, per-request user input
type TokenQuery struct {
	Raw         string
	NetworkHint string

	// Pre-known handles supplied by the caller skip part of resolution
	SocialHandle string
	CodeRepo     string

	ForceRefresh bool
}

// ResolvedToken is the best-effort canonical identity for a query.
// ContractAddress may be empty; Network is always a known short code.
type ResolvedToken struct {
	ID              string `json:"id"`
	Symbol          string `json:"symbol"`
	Name            string `json:"name"`
	ContractAddress string `json:"contract_address"`
	Network         string `json:"network"`

	// Guessed marks identities built from the query text alone, with no
	// source confirming them
	Guessed bool `json:"guessed,omitempty"`
}

// HasAddress reports whether resolution produced a contract address
func (t *ResolvedToken) HasAddress() bool {
	return t.ContractAddress != ""
}
