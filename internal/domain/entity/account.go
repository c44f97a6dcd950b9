package entity

// Account is a wallet account exposed by the extension collaborator.
type Account struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
	Source  string `json:"source"`
}
