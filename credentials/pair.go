// Package credentials holds the issued token pair and its persistence: a
// three-key Store on top of a plain key-value Storage collaborator.
package credentials

// Pair is an issued credential set: the short-lived access token granting
// API access and the longer-lived refresh token used solely to renew it.
// A pair is immutable and replaced wholesale on every successful renewal.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Empty reports whether the pair holds no tokens.
func (p Pair) Empty() bool {
	return p.AccessToken == "" && p.RefreshToken == ""
}
