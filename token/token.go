// Package token produces the short public identifiers respondents use
// to reach their survey. Tokens carry no guarantee of uniqueness on
// their own; the unique constraint on result.url is what enforces it.
package token

import "crypto/rand"

const Length = 8

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// New returns a random 8-character base-36 token.
func New() string {
	b := make([]byte, Length)
	_, err := rand.Read(b)
	if err != nil {
		// crypto/rand failing means the platform is broken
		panic(err)
	}
	for i, c := range b {
		b[i] = alphabet[int(c)%len(alphabet)]
	}
	return string(b)
}
