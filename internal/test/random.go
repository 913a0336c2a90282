package test

import "math/rand/v2"

const credentialAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomASCIIString returns a pseudo-random alphanumeric string whose length
// falls within [minLen, maxLen]. Out-of-order or non-positive bounds are
// normalized rather than rejected.
func RandomASCIIString(minLen, maxLen int) string {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	buf := make([]byte, minLen+rand.IntN(maxLen-minLen+1))
	for i := range buf {
		buf[i] = credentialAlphabet[rand.IntN(len(credentialAlphabet))]
	}
	return string(buf)
}
