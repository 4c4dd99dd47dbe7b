package keys

// PrefixChar is the designated base58 character counted by the proof-of-work
// measure. 'A' encodes a small digit, so long runs of it require the leading
// address bytes to fall in a narrow numeric range; among uniformly random
// addresses the expected fraction with a run of length d is (1/58)^d.
const PrefixChar = 'A'

// LeadingPrefixLen returns the number of leading PrefixChar characters in the
// base58 encoding of addr. This is the identity's proof-of-work score.
func LeadingPrefixLen(addr Address) int {
	s := addr.String()
	n := 0
	for n < len(s) && s[n] == PrefixChar {
		n++
	}
	return n
}

// MeetsDifficulty reports whether addr satisfies the given difficulty.
func MeetsDifficulty(addr Address, difficulty uint8) bool {
	return LeadingPrefixLen(addr) >= int(difficulty)
}
