package approvals

import "crypto/rand"

const (
	codeAlphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeSegmentLength = 4
)

// GenerateCode produces a human-typable one-time code of the form
// DU-XXXX-XXXX, with two random alphanumeric segments.
func GenerateCode() string {
	return "DU-" + randomSegment() + "-" + randomSegment()
}

func randomSegment() string {
	bytes := make([]byte, codeSegmentLength)
	if _, err := rand.Read(bytes); err != nil {
		panic("approvals: crypto/rand unavailable: " + err.Error())
	}
	for i, b := range bytes {
		bytes[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(bytes)
}
