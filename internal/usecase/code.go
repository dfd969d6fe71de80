package usecase

import "math/rand"

const roomCodeLength = 6

// Room codes skip ambiguous characters (0/O, 1/I) so they survive being
// read out loud over voice chat.
func randomCode(n int) string {
	letters := []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
