package domain

// applyScores settles a round at the VOTING -> REVEAL boundary.
//
// Each voter who guessed the hot-seat player's true story gains a point.
// The hot-seat player gains a point per fooled voter, plus a two point
// bonus when nobody guessed right. Players who never voted are left
// untouched.
func (r *Room) applyScores() {
	hotSeat := r.Player(r.CurrentPlayerID)
	if hotSeat == nil || hotSeat.IsTruth == nil {
		return
	}
	truth := *hotSeat.IsTruth

	voters := 0
	correct := 0
	for _, p := range r.Players {
		if p.ID == hotSeat.ID {
			continue
		}
		vote, ok := r.Votes[p.ID]
		if !ok {
			continue
		}
		voters++
		if vote == truth {
			correct++
			p.Score++
		}
	}

	hotSeat.Score += voters - correct
	if voters > 0 && correct == 0 {
		hotSeat.Score += 2
	}
}
