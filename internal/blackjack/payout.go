package blackjack

// Outcome is the result of a finished round
type Outcome int

const (
	// NoOutcome marks a round that has not been settled
	NoOutcome Outcome = iota
	PlayerBust
	DealerBust
	PlayerWin
	DealerWin
	Push
	Blackjack
)

// String returns the outcome name
func (o Outcome) String() string {
	switch o {
	case PlayerBust:
		return "PLAYER_BUST"
	case DealerBust:
		return "DEALER_BUST"
	case PlayerWin:
		return "PLAYER_WIN"
	case DealerWin:
		return "DEALER_WIN"
	case Push:
		return "PUSH"
	case Blackjack:
		return "BLACKJACK"
	default:
		return "NONE"
	}
}

// Message is the user-facing line shown when a round settles with o
func (o Outcome) Message() string {
	switch o {
	case PlayerBust:
		return "You bust! House wins!"
	case DealerBust:
		return "Dealer busts! You win!"
	case PlayerWin:
		return "You win!"
	case DealerWin:
		return "House wins!"
	case Push:
		return "It's a push!"
	case Blackjack:
		return "Blackjack! You win!"
	default:
		return ""
	}
}

// Settle decides the outcome from the final hands. A player natural beats
// everything except a dealer natural, in which case the plain comparison
// applies (21 against 21 is a push).
func Settle(player, dealer Hand) Outcome {
	playerScore := player.Score()
	dealerScore := dealer.Score()

	var outcome Outcome
	switch {
	case playerScore > 21:
		outcome = PlayerBust
	case dealerScore > 21:
		outcome = DealerBust
	case playerScore > dealerScore:
		outcome = PlayerWin
	case playerScore < dealerScore:
		outcome = DealerWin
	default:
		outcome = Push
	}

	if player.IsNatural() && !dealer.IsNatural() {
		outcome = Blackjack
	}
	return outcome
}

// Payout returns the tokens credited for outcome on a bet that was already
// debited: 2× for a win, the stake back on a push, stake plus 3:2 (rounded
// down) on a blackjack, nothing on a loss.
func Payout(outcome Outcome, bet int) int {
	switch outcome {
	case DealerBust, PlayerWin:
		return 2 * bet
	case Push:
		return bet
	case Blackjack:
		return bet + bet*3/2
	default:
		return 0
	}
}
