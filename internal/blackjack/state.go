package blackjack

import "slices"

// State is a phase of the round state machine
type State int

const (
	Betting State = iota
	Playing
	DealerTurn
	GameOver
)

// String returns the state name
func (s State) String() string {
	switch s {
	case Betting:
		return "betting"
	case Playing:
		return "playing"
	case DealerTurn:
		return "dealerTurn"
	case GameOver:
		return "gameOver"
	default:
		return "unknown"
	}
}

// Intent is a user action sent by the presentation layer
type Intent int

const (
	ChangeBetIntent Intent = iota
	DealIntent
	HitIntent
	StandIntent
	ResetIntent
)

// String returns the intent name
func (i Intent) String() string {
	switch i {
	case ChangeBetIntent:
		return "changeBet"
	case DealIntent:
		return "deal"
	case HitIntent:
		return "hit"
	case StandIntent:
		return "stand"
	case ResetIntent:
		return "reset"
	default:
		return "unknown"
	}
}

// accepts lists the intents each state responds to; anything else is ignored
var accepts = map[State][]Intent{
	Betting:    {ChangeBetIntent, DealIntent, ResetIntent},
	Playing:    {HitIntent, StandIntent},
	DealerTurn: {},
	GameOver:   {ResetIntent},
}

// transitions lists the legal state changes
var transitions = map[State][]State{
	Betting:    {Playing, Betting},
	Playing:    {DealerTurn, GameOver},
	DealerTurn: {GameOver},
	GameOver:   {Betting},
}

// Accepts reports whether the state responds to intent
func (s State) Accepts(intent Intent) bool {
	return slices.Contains(accepts[s], intent)
}

// CanTransition reports whether moving from s to next is legal
func (s State) CanTransition(next State) bool {
	return slices.Contains(transitions[s], next)
}
