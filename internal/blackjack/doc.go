// Package blackjack implements the blackjack round: hand scoring, payouts
// and the round state machine.
//
// # Round flow
//
// A Game moves through Betting, Playing, DealerTurn and GameOver, then back
// to Betting on Reset. Intents that the current state does not accept are
// ignored:
//
//	g, err := blackjack.NewGame(ctx, store, "alice", shoe.NewManager(rng, shoe.DefaultConfig(), logger))
//	g.ChangeBet(+15)
//	g.Deal(ctx)  // debits the bet and deals two cards each
//	g.Hit(ctx)
//	g.Stand(ctx) // dealer draws to 17 on scheduled steps
//
// # Scheduled steps
//
// Dealer draws, the end of a deal animation and transient notices run as
// delayed callbacks on a quartz.Clock. Each one is tied to the round that
// scheduled it: dealing a new round or resetting stops pending timers, and a
// callback that still fires for an old round is dropped. Tests drive the
// schedule with quartz.NewMock.
//
// # Tokens
//
// The bet is debited from the tokens.Store when the round is dealt. The
// payout from Payout is credited when the round settles, so a loss simply
// never returns the stake.
package blackjack
