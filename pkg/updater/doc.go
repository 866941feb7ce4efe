// Package updater keeps a pseudo-atom model partitioned into ladders as it
// is edited.
//
// An [Updater] owns a [ladder.Registry] and a set of chunks, one per rail of
// every valid ladder. Each call to [Updater.Run] is one pass over the atoms
// the model reports as changed since the previous pass:
//
//  1. Ladders holding a changed atom are invalidated, together with ladders
//     sharing a rung with one of their atoms. Every atom they held is
//     rescanned.
//  2. Rescanned axis atoms are walked into chains, split into segments
//     wherever the strand count or strand pairing changes, and each segment
//     becomes a finished ladder. Unpaired strand atoms become single-strand
//     domains.
//  3. New ladders are merged with each other and with surrounding valid
//     ladders until no merge is possible.
//  4. The registry's invalid ladders are drained and their chunks dropped.
//  5. Every new valid ladder is materialized into chunks.
//
// A pass that hits a contract violation returns it as an error with code
// CONTRACT_VIOLATION instead of panicking.
//
// # Usage
//
//	m := pam.New()
//	pam.AddHelix(m, 10, pam.HelixOptions{})
//
//	u := updater.New(m, updater.Options{Logger: logger})
//	res, err := u.Run(ctx)
//	for _, l := range res.Ladders {
//	    fmt.Println(l)
//	}
package updater
