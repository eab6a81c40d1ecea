/*
Package qoh implements the Queen of Hearts ledger and deck-state engine.

A game is a chronological sequence of weekly drawings. BuildGameView sorts the raw
entries by draw date and runs two independent passes over them:

  - ComputeLedger folds the entries into per-drawing figures (seed, available fund,
    jackpot, profit) and running totals, using either the current or the legacy
    formula depending on whether the game id is on the legacy allowlist.
  - TrackDeck walks the same order to find which cards and board positions are taken
    in each shuffle, when two jokers force a board reset, and when the Queen of Hearts
    ends the game.

Nothing here performs I/O or keeps state between calls. Any edit to a historical entry
or to the game rules means the caller has to build the view again from the full list.
*/
package qoh
