package qoh

// legacyGameIDs are the games recorded before the ledger formula changed. Their figures
// must keep reproducing what was announced at the time.
var legacyGameIDs = map[string]struct{}{
	"QOH-2021-01": {},
	"QOH-2021-02": {},
	"QOH-2022-01": {},
	"QOH-2022-02": {},
	"QOH-2023-01": {},
}

// IsLegacyGame reports whether the game id is on the legacy allowlist.
func IsLegacyGame(id string) bool {
	_, ok := legacyGameIDs[id]
	return ok
}
