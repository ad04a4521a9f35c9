package trackers

import "questlog/internal/models"

// ResolveTracker picks the tracker that owns a game. It is total: a known
// trackerType wins, a legacy external id repairs entries without one, and
// everything else lands on the general tracker.
func ResolveTracker(game *models.GameEntry) models.TrackerKind {
	if game == nil {
		return models.TrackerGeneral
	}
	if game.TrackerType != "" {
		if game.TrackerType.Known() {
			return game.TrackerType
		}
		return models.TrackerGeneral
	}
	if k, ok := KindForLegacyID(game.ExternalID); ok {
		return k
	}
	return models.TrackerGeneral
}

// Backfill sets trackerType from the name table on every entry that has none.
// Entries are modified in place; running it twice changes nothing further.
func Backfill(library []models.GameEntry) int {
	changed := 0
	for i := range library {
		if library[i].TrackerType != "" {
			continue
		}
		if k, ok := KindForName(library[i].Name); ok {
			library[i].TrackerType = k
			changed++
		}
	}
	return changed
}

// BackfillState applies Backfill to a document. A nil state is ignored.
func BackfillState(state *models.AppState) int {
	if state == nil {
		return 0
	}
	return Backfill(state.Library)
}
