// Package trackers holds the static tracker definitions and the pure
// functions built on them: dispatch, backfill, save factories and migrations.
package trackers

import (
	"strings"

	"questlog/internal/models"
)

type ChecklistConfig struct {
	Chapters []string
}

type CollectibleConfig struct {
	Items []string
}

type RunConfig struct {
	Outcomes    []string
	WinOutcomes []string
	GroupKeys   []string
}

// Definition describes one tracker kind.
type Definition struct {
	Kind        models.TrackerKind
	Family      models.TrackerFamily
	Title       string
	Names       []string
	LegacyIDs   []int64
	Checklist   ChecklistConfig
	Collectible CollectibleConfig
	Run         RunConfig
}

var genericRunConfig = RunConfig{
	Outcomes:    []string{"win", "loss", "abandoned"},
	WinOutcomes: []string{"win"},
}

var definitions = []Definition{
	{Kind: models.TrackerGeneral, Family: models.FamilyGeneral, Title: "General"},
	{Kind: models.TrackerChecklist, Family: models.FamilyChecklist, Title: "Checklist"},
	{Kind: models.TrackerRoguelike, Family: models.FamilyRunLog, Title: "Roguelike", Run: genericRunConfig},
	{Kind: models.TrackerCollectible, Family: models.FamilyCollectible, Title: "Collectibles"},
	{
		Kind:      models.TrackerHades,
		Family:    models.FamilyRunLog,
		Title:     "Hades",
		Names:     []string{"Hades"},
		LegacyIDs: []int64{113112},
		Run: RunConfig{
			Outcomes:    []string{"escaped", "died", "abandoned"},
			WinOutcomes: []string{"escaped"},
			GroupKeys:   []string{"weapon", "aspect", "heat"},
		},
	},
	{
		Kind:      models.TrackerSlayTheSpire,
		Family:    models.FamilyRunLog,
		Title:     "Slay the Spire",
		Names:     []string{"Slay the Spire"},
		LegacyIDs: []int64{28076},
		Run: RunConfig{
			Outcomes:    []string{"victory", "defeat", "abandoned"},
			WinOutcomes: []string{"victory"},
			GroupKeys:   []string{"character", "ascension"},
		},
	},
	{
		Kind:      models.TrackerDeadCells,
		Family:    models.FamilyRunLog,
		Title:     "Dead Cells",
		Names:     []string{"Dead Cells"},
		LegacyIDs: []int64{26759},
		Run: RunConfig{
			Outcomes:    []string{"victory", "death", "abandoned"},
			WinOutcomes: []string{"victory"},
			GroupKeys:   []string{"cells", "biome"},
		},
	},
	{
		Kind:      models.TrackerCeleste,
		Family:    models.FamilyChecklist,
		Title:     "Celeste",
		Names:     []string{"Celeste"},
		LegacyIDs: []int64{26226},
		Checklist: ChecklistConfig{Chapters: []string{
			"Prologue", "Forsaken City", "Old Site", "Celestial Resort", "Golden Ridge",
			"Mirror Temple", "Reflection", "The Summit", "Epilogue", "Core", "Farewell",
		}},
	},
	{
		Kind:      models.TrackerPortal2,
		Family:    models.FamilyChecklist,
		Title:     "Portal 2",
		Names:     []string{"Portal 2"},
		LegacyIDs: []int64{72},
		Checklist: ChecklistConfig{Chapters: []string{
			"The Courtesy Call", "The Cold Boot", "The Return", "The Surprise", "The Escape",
			"The Fall", "The Reunion", "The Itch", "The Part Where He Kills You",
		}},
	},
	{
		Kind:      models.TrackerHollowKnight,
		Family:    models.FamilyCollectible,
		Title:     "Hollow Knight",
		Names:     []string{"Hollow Knight"},
		LegacyIDs: []int64{14593},
		Collectible: CollectibleConfig{Items: []string{
			"Mothwing Cloak", "Mantis Claw", "Crystal Heart", "Monarch Wings", "Isma's Tear",
			"Shade Cloak", "Dream Nail", "Vengeful Spirit", "Desolate Dive", "Howling Wraiths",
			"Lumafly Lantern", "King's Brand",
		}},
	},
}

var (
	byKind     map[models.TrackerKind]*Definition
	byName     map[string]models.TrackerKind
	byLegacyID map[int64]models.TrackerKind
)

func init() {
	byKind = make(map[models.TrackerKind]*Definition, len(definitions))
	byName = make(map[string]models.TrackerKind)
	byLegacyID = make(map[int64]models.TrackerKind)
	for i := range definitions {
		d := &definitions[i]
		byKind[d.Kind] = d
		for _, n := range d.Names {
			byName[normalizeName(n)] = d.Kind
		}
		for _, id := range d.LegacyIDs {
			byLegacyID[id] = d.Kind
		}
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Lookup returns the definition of a kind. Unknown kinds resolve to General.
func Lookup(kind models.TrackerKind) Definition {
	if d, ok := byKind[kind]; ok {
		return *d
	}
	return *byKind[models.TrackerGeneral]
}

func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// KindForName matches a game name against the name table.
func KindForName(name string) (models.TrackerKind, bool) {
	k, ok := byName[normalizeName(name)]
	return k, ok
}

// KindForLegacyID matches an external metadata id against the legacy table.
func KindForLegacyID(id int64) (models.TrackerKind, bool) {
	if id == 0 {
		return "", false
	}
	k, ok := byLegacyID[id]
	return k, ok
}
