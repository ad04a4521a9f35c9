package models

// TrackerKind selects which specialized tracker owns a GameEntry.
type TrackerKind string

const (
	TrackerGeneral      TrackerKind = "general"
	TrackerChecklist    TrackerKind = "checklist"
	TrackerRoguelike    TrackerKind = "roguelike"
	TrackerCollectible  TrackerKind = "collectible"
	TrackerHades        TrackerKind = "hades"
	TrackerSlayTheSpire TrackerKind = "slay-the-spire"
	TrackerDeadCells    TrackerKind = "dead-cells"
	TrackerCeleste      TrackerKind = "celeste"
	TrackerPortal2      TrackerKind = "portal-2"
	TrackerHollowKnight TrackerKind = "hollow-knight"
)

// TrackerKinds lists every kind in display order.
var TrackerKinds = []TrackerKind{
	TrackerGeneral,
	TrackerChecklist,
	TrackerRoguelike,
	TrackerCollectible,
	TrackerHades,
	TrackerSlayTheSpire,
	TrackerDeadCells,
	TrackerCeleste,
	TrackerPortal2,
	TrackerHollowKnight,
}

func (k TrackerKind) Known() bool {
	for _, v := range TrackerKinds {
		if v == k {
			return true
		}
	}
	return false
}

// TrackerFamily is the shape of the save records a tracker keeps.
type TrackerFamily string

const (
	FamilyGeneral     TrackerFamily = "general"
	FamilyChecklist   TrackerFamily = "checklist"
	FamilyRunLog      TrackerFamily = "runlog"
	FamilyCollectible TrackerFamily = "collectible"
)

func (f TrackerFamily) Known() bool {
	switch f {
	case FamilyGeneral, FamilyChecklist, FamilyRunLog, FamilyCollectible:
		return true
	}
	return false
}
