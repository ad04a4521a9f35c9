package models

import (
	"bytes"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

// Save is a named playthrough within a game. The concrete type is one of
// *GeneralSave, *ChecklistSave, *RunLogSave or *CollectibleSave.
type Save interface {
	Base() *SaveBase
}

// SaveBase holds the fields every save family shares.
type SaveBase struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Family        TrackerFamily `json:"family"`
	CreatedAt     time.Time     `json:"createdAt"`
	ActiveSession *Session      `json:"activeSession,omitempty"`
	History       []Session     `json:"history"`

	// Extra keeps members written by newer or older clients that this
	// version does not know about.
	Extra map[string]json.RawMessage `json:"-"`
}

func (b *SaveBase) Base() *SaveBase { return b }

// TotalSeconds sums the closed sessions.
func (b *SaveBase) TotalSeconds() int64 {
	var total int64
	for _, s := range b.History {
		total += s.DurationSeconds
	}
	return total
}

func NewSaveBase(name string, family TrackerFamily) SaveBase {
	now := Now()
	return SaveBase{
		ID:        NewIDAt(now),
		Name:      name,
		Family:    family,
		CreatedAt: now,
		History:   []Session{},
	}
}

type Milestone struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

type GeneralSave struct {
	SaveBase
	Milestones      []Milestone `json:"milestones"`
	ProgressPercent int         `json:"progressPercent"`
	Notes           string      `json:"notes,omitempty"`
}

type ChecklistSave struct {
	SaveBase
	ChapterCompleted map[string]bool `json:"chapterCompleted"`
}

type RunLogSave struct {
	SaveBase
	CurrentStreak int `json:"currentStreak"`
	BestStreak    int `json:"bestStreak"`
}

type CollectibleSave struct {
	SaveBase
	Collected map[string]bool `json:"collected"`
}

// FamilyOf reports the family of a concrete save.
func FamilyOf(s Save) TrackerFamily {
	switch s.(type) {
	case *ChecklistSave:
		return FamilyChecklist
	case *RunLogSave:
		return FamilyRunLog
	case *CollectibleSave:
		return FamilyCollectible
	default:
		return FamilyGeneral
	}
}

func newSaveOf(family TrackerFamily) (Save, error) {
	switch family {
	case FamilyGeneral, "":
		return &GeneralSave{}, nil
	case FamilyChecklist:
		return &ChecklistSave{}, nil
	case FamilyRunLog:
		return &RunLogSave{}, nil
	case FamilyCollectible:
		return &CollectibleSave{}, nil
	}
	return nil, fmt.Errorf("%w: unknown save family %q", ErrInvalidDocument, family)
}

// SaveList is the polymorphic list of saves of a game, tagged by "family".
type SaveList []Save

func (l SaveList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, s := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		var override map[string]json.RawMessage
		if family := FamilyOf(s); s.Base().Family != family {
			tag, _ := json.Marshal(family)
			override = map[string]json.RawMessage{"family": tag}
		}
		data, err := mergeExtra(s, s.Base().Extra, override)
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func (l *SaveList) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*l = nil
		return nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	out := make(SaveList, 0, len(raws))
	for _, raw := range raws {
		var tag struct {
			Family TrackerFamily `json:"family"`
		}
		if err := json.Unmarshal(raw, &tag); err != nil {
			return err
		}
		s, err := newSaveOf(tag.Family)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, s); err != nil {
			return err
		}
		extra, err := splitExtra(raw, s)
		if err != nil {
			return err
		}
		s.Base().Extra = extra
		s.Base().Family = FamilyOf(s)
		out = append(out, s)
	}
	*l = out
	return nil
}

func (l SaveList) Find(id string) (Save, bool) {
	for _, s := range l {
		if s.Base().ID == id {
			return s, true
		}
	}
	return nil, false
}
