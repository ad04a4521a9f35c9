package trackers

import "questlog/internal/models"

func CreateGeneralSave(name string) *models.GeneralSave {
	return &models.GeneralSave{
		SaveBase:   models.NewSaveBase(name, models.FamilyGeneral),
		Milestones: []models.Milestone{},
	}
}

// CreateChecklistSave starts every configured chapter as not completed.
func CreateChecklistSave(name string, cfg ChecklistConfig) *models.ChecklistSave {
	s := &models.ChecklistSave{
		SaveBase:         models.NewSaveBase(name, models.FamilyChecklist),
		ChapterCompleted: make(map[string]bool, len(cfg.Chapters)),
	}
	for _, ch := range cfg.Chapters {
		s.ChapterCompleted[ch] = false
	}
	return s
}

func CreateRunLogSave(name string, _ RunConfig) *models.RunLogSave {
	return &models.RunLogSave{
		SaveBase: models.NewSaveBase(name, models.FamilyRunLog),
	}
}

// CreateCollectibleSave starts every configured item as not collected.
func CreateCollectibleSave(name string, cfg CollectibleConfig) *models.CollectibleSave {
	s := &models.CollectibleSave{
		SaveBase:  models.NewSaveBase(name, models.FamilyCollectible),
		Collected: make(map[string]bool, len(cfg.Items)),
	}
	for _, item := range cfg.Items {
		s.Collected[item] = false
	}
	return s
}

// NewSaveFor builds a fresh save shaped for the kind's family.
func NewSaveFor(kind models.TrackerKind, name string) models.Save {
	d := Lookup(kind)
	switch d.Family {
	case models.FamilyChecklist:
		return CreateChecklistSave(name, d.Checklist)
	case models.FamilyRunLog:
		return CreateRunLogSave(name, d.Run)
	case models.FamilyCollectible:
		return CreateCollectibleSave(name, d.Collectible)
	default:
		return CreateGeneralSave(name)
	}
}

func migrateBase(b *models.SaveBase, family models.TrackerFamily) {
	b.Family = family
	if b.History == nil {
		b.History = []models.Session{}
	}
}

func MigrateGeneralSave(s *models.GeneralSave) *models.GeneralSave {
	migrateBase(&s.SaveBase, models.FamilyGeneral)
	if s.Milestones == nil {
		s.Milestones = []models.Milestone{}
	}
	if s.ProgressPercent < 0 {
		s.ProgressPercent = 0
	}
	if s.ProgressPercent > 100 {
		s.ProgressPercent = 100
	}
	return s
}

// MigrateChecklistSave adds chapters introduced after the save was created.
// Chapters that are no longer configured are kept.
func MigrateChecklistSave(s *models.ChecklistSave, cfg ChecklistConfig) *models.ChecklistSave {
	migrateBase(&s.SaveBase, models.FamilyChecklist)
	if s.ChapterCompleted == nil {
		s.ChapterCompleted = make(map[string]bool, len(cfg.Chapters))
	}
	for _, ch := range cfg.Chapters {
		if _, ok := s.ChapterCompleted[ch]; !ok {
			s.ChapterCompleted[ch] = false
		}
	}
	return s
}

func MigrateRunLogSave(s *models.RunLogSave, cfg RunConfig) *models.RunLogSave {
	migrateBase(&s.SaveBase, models.FamilyRunLog)
	if s.BestStreak == 0 && len(s.History) > 0 {
		current, best := streaks(s.History, cfg.WinOutcomes)
		s.CurrentStreak, s.BestStreak = current, best
	}
	return s
}

// MigrateCollectibleSave adds items introduced after the save was created.
func MigrateCollectibleSave(s *models.CollectibleSave, cfg CollectibleConfig) *models.CollectibleSave {
	migrateBase(&s.SaveBase, models.FamilyCollectible)
	if s.Collected == nil {
		s.Collected = make(map[string]bool, len(cfg.Items))
	}
	for _, item := range cfg.Items {
		if _, ok := s.Collected[item]; !ok {
			s.Collected[item] = false
		}
	}
	return s
}

// MigrateGame brings every save of a game up to date with its kind's definition.
func MigrateGame(game *models.GameEntry) {
	d := Lookup(ResolveTracker(game))
	for _, s := range game.Saves {
		switch v := s.(type) {
		case *models.GeneralSave:
			MigrateGeneralSave(v)
		case *models.ChecklistSave:
			MigrateChecklistSave(v, d.Checklist)
		case *models.RunLogSave:
			MigrateRunLogSave(v, d.Run)
		case *models.CollectibleSave:
			MigrateCollectibleSave(v, d.Collectible)
		}
	}
}
