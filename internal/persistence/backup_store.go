package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"questlog/internal/models"
	"questlog/internal/persistence/interfaces"
	"questlog/internal/providers"
	"questlog/internal/structures"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

const backupExt = ".json.zst"

var reasonPattern = regexp.MustCompile(`[^a-z0-9]+`)

// BackupStore archives documents that are about to be replaced wholesale by
// an import or a device link. Archives older than the TTL are pruned.
type BackupStore struct {
	mu         sync.Mutex
	dir        string
	ttl        time.Duration
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	now        func() time.Time
}

func NewBackupStore(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) interfaces.BackupStoreInterface {
	return &BackupStore{
		dir:        conf.Device.BackupDir,
		ttl:        conf.Device.BackupTTL,
		compressor: compressor,
		logger:     logger,
		now:        models.Now,
	}
}

// Archive writes state under <unix-millis>-<reason>.json.zst and returns the
// archive name.
func (b *BackupStore) Archive(state *models.AppState, reason string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, err := json.Marshal(state)
	if err != nil {
		return "", err
	}
	data, err = b.compressor.Compress(data)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	name := b.nextName(sanitizeReason(reason))
	if err := writeAtomic(filepath.Join(b.dir, name), data); err != nil {
		return "", err
	}
	b.logger.Infof(providers.TypeApp, "Archived state to %s", name)
	return name, nil
}

func (b *BackupStore) nextName(reason string) string {
	ms := b.now().UnixMilli()
	for {
		name := strconv.FormatInt(ms, 10) + "-" + reason + backupExt
		if _, err := os.Stat(filepath.Join(b.dir, name)); os.IsNotExist(err) {
			return name
		}
		ms++
	}
}

func sanitizeReason(reason string) string {
	r := strings.Trim(reasonPattern.ReplaceAllString(strings.ToLower(reason), "-"), "-")
	if r == "" {
		return "manual"
	}
	return r
}

// List returns the archives, newest first.
func (b *BackupStore) List() ([]interfaces.BackupInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.list()
}

func (b *BackupStore) list() ([]interfaces.BackupInfo, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []interfaces.BackupInfo{}, nil
		}
		return nil, err
	}

	out := make([]interfaces.BackupInfo, 0, len(entries))
	for _, e := range entries {
		info, ok := parseBackupName(e.Name())
		if !ok || e.IsDir() {
			continue
		}
		if fi, err := e.Info(); err == nil {
			info.Size = fi.Size()
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Name > out[j].Name
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func parseBackupName(name string) (interfaces.BackupInfo, bool) {
	base, ok := strings.CutSuffix(name, backupExt)
	if !ok {
		return interfaces.BackupInfo{}, false
	}
	msPart, reason, ok := strings.Cut(base, "-")
	if !ok {
		return interfaces.BackupInfo{}, false
	}
	ms, err := strconv.ParseInt(msPart, 10, 64)
	if err != nil {
		return interfaces.BackupInfo{}, false
	}
	return interfaces.BackupInfo{
		Name:      name,
		Reason:    reason,
		CreatedAt: time.UnixMilli(ms).UTC(),
	}, true
}

func (b *BackupStore) Load(name string) (*models.AppState, error) {
	if _, ok := parseBackupName(name); !ok || filepath.Base(name) != name {
		return nil, fmt.Errorf("%w: bad backup name %q", models.ErrInvalidDocument, name)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(b.dir, name))
	if err != nil {
		return nil, err
	}
	data, err = b.compressor.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("decompress backup %s: %w", name, err)
	}
	return models.ParseState(data)
}

// Prune removes archives created more than the TTL before now. A zero TTL
// keeps everything.
func (b *BackupStore) Prune(now time.Time) (int, error) {
	if b.ttl <= 0 {
		return 0, nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	infos, err := b.list()
	if err != nil {
		return 0, err
	}
	cutoff := now.Add(-b.ttl)
	removed := 0
	for _, info := range infos {
		if !info.CreatedAt.Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(b.dir, info.Name)); err != nil && !os.IsNotExist(err) {
			b.logger.Warnf(providers.TypeApp, "Unable to remove backup %s: %s", info.Name, err)
			continue
		}
		removed++
	}
	return removed, nil
}
