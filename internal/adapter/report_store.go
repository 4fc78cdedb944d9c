package adapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	m "scopemeter.dev/pkg/scopemeter/internal/model"
)

// LatestSnapshotID names the snapshot that mirrors the most recent save.
const LatestSnapshotID = "latest"

const snapshotExt = ".json"

// ErrSnapshotNotFound is returned when a snapshot id does not exist in the reports directory.
var ErrSnapshotNotFound = errors.New("snapshot not found")

var snapshotIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ReportStore persists report snapshots.
type ReportStore interface {
	SaveSnapshot(dir m.Path, paths []m.Path, report m.Report) (m.Snapshot, error)
	LoadSnapshot(dir m.Path, id string) (m.Snapshot, error)
	ListSnapshots(dir m.Path) ([]m.Snapshot, error)
}

// LocalReportStore keeps snapshots as JSON files in a directory.
type LocalReportStore struct {
	now   func() time.Time
	newID func() string
}

// NewLocalReportStore constructs a LocalReportStore.
func NewLocalReportStore() *LocalReportStore {
	return &LocalReportStore{
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// SaveSnapshot writes report under a fresh id and refreshes latest.json.
func (s *LocalReportStore) SaveSnapshot(dir m.Path, paths []m.Path, report m.Report) (m.Snapshot, error) {
	snapshot := m.Snapshot{
		ID:        s.newID(),
		CreatedAt: s.now().UTC(),
		Paths:     paths,
		Report:    report,
	}

	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return m.Snapshot{}, fmt.Errorf("create reports directory: %w", err)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return m.Snapshot{}, fmt.Errorf("encode snapshot: %w", err)
	}

	for _, name := range []string{snapshot.ID, LatestSnapshotID} {
		if err := writeFileAtomic(snapshotPath(dir, name), data); err != nil {
			return m.Snapshot{}, fmt.Errorf("write snapshot %s: %w", name, err)
		}
	}

	return snapshot, nil
}

// LoadSnapshot reads the snapshot with the given id. An empty id loads the latest one.
func (s *LocalReportStore) LoadSnapshot(dir m.Path, id string) (m.Snapshot, error) {
	if id == "" {
		id = LatestSnapshotID
	}

	if !snapshotIDPattern.MatchString(id) {
		return m.Snapshot{}, fmt.Errorf("invalid snapshot id %q", id)
	}

	// #nosec G304 - id is validated above and confined to dir
	data, err := os.ReadFile(snapshotPath(dir, id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return m.Snapshot{}, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
		}

		return m.Snapshot{}, fmt.Errorf("read snapshot %s: %w", id, err)
	}

	var snapshot m.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return m.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", id, err)
	}

	return snapshot, nil
}

// ListSnapshots returns all saved snapshots, newest first. latest.json is not
// listed separately.
func (s *LocalReportStore) ListSnapshots(dir m.Path) ([]m.Snapshot, error) {
	entries, err := os.ReadDir(string(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("read reports directory: %w", err)
	}

	snapshots := make([]m.Snapshot, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != snapshotExt {
			continue
		}

		id := strings.TrimSuffix(name, snapshotExt)
		if id == LatestSnapshotID {
			continue
		}

		snapshot, err := s.LoadSnapshot(dir, id)
		if err != nil {
			return nil, err
		}

		snapshots = append(snapshots, snapshot)
	}

	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].CreatedAt.After(snapshots[j].CreatedAt)
	})

	return snapshots, nil
}

func snapshotPath(dir m.Path, id string) string {
	return filepath.Join(string(dir), id+snapshotExt)
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return err
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}
