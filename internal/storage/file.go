package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rickeysan/hiit-score-app/internal"
)

type FileStorage struct {
	schedules     map[string]*internal.Schedule        // id -> Schedule
	tokens        map[string]*internal.DeviceToken     // targetID -> token
	sessionIndex  map[string][]*internal.SessionRecord // ownerID -> records (sorted descending)
	mu            sync.RWMutex
	schedulesFile string
	tokensFile    string
	sessionsFile  string
	saveSchedules chan struct{}
	saveTokens    chan struct{}
	saveSessions  chan struct{}
	shutdownChan  chan struct{}
	workers       sync.WaitGroup
	saveDelay     time.Duration
	closeOnce     sync.Once
	logger        internal.Logger
}

func NewFileStorage(dataDir string, logger internal.Logger) (*FileStorage, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("storage: failed to create data dir: %w", err)
	}
	s := &FileStorage{
		schedules:     make(map[string]*internal.Schedule),
		tokens:        make(map[string]*internal.DeviceToken),
		sessionIndex:  make(map[string][]*internal.SessionRecord),
		schedulesFile: filepath.Join(dataDir, "notification_schedules.json"),
		tokensFile:    filepath.Join(dataDir, "push_tokens.json"),
		sessionsFile:  filepath.Join(dataDir, "sessions.json"),
		saveSchedules: make(chan struct{}, 1),
		saveTokens:    make(chan struct{}, 1),
		saveSessions:  make(chan struct{}, 1),
		shutdownChan:  make(chan struct{}),
		saveDelay:     500 * time.Millisecond,
		logger:        logger,
	}

	var schedules []*internal.Schedule
	if err := loadJSON(s.schedulesFile, &schedules); err != nil {
		logger.Errorf("storage: failed to load schedules: %v", err)
		return nil, err
	}
	var tokens []*internal.DeviceToken
	if err := loadJSON(s.tokensFile, &tokens); err != nil {
		logger.Errorf("storage: failed to load tokens: %v", err)
		return nil, err
	}
	var sessions []*internal.SessionRecord
	if err := loadJSON(s.sessionsFile, &sessions); err != nil {
		logger.Errorf("storage: failed to load sessions: %v", err)
		return nil, err
	}

	for _, sc := range schedules {
		s.schedules[sc.ID] = sc
	}
	for _, t := range tokens {
		s.tokens[t.TargetID] = t
	}
	for _, r := range sessions {
		s.sessionIndex[r.OwnerID] = append(s.sessionIndex[r.OwnerID], r)
	}
	for owner := range s.sessionIndex {
		recs := s.sessionIndex[owner]
		sort.Slice(recs, func(i, j int) bool {
			return recs[i].Timestamp.After(recs[j].Timestamp)
		})
	}

	s.startWorker("schedules", s.saveSchedules, s.writeSchedules)
	s.startWorker("tokens", s.saveTokens, s.writeTokens)
	s.startWorker("sessions", s.saveSessions, s.writeSessions)

	return s, nil
}

// loadJSON decodes a JSON array file into dst. A missing or empty file is not an error.
func loadJSON(path string, dst interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStorage) writeSchedules() error {
	s.mu.RLock()
	out := make([]*internal.Schedule, 0, len(s.schedules))
	for _, sc := range s.schedules {
		out = append(out, sc)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return atomicWriteFileJSON(s.schedulesFile, out)
}

func (s *FileStorage) writeTokens() error {
	s.mu.RLock()
	out := make([]*internal.DeviceToken, 0, len(s.tokens))
	for _, t := range s.tokens {
		out = append(out, t)
	}
	s.mu.RUnlock()
	return atomicWriteFileJSON(s.tokensFile, out)
}

func (s *FileStorage) writeSessions() error {
	s.mu.RLock()
	out := make([]*internal.SessionRecord, 0)
	for _, recs := range s.sessionIndex {
		out = append(out, recs...)
	}
	s.mu.RUnlock()
	return atomicWriteFileJSON(s.sessionsFile, out)
}

// startWorker batches saves of one collection so bursts of writes hit the
// disk once per saveDelay.
func (s *FileStorage) startWorker(name string, signal <-chan struct{}, save func() error) {
	s.workers.Add(1)
	go func() {
		defer s.workers.Done()
		timer := time.NewTimer(s.saveDelay)
		defer timer.Stop()

		for {
			select {
			case <-signal:
				timer.Reset(s.saveDelay)
			case <-timer.C:
				if err := save(); err != nil {
					s.logger.Errorf("storage: error saving %s: %v", name, err)
				}
			case <-s.shutdownChan:
				return
			}
		}
	}()
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// Close stops the save workers and flushes every collection synchronously.
func (s *FileStorage) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.shutdownChan)
		s.workers.Wait()
		err = errors.Join(s.writeSchedules(), s.writeTokens(), s.writeSessions())
	})
	return err
}

// --- ScheduleRepository ---
func (s *FileStorage) CreateSchedule(ctx context.Context, sc *internal.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schedules[sc.ID]; ok {
		return fmt.Errorf("storage: schedule %s already exists", sc.ID)
	}
	cp := *sc
	s.schedules[sc.ID] = &cp
	notify(s.saveSchedules)
	return nil
}

func (s *FileStorage) GetSchedule(ctx context.Context, id string) (*internal.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.schedules[id]
	if !ok {
		return nil, fmt.Errorf("storage: schedule %s: %w", id, internal.ErrNotFound)
	}
	cp := *sc
	return &cp, nil
}

func (s *FileStorage) UpdateSchedule(ctx context.Context, sc *internal.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schedules[sc.ID]; !ok {
		return fmt.Errorf("storage: schedule %s: %w", sc.ID, internal.ErrNotFound)
	}
	cp := *sc
	s.schedules[sc.ID] = &cp
	notify(s.saveSchedules)
	return nil
}

// --- TokenRepository ---
func (s *FileStorage) SaveToken(ctx context.Context, t *internal.DeviceToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.tokens[t.TargetID] = &cp
	notify(s.saveTokens)
	return nil
}

func (s *FileStorage) GetToken(ctx context.Context, targetID string) (*internal.DeviceToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tokens[targetID]
	if !ok {
		return nil, fmt.Errorf("storage: token for %s: %w", targetID, internal.ErrNotFound)
	}
	cp := *t
	return &cp, nil
}

// --- SessionRepository ---
func (s *FileStorage) SaveSession(ctx context.Context, r *internal.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := *r
	recs := s.sessionIndex[r.OwnerID]
	inserted := false
	for i, existing := range recs {
		if existing.Timestamp.Before(rec.Timestamp) {
			recs = append(recs[:i], append([]*internal.SessionRecord{&rec}, recs[i:]...)...)
			inserted = true
			break
		}
	}
	if !inserted {
		recs = append(recs, &rec)
	}
	s.sessionIndex[r.OwnerID] = recs
	notify(s.saveSessions)
	return nil
}

func (s *FileStorage) ListSessions(ctx context.Context, ownerID string) ([]internal.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.sessionIndex[ownerID]
	out := make([]internal.SessionRecord, len(recs))
	for i, r := range recs {
		out[i] = *r
	}
	return out, nil
}

// --- Compile-time assertions ---
var _ ScheduleRepository = (*FileStorage)(nil)
var _ TokenRepository = (*FileStorage)(nil)
var _ SessionRepository = (*FileStorage)(nil)
