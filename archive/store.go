// Package archive persists finished cartoon projects so kids can reopen and
// replay them later. The S3 backend stores one JSON document per project;
// the in-memory backend covers single-node and test setups.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"tooncraft/common"
	"tooncraft/types"

	"github.com/google/uuid"
)

// Store is the project archive.
type Store interface {
	// Save persists a project. A project without an ID is assigned one.
	Save(ctx context.Context, project *types.Project) error

	// Get loads one project by ID.
	Get(ctx context.Context, id string) (*types.Project, error)

	// List returns project summaries (scripts omitted), newest first.
	List(ctx context.Context) ([]*types.Project, error)

	// Delete removes a project. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error
}

// ErrNotFound is returned by Get for unknown project IDs.
var ErrNotFound = fmt.Errorf("project not found")

func prepare(project *types.Project) {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	if project.SavedAt.IsZero() {
		project.SavedAt = time.Now().UTC()
	}
	if project.Title == "" && project.Script != nil {
		project.Title = project.Script.Title
	}
}

// S3Store keeps projects under <prefix>/projects/<id>.json.
type S3Store struct {
	s3     *common.S3
	bucket string
	prefix string
}

func NewS3Store(s3 *common.S3, bucket, prefix string) *S3Store {
	return &S3Store{s3: s3, bucket: bucket, prefix: prefix}
}

func (s *S3Store) key(id string) string {
	if s.prefix == "" {
		return "projects/" + id + ".json"
	}
	return s.prefix + "/projects/" + id + ".json"
}

func (s *S3Store) Save(ctx context.Context, project *types.Project) error {
	prepare(project)
	payload, err := json.Marshal(project)
	if err != nil {
		return fmt.Errorf("failed to marshal project %s: %w", project.ID, err)
	}
	return s.s3.Put(ctx, s.bucket, s.key(project.ID), bytes.NewReader(payload), "application/json")
}

func (s *S3Store) Get(ctx context.Context, id string) (*types.Project, error) {
	exists, err := s.s3.Exists(ctx, s.bucket, s.key(id))
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}
	body, err := s.s3.Get(ctx, s.bucket, s.key(id))
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var project types.Project
	if err := json.NewDecoder(body).Decode(&project); err != nil {
		return nil, fmt.Errorf("failed to decode project %s: %w", id, err)
	}
	return &project, nil
}

func (s *S3Store) List(ctx context.Context) ([]*types.Project, error) {
	listPrefix := s.key("")
	// Strip the ".json" the key helper appends to the empty ID.
	listPrefix = listPrefix[:len(listPrefix)-len(".json")]

	var projects []*types.Project
	var token *string
	for {
		out, err := s.s3.List(ctx, s.bucket, listPrefix, 1000, token)
		if err != nil {
			return nil, err
		}
		for _, obj := range out.Contents {
			if obj.Key == nil || !strings.HasSuffix(*obj.Key, ".json") {
				continue
			}
			key := *obj.Key
			summary := &types.Project{ID: key[len(listPrefix) : len(key)-len(".json")]}
			if obj.LastModified != nil {
				summary.SavedAt = *obj.LastModified
			}
			projects = append(projects, summary)
		}
		if out.IsTruncated == nil || !*out.IsTruncated {
			break
		}
		token = out.NextContinuationToken
	}

	// Titles live inside the documents; fetch them for the summaries.
	for _, summary := range projects {
		full, err := s.Get(ctx, summary.ID)
		if err != nil {
			continue
		}
		summary.Title = full.Title
		summary.SavedAt = full.SavedAt
	}
	sortNewestFirst(projects)
	return projects, nil
}

func (s *S3Store) Delete(ctx context.Context, id string) error {
	return s.s3.Delete(ctx, s.bucket, s.key(id))
}

// MemoryStore holds projects in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string]*types.Project
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{projects: make(map[string]*types.Project)}
}

func (m *MemoryStore) Save(ctx context.Context, project *types.Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	prepare(project)
	// Deep copy so later caller mutations don't leak in.
	stored, err := cloneProject(project)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[project.ID] = stored
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*types.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	project, ok := m.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	// Hand back a copy so callers can't mutate the archived document.
	return cloneProject(project)
}

func (m *MemoryStore) List(ctx context.Context) ([]*types.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	projects := make([]*types.Project, 0, len(m.projects))
	for _, p := range m.projects {
		projects = append(projects, &types.Project{ID: p.ID, Title: p.Title, SavedAt: p.SavedAt})
	}
	sortNewestFirst(projects)
	return projects, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.projects, id)
	return nil
}

func cloneProject(project *types.Project) (*types.Project, error) {
	payload, err := json.Marshal(project)
	if err != nil {
		return nil, err
	}
	clone := &types.Project{}
	if err := json.Unmarshal(payload, clone); err != nil {
		return nil, err
	}
	return clone, nil
}

func sortNewestFirst(projects []*types.Project) {
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].SavedAt.After(projects[j].SavedAt)
	})
}
