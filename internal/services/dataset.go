package services

import (
	"sync"
	"time"

	"opsdash/internal/models"
)

// keywordTopN is how many ranked keywords each issue carries.
const keywordTopN = 6

// Pipeline derives the full issue dataset from raw feed rows. It owns
// no state beyond its strategies; Recompute is a pure function of
// (rows, now) and running it twice on the same input yields identical
// output in the same order.
type Pipeline struct {
	normalizer *Normalizer
	bounded    RiskStrategy
	weighted   RiskStrategy
}

func NewPipeline() *Pipeline {
	return &Pipeline{
		normalizer: NewNormalizer(),
		bounded:    NewBoundedRiskStrategy(),
		weighted:   NewWeightedRiskStrategy(),
	}
}

// Recompute normalizes every row, drops the ones without an id, and
// attaches keywords, category and the bounded risk assessment.
func (p *Pipeline) Recompute(rows []models.RawRow, now time.Time) []models.Issue {
	var issues []models.Issue
	for _, row := range rows {
		issue, ok := p.normalizer.NormalizeRow(row, now)
		if !ok {
			continue
		}

		issue.Keywords = TopKeywords(issue.Title+" "+issue.Description, keywordTopN)
		issue.Category = Categorize(issue.Title + " " + issue.Description)

		assessment := p.bounded.Score(&issue)
		issue.RiskScore = assessment.Total
		issue.Severity = assessment.Severity
		issue.Impact = assessment.Impact
		issue.Urgency = assessment.Urgency

		issues = append(issues, issue)
	}
	return issues
}

// Assess runs the unbounded weighted-dimension strategy for the deeper
// analytics view of one issue.
func (p *Pipeline) Assess(issue *models.Issue) RiskAssessment {
	return p.weighted.Score(issue)
}

// Store holds the current derived dataset. The dataset is always
// replaced wholesale (no incremental merge), so readers either see the
// previous snapshot or the new one, never a mix.
type Store struct {
	mu       sync.RWMutex
	issues   []models.Issue
	syncedAt time.Time
}

func NewStore() *Store {
	return &Store{}
}

// Replace swaps in a freshly recomputed dataset.
func (s *Store) Replace(issues []models.Issue, syncedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issues = issues
	s.syncedAt = syncedAt
}

// Issues returns the current dataset.
func (s *Store) Issues() []models.Issue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.issues
}

// OpenIssues returns the issues not yet closed; these feed every
// risk/backlog aggregate.
func (s *Store) OpenIssues() []models.Issue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var open []models.Issue
	for _, issue := range s.issues {
		if !issue.IsClosed {
			open = append(open, issue)
		}
	}
	return open
}

// SyncedAt reports when the dataset was last replaced.
func (s *Store) SyncedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.syncedAt
}

// Find returns the issue with the given id, or nil.
func (s *Store) Find(id string) *models.Issue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.issues {
		if s.issues[i].ID == id {
			issue := s.issues[i]
			return &issue
		}
	}
	return nil
}
