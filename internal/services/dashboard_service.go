package services

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"opsdash/config"
	"opsdash/internal/models"
	"opsdash/internal/repositories"

	"github.com/google/uuid"
)

// DashboardService orchestrates the heuristic engine: it owns the
// in-memory dataset, drives recomputation from the feed or the cached
// snapshot, and fronts the calendar. All heavy lifting stays in the
// pure engine functions; this layer only moves data between them and
// the repositories.
type DashboardService struct {
	pipeline  *Pipeline
	store     *Store
	snapshots repositories.SnapshotRepository
	events    repositories.EventRepository
	feedPath  string
	logger    *log.Logger

	// now is swappable for tests; the engine functions take it as a
	// parameter so recomputation stays deterministic.
	now func() time.Time
}

// NewDashboardService wires the service. Repositories must not be nil;
// pass the memory implementations when Redis is unavailable.
func NewDashboardService(snapshots repositories.SnapshotRepository, events repositories.EventRepository, feedPath string, logger *log.Logger) *DashboardService {
	return &DashboardService{
		pipeline:  NewPipeline(),
		store:     NewStore(),
		snapshots: snapshots,
		events:    events,
		feedPath:  feedPath,
		logger:    logger,
		now:       time.Now,
	}
}

// RefreshSummary reports the outcome of a feed refresh.
type RefreshSummary struct {
	RowsRead    int       `json:"rows_read"`
	Issues      int       `json:"issues"`
	Dropped     int       `json:"dropped"`
	FromCache   bool      `json:"from_cache"`
	SyncedAt    time.Time `json:"synced_at"`
	CacheSaved  bool      `json:"cache_saved"`
	CacheFailed bool      `json:"cache_failed"`
}

// Refresh re-reads the feed file, recomputes the dataset and persists
// the raw-row cache. When the feed cannot be read it falls back to the
// cached snapshot; with neither available the dashboard stays empty.
func (s *DashboardService) Refresh(ctx context.Context) (RefreshSummary, error) {
	now := s.now()

	rows, err := config.LoadFeedFile(s.feedPath)
	if err != nil {
		s.logger.Printf("feed read failed (%v), falling back to cached snapshot", err)
		return s.RestoreFromCache(ctx)
	}

	issues := s.pipeline.Recompute(rows, now)
	s.store.Replace(issues, now)

	summary := RefreshSummary{
		RowsRead: len(rows),
		Issues:   len(issues),
		Dropped:  len(rows) - len(issues),
		SyncedAt: now,
	}

	if err := s.snapshots.SaveRows(ctx, rows, now); err != nil {
		s.logger.Printf("snapshot save failed: %v", err)
		summary.CacheFailed = true
	} else {
		summary.CacheSaved = true
	}
	return summary, nil
}

// RestoreFromCache rebuilds the dataset from the last persisted rows.
func (s *DashboardService) RestoreFromCache(ctx context.Context) (RefreshSummary, error) {
	rows, syncedAt, err := s.snapshots.LoadRows(ctx)
	if err != nil {
		return RefreshSummary{}, err
	}

	issues := s.pipeline.Recompute(rows, s.now())
	s.store.Replace(issues, syncedAt)
	return RefreshSummary{
		RowsRead:  len(rows),
		Issues:    len(issues),
		Dropped:   len(rows) - len(issues),
		FromCache: true,
		SyncedAt:  syncedAt,
	}, nil
}

// Issues returns the dataset filtered by the basic dashboard controls.
func (s *DashboardService) Issues(filter models.FilterSelection) []models.Issue {
	var out []models.Issue
	for _, issue := range s.store.Issues() {
		if matchesFilter(&issue, filter) {
			out = append(out, issue)
		}
	}
	return out
}

func matchesFilter(issue *models.Issue, f models.FilterSelection) bool {
	if f.Module != "" && !strings.EqualFold(issue.ModuleNorm, f.Module) {
		return false
	}
	if f.Priority != "" && !strings.EqualFold(issue.PriorityNorm, f.Priority) {
		return false
	}
	if f.Status != "" && !strings.Contains(strings.ToLower(issue.StatusNorm), strings.ToLower(f.Status)) {
		return false
	}
	if f.From != "" {
		from := ParseFeedDate(f.From)
		if from != nil && (issue.Date == nil || issue.Date.Before(*from)) {
			return false
		}
	}
	if f.To != "" {
		to := ParseFeedDate(f.To)
		if to != nil && (issue.Date == nil || issue.Date.After(*to)) {
			return false
		}
	}
	if f.Search != "" && !strings.Contains(issue.SearchBlob(), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// RunQuery executes one line of the filter language.
func (s *DashboardService) RunQuery(line string) []models.Issue {
	return ParseQuery(line).Run(s.store.Issues(), s.now())
}

// Triage returns the ranked queue of inconsistent open issues.
func (s *DashboardService) Triage() []TriageItem {
	return BuildTriageQueue(s.store.Issues())
}

// Trends returns emerging vs stable themes over the dataset windows.
func (s *DashboardService) Trends() TrendReport {
	return AnalyzeTrends(s.store.Issues())
}

// ClusterView is the clusters endpoint payload: the thematic display
// buckets plus the dataset-wide ranked label tallies.
type ClusterView struct {
	Buckets []Bucket     `json:"buckets"`
	Labels  []LabelScore `json:"labels"`
}

// Clusters returns the thematic dashboard buckets and aggregated
// labels.
func (s *DashboardService) Clusters() ClusterView {
	issues := s.store.Issues()
	return ClusterView{
		Buckets: ClusterBuckets(issues),
		Labels:  AggregateLabels(issues),
	}
}

// IssueAssessment is the deep analytics view of one issue: the
// unbounded weighted score plus the ranked labels.
type IssueAssessment struct {
	Issue      models.Issue   `json:"issue"`
	Assessment RiskAssessment `json:"assessment"`
	Labels     []LabelScore   `json:"labels"`
}

// Assess runs the weighted strategy and label ranking for one issue.
func (s *DashboardService) Assess(id string) (*IssueAssessment, bool) {
	issue := s.store.Find(id)
	if issue == nil {
		return nil, false
	}
	return &IssueAssessment{
		Issue:      *issue,
		Assessment: s.pipeline.Assess(issue),
		Labels:     RankedLabels(issue.Title + " " + issue.Description),
	}, true
}

// DeepKeywords runs the NLP extractor for one issue.
func (s *DashboardService) DeepKeywords(id string, limit int) ([]KeywordResult, bool, error) {
	issue := s.store.Find(id)
	if issue == nil {
		return nil, false, nil
	}
	keywords, err := NewDeepKeywordExtractor().Extract(issue, limit)
	return keywords, true, err
}

// Summary is the KPI block at the top of the dashboard. Only open
// issues feed the risk figures.
type Summary struct {
	TotalIssues  int            `json:"total_issues"`
	OpenIssues   int            `json:"open_issues"`
	ClosedIssues int            `json:"closed_issues"`
	AvgRisk      float64        `json:"avg_risk"`
	MaxRisk      float64        `json:"max_risk"`
	ByModule     map[string]int `json:"by_module"`
	ByPriority   map[string]int `json:"by_priority"`
	TopTerms     []CorpusTerm   `json:"top_terms"`
	SyncedAt     time.Time      `json:"synced_at"`
}

// Summarize computes the dashboard KPIs.
func (s *DashboardService) Summarize() Summary {
	issues := s.store.Issues()
	open := s.store.OpenIssues()

	summary := Summary{
		TotalIssues:  len(issues),
		OpenIssues:   len(open),
		ClosedIssues: len(issues) - len(open),
		ByModule:     make(map[string]int),
		ByPriority:   make(map[string]int),
		SyncedAt:     s.store.SyncedAt(),
	}

	for _, issue := range open {
		summary.ByModule[issue.ModuleNorm]++
		summary.ByPriority[issue.PriorityNorm]++
		summary.AvgRisk += issue.RiskScore
		if issue.RiskScore > summary.MaxRisk {
			summary.MaxRisk = issue.RiskScore
		}
	}
	if len(open) > 0 {
		summary.AvgRisk = round1(summary.AvgRisk / float64(len(open)))
	}
	summary.TopTerms = NewCorpusExtractor(open).TopTerms(10)
	return summary
}

// Export writes the given issues (or the full table when nil) through
// the CSV exporter. Kept here so handlers stay thin.
func (s *DashboardService) ExportIssues(line string) []models.Issue {
	if strings.TrimSpace(line) == "" {
		return s.store.Issues()
	}
	return s.RunQuery(line)
}

// ListEvents returns the calendar with risk scored against the current
// open issues, soonest first.
func (s *DashboardService) ListEvents(ctx context.Context) ([]models.Event, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, err
	}
	open := s.store.OpenIssues()
	for i := range events {
		events[i].RiskScore = ComputeEventRisk(&events[i], open)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
	return events, nil
}

// CreateEvent validates and persists a new calendar event, generating
// an id when the caller did not supply one.
func (s *DashboardService) CreateEvent(ctx context.Context, event models.Event) (models.Event, error) {
	if err := event.Validate(); err != nil {
		return models.Event{}, err
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	events, err := s.events.List(ctx)
	if err != nil {
		return models.Event{}, err
	}
	events = append(events, event)
	if err := s.events.ReplaceAll(ctx, events); err != nil {
		return models.Event{}, err
	}
	event.RiskScore = ComputeEventRisk(&event, s.store.OpenIssues())
	return event, nil
}

// UpdateEvent replaces an existing event in the persisted snapshot.
func (s *DashboardService) UpdateEvent(ctx context.Context, event models.Event) (models.Event, bool, error) {
	if err := event.Validate(); err != nil {
		return models.Event{}, false, err
	}

	events, err := s.events.List(ctx)
	if err != nil {
		return models.Event{}, false, err
	}
	found := false
	for i := range events {
		if events[i].ID == event.ID {
			events[i] = event
			found = true
			break
		}
	}
	if !found {
		return models.Event{}, false, nil
	}
	if err := s.events.ReplaceAll(ctx, events); err != nil {
		return models.Event{}, false, err
	}
	event.RiskScore = ComputeEventRisk(&event, s.store.OpenIssues())
	return event, true, nil
}

// DeleteEvent removes an event from the persisted snapshot.
func (s *DashboardService) DeleteEvent(ctx context.Context, id string) (bool, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return false, err
	}
	kept := events[:0]
	found := false
	for _, e := range events {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return false, nil
	}
	return true, s.events.ReplaceAll(ctx, kept)
}

// Collisions reports every same-env overlapping event pair.
func (s *DashboardService) Collisions(ctx context.Context) ([]Collision, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, err
	}
	return DetectCollisions(events), nil
}

// AssignRelease merges issue ids into a release's assignment set.
func (s *DashboardService) AssignRelease(ctx context.Context, releaseID string, issueIDs []string) error {
	return s.events.MergeAssignments(ctx, releaseID, issueIDs)
}

// Assignments returns the release-assignment map.
func (s *DashboardService) Assignments(ctx context.Context) (map[string][]string, error) {
	return s.events.Assignments(ctx)
}

// PlanSlots scores candidate release slots against the open issues and
// the existing calendar.
func (s *DashboardService) PlanSlots(ctx context.Context, planCtx PlanContext) ([]Slot, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, err
	}
	return SuggestSlots(planCtx, s.store.OpenIssues(), events, s.now()), nil
}

// SaveFilters persists the dashboard filter selections.
func (s *DashboardService) SaveFilters(ctx context.Context, filters models.FilterSelection) error {
	return s.snapshots.SaveFilters(ctx, filters)
}

// Filters loads the saved filter selections.
func (s *DashboardService) Filters(ctx context.Context) (models.FilterSelection, error) {
	return s.snapshots.LoadFilters(ctx)
}
