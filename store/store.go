// ABOUTME: In-memory metrics store for routed requests with bounded history
// ABOUTME: Thread-safe ledger supporting aggregates, rollback queries, and snapshots

package store

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/automigrate/strangler-proxy/models"
)

// Options controls window sizes and the aggregate cost/latency model.
type Options struct {
	ShortWindowSize  int     // aggregate window
	LongWindowSize   int     // lookup/rollback window
	LegacyFallbackMS float64 // reported legacy average before any data
	CloudFallbackMS  float64 // reported cloud average before any data
	LegacyCostPerReq float64
	CloudCostPerReq  float64
}

// DefaultOptions matches the reference deployment: 100/50 windows,
// 2847ms/87ms fallback averages, $0.50/$0.05 per-request rates.
func DefaultOptions() Options {
	return Options{
		ShortWindowSize:  100,
		LongWindowSize:   50,
		LegacyFallbackMS: 2847,
		CloudFallbackMS:  87,
		LegacyCostPerReq: 0.50,
		CloudCostPerReq:  0.05,
	}
}

// Store is the process-wide request ledger and migration state holder.
//
// Two retention policies are kept over the same canonical record stream:
// a short window feeding aggregate statistics and a long window feeding
// identity lookup and rollback queries. IDs come from a single monotonic
// counter, never from window lengths, so they remain unique after eviction.
type Store struct {
	mu   sync.RWMutex
	opts Options

	shortWin []models.RequestRecord
	longWin  []models.RequestRecord

	nextID        int64
	totalRequests int64
	errorCount    int64
	migrationPct  float64

	rollbackStates map[float64]models.RollbackSnapshot
}

func New(opts Options) *Store {
	return &Store{
		opts:           opts,
		shortWin:       make([]models.RequestRecord, 0, opts.ShortWindowSize),
		longWin:        make([]models.RequestRecord, 0, opts.LongWindowSize),
		rollbackStates: make(map[float64]models.RollbackSnapshot),
	}
}

// Log appends one request outcome to both windows, evicting oldest-first
// when a window is full. Returns the created record.
func (s *Store) Log(endpoint string, responseMS float64, source, errMsg string, reqData, respData interface{}) models.RequestRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := models.RequestRecord{
		ID:             s.nextID,
		Timestamp:      models.FormatTime(time.Now()),
		Endpoint:       endpoint,
		ResponseTimeMS: round2(responseMS),
		Source:         source,
		Error:          errMsg,
		RequestData:    reqData,
		ResponseData:   respData,
		MigrationPct:   s.migrationPct,
	}

	s.nextID++
	s.totalRequests++
	if errMsg != "" {
		s.errorCount++
	}

	s.shortWin = append(s.shortWin, rec)
	if len(s.shortWin) > s.opts.ShortWindowSize {
		s.shortWin = s.shortWin[len(s.shortWin)-s.opts.ShortWindowSize:]
	}

	s.longWin = append(s.longWin, rec)
	if len(s.longWin) > s.opts.LongWindowSize {
		s.longWin = s.longWin[len(s.longWin)-s.opts.LongWindowSize:]
	}

	return rec
}

// Aggregate computes summary statistics over the short window only.
// Empty subsets report the configured fallback averages rather than zero.
func (s *Store) Aggregate() models.MetricsSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.aggregateLocked()
}

func (s *Store) aggregateLocked() models.MetricsSummary {
	var legacyCount, cloudCount int
	var legacySum, cloudSum float64

	for _, r := range s.shortWin {
		switch r.Source {
		case models.SourceLegacy:
			legacyCount++
			legacySum += r.ResponseTimeMS
		case models.SourceCloud:
			cloudCount++
			cloudSum += r.ResponseTimeMS
		}
	}

	legacyAvg := s.opts.LegacyFallbackMS
	if legacyCount > 0 {
		legacyAvg = legacySum / float64(legacyCount)
	}
	cloudAvg := s.opts.CloudFallbackMS
	if cloudCount > 0 {
		cloudAvg = cloudSum / float64(cloudCount)
	}

	costSaved := float64(legacyCount)*s.opts.LegacyCostPerReq - float64(cloudCount)*s.opts.CloudCostPerReq

	var perfImprovement float64
	if cloudAvg > 0 {
		perfImprovement = legacyAvg / cloudAvg
	}

	return models.MetricsSummary{
		TotalRequests:   len(s.shortWin),
		LegacyRequests:  legacyCount,
		CloudRequests:   cloudCount,
		LegacyAvgTime:   round2(legacyAvg),
		CloudAvgTime:    round2(cloudAvg),
		ErrorCount:      int(s.errorCount),
		MigrationPct:    s.migrationPct,
		CostSaved:       round2(costSaved),
		PerfImprovement: round1(perfImprovement),
	}
}

// SetPercentage clamps p to [0,100], stores it as current state, and snapshots
// the aggregate under the clamped value. Setting the same value twice
// overwrites the earlier snapshot. Returns the clamped value.
func (s *Store) SetPercentage(p float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.migrationPct = math.Min(100, math.Max(0, p))
	s.rollbackStates[s.migrationPct] = models.RollbackSnapshot{
		Timestamp:    models.FormatTime(time.Now()),
		MigrationPct: s.migrationPct,
		Metrics:      s.aggregateLocked(),
	}
	return s.migrationPct
}

// Percentage returns the current migration percentage.
func (s *Store) Percentage() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.migrationPct
}

// History returns up to limit long-window records, most recent first.
func (s *Store) History(limit int) []models.RequestRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.longWin)
	if limit < 0 || limit > n {
		limit = n
	}

	out := make([]models.RequestRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.longWin[i])
	}
	return out
}

// HistoryLen reports how many records the long window currently holds.
func (s *Store) HistoryLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.longWin)
}

// ByID finds a record in the long window by its id.
func (s *Store) ByID(id int64) (models.RequestRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.longWin {
		if r.ID == id {
			return r, true
		}
	}
	return models.RequestRecord{}, false
}

// RollbackTo reports every long-window record at or after the given
// timestamp. The comparison is lexicographic, which is chronological for the
// fixed-width timestamps this store writes. The report is advisory and
// mutates nothing: forcing the percentage to zero is a separate, explicit
// step taken by the caller.
func (s *Store) RollbackTo(timestamp string) models.RollbackReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	affected := make([]models.RequestRecord, 0)
	for _, r := range s.longWin {
		if r.Timestamp >= timestamp {
			affected = append(affected, r)
		}
	}

	return models.RollbackReport{
		Success:          true,
		RolledBackCount:  len(affected),
		RolledBackSet:    affected,
		PercentageBefore: s.migrationPct,
		Timestamp:        models.FormatTime(time.Now()),
		Message:          fmt.Sprintf("Ready to rollback %d requests", len(affected)),
	}
}

// RollbackStates returns all captured snapshots ordered by percentage,
// plus the current migration percentage.
func (s *Store) RollbackStates() ([]models.RollbackSnapshot, float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]float64, 0, len(s.rollbackStates))
	for k := range s.rollbackStates {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	states := make([]models.RollbackSnapshot, 0, len(keys))
	for _, k := range keys {
		states = append(states, s.rollbackStates[k])
	}
	return states, s.migrationPct
}

// Reset clears all windows, counters, and snapshots and zeroes the
// migration percentage.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shortWin = s.shortWin[:0]
	s.longWin = s.longWin[:0]
	s.nextID = 0
	s.totalRequests = 0
	s.errorCount = 0
	s.migrationPct = 0
	s.rollbackStates = make(map[float64]models.RollbackSnapshot)
}

// TotalRequests is the running all-time count, independent of eviction.
func (s *Store) TotalRequests() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalRequests
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
