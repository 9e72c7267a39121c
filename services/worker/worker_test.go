package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"sjsage522/robotscraper/helpers"
	"sjsage522/robotscraper/internal/crawler"
	"sjsage522/robotscraper/services/publisher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockCrawler implements the crawler.Crawler interface for testing
type MockCrawler struct {
	name    string
	records map[string]*crawler.RobotRecord
	errs    map[string]error
	delay   time.Duration

	inFlight    int32
	maxInFlight int32
}

// Ensure MockCrawler implements crawler.Crawler
var _ crawler.Crawler = (*MockCrawler)(nil)

func (m *MockCrawler) Scrape(ctx context.Context, target crawler.Target) (*crawler.RobotRecord, error) {
	n := atomic.AddInt32(&m.inFlight, 1)
	defer atomic.AddInt32(&m.inFlight, -1)
	for {
		peak := atomic.LoadInt32(&m.maxInFlight)
		if n <= peak || atomic.CompareAndSwapInt32(&m.maxInFlight, peak, n) {
			break
		}
	}

	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if err, ok := m.errs[target.Key]; ok {
		return nil, err
	}
	return m.records[target.Key], nil
}

func (m *MockCrawler) GetName() string {
	return m.name
}

// PanickingCrawler panics on every target
type PanickingCrawler struct{}

func (PanickingCrawler) Scrape(ctx context.Context, target crawler.Target) (*crawler.RobotRecord, error) {
	panic("boom")
}

func (PanickingCrawler) GetName() string {
	return "PanickingCrawler"
}

// MockPublisher implements the publisher.Publisher interface for testing
type MockPublisher struct {
	mu       sync.Mutex
	messages map[string][]byte
	err      error
}

// Ensure MockPublisher implements publisher.Publisher
var _ publisher.Publisher = (*MockPublisher)(nil)

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		messages: make(map[string][]byte),
	}
}

func (m *MockPublisher) Publish(key string, message []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	messageCopy := make([]byte, len(message))
	copy(messageCopy, message)
	m.messages[key] = messageCopy
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}

// MockLogger implements the helpers.LoggerInterface for testing
type MockLogger struct {
	mu     sync.Mutex
	errors []string
	infos  []string
}

// Ensure MockLogger implements helpers.LoggerInterface
var _ helpers.LoggerInterface = (*MockLogger)(nil)

func NewMockLogger() *MockLogger {
	return &MockLogger{
		errors: make([]string, 0),
		infos:  make([]string, 0),
	}
}

func (m *MockLogger) LogError(target string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, target+": "+err.Error())
}

func (m *MockLogger) LogInfo(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, fmt.Sprintf(format, args...))
}

func record(name string) *crawler.RobotRecord {
	return &crawler.RobotRecord{
		Name:         name,
		Manufacturer: "Boston Dynamics",
		Type:         crawler.NotAvailable,
		Specs:        crawler.Specs{Weight: "32.5 kg", Payload: crawler.NotAvailable, Speed: "1.6 m/s"},
		Modules:      crawler.PlaceholderModules(),
	}
}

func targets(keys ...string) []crawler.Target {
	out := make([]crawler.Target, 0, len(keys))
	for _, k := range keys {
		out = append(out, crawler.Target{Key: k, URL: "https://example.com/wiki/" + k})
	}
	return out
}

// TestWorkerRun tests that successes are aggregated and failures are skipped
func TestWorkerRun(t *testing.T) {
	mockLogger := NewMockLogger()
	mockPublisher := NewMockPublisher()

	mockCrawler := &MockCrawler{
		name: "TestCrawler",
		records: map[string]*crawler.RobotRecord{
			"spot":  record("Spot"),
			"atlas": record("Atlas"),
		},
		errs: map[string]error{
			"asimo": errors.New("fetch unexpected status code: 404"),
		},
	}

	w := NewWorker(targets("spot", "asimo", "atlas"), mockCrawler, mockPublisher, mockLogger, 1)
	result := w.Run(context.Background())

	assert.Len(t, result.Robots, 2)
	assert.Equal(t, "Spot", result.Robots["spot"].Name)
	assert.Equal(t, "Atlas", result.Robots["atlas"].Name)
	assert.NotContains(t, result.Robots, "asimo")

	assert.Equal(t, []string{"spot", "atlas"}, result.Succeeded)
	assert.Equal(t, []string{"asimo"}, result.Failed)

	require.Len(t, mockLogger.errors, 1)
	assert.Contains(t, mockLogger.errors[0], "asimo")
	assert.Contains(t, mockLogger.errors[0], "404")

	// Each success is published as JSON under its key
	require.Contains(t, mockPublisher.messages, "spot")
	var published crawler.RobotRecord
	require.NoError(t, json.Unmarshal(mockPublisher.messages["spot"], &published))
	assert.Equal(t, "Spot", published.Name)
	assert.NotContains(t, mockPublisher.messages, "asimo")
}

// TestWorkerDuplicateKeysLastWins tests that a repeated key keeps the later record
func TestWorkerDuplicateKeysLastWins(t *testing.T) {
	mockCrawler := &MockCrawler{name: "TestCrawler"}
	calls := 0
	dup := &sequenceCrawler{
		MockCrawler: mockCrawler,
		next: func() *crawler.RobotRecord {
			calls++
			return record(fmt.Sprintf("Spot v%d", calls))
		},
	}

	w := NewWorker(targets("spot", "spot"), dup, nil, NewMockLogger(), 1)
	result := w.Run(context.Background())

	assert.Len(t, result.Robots, 1)
	assert.Equal(t, "Spot v2", result.Robots["spot"].Name)
}

type sequenceCrawler struct {
	*MockCrawler
	next func() *crawler.RobotRecord
}

func (s *sequenceCrawler) Scrape(ctx context.Context, target crawler.Target) (*crawler.RobotRecord, error) {
	return s.next(), nil
}

// TestWorkerConcurrentMatchesSequential tests that concurrency does not change the result
func TestWorkerConcurrentMatchesSequential(t *testing.T) {
	keys := []string{"spot", "atlas", "asimo", "optimus", "digit", "handle"}
	records := make(map[string]*crawler.RobotRecord)
	for _, k := range keys {
		records[k] = record(k)
	}
	errs := map[string]error{"optimus": errors.New("parse failure")}

	sequential := NewWorker(targets(keys...), &MockCrawler{name: "seq", records: records, errs: errs}, nil, NewMockLogger(), 1).
		Run(context.Background())

	concurrentCrawler := &MockCrawler{name: "conc", records: records, errs: errs, delay: 20 * time.Millisecond}
	concurrent := NewWorker(targets(keys...), concurrentCrawler, nil, NewMockLogger(), 3).
		Run(context.Background())

	assert.Equal(t, sequential.Robots, concurrent.Robots)
	assert.Equal(t, sequential.Succeeded, concurrent.Succeeded)
	assert.Equal(t, sequential.Failed, concurrent.Failed)
	assert.LessOrEqual(t, atomic.LoadInt32(&concurrentCrawler.maxInFlight), int32(3))
}

// TestWorkerPublishErrorDoesNotFailTarget tests that publisher errors are only logged
func TestWorkerPublishErrorDoesNotFailTarget(t *testing.T) {
	mockPublisher := NewMockPublisher()
	mockPublisher.err = errors.New("redis down")

	mockCrawler := &MockCrawler{
		name:    "TestCrawler",
		records: map[string]*crawler.RobotRecord{"spot": record("Spot")},
	}

	mockLogger := NewMockLogger()
	result := NewWorker(targets("spot"), mockCrawler, mockPublisher, mockLogger, 1).Run(context.Background())

	assert.Contains(t, result.Robots, "spot")
	assert.Empty(t, mockLogger.errors)
}

// TestWorkerRecoversFromPanic tests that a panicking target is treated as a failure
func TestWorkerRecoversFromPanic(t *testing.T) {
	mockLogger := NewMockLogger()
	result := NewWorker(targets("spot", "atlas"), PanickingCrawler{}, nil, mockLogger, 2).Run(context.Background())

	assert.Empty(t, result.Robots)
	assert.Equal(t, []string{"spot", "atlas"}, result.Failed)
	assert.Len(t, mockLogger.errors, 2)
}

// TestWorkerCancelledContext tests that a cancelled run scrapes nothing
func TestWorkerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mockCrawler := &MockCrawler{
		name:    "TestCrawler",
		records: map[string]*crawler.RobotRecord{"spot": record("Spot")},
	}
	result := NewWorker(targets("spot"), mockCrawler, nil, NewMockLogger(), 1).Run(ctx)

	assert.Empty(t, result.Robots)
	assert.Equal(t, []string{"spot"}, result.Failed)
}

// TestWorkerNilRecord tests that a crawler returning neither record nor error is a failure
func TestWorkerNilRecord(t *testing.T) {
	mockCrawler := &MockCrawler{name: "TestCrawler", records: map[string]*crawler.RobotRecord{}}
	result := NewWorker(targets("spot"), mockCrawler, nil, NewMockLogger(), 1).Run(context.Background())

	assert.Empty(t, result.Robots)
	assert.Equal(t, []string{"spot"}, result.Failed)
}
