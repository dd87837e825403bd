package metrics

import "sync"

// Mock records calls for tests. It is safe for concurrent use.
type Mock struct {
	mu                sync.Mutex
	generations       map[string]int
	durations         []float64
	slots             []int
	matchesWritten    map[string]int
	invariantFailures int
	venueFallbacks    int
}

var _ Metrics = (*Mock)(nil)

func NewMock() *Mock {
	return &Mock{
		generations:    make(map[string]int),
		matchesWritten: make(map[string]int),
	}
}

func (m *Mock) IncGenerations(operation, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generations[operation+"/"+outcome]++
}

func (m *Mock) ObserveGenerationDuration(_ string, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durations = append(m.durations, seconds)
}

func (m *Mock) ObserveSlots(slots int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots = append(m.slots, slots)
}

func (m *Mock) AddMatchesWritten(operation string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesWritten[operation] += n
}

func (m *Mock) IncInvariantFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invariantFailures++
}

func (m *Mock) IncVenueFallbacks(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.venueFallbacks += n
}

// Generations returns how often operation ended with outcome.
func (m *Mock) Generations(operation, outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generations[operation+"/"+outcome]
}

func (m *Mock) MatchesWritten(operation string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesWritten[operation]
}

func (m *Mock) InvariantFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invariantFailures
}

func (m *Mock) VenueFallbacks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.venueFallbacks
}
