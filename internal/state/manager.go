package state

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/tradecortex/tradecortex/internal/models"
)

// Manager owns the active trading session and its typed artifacts. All
// operations that require a session silently no-op when none is active; a
// session-less call is an expected state during teardown, not an error.
//
// A single mutex serializes every mutation: the analyst fan-out publishes
// reports from several goroutines.
type Manager struct {
	mu sync.Mutex

	current *models.TradingSession
	history []*models.TradingSession

	messageCounter int

	// Per-(date, symbol) call-chain counter. Resets when the symbol or the
	// date changes; monotonic within one scope.
	chainDate   string
	chainSymbol string
	chainSeq    int

	now func() time.Time
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{now: time.Now}
}

// StartSession opens a new session for the symbol and returns its id.
func (m *Manager) StartSession(symbol string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	sessionID := fmt.Sprintf("session_%s_%s", now.Format("20060102_150405"), symbol)
	m.current = &models.TradingSession{
		SessionID: sessionID,
		Symbol:    symbol,
		StartTime: now,
	}
	return sessionID
}

// EndSession moves the current session to history. Idempotent.
func (m *Manager) EndSession() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return
	}
	m.current.EndTime = m.now()
	m.history = append(m.history, m.current)
	m.current = nil
}

// HasSession reports whether a session is active.
func (m *Manager) HasSession() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil
}

// CurrentSymbol returns the active session's symbol, or "".
func (m *Manager) CurrentSymbol() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return ""
	}
	return m.current.Symbol
}

// History returns the ended sessions, oldest first.
func (m *Manager) History() []*models.TradingSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.TradingSession, len(m.history))
	copy(out, m.history)
	return out
}

// AddAnalysisReport routes the report into its slot by analyst role. A
// second write to the same slot silently overwrites, matching the source
// system's last-write-wins behavior.
func (m *Manager) AddAnalysisReport(report *models.AnalysisReport) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return
	}
	switch report.AnalystRole {
	case models.FundamentalAnalyst:
		m.current.FundamentalReport = report
	case models.SentimentAnalyst:
		m.current.SentimentReport = report
	case models.NewsAnalyst:
		m.current.NewsReport = report
	case models.TechnicalAnalyst:
		m.current.TechnicalReport = report
	}
}

// AnalysisReports returns the published reports keyed by analyst type.
func (m *Manager) AnalysisReports() map[string]*models.AnalysisReport {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return map[string]*models.AnalysisReport{}
	}
	return m.current.Reports()
}

// StartResearchDebate attaches a fresh research debate state to the
// session. Without a session a detached state is returned so coordinators
// stay functional.
func (m *Manager) StartResearchDebate(participants []models.AgentRole, maxRounds int) *models.DebateState {
	m.mu.Lock()
	defer m.mu.Unlock()

	ds := &models.DebateState{Participants: participants, MaxRounds: maxRounds}
	if m.current != nil {
		m.current.ResearchDebate = ds
	}
	return ds
}

// StartRiskDebate attaches a fresh risk debate state to the session.
func (m *Manager) StartRiskDebate(participants []models.AgentRole, maxRounds int) *models.DebateState {
	m.mu.Lock()
	defer m.mu.Unlock()

	ds := &models.DebateState{Participants: participants, MaxRounds: maxRounds}
	if m.current != nil {
		m.current.RiskDebate = ds
	}
	return ds
}

// AddDebateMessage appends a message to the selected debate in strict
// temporal order and returns it. Without a session the message is built
// but not stored.
func (m *Manager) AddDebateMessage(kind models.DebateKind, round int, sender models.AgentRole, content, model, provider string) models.DebateMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.messageCounter++
	msg := models.DebateMessage{
		ID:        fmt.Sprintf("msg_%d", m.messageCounter),
		Round:     round,
		Speaker:   sender,
		Content:   content,
		Timestamp: m.now(),
		Model:     model,
		Provider:  provider,
	}

	if m.current == nil {
		return msg
	}
	switch kind {
	case models.ResearchDebate:
		if m.current.ResearchDebate != nil {
			m.current.ResearchDebate.Messages = append(m.current.ResearchDebate.Messages, msg)
			m.current.ResearchDebate.CurrentRound = round
		}
	case models.RiskDebate:
		if m.current.RiskDebate != nil {
			m.current.RiskDebate.Messages = append(m.current.RiskDebate.Messages, msg)
			m.current.RiskDebate.CurrentRound = round
		}
	}
	return msg
}

// SetTradingDecision fills the trader slot.
func (m *Manager) SetTradingDecision(decision *models.TradingDecision) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return
	}
	m.current.TraderDecision = decision
}

// SetRiskManagementDecision fills the risk manager slot.
func (m *Manager) SetRiskManagementDecision(decision *models.RiskDecision) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return
	}
	m.current.RiskManagementDecision = decision
}

// SetFinalRecommendation fills the fund manager slot.
func (m *Manager) SetFinalRecommendation(decision *models.InvestmentDecision) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return
	}
	m.current.FinalRecommendation = decision
}

// AddExecutedTrade appends to the session's trade log.
func (m *Manager) AddExecutedTrade(trade map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return
	}
	trade["timestamp"] = m.now().Format(time.RFC3339)
	m.current.ExecutedTrades = append(m.current.ExecutedTrades, trade)
}

// UpdatePerformanceMetrics merges metrics into the session.
func (m *Manager) UpdatePerformanceMetrics(metrics map[string]float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return
	}
	if m.current.PerformanceMetrics == nil {
		m.current.PerformanceMetrics = make(map[string]float64)
	}
	for k, v := range metrics {
		m.current.PerformanceMetrics[k] = v
	}
}

// CurrentSnapshot returns a deep copy of the active session for logging,
// or nil. Readers never observe a partially-written session.
func (m *Manager) CurrentSnapshot() *models.TradingSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return nil
	}
	data, err := json.Marshal(m.current)
	if err != nil {
		return nil
	}
	var snapshot models.TradingSession
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil
	}
	return &snapshot
}

// SaveSession writes the current session state as JSON. No-op without a
// session.
func (m *Manager) SaveSession(path string) error {
	snapshot := m.CurrentSnapshot()
	if snapshot == nil {
		return nil
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// NextChainSeq hands out the next call-chain sequence number for the
// symbol. The counter starts at 1 and resets when the date or the symbol
// changes.
func (m *Manager) NextChainSeq(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	date := m.now().Format("2006-01-02")
	if m.chainDate != date || m.chainSymbol != symbol {
		m.chainDate = date
		m.chainSymbol = symbol
		m.chainSeq = 0
	}
	m.chainSeq++
	return m.chainSeq
}
