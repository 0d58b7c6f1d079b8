package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogAgentOutputAppends(t *testing.T) {
	dir := t.TempDir()
	logger := New(dir)

	if err := logger.LogAgentOutput("Technical Analyst", "aapl", "analysis", "first block"); err != nil {
		t.Fatalf("LogAgentOutput: %v", err)
	}
	if err := logger.LogAgentOutput("Technical Analyst", "aapl", "analysis", "second block"); err != nil {
		t.Fatalf("LogAgentOutput: %v", err)
	}

	date := time.Now().Format("2006-01-02")
	path := filepath.Join(dir, "markdown", date, "AAPL", "technical_analyst.md")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("transcript not written: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "first block") || !strings.Contains(content, "second block") {
		t.Fatalf("transcript should accumulate both blocks:\n%s", content)
	}
	if strings.Index(content, "first block") > strings.Index(content, "second block") {
		t.Fatalf("blocks out of order")
	}
}

func TestLogWorkflowStageMarksFailures(t *testing.T) {
	dir := t.TempDir()
	logger := New(dir)

	if err := logger.LogWorkflowStage("AAPL", "analysis start", "", true); err != nil {
		t.Fatalf("LogWorkflowStage: %v", err)
	}
	if err := logger.LogWorkflowStage("AAPL", "debate failed", "timeout", false); err != nil {
		t.Fatalf("LogWorkflowStage: %v", err)
	}

	date := time.Now().Format("2006-01-02")
	data, err := os.ReadFile(filepath.Join(dir, "markdown", date, "AAPL", "workflow.md"))
	if err != nil {
		t.Fatalf("workflow log not written: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "[OK]") || !strings.Contains(content, "[FAILED]") {
		t.Fatalf("status markers missing:\n%s", content)
	}
}

func TestWriteChainArtifactNaming(t *testing.T) {
	dir := t.TempDir()
	logger := New(dir)

	if err := logger.WriteChainArtifact(7, "Fund Manager", "msft", "chain content"); err != nil {
		t.Fatalf("WriteChainArtifact: %v", err)
	}

	date := time.Now().Format("2006-01-02")
	path := filepath.Join(dir, "llm", date, "MSFT", "07.fund_manager.md")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("chain artifact missing at %s: %v", path, err)
	}
}
