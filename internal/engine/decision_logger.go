package engine

import (
	"fmt"
	"io"
	"os"
	"time"

	json "github.com/goccy/go-json"

	"kcbot/internal/strategy"
)

type Decision struct {
	RunID          string          `json:"run_id"`
	Timestamp      time.Time       `json:"timestamp"`
	BarTime        time.Time       `json:"bar_time"`
	Symbol         string          `json:"symbol"`
	Balance        float64         `json:"balance"`
	Close          float64         `json:"close,omitempty"`
	SMA            float64         `json:"sma,omitempty"`
	Intent         strategy.Action `json:"intent,omitempty"`
	Size           string          `json:"size,omitempty"`
	Leverage       int             `json:"leverage,omitempty"`
	Reason         string          `json:"reason,omitempty"`
	Result         string          `json:"result"`
	ApprovalReason string          `json:"approval_reason,omitempty"`
	RejectReason   string          `json:"reject_reason,omitempty"`
	OrderID        string          `json:"order_id,omitempty"`
	ClientOrderID  string          `json:"client_order_id,omitempty"`
	APIMessage     string          `json:"api_message,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// DecisionLogger writes one NDJSON record per run.
type DecisionLogger struct {
	runID string
	w     io.Writer
}

func NewDecisionLogger(w io.Writer, runID string) *DecisionLogger {
	return &DecisionLogger{runID: runID, w: w}
}

func (d *DecisionLogger) RunID() string {
	return d.runID
}

func (d *DecisionLogger) Append(decision Decision) {
	payload, err := json.Marshal(decision)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal decision: %v\n", err)
		return
	}
	if _, err := d.w.Write(append(payload, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write decision: %v\n", err)
	}
}
