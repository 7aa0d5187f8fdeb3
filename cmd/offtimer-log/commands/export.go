package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/offtimer/offtimer-go/pkg/log"
)

// jsonEvent is the JSONL shape of an event; kinds are written by name.
type jsonEvent struct {
	Timestamp   time.Time             `json:"timestamp"`
	CycleID     string                `json:"cycle_id,omitempty"`
	Kind        string                `json:"kind"`
	Deadline    *time.Time            `json:"deadline,omitempty"`
	Remaining   *uint32               `json:"remaining,omitempty"`
	Intent      *log.IntentData       `json:"intent,omitempty"`
	StateChange *log.StateChangeEvent `json:"state_change,omitempty"`
	Error       *log.ErrorEventData   `json:"error,omitempty"`
}

// RunExport writes the events of the log file to w in the given format
// (jsonl or csv).
func RunExport(path, format string, w io.Writer) error {
	var export func(*log.Reader, io.Writer) error
	switch format {
	case "jsonl":
		export = exportJSONL
	case "csv":
		export = exportCSV
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}

	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	return export(reader, w)
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		je := jsonEvent{
			Timestamp:   event.Timestamp,
			CycleID:     event.CycleID,
			Kind:        event.Kind.String(),
			Deadline:    event.Deadline,
			Remaining:   event.Remaining,
			Intent:      event.Intent,
			StateChange: event.StateChange,
			Error:       event.Error,
		}
		if err := encoder.Encode(je); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "cycle_id", "kind", "deadline", "remaining", "intent", "reason", "error"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		var deadline, remaining, intent, reason, errMsg string
		if event.Deadline != nil {
			deadline = event.Deadline.UTC().Format(timestampLayout)
		}
		if event.Remaining != nil {
			remaining = strconv.FormatUint(uint64(*event.Remaining), 10)
		}
		if event.Intent != nil {
			intent = describeIntent(event.Intent)
		}
		if event.StateChange != nil {
			reason = event.StateChange.Reason
		}
		if event.Error != nil {
			errMsg = event.Error.Message
		}

		row := []string{
			event.Timestamp.UTC().Format(timestampLayout),
			event.CycleID,
			event.Kind.String(),
			deadline,
			remaining,
			intent,
			reason,
			errMsg,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
