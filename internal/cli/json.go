package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianvz/mailterm/internal/domain"
)

// printJSON writes v as indented JSON to stdout, the shape every
// --json command emits.
func printJSON(v any) error {
	return writeJSON(os.Stdout, v)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// jsonMessage is the wire shape for message listings.
type jsonMessage struct {
	ID       string   `json:"id"`
	ThreadID string   `json:"thread_id,omitempty"`
	From     string   `json:"from"`
	To       string   `json:"to,omitempty"`
	Subject  string   `json:"subject"`
	Snippet  string   `json:"snippet,omitempty"`
	Date     string   `json:"date,omitempty"`
	Unread   bool     `json:"unread"`
	Starred  bool     `json:"starred"`
	Labels   []string `json:"labels,omitempty"`
}

func toJSONMessages(msgs []domain.Message) []jsonMessage {
	out := make([]jsonMessage, 0, len(msgs))
	for _, m := range msgs {
		date := m.RawDate
		if date == "" && !m.ReceivedAt.IsZero() {
			date = m.ReceivedAt.Format(time.RFC3339)
		}
		out = append(out, jsonMessage{
			ID:       m.ID,
			ThreadID: m.ThreadID,
			From:     m.From,
			To:       m.To,
			Subject:  m.Subject,
			Snippet:  m.Snippet,
			Date:     date,
			Unread:   m.IsUnread,
			Starred:  m.IsStarred,
			Labels:   m.Labels,
		})
	}
	return out
}

// jsonLabel is the wire shape for label listings.
type jsonLabel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

func toJSONLabels(labels []domain.Label) []jsonLabel {
	out := make([]jsonLabel, 0, len(labels))
	for _, l := range labels {
		out = append(out, jsonLabel{
			ID:   l.ID,
			Name: l.Name,
			Type: string(l.Type),
		})
	}
	return out
}

// jsonAction reports the outcome of a state-changing command.
type jsonAction struct {
	OK        bool   `json:"ok"`
	Action    string `json:"action"`
	MessageID string `json:"message_id,omitempty"`
	Removed   int64  `json:"removed,omitempty"`
}
