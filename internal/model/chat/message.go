package chat

// Roles a message can carry in the transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single immutable conversation turn.
type Message struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}
