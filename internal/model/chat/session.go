package chat

// Session is the single persisted unit of user state. Messages only grow
// until the session is cleared; extracted text is replaced per upload.
type Session struct {
	Screenshot    *string   `json:"screenshot"`
	ExtractedText string    `json:"extractedText"`
	Messages      []Message `json:"messages"`
}
