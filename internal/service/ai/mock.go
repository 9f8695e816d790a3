package ai

import "strings"

// mockTranscript is returned by ExtractText whenever the provider cannot be
// used. It is intentionally fixed so the UI stays fully functional in
// demo/offline mode.
const mockTranscript = `Screenshot Analysis:

Title: Dashboard Overview
Date: March 15, 2025
User: John Doe
Status: Active

Key Metrics:
- Total Users: 1,245
- Active Sessions: 87
- Conversion Rate: 3.2%
- Revenue: $12,450

Recent Activity:
- 3 new sign-ups in the last hour
- 15 completed transactions
- 2 support tickets opened

System Status: All systems operational
Last Updated: 10:45 AM`

// mockChatReply is the fixed chat fallback, independent of the question.
const mockChatReply = `Based on the screenshot you shared, I can see this is a dashboard overview showing various metrics.

The dashboard shows:
- 1,245 total users
- 87 active sessions
- 3.2% conversion rate
- $12,450 in revenue

There's also recent activity showing new sign-ups, completed transactions, and support tickets.

Is there anything specific about this dashboard you'd like me to explain?`

// smartMockReply answers from keyword buckets instead of the fixed reply.
// Opt-in via MOCK_SMART_REPLIES: it trades the documented determinism of the
// fallback for slightly more believable demo conversations.
func smartMockReply(userMessage string) string {
	lower := strings.ToLower(userMessage)

	switch {
	case containsAny(lower, "user", "users"):
		return "Based on the screenshot, there are 1,245 total users, with 87 currently active sessions. There have been 3 new sign-ups in the last hour."
	case containsAny(lower, "revenue", "money", "income"):
		return "The screenshot shows a revenue of $12,450. The conversion rate is 3.2%, which suggests there's room for improvement in your sales funnel."
	case containsAny(lower, "status", "system"):
		return "According to the screenshot, all systems are operational. The dashboard was last updated at 10:45 AM."
	case containsAny(lower, "activity", "recent"):
		return "Recent activity shown in the screenshot includes 3 new sign-ups in the last hour, 15 completed transactions, and 2 support tickets that have been opened."
	case containsAny(lower, "date", "time"):
		return "The screenshot shows data from March 15, 2025. The dashboard was last updated at 10:45 AM."
	default:
		return "Based on the screenshot, I can see this is a dashboard overview for John Doe showing various metrics including users, revenue, and system status. What specific information would you like to know about the data shown?"
	}
}

func containsAny(s string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}
