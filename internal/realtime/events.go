package realtime

type SSEEvent string

const (
	SSEEventAchievementEarned  SSEEvent = "AchievementEarned"
	SSEEventChatReply          SSEEvent = "ChatReply"
	SSEEventDocumentSummarized SSEEvent = "DocumentSummarized"
	SSEEventQuestionBankGrew   SSEEvent = "QuestionBankGrew"
	SSEEventQuizReady          SSEEvent = "QuizReady"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

// Channel naming: broadcasts target either one user or every connected
// member of a role.
func UserChannel(userID string) string { return "user:" + userID }
func RoleChannel(role string) string   { return "role:" + role }
