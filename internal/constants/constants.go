package constants

const (
	// ContextKeyUserID is used both as the session key and the gin context key.
	ContextKeyUserID = "user_id"

	ContextKeyUser       = "user"
	ContextKeyTeam       = "team"
	ContextKeyMembership = "team_membership"
	ContextKeyTask       = "task"

	SessionCookieName = "task_session"
	SessionMaxAge     = 86400 * 7

	MinPasswordLength = 1
	MaxUsernameLength = 150
	MaxTitleLength    = 100
	MaxTeamNameLength = 100
	MaxTeamDescLength = 500
	MinPhoneLength    = 10

	// DateLayout is the wire format of task due dates.
	DateLayout = "2006-01-02"

	MaxAIGeneratedTasks = 20
)
