package api

// Tag types. Every query provides and every mutation invalidates tags built
// from these.
const (
	TagInvitation      = "Invitation"
	TagJoinRequest     = "JoinRequest"
	TagWorkspace       = "Workspace"
	TagWorkspaceMember = "WorkspaceMember"
	TagUser            = "User"
	TagContact         = "Contact"
	TagApplication     = "Application"
	TagProject         = "Project"
	TagProjectArea     = "ProjectArea"
	TagTask            = "Task"
	TagSession         = "Session"
	TagLearningPath    = "LearningPath"
	TagAnnouncement    = "Announcement"
	TagMessage         = "Message"
)
