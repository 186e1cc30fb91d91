package models

// PathModule is one ordered module of a learning path.
type PathModule struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Order    int    `json:"order"`
	Duration string `json:"duration,omitempty"`
}

// LearningPath is a curated sequence of modules.
type LearningPath struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description,omitempty"`
	Level         string       `json:"level,omitempty"`
	Modules       []PathModule `json:"modules,omitempty"`
	EnrolledCount int          `json:"enrolledCount"`
	Enrolled      bool         `json:"enrolled"`
	Published     bool         `json:"published"`
}

// LearningPathsResponse lists learning paths.
type LearningPathsResponse struct {
	LearningPaths []LearningPath `json:"learningPaths"`
	Pagination    Pagination     `json:"pagination"`
}

// LearningPathResponse wraps a single learning path.
type LearningPathResponse struct {
	Message      string       `json:"message,omitempty"`
	LearningPath LearningPath `json:"learningPath"`
}
