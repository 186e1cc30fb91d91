package api

import (
	"context"

	"github.com/wolfeidau/mentorhub/internal/cache"
	"github.com/wolfeidau/mentorhub/internal/models"
)

type LearningPathsArgs struct {
	Level     string `json:"level,omitempty"`
	Published *bool  `json:"published,omitempty"`
}

var GetLearningPaths = Query[LearningPathsArgs, models.LearningPathsResponse]{
	Name:     "getLearningPaths",
	Template: "/learning-paths",
	Path: func(a LearningPathsArgs) string {
		return withQuery("/learning-paths", params{}.
			str("level", a.Level).
			boolPtr("published", a.Published))
	},
	Provides: func(_ LearningPathsArgs, res *models.LearningPathsResponse) []cache.Tag {
		tags := []cache.Tag{cache.ListTag(TagLearningPath)}
		if res != nil {
			for _, p := range res.LearningPaths {
				tags = append(tags, cache.IDTag(TagLearningPath, p.ID))
			}
		}
		return tags
	},
}

var GetLearningPath = Query[string, models.LearningPathResponse]{
	Name:     "getLearningPath",
	Template: "/learning-paths/{id}",
	Path:     func(id string) string { return pathf("/learning-paths/%s", id) },
	Provides: func(id string, _ *models.LearningPathResponse) []cache.Tag {
		return []cache.Tag{cache.IDTag(TagLearningPath, id)}
	},
}

var EnrollInPath = Mutation[string, models.LearningPathResponse]{
	Name:     "enrollInPath",
	Template: "/learning-paths/{id}/enroll",
	Path:     func(id string) string { return pathf("/learning-paths/%s/enroll", id) },
	Validate: func(id string) error { return required("pathId", id) },
	Invalidates: func(id string, _ *models.LearningPathResponse) []cache.Tag {
		return []cache.Tag{cache.IDTag(TagLearningPath, id), cache.ListTag(TagLearningPath)}
	},
}

func (a *API) GetLearningPaths(ctx context.Context, args LearningPathsArgs) (*models.LearningPathsResponse, error) {
	return RunQuery(ctx, a, GetLearningPaths, args)
}

func (a *API) GetLearningPath(ctx context.Context, pathID string) (*models.LearningPathResponse, error) {
	return RunQuery(ctx, a, GetLearningPath, pathID)
}

func (a *API) EnrollInPath(ctx context.Context, pathID string) (*models.LearningPathResponse, error) {
	return RunMutation(ctx, a, EnrollInPath, pathID)
}
