package api

import (
	"context"

	"github.com/wolfeidau/mentorhub/internal/cache"
	"github.com/wolfeidau/mentorhub/internal/models"
)

type CreateAnnouncementArgs struct {
	Title    string      `json:"title"`
	Body     string      `json:"body"`
	Audience models.Role `json:"audience,omitempty"`
}

type MessagesArgs struct {
	Unread bool `json:"unread,omitempty"`
}

type SendMessageArgs struct {
	ToID string `json:"toId"`
	Body string `json:"body"`
}

var GetAnnouncements = Query[struct{}, models.AnnouncementsResponse]{
	Name:     "getAnnouncements",
	Template: "/communications/announcements",
	Path:     func(struct{}) string { return "/communications/announcements" },
	Provides: func(struct{}, *models.AnnouncementsResponse) []cache.Tag {
		return []cache.Tag{cache.ListTag(TagAnnouncement)}
	},
}

var CreateAnnouncement = Mutation[CreateAnnouncementArgs, models.AnnouncementResponse]{
	Name:     "createAnnouncement",
	Template: "/communications/announcements",
	Path:     func(CreateAnnouncementArgs) string { return "/communications/announcements" },
	Body:     func(a CreateAnnouncementArgs) any { return a },
	Validate: func(a CreateAnnouncementArgs) error {
		if err := required("title", a.Title); err != nil {
			return err
		}
		if err := required("body", a.Body); err != nil {
			return err
		}
		if a.Audience != "" && !a.Audience.Valid() {
			return invalid("audience", "must be one of admin, mentor, learner, user")
		}
		return nil
	},
	Invalidates: func(CreateAnnouncementArgs, *models.AnnouncementResponse) []cache.Tag {
		return []cache.Tag{cache.ListTag(TagAnnouncement)}
	},
}

var GetMessages = Query[MessagesArgs, models.MessagesResponse]{
	Name:     "getMessages",
	Template: "/communications/messages",
	Path: func(a MessagesArgs) string {
		p := params{}
		if a.Unread {
			p = p.str("unread", "true")
		}
		return withQuery("/communications/messages", p)
	},
	Provides: func(MessagesArgs, *models.MessagesResponse) []cache.Tag {
		return []cache.Tag{cache.ListTag(TagMessage)}
	},
}

var SendMessage = Mutation[SendMessageArgs, models.MessageResponse]{
	Name:     "sendMessage",
	Template: "/communications/messages",
	Path:     func(SendMessageArgs) string { return "/communications/messages" },
	Body:     func(a SendMessageArgs) any { return a },
	Validate: func(a SendMessageArgs) error {
		if err := required("toId", a.ToID); err != nil {
			return err
		}
		return required("body", a.Body)
	},
	Invalidates: func(SendMessageArgs, *models.MessageResponse) []cache.Tag {
		return []cache.Tag{cache.ListTag(TagMessage)}
	},
}

func (a *API) GetAnnouncements(ctx context.Context) (*models.AnnouncementsResponse, error) {
	return RunQuery(ctx, a, GetAnnouncements, struct{}{})
}

func (a *API) CreateAnnouncement(ctx context.Context, args CreateAnnouncementArgs) (*models.AnnouncementResponse, error) {
	return RunMutation(ctx, a, CreateAnnouncement, args)
}

func (a *API) GetMessages(ctx context.Context, args MessagesArgs) (*models.MessagesResponse, error) {
	return RunQuery(ctx, a, GetMessages, args)
}

func (a *API) SendMessage(ctx context.Context, args SendMessageArgs) (*models.MessageResponse, error) {
	return RunMutation(ctx, a, SendMessage, args)
}
