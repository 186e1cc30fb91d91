package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/wolfeidau/mentorhub/internal/api"
	"github.com/wolfeidau/mentorhub/internal/models"
	"github.com/wolfeidau/mentorhub/internal/notify"
	"github.com/wolfeidau/mentorhub/internal/views"
)

// AnnouncementsCmd reads and posts announcements.
type AnnouncementsCmd struct {
	List   AnnouncementsListCmd   `cmd:"" help:"List announcements"`
	Create AnnouncementsCreateCmd `cmd:"" help:"Post an announcement"`
}

type AnnouncementsListCmd struct{}

func (c *AnnouncementsListCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.API()
	if err != nil {
		return err
	}

	res, err := a.GetAnnouncements(ctx)
	if err != nil {
		return loadError(err, "Announcements not available", "Failed to load announcements")
	}

	w := globals.out()
	if len(res.Announcements) == 0 {
		fmt.Fprintln(w, "No announcements.")
		return nil
	}

	now := globals.now()
	for _, an := range res.Announcements {
		audience := "everyone"
		if an.Audience != "" {
			audience = views.Label(string(an.Audience)) + "s"
		}
		fmt.Fprintf(w, "%s  (%s, for %s)\n", an.Title, ago(an.CreatedAt, now), audience)
		fmt.Fprintf(w, "  %s\n\n", views.Excerpt(an.Body, 200))
	}
	return nil
}

type AnnouncementsCreateCmd struct {
	Title    string `arg:"" help:"Title"`
	Body     string `help:"Body text (or use --body-file)"`
	BodyFile string `help:"File holding the body" type:"existingfile"`
	Audience string `help:"Restrict to one role" enum:",admin,mentor,learner,user" default:""`
}

func (c *AnnouncementsCreateCmd) Run(ctx context.Context, globals *Globals) error {
	body := c.Body
	if body == "" && c.BodyFile != "" {
		data, err := os.ReadFile(c.BodyFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", c.BodyFile, err)
		}
		body = string(data)
	}
	if strings.TrimSpace(body) == "" {
		return errors.New("announcement body is required")
	}

	a, err := globals.API()
	if err != nil {
		return err
	}
	_, err = a.CreateAnnouncement(ctx, api.CreateAnnouncementArgs{Title: c.Title, Body: body, Audience: models.Role(c.Audience)})
	return mutated(notify.MutationResult(globals.notifier(), err, "Announcement posted", "Failed to post announcement"))
}

// MessagesCmd reads and sends direct messages.
type MessagesCmd struct {
	List MessagesListCmd `cmd:"" help:"List your messages"`
	Send MessagesSendCmd `cmd:"" help:"Send a message"`
}

type MessagesListCmd struct {
	Unread bool `help:"Only unread messages"`
}

func (c *MessagesListCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.API()
	if err != nil {
		return err
	}

	res, err := a.GetMessages(ctx, api.MessagesArgs{Unread: c.Unread})
	if err != nil {
		return loadError(err, "Messages not available", "Failed to load messages")
	}

	w := globals.out()
	if len(res.Messages) == 0 {
		fmt.Fprintln(w, "No messages.")
		return nil
	}

	now := globals.now()
	tw := table(w)
	fmt.Fprintln(tw, "\tFROM\tTO\tSENT\tMESSAGE")
	for _, m := range res.Messages {
		unread := ""
		if !m.Read {
			unread = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", unread, m.FromID, m.ToID, ago(m.SentAt, now), views.Excerpt(m.Body, 60))
	}
	return tw.Flush()
}

type MessagesSendCmd struct {
	To   string `arg:"" help:"Recipient user ID"`
	Body string `arg:"" help:"Message text"`
}

func (c *MessagesSendCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.API()
	if err != nil {
		return err
	}
	_, err = a.SendMessage(ctx, api.SendMessageArgs{ToID: c.To, Body: c.Body})
	return mutated(notify.MutationResult(globals.notifier(), err, "Message sent", "Failed to send message"))
}
