package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/mentorhub/cmd/cli/internal/commands"
	"github.com/wolfeidau/mentorhub/internal/logger"
	"github.com/wolfeidau/mentorhub/internal/telemetry"
)

var (
	version = "dev"
	cli     struct {
		Invitations   commands.InvitationsCmd   `cmd:"" help:"Workspace invitations"`
		JoinRequests  commands.JoinRequestsCmd  `cmd:"" name:"join-requests" help:"Workspace join requests"`
		Workspaces    commands.WorkspacesCmd    `cmd:"" help:"Workspaces and members"`
		Users         commands.UsersCmd         `cmd:"" help:"User administration"`
		Contacts      commands.ContactsCmd      `cmd:"" help:"Contact form inbox"`
		Applications  commands.ApplicationsCmd  `cmd:"" help:"Learner and business applications"`
		Projects      commands.ProjectsCmd      `cmd:"" help:"Projects and tasks"`
		Sessions      commands.SessionsCmd      `cmd:"" help:"Mentoring sessions"`
		Paths         commands.PathsCmd         `cmd:"" help:"Learning paths"`
		Announcements commands.AnnouncementsCmd `cmd:"" help:"Announcements"`
		Messages      commands.MessagesCmd      `cmd:"" help:"Direct messages"`
		Dashboard     commands.DashboardCmd     `cmd:"" help:"Dashboards"`
		Profiles      commands.ProfilesCmd      `cmd:"" help:"Manage local API profiles"`
		Endpoints     commands.EndpointsCmd     `cmd:"" help:"Show endpoints and cache invalidation"`

		Debug       bool   `help:"Enable debug mode."`
		Profile     string `help:"Profile to use (default: the default profile)" env:"MENTORHUB_PROFILE"`
		APIURL      string `name:"api-url" help:"API base URL, overrides the profile"`
		Token       string `help:"Bearer token, overrides the profile" env:"MENTORHUB_TOKEN"`
		ProfilesDir string `help:"Profiles directory (default: ~/.mentorhub/profiles/)" env:"MENTORHUB_PROFILES_DIR"`
		Version     kong.VersionFlag
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := kong.Parse(&cli,
		kong.Name("mentorhub"),
		kong.Description("Mentorhub admin and learner CLI."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))

	log.Logger = logger.Setup(cli.Debug)

	shutdown, err := telemetry.InitTelemetry(ctx, "mentorhub-cli", version)
	cmd.FatalIfErrorf(err)
	defer func() {
		if err := shutdown(context.WithoutCancel(ctx)); err != nil {
			log.Warn().Err(err).Msg("telemetry shutdown failed")
		}
	}()

	err = cmd.Run(&commands.Globals{
		Debug:       cli.Debug,
		Version:     version,
		Profile:     cli.Profile,
		APIURL:      cli.APIURL,
		Token:       cli.Token,
		ProfilesDir: cli.ProfilesDir,
	})
	cmd.FatalIfErrorf(err)
}
