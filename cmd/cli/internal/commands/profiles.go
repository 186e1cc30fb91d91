package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/wolfeidau/mentorhub/cmd/cli/internal/credentials"
)

// ProfilesCmd manages local API profiles.
type ProfilesCmd struct {
	Add        ProfilesAddCmd        `cmd:"" help:"Store a token for an API endpoint"`
	List       ProfilesListCmd       `cmd:"" help:"List all profiles"`
	Show       ProfilesShowCmd       `cmd:"" help:"Show profile details"`
	Token      ProfilesTokenCmd      `cmd:"" help:"Replace the token of a profile"`
	SetDefault ProfilesSetDefaultCmd `cmd:"" name:"set-default" help:"Set the default profile"`
	Delete     ProfilesDeleteCmd     `cmd:"" help:"Delete a profile"`
}

func openStore(g *Globals) (*credentials.Store, error) {
	store, err := credentials.NewStore(g.ProfilesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize profile store: %w", err)
	}
	return store, nil
}

func notFound(name string, err error) error {
	if errors.Is(err, credentials.ErrProfileNotFound) {
		return fmt.Errorf("profile %q not found\n\nRun 'mentorhub profiles list' to see available profiles", name)
	}
	return err
}

type ProfilesAddCmd struct {
	Name       string `arg:"" help:"Profile name (e.g. local, staging)"`
	APIURL     string `name:"url" help:"API base URL" default:"http://localhost:8080/api"`
	Token      string `help:"Bearer token" required:"" env:"MENTORHUB_NEW_TOKEN"`
	SetDefault bool   `help:"Make this the default profile"`
}

func (c *ProfilesAddCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := openStore(globals)
	if err != nil {
		return err
	}

	p, err := store.Create(c.Name, c.APIURL, c.Token)
	if err != nil {
		if errors.Is(err, credentials.ErrProfileExists) {
			return fmt.Errorf("profile %q already exists\n\nTo replace its token:\n  mentorhub profiles token %s --token <token>", c.Name, c.Name)
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}

	if c.SetDefault {
		if err := store.SetDefault(c.Name); err != nil {
			return fmt.Errorf("failed to set default: %w", err)
		}
	}

	w := globals.out()
	fmt.Fprintf(w, "Added profile: %s\n", p.Name)
	fmt.Fprintf(w, "API:          %s\n", p.APIURL)
	fmt.Fprintf(w, "Fingerprint:  %s\n", p.Fingerprint)
	if p.Subject != "" {
		fmt.Fprintf(w, "User:         %s (%s)\n", p.Subject, p.Role)
	}
	if p.Expired(globals.now()) {
		fmt.Fprintln(w, "\nWARNING: this token has already expired")
	}
	return nil
}

type ProfilesListCmd struct{}

func (c *ProfilesListCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := openStore(globals)
	if err != nil {
		return err
	}

	profiles, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	w := globals.out()
	if len(profiles) == 0 {
		fmt.Fprintln(w, "No profiles found.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "To add one:")
		fmt.Fprintln(w, "  mentorhub profiles add <name> --token <token>")
		return nil
	}

	defaultName, _ := store.DefaultName()
	now := globals.now()

	tw := table(w)
	fmt.Fprintln(tw, "NAME\tAPI\tROLE\tEXPIRES\tFINGERPRINT\tDEFAULT")
	for _, p := range profiles {
		isDefault := ""
		if p.Name == defaultName {
			isDefault = "*"
		}
		expires := "never"
		if !p.ExpiresAt.IsZero() {
			expires = humanize.RelTime(p.ExpiresAt, now, "ago", "from now")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", p.Name, p.APIURL, p.Role, expires, truncate(p.Fingerprint, 15), isDefault)
	}
	return tw.Flush()
}

type ProfilesShowCmd struct {
	Name string `arg:"" help:"Profile name"`
}

func (c *ProfilesShowCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := openStore(globals)
	if err != nil {
		return err
	}

	p, err := store.Get(c.Name)
	if err != nil {
		return notFound(c.Name, err)
	}

	w := globals.out()
	fmt.Fprintf(w, "Name:         %s\n", p.Name)
	fmt.Fprintf(w, "API:          %s\n", p.APIURL)
	fmt.Fprintf(w, "Fingerprint:  %s\n", p.Fingerprint)
	fmt.Fprintf(w, "Subject:      %s\n", p.Subject)
	fmt.Fprintf(w, "Role:         %s\n", p.Role)
	if p.Email != "" {
		fmt.Fprintf(w, "Email:        %s\n", p.Email)
	}
	if !p.ExpiresAt.IsZero() {
		fmt.Fprintf(w, "Expires:      %s (%s)\n", p.ExpiresAt.Format("2006-01-02 15:04:05"), humanize.RelTime(p.ExpiresAt, globals.now(), "ago", "from now"))
	}
	fmt.Fprintf(w, "Created:      %s\n", p.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Updated:      %s\n", p.UpdatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

type ProfilesTokenCmd struct {
	Name  string `arg:"" help:"Profile name"`
	Token string `help:"Bearer token" required:"" env:"MENTORHUB_NEW_TOKEN"`
}

func (c *ProfilesTokenCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := openStore(globals)
	if err != nil {
		return err
	}

	p, err := store.SetToken(c.Name, c.Token)
	if err != nil {
		return notFound(c.Name, err)
	}

	fmt.Fprintf(globals.out(), "Updated token for %s (fingerprint %s)\n", p.Name, p.Fingerprint)
	return nil
}

type ProfilesSetDefaultCmd struct {
	Name string `arg:"" help:"Profile name"`
}

func (c *ProfilesSetDefaultCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := openStore(globals)
	if err != nil {
		return err
	}

	if err := store.SetDefault(c.Name); err != nil {
		return notFound(c.Name, err)
	}

	fmt.Fprintf(globals.out(), "Default profile set to: %s\n", c.Name)
	return nil
}

type ProfilesDeleteCmd struct {
	Name  string `arg:"" help:"Profile name"`
	Force bool   `help:"Skip confirmation prompt"`
}

func (c *ProfilesDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := openStore(globals)
	if err != nil {
		return err
	}

	if _, err := store.Get(c.Name); err != nil {
		return notFound(c.Name, err)
	}

	if !globals.confirm(fmt.Sprintf("Delete profile %q and its token?", c.Name), c.Force) {
		fmt.Fprintln(globals.out(), "Cancelled.")
		return nil
	}

	if err := store.Delete(c.Name); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	fmt.Fprintf(globals.out(), "Deleted profile: %s\n", c.Name)
	return nil
}
