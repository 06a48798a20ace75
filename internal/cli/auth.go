package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/setlist/pkg/catalog"
	serrors "github.com/matzehuels/setlist/pkg/errors"
	"github.com/matzehuels/setlist/pkg/session"
)

// loginCommand creates the login command.
func (c *CLI) loginCommand() *cobra.Command {
	var (
		token string
		ttl   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "login <user-id>",
		Short: "Sign in as a backend user",
		Long: `Sign in as the backend user with the given id.

The user is looked up on the backend first. The session is stored in
$XDG_CONFIG_HOME/setlist/sessions/ and decides whose collection is "mine".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil || id <= 0 {
				return serrors.New(serrors.ErrCodeInvalidInput, "invalid user id %q", args[0])
			}
			ctx := cmd.Context()

			if existing := currentSession(ctx); existing != nil && existing.UserID == id {
				printInfo("Already signed in as %s", existing.UserName)
				return nil
			}

			user, err := c.lookupUser(ctx, strconv.FormatInt(id, 10))
			if err != nil {
				return err
			}

			sess, err := session.New(id, user.Name(), token, ttl)
			if err != nil {
				return fmt.Errorf("create session: %w", err)
			}
			store, err := sessionStore()
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}
			if err := store.SaveSession(ctx, sess); err != nil {
				return fmt.Errorf("save session: %w", err)
			}

			printSuccess("Signed in as %s", StyleHighlight.Render(sess.UserName))
			printDetail("Session: %s", store.Path())
			printNextStep("Browse your collection", appName+" browse")
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "bearer token sent with backend requests")
	cmd.Flags().DurationVar(&ttl, "ttl", session.DefaultTTL, "session lifetime")
	return cmd
}

// logoutCommand creates the logout command.
func (c *CLI) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := sessionStore()
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}
			if err := store.DeleteSession(cmd.Context()); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
			printSuccess("Signed out")
			return nil
		},
	}
}

// whoamiCommand creates the whoami command.
func (c *CLI) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess := currentSession(ctx)
			if sess == nil {
				return errors.New("not signed in (run 'setlist login <user-id>' first)")
			}

			ctx, cancel := context.WithTimeout(ctx, c.config().Timeout)
			defer cancel()

			spinner := newSpinnerWithContext(ctx, "Verifying session...")
			spinner.Start()
			user, err := c.lookupUser(ctx, sess.CurrentUserID())
			if err != nil {
				spinner.StopWithError("Session user not found on the backend")
				return err
			}
			spinner.Stop()

			printSuccess("Session")
			printKeyValue("User", user.Name())
			printKeyValue("ID", sess.CurrentUserID())
			if user.Tier != "" {
				printKeyValue("Tier", user.Tier)
			}
			printKeyValue("Backend", c.config().APIURL)
			printKeyValue("Signed in", sess.CreatedAt.Format("Jan 2, 2006"))
			printKeyValue("Expires", sess.ExpiresAt.Format("Jan 2, 2006"))
			return nil
		},
	}
}

// lookupUser fetches a profile from the configured source.
func (c *CLI) lookupUser(ctx context.Context, id string) (*catalog.User, error) {
	src, cleanup, err := c.newSource(ctx, c.Logger)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	user, err := src.User(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, serrors.Wrap(serrors.ErrCodeUserNotFound, err, "no user with id %s", id)
		}
		return nil, fmt.Errorf("look up user %s: %w", id, err)
	}
	return user, nil
}
