package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/jobmatch/internal/config"
	"github.com/jonathan/jobmatch/internal/server"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a signed development token",
	Long: `Print a JWT signed with JWT_SECRET for the given user. Without --user-id a
new user ID is generated and printed to stderr.`,
	RunE: runToken,
}

var tokenUserID string

func init() {
	tokenCmd.Flags().StringVar(&tokenUserID, "user-id", "", "User ID (UUID) to issue the token for")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	token, userID, err := issueToken(os.Getenv, tokenUserID)
	if err != nil {
		return err
	}
	if tokenUserID == "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "user id: %s\n", userID) //nolint:errcheck
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}

// issueToken signs a token for rawUserID, or for a new ID when it is empty.
func issueToken(getenv func(string) string, rawUserID string) (string, uuid.UUID, error) {
	cfg, err := config.NewJWTConfig(getenv)
	if err != nil {
		return "", uuid.Nil, err
	}

	userID := uuid.New()
	if rawUserID != "" {
		userID, err = uuid.Parse(rawUserID)
		if err != nil {
			return "", uuid.Nil, fmt.Errorf("invalid --user-id: %w", err)
		}
	}

	token, err := server.NewJWTService(cfg).GenerateToken(userID)
	if err != nil {
		return "", uuid.Nil, err
	}
	return token, userID, nil
}
