// Command radarctl is the operator CLI for the startup directory API:
// hashing credentials for the users table and minting or inspecting
// session tokens.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ayeeshaliu/radar-nc-api/internal/auth"
)

func main() {
	root := &cobra.Command{
		Use:           "radarctl",
		Short:         "Operator tooling for the startup directory API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(hashPasswordCmd(), issueTokenCmd(), inspectTokenCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// codecFromEnv builds a token codec from the same variables the server
// reads, so minted tokens verify against a running instance.
func codecFromEnv() (*auth.Codec, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	issuer := os.Getenv("JWT_ISSUER")
	audience := os.Getenv("JWT_AUDIENCE")
	if issuer == "" {
		issuer = os.Getenv("SERVICE_ID")
	}
	if audience == "" {
		audience = os.Getenv("SERVICE_ID")
	}
	if issuer == "" || audience == "" {
		return nil, fmt.Errorf("set JWT_ISSUER and JWT_AUDIENCE (or SERVICE_ID)")
	}
	return auth.NewCodec(secret, issuer, audience), nil
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash to store in the users table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func issueTokenCmd() *cobra.Command {
	var roles []string
	cmd := &cobra.Command{
		Use:   "issue-token <user-id>",
		Short: "Mint a session token for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := codecFromEnv()
			if err != nil {
				return err
			}

			id := auth.Identity{Authenticated: true, UserID: args[0], IsCuriousPerson: true}
			for _, role := range roles {
				switch auth.Role(strings.ToLower(role)) {
				case auth.RoleAdmin:
					id.IsAdmin = true
				case auth.RoleFounder:
					id.IsFounder = true
				case auth.RoleInvestor:
					id.IsInvestor = true
				case auth.RoleCurious:
				default:
					return fmt.Errorf("unknown role %q", role)
				}
			}

			token, expiresAt, err := codec.Issue(id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintln(cmd.ErrOrStderr(), "expires at (unix):", expiresAt)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&roles, "role", nil, "role to grant (admin, founder, investor, curious); repeatable")
	return cmd
}

func inspectTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect-token <token>",
		Short: "Verify a token and print the identity it carries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := codecFromEnv()
			if err != nil {
				return err
			}
			id, err := codec.Verify(args[0])
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(map[string]any{
				"userId":          id.UserID,
				"isAdmin":         id.IsAdmin,
				"isFounder":       id.IsFounder,
				"isInvestor":      id.IsInvestor,
				"isCuriousPerson": id.IsCuriousPerson,
			}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
