package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/table-reservation/internal/booking"
	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/utils"
)

func newTokenCmd() *cobra.Command {
	var (
		userID uint64
		role   string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch role {
			case booking.RoleCustomer, booking.RoleRestaurantManager, booking.RoleAdmin:
			default:
				return fmt.Errorf("unknown role %q", role)
			}
			if userID == 0 {
				return errors.New("--user is required")
			}
			jwtCfg := config.LoadJWT()
			if ttl <= 0 {
				ttl = time.Duration(jwtCfg.AccessTTLMin) * time.Minute
			}
			tok, err := utils.NewAccessToken(jwtCfg.Secret, userID, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok.Token)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&userID, "user", 0, "user ID placed in the sub claim")
	cmd.Flags().StringVar(&role, "role", booking.RoleCustomer, "customer, restaurant_manager or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to ACCESS_TOKEN_TTL_MIN)")
	return cmd
}
