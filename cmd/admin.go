package cmd

import (
	"context"
	"fmt"
	"time"

	"pointsbot/domain/entities"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// runAdmin opens an admin app for the duration of fn
func runAdmin(cmd *cobra.Command, opts *RootOptions, roleOverride []int64, fn func(ctx context.Context, app *adminApp, p *Printer) error) error {
	ctx := cmd.Context()
	app, err := newAdminApp(ctx, opts.cfg, roleOverride)
	if err != nil {
		return err
	}
	defer app.Close()

	return fn(ctx, app, NewPrinter(cmd.OutOrStdout(), opts.Format))
}

func requireFlags(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		_ = cmd.MarkFlagRequired(name)
	}
}

// NewAwardCommand creates the award command
func NewAwardCommand(opts *RootOptions) *cobra.Command {
	var (
		guildID, userID, channelID, points int64
		action, reference                  string
		roles                              []int64
	)

	cmd := &cobra.Command{
		Use:   "award",
		Short: "Credit points to a member",
		Long: `Credit points to a member. The award is recorded once per
(guild, user, action, reference); repeating the command is a no-op.
Without --points the guild's configured value for the action is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if reference == "" {
				reference = uuid.NewString()
			}
			return runAdmin(cmd, opts, roles, func(ctx context.Context, app *adminApp, p *Printer) error {
				actionType := entities.ActionType(action)
				if !cmd.Flags().Changed("points") {
					resolved, err := app.pointsConfig.ResolveBasePoints(ctx, guildID, channelID, actionType)
					if err != nil {
						return err
					}
					points = resolved
				}

				tx, err := app.awarder.AwardPoints(ctx, &entities.AwardRequest{
					GuildID:     guildID,
					UserID:      userID,
					ActionType:  actionType,
					ReferenceID: reference,
					BasePoints:  points,
					Metadata:    map[string]string{"origin": "cli"},
				})
				if err != nil {
					return err
				}
				return p.Award(tx)
			})
		},
	}

	cmd.Flags().Int64Var(&guildID, "guild", 0, "guild id")
	cmd.Flags().Int64Var(&userID, "user", 0, "user id")
	cmd.Flags().StringVar(&action, "action", string(entities.ActionTypeAdminGrant), "action type")
	cmd.Flags().Int64Var(&points, "points", 0, "base points before multiplier")
	cmd.Flags().StringVar(&reference, "ref", "", "reference id (random when empty)")
	cmd.Flags().Int64Var(&channelID, "channel", entities.GuildWideChannel, "channel used to resolve the action value")
	cmd.Flags().Int64SliceVar(&roles, "role", nil, "override the member's Discord roles for multiplier resolution")
	requireFlags(cmd, "guild", "user")

	return cmd
}

// NewRedeemCommand creates the redeem command
func NewRedeemCommand(opts *RootOptions) *cobra.Command {
	var guildID, userID, rewardID int64

	cmd := &cobra.Command{
		Use:   "redeem",
		Short: "Redeem a reward on behalf of a member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd, opts, nil, func(ctx context.Context, app *adminApp, p *Printer) error {
				result, err := app.redeemer.Redeem(ctx, guildID, userID, rewardID)
				if err != nil {
					return err
				}
				return p.Redemption(result)
			})
		},
	}

	cmd.Flags().Int64Var(&guildID, "guild", 0, "guild id")
	cmd.Flags().Int64Var(&userID, "user", 0, "user id")
	cmd.Flags().Int64Var(&rewardID, "reward", 0, "reward id")
	requireFlags(cmd, "guild", "user", "reward")

	return cmd
}

// NewLeaderboardCommand creates the leaderboard command
func NewLeaderboardCommand(opts *RootOptions) *cobra.Command {
	var (
		guildID int64
		window  string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Rank members by points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := entities.ParseLeaderboardWindow(window)
			if err != nil {
				return err
			}
			return runAdmin(cmd, opts, nil, func(ctx context.Context, app *adminApp, p *Printer) error {
				entries, err := app.leaderboard.GetLeaderboard(ctx, guildID, parsed, limit)
				if err != nil {
					return err
				}
				return p.Leaderboard(parsed, entries)
			})
		},
	}

	cmd.Flags().Int64Var(&guildID, "guild", 0, "guild id")
	cmd.Flags().StringVar(&window, "window", string(entities.LeaderboardWindowAllTime), "window (24h|7d|all)")
	cmd.Flags().IntVar(&limit, "limit", 10, "number of entries")
	requireFlags(cmd, "guild")

	return cmd
}

// NewBalanceCommand creates the balance command
func NewBalanceCommand(opts *RootOptions) *cobra.Command {
	var (
		guildID, userID int64
		recent          int
	)

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show a member's balance and recent transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd, opts, nil, func(ctx context.Context, app *adminApp, p *Printer) error {
				summary, err := app.members.GetSummary(ctx, guildID, userID, recent)
				if err != nil {
					return err
				}
				return p.Summary(summary)
			})
		},
	}

	cmd.Flags().Int64Var(&guildID, "guild", 0, "guild id")
	cmd.Flags().Int64Var(&userID, "user", 0, "user id")
	cmd.Flags().IntVar(&recent, "recent", 5, "number of recent transactions (1-50)")
	requireFlags(cmd, "guild", "user")

	return cmd
}

// NewMultiplierCommand creates the multiplier command group
func NewMultiplierCommand(opts *RootOptions) *cobra.Command {
	var guildID, roleID int64
	var value string

	cmd := &cobra.Command{
		Use:   "multiplier",
		Short: "Manage role multipliers",
	}
	cmd.PersistentFlags().Int64Var(&guildID, "guild", 0, "guild id")
	_ = cmd.MarkPersistentFlagRequired("guild")

	set := &cobra.Command{
		Use:   "set",
		Short: "Set a role's multiplier, e.g. --value 1.5",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			multiplier, err := entities.ParseMultiplier(value)
			if err != nil {
				return err
			}
			return runAdmin(cmd, opts, nil, func(ctx context.Context, app *adminApp, p *Printer) error {
				saved, err := app.pointsConfig.SetRoleMultiplier(ctx, guildID, roleID, multiplier)
				if err != nil {
					return err
				}
				return p.RoleMultipliers([]*entities.RoleMultiplier{saved})
			})
		},
	}
	set.Flags().Int64Var(&roleID, "role", 0, "role id")
	set.Flags().StringVar(&value, "value", "", "multiplier, at least 1")
	requireFlags(set, "role", "value")

	remove := &cobra.Command{
		Use:   "remove",
		Short: "Remove a role's multiplier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd, opts, nil, func(ctx context.Context, app *adminApp, p *Printer) error {
				if err := app.pointsConfig.RemoveRoleMultiplier(ctx, guildID, roleID); err != nil {
					return err
				}
				return p.Message(fmt.Sprintf("Removed multiplier for role %d", roleID))
			})
		},
	}
	remove.Flags().Int64Var(&roleID, "role", 0, "role id")
	requireFlags(remove, "role")

	list := &cobra.Command{
		Use:   "list",
		Short: "List role multipliers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd, opts, nil, func(ctx context.Context, app *adminApp, p *Printer) error {
				multipliers, err := app.pointsConfig.GetRoleMultipliers(ctx, guildID)
				if err != nil {
					return err
				}
				return p.RoleMultipliers(multipliers)
			})
		},
	}

	cmd.AddCommand(set, remove, list)
	return cmd
}

// NewRewardCommand creates the reward command group
func NewRewardCommand(opts *RootOptions) *cobra.Command {
	var guildID, roleID, cost, rewardID int64

	cmd := &cobra.Command{
		Use:   "reward",
		Short: "Manage redeemable rewards",
	}
	cmd.PersistentFlags().Int64Var(&guildID, "guild", 0, "guild id")
	_ = cmd.MarkPersistentFlagRequired("guild")

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a role reward",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd, opts, nil, func(ctx context.Context, app *adminApp, p *Printer) error {
				reward, err := app.pointsConfig.CreateRoleReward(ctx, guildID, roleID, cost)
				if err != nil {
					return err
				}
				return p.Rewards([]*entities.Reward{reward})
			})
		},
	}
	create.Flags().Int64Var(&roleID, "role", 0, "role granted on redemption")
	create.Flags().Int64Var(&cost, "cost", 0, "cost in points")
	requireFlags(create, "role", "cost")

	list := &cobra.Command{
		Use:   "list",
		Short: "List active rewards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd, opts, nil, func(ctx context.Context, app *adminApp, p *Printer) error {
				rewards, err := app.pointsConfig.ListRewards(ctx, guildID)
				if err != nil {
					return err
				}
				return p.Rewards(rewards)
			})
		},
	}

	remove := &cobra.Command{
		Use:   "remove",
		Short: "Withdraw a reward",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd, opts, nil, func(ctx context.Context, app *adminApp, p *Printer) error {
				if err := app.pointsConfig.RemoveReward(ctx, guildID, rewardID); err != nil {
					return err
				}
				return p.Message(fmt.Sprintf("Removed reward #%d", rewardID))
			})
		},
	}
	remove.Flags().Int64Var(&rewardID, "id", 0, "reward id")
	requireFlags(remove, "id")

	cmd.AddCommand(create, list, remove)
	return cmd
}

// NewActionPointsCommand creates the action-points command group
func NewActionPointsCommand(opts *RootOptions) *cobra.Command {
	var guildID, channelID, points int64
	var action string

	cmd := &cobra.Command{
		Use:   "action-points",
		Short: "Configure base points per action",
	}
	cmd.PersistentFlags().Int64Var(&guildID, "guild", 0, "guild id")
	_ = cmd.MarkPersistentFlagRequired("guild")

	set := &cobra.Command{
		Use:   "set",
		Short: "Set an action's base points, guild-wide or for one channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd, opts, nil, func(ctx context.Context, app *adminApp, p *Printer) error {
				value, err := app.pointsConfig.SetActionPointValue(ctx, guildID, entities.ActionType(action), points, channelID)
				if err != nil {
					return err
				}
				return p.ActionPoints([]*entities.ActionPointValue{value})
			})
		},
	}
	set.Flags().StringVar(&action, "action", "", "action type")
	set.Flags().Int64Var(&points, "points", 0, "base points")
	set.Flags().Int64Var(&channelID, "channel", entities.GuildWideChannel, "channel id, 0 for guild-wide")
	requireFlags(set, "action", "points")

	list := &cobra.Command{
		Use:   "list",
		Short: "List configured action values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd, opts, nil, func(ctx context.Context, app *adminApp, p *Printer) error {
				values, err := app.pointsConfig.GetActionPointConfig(ctx, guildID)
				if err != nil {
					return err
				}
				return p.ActionPoints(values)
			})
		},
	}

	cmd.AddCommand(set, list)
	return cmd
}

// NewQuestCommand creates the quest command group
func NewQuestCommand(opts *RootOptions) *cobra.Command {
	var (
		guildID, questID, userID, reward int64
		title, description, starts, ends string
		activeOnly                       bool
	)

	cmd := &cobra.Command{
		Use:   "quest",
		Short: "Manage quests",
	}
	cmd.PersistentFlags().Int64Var(&guildID, "guild", 0, "guild id")
	_ = cmd.MarkPersistentFlagRequired("guild")

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a quest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			startsAt, err := parseOptionalTime(starts)
			if err != nil {
				return err
			}
			endsAt, err := parseOptionalTime(ends)
			if err != nil {
				return err
			}
			return runAdmin(cmd, opts, nil, func(ctx context.Context, app *adminApp, p *Printer) error {
				quest, err := app.quests.CreateQuest(ctx, guildID, title, description, reward, startsAt, endsAt)
				if err != nil {
					return err
				}
				return p.Quests([]*entities.Quest{quest})
			})
		},
	}
	create.Flags().StringVar(&title, "title", "", "quest title")
	create.Flags().StringVar(&description, "description", "", "quest description")
	create.Flags().Int64Var(&reward, "reward", 0, "points awarded on completion")
	create.Flags().StringVar(&starts, "starts", "", "start time (RFC3339)")
	create.Flags().StringVar(&ends, "ends", "", "end time (RFC3339)")
	requireFlags(create, "title", "reward")

	list := &cobra.Command{
		Use:   "list",
		Short: "List quests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd, opts, nil, func(ctx context.Context, app *adminApp, p *Printer) error {
				quests, err := app.quests.ListQuests(ctx, guildID, activeOnly)
				if err != nil {
					return err
				}
				return p.Quests(quests)
			})
		},
	}
	list.Flags().BoolVar(&activeOnly, "active", false, "only quests active now")

	remove := &cobra.Command{
		Use:   "delete",
		Short: "Delete a quest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd, opts, nil, func(ctx context.Context, app *adminApp, p *Printer) error {
				if err := app.quests.DeleteQuest(ctx, guildID, questID); err != nil {
					return err
				}
				return p.Message(fmt.Sprintf("Deleted quest #%d", questID))
			})
		},
	}
	remove.Flags().Int64Var(&questID, "id", 0, "quest id")
	requireFlags(remove, "id")

	complete := &cobra.Command{
		Use:   "complete",
		Short: "Mark a quest complete for a member and award its points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd, opts, nil, func(ctx context.Context, app *adminApp, p *Printer) error {
				tx, err := app.quests.CompleteQuest(ctx, guildID, questID, userID)
				if err != nil {
					return err
				}
				return p.Award(tx)
			})
		},
	}
	complete.Flags().Int64Var(&questID, "id", 0, "quest id")
	complete.Flags().Int64Var(&userID, "user", 0, "user id")
	requireFlags(complete, "id", "user")

	cmd.AddCommand(create, list, remove, complete)
	return cmd
}

// NewWalletCommand creates the wallet command group
func NewWalletCommand(opts *RootOptions) *cobra.Command {
	var guildID, userID int64
	var address string

	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Manage linked wallets",
	}
	cmd.PersistentFlags().Int64Var(&guildID, "guild", 0, "guild id")
	_ = cmd.MarkPersistentFlagRequired("guild")

	link := &cobra.Command{
		Use:   "link",
		Short: "Link a member's wallet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd, opts, nil, func(ctx context.Context, app *adminApp, p *Printer) error {
				wallet, err := app.wallets.LinkWallet(ctx, guildID, userID, address)
				if err != nil {
					return err
				}
				return p.Wallets([]*entities.WalletLink{wallet})
			})
		},
	}
	link.Flags().Int64Var(&userID, "user", 0, "user id")
	link.Flags().StringVar(&address, "address", "", "wallet address")
	requireFlags(link, "user", "address")

	show := &cobra.Command{
		Use:   "show",
		Short: "Show a member's linked wallet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd, opts, nil, func(ctx context.Context, app *adminApp, p *Printer) error {
				wallet, err := app.wallets.GetWallet(ctx, guildID, userID)
				if err != nil {
					return err
				}
				if wallet == nil {
					return p.Wallets(nil)
				}
				return p.Wallets([]*entities.WalletLink{wallet})
			})
		},
	}
	show.Flags().Int64Var(&userID, "user", 0, "user id")
	requireFlags(show, "user")

	list := &cobra.Command{
		Use:   "list",
		Short: "List linked wallets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd, opts, nil, func(ctx context.Context, app *adminApp, p *Printer) error {
				wallets, err := app.wallets.ListWallets(ctx, guildID)
				if err != nil {
					return err
				}
				return p.Wallets(wallets)
			})
		},
	}

	cmd.AddCommand(link, show, list)
	return cmd
}

func parseOptionalTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid time %q: expected RFC3339: %w", value, err)
	}
	return &t, nil
}
