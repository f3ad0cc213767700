package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/MOULOUNDOU/Senchambre/internal/app"
	"github.com/MOULOUNDOU/Senchambre/internal/models"
	"github.com/MOULOUNDOU/Senchambre/internal/seed"
	"github.com/spf13/cobra"
)

type cli struct {
	out  io.Writer
	open func(ctx context.Context) (*app.App, error)
}

// operator is the session the CLI acts with.
var operator = &models.Session{UserID: seed.AdminID, Name: "cli", Role: models.RoleAdmin}

// withApp opens the store for one command and closes it afterwards.
func (c *cli) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "senchambres",
		Short:         "SenChambres administration tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(c.out)
	root.AddCommand(
		seedCmd(c),
		statsCmd(c),
		usersCmd(c),
		reportsCmd(c),
		cleanupCmd(c),
	)
	return root
}

func seedCmd(c *cli) *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed demo accounts and sample listings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if reset {
					if err := a.Service.Listings.Reseed(ctx); err != nil {
						return fmt.Errorf("reseed listings: %w", err)
					}
				}
				listings, err := a.Service.Listings.All(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.out, "catalog ready: %d listings\n", len(listings))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "replace the catalog with the sample listings")
	return cmd
}

func statsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the admin dashboard figures",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				s, err := a.Service.Admin.Stats(ctx, operator)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
				fmt.Fprintf(w, "Listings\t%d\n", s.TotalListings)
				fmt.Fprintf(w, "Owned listings\t%d\n", s.ActiveListings)
				fmt.Fprintf(w, "Users\t%d\n", s.TotalUsers)
				fmt.Fprintf(w, "Open reports\t%d\n", s.OpenReports)
				fmt.Fprintf(w, "Average price\t%d XOF\n", s.AveragePrice)
				cities := make([]string, 0, len(s.ListingsByCity))
				for city := range s.ListingsByCity {
					cities = append(cities, city)
				}
				sort.Strings(cities)
				for _, city := range cities {
					fmt.Fprintf(w, "  %s\t%d\n", city, s.ListingsByCity[city])
				}
				return w.Flush()
			})
		},
	}
}

func usersCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Manage accounts"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List accounts",
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
					users, err := a.Service.Admin.Users(ctx, operator)
					if err != nil {
						return err
					}
					w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE")
					for _, u := range users {
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Name, u.Role)
					}
					return w.Flush()
				})
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete an account and end its sessions",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
					if err := a.Service.Admin.DeleteUser(ctx, operator, args[0]); err != nil {
						return err
					}
					fmt.Fprintf(c.out, "user %s deleted\n", args[0])
					return nil
				})
			},
		},
	)
	return cmd
}

func reportsCmd(c *cli) *cobra.Command {
	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List listing reports, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				reports, err := a.Service.Admin.Reports(ctx, operator, status)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tLISTING\tREASON\tSTATUS\tCREATED")
				for _, r := range reports {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.ListingID, r.Reason, r.Status, r.CreatedAt.Format(time.RFC3339))
				}
				return w.Flush()
			})
		},
	}
	list.Flags().StringVar(&status, "status", "", "filter by status (open or closed)")

	closeCmd := &cobra.Command{
		Use:   "close <id>",
		Short: "Close a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Service.Admin.CloseReport(ctx, operator, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "report %s closed\n", args[0])
				return nil
			})
		},
	}

	cmd := &cobra.Command{Use: "reports", Short: "Moderate listing reports"}
	cmd.AddCommand(list, closeCmd)
	return cmd
}

func cleanupCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove expired sessions and verification codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				sessions, err := a.Service.Accounts.CleanExpiredSessions(ctx)
				if err != nil {
					return err
				}
				codes, err := a.Service.Verification.CleanExpired(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.out, "removed %d sessions, %d verification codes\n", sessions, codes)
				return nil
			})
		},
	}
}
