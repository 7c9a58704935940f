package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/model"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/nav"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/session"
	"github.com/spf13/cobra"
)

// resultErr reports field messages on stderr and folds a failed Result into an error.
func (c *cli) resultErr(res session.Result) error {
	if res.Success {
		return nil
	}
	fields := make([]string, 0, len(res.Fields))
	for f := range res.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(c.errOut, "  %s: %s\n", f, res.Fields[f])
	}
	return errors.New(res.Error)
}

func (c *cli) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.resultErr(c.app.session.Login(cmd.Context(), email, password)); err != nil {
				return err
			}
			id, _ := c.app.session.Identity()
			fmt.Fprintf(c.out, "Signed in as %s (%s)\n", id.Email, id.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	return cmd
}

func (c *cli) registerCmd() *cobra.Command {
	var reg model.Registration
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a client account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.resultErr(c.app.session.Register(cmd.Context(), reg)); err != nil {
				return err
			}
			id, _ := c.app.session.Identity()
			fmt.Fprintf(c.out, "Welcome, %s\n", id.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&reg.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&reg.Email, "email", "", "Email")
	cmd.Flags().StringVar(&reg.Password, "password", "", "Password (at least 6 characters)")
	cmd.Flags().StringVar(&reg.Phone, "phone", "", "Phone number")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.session.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("signed out, but the stored session could not be removed: %w", err)
			}
			fmt.Fprintln(c.out, "Signed out")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if refresh {
				if err := c.resultErr(c.app.session.Refresh(cmd.Context())); err != nil {
					return err
				}
			}
			id, ok := c.app.session.Identity()
			if !ok {
				fmt.Fprintln(c.out, "Not signed in")
				return nil
			}
			fmt.Fprintf(c.out, "%s <%s>\nrole: %s\n", id.Name, id.Email, id.Role)
			if id.Phone != "" {
				fmt.Fprintf(c.out, "phone: %s\n", id.Phone)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Reload the profile from the server first")
	return cmd
}

func (c *cli) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your profile",
	}
	var name, phone string
	update := &cobra.Command{
		Use:   "update",
		Short: "Change your name or phone number",
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch model.ProfilePatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("phone") {
				patch.Phone = &phone
			}
			if err := c.resultErr(c.app.session.UpdateProfile(cmd.Context(), patch)); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Profile updated")
			return nil
		},
	}
	update.Flags().StringVar(&name, "name", "", "New name")
	update.Flags().StringVar(&phone, "phone", "", "New phone number")
	cmd.AddCommand(routed(update, nav.Profile))
	return cmd
}

func (c *cli) passwordCmd() *cobra.Command {
	var current, next string
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change your password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.resultErr(c.app.session.ChangePassword(cmd.Context(), current, next)); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Password changed")
			return nil
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "Current password")
	cmd.Flags().StringVar(&next, "new", "", "New password")
	return routed(cmd, nav.Profile)
}
