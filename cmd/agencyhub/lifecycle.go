package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/neomorfeo/agencyhub/internal/adapter/fsm"
	"github.com/neomorfeo/agencyhub/internal/domain"
)

func newTransitionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transitions",
		Short: "Print the lifecycle transition table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FROM\tACTION\tTO\tROLE\tNOTIFY")
			for _, t := range domain.Transitions {
				notify := make([]string, len(t.NotifyRoles))
				for i, r := range t.NotifyRoles {
					notify[i] = string(r)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.From, t.Action, t.To, t.RequiredRole, strings.Join(notify, ","))
			}
			return w.Flush()
		},
	}
}

func newActionsCmd() *cobra.Command {
	var state, role string
	cmd := &cobra.Command{
		Use:   "actions",
		Short: "Print the actions available from a state",
		Long: "Print the actions a role may perform from a state. Without --role,\n" +
			"every action with a rule from the state is printed.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := domain.ServiceState(state)
			if !s.Valid() {
				return fmt.Errorf("unknown state %q", state)
			}

			var actions []domain.ServiceAction
			if role == "" {
				actions = fsm.New().AvailableActions(s)
			} else {
				r := domain.Role(role)
				if !r.Valid() {
					return fmt.Errorf("unknown role %q", role)
				}
				actions = domain.ValidNextActions(s, r)
			}

			for _, a := range actions {
				fmt.Fprintln(cmd.OutOrStdout(), a)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&state, "state", "", "current lifecycle state")
	cmd.Flags().StringVar(&role, "role", "", "admin, staff, client or system")
	_ = cmd.MarkFlagRequired("state")
	return cmd
}

func newNextCmd() *cobra.Command {
	var state, action string
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Print the state an action leads to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			next, ok := domain.NextState(domain.ServiceState(state), domain.ServiceAction(action))
			if !ok {
				return fmt.Errorf("no transition for %q from %q", action, state)
			}
			fmt.Fprintln(cmd.OutOrStdout(), next)
			return nil
		},
	}
	cmd.Flags().StringVar(&state, "state", "", "current lifecycle state")
	cmd.Flags().StringVar(&action, "action", "", "action to perform")
	_ = cmd.MarkFlagRequired("state")
	_ = cmd.MarkFlagRequired("action")
	return cmd
}
