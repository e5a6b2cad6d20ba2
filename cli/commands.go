package cli

import (
	"fmt"

	"github.com/gitrec/gitrec-companion/model"
	"github.com/gitrec/gitrec-companion/session"
	"github.com/gitrec/gitrec-companion/store"
	"github.com/spf13/cobra"
)

func similarCmd() *cobra.Command {
	var offset int

	cmd := &cobra.Command{
		Use:   "similar [owner/repo]",
		Short: "Render the related repositories block of a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := model.ParseRef(args[0])
			if err != nil {
				return err
			}

			if offset < 0 || offset > session.MaxOffset || offset%session.PageStep != 0 {
				return fmt.Errorf("%w: offset must be one of 0, 3, 6, 9", model.ErrInvalidInput)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			a, err := newApp(cfg, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			sess := a.sessions.Open("")
			a.sessions.Update(sess, func(c *session.Context) {
				c.ItemID = ref
				c.Pagination.Offset = offset
			})

			html, err := a.companion.Similar(cmd.Context(), sess)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), html)
			return nil
		},
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset in the neighbour list (0, 3, 6 or 9)")
	return cmd
}

func exploreCmd() *cobra.Command {
	var login string

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Render the dashboard explore panel",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			a, err := newApp(cfg, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.companion.Mount(cmd.Context(), a.sessions.Open(""), model.MountRequest{Path: "/", Login: login})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), resp.HTML)
			return nil
		},
	}
	cmd.Flags().StringVar(&login, "login", "", "GitHub login whose stars seed the recommendation")
	return cmd
}

func preferenceCmd() *cobra.Command {
	var login string

	cmd := &cobra.Command{
		Use:   "preference",
		Short: "Read or change the explore preference",
	}
	cmd.PersistentFlags().StringVar(&login, "login", "", "GitHub login the preference belongs to")

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the explore preference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			preferences, err := openStore(*cfg)
			if err != nil {
				return err
			}
			defer preferences.Close()

			pref, err := store.ExplorePreference(cmd.Context(), preferences, login)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), pref)
			return nil
		},
	}, &cobra.Command{
		Use:       "set [gitrec|github]",
		Short:     "Change the explore preference",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(model.ExploreGitrec), string(model.ExploreGithub)},
		RunE: func(cmd *cobra.Command, args []string) error {
			pref, err := model.ParseExplorePreference(args[0])
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			preferences, err := openStore(*cfg)
			if err != nil {
				return err
			}
			defer preferences.Close()

			return store.SetExplorePreference(cmd.Context(), preferences, login, pref)
		},
	})

	return cmd
}

func readCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read [owner/repo...]",
		Short: "Mark repositories as read on the recommender",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			refs := make([]model.RepositoryRef, 0, len(args))
			for _, arg := range args {
				ref, err := model.ParseRef(arg)
				if err != nil {
					return err
				}
				refs = append(refs, ref)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			a, err := newApp(cfg, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			return a.gitrec.MarkRead(cmd.Context(), refs...)
		},
	}
}
