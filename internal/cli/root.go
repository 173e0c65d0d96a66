// Package cli is an offline planner over the roadmap builder. It needs no
// server, AI key or redis and is handy for checking plans before sharing them.
// It also mints chat tokens for servers running with a JWT secret.
package cli

import (
	"encoding/json"
	"fmt"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ai-study-guide/internal/domain/model"
	"ai-study-guide/internal/infra/api"
)

// version is set via -ldflags at build time.
var version = "(devel)"

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "roadmap",
		Short:         "Plan study roadmaps offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newPlanCmd(),
		newDurationCmd(),
		newTokenCmd(),
		newVersionCmd(),
	)
	return root
}

func newPlanCmd() *cobra.Command {
	var (
		goal   string
		hours  float64
		level  string
		track  string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Build the three pacing tracks for a goal",
		RunE: func(cmd *cobra.Command, args []string) error {
			tracks, err := model.BuildTracks(model.RoadmapRequest{
				LearningGoal:   strings.TrimSpace(goal),
				TimeCommitment: hours,
				SkillLevel:     model.SkillLevel(level),
				LearningStyles: []string{},
				Budget:         "free",
			})
			if err != nil {
				return err
			}

			names := model.TrackNames
			if track != "" {
				name := model.TrackName(strings.ToLower(track))
				if !name.Valid() {
					return fmt.Errorf("unknown track %q (want intensive, balanced or relaxed)", track)
				}
				names = []model.TrackName{name}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				sel := make(map[model.TrackName]model.Track, len(names))
				for _, n := range names {
					sel[n] = tracks[n]
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(sel)
			}
			for _, n := range names {
				printTrack(out, tracks[n])
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&goal, "goal", "g", "", "learning goal")
	cmd.Flags().Float64VarP(&hours, "hours", "H", 10, "hours per week")
	cmd.Flags().StringVarP(&level, "level", "l", string(model.SkillBeginner), "beginner, intermediate or advanced")
	cmd.Flags().StringVarP(&track, "track", "t", "", "only print this track")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	_ = cmd.MarkFlagRequired("goal")
	return cmd
}

func printTrack(w io.Writer, t model.Track) {
	fmt.Fprintf(w, "%s\n  %s\n  %.1f h/week, about %s\n", t.Title, t.Description, t.HoursPerWeek, t.Duration)
	for i, p := range t.Phases {
		fmt.Fprintf(w, "  %d. %s (%s): %s\n", i+1, p.Name, p.Duration, strings.Join(p.Topics, ", "))
	}
	fmt.Fprintln(w)
}

func newDurationCmd() *cobra.Command {
	var level string
	cmd := &cobra.Command{
		Use:   "duration HOURS",
		Short: "Estimate total duration for a weekly commitment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var hours float64
			if _, err := fmt.Sscanf(args[0], "%g", &hours); err != nil {
				return fmt.Errorf("hours must be a number: %w", err)
			}
			d, err := model.CalculateDuration(hours, model.SkillLevel(level))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), d)
			return nil
		},
	}
	cmd.Flags().StringVarP(&level, "level", "l", string(model.SkillBeginner), "beginner, intermediate or advanced")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		sub    string
		ttl    time.Duration
		secret string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token that names a chat user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("JWT_SECRET")
			}
			if secret == "" {
				return errors.New("no secret: pass --secret or set JWT_SECRET")
			}
			sub = strings.TrimSpace(sub)
			if sub == "" {
				return errors.New("--sub must not be blank")
			}
			if ttl <= 0 {
				return fmt.Errorf("ttl must be positive, got %s", ttl)
			}
			tok, err := api.NewIdentity(secret).Mint(sub, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&sub, "sub", "", "user id carried as the token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	cmd.Flags().StringVar(&secret, "secret", "", "HS256 secret (default $JWT_SECRET)")
	_ = cmd.MarkFlagRequired("sub")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "roadmap", version)
		},
	}
}
