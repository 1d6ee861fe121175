package main

import (
	"errors"
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rickeysan/hiit-score-app/internal/auth"
	"github.com/rickeysan/hiit-score-app/internal/capture"
	"github.com/rickeysan/hiit-score-app/internal/score"
	"github.com/rickeysan/hiit-score-app/internal/service"
	"github.com/rickeysan/hiit-score-app/internal/storage"
)

var (
	replayExercise int
	replayOwner    string
	replayFPS      int
	replayNoSave   bool
)

var replayCmd = &cobra.Command{
	Use:   "replay [recording.json]",
	Short: "Score a recorded pose sequence through the capture loop",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, catalog, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		rec, err := capture.LoadRecording(args[0])
		if err != nil {
			return err
		}
		exID := replayExercise
		if exID == 0 && rec.ExerciseID != nil {
			exID = *rec.ExerciseID
		}
		if exID == 0 {
			exID = 1
		}
		ex, err := catalog.Get(exID)
		if err != nil {
			return err
		}
		scoreCfg := catalog.ScoreConfig(ex)

		boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
		boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		yellow := color.New(color.FgYellow, color.Bold).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()

		fmt.Printf("%s %s (%d frames, target %d)\n", boldGreen("Replaying"), ex.Title, len(rec.Frames), scoreCfg.TargetScore)

		var result *capture.SessionResult
		hooks := capture.Hooks{
			OnEvent: func(ev score.Event) {
				switch ev.Kind {
				case score.GoalAchieved:
					fmt.Printf("  %s goal %d reached at %d\n", yellow("★"), ev.Value, ev.Score)
				default:
					fmt.Printf("  %s milestone %d at %d\n", boldCyan("•"), ev.Value, ev.Score)
				}
			},
			OnSessionEnd: func(r capture.SessionResult) { result = &r },
		}

		var frames capture.FrameScheduler = capture.ImmediateScheduler{}
		if replayFPS > 0 {
			frames = capture.NewRefreshScheduler(replayFPS)
		}
		src := capture.NewReplay(rec)
		loop := capture.NewLoop(src, src, logger,
			capture.WithScheduler(frames),
			capture.WithHooks(hooks),
			capture.WithSessionOnStart(scoreCfg, &ex.ID),
		)
		if err := loop.Run(cmd.Context()); err != nil {
			var de *capture.DeviceError
			if errors.As(err, &de) {
				fmt.Println(red(de.Remedy()))
			}
			return err
		}
		if result == nil {
			return fmt.Errorf("replay ended without a session")
		}

		final := int(math.Floor(result.Score))
		level := score.LevelFor(final)
		summary := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(level.Color)).
			Padding(0, 1)
		fmt.Println(summary.Render(fmt.Sprintf("Final score %d\nLevel %s (%d to next level)\nDuration %s",
			final, level.Name, score.PointsToNextLevel(final), service.DurationLabel(result.Duration()))))

		if replayNoSave {
			return nil
		}
		repos, err := storage.Open(cfg, logger)
		if err != nil {
			return err
		}
		defer repos.Close()
		saved, ok, err := service.ArchiveSession(cmd.Context(), repos.Sessions, replayOwner, *result)
		if err != nil {
			return fmt.Errorf("failed to archive session: %w", err)
		}
		if ok {
			fmt.Printf("%s %s\n", boldGreen("Archived session"), saved.ID)
		}
		return nil
	},
}

func init() {
	replayCmd.Flags().IntVar(&replayExercise, "exercise", 0, "exercise id (defaults to the recording's, then 1)")
	replayCmd.Flags().StringVar(&replayOwner, "owner", auth.LocalCallerID, "owner id the session is archived under")
	replayCmd.Flags().IntVar(&replayFPS, "fps", 0, "playback rate; 0 replays as fast as possible")
	replayCmd.Flags().BoolVar(&replayNoSave, "no-save", false, "do not archive the session")
}
