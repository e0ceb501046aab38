// Package main provides the CLI entrypoint for crocos.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Nadimab/crocos/internal/browse"
	"github.com/Nadimab/crocos/internal/config"
	"github.com/Nadimab/crocos/internal/export"
	"github.com/Nadimab/crocos/internal/replay"
	"github.com/Nadimab/crocos/internal/report"
	"github.com/Nadimab/crocos/internal/session"
	"github.com/Nadimab/crocos/internal/store"
	"github.com/Nadimab/crocos/internal/timeline"
)

const (
	defaultSpeed         = 1.0
	defaultMovingAverage = 5
	defaultPlotHeight    = 10
)

var (
	timeOutput string

	scoreStore          bool
	scoreOutputDir      string
	scoreOnlyActivities bool

	timesOutput string

	replaySpeed    float64
	replayFromTime float64

	reportStudent    string
	reportWindow     int
	reportPlotWidth  int
	reportPlotHeight int
	reportActivities []string

	browseStudent string
	browseWindow  int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "crocos",
		Short:         "Analyze Crocos game-session recordings",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newTimeCmd())
	rootCmd.AddCommand(newScoreCmd())
	rootCmd.AddCommand(newTimesCmd())
	rootCmd.AddCommand(newReplayCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// loadSession parses and merges the given session files.
func loadSession(paths []string) (*session.GameSession, error) {
	gameSession, err := session.FromFiles(paths)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return gameSession, nil
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <session.json>...",
		Short: "Parse and validate session files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runValidateCmd,
	}
}

func runValidateCmd(cmd *cobra.Command, args []string) error {
	// Bad files are reported and skipped so one corrupt recording does
	// not hide the state of the others.
	var gameSession *session.GameSession
	failed := 0
	for _, path := range args {
		parsed, err := session.FromFile(path)
		if err != nil {
			failed++
			logErrf("%s: %v\n", path, err)
			continue
		}
		if gameSession == nil {
			gameSession = parsed
			continue
		}
		merged, err := gameSession.Merge(parsed)
		if err != nil {
			failed++
			logErrf("%s: %v\n", path, err)
			continue
		}
		gameSession = merged
	}
	if gameSession == nil {
		return fmt.Errorf("no valid session files")
	}
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Student: %s\n", gameSession.StudentID); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "Device: %s (%s)\n", gameSession.DeviceName, gameSession.DeviceModel); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "Resolution: %s\n", gameSession.Resolution.String()); err != nil {
		return err
	}
	calibrated := "no"
	if gameSession.ScreenCalibration != nil {
		calibrated = fmt.Sprintf("yes (%d points, %d samples)",
			len(gameSession.ScreenCalibration.Points), len(gameSession.ScreenCalibration.DigitInputs))
	}
	if _, err := fmt.Fprintf(out, "Calibration: %s\n", calibrated); err != nil {
		return err
	}
	for _, activity := range gameSession.SortedActivities() {
		if _, err := fmt.Fprintf(out, "Activity %s: %d challenges, %d samples\n",
			activity.GameName, len(activity.Challenges), len(activity.DigitInputs)); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed validation", failed, len(args))
	}
	return nil
}

func newTimeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "time <session.json>...",
		Short: "Export the annotated per-sample timeline as CSV",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runTimeCmd,
	}
	cmd.Flags().StringVar(&timeOutput, "output", "", "output CSV path (default: <first input>_time.csv)")
	return cmd
}

func runTimeCmd(_ *cobra.Command, args []string) error {
	gameSession, err := loadSession(args)
	if err != nil {
		return err
	}
	rows, err := timeline.SampleTable(gameSession)
	if err != nil {
		return fmt.Errorf("failed to build timeline: %w", err)
	}
	output := timeOutput
	if output == "" {
		output = derivedOutputPath(args[0], "_time.csv")
	}
	if err := export.WriteSampleTable(output, rows); err != nil {
		return err
	}
	logErrf("Wrote %s (%d rows)\n", output, len(rows))
	return nil
}

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score <session.json>...",
		Short: "Compute activity and challenge scores",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runScoreCmd,
	}
	cmd.Flags().BoolVar(&scoreStore, "store", false, "persist scores to the local database")
	cmd.Flags().StringVar(&scoreOutputDir, "output-dir", "", "also write score CSV tables to this directory")
	cmd.Flags().BoolVar(&scoreOnlyActivities, "only-activities", false, "report activity-level scores only")
	return cmd
}

func runScoreCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyBoolConfig(cmd, "store", &scoreStore, fileCfg.Score.Store)
	applyStringConfig(cmd, "output-dir", &scoreOutputDir, fileCfg.Score.OutputDir)
	applyBoolConfig(cmd, "only-activities", &scoreOnlyActivities, fileCfg.Score.OnlyActivities)

	gameSession, err := loadSession(args)
	if err != nil {
		return err
	}
	activities, challenges, err := timeline.Scores(gameSession)
	if err != nil {
		return fmt.Errorf("failed to compute scores: %w", err)
	}
	rendered := challenges
	if scoreOnlyActivities {
		rendered = nil
	}
	if err := report.RenderScores(cmd.OutOrStdout(), activities, rendered); err != nil {
		return err
	}

	if scoreOutputDir != "" {
		if err := export.WriteActivityScores(filepath.Join(scoreOutputDir, "activity_scores.csv"), activities); err != nil {
			return err
		}
		if !scoreOnlyActivities {
			if err := export.WriteChallengeScores(filepath.Join(scoreOutputDir, "challenge_scores.csv"), challenges); err != nil {
				return err
			}
		}
		logErrf("Wrote score tables to %s\n", scoreOutputDir)
	}

	if !scoreStore {
		return nil
	}
	times, err := timeline.ResponseTimes(gameSession)
	if err != nil {
		return fmt.Errorf("failed to compute response times: %w", err)
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	run := store.Run{
		StudentID:  gameSession.StudentID,
		DeviceName: gameSession.DeviceName,
		DeviceUID:  gameSession.DeviceUID,
		Resolution: gameSession.Resolution.String(),
		AnalyzedAt: time.Now(),
	}
	id, err := st.InsertRun(context.Background(), run, activities, challenges, times)
	if err != nil {
		return fmt.Errorf("failed to store run: %w", err)
	}
	logErrf("Stored run #%d\n", id)
	return nil
}

func newTimesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "times <session.json>...",
		Short: "Report training and playing response times",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runTimesCmd,
	}
	cmd.Flags().StringVar(&timesOutput, "output", "", "also write the response-time table to this CSV path")
	return cmd
}

func runTimesCmd(cmd *cobra.Command, args []string) error {
	gameSession, err := loadSession(args)
	if err != nil {
		return err
	}
	times, err := timeline.ResponseTimes(gameSession)
	if err != nil {
		return fmt.Errorf("failed to compute response times: %w", err)
	}
	if err := report.RenderResponseTimes(cmd.OutOrStdout(), times); err != nil {
		return err
	}
	if timesOutput != "" {
		if err := export.WriteResponseTimes(timesOutput, times); err != nil {
			return err
		}
		logErrf("Wrote %s\n", timesOutput)
	}
	return nil
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <session.json>...",
		Short: "Replay the session's touch trace in the terminal",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runReplayCmd,
	}
	cmd.Flags().Float64Var(&replaySpeed, "speed", defaultSpeed, "playback speed multiplier")
	cmd.Flags().Float64Var(&replayFromTime, "from-time", 0, "start playback at this session timestamp (seconds)")
	return cmd
}

func runReplayCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFloatConfig(cmd, "speed", &replaySpeed, fileCfg.Replay.Speed)
	applyFloatConfig(cmd, "from-time", &replayFromTime, fileCfg.Replay.FromTime)
	if replaySpeed <= 0 {
		return fmt.Errorf("--speed must be > 0")
	}

	gameSession, err := loadSession(args)
	if err != nil {
		return err
	}
	rows, err := timeline.SampleTable(gameSession)
	if err != nil {
		return fmt.Errorf("failed to build timeline: %w", err)
	}
	model := replay.NewModel(rows, replaySpeed, replayFromTime)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run replay TUI: %w", err)
	}
	return nil
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Plot stored score progressions",
		Args:  cobra.NoArgs,
		RunE:  runReportCmd,
	}
	cmd.Flags().StringVar(&reportStudent, "student", "", "student filter")
	cmd.Flags().IntVar(&reportWindow, "moving-average", defaultMovingAverage, "moving average window")
	cmd.Flags().IntVar(&reportPlotWidth, "plot-width", 0, "plot width (default: terminal width)")
	cmd.Flags().IntVar(&reportPlotHeight, "plot-height", defaultPlotHeight, "plot height")
	cmd.Flags().StringSliceVar(&reportActivities, "activity", nil, "activities to plot (default: all mini-games)")
	return cmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "moving-average", &reportWindow, fileCfg.Report.MovingAverage)
	applyIntConfig(cmd, "plot-width", &reportPlotWidth, fileCfg.Report.PlotWidth)
	applyIntConfig(cmd, "plot-height", &reportPlotHeight, fileCfg.Report.PlotHeight)
	if reportWindow < 1 {
		return fmt.Errorf("--moving-average must be >= 1")
	}

	activities := reportActivities
	if len(activities) == 0 {
		activities = []string{
			string(session.GameCrocosMaze),
			string(session.GameDJCrocos),
			string(session.GameCrocosVocabulo),
			string(session.GameCrocosFactory),
			string(session.GameCrocosSpot),
		}
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	history, err := report.BuildHistory(context.Background(), st, reportStudent, activities)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	return report.RenderHistory(cmd.OutOrStdout(), history, reportWindow, reportPlotWidth, reportPlotHeight, false)
}

func newBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse stored runs interactively",
		Args:  cobra.NoArgs,
		RunE:  runBrowseCmd,
	}
	cmd.Flags().StringVar(&browseStudent, "student", "", "student filter")
	cmd.Flags().IntVar(&browseWindow, "moving-average", defaultMovingAverage, "moving average window")
	return cmd
}

func runBrowseCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "moving-average", &browseWindow, fileCfg.Report.MovingAverage)

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	model := browse.NewModel(st, browse.Config{StudentID: browseStudent, Window: browseWindow})
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run browse TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func derivedOutputPath(input, suffix string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(filepath.Dir(input), base+suffix)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# crocos configuration
# Uncomment a value to enable it. CLI flags override config values.

[replay]
# speed = %.1f            # Playback speed multiplier
# from-time = 0.0        # Start playback at this session timestamp

[score]
# store = false          # Persist scores to the local database
# output-dir = ""        # Also write score CSV tables here
# only-activities = false # Report activity-level scores only

[report]
# plot-width = 0         # Plot width (0 = terminal width)
# plot-height = %d       # Plot height
# moving-average = %d    # Moving average window
`,
		defaultSpeed,
		defaultPlotHeight,
		defaultMovingAverage,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
