package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/ibeckermayer/fridgeverify/internal/scheduler"
)

var (
	flagWatchEvery    time.Duration
	flagWatchSchedule string
	flagWatchNow      bool
)

const watchJob = "duplicate-name-check"

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the verification on a schedule",
	Long: `Run the verification periodically until interrupted.

Examples:
  fridgeverify watch                       # Use watch.schedule from the config
  fridgeverify watch --every 5m
  fridgeverify watch --schedule "0 9 * * 1-5"

Send SIGHUP to reload the config file between runs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagWatchEvery > 0 && flagWatchSchedule != "" {
			return fmt.Errorf("--every and --schedule are mutually exclusive")
		}

		cfg, cfgPath, logger, err := setup()
		if err != nil {
			return err
		}

		schedule := cfg.Watch.Schedule
		if flagWatchSchedule != "" {
			schedule = flagWatchSchedule
		}

		a := newApp(cfg, logger)
		defer a.Close()

		// The scheduler bounds each job; the runner applies its own run timeout inside.
		sched, err := scheduler.New(cfg.Watch.Timezone, cfg.Timeouts.Run.Duration+30*time.Second, logger)
		if err != nil {
			return err
		}

		job := func(ctx context.Context) error {
			_, err := a.RunOnce(ctx)
			return err
		}
		if flagWatchEvery > 0 {
			schedule = scheduler.IntervalSchedule(flagWatchEvery)
			err = sched.AddIntervalJob(watchJob, flagWatchEvery, job)
		} else {
			err = sched.AddJob(watchJob, schedule, job)
		}
		if err != nil {
			return err
		}

		ctx, stop := signalContext()
		defer stop()

		if flagWatchNow {
			if err := sched.RunNow(watchJob, job); err != nil {
				logger.Warn("[watch] Initial run failed", "error", err)
			}
		}

		sched.Start()
		for _, j := range sched.ListJobs() {
			logger.Info("[watch] Watching", "job", j.Name, "schedule", schedule, "next", j.NextRun.Format(time.DateTime))
		}

		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)

		for {
			select {
			case <-hup:
				// Takes effect from the next scheduled run
				if cfgPath == "" {
					logger.Warn("[watch] No config file to reload")
					continue
				}
				if err := a.ReloadConfig(cfgPath); err != nil {
					logger.Error("[watch] Config reload failed, keeping previous config", "error", err)
					continue
				}
				next := a.Config()
				logger.Info("[watch] Next run targets", "url", next.TargetURL())
				if flagWatchEvery > 0 || flagWatchSchedule != "" {
					continue
				}
				if schedule, err = reschedule(sched, job, schedule, next.Watch.Schedule); err != nil {
					logger.Error("[watch] Keeping previous schedule", "schedule", schedule, "error", err)
				}
			case <-ctx.Done():
				<-sched.Stop().Done()
				return nil
			}
		}
	},
}

// reschedule replaces the watch job when the schedule changed and returns the
// schedule now in effect. An invalid schedule leaves the current job alone.
func reschedule(sched *scheduler.Scheduler, job scheduler.Job, current, next string) (string, error) {
	if next == current {
		return current, nil
	}
	if _, err := cron.ParseStandard(next); err != nil {
		return current, fmt.Errorf("invalid schedule %q: %w", next, err)
	}
	sched.RemoveJob(watchJob)
	if err := sched.AddJob(watchJob, next, job); err != nil {
		return "", err
	}
	return next, nil
}

func init() {
	watchCmd.Flags().DurationVar(&flagWatchEvery, "every", 0, "Run at a fixed interval (e.g. 10m)")
	watchCmd.Flags().StringVar(&flagWatchSchedule, "schedule", "", "Cron schedule (overrides watch.schedule)")
	watchCmd.Flags().BoolVar(&flagWatchNow, "now", false, "Run once immediately before waiting for the schedule")
}
