package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/myrjola/liftplan/internal/e2etest"
	"github.com/myrjola/liftplan/internal/logging"
	"github.com/myrjola/liftplan/internal/testhelpers"
	"github.com/myrjola/liftplan/internal/workout"
)

const (
	scenarioTimeout         = 30 * time.Second
	maxConcurrentOperations = 20
	successRateThreshold    = 95.0
	percentageMultiplier    = 100
	defaultNumUsers         = 10
	trainingWeeks           = 4
	firstUserID             = 100000
)

// weeklySplit is the sub-type sequence every simulated user trains. It never repeats upper or lower body three
// times in a row.
//
//nolint:gochecknoglobals // training split.
var weeklySplit = []workout.SubType{
	workout.SubTypeUpperBody,
	workout.SubTypeLowerBody,
	workout.SubTypeFullBody,
}

// TrainingScenario simulates a user training the weekly split for a number of weeks.
func TrainingScenario(ctx context.Context, client *e2etest.Client, userID int, logger *slog.Logger) error {
	for week := range trainingWeeks {
		for _, subType := range weeklySplit {
			completed, err := client.WorkoutScenario(ctx, userID, subType)
			if err != nil {
				return fmt.Errorf("week %d %s: %w", week+1, subType, err)
			}
			logger.LogAttrs(ctx, slog.LevelDebug, "Workout completed",
				slog.Int("user_id", userID),
				slog.String("workout_id", completed.ID),
				slog.String("sub_type", string(subType)))
		}
	}
	return nil
}

// RunLoadTest runs the training scenario for numUsers users concurrently.
func RunLoadTest(ctx context.Context, client *e2etest.Client, numUsers int, logger *slog.Logger) error {
	logger.LogAttrs(ctx, slog.LevelInfo, "Starting load test", slog.Int("num_users", numUsers))

	var successCount, failureCount atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentOperations)

	// Each run uses fresh users so that earlier runs do not influence the guard.
	baseUserID := firstUserID + int(time.Now().Unix()%firstUserID)*numUsers
	for i := range numUsers {
		userID := baseUserID + i
		g.Go(func() error {
			scenarioCtx, cancel := context.WithTimeout(ctx, scenarioTimeout)
			defer cancel()

			if err := TrainingScenario(scenarioCtx, client, userID, logger); err != nil {
				failureCount.Add(1)
				// Individual failures only lower the success rate.
				logger.LogAttrs(scenarioCtx, slog.LevelWarn, "Scenario failed",
					slog.Int("user_id", userID),
					slog.Any("error", err))
				return nil
			}

			successCount.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("load test failed: %w", err)
	}

	successRate := float64(successCount.Load()) / float64(numUsers) * percentageMultiplier

	logger.LogAttrs(ctx, slog.LevelInfo, "Load test completed",
		slog.Int64("successful", successCount.Load()),
		slog.Int64("failed", failureCount.Load()),
		slog.Float64("success_rate", successRate))

	if successRate < successRateThreshold {
		return fmt.Errorf("load test failed: success rate %.1f%% below threshold", successRate)
	}

	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) < 2 || len(os.Args) > 3 { //nolint:mnd // hostname and optional user count.
		logger.LogAttrs(ctx, slog.LevelError, "usage: stresstest <hostname> [users]")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		numUsers = defaultNumUsers
		start    = time.Now()
		err      error
	)
	if len(os.Args) == 3 { //nolint:mnd // user count given.
		if numUsers, err = strconv.Atoi(os.Args[2]); err != nil || numUsers <= 0 {
			logger.LogAttrs(ctx, slog.LevelError, "invalid user count", slog.String("users", os.Args[2]))
			os.Exit(1)
		}
	}

	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	client := e2etest.NewClient(url)
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}

	if err = RunLoadTest(ctx, client, numUsers, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "load test failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Load test completed successfully 🙌",
		slog.Duration("total_duration", time.Since(start)),
		slog.Int("users_tested", numUsers))
}
