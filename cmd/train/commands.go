package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/godilite/ticket-classifier/internal/config"
	"github.com/godilite/ticket-classifier/internal/notify"
	"github.com/godilite/ticket-classifier/internal/repository"
	"github.com/godilite/ticket-classifier/internal/training"
	dbbuilder "github.com/godilite/ticket-classifier/pkg/database"
)

type trainFlags struct {
	dataPath      string
	modelPath     string
	seed          int64
	historyDB     string
	notifyWebhook string
}

func newRootCmd(out io.Writer) *cobra.Command {
	flags := &trainFlags{}

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the legacy ticket classifier",
		Long: `Train the TF-IDF + Naive Bayes ticket classifier from a labeled CSV.

The CSV needs a 'text' and a 'category' column. The hold-out share grows with the
number of classes; corpora too small to stratify are trained and evaluated on
every row. The fitted pipeline is written to --model_path.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTrain(cmd.Context(), flags, out)
		},
	}

	cmd.Flags().StringVar(&flags.dataPath, "data", "tickets.csv", "labeled training CSV")
	cmd.Flags().StringVar(&flags.modelPath, "model_path", "model/classifier.pkl", "where to write the trained model")
	cmd.Flags().Int64Var(&flags.seed, "seed", training.DefaultSeed, "random seed for the train/test split")
	cmd.PersistentFlags().StringVar(&flags.historyDB, "history_db", "model/training_history.db", "SQLite file for the training history; empty disables it")
	cmd.Flags().StringVar(&flags.notifyWebhook, "notify_webhook", os.Getenv("SLACK_WEBHOOK_URL"), "Slack incoming webhook notified after training")

	cmd.AddCommand(newHistoryCmd(flags, out))
	return cmd
}

func newLogger() (*zap.Logger, error) {
	return config.NewLogger(config.LoadFromEnv())
}

func openHistory(ctx context.Context, path string) (*repository.TrainingRunRepository, func(), error) {
	db, err := dbbuilder.New(ctx,
		dbbuilder.WithDataSource(path),
		dbbuilder.WithCreateParentDir(),
		// one writer per sqlite file
		dbbuilder.WithMaxOpenConns(1),
		dbbuilder.WithMaxIdleConns(1),
		dbbuilder.WithRetry(1, 0),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("open training history: %w", err)
	}
	repo := repository.NewTrainingRunRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return repo, func() { db.Close() }, nil
}

func runTrain(ctx context.Context, flags *trainFlags, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	var runs training.RunRecorder
	if flags.historyDB != "" {
		repo, closeDB, err := openHistory(ctx, flags.historyDB)
		if err != nil {
			logger.Warn("training history disabled", zap.Error(err))
		} else {
			defer closeDB()
			runs = repo
		}
	}

	var notifier training.Notifier
	if flags.notifyWebhook != "" {
		notifier = notify.NewSlackWebhook(flags.notifyWebhook, logger)
	}

	trainer := training.NewTrainer(runs, notifier, logger, out)
	_, err = trainer.Train(ctx, training.Options{
		DataPath:  flags.dataPath,
		ModelPath: flags.modelPath,
		Seed:      flags.seed,
	})
	return err
}

func newHistoryCmd(flags *trainFlags, out io.Writer) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent training runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.historyDB == "" {
				return fmt.Errorf("training history is disabled (--history_db is empty)")
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			repo, closeDB, err := openHistory(ctx, flags.historyDB)
			if err != nil {
				return err
			}
			defer closeDB()

			runs, err := repo.ListRuns(ctx, limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCREATED\tROWS\tCLASSES\tSPLIT\tTEST_SIZE\tACCURACY\tMODEL")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%.4f\t%.4f\t%s\n",
					r.ID, r.CreatedAt.Local().Format(time.DateTime), r.TotalRows, r.ClassCount,
					r.SplitStrategy, r.TestSize, r.Accuracy, r.ModelPath)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to show")
	return cmd
}
