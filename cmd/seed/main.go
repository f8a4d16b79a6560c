package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"deepedu/internal/auth"
	"deepedu/internal/config"
	"deepedu/internal/docstore"
	"deepedu/internal/ebook"
	"deepedu/internal/logging"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

func main() {
	config.LoadEnvFiles()
	logging.Init(logging.Config{Level: os.Getenv("LOG_LEVEL"), Format: "console", Output: os.Stderr})

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		logging.Fatal().Err(err).Msg("seed failed")
	}
}

type options struct {
	count         int
	adminEmail    string
	adminPassword string
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Insert sample ebooks and the admin account",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if opts.adminEmail == "" {
				opts.adminEmail = cfg.Auth.AdminEmail
			}
			if opts.adminPassword == "" {
				opts.adminPassword = cfg.Auth.AdminPassword
			}
			return run(cmd.Context(), cfg, opts)
		},
	}
	cmd.Flags().IntVar(&opts.count, "count", 0, "number of generated ebooks to add after the samples")
	cmd.Flags().StringVar(&opts.adminEmail, "admin-email", "", "admin email (defaults to ADMIN_EMAIL)")
	cmd.Flags().StringVar(&opts.adminPassword, "admin-password", "", "admin password (defaults to ADMIN_PASSWORD)")
	return cmd
}

func run(ctx context.Context, cfg *config.Config, opts options) error {
	if cfg.Store.Type == config.StoreMemory {
		return errors.New("seeding needs a persistent store; set STORE_TYPE to postgres or badger")
	}

	var pool *pgxpool.Pool
	if cfg.NeedsPostgres() {
		p, err := pgxpool.New(ctx, cfg.Store.DSN)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer p.Close()
		pool = p
	}

	store, err := docstore.Open(cfg.Store, pool)
	if err != nil {
		return fmt.Errorf("open document store: %w", err)
	}
	defer store.Close()

	svc := ebook.NewService(ebook.NewDocumentRepository(store))
	subs := append(samples(), generate(opts.count, rand.New(rand.NewSource(time.Now().UnixNano())))...)
	if err := insert(ctx, svc, subs); err != nil {
		return err
	}

	if opts.adminEmail == "" || opts.adminPassword == "" {
		logging.Warn().Msg("no admin credentials given, skipping admin account")
		return nil
	}
	if cfg.Auth.UsersStore != config.StorePostgres {
		logging.Warn().Str("users_store", cfg.Auth.UsersStore).Msg("admin account is only persisted with the postgres users store")
		return nil
	}
	repos, err := auth.NewRepositories(cfg.Auth.UsersStore, pool, cfg.Store.Timeout)
	if err != nil {
		return err
	}
	admin, err := auth.EnsureAdmin(ctx, repos.Users, opts.adminEmail, opts.adminPassword)
	if err != nil {
		return err
	}
	logging.Info().Str("email", admin.Email).Msg("admin account ready")
	return nil
}

func insert(ctx context.Context, svc *ebook.Service, subs []ebook.Submission) error {
	for i, sub := range subs {
		if _, err := svc.Create(ctx, sub); err != nil {
			return fmt.Errorf("insert %q: %w", sub.Title, err)
		}
		if (i+1)%100 == 0 {
			logging.Info().Int("inserted", i+1).Int("total", len(subs)).Msg("seeding")
		}
	}
	logging.Info().Int("count", len(subs)).Msg("ebooks inserted")
	return nil
}

func year(y int) *int { return &y }

func samples() []ebook.Submission {
	const cover = "https://drive.google.com/uc?id=sample-cover"
	const pdf = "https://drive.google.com/uc?id=sample-pdf"
	return []ebook.Submission{
		{Title: "Real Numbers Made Simple", Author: "DeepEdu Team", Genre: "Mathematics", Year: year(2024), Description: "Euclid's division lemma, irrational numbers and decimal expansions.", CoverURL: cover, ContentURL: pdf},
		{Title: "Polynomials Practice Book", Author: "DeepEdu Team", Genre: "Mathematics", Year: year(2024), CoverURL: cover, ContentURL: pdf},
		{Title: "Trigonometry Quick Revision", Author: "DeepEdu Team", Genre: "Mathematics", Year: year(2023), CoverURL: cover, ContentURL: pdf},
		{Title: "Light: Reflection and Refraction", Author: "DeepEdu Team", Genre: "Science", Year: year(2024), Description: "Mirrors, lenses and the refractive index with solved numericals.", CoverURL: cover, ContentURL: pdf},
		{Title: "Chemical Reactions and Equations", Author: "DeepEdu Team", Genre: "Science", Year: year(2023), CoverURL: cover, ContentURL: pdf},
		{Title: "Life Processes Notes", Author: "DeepEdu Team", Genre: "Science", CoverURL: cover, ContentURL: pdf},
		{Title: "First Flight Summaries", Author: "DeepEdu Team", Genre: "English", Year: year(2024), CoverURL: cover, ContentURL: pdf},
		{Title: "Nationalism in India", Author: "DeepEdu Team", Genre: "Social Science", Year: year(2022), CoverURL: cover, ContentURL: pdf},
		{Title: "One-Week Exam Study Plan", Author: "DeepEdu Team", Description: "A day-by-day revision timetable.", CoverURL: cover, ContentURL: pdf},
	}
}

var (
	genres = []string{"Mathematics", "Science", "English", "Social Science", "Hindi", "Computer Science"}
	topics = []string{"Revision Notes", "Practice Set", "Sample Papers", "Chapter Summary", "Formula Sheet", "Question Bank"}
)

func generate(n int, rng *rand.Rand) []ebook.Submission {
	out := make([]ebook.Submission, 0, n)
	for i := 0; i < n; i++ {
		genre := genres[rng.Intn(len(genres))]
		out = append(out, ebook.Submission{
			Title:      fmt.Sprintf("%s %s %d", genre, topics[rng.Intn(len(topics))], i+1),
			Author:     "DeepEdu Team",
			Genre:      genre,
			Year:       year(2018 + rng.Intn(8)),
			CoverURL:   fmt.Sprintf("https://drive.google.com/uc?id=cover-%d", i+1),
			ContentURL: fmt.Sprintf("https://drive.google.com/uc?id=pdf-%d", i+1),
		})
	}
	return out
}
