package cli

import (
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"quiz-runner/internal/config"
	"quiz-runner/internal/infra/file"
	"quiz-runner/internal/infra/postgres"
	redisstore "quiz-runner/internal/infra/redis"
)

// NewImportBankCmd validates a question source file and stores it in Postgres.
func NewImportBankCmd(configPath *string) *cobra.Command {
	var migrateFirst bool
	cmd := &cobra.Command{
		Use:   "import-bank <bank-id> <questions.json>",
		Short: "Validate a question file and upsert it as a bank in Postgres",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bankID, path := args[0], args[1]

			questions, err := file.LoadFile(path)
			if err != nil {
				return err
			}
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			db, err := openBun(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if migrateFirst {
				if err := migrateDB(cmd.Context(), db); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
			}
			if err := postgres.NewBankImporter(db).Import(cmd.Context(), bankID, questions); err != nil {
				return err
			}
			log.Printf("imported %d questions into bank %s", len(questions), bankID)

			if cfg.Redis.Addr != "" {
				client := redis.NewClient(&redis.Options{
					Addr:     cfg.Redis.Addr,
					Password: cfg.Redis.Password,
					DB:       cfg.Redis.DB,
				})
				defer client.Close()
				// running servers pick up the new version on their next load
				if err := redisstore.NewBankRepository(client, nil, 0).Invalidate(cmd.Context(), bankID); err != nil {
					log.Printf("invalidate cached bank %s: %v", bankID, err)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&migrateFirst, "migrate", true, "apply migrations before importing")
	return cmd
}
