package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/yourusername/legalgames-api/internal/config"
)

type options struct {
	configPath    string
	migrationsDir string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Управление схемой базы данных legalgames",
		SilenceErrors: false,
		SilenceUsage:  true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "config/config.yaml", "путь к файлу конфигурации")
	cmd.PersistentFlags().StringVarP(&opts.migrationsDir, "dir", "d", "", "каталог миграций (по умолчанию из конфигурации)")

	cmd.AddCommand(
		newUpCmd(opts),
		newDownCmd(opts),
		newForceCmd(opts),
		newVersionCmd(opts),
	)
	cmd.CompletionOptions.HiddenDefaultCmd = true
	return cmd
}

func newUpCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Применить все новые миграции",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(opts, func(m *migrate.Migrate) error {
				err := m.Up()
				if errors.Is(err, migrate.ErrNoChange) {
					log.Println("Изменений в миграциях не найдено, база данных уже актуальна.")
					return nil
				}
				return err
			})
		},
	}
}

func newDownCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "down [N]",
		Short: "Откатить N миграций (по умолчанию одну)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("N must be a positive integer, got %q", args[0])
				}
				steps = n
			}
			return withMigrator(opts, func(m *migrate.Migrate) error {
				return m.Steps(-steps)
			})
		},
	}
}

func newForceCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "force VERSION",
		Short: "Принудительно выставить версию и снять признак dirty",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", args[0], err)
			}
			return withMigrator(opts, func(m *migrate.Migrate) error {
				return m.Force(version)
			})
		},
	}
}

func newVersionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Показать текущую версию схемы",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(opts, func(m *migrate.Migrate) error {
				version, dirty, err := m.Version()
				if errors.Is(err, migrate.ErrNilVersion) {
					cmd.Println("Миграции ещё не применялись")
					return nil
				}
				if err != nil {
					return err
				}
				cmd.Printf("version=%d dirty=%t\n", version, dirty)
				return nil
			})
		},
	}
}

// withMigrator открывает подключение по настройкам приложения и передаёт экземпляр migrate
func withMigrator(opts *options, fn func(m *migrate.Migrate) error) error {
	cfg, err := config.Read(opts.configPath)
	if err != nil {
		return err
	}
	if cfg.Database.Host == "" || cfg.Database.DBName == "" {
		return errors.New("database host and dbname are required (check DATABASE_HOST, DATABASE_DBNAME)")
	}

	dir := opts.migrationsDir
	if dir == "" {
		dir = cfg.Database.MigrationsDir
	}
	if dir == "" {
		dir = "migrations"
	}

	db, err := sql.Open("postgres", cfg.Database.PostgresConnectionString())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migrate driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	log.Printf("[Migrate] База %s, каталог %s", cfg.Database.DBName, dir)
	return fn(m)
}
