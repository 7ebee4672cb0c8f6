package service

import (
	"context"
	"fmt"
	"os"

	"blog/app/config"
	"blog/app/database"
	"blog/app/logger"
	"blog/app/seed"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var (
	osExit     = os.Exit
	loadConfig = config.LoadConfig
)

// HandleCommand runs a blog subcommand and returns an exit code.
func HandleCommand(args []string) int {
	if len(args) < 1 {
		printHelp()
		osExit(1)
		return 1
	}

	cmd := args[0]
	switch cmd {
	case "serve":
		return withRuntime(func(cfg *config.Config, log *zap.Logger) error {
			return serve(cfg, log, args[1:])
		})
	case "migrate":
		return withRuntime(migrate)
	case "seed":
		return withRuntime(func(cfg *config.Config, log *zap.Logger) error {
			return seedCommand(cfg, log, args[1:])
		})
	case "help":
		printHelp()
		return 0
	default:
		fmt.Printf("Unknown command: %s\n\n", cmd)
		printHelp()
		osExit(1)
		return 1
	}
}

// printHelp prints help for the subcommands.
func printHelp() {
	helpText := `Usage: blog <command> [options]

Commands:
  serve [--port <port>]           Run the blog web server
  migrate                         Create or update the database schema
  seed [options]                  Create the admin account and demo posts
      --posts <n>                 Number of posts to generate (default 5)
      --admin-email <email>       Admin email, required on an empty database
      --admin-password <pw>       Admin password, required on an empty database
      --admin-name <name>         Admin display name (default "Admin")
      --seed <n>                  Random seed for reproducible content
  version                         Show version information
  help                            Display this help message

Configuration is read from .env, config.yml, config.<APP_ENV>.yml and the environment.`
	fmt.Println(helpText)
}

func withRuntime(run func(*config.Config, *zap.Logger) error) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}
	log, err := logger.New(!cfg.IsProduction())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("command failed", zap.Error(err))
		fmt.Printf("Error: %v\n", err)
		return 1
	}
	return 0
}

func serve(cfg *config.Config, log *zap.Logger, args []string) error {
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	port := fs.String("port", cfg.Port, "port to listen on")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.Port = *port
	return RunAppServer(cfg, log)
}

func migrate(cfg *config.Config, log *zap.Logger) error {
	db, err := database.Open(cfg, log)
	if err != nil {
		return err
	}
	defer closeDB(db)

	if err := database.Migrate(db); err != nil {
		return err
	}
	fmt.Println("Database migrated successfully")
	return nil
}

func seedCommand(cfg *config.Config, log *zap.Logger, args []string) error {
	fs := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	var opts seed.Options
	fs.IntVar(&opts.Posts, "posts", 5, "number of posts to generate")
	fs.StringVar(&opts.AdminEmail, "admin-email", "", "admin email")
	fs.StringVar(&opts.AdminPassword, "admin-password", "", "admin password")
	fs.StringVar(&opts.AdminName, "admin-name", "Admin", "admin display name")
	fs.Int64Var(&opts.Seed, "seed", 0, "random seed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if opts.Posts < 0 {
		return fmt.Errorf("--posts must not be negative")
	}

	domain, err := OpenDomain(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = domain.Close() }()

	res, err := domain.Seeder(log).Run(context.Background(), opts)
	if err != nil {
		return err
	}
	if res.AdminCreated {
		fmt.Printf("Created admin %s (id %d)\n", res.Admin.Email, res.Admin.ID)
	}
	fmt.Printf("Created %d posts\n", len(res.Posts))
	return nil
}
