package command

// admin.go holds operator commands that work on the database directly.

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"yamdb/database"
	"yamdb/internal/config"
	"yamdb/internal/logger"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/microservices/http-api/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// operator bundles what the database commands need.
type operator struct {
	cfg *config.Config
	db  *gorm.DB
	l   *zap.Logger
}

// withOperator loads config, opens the database without migrating and runs fn.
func withOperator(cmd *cobra.Command, fn func(ctx context.Context, op *operator) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	l, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer l.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	db, err := database.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	return fn(ctx, &operator{cfg: cfg, db: db, l: l})
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOperator(cmd, func(ctx context.Context, op *operator) error {
			if err := database.RunMigrations(ctx, op.db, op.l); err != nil {
				return err
			}
			return printVersion(ctx, cmd, op.db)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, _ := cmd.Flags().GetInt("steps")
		if steps < 1 {
			return fmt.Errorf("--steps must be at least 1")
		}
		return withOperator(cmd, func(ctx context.Context, op *operator) error {
			if err := database.RollbackMigrations(ctx, op.db, steps, op.l); err != nil {
				return err
			}
			return printVersion(ctx, cmd, op.db)
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the applied schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOperator(cmd, func(ctx context.Context, op *operator) error {
			return printVersion(ctx, cmd, op.db)
		})
	},
}

func printVersion(ctx context.Context, cmd *cobra.Command, db *gorm.DB) error {
	version, dirty, err := database.MigrationVersion(ctx, db)
	if err != nil {
		return err
	}
	if dirty {
		color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "schema version %d (dirty)\n", version)
		return nil
	}
	success(cmd, "schema version %d", version)
	return nil
}

var createAdminCmd = &cobra.Command{
	Use:   "createadmin",
	Short: "Create a user with the admin role",
	Long: `Create a user with the admin role. The new admin gets a token the usual way:
yamdbctl auth signup with the same username and email, then yamdbctl auth token.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		staff, _ := cmd.Flags().GetBool("staff")

		return withOperator(cmd, func(ctx context.Context, op *operator) error {
			repo := repository.NewUserRepository(op.db)
			users, err := service.NewUserService(repo, service.OptionsFromConfig(op.cfg))
			if err != nil {
				return err
			}
			role := string(models.RoleAdmin)
			user, err := users.Create(ctx, dto.CreateUserDTO{Username: username, Email: email, Role: &role})
			if err != nil {
				return err
			}
			if staff {
				user.IsStaff = true
				if err := repo.Update(ctx, user); err != nil {
					return err
				}
			}
			op.l.Info("admin created", zap.String("username", user.Username), zap.Bool("staff", user.IsStaff))
			success(cmd, "Admin %s created", user.Username)
			return nil
		})
	},
}

var setRoleCmd = &cobra.Command{
	Use:   "setrole <username> <user|moderator|admin>",
	Short: "Change the role of a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, role := args[0], args[1]
		if !models.Role(role).Valid() {
			return fmt.Errorf("unknown role %q", role)
		}
		return withOperator(cmd, func(ctx context.Context, op *operator) error {
			users, err := service.NewUserService(repository.NewUserRepository(op.db), service.OptionsFromConfig(op.cfg))
			if err != nil {
				return err
			}
			user, err := users.Update(ctx, username, dto.UpdateUserDTO{Role: &role})
			if err != nil {
				return err
			}
			op.l.Info("role changed", zap.String("username", user.Username), zap.String("role", string(user.Role)))
			success(cmd, "%s is now %s", user.Username, user.Role)
			return nil
		})
	},
}

var checkConfigCmd = &cobra.Command{
	Use:   "checkconfig",
	Short: "Load and validate the server configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if _, err := service.NewUsernameValidator(cfg.UsernameForbiddenPatterns); err != nil {
			return err
		}

		info(cmd, "environment      %s", cfg.GoEnv)
		info(cmd, "http port        %d", cfg.HTTPPort)
		info(cmd, "code length      %d (single use: %t)", cfg.ConfirmationCodeLength, cfg.ConfirmationCodeSingleUse)
		info(cmd, "username rules   %d", len(cfg.UsernameForbiddenPatterns))
		info(cmd, "signup throttle  %s", enabled(cfg.RedisURL != ""))
		info(cmd, "smtp             %s", enabled(cfg.SMTPHost != ""))
		info(cmd, "metrics          %s", enabled(cfg.PrometheusEnabled))
		success(cmd, "configuration is valid")
		return nil
	},
}

func enabled(on bool) string {
	if on {
		return color.GreenString("enabled")
	}
	return color.HiBlackString("disabled")
}

func init() {
	rootCmd.AddCommand(migrateCmd, createAdminCmd, setRoleCmd, checkConfigCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)

	migrateDownCmd.Flags().Int("steps", 1, "Number of migrations to roll back")

	createAdminCmd.Flags().StringP("username", "u", "", "Admin username")
	createAdminCmd.Flags().StringP("email", "e", "", "Admin email")
	createAdminCmd.Flags().Bool("staff", false, "Also set the staff flag")
	createAdminCmd.MarkFlagRequired("username")
	createAdminCmd.MarkFlagRequired("email")
}
