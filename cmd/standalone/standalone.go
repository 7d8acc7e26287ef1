package standalone

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"riverbird-standalone/cmd/root"
	"riverbird-standalone/controllers"
	"riverbird-standalone/internal/config"
	"riverbird-standalone/internal/logger"
	"riverbird-standalone/internal/models"
	"riverbird-standalone/services"
)

var (
	configPath   string
	adminAddr    string
	readyTimeout time.Duration
	gracePeriod  time.Duration
)

var standaloneCmd = &cobra.Command{
	Use:   "standalone",
	Short: "Run all roles as one coordinated process",
	Long:  `Starts the meta, compute and frontend roles inside a single process lifecycle: meta first, dependents once meta is ready. A termination signal or any role's failure takes the whole deployment down in reverse order.`,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runStandalone())
	},
}

/**
 * Run the standalone deployment to completion
 * @returns {int} Process exit code: 0 graceful, 1 config error,
 * 2 meta readiness failure, 3 abnormal unit exit
 * @description
 * - Loads and validates the configuration bundle (fatal before any unit starts)
 * - Serves the admin API for the lifetime of the run
 * - Translates SIGINT/SIGTERM into an orchestrator shutdown message
 */
func runStandalone() int {
	bundle, err := config.LoadBundle(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return models.ExitCodeConfig
	}
	if adminAddr != "" {
		bundle.Server.Address = adminAddr
	}
	if readyTimeout > 0 {
		bundle.Run.ReadyTimeout = readyTimeout
	}
	if gracePeriod > 0 {
		bundle.Run.GracePeriod = gracePeriod
	}

	logger.InitLogger(&bundle.Log, true)
	gin.SetMode(bundle.Server.Mode)

	orch := services.NewOrchestrator(bundle)
	logger.Infof("Standalone run %s starting (admin API at %s)", orch.RunID(), bundle.Server.Address)

	router := gin.New()
	router.Use(gin.Recovery())
	apiController := controllers.NewAPIController(orch)
	apiController.RegisterRoutes(router)

	srv := &http.Server{Addr: bundle.Server.Address, Handler: router}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("Admin API server failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	outcome := orch.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)

	if outcome.ExitCode != models.ExitCodeOK {
		fmt.Fprintf(os.Stderr, "standalone run failed (exit %d): role %s\n",
			outcome.ExitCode, outcome.FailedRole)
		for _, u := range outcome.Units {
			if u.Reason != "" && u.Exit != models.ExitSuccess {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", u.Role, u.Reason)
			}
		}
	}
	return outcome.ExitCode
}

func init() {
	standaloneCmd.Flags().StringVarP(&configPath, "config", "c", "", "config bundle path (default ./standalone.yaml)")
	standaloneCmd.Flags().StringVar(&adminAddr, "admin-addr", "", "admin API listen address (overrides config)")
	standaloneCmd.Flags().DurationVar(&readyTimeout, "ready-timeout", 0, "max wait for meta readiness (overrides config)")
	standaloneCmd.Flags().DurationVar(&gracePeriod, "grace-period", 0, "per-unit cooperative shutdown window (overrides config)")
	root.RootCmd.AddCommand(standaloneCmd)
}
