package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"driver-manager/core/loader"
	"driver-manager/core/logger"
	"driver-manager/core/middleware/auth"
	"driver-manager/core/middleware/rayid"
	"driver-manager/feature/drivers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "driver-manager/docs/swagger"
)

// @title Driver Manager API
// @version 1.0
// @description API for checking and updating the device drivers of a workstation.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the driver manager server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Configuration, Logger and Service
		rt, err := loadRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()
		logg := rt.logger.With(zap.String("platform", rt.platform))
		zap.ReplaceGlobals(logg)

		// 2. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 3. Initialize Feature Loader
		mgr := loader.NewManager()

		// Register Features
		mgr.Register(drivers.NewFeature(rt.service))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 2.5 Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey}))
		if rt.cfg.Server.ApiKey == "" {
			logg.Warn("server.api_key is empty, the API is unauthenticated")
		}

		// 4. Load Features
		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		// 5. Start Server
		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
			errCh <- app.Listen(":" + rt.cfg.Server.Port)
		}()

		// 6. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return err
		case <-c:
		}
		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
