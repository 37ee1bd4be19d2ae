package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tutorcal/tutorcal/internal/profile"
	"github.com/tutorcal/tutorcal/plugin/ai/queryparser"
	ratelimit "github.com/tutorcal/tutorcal/server/middleware"
	"github.com/tutorcal/tutorcal/server/queryengine"
	apiv1 "github.com/tutorcal/tutorcal/server/router/api/v1"
	"github.com/tutorcal/tutorcal/store"
	"github.com/tutorcal/tutorcal/store/db"
)

const version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:   "tutorcal",
	Short: "Availability calendar query service for instructors",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP query server",
	RunE: func(_ *cobra.Command, _ []string) error {
		return runServe()
	},
}

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Run a one-shot natural-language query against a stored calendar",
	Args:  cobra.ExactArgs(1),
}

func init() {
	queryCmd.RunE = func(_ *cobra.Command, args []string) error {
		return runQuery(args[0])
	}
	rootCmd.PersistentFlags().String("mode", "demo", `mode of the server: "prod", "dev", or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of the server")
	rootCmd.PersistentFlags().Int("port", 8231, "port of the server")
	rootCmd.PersistentFlags().String("data", ".", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", `database driver: "sqlite" or "postgres"`)
	rootCmd.PersistentFlags().String("dsn", "", "database source name")

	queryCmd.Flags().String("owner", "default", "calendar owner ID")

	cobra.CheckErr(viper.BindPFlags(rootCmd.PersistentFlags()))
	viper.SetEnvPrefix("tutorcal")
	viper.AutomaticEnv()

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(queryCmd)
}

func loadProfile() (*profile.Profile, error) {
	p := &profile.Profile{
		Mode:    viper.GetString("mode"),
		Addr:    viper.GetString("addr"),
		Port:    viper.GetInt("port"),
		Data:    viper.GetString("data"),
		Driver:  viper.GetString("driver"),
		DSN:     viper.GetString("dsn"),
		Version: version,
	}
	p.FromEnv()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// newParser builds the query-producer chain: LLM first when configured,
// pattern parser as the always-available fallback.
func newParser(p *profile.Profile, logger *slog.Logger) queryparser.Parser {
	fallback := queryparser.NewPatternParser()
	if !p.AIEnabled || p.AIAPIKey == "" {
		return queryparser.NewSelector(nil, fallback, logger)
	}

	llm, err := queryparser.NewLLMParser(&queryparser.LLMConfig{
		BaseURL:           p.AIBaseURL,
		APIKey:            p.AIAPIKey,
		Model:             p.AIModel,
		RequestsPerMinute: p.AIRequestsPerMinute,
	})
	if err != nil {
		logger.Warn("LLM parser unavailable, using pattern parser only", slog.Any("error", err))
		return queryparser.NewSelector(nil, fallback, logger)
	}
	return queryparser.NewSelector(llm, fallback, logger)
}

func runServe() error {
	p, err := loadProfile()
	if err != nil {
		return err
	}
	logger := slog.Default()

	driver, err := db.NewDBDriver(p)
	if err != nil {
		return err
	}
	st := store.New(driver, p)
	defer st.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(ratelimit.NewOwnerRateLimiter(10, 20).Middleware())

	engine := queryengine.NewEngine()
	apiService := apiv1.NewAPIV1Service(engine, st, newParser(p, logger), logger)
	apiService.RegisterRoutes(e)

	addr := fmt.Sprintf("%s:%d", p.Addr, p.Port)
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", slog.Any("error", err))
		}
	}()
	logger.Info("server started", slog.String("addr", addr), slog.String("version", version))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(ctx)
}

func runQuery(text string) error {
	p, err := loadProfile()
	if err != nil {
		return err
	}
	logger := slog.Default()

	driver, err := db.NewDBDriver(p)
	if err != nil {
		return err
	}
	st := store.New(driver, p)
	defer st.Close()

	ctx := context.Background()
	owner, err := queryCmd.Flags().GetString("owner")
	if err != nil {
		return err
	}

	query, err := newParser(p, logger).Parse(ctx, text, time.Now().UTC())
	if err != nil {
		return err
	}

	calendar, err := st.LoadAvailability(ctx, owner)
	if err != nil {
		return err
	}

	result, err := queryengine.NewEngine().Execute(ctx, query, calendar)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
