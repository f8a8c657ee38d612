package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/wthr-dev/wthr/internal/api"
	"github.com/wthr-dev/wthr/internal/cache"
	"github.com/wthr-dev/wthr/internal/config"
	"github.com/wthr-dev/wthr/internal/logger"
	"github.com/wthr-dev/wthr/internal/output"
	"github.com/wthr-dev/wthr/internal/storage"
	"github.com/wthr-dev/wthr/internal/store"
	"github.com/wthr-dev/wthr/internal/tui"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "wthr",
	Short: "Weather dashboard for the cities you follow",
	Long: `wthr is a terminal weather dashboard backed by OpenWeatherMap.

Features:
  - Interactive dashboard with city autocomplete and a forecast chart
  - Followed cities are remembered and refreshed on every start
  - Current conditions and a 24-hour forecast per city
  - JSON output for scripting

The provider key is read from OPENWEATHER_API_KEY (environment or .env).

Quick Start:
  1. Launch the dashboard:   wthr (or wthr tui)
  2. Find a city:            wthr search Київ
  3. Follow a city:          wthr add Kyiv
  4. Show followed cities:   wthr list
  5. Show the forecast:      wthr forecast <id>`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// If no subcommand is provided, launch TUI
		if len(args) == 0 {
			return runTUI(cmd, args)
		}
		return cmd.Help()
	},
}

// Global flags
var (
	flagConfig  string
	flagJSON    bool
	flagColor   string
	flagNoCache bool
)

// Command flags
var (
	flagWatch   bool
	flagDetails bool
	flagCache   bool
)

func init() {
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(forecastCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(clearCmd)

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", config.DefaultPath(), "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto", "Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Disable suggestion caching")

	listCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "Watch mode: refresh on the configured interval")
	listCmd.Flags().BoolVarP(&flagDetails, "details", "v", false, "Show all current conditions")
	clearCmd.Flags().BoolVar(&flagCache, "cache", false, "Also remove cached suggestions (expired ones are always pruned)")
}

// app bundles the wiring shared by all commands
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	cache *cache.FileCache
	store *store.Store
	close func()
}

// newApp loads configuration and builds the store over the provider client
func newApp() (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	log, closeLog := openLogger(cfg)

	opts := []api.ClientOption{
		api.WithAPIKey(cfg.APIKey),
		api.WithBaseURL(cfg.BaseURL),
		api.WithGeoURL(cfg.GeoURL),
		api.WithUnits(cfg.Units),
		api.WithLang(cfg.Lang),
		api.WithTimeout(cfg.Timeout),
		api.WithSuggestLimit(cfg.SuggestLimit),
	}

	// Enable caching unless disabled
	var fc *cache.FileCache
	if !flagNoCache && cfg.SuggestCacheTTL > 0 {
		fc, err = cache.NewFileCache(cfg.CacheDir(), cfg.SuggestCacheTTL)
		if err != nil {
			log.Warning("suggestion cache disabled", map[string]any{"error": err.Error()})
		} else {
			opts = append(opts, api.WithCache(fc))
		}
	}

	client, err := api.NewClient(opts...)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	list := storage.NewFileList(cfg.CitiesFile(), log)

	return &app{
		cfg:   cfg,
		log:   log,
		cache: fc,
		store: store.New(client, list, store.WithLogger(log)),
		close: closeLog,
	}, nil
}

// openLogger writes JSON logs to the configured file. Logs never go to the
// terminal since stdout belongs to the table output and the TUI.
func openLogger(cfg *config.Config) (*logger.Logger, func()) {
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o750); err != nil {
		return logger.Nop(), func() {}
	}

	// #nosec G304 -- path is fixed by configuration
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return logger.Nop(), func() {}
	}

	log := logger.New("wthr", cfg.LogLevel, f)
	return log, func() {
		_ = log.Stop()
		_ = f.Close()
	}
}

// initialize rehydrates the stored cities and reports pruned entries
func (a *app) initialize(ctx context.Context) {
	a.store.Initialize(ctx)
	if msg := a.store.Snapshot().Error; msg != "" {
		output.RenderError(os.Stderr, msg, a.tableOptions())
		a.store.ClearError()
	}
}

func (a *app) tableOptions() output.TableOptions {
	return output.TableOptions{Colors: output.NewColors(getColorMode())}
}

// storeError turns a failed store operation into the user-facing message
func (a *app) storeError(err error) error {
	if msg := a.store.Snapshot().Error; msg != "" {
		return errors.New(msg)
	}
	return err
}

// getColorMode returns the color mode based on flag
func getColorMode() output.ColorMode {
	return output.ParseColorMode(flagColor)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseCityID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid city id %q\nUse 'wthr list' to see city ids", arg)
	}
	return id, nil
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive dashboard",
	Long: `Launch the interactive weather dashboard.

Keys:
  Enter      add the typed city (or the highlighted suggestion)
  ↓ / Tab    move to suggestions / the city list
  r / R      refresh the selected city / all cities
  d          remove the selected city
  Esc        dismiss an error
  q, Ctrl+C  quit`,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	model := tui.New(a.store,
		tui.WithDebounce(a.cfg.Debounce),
		tui.WithRefreshInterval(a.cfg.RefreshInterval),
	)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show followed cities with current weather",
	Long: `Show every followed city with fresh current weather.

Stored cities are refreshed first; any city that can no longer be fetched
is reported and dropped from the list.

Examples:
  wthr list             # One-shot table
  wthr list --details   # All current conditions
  wthr list --watch     # Refresh on the configured interval`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.initialize(ctx)

	if flagWatch {
		return runWatch(ctx, a.cfg.RefreshInterval, func(ctx context.Context, first bool) error {
			if !first {
				refreshAll(ctx, a.store)
			}
			state := a.store.Snapshot()
			opts := a.tableOptions()
			opts.ShowDetails = flagDetails
			opts.Refreshing = state.Refreshing
			output.RenderCities(os.Stdout, state.Cities, opts)
			output.RenderError(os.Stdout, state.Error, opts)
			a.store.ClearError()
			return nil
		})
	}

	state := a.store.Snapshot()
	if flagJSON {
		return printJSON(state.Cities)
	}

	opts := a.tableOptions()
	opts.ShowDetails = flagDetails
	output.RenderCities(os.Stdout, state.Cities, opts)
	return nil
}

// refreshAll refreshes every city concurrently and waits for all of them
func refreshAll(ctx context.Context, s *store.Store) {
	var wg sync.WaitGroup
	for _, c := range s.Snapshot().Cities {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_ = s.RefreshCity(ctx, id)
		}(c.ID)
	}
	wg.Wait()
}

// runWatch runs a continuous refresh loop for watch mode until interrupted
func runWatch(ctx context.Context, interval time.Duration, fetchAndRender func(ctx context.Context, first bool) error) error {
	if interval <= 0 {
		return errors.New("watch mode needs a positive refresh_interval")
	}

	ctx, stop := output.SignalContext(ctx)
	defer stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Hide cursor during watch mode
	output.HideCursor(os.Stdout)
	defer output.ShowCursor(os.Stdout)

	opts := output.TableOptions{Colors: output.NewColors(getColorMode())}
	first := true
	for {
		output.ClearScreen(os.Stdout)
		output.RenderWatchHeader(os.Stdout, time.Now(), interval, opts)

		if err := fetchAndRender(ctx, first); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		first = false

		// Wait for next tick or interrupt
		select {
		case <-ticker.C:
			continue
		case <-ctx.Done():
			output.ClearScreen(os.Stdout)
			fmt.Println("Watch mode ended.")
			return nil
		}
	}
}

var addCmd = &cobra.Command{
	Use:   "add <city>",
	Short: "Follow a city",
	Long: `Fetch current weather for a city and add it to the followed list.

The city is matched by name; a country code narrows it down.
A city whose name is already followed is rejected.

Examples:
  wthr add Kyiv
  wthr add "Lviv, UA"
  wthr add Київ`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.initialize(ctx)

	city, err := a.store.AddCity(ctx, strings.Join(args, " "))
	if err != nil {
		return a.storeError(err)
	}

	if flagJSON {
		return printJSON(city)
	}

	output.RenderCity(os.Stdout, &city, a.tableOptions())
	return nil
}

var removeCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Stop following a city",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id, err := parseCityID(args[0])
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.initialize(ctx)

	city, ok := a.store.CityByID(id)
	if !ok {
		return fmt.Errorf("%w: %d", store.ErrCityNotFound, id)
	}

	a.store.RemoveCity(id)
	fmt.Printf("Removed %s, %s\n", city.Name, city.Country)
	return nil
}

var refreshCmd = &cobra.Command{
	Use:   "refresh <id>",
	Short: "Refresh one followed city",
	Long: `Fetch fresh current weather for one followed city.

'wthr list' already refreshes every city; use this to refresh a single one
and see its full conditions.`,
	Args: cobra.ExactArgs(1),
	RunE: runRefresh,
}

func runRefresh(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id, err := parseCityID(args[0])
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.initialize(ctx)

	if _, ok := a.store.CityByID(id); !ok {
		return fmt.Errorf("%w: %d", store.ErrCityNotFound, id)
	}

	if err := a.store.RefreshCity(ctx, id); err != nil {
		return a.storeError(err)
	}

	city, _ := a.store.CityByID(id)
	if flagJSON {
		return printJSON(city)
	}

	output.RenderCity(os.Stdout, &city, a.tableOptions())
	return nil
}

var forecastCmd = &cobra.Command{
	Use:   "forecast <id>",
	Short: "Show the 24-hour forecast for a followed city",
	Args:  cobra.ExactArgs(1),
	RunE:  runForecast,
}

func runForecast(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id, err := parseCityID(args[0])
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.initialize(ctx)

	points, err := a.store.Forecast(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrCityNotFound) {
			return fmt.Errorf("%w: %d", err, id)
		}
		return errors.New(store.ErrorMessage(err, store.MsgForecastFailed))
	}

	if flagJSON {
		return printJSON(points)
	}

	city, _ := a.store.CityByID(id)
	output.RenderForecast(os.Stdout, &city, points, a.tableOptions())
	return nil
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for cities by name",
	Long: `Search for cities by name using the provider's geocoding service.

Each result shows the command to follow it.

Examples:
  wthr search Kyiv
  wthr search "San Jose"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	suggestions, err := a.store.Suggest(ctx, strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if flagJSON {
		return printJSON(suggestions)
	}

	output.RenderSuggestions(os.Stdout, suggestions, a.tableOptions())
	return nil
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget all followed cities",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func runClear(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.store.ClearPersisted()

	if a.cache != nil {
		if flagCache {
			if err := a.cache.Clear(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
		} else if _, err := a.cache.Cleanup(); err != nil {
			a.log.Warning("failed to prune suggestion cache", map[string]any{"error": err.Error()})
		}
	}

	fmt.Println("Followed cities cleared.")
	return nil
}
