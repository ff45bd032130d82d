package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mainbong/restaurant_finder/internal/config"
	"github.com/mainbong/restaurant_finder/internal/logger"
	"github.com/mainbong/restaurant_finder/internal/places"
	"github.com/mainbong/restaurant_finder/internal/terminal"
)

const version = "restaurant-finder v0.1.0"

var (
	cfg        *config.Config
	devMode    bool
	tuiEnabled bool
	noTUI      bool

	searchRadius int
	searchSort   string
	searchLimit  int
	searchPages  int
	showMap      bool
	showDetails  bool
	listDetails  bool
)

var rootCmd = &cobra.Command{
	Use:   "restaurant-finder [query]",
	Short: "Find restaurants around a location",
	Long:  "Searches the Foursquare Places API for restaurants near the configured center, interactively or as plain output.",
	Args:  cobra.ArbitraryArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		return setup()
	},
	RunE:          runRoot,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search and print restaurants",
	Args:  cobra.ArbitraryArgs,
	RunE:  runSearch,
}

var randomCmd = &cobra.Command{
	Use:   "random [query]",
	Short: "Pick a random restaurant",
	Args:  cobra.ArbitraryArgs,
	RunE:  runRandom,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Set(args[0], args[1]); err != nil {
			return fmt.Errorf("failed to change setting: %w", err)
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		color.Green("%s updated (%s)\n", args[0], config.GetConfigFile())
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		redacted := cfg.Redacted()
		data, err := yaml.Marshal(&redacted)
		if err != nil {
			return fmt.Errorf("failed to render config: %w", err)
		}
		color.New(color.FgHiBlack).Printf("# %s\n", config.GetConfigFile())
		fmt.Print(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(randomCmd)
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)

	rootCmd.PersistentFlags().BoolVar(&devMode, "dev", false, "write log files to the current directory")
	rootCmd.Flags().BoolVar(&noTUI, "plain", false, "print results instead of starting the interactive UI")

	for _, cmd := range []*cobra.Command{searchCmd, randomCmd} {
		cmd.Flags().IntVar(&searchRadius, "radius", -1, "search radius in meters (0 = API default)")
		cmd.Flags().StringVar(&searchSort, "sort", "", "sort order: relevance, distance, rating, popularity")
	}
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "results per page")
	searchCmd.Flags().IntVar(&searchPages, "pages", 1, "number of pages to fetch")
	searchCmd.Flags().BoolVar(&showMap, "map", false, "draw a map of the results")
	searchCmd.Flags().BoolVar(&listDetails, "details", false, "print details and website previews for every result")
	randomCmd.Flags().BoolVar(&showDetails, "details", true, "print details and website preview")
}

func main() {
	err := rootCmd.Execute()
	logger.Close()
	if err != nil {
		color.Red("error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the configuration and starts logging.
func setup() error {
	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logDir := loaded.LogDir
	if devMode {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve working directory: %w", err)
		}
		logDir = cwd
		fmt.Printf("[dev] writing logs to %s\n", logDir)
	}
	if err := logger.Init(logDir, logger.ParseLevel(loaded.LogLevel)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	tuiEnabled = terminal.HasTTY()
	if !tuiEnabled {
		color.NoColor = true
	}

	cfg = loaded
	logger.Info("restaurant-finder starting")
	logger.Debug("config loaded: center=%s query=%q limit=%d", loaded.Center, loaded.Search.Query, loaded.Search.Limit)
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runRoot(cmd *cobra.Command, args []string) error {
	a := newApp(cfg, places.NewClient(cfg.Places.APIKey, cfg.Center))
	if err := a.requireAPIKey(); err != nil {
		return err
	}
	if len(args) > 0 {
		a.store.SetQuery(strings.Join(args, " "))
	}

	if tuiEnabled && !noTUI {
		if l := logger.Default(); l != nil {
			l.MuteConsole(true)
		}
		return runTUI(a)
	}

	ctx, cancel := signalContext()
	defer cancel()
	return printPages(ctx, a, 1, false, false)
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := appFromFlags(cmd, args)
	if err != nil {
		return err
	}
	if searchLimit > 0 {
		if searchLimit > config.MaxLimit {
			return fmt.Errorf("--limit must be at most %d", config.MaxLimit)
		}
		a.store.SetLimit(searchLimit)
	}

	ctx, cancel := signalContext()
	defer cancel()
	return printPages(ctx, a, max(1, searchPages), showMap, listDetails)
}

func runRandom(cmd *cobra.Command, args []string) error {
	a, err := appFromFlags(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	pick, err := a.store.RandomPick(ctx)
	if err != nil {
		return err
	}
	if pick == nil {
		color.Yellow("No restaurants found for %q.\n", a.store.Params().Query)
		return nil
	}

	printer := terminal.NewPrinter(os.Stdout)
	printer.SetTileKey(a.cfg.Map.TileKey)
	if !showDetails {
		printer.PrintList([]places.Place{*pick}, 1)
		return nil
	}
	preview, err := a.previewer.Preview(ctx, pick.Website)
	if err != nil && pick.Website != "" {
		logger.Warn("website preview for %s failed: %v", pick.Name, err)
	}
	printer.PrintDetails(*pick, preview)
	return nil
}

// appFromFlags builds the app with the search/random flag overrides applied.
func appFromFlags(cmd *cobra.Command, args []string) (*app, error) {
	a := newApp(cfg, places.NewClient(cfg.Places.APIKey, cfg.Center))
	if err := a.requireAPIKey(); err != nil {
		return nil, err
	}

	params := a.store.Params()
	if len(args) > 0 {
		params.Query = strings.Join(args, " ")
	}
	if cmd.Flags().Changed("radius") {
		if searchRadius < 0 || searchRadius > config.MaxRadius {
			return nil, fmt.Errorf("--radius must be between 0 and %d", config.MaxRadius)
		}
		params.Radius = searchRadius
	}
	if cmd.Flags().Changed("sort") {
		sort, err := places.ParseSortKey(searchSort)
		if err != nil {
			return nil, err
		}
		params.Sort = sort
	}
	a.store.SetQuery(params.Query)
	a.store.SetRadius(params.Radius)
	a.store.SetSort(params.Sort)
	return a, nil
}

// printPages fetches up to pages pages, waiting out the rate limiter between
// them, and prints each page as it arrives.
func printPages(ctx context.Context, a *app, pages int, withMap, withDetails bool) error {
	printer := terminal.NewPrinter(os.Stdout)
	printer.SetTileKey(a.cfg.Map.TileKey)
	params := a.store.Params()
	color.New(color.FgCyan, color.Bold).Printf("%q near %s", params.Query, a.client.Center())
	color.New(color.FgHiBlack).Printf("  (radius %s, sort %s)\n", radiusLabel(params.Radius), params.Sort.Label())

	printed := 0
	for page := 0; page < pages; page++ {
		if page > 0 {
			if !a.store.HasMore() {
				break
			}
			limiter := a.limited.Limiter()
			if wait := limiter.Delay(); wait > 0 {
				logger.Debug("waiting %s for the rate limiter", wait)
			}
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
		}

		var err error
		if page == 0 {
			err = a.store.FetchPlaces(ctx, "")
		} else {
			err = a.store.LoadMore(ctx)
		}
		if err != nil {
			return err
		}

		state := a.store.Snapshot()
		printer.PrintList(state.Restaurants[printed:], printed+1)
		printed = len(state.Restaurants)
	}

	if printed == 0 {
		color.Yellow("No restaurants found.\n")
		return nil
	}
	if a.store.HasMore() {
		color.New(color.FgHiBlack).Println("more results available (use --pages)")
	}
	if withMap {
		fmt.Println()
		printer.PrintMap(a.client.Center(), params.Radius, a.store.Snapshot().Restaurants, 48, 20)
	}
	if withDetails {
		printAllDetails(ctx, a, printer, a.store.Snapshot().Restaurants)
	}
	return nil
}

// printAllDetails previews every website concurrently, then prints the
// details in list order.
func printAllDetails(ctx context.Context, a *app, printer *terminal.Printer, list []places.Place) {
	previews := a.previewer.PreviewAll(ctx, websites(list))
	logger.Info("website previews: %d of %d places", len(previews), len(list))
	for _, place := range list {
		fmt.Println()
		printer.PrintDetails(place, previews[place.Website])
	}
}

// websites returns the distinct non-empty website URLs in list order.
func websites(list []places.Place) []string {
	seen := make(map[string]bool, len(list))
	var urls []string
	for _, place := range list {
		if place.Website == "" || seen[place.Website] {
			continue
		}
		seen[place.Website] = true
		urls = append(urls, place.Website)
	}
	return urls
}

func radiusLabel(radius int) string {
	if radius <= 0 {
		return "auto"
	}
	return terminal.FormatDistance(radius)
}
