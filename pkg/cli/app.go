package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"social-lens-go/pkg/cli/client"
	"social-lens-go/pkg/cli/tui"
	"social-lens-go/pkg/config"
	"social-lens-go/pkg/models"
	"social-lens-go/pkg/poller"

	"github.com/pelletier/go-toml/v2"
)

type App struct {
	cfg    *config.Config
	client *client.Client
}

func NewApp(cfg *config.Config) *App {
	return &App{
		cfg: cfg,
	}
}

// getClient returns the HTTP client, creating it if necessary
func (a *App) getClient() (*client.Client, error) {
	if a.client != nil {
		return a.client, nil
	}

	if a.cfg.CLI.APIBaseURL == "" {
		return nil, fmt.Errorf("API base URL not configured")
	}
	if a.cfg.CLI.APIKey == "" {
		return nil, fmt.Errorf("API key not configured")
	}

	a.client = client.NewClient(a.cfg.CLI.APIBaseURL, a.cfg.CLI.APIKey)
	return a.client, nil
}

// getClientForRegistration returns an HTTP client without API key (for registration)
func (a *App) getClientForRegistration() (*client.Client, error) {
	if a.cfg.CLI.APIBaseURL == "" {
		return nil, fmt.Errorf("API base URL not configured")
	}
	// Use empty API key for registration endpoint (doesn't require auth)
	return client.NewClient(a.cfg.CLI.APIBaseURL, ""), nil
}

// ShowConfig displays the current configuration
func (a *App) ShowConfig() {
	data, err := toml.Marshal(a.cfg)
	if err != nil {
		fmt.Printf("Error marshaling config: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

// RegisterUser creates a new user account and saves the API key
func (a *App) RegisterUser(ctx context.Context, email string) error {
	apiClient, err := a.getClientForRegistration()
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	user, err := apiClient.CreateUser(ctx, email)
	if err != nil {
		return err
	}

	// Save API key to config
	a.cfg.CLI.APIKey = user.APIKey
	if err := config.Save(a.cfg); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}

	// Update the client with the new API key
	a.client = client.NewClient(a.cfg.CLI.APIBaseURL, user.APIKey)

	fmt.Println("✓ User registered successfully!")
	fmt.Printf("  Email: %s\n", user.Email)
	fmt.Printf("  User ID: %s\n", user.ID.String())
	fmt.Println("\n⚠️  Save this API key securely (it won't be shown again):")
	fmt.Printf("  %s\n", user.APIKey)

	return nil
}

// ListProfiles prints the caller's tracked profiles as a table
func (a *App) ListProfiles(ctx context.Context) error {
	apiClient, err := a.getClient()
	if err != nil {
		return err
	}

	profiles, err := apiClient.ListProfiles(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch profiles: %w", err)
	}

	if len(profiles) == 0 {
		fmt.Println("No profiles found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tPlatform\tHandle\tStatus\tLast Scraped")
	fmt.Fprintln(w, "───\t───\t───\t───\t───")

	for _, p := range profiles {
		lastScraped := "never"
		if p.LastScraped != nil {
			lastScraped = p.LastScraped.Format("2006-01-02 15:04")
		}

		handle := p.Handle
		if len(handle) > 50 {
			handle = handle[:47] + "..."
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			p.ID.String()[:8]+"...",
			p.Platform,
			handle,
			p.ScrapeStatus,
			lastScraped,
		)
	}

	w.Flush()
	fmt.Printf("\nTotal: %d profile(s)\n", len(profiles))
	return nil
}

// AnalyzeProfile registers a profile, launches a scrape and watches its
// progress until it reaches a terminal state or the polling ceiling elapses
func (a *App) AnalyzeProfile(ctx context.Context, platformStr, handle string) error {
	platform := models.Platform(strings.ToLower(strings.TrimSpace(platformStr)))
	if !platform.Valid() {
		return fmt.Errorf("platform must be instagram or linkedin")
	}

	apiClient, err := a.getClient()
	if err != nil {
		return err
	}

	profile, err := apiClient.RegisterProfile(ctx, platform, handle)
	if err != nil {
		return fmt.Errorf("failed to register profile: %w", err)
	}

	resp, err := apiClient.StartScrape(ctx, models.ScrapeRequest{
		Platform:  platform,
		Handle:    handle,
		ProfileID: profile.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to start scrape: %w", err)
	}

	interval := time.Duration(a.cfg.CLI.PollInterval) * time.Second
	timeout := time.Duration(a.cfg.CLI.PollTimeout) * time.Second

	// The progress view owns cancellation: backing out of it stops the poller
	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	watcher := poller.New(apiClient, interval, timeout)
	updates := watcher.Watch(watchCtx, profile.ID)

	final, cancelled, err := tui.RunAnalyzeProgress(platform, handle, resp.RunID, updates, cancel)
	if err != nil {
		return err
	}

	switch {
	case cancelled:
		return nil
	case final.TimedOut:
		return final.Err
	case final.Status == models.StatusFailed:
		return final.Err
	case final.Status == models.StatusCompleted:
		return nil
	default:
		return ctx.Err()
	}
}
