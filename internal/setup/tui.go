// Package setup provides the interactive configuration wizard.
package setup

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

type wizardConfig struct {
	APIURL            string `yaml:"api_url"`
	PollQuoteInterval string `yaml:"poll_quote_interval,omitempty"`
	DashboardAddr     string `yaml:"dashboard_addr,omitempty"`
	WalDir            string `yaml:"wal_dir,omitempty"`
}

// RunTUI launches the terminal configuration wizard and writes the
// resulting config.yaml. Credentials are never stored in the file;
// they stay in ORBITAL_EMAIL / ORBITAL_PASSWORD.
func RunTUI() error {
	var (
		apiURL          string
		pollIntervalStr string
		dashboardAddr   string
		walDir          string
		confirm         bool
	)

	// defaults
	apiURL = "http://localhost:3000/api/v1"
	pollIntervalStr = "30s"
	dashboardAddr = "127.0.0.1:8181"
	walDir = "./wal/receipts"

	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("ORBITAL CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Point the client at your backend and pick the local ports.\n"))

	fmt.Println(stepStyle.Render("STEP 1: BACKEND"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend API base URL").
				Value(&apiURL).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("API URL is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Quote refresh interval (e.g. 30s, 2m)").
				Value(&pollIntervalStr).
				Validate(func(s string) error {
					if _, err := time.ParseDuration(s); err != nil {
						return fmt.Errorf("not a duration: %v", err)
					}
					return nil
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Println(stepStyle.Render("STEP 2: LOCAL"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Dashboard listen address").
				Value(&dashboardAddr),
			huh.NewInput().
				Title("Receipts journal directory").
				Value(&walDir),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Println(stepStyle.Render("STEP 3: CONFIRM"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Write config.yaml for %s?", apiURL)).
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}
	if !confirm {
		fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Aborted, nothing written."))
		return nil
	}

	cfg := wizardConfig{
		APIURL:            apiURL,
		PollQuoteInterval: pollIntervalStr,
		DashboardAddr:     dashboardAddr,
		WalDir:            walDir,
	}

	payload, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile("config.yaml", payload, 0o644); err != nil {
		return fmt.Errorf("write config.yaml: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render("config.yaml written."))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Set ORBITAL_EMAIL and ORBITAL_PASSWORD before running commands."))
	return nil
}
