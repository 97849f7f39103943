package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"asset-tracker-backend/internal/scanner"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	idleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	submittingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	cooldownStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

type step int

const (
	stepEnteringUsername step = iota
	stepEnteringPassword
	stepLoggingIn
	stepScanning
)

type model struct {
	step         step
	client       *scanner.Client
	controller   *scanner.Controller
	manual       bool
	username     string
	currentInput string
	machineState scanner.State
	suppressed   int
	history      []string
	message      string
	quitting     bool
}

type loginSuccessMsg struct{ username, role string }
type stateChangedMsg struct{ state scanner.State }
type scanResultMsg struct {
	tag string
	res *scanner.ScanResult
	err error
}
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func initialModel(client *scanner.Client, ctrl *scanner.Controller, manual bool) model {
	return model{
		step:         stepEnteringUsername,
		client:       client,
		controller:   ctrl,
		manual:       manual,
		machineState: scanner.StateIdle,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func loginUser(client *scanner.Client, username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		res, err := client.Login(ctx, username, password)
		if err != nil {
			return errMsg{err}
		}
		return loginSuccessMsg{username: res.User.Username, role: res.User.Role}
	}
}

func manualSubmit(client *scanner.Client, tag string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		res, err := client.SubmitScan(ctx, scanner.ScanRequest{AssetTag: tag})
		return scanResultMsg{tag: tag, res: res, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "esc":
			if m.step == stepScanning {
				m.quitting = true
				return m, tea.Quit
			}

		case "backspace":
			if len(m.currentInput) > 0 {
				m.currentInput = m.currentInput[:len(m.currentInput)-1]
			}

		case "enter":
			switch m.step {
			case stepEnteringUsername:
				if m.currentInput != "" {
					m.username = m.currentInput
					m.currentInput = ""
					m.step = stepEnteringPassword
				}

			case stepEnteringPassword:
				if m.currentInput != "" {
					password := m.currentInput
					m.currentInput = ""
					m.step = stepLoggingIn
					m.message = "Logging in..."
					return m, loginUser(m.client, m.username, password)
				}

			case stepScanning:
				tag := strings.TrimSpace(m.currentInput)
				m.currentInput = ""
				if tag == "" {
					return m, nil
				}
				if m.manual {
					return m, manualSubmit(m.client, tag)
				}
				// Detections arriving while a submission or cooldown is in
				// progress are discarded, exactly like repeated camera frames
				// of the same code.
				if !m.controller.Detect(tag) {
					m.suppressed++
				}
			}

		default:
			if m.step != stepLoggingIn {
				m.currentInput += msg.String()
			}
		}

	case loginSuccessMsg:
		m.step = stepScanning
		m.message = successStyle.Render(fmt.Sprintf("Logged in as %s (%s)", msg.username, msg.role))

	case stateChangedMsg:
		m.machineState = msg.state

	case scanResultMsg:
		m.history = append(m.history, renderResult(msg))
		if len(m.history) > 10 {
			m.history = m.history[len(m.history)-10:]
		}

	case errMsg:
		m.message = errorStyle.Render(msg.err.Error())
		m.step = stepEnteringUsername
	}

	return m, nil
}

func renderResult(msg scanResultMsg) string {
	switch {
	case msg.err == nil:
		return successStyle.Render(fmt.Sprintf("✓ %s recorded (scan #%d)", msg.tag, msg.res.ID))
	case errors.Is(msg.err, scanner.ErrAssetNotFound):
		return errorStyle.Render(fmt.Sprintf("✗ %s: no asset with that tag", msg.tag))
	case errors.Is(msg.err, scanner.ErrUnauthenticated):
		return errorStyle.Render(fmt.Sprintf("✗ %s: session expired, restart and log in again", msg.tag))
	default:
		return errorStyle.Render(fmt.Sprintf("✗ %s: %v", msg.tag, msg.err))
	}
}

func stateBadge(s scanner.State) string {
	switch s {
	case scanner.StateSubmitting:
		return submittingStyle.Render("● SUBMITTING")
	case scanner.StateCooldown:
		return cooldownStyle.Render("● COOLDOWN")
	default:
		return idleStyle.Render("● IDLE")
	}
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("Asset Tracker Scanner\n\n"))

	switch m.step {
	case stepEnteringUsername:
		if m.message != "" {
			s.WriteString(m.message + "\n\n")
		}
		s.WriteString(promptStyle.Render("Username:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringPassword:
		s.WriteString(promptStyle.Render("Password:\n"))
		s.WriteString(inputStyle.Render("> " + strings.Repeat("•", len(m.currentInput))))
		s.WriteString("\n\nPress Enter\n")

	case stepLoggingIn:
		s.WriteString(m.message + "\n")

	case stepScanning:
		s.WriteString(m.message + "\n")
		if m.manual {
			s.WriteString(dimStyle.Render("manual mode: every entry is submitted\n\n"))
		} else {
			s.WriteString(stateBadge(m.machineState) + "\n")
			if m.suppressed > 0 {
				s.WriteString(dimStyle.Render(fmt.Sprintf("%d detections suppressed\n", m.suppressed)))
			}
			s.WriteString("\n")
		}

		s.WriteString(promptStyle.Render("Scan tag:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\n")

		for _, line := range m.history {
			s.WriteString(line + "\n")
		}

		s.WriteString(dimStyle.Render("\nEnter to scan, Esc to quit\n"))
	}

	return s.String()
}

func main() {
	_ = godotenv.Load()

	defaultServer := os.Getenv("ASSET_TRACKER_URL")
	if defaultServer == "" {
		defaultServer = "http://localhost:3000"
	}

	serverURL := flag.String("server", defaultServer, "base URL of the asset tracker API")
	manual := flag.Bool("manual", false, "submit every entry directly, bypassing the cooldown")
	cooldown := flag.Duration("cooldown", scanner.DefaultCooldown, "suppression window after each submission")
	flag.Parse()

	client := scanner.NewClient(scanner.ClientConfig{
		BaseURL: *serverURL,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	})
	ctrl := scanner.NewController(client, *cooldown)

	p := tea.NewProgram(initialModel(client, ctrl, *manual))

	// The controller fires these from its own goroutines; Send is the safe
	// way back into the Update loop.
	ctrl.OnChange = func(s scanner.State) {
		p.Send(stateChangedMsg{state: s})
	}
	ctrl.OnResult = func(tag string, res *scanner.ScanResult, err error) {
		p.Send(scanResultMsg{tag: tag, res: res, err: err})
	}

	if _, err := p.Run(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
