package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const DEFAULT_API_URL = "http://localhost:3536"

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

type step int

const (
	stepEnteringAPIURL step = iota
	stepEnteringName
	stepEnteringEmail
	stepEnteringPassword
	stepSigningUp
	stepEnteringCode
	stepVerifying
	stepComplete
)

type model struct {
	step         step
	apiURL       string
	name         string
	email        string
	password     string
	currentInput string
	message      string
	quitting     bool
}

type signupSuccessMsg struct{}
type verifySuccessMsg struct{}
type errMsg struct {
	err  error
	back step
}

func (e errMsg) Error() string { return e.err.Error() }

func initialModel() model {
	return model{step: stepEnteringAPIURL}
}

func (m model) Init() tea.Cmd {
	return nil
}

func postJSON(url string, payload any) (int, map[string]any, error) {
	client := &http.Client{Timeout: 15 * time.Second}

	jsonData, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var result map[string]any
	_ = json.Unmarshal(body, &result)
	return resp.StatusCode, result, nil
}

func signup(apiURL, name, email, password string) tea.Cmd {
	return func() tea.Msg {
		status, result, err := postJSON(apiURL+"/api/v1/auth/signup", map[string]string{
			"name":     name,
			"email":    email,
			"password": password,
		})
		if err != nil {
			return errMsg{fmt.Errorf("server not reachable: %w", err), stepEnteringAPIURL}
		}
		if status != http.StatusCreated {
			detail, _ := result["error"].(string)
			if detail == "" {
				detail = fmt.Sprintf("server returned %d", status)
			}
			return errMsg{fmt.Errorf("signup failed: %s", detail), stepEnteringName}
		}
		return signupSuccessMsg{}
	}
}

func verifyEmail(apiURL, email, code string) tea.Cmd {
	return func() tea.Msg {
		status, result, err := postJSON(apiURL+"/api/v1/auth/verify-email", map[string]string{
			"email":            email,
			"verificationCode": code,
		})
		if err != nil {
			return errMsg{fmt.Errorf("server not reachable: %w", err), stepEnteringCode}
		}
		if status != http.StatusOK {
			detail, _ := result["error"].(string)
			if detail == "" {
				detail = fmt.Sprintf("server returned %d", status)
			}
			return errMsg{fmt.Errorf("verification failed: %s", detail), stepEnteringCode}
		}
		return verifySuccessMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "backspace":
			if len(m.currentInput) > 0 {
				m.currentInput = m.currentInput[:len(m.currentInput)-1]
			}

		default:
			switch m.step {
			case stepEnteringAPIURL, stepEnteringName, stepEnteringEmail, stepEnteringPassword, stepEnteringCode:
				m.currentInput += msg.String()
			}

		case "enter":
			switch m.step {
			case stepEnteringAPIURL:
				m.apiURL = strings.TrimSuffix(m.currentInput, "/")
				if m.apiURL == "" {
					m.apiURL = DEFAULT_API_URL
				}
				m.currentInput = ""
				m.step = stepEnteringName

			case stepEnteringName:
				if m.currentInput != "" {
					m.name = m.currentInput
					m.currentInput = ""
					m.step = stepEnteringEmail
				}

			case stepEnteringEmail:
				if m.currentInput != "" {
					m.email = m.currentInput
					m.currentInput = ""
					m.step = stepEnteringPassword
				}

			case stepEnteringPassword:
				if m.currentInput != "" {
					m.password = m.currentInput
					m.currentInput = ""
					m.step = stepSigningUp
					m.message = "Creating account..."
					return m, signup(m.apiURL, m.name, m.email, m.password)
				}

			case stepEnteringCode:
				if m.currentInput != "" {
					code := m.currentInput
					m.currentInput = ""
					m.step = stepVerifying
					m.message = "Verifying..."
					return m, verifyEmail(m.apiURL, m.email, code)
				}

			case stepComplete:
				m.quitting = true
				return m, tea.Quit
			}
		}

	case signupSuccessMsg:
		m.step = stepEnteringCode
		m.message = successStyle.Render("✓ Account created. Check your inbox.")

	case verifySuccessMsg:
		m.step = stepComplete
		m.message = successStyle.Render("✓ Account activated!")

	case errMsg:
		m.message = errorStyle.Render("✗ " + msg.err.Error())
		m.step = msg.back
	}

	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("🌤 Clarity Account Setup\n\n"))
	if m.message != "" {
		s.WriteString(m.message + "\n\n")
	}

	switch m.step {
	case stepEnteringAPIURL:
		s.WriteString(promptStyle.Render("Server URL:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\n" + hintStyle.Render(fmt.Sprintf("Enter for default (%s), Ctrl+C to quit", DEFAULT_API_URL)) + "\n")

	case stepEnteringName:
		s.WriteString(promptStyle.Render("Your name:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\n" + hintStyle.Render("On a fresh install the first account becomes the administrator") + "\n")

	case stepEnteringEmail:
		s.WriteString(promptStyle.Render("Email address:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringPassword:
		s.WriteString(promptStyle.Render("Password:\n"))
		s.WriteString(inputStyle.Render("> " + strings.Repeat("•", len(m.currentInput))))
		s.WriteString("\n\n" + hintStyle.Render("Min 8 chars with upper, lower, digit and symbol") + "\n")

	case stepSigningUp, stepVerifying:
		// message already printed above

	case stepEnteringCode:
		s.WriteString(promptStyle.Render("Verification code from the email:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepComplete:
		s.WriteString(hintStyle.Render("You can now log in on the dashboard. Press Enter to exit.") + "\n")
	}

	return s.String()
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
