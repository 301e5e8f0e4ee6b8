package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
)

// PromptString asks for a single line of input.
func PromptString(title, placeholder string, required bool) (string, error) {
	var value string

	input := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(&value)

	form := huh.NewForm(huh.NewGroup(input))
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	if required && value == "" {
		return "", fmt.Errorf("%s is required", title)
	}
	return value, nil
}

// PromptSecret asks for a line of input without echoing it.
func PromptSecret(title string) (string, error) {
	var value string

	input := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&value)

	form := huh.NewForm(huh.NewGroup(input))
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	if value == "" {
		return "", fmt.Errorf("%s is required", title)
	}
	return value, nil
}

// PromptText asks for multi-line input.
func PromptText(title string, initial string) (string, error) {
	value := initial

	text := huh.NewText().
		Title(title).
		Value(&value)

	form := huh.NewForm(huh.NewGroup(text))
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return value, nil
}

// PromptConfirm asks a yes/no question.
func PromptConfirm(title string, defaultValue bool) (bool, error) {
	confirmed := defaultValue

	confirm := huh.NewConfirm().
		Title(title).
		Value(&confirmed)

	form := huh.NewForm(huh.NewGroup(confirm))
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return confirmed, nil
}

// PromptSelect asks to pick one of the options.
func PromptSelect(title string, options []string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options provided")
	}

	huhOptions := make([]huh.Option[string], len(options))
	for i, opt := range options {
		huhOptions[i] = huh.NewOption(opt, opt)
	}

	var selected string
	field := huh.NewSelect[string]().
		Title(title).
		Options(huhOptions...).
		Value(&selected)

	form := huh.NewForm(huh.NewGroup(field))
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return selected, nil
}

// PromptMultiSelect asks to pick any number of the options.
func PromptMultiSelect(title string, options []string, initial []string) ([]string, error) {
	if len(options) == 0 {
		return nil, fmt.Errorf("no options provided")
	}

	huhOptions := make([]huh.Option[string], len(options))
	for i, opt := range options {
		huhOptions[i] = huh.NewOption(opt, opt).Selected(contains(initial, opt))
	}

	var selected []string
	field := huh.NewMultiSelect[string]().
		Title(title).
		Options(huhOptions...).
		Value(&selected)

	form := huh.NewForm(huh.NewGroup(field))
	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("prompt failed: %w", err)
	}
	return selected, nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// IsInteractive returns true if stdin is a terminal (not piped).
func IsInteractive() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// ShouldPrompt reports whether interactive prompts should be shown.
// Prompts are disabled in CI environments or when stdin is piped.
func ShouldPrompt() bool {
	for _, envVar := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"} {
		if os.Getenv(envVar) != "" {
			return false
		}
	}
	return IsInteractive()
}
