package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

var symbolRe = regexp.MustCompile(`^[A-Z0-9.^=-]+$`)

// PromptForSymbol asks for a ticker symbol when none was given on the
// command line.
func PromptForSymbol() (string, error) {
	var symbol string
	prompt := &survey.Input{
		Message: "Enter the ticker symbol to add (e.g., AAPL, BTC-USD):",
		Help:    "Use the Yahoo Finance notation; crypto pairs end in -USD",
	}

	err := survey.AskOne(prompt, &symbol, survey.WithValidator(func(val interface{}) error {
		str := strings.TrimSpace(strings.ToUpper(val.(string)))
		if len(str) == 0 {
			return fmt.Errorf("symbol cannot be empty")
		}
		if len(str) > 12 {
			return fmt.Errorf("symbol too long (max 12 characters)")
		}
		if !symbolRe.MatchString(str) {
			return fmt.Errorf("invalid symbol format")
		}
		return nil
	}))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(strings.ToUpper(symbol)), nil
}
