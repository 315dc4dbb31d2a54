package main

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lixenwraith/keysound/soundbank"
)

const fetchTimeout = 15 * time.Second

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	defaultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#73F59F")).Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#73F59F"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true)
)

// fetchBank loads and validates the bank at source
func fetchBank(ctx context.Context, source string) (*soundbank.Config, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	doc, err := soundbank.NewLoader().Fetch(ctx, source)
	if err != nil {
		return nil, err
	}
	bank, err := soundbank.Validate(doc)
	if err != nil {
		return nil, &soundbank.Error{Kind: soundbank.KindInvalidAudiosJSON, Err: err}
	}
	return bank, nil
}
