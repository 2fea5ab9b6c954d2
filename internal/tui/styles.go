package tui

import (
	"charm.land/lipgloss/v2"

	"deniz.dev/gcs-tui/internal/tui/theme"
)

var (
	// Browser styles composed from the shared theme
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary)

	headerStyle = theme.HeaderStyle

	metricLabelStyle = theme.MutedStyle

	bucketStyle = lipgloss.NewStyle().
			Foreground(theme.Secondary)

	breadcrumbStyle = theme.BreadcrumbStyle

	statusStyle = theme.SuccessStyle

	warningStyle = theme.WarningStyle

	helpStyle = theme.HelpStyle

	errorStyle = theme.ErrorStyle

	browserStyle = theme.BrowserStyle
)
