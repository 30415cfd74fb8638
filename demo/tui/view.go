package tui

import (
	"fmt"
	"strings"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	// Title
	b.WriteString(MarqueeStyle.Render("🎬 ToonCraft Studio Demo"))
	b.WriteString("\n\n")

	// Current state
	b.WriteString(m.getStateText())
	b.WriteString("\n\n")

	// Progress
	if m.Status != nil && m.Status.Progress.TotalScenes > 0 {
		p := m.Status.Progress
		stats := fmt.Sprintf("📊 Stage: %s | Scene %d/%d", p.Stage, p.CurrentScene, p.TotalScenes)
		b.WriteString(DimStyle.Render(stats))
		b.WriteString("\n\n")
	}

	// Logs
	if len(m.Logs) > 0 {
		b.WriteString(DimStyle.Render("📝 Recent Activity:"))
		b.WriteString("\n")
		for _, entry := range m.Logs {
			b.WriteString(DimStyle.Render("   " + entry))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Results
	if m.State == StateComplete && m.Status != nil && m.Status.Script != nil {
		b.WriteString(CardStyle.Render(m.formatScriptResult()))
		b.WriteString("\n\n")
	}

	// Help text
	switch m.State {
	case StateIdle:
		b.WriteString(DimStyle.Render("Press 's' to start production | Press 'q' or Ctrl+C to quit"))
	case StateProducing:
		b.WriteString(DimStyle.Render("Press 'c' to cancel | Press 'q' or Ctrl+C to quit"))
	default:
		b.WriteString(DimStyle.Render("Press 's' to produce again | Press 'q' or Ctrl+C to quit"))
	}

	return b.String()
}

// getStateText returns the appropriate state message
func (m Model) getStateText() string {
	switch m.State {
	case StateIdle:
		return BannerStyle.Render("👋 Ready to film!") + "\n\n" +
			DimStyle.Render(fmt.Sprintf("Brief: %q (age %d, %d scenes)", m.Spec.Brief, m.Spec.Age, m.Spec.SceneCount))
	case StateStarting:
		return ProgressStyle.Render("🎬 Sending brief to the studio...")
	case StateProducing:
		if !m.Connected {
			return AlertStyle.Render("❌ Lost connection to the studio")
		}
		message := "Producing..."
		if m.Status != nil && m.Status.Progress.Message != "" {
			message = m.Status.Progress.Message
		}
		return ProgressStyle.Render("⏳ " + message)
	case StateComplete:
		return BannerStyle.Render("✅ COMPLETE")
	case StateCancelled:
		return ProgressStyle.Render("🛑 Run cancelled")
	case StateError:
		errMsg := "Unknown error"
		if m.Err != nil {
			errMsg = m.Err.Error()
		} else if m.Status != nil && m.Status.Error != "" {
			errMsg = m.Status.Error
		}
		return AlertStyle.Render("❌ Error: " + errMsg)
	default:
		return ""
	}
}

// formatScriptResult summarizes the finished cartoon for display
func (m Model) formatScriptResult() string {
	script := m.Status.Script
	var b strings.Builder

	b.WriteString(BannerStyle.Render("Finished Cartoon"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Title: %s\n", ProgressStyle.Render(script.Title)))
	if len(script.Characters) > 0 {
		b.WriteString(fmt.Sprintf("Characters: %s\n", strings.Join(script.Characters, ", ")))
	}
	b.WriteString("\n")

	videos := 0
	withAudio := 0
	for _, scene := range script.Scenes {
		if scene.IsVideo {
			videos++
		}
		if scene.Audio != "" {
			withAudio++
		}
	}
	b.WriteString(fmt.Sprintf("Scenes: %d | Videos: %d | Narrated: %d\n", len(script.Scenes), videos, withAudio))
	if m.Status.VideoAccessDenied {
		b.WriteString("\n")
		b.WriteString(AlertStyle.Render("No video sessions left; produced as stills"))
		b.WriteString("\n")
	}

	for i, scene := range script.Scenes {
		line := scene.Narrative
		if len(line) > 60 {
			line = line[:57] + "..."
		}
		b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, line))
	}
	return b.String()
}
