package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/example/shopcart/internal/cart"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("27")).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	totalStyle    = lipgloss.NewStyle().Bold(true)
	cartPane      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.loading {
		return "\n  Loading catalog…\n"
	}

	var b strings.Builder

	header := "QKart"
	if m.sess.Authenticated() {
		header += "  ·  " + m.sess.Username
	} else {
		header += "  ·  not logged in"
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	grid := m.renderGrid()
	sidebar := cartPane.Render(m.renderCart())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, grid, "  ", sidebar))
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("/: search  tab: grid/cart  ↑/↓: move  enter: add to cart  +/-: quantity  q: quit"))
	b.WriteString("\n")

	return b.String()
}

func (m *Model) renderGrid() string {
	if len(m.visible) == 0 {
		return dimStyle.Render("No products found")
	}
	var b strings.Builder
	for i, p := range m.visible {
		line := fmt.Sprintf("%-34s %-10s $%-5d %s", truncate(p.Name, 34), p.Category, p.Cost, p.Stars())
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderCart() string {
	if !m.sess.Authenticated() {
		return dimStyle.Render("Login to view the Cart")
	}
	if len(m.items) == 0 {
		return dimStyle.Render("Cart is empty. Add more items\nto the cart to checkout.")
	}
	var b strings.Builder
	b.WriteString("Cart\n")
	for i, it := range m.items {
		line := fmt.Sprintf("%-24s ×%-3d $%d", truncate(it.Product.Name, 24), it.Quantity, it.Product.Cost*it.Quantity)
		if m.cartFocused && i == m.cartCursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	if m.stale > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("(%d unavailable item(s) hidden)\n", m.stale)))
	}
	b.WriteString(totalStyle.Render(fmt.Sprintf("\nOrder total: $%d (%d items)", cart.TotalValue(m.items), cart.TotalUnits(m.items))))
	if m.mutating {
		b.WriteString(dimStyle.Render("\nupdating…"))
	}
	return b.String()
}

// truncate cuts s to at most n runes, never splitting a multibyte rune.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return string(runes[:n])
	}
	return string(runes[:n-1]) + "…"
}
