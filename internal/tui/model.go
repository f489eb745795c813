// Package tui is the interactive storefront: a product grid with a debounced
// search box and a cart sidebar. All quantities on screen are the server's
// answer; a mutation renders only once its round trip has confirmed it.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/example/shopcart/internal/cart"
	"github.com/example/shopcart/internal/catalog"
	"github.com/example/shopcart/internal/fault"
	"github.com/example/shopcart/internal/search"
	"github.com/example/shopcart/internal/session"
)

// Backend is the slice of the remote client the browse view needs.
type Backend interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	SearchProducts(ctx context.Context, text string) ([]catalog.Product, error)
	GetCart(ctx context.Context, token string) ([]cart.Entry, error)
	UpsertCart(ctx context.Context, token, productID string, quantity int) ([]cart.Entry, error)
}

// Options wires the model to the engine.
type Options struct {
	Client   Backend
	Session  session.Session
	Debounce time.Duration
	Logger   *zap.Logger
}

// Model is the bubbletea model for the browse view.
type Model struct {
	client  Backend
	mutator *cart.Mutator
	sess    session.Session
	logger  *zap.Logger

	searchInput textinput.Model
	debouncer   *search.Debouncer
	results     chan search.Result

	// snapshot is the full catalog used for merging; visible is the subset
	// currently on the grid (narrowed by search).
	snapshot []catalog.Product
	visible  []catalog.Product
	entries  []cart.Entry
	items    []cart.LineItem
	stale    int

	cursor      int
	cartFocused bool // +/- and ↑/↓ act on the cart sidebar instead of the grid
	cartCursor  int
	loading     bool
	mutating    bool // at most one cart mutation in flight per user action
	status      string
	width       int
	height      int
	quitting    bool
}

type (
	initDoneMsg struct {
		products []catalog.Product
		entries  []cart.Entry
		err      error
	}
	searchResultMsg search.Result
	cartUpdatedMsg  struct{ entries []cart.Entry }
	faultMsg        struct{ err error }
	clearStatusMsg  struct{}
)

// New builds the browse model. The debouncer delivers into a channel the
// program drains with a command, keeping all state changes on the bubbletea
// loop.
func New(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	input := textinput.New()
	input.Placeholder = "Search for items/categories"
	input.Prompt = "/ "
	input.CharLimit = 64

	m := &Model{
		client:  opts.Client,
		mutator: cart.NewMutator(opts.Client, logger),
		sess:    opts.Session,
		logger:  logger.Named("tui"),

		searchInput: input,
		results:     make(chan search.Result, 8),
		loading:     true,
	}
	m.debouncer = search.New(opts.Debounce, opts.Client, func(r search.Result) {
		m.results <- r
	}, logger)
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadInitial(), m.awaitResult())
}

// loadInitial fetches the catalog, and the cart when logged in.
func (m *Model) loadInitial() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		products, err := m.client.ListProducts(ctx)
		if fault.KindOf(err) == fault.NotFound {
			products, err = nil, nil
		}
		if err != nil {
			return initDoneMsg{err: err}
		}

		var entries []cart.Entry
		if m.sess.Authenticated() {
			entries, err = m.client.GetCart(ctx, m.sess.Token)
			if err != nil {
				return initDoneMsg{products: products, err: err}
			}
		}
		return initDoneMsg{products: products, entries: entries}
	}
}

// awaitResult blocks on the debouncer's channel and re-arms itself after
// every delivery.
func (m *Model) awaitResult() tea.Cmd {
	return func() tea.Msg {
		r, ok := <-m.results
		if !ok {
			return nil
		}
		return searchResultMsg(r)
	}
}

// mutate issues one quantity change and reports the server's authoritative
// cart back to the loop.
func (m *Model) mutate(productID string, qty int, setOpts cart.SetOptions) tea.Cmd {
	token := m.sess.Token
	current := m.entries
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		updated, err := m.mutator.SetQuantity(ctx, token, current, productID, qty, setOpts)
		if err != nil {
			return faultMsg{err: err}
		}
		return cartUpdatedMsg{entries: updated}
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case initDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fault.MessageOf(msg.err)
		}
		m.snapshot = msg.products
		m.visible = msg.products
		m.applyEntries(msg.entries)
		return m, nil

	case searchResultMsg:
		// The sequence check already ran in the debouncer; whatever
		// arrives here replaces the visible subset wholesale.
		if msg.Err != nil {
			m.status = fault.MessageOf(msg.Err)
			return m, tea.Batch(m.awaitResult(), clearStatusAfter(4*time.Second))
		}
		m.visible = msg.Products
		m.clampCursor()
		return m, m.awaitResult()

	case cartUpdatedMsg:
		m.mutating = false
		m.applyEntries(msg.entries)
		return m, nil

	case faultMsg:
		m.mutating = false
		m.status = fault.MessageOf(msg.err)
		return m, clearStatusAfter(4 * time.Second)

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// applyEntries adopts a server entry list wholesale and recomputes the
// derived line items.
func (m *Model) applyEntries(entries []cart.Entry) {
	m.entries = entries
	items, stale := cart.Merge(entries, m.snapshot)
	m.items = items
	m.stale = len(stale)
	if m.cartCursor >= len(items) {
		m.cartCursor = len(items) - 1
	}
	if m.cartCursor < 0 {
		m.cartCursor = 0
	}
	for _, e := range stale {
		m.logger.Warn("cart entry without catalog product dropped from display",
			zap.String("product_id", e.ProductID))
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchInput.Focused() {
		switch msg.Type {
		case tea.KeyEsc:
			m.searchInput.Blur()
			m.searchInput.SetValue("")
			m.debouncer.Cancel()
			m.visible = m.snapshot
			m.clampCursor()
			return m, nil
		case tea.KeyEnter:
			m.searchInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		before := m.searchInput.Value()
		m.searchInput, cmd = m.searchInput.Update(msg)
		if after := m.searchInput.Value(); after != before {
			if after == "" {
				m.debouncer.Cancel()
				m.visible = m.snapshot
				m.clampCursor()
			} else {
				m.debouncer.Arm(after)
			}
		}
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.debouncer.Close()
		return m, tea.Quit
	case "/":
		return m, m.searchInput.Focus()
	case "tab":
		if m.sess.Authenticated() {
			m.cartFocused = !m.cartFocused
		}
		return m, nil
	case "up", "k":
		if m.cartFocused {
			if m.cartCursor > 0 {
				m.cartCursor--
			}
		} else if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cartFocused {
			if m.cartCursor < len(m.items)-1 {
				m.cartCursor++
			}
		} else if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
		return m, nil
	case "enter", "a":
		return m.addSelected()
	case "+":
		return m.bumpQuantity(+1)
	case "-":
		return m.bumpQuantity(-1)
	}
	return m, nil
}

// addSelected adds the product under the grid cursor with quantity 1; the
// duplicate guard keeps "add" from clobbering an existing line.
func (m *Model) addSelected() (tea.Model, tea.Cmd) {
	if m.cartFocused {
		return m, nil
	}
	p, ok := m.selected()
	if !ok || m.mutating {
		return m, nil
	}
	m.mutating = true
	return m, m.mutate(p.ID, 1, cart.SetOptions{PreventDuplicate: true})
}

// bumpQuantity computes current±1 before calling the engine; the wire
// operation stays an absolute set. With the sidebar focused it targets the
// cart line under the cart cursor, so a line whose product is hidden by a
// narrowed search stays adjustable.
func (m *Model) bumpQuantity(delta int) (tea.Model, tea.Cmd) {
	p, ok := m.bumpTarget()
	if !ok || m.mutating {
		return m, nil
	}
	current := 0
	for _, e := range m.entries {
		if e.ProductID == p.ID {
			current = e.Quantity
		}
	}
	next := current + delta
	if next < 0 {
		return m, nil
	}
	m.mutating = true
	return m, m.mutate(p.ID, next, cart.SetOptions{})
}

func (m *Model) bumpTarget() (catalog.Product, bool) {
	if m.cartFocused {
		if m.cartCursor < 0 || m.cartCursor >= len(m.items) {
			return catalog.Product{}, false
		}
		return m.items[m.cartCursor].Product, true
	}
	return m.selected()
}

func (m *Model) selected() (catalog.Product, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return catalog.Product{}, false
	}
	return m.visible[m.cursor], true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
