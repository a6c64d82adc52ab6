package session

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/config"
)

// Manager launches and tears down rod-backed browser sessions.
type Manager struct {
	cfg    config.BrowserConfig
	logger *zap.Logger
}

func NewManager(cfg config.BrowserConfig, logger *zap.Logger) *Manager {
	return &Manager{
		cfg:    cfg,
		logger: logger.With(zap.String("component", "session")),
	}
}

// Create launches count sessions. locations, when non-nil, must have
// exactly count entries. A session that fails to launch is logged and
// skipped, so the returned slice may be shorter than count.
func (m *Manager) Create(ctx context.Context, count int, kind Kind, headless bool, locations []string) ([]Handle, error) {
	if locations != nil && len(locations) != count {
		return nil, fmt.Errorf("%w: %d locations for %d sessions", ErrInvalidArgument, len(locations), count)
	}

	var handles []Handle
	for i := 0; i < count; i++ {
		if kind != KindChrome {
			m.logger.Warn("browser kind not supported yet, skipping",
				zap.String("kind", string(kind)), zap.Int("index", i))
			continue
		}

		location := BlankLocation
		if locations != nil && locations[i] != "" {
			location = locations[i]
		}

		h, err := m.launch(ctx, len(handles), headless, location)
		if err != nil {
			m.logger.Error("failed to create session",
				zap.Int("index", i), zap.Error(err))
			continue
		}
		handles = append(handles, h)
		m.logger.Info("created session",
			zap.Int("index", h.Index()), zap.String("location", location))
	}
	return handles, nil
}

func (m *Manager) launch(ctx context.Context, index int, headless bool, location string) (*rodSession, error) {
	path, _ := launcher.LookPath()
	l := launcher.New().Bin(path).Headless(headless).NoSandbox(true)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: location})
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("opening page: %w", err)
	}

	s := &rodSession{
		index:           index,
		initialLocation: location,
		createdAt:       time.Now(),
		browser:         browser,
		page:            page,
	}

	// Tile windows diagonally so sessions do not fully overlap.
	if !headless {
		left := index * m.cfg.WindowOffset
		top := index * m.cfg.WindowOffset
		width := m.cfg.Width
		height := m.cfg.Height
		if err := page.SetWindow(&proto.BrowserBounds{
			Left:   &left,
			Top:    &top,
			Width:  &width,
			Height: &height,
		}); err != nil {
			m.logger.Debug("could not position window", zap.Int("index", index), zap.Error(err))
		}
	}

	if location != BlankLocation {
		if err := page.WaitLoad(); err != nil {
			m.logger.Warn("initial page did not finish loading",
				zap.Int("index", index), zap.String("location", location), zap.Error(err))
		}
	}

	return s, nil
}

// rodSession drives one chromium instance through the DevTools protocol.
type rodSession struct {
	index           int
	initialLocation string
	createdAt       time.Time
	browser         *rod.Browser
	page            *rod.Page
}

var _ Handle = (*rodSession)(nil)
var _ MouseClicker = (*rodSession)(nil)

func (s *rodSession) Index() int              { return s.index }
func (s *rodSession) InitialLocation() string { return s.initialLocation }
func (s *rodSession) CreatedAt() time.Time    { return s.createdAt }

func (s *rodSession) Navigate(url string) error {
	if err := s.page.Navigate(url); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	if err := s.page.WaitLoad(); err != nil {
		return fmt.Errorf("waiting for %s to load: %w", url, err)
	}
	return nil
}

func (s *rodSession) Click(selector string, timeout time.Duration) error {
	el, err := s.page.Timeout(timeout).Element(selector)
	if err != nil {
		return fmt.Errorf("element not found: %s: %w", selector, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("clicking %s: %w", selector, err)
	}
	return nil
}

func (s *rodSession) Fill(selector, text string, timeout time.Duration) error {
	el, err := s.page.Timeout(timeout).Element(selector)
	if err != nil {
		return fmt.Errorf("element not found: %s: %w", selector, err)
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("clearing %s: %w", selector, err)
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("filling %s: %w", selector, err)
	}
	return nil
}

func (s *rodSession) Scroll(amount int) error {
	_, err := s.RunScript(`(amount) => window.scrollBy(0, amount)`, amount)
	if err != nil {
		return fmt.Errorf("scrolling by %d: %w", amount, err)
	}
	return nil
}

func (s *rodSession) RunScript(js string, args ...any) (any, error) {
	obj, err := s.page.Eval(js, args...)
	if err != nil {
		return nil, fmt.Errorf("evaluating script: %w", err)
	}
	return obj.Value.Val(), nil
}

func (s *rodSession) CurrentLocation() (string, error) {
	info, err := s.page.Info()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return info.URL, nil
}

func (s *rodSession) WindowTokens() ([]string, error) {
	pages, err := s.browser.Pages()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	tokens := make([]string, 0, len(pages))
	for _, p := range pages {
		tokens = append(tokens, string(p.TargetID))
	}
	return tokens, nil
}

func (s *rodSession) CurrentWindow() (string, error) {
	return string(s.page.TargetID), nil
}

func (s *rodSession) Focus(token string) error {
	pages, err := s.browser.Pages()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	for _, p := range pages {
		if string(p.TargetID) == token {
			if _, err := p.Activate(); err != nil {
				return fmt.Errorf("activating window %s: %w", token, err)
			}
			s.page = p
			return nil
		}
	}
	return fmt.Errorf("%w: window %s is gone", ErrUnreachable, token)
}

// MouseClickAt moves the real mouse to a viewport coordinate and clicks.
// Used by the overlay bridge when an injected click finds no element.
func (s *rodSession) MouseClickAt(x, y int) error {
	if err := s.page.Mouse.MoveTo(proto.Point{X: float64(x), Y: float64(y)}); err != nil {
		return fmt.Errorf("moving mouse to (%d, %d): %w", x, y, err)
	}
	if err := s.page.Mouse.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("clicking at (%d, %d): %w", x, y, err)
	}
	return nil
}

func (s *rodSession) Close() error {
	var pageErr, browserErr error
	if s.page != nil {
		pageErr = s.page.Close()
	}
	if s.browser != nil {
		browserErr = s.browser.Close()
	}
	if browserErr != nil {
		return browserErr
	}
	return pageErr
}
