package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"ydadvisory/internal/repositories"
	"ydadvisory/internal/valuation"
)

// WizardConfig is the per-session wiring shared by every wizard.
type WizardConfig struct {
	Submitter     valuation.Submitter
	Fallback      valuation.MailtoOpener
	FallbackTo    string
	CC            string
	Window        time.Duration
	Tick          time.Duration
	SubmitTimeout time.Duration
	// IdleTTL is how long an untouched session stays in memory.
	IdleTTL time.Duration
}

type wizardEntry struct {
	w        *valuation.Wizard
	lastSeen time.Time
}

// WizardService keeps one live wizard per browser session. Sessions are
// persisted through the wizard_state table, so an evicted or restarted
// session rehydrates on its next request.
type WizardService struct {
	repo     *repositories.WizardStateRepository
	cfg      WizardConfig
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*wizardEntry
}

func NewWizardService(repo *repositories.WizardStateRepository, cfg WizardConfig, notifier Notifier, log *zap.Logger) *WizardService {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.IdleTTL == 0 {
		cfg.IdleTTL = 30 * time.Minute
	}
	return &WizardService{
		repo:     repo,
		cfg:      cfg,
		notifier: notifier,
		log:      log,
		now:      time.Now,
		sessions: map[string]*wizardEntry{},
	}
}

// Session returns the live wizard for id, rehydrating it from storage on
// first use.
func (s *WizardService) Session(ctx context.Context, id string) *valuation.Wizard {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[id]; ok {
		e.lastSeen = s.now()
		return e.w
	}
	w := valuation.New(ctx, &sessionStore{repo: s.repo, id: id}, s.options(id)...)
	s.sessions[id] = &wizardEntry{w: w, lastSeen: s.now()}
	return w
}

func (s *WizardService) options(id string) []valuation.Option {
	log := s.log.With(zap.String("session", id))
	opts := []valuation.Option{
		valuation.WithLogger(log),
		valuation.WithSubmissionConfig(valuation.SubmissionConfig{CC: s.cfg.CC}),
		valuation.WithFallback(s.cfg.FallbackTo, s.cfg.Fallback),
		valuation.WithOnComputed(func(snap valuation.Snapshot) {
			if s.notifier == nil {
				return
			}
			go func() {
				if err := s.notifier.Notify(context.Background(), valuationMessage(snap)); err != nil {
					log.Warn("valuation telegram notification failed", zap.Error(err))
				}
			}()
		}),
	}
	if s.cfg.Submitter != nil {
		opts = append(opts, valuation.WithSubmitter(s.cfg.Submitter))
	}
	if s.cfg.Window > 0 {
		opts = append(opts, valuation.WithWindow(s.cfg.Window))
	}
	if s.cfg.Tick > 0 {
		opts = append(opts, valuation.WithTick(s.cfg.Tick))
	}
	if s.cfg.SubmitTimeout > 0 {
		opts = append(opts, valuation.WithSubmitTimeout(s.cfg.SubmitTimeout))
	}
	return opts
}

// Sweep drops idle sessions from memory and deletes stored sessions not
// touched since retention ago. Sessions still computing stay resident.
func (s *WizardService) Sweep(ctx context.Context, retention time.Duration) (evicted int, purged int64, err error) {
	now := s.now()
	s.mu.Lock()
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) < s.cfg.IdleTTL {
			continue
		}
		if e.w.Snapshot().Step == valuation.StepComputing {
			continue
		}
		delete(s.sessions, id)
		evicted++
	}
	s.mu.Unlock()

	if retention > 0 {
		purged, err = s.repo.Purge(ctx, now.Add(-retention))
	}
	return evicted, purged, err
}

// Run sweeps every interval until ctx is done.
func (s *WizardService) Run(ctx context.Context, interval, retention time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			evicted, purged, err := s.Sweep(ctx, retention)
			if err != nil {
				s.log.Warn("wizard sweep failed", zap.Error(err))
				continue
			}
			if evicted > 0 || purged > 0 {
				s.log.Info("wizard sweep", zap.Int("evicted", evicted), zap.Int64("purged", purged))
			}
		}
	}
}

// sessionStore scopes the wizard_state table to one session.
type sessionStore struct {
	repo *repositories.WizardStateRepository
	id   string
}

func (s *sessionStore) Load(ctx context.Context) (map[string]string, error) {
	return s.repo.Load(ctx, s.id)
}

func (s *sessionStore) Save(ctx context.Context, key, value string) error {
	return s.repo.Save(ctx, s.id, key, value)
}

func (s *sessionStore) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx, s.id)
}
