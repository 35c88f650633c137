package valuation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ReportFragment is the URL marker that sends a reloaded page straight to the
// report.
const ReportFragment = "#report"

const (
	defaultWindow        = 5 * time.Second
	defaultTick          = 100 * time.Millisecond
	defaultSubmitTimeout = 30 * time.Second
)

// Stages are the status lines shown while the estimate is "computing".
var Stages = []string{
	"Analyzing your business profile...",
	"Evaluating market position...",
	"Assessing growth potential...",
	"Calculating valuation range...",
	"Preparing your report...",
}

var ErrInvalidTransition = errors.New("action not allowed at current step")

// ValidationError is returned when a step cannot be left forward.
type ValidationError struct {
	Step   Step
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %s has %d invalid field(s)", e.Step, len(e.Fields))
}

// Snapshot is a consistent copy of a session for rendering.
type Snapshot struct {
	Step            Step            `json:"step"`
	Answers         Answers         `json:"answers"`
	Errors          FieldErrors     `json:"errors,omitempty"`
	Range           Range           `json:"valuation_range"`
	Rating          int             `json:"rating,omitempty"`
	RatingSubmitted bool            `json:"rating_submitted"`
	ShowReport      bool            `json:"show_report"`
	Submission      SubmissionState `json:"submission_state"`
	FallbackMailto  string          `json:"fallback_mailto,omitempty"`
	Progress        int             `json:"progress"`
	Stage           string          `json:"stage,omitempty"`
}

type Option func(*Wizard)

// WithWindow sets how long the computing step lasts.
func WithWindow(d time.Duration) Option { return func(w *Wizard) { w.window = d } }

// WithTick sets the progress animation interval.
func WithTick(d time.Duration) Option { return func(w *Wizard) { w.tick = d } }

func WithSubmitTimeout(d time.Duration) Option { return func(w *Wizard) { w.submitTimeout = d } }

func WithLogger(l *zap.Logger) Option { return func(w *Wizard) { w.log = l } }

func WithSubmitter(s Submitter) Option { return func(w *Wizard) { w.submitter = s } }

// WithFallback sets who receives the mailto fallback and who opens it.
func WithFallback(to string, o MailtoOpener) Option {
	return func(w *Wizard) {
		w.fallbackTo = to
		w.fallback = o
	}
}

func WithSubmissionConfig(c SubmissionConfig) Option { return func(w *Wizard) { w.subCfg = c } }

// WithOnComputed registers a hook called once per computed estimate.
func WithOnComputed(fn func(Snapshot)) Option { return func(w *Wizard) { w.onComputed = fn } }

// Wizard is one valuation session. The computing step runs timers and a
// submission on their own goroutines, so all state sits behind mu.
type Wizard struct {
	store         SessionStore
	submitter     Submitter
	fallback      MailtoOpener
	fallbackTo    string
	subCfg        SubmissionConfig
	onComputed    func(Snapshot)
	log           *zap.Logger
	window        time.Duration
	tick          time.Duration
	submitTimeout time.Duration

	mu              sync.Mutex
	gen             int
	step            Step
	answers         Answers
	errors          FieldErrors
	rng             Range
	rating          int
	ratingSubmitted bool
	showReport      bool
	submission      SubmissionState
	mailto          string
	progress        float64
	stage           string
	ready           chan struct{}
}

// New opens a session backed by store, rehydrating whatever it holds.
func New(ctx context.Context, store SessionStore, opts ...Option) *Wizard {
	w := &Wizard{
		store:         store,
		log:           zap.NewNop(),
		window:        defaultWindow,
		tick:          defaultTick,
		submitTimeout: defaultSubmitTimeout,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.resetLocked()
	w.rehydrate(ctx)
	return w
}

func (w *Wizard) resetLocked() {
	w.step = StepCompany
	w.answers = Answers{}
	w.errors = FieldErrors{}
	w.rng = Range{}
	w.rating = 0
	w.ratingSubmitted = false
	w.showReport = false
	w.submission = NotSubmitted
	w.mailto = ""
	w.progress = 0
	w.stage = ""
	w.ready = make(chan struct{})
}

func (w *Wizard) rehydrate(ctx context.Context) {
	data, err := w.store.Load(ctx)
	if err != nil {
		w.log.Warn("load wizard session", zap.Error(err))
		return
	}
	if v, ok := data[KeyFormData]; ok && v != "" {
		var a Answers
		if err := json.Unmarshal([]byte(v), &a); err != nil {
			w.log.Warn("discarding malformed form data", zap.Error(err))
		} else {
			w.answers = a
		}
	}
	if v, ok := data[KeyCurrentStep]; ok && v != "" {
		if s, err := ParseStep(v); err != nil {
			w.log.Warn("discarding malformed step", zap.String("value", v), zap.Error(err))
		} else {
			w.step = s
		}
	}
	if v, ok := data[KeyValuationRange]; ok && v != "" {
		var r Range
		if err := json.Unmarshal([]byte(v), &r); err != nil || r.Min > r.Max {
			w.log.Warn("discarding malformed valuation range", zap.String("value", v))
		} else {
			w.rng = r
		}
	}
	if v, ok := data[KeyRating]; ok && v != "" {
		if n, err := strconv.Atoi(v); err != nil || n < 1 || n > 5 {
			w.log.Warn("discarding malformed rating", zap.String("value", v))
		} else {
			w.rating = n
		}
	}
	w.ratingSubmitted = parseFlag(w.log, data, KeyRatingSubmitted)
	w.showReport = parseFlag(w.log, data, KeyShowReport)

	if w.step == StepComputing || w.step == StepReport || w.showReport {
		// Timers do not survive a reload; a computed range is enough to show
		// the report, anything less goes back to the contact step.
		if w.rng.IsZero() {
			w.step = StepContact
			w.showReport = false
		} else {
			w.enterReportLocked()
		}
	}
}

func parseFlag(log *zap.Logger, data map[string]string, key string) bool {
	v, ok := data[key]
	if !ok || v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn("discarding malformed flag", zap.String("key", key), zap.String("value", v))
		return false
	}
	return b
}

// ApplyFragment honours the #report marker of a reloaded page. It reports
// whether the wizard moved to the report.
func (w *Wizard) ApplyFragment(ctx context.Context, fragment string) bool {
	if fragment != ReportFragment {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step == StepReport {
		return true
	}
	if w.step == StepComputing || w.rng.IsZero() {
		return false
	}
	w.enterReportLocked()
	w.persistStep(ctx)
	w.save(ctx, KeyShowReport, "true")
	return true
}

// Snapshot returns a copy of the current session.
func (w *Wizard) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

func (w *Wizard) snapshotLocked() Snapshot {
	errs := make(FieldErrors, len(w.errors))
	for k, v := range w.errors {
		errs[k] = v
	}
	return Snapshot{
		Step:            w.step,
		Answers:         w.answers,
		Errors:          errs,
		Range:           w.rng,
		Rating:          w.rating,
		RatingSubmitted: w.ratingSubmitted,
		ShowReport:      w.showReport,
		Submission:      w.submission,
		FallbackMailto:  w.mailto,
		Progress:        int(w.progress),
		Stage:           w.stage,
	}
}

// ReportReady is closed once the session reaches the report step.
func (w *Wizard) ReportReady() <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ready
}

// SetField records an answer. Editing is only possible on input steps.
func (w *Wizard) SetField(ctx context.Context, f Field, v string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.step.IsInput() {
		return ErrInvalidTransition
	}
	if err := w.answers.Set(f, v); err != nil {
		return err
	}
	delete(w.errors, f)
	w.persistAnswers(ctx)
	return nil
}

// SetFields records several answers at once; unknown fields abort the whole
// update.
func (w *Wizard) SetFields(ctx context.Context, values map[Field]string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.step.IsInput() {
		return ErrInvalidTransition
	}
	next := w.answers
	for f, v := range values {
		if err := next.Set(f, v); err != nil {
			return err
		}
	}
	w.answers = next
	for f := range values {
		delete(w.errors, f)
	}
	w.persistAnswers(ctx)
	return nil
}

// Next validates the current step and advances by one. It serves steps 1-7;
// from step 7 it is the "continue to contact" action.
func (w *Wizard) Next(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step < StepCompany || w.step > StepOpportunity {
		return ErrInvalidTransition
	}
	return w.advanceLocked(ctx)
}

// ContinueToContact is Next restricted to step 7.
func (w *Wizard) ContinueToContact(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepOpportunity {
		return ErrInvalidTransition
	}
	return w.advanceLocked(ctx)
}

func (w *Wizard) advanceLocked(ctx context.Context) error {
	if errs := ValidateStep(w.step, w.answers); len(errs) > 0 {
		w.errors = errs
		return &ValidationError{Step: w.step, Fields: errs}
	}
	w.errors = FieldErrors{}
	w.step++
	w.persistStep(ctx)
	return nil
}

// Previous steps back without touching answers. Validation errors are cleared.
func (w *Wizard) Previous(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step <= StepCompany || w.step > StepContact {
		return ErrInvalidTransition
	}
	w.errors = FieldErrors{}
	w.step--
	w.persistStep(ctx)
	return nil
}

// GetReport validates every input step, computes the estimate, and starts the
// computing sequence. A failing earlier step sends the user back to it. The
// report step follows after the window elapses no matter how the background
// submission fares.
func (w *Wizard) GetReport(ctx context.Context) error {
	w.mu.Lock()
	if w.step != StepContact {
		w.mu.Unlock()
		return ErrInvalidTransition
	}
	if s, errs := firstInvalidStep(w.answers); len(errs) > 0 {
		w.errors = errs
		if s != w.step {
			w.step = s
			w.persistStep(ctx)
		}
		w.mu.Unlock()
		return &ValidationError{Step: s, Fields: errs}
	}

	w.errors = FieldErrors{}
	w.rng = Estimate(w.answers)
	w.step = StepComputing
	w.progress = 0
	w.stage = Stages[0]
	w.submission = Submitting
	w.mailto = ""
	w.persistStep(ctx)
	w.persistRange(ctx)

	gen := w.gen
	sub := NewSubmission(w.answers, w.rng, w.subCfg)
	snap := w.snapshotLocked()
	w.startTimersLocked(gen)
	w.mu.Unlock()

	w.log.Info("valuation computed",
		zap.String("company", snap.Answers.CompanyName),
		zap.Int64("min", snap.Range.Min),
		zap.Int64("max", snap.Range.Max),
	)
	go w.deliver(gen, sub)
	if w.onComputed != nil {
		w.onComputed(snap)
	}
	return nil
}

// firstInvalidStep re-checks steps 1-8, since answers of any step can be
// edited while the user sits on a later one.
func firstInvalidStep(a Answers) (Step, FieldErrors) {
	for s := StepCompany; s <= StepContact; s++ {
		if errs := ValidateStep(s, a); len(errs) > 0 {
			return s, errs
		}
	}
	return StepContact, nil
}

func (w *Wizard) startTimersLocked(gen int) {
	for i := 1; i < len(Stages); i++ {
		offset := w.window * time.Duration(i) / time.Duration(len(Stages))
		time.AfterFunc(offset, func() { w.setStage(gen, i) })
	}
	time.AfterFunc(w.window, func() { w.finishComputing(gen) })
	go w.animate(gen)
}

func (w *Wizard) setStage(gen, i int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.gen || w.step != StepComputing {
		return
	}
	w.stage = Stages[i]
}

func (w *Wizard) animate(gen int) {
	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()
	inc := 100 * float64(w.tick) / float64(w.window)
	for range ticker.C {
		w.mu.Lock()
		if gen != w.gen || w.step != StepComputing {
			w.mu.Unlock()
			return
		}
		w.progress = min(100, w.progress+inc)
		w.mu.Unlock()
	}
}

func (w *Wizard) finishComputing(gen int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.gen || w.step != StepComputing {
		return
	}
	w.enterReportLocked()
	ctx := context.Background()
	w.persistStep(ctx)
	w.save(ctx, KeyShowReport, "true")
}

func (w *Wizard) enterReportLocked() {
	w.step = StepReport
	w.showReport = true
	w.progress = 100
	w.stage = ""
	select {
	case <-w.ready:
	default:
		close(w.ready)
	}
}

func (w *Wizard) deliver(gen int, sub Submission) {
	err := errors.New("no submitter configured")
	if w.submitter != nil {
		ctx, cancel := context.WithTimeout(context.Background(), w.submitTimeout)
		err = w.submitter.Submit(ctx, sub)
		cancel()
	}
	if err == nil {
		w.setSubmission(gen, Submitted, "")
		return
	}

	w.log.Warn("valuation submission failed, using mailto fallback", zap.Error(err))
	uri := MailtoURI(w.fallbackTo, sub)
	w.setSubmission(gen, Failed, uri)
	if w.fallback == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), w.submitTimeout)
	defer cancel()
	if err := w.fallback.Open(ctx, uri, sub); err != nil {
		w.log.Warn("mailto fallback failed", zap.Error(err))
	}
}

func (w *Wizard) setSubmission(gen int, state SubmissionState, mailto string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.gen {
		return
	}
	w.submission = state
	w.mailto = mailto
}

// SetRating records the user's satisfaction score (1-5) on the report.
func (w *Wizard) SetRating(ctx context.Context, n int) error {
	if n < 1 || n > 5 {
		return &ValidationError{Step: StepReport, Fields: FieldErrors{"rating": "Rating must be between 1 and 5"}}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepReport {
		return ErrInvalidTransition
	}
	w.rating = n
	w.save(ctx, KeyRating, strconv.Itoa(n))
	return nil
}

// SubmitRating locks in the selected rating.
func (w *Wizard) SubmitRating(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepReport || w.rating == 0 {
		return ErrInvalidTransition
	}
	w.ratingSubmitted = true
	w.save(ctx, KeyRatingSubmitted, "true")
	return nil
}

// Reset discards the whole session, in memory and in the store, and returns
// to step 1. Only the report can be reset.
func (w *Wizard) Reset(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepReport {
		return ErrInvalidTransition
	}
	w.gen++
	w.resetLocked()
	if err := w.store.Clear(ctx); err != nil {
		w.log.Warn("clear wizard session", zap.Error(err))
	}
	return nil
}

func (w *Wizard) persistAnswers(ctx context.Context) {
	blob, err := json.Marshal(w.answers)
	if err != nil {
		w.log.Warn("encode form data", zap.Error(err))
		return
	}
	w.save(ctx, KeyFormData, string(blob))
}

func (w *Wizard) persistStep(ctx context.Context) {
	w.save(ctx, KeyCurrentStep, w.step.String())
}

func (w *Wizard) persistRange(ctx context.Context) {
	blob, err := json.Marshal(w.rng)
	if err != nil {
		w.log.Warn("encode valuation range", zap.Error(err))
		return
	}
	w.save(ctx, KeyValuationRange, string(blob))
}

func (w *Wizard) save(ctx context.Context, key, value string) {
	if err := w.store.Save(ctx, key, value); err != nil {
		w.log.Warn("persist wizard session", zap.String("key", key), zap.Error(err))
	}
}
