package valuation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWindow = 60 * time.Millisecond

type submitFunc func(ctx context.Context, s Submission) error

func (f submitFunc) Submit(ctx context.Context, s Submission) error { return f(ctx, s) }

type recordingOpener struct {
	mu    sync.Mutex
	uris  []string
	subs  []Submission
	opens chan struct{}
}

func newRecordingOpener() *recordingOpener {
	return &recordingOpener{opens: make(chan struct{}, 4)}
}

func (o *recordingOpener) Open(_ context.Context, uri string, s Submission) error {
	o.mu.Lock()
	o.uris = append(o.uris, uri)
	o.subs = append(o.subs, s)
	o.mu.Unlock()
	o.opens <- struct{}{}
	return nil
}

// stepAnswers fills every required field, step by step.
var stepAnswers = []map[Field]string{
	{FieldCompanyName: "Acme", FieldCountry: "US", FieldIndustry: "saas", FieldBusinessStage: "seed"},
	{FieldRevenue: "10000", FieldEmployees: "6-20"},
	{FieldGrowthRate: "25-50", FieldMarketSize: "medium", FieldCompetitionLevel: "low"},
	{FieldTeamExperience: "some", FieldTechnologyLevel: "moderate"},
	{FieldIntellectualProperty: "pending", FieldCustomerBase: "growing"},
	{FieldFinancialHealth: "good", FieldRiskLevel: "medium"},
	{FieldGrowthOpportunities: "moderate", FieldScalability: "medium"},
	{FieldEmail: "ceo@acme.io"},
}

func newTestWizard(t *testing.T, store SessionStore, opts ...Option) *Wizard {
	t.Helper()
	base := []Option{WithWindow(testWindow), WithTick(5 * time.Millisecond), WithSubmitTimeout(time.Second)}
	return New(context.Background(), store, append(base, opts...)...)
}

// fillToContact answers steps 1-7 and advances to the contact step.
func fillToContact(t *testing.T, w *Wizard) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		require.NoError(t, w.SetFields(ctx, stepAnswers[i]))
		require.NoError(t, w.Next(ctx))
	}
	require.Equal(t, StepContact, w.Snapshot().Step)
	require.NoError(t, w.SetFields(ctx, stepAnswers[7]))
}

func waitReady(t *testing.T, w *Wizard) {
	t.Helper()
	select {
	case <-w.ReportReady():
	case <-time.After(2 * time.Second):
		t.Fatal("report never became ready")
	}
}

func TestWizardMonotonicAdvance(t *testing.T) {
	ctx := context.Background()
	w := newTestWizard(t, NewMemoryStore())

	for i := 0; i < 7; i++ {
		step := Step(i + 1)
		err := w.Next(ctx)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "step %s", step)
		snap := w.Snapshot()
		assert.Equal(t, step, snap.Step)
		assert.NotEmpty(t, snap.Errors)

		require.NoError(t, w.SetFields(ctx, stepAnswers[i]))
		require.NoError(t, w.Next(ctx))
		snap = w.Snapshot()
		assert.Equal(t, step+1, snap.Step)
		assert.Empty(t, snap.Errors)
	}
	assert.ErrorIs(t, w.Next(ctx), ErrInvalidTransition)
}

func TestWizardEditClearsFieldError(t *testing.T) {
	ctx := context.Background()
	w := newTestWizard(t, NewMemoryStore())
	require.Error(t, w.Next(ctx))
	require.Contains(t, w.Snapshot().Errors, FieldCompanyName)

	require.NoError(t, w.SetField(ctx, FieldCompanyName, "Acme"))
	errs := w.Snapshot().Errors
	assert.NotContains(t, errs, FieldCompanyName)
	assert.Contains(t, errs, FieldCountry)

	assert.ErrorIs(t, w.SetField(ctx, Field("nope"), "x"), ErrUnknownField)
}

func TestWizardPreviousKeepsAnswers(t *testing.T) {
	ctx := context.Background()
	w := newTestWizard(t, NewMemoryStore())
	assert.ErrorIs(t, w.Previous(ctx), ErrInvalidTransition)

	require.NoError(t, w.SetFields(ctx, stepAnswers[0]))
	require.NoError(t, w.Next(ctx))
	require.NoError(t, w.Previous(ctx))
	snap := w.Snapshot()
	assert.Equal(t, StepCompany, snap.Step)
	assert.Equal(t, "Acme", snap.Answers.CompanyName)
}

func TestWizardContinueToContactOnlyFromStepSeven(t *testing.T) {
	ctx := context.Background()
	w := newTestWizard(t, NewMemoryStore())
	assert.ErrorIs(t, w.ContinueToContact(ctx), ErrInvalidTransition)

	for i := 0; i < 6; i++ {
		require.NoError(t, w.SetFields(ctx, stepAnswers[i]))
		require.NoError(t, w.Next(ctx))
	}
	require.NoError(t, w.SetFields(ctx, stepAnswers[6]))
	require.NoError(t, w.ContinueToContact(ctx))
	assert.Equal(t, StepContact, w.Snapshot().Step)
}

func TestWizardReportFlow(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	submitted := make(chan Submission, 1)
	var computed []Snapshot
	w := newTestWizard(t, store,
		WithSubmitter(submitFunc(func(_ context.Context, s Submission) error {
			submitted <- s
			return nil
		})),
		WithSubmissionConfig(SubmissionConfig{CC: "partners@yd.example"}),
		WithOnComputed(func(s Snapshot) { computed = append(computed, s) }),
	)
	fillToContact(t, w)

	require.NoError(t, w.GetReport(ctx))
	snap := w.Snapshot()
	assert.Equal(t, StepComputing, snap.Step)
	assert.Equal(t, Stages[0], snap.Stage)
	want := Estimate(snap.Answers)
	assert.Equal(t, want, snap.Range)
	require.Len(t, computed, 1)
	assert.Equal(t, want, computed[0].Range)

	// no editing or navigation while computing
	assert.ErrorIs(t, w.SetField(ctx, FieldCompanyName, "x"), ErrInvalidTransition)
	assert.ErrorIs(t, w.Previous(ctx), ErrInvalidTransition)
	assert.ErrorIs(t, w.GetReport(ctx), ErrInvalidTransition)

	select {
	case s := <-submitted:
		assert.Equal(t, "New Business Valuation Request - Acme", s.Subject)
		assert.Equal(t, "ceo@acme.io", s.ReplyTo)
		assert.Equal(t, "partners@yd.example", s.CC)
		assert.Equal(t, FormatRange(want), s.Valuation)
	case <-time.After(time.Second):
		t.Fatal("submission not sent")
	}

	waitReady(t, w)
	snap = w.Snapshot()
	assert.Equal(t, StepReport, snap.Step)
	assert.True(t, snap.ShowReport)
	assert.Equal(t, 100, snap.Progress)
	assert.Equal(t, want, snap.Range)
	assert.Eventually(t, func() bool { return w.Snapshot().Submission == Submitted }, time.Second, 5*time.Millisecond)

	data, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "9", data[KeyCurrentStep])
	assert.Equal(t, "true", data[KeyShowReport])
}

func TestWizardContactValidationBlocksReport(t *testing.T) {
	ctx := context.Background()
	w := newTestWizard(t, NewMemoryStore())
	fillToContact(t, w)
	require.NoError(t, w.SetField(ctx, FieldEmail, "broken"))

	var verr *ValidationError
	require.ErrorAs(t, w.GetReport(ctx), &verr)
	assert.Equal(t, StepContact, w.Snapshot().Step)
	assert.True(t, w.Snapshot().Range.IsZero())
}

func TestWizardReportRevalidatesEarlierSteps(t *testing.T) {
	ctx := context.Background()
	for _, revenue := range []string{"NaN", "abc", "1e300"} {
		t.Run(revenue, func(t *testing.T) {
			store := NewMemoryStore()
			w := newTestWizard(t, store)
			fillToContact(t, w)
			require.NoError(t, w.SetFields(ctx, map[Field]string{FieldEmail: "a@b.io", FieldRevenue: revenue}))

			var verr *ValidationError
			require.ErrorAs(t, w.GetReport(ctx), &verr)
			assert.Equal(t, StepFinancials, verr.Step)
			assert.Contains(t, verr.Fields, FieldRevenue)

			snap := w.Snapshot()
			assert.Equal(t, StepFinancials, snap.Step)
			assert.Contains(t, snap.Errors, FieldRevenue)
			assert.True(t, snap.Range.IsZero())

			data, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, "2", data[KeyCurrentStep])
			assert.Empty(t, data[KeyValuationRange])
		})
	}
}

func TestWizardStagedStatus(t *testing.T) {
	ctx := context.Background()
	w := New(ctx, NewMemoryStore(), WithWindow(500*time.Millisecond), WithTick(10*time.Millisecond))
	fillToContact(t, w)
	require.NoError(t, w.GetReport(ctx))

	var seen []string
	last := -1
	deadline := time.Now().Add(3 * time.Second)
	for {
		require.True(t, time.Now().Before(deadline), "still computing")
		snap := w.Snapshot()
		if snap.Step != StepComputing {
			break
		}
		if len(seen) == 0 || seen[len(seen)-1] != snap.Stage {
			seen = append(seen, snap.Stage)
		}
		assert.GreaterOrEqual(t, snap.Progress, last)
		last = snap.Progress
		time.Sleep(5 * time.Millisecond)
	}

	assert.Equal(t, Stages, seen)
	assert.Positive(t, last)
	waitReady(t, w)
	snap := w.Snapshot()
	assert.Equal(t, 100, snap.Progress)
	assert.Empty(t, snap.Stage)
}

func TestWizardFailingSubmissionStillReachesReport(t *testing.T) {
	ctx := context.Background()
	opener := newRecordingOpener()
	w := newTestWizard(t, NewMemoryStore(),
		WithSubmitter(submitFunc(func(context.Context, Submission) error {
			return errors.New("network down")
		})),
		WithFallback("advisory@yd.example", opener),
	)
	fillToContact(t, w)
	start := time.Now()
	require.NoError(t, w.GetReport(ctx))
	want := w.Snapshot().Range

	select {
	case <-opener.opens:
	case <-time.After(time.Second):
		t.Fatal("fallback not opened")
	}
	waitReady(t, w)
	assert.GreaterOrEqual(t, time.Since(start), testWindow-10*time.Millisecond)

	snap := w.Snapshot()
	assert.Equal(t, StepReport, snap.Step)
	assert.Equal(t, want, snap.Range)
	assert.Equal(t, Failed, snap.Submission)
	assert.Contains(t, snap.FallbackMailto, "mailto:advisory@yd.example?")

	opener.mu.Lock()
	defer opener.mu.Unlock()
	require.Len(t, opener.uris, 1)
	assert.Equal(t, snap.FallbackMailto, opener.uris[0])
	assert.Equal(t, "Acme", opener.subs[0].CompanyName)
}

func TestWizardBlockingSubmissionDoesNotDelayReport(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	defer close(release)
	w := newTestWizard(t, NewMemoryStore(),
		WithSubmitter(submitFunc(func(ctx context.Context, _ Submission) error {
			select {
			case <-release:
			case <-ctx.Done():
			}
			return nil
		})),
		WithSubmitTimeout(10*time.Second),
	)
	fillToContact(t, w)
	require.NoError(t, w.GetReport(ctx))
	waitReady(t, w)
	snap := w.Snapshot()
	assert.Equal(t, StepReport, snap.Step)
	assert.Equal(t, Submitting, snap.Submission)
}

func TestWizardRating(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	w := newTestWizard(t, store)
	assert.ErrorIs(t, w.SetRating(ctx, 4), ErrInvalidTransition)

	fillToContact(t, w)
	require.NoError(t, w.GetReport(ctx))
	waitReady(t, w)

	var verr *ValidationError
	assert.ErrorAs(t, w.SetRating(ctx, 6), &verr)
	assert.ErrorIs(t, w.SubmitRating(ctx), ErrInvalidTransition)

	require.NoError(t, w.SetRating(ctx, 4))
	require.NoError(t, w.SubmitRating(ctx))
	snap := w.Snapshot()
	assert.Equal(t, 4, snap.Rating)
	assert.True(t, snap.RatingSubmitted)

	data, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "4", data[KeyRating])
	assert.Equal(t, "true", data[KeyRatingSubmitted])
}

func TestWizardResetCompleteness(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	w := newTestWizard(t, store)
	fillToContact(t, w)
	assert.ErrorIs(t, w.Reset(ctx), ErrInvalidTransition)

	require.NoError(t, w.GetReport(ctx))
	waitReady(t, w)
	require.NoError(t, w.SetRating(ctx, 5))
	require.NoError(t, w.Reset(ctx))

	snap := w.Snapshot()
	assert.Equal(t, StepCompany, snap.Step)
	assert.True(t, snap.Answers.IsEmpty())
	assert.Equal(t, Range{}, snap.Range)
	assert.Zero(t, snap.Rating)
	assert.False(t, snap.ShowReport)
	assert.Equal(t, NotSubmitted, snap.Submission)

	data, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, data)

	// a fresh cycle gets a fresh ready channel
	select {
	case <-w.ReportReady():
		t.Fatal("ready channel should be reset")
	default:
	}
}

func TestWizardReloadFidelity(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	w := newTestWizard(t, store)
	for i := 0; i < 3; i++ {
		require.NoError(t, w.SetFields(ctx, stepAnswers[i]))
		require.NoError(t, w.Next(ctx))
	}
	require.NoError(t, w.SetField(ctx, FieldTeamExperience, "serial"))
	before := w.Snapshot()

	reloaded := newTestWizard(t, store)
	after := reloaded.Snapshot()
	assert.Equal(t, before.Step, after.Step)
	assert.Equal(t, before.Answers, after.Answers)
}

func TestWizardReloadAfterReport(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	w := newTestWizard(t, store)
	fillToContact(t, w)
	require.NoError(t, w.GetReport(ctx))
	waitReady(t, w)
	want := w.Snapshot().Range

	reloaded := newTestWizard(t, store)
	snap := reloaded.Snapshot()
	assert.Equal(t, StepReport, snap.Step)
	assert.Equal(t, want, snap.Range)
	assert.True(t, snap.ShowReport)
}

func TestWizardReloadDuringComputing(t *testing.T) {
	ctx := context.Background()

	t.Run("with a stored range the report is shown", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Save(ctx, KeyCurrentStep, "8.5"))
		require.NoError(t, store.Save(ctx, KeyValuationRange, `{"min":850,"max":1150}`))
		w := newTestWizard(t, store)
		snap := w.Snapshot()
		assert.Equal(t, StepReport, snap.Step)
		assert.Equal(t, Range{Min: 850, Max: 1150}, snap.Range)
	})

	t.Run("without a range it goes back to contact", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Save(ctx, KeyCurrentStep, "8.5"))
		w := newTestWizard(t, store)
		assert.Equal(t, StepContact, w.Snapshot().Step)
	})
}

func TestWizardMalformedRehydration(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, KeyFormData, "{not json"))
	require.NoError(t, store.Save(ctx, KeyCurrentStep, "eleven"))
	require.NoError(t, store.Save(ctx, KeyValuationRange, `{"min":5,"max":1}`))
	require.NoError(t, store.Save(ctx, KeyRating, "9"))
	require.NoError(t, store.Save(ctx, KeyShowReport, "maybe"))

	w := newTestWizard(t, store)
	snap := w.Snapshot()
	assert.Equal(t, StepCompany, snap.Step)
	assert.True(t, snap.Answers.IsEmpty())
	assert.True(t, snap.Range.IsZero())
	assert.Zero(t, snap.Rating)
	assert.False(t, snap.ShowReport)
}

func TestWizardReportFragment(t *testing.T) {
	ctx := context.Background()

	t.Run("ignored without a stored range", func(t *testing.T) {
		w := newTestWizard(t, NewMemoryStore())
		assert.False(t, w.ApplyFragment(ctx, ReportFragment))
		assert.Equal(t, StepCompany, w.Snapshot().Step)
	})

	t.Run("jumps to the report when a range exists", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Save(ctx, KeyCurrentStep, "3"))
		require.NoError(t, store.Save(ctx, KeyValuationRange, `{"min":850,"max":1150}`))
		w := newTestWizard(t, store)
		require.Equal(t, StepMarket, w.Snapshot().Step)

		assert.False(t, w.ApplyFragment(ctx, "#other"))
		assert.True(t, w.ApplyFragment(ctx, ReportFragment))
		assert.Equal(t, StepReport, w.Snapshot().Step)

		data, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "9", data[KeyCurrentStep])
	})
}
