package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ydadvisory/internal/repositories"
	"ydadvisory/internal/valuation"
)

func TestWizardServiceSessionsPersist(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewWizardStateRepository(openDB(t))
	svc := NewWizardService(repo, WizardConfig{Window: 50 * time.Millisecond, Tick: 5 * time.Millisecond}, nil, nil)

	w := svc.Session(ctx, "abc")
	assert.Same(t, w, svc.Session(ctx, "abc"))
	require.NoError(t, w.SetFields(ctx, map[valuation.Field]string{
		valuation.FieldCompanyName:   "Acme",
		valuation.FieldCountry:       "US",
		valuation.FieldIndustry:      "saas",
		valuation.FieldBusinessStage: "seed",
	}))
	require.NoError(t, w.Next(ctx))

	data, err := repo.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "2", data[valuation.KeyCurrentStep])

	// a fresh service rehydrates from the table
	other := NewWizardService(repo, WizardConfig{}, nil, nil)
	snap := other.Session(ctx, "abc").Snapshot()
	assert.Equal(t, valuation.StepFinancials, snap.Step)
	assert.Equal(t, "Acme", snap.Answers.CompanyName)
}

func TestWizardServiceSweep(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewWizardStateRepository(openDB(t))
	svc := NewWizardService(repo, WizardConfig{IdleTTL: time.Minute}, nil, nil)
	start := time.Now()
	svc.now = func() time.Time { return start }

	first := svc.Session(ctx, "idle")
	require.NoError(t, first.SetField(ctx, valuation.FieldCompanyName, "Acme"))

	evicted, _, err := svc.Sweep(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, evicted)

	svc.now = func() time.Time { return start.Add(2 * time.Minute) }
	evicted, _, err = svc.Sweep(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, evicted)

	again := svc.Session(ctx, "idle")
	assert.NotSame(t, first, again)
	assert.Equal(t, "Acme", again.Snapshot().Answers.CompanyName)

	svc.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	_, purged, err := svc.Sweep(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)
}

func TestWizardServiceNotifiesOnComputed(t *testing.T) {
	ctx := context.Background()
	notifier := &fakeNotifier{}
	svc := NewWizardService(repositories.NewWizardStateRepository(openDB(t)),
		WizardConfig{Window: 30 * time.Millisecond, Tick: 5 * time.Millisecond}, notifier, nil)

	w := svc.Session(ctx, "s")
	steps := []map[valuation.Field]string{
		{valuation.FieldCompanyName: "Acme", valuation.FieldCountry: "US", valuation.FieldIndustry: "saas", valuation.FieldBusinessStage: "seed"},
		{valuation.FieldRevenue: "1000", valuation.FieldEmployees: "1-5"},
		{valuation.FieldGrowthRate: "0-10", valuation.FieldMarketSize: "small", valuation.FieldCompetitionLevel: "high"},
		{valuation.FieldTeamExperience: "none", valuation.FieldTechnologyLevel: "basic"},
		{valuation.FieldIntellectualProperty: "none", valuation.FieldCustomerBase: "small"},
		{valuation.FieldFinancialHealth: "fair", valuation.FieldRiskLevel: "high"},
		{valuation.FieldGrowthOpportunities: "limited", valuation.FieldScalability: "low"},
	}
	for _, s := range steps {
		require.NoError(t, w.SetFields(ctx, s))
		require.NoError(t, w.Next(ctx))
	}
	require.NoError(t, w.SetField(ctx, valuation.FieldEmail, "ceo@acme.io"))
	require.NoError(t, w.GetReport(ctx))

	assert.Eventually(t, func() bool { return notifier.count() == 1 }, time.Second, 5*time.Millisecond)
	select {
	case <-w.ReportReady():
	case <-time.After(2 * time.Second):
		t.Fatal("report never became ready")
	}
}
