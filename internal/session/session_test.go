package session_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/rgehrsitz/portasim/internal/domain"
	"github.com/rgehrsitz/portasim/internal/session"
	mock_session "github.com/rgehrsitz/portasim/internal/session/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoContracts = `329 - QI SOCIEDADE DE CREDITO DIRETO S A
QUA0001117593
R$ 215,49
0/96 - 96 Restantes
10.903,00
341 - ITAU UNIBANCO S.A.
R$ 350,00
24/84 - 60 Restantes
1.000,00`

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func qiBank() *domain.Bank {
	return &domain.Bank{Code: "329", Name: "QI SCD", RateNew: dec("1.80"), RateRefin: dec("1.50"), RatePortability: dec("1.50")}
}

func initialState() session.State {
	return session.State{TermMonths: 96, Tier: domain.TierRefin, Bank: qiBank()}
}

func TestPipeline_Run(t *testing.T) {
	pipeline := session.NewPipeline(session.LocalSource{})

	result, err := pipeline.Run(context.Background(), session.State{Text: twoContracts, TermMonths: 96, Tier: domain.TierRefin, Bank: qiBank()})
	require.NoError(t, err)

	require.Len(t, result.Evaluated, 2)
	assert.True(t, result.Priced)
	assert.Equal(t, session.NoticeNone, result.Notice)
	assert.InDelta(t, 22.704034, result.Evaluated[0].AvailableAmount.InexactFloat64(), 1e-4)
	assert.Equal(t, domain.Liberates, result.Evaluated[0].Classification)
	assert.Equal(t, "QI SCD", result.Summary.BankName)

	total := result.Evaluated[0].AvailableAmount.Add(result.Evaluated[1].AvailableAmount)
	assert.True(t, total.Equal(result.Summary.TotalAvailable))
}

func TestPipeline_UnpricedWithoutBank(t *testing.T) {
	pipeline := session.NewPipeline(nil)

	result, err := pipeline.Run(context.Background(), session.State{Text: twoContracts, TermMonths: 96})
	require.NoError(t, err)

	assert.False(t, result.Priced)
	require.Len(t, result.Evaluated, 2)
	for _, e := range result.Evaluated {
		assert.Equal(t, domain.ReasonUnpriced, e.Reason)
	}
	assert.True(t, result.Summary.TotalAvailable.IsZero())
	assert.Equal(t, "Banco XP", result.Summary.BankName)
}

func TestPipeline_UnpricedWithoutTier(t *testing.T) {
	pipeline := session.NewPipeline(nil)

	result, err := pipeline.Run(context.Background(), session.State{Text: twoContracts, TermMonths: 96, Bank: qiBank()})
	require.NoError(t, err)
	assert.False(t, result.Priced)
	require.Len(t, result.Evaluated, 2)
	for _, e := range result.Evaluated {
		assert.Equal(t, domain.ReasonUnpriced, e.Reason)
		assert.True(t, e.AvailableAmount.IsZero())
	}
	assert.True(t, result.Summary.TotalAvailable.IsZero())
}

func TestPipeline_RatesOverrideBank(t *testing.T) {
	pipeline := session.NewPipeline(nil)
	zero := domain.RateConfig{}

	result, err := pipeline.Run(context.Background(), session.State{Text: twoContracts, TermMonths: 10, Tier: domain.TierRefin, Bank: qiBank(), Rates: &zero})
	require.NoError(t, err)
	assert.InDelta(t, 2154.9, result.Evaluated[0].PresentValueNew.InexactFloat64(), 1e-9)
}

func TestPipeline_NoContractsNotice(t *testing.T) {
	pipeline := session.NewPipeline(nil)

	result, err := pipeline.Run(context.Background(), session.State{Text: "nothing useful", TermMonths: 96, Bank: qiBank()})
	require.NoError(t, err)
	assert.Equal(t, session.NoticeNoContracts, result.Notice)
	assert.Empty(t, result.Evaluated)
	assert.True(t, result.Summary.TotalAvailable.IsZero())
}

func TestPipeline_BlankTextSkipsSource(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := mock_session.NewMockRecordSource(ctrl)
	source.EXPECT().Records(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	result, err := session.NewPipeline(source).Run(context.Background(), session.State{Text: "  \n\t", TermMonths: 96})
	require.NoError(t, err)
	assert.Equal(t, session.NoticeNoContracts, result.Notice)
}

func TestPipeline_RejectsInvalidInputs(t *testing.T) {
	pipeline := session.NewPipeline(nil)

	_, err := pipeline.Run(context.Background(), session.State{Text: twoContracts, TermMonths: 0, Bank: qiBank()})
	assert.Error(t, err)

	negative := domain.RateConfig{RateRefin: dec("-1")}
	_, err = pipeline.Run(context.Background(), session.State{Text: twoContracts, TermMonths: 96, Rates: &negative})
	assert.ErrorContains(t, err, "invalid rates")
}

func TestSession_RecomputesOnEveryChange(t *testing.T) {
	ctx := context.Background()
	s := session.New(session.NewPipeline(nil), initialState())

	result, err := s.SetText(ctx, twoContracts)
	require.NoError(t, err)
	require.Len(t, result.Evaluated, 2)
	base := result.Summary.TotalAvailable

	result, err = s.ToggleExclusion(ctx, 0)
	require.NoError(t, err)
	assert.True(t, base.Sub(result.Summary.TotalAvailable).Equal(result.Evaluated[0].AvailableAmount))
	assert.Len(t, result.Summary.Excluded, 1)
	assert.True(t, s.State().Excluded.Contains(0))

	result, err = s.ToggleExclusion(ctx, 0)
	require.NoError(t, err)
	assert.True(t, base.Equal(result.Summary.TotalAvailable))

	result, err = s.SetTerm(ctx, 48)
	require.NoError(t, err)
	assert.Equal(t, 48, result.Evaluated[0].TermMonths)

	result, err = s.SetTier(ctx, domain.TierNew)
	require.NoError(t, err)
	assert.True(t, dec("1.80").Equal(result.Evaluated[0].Rate))

	result, err = s.SetClientName(ctx, "Maria")
	require.NoError(t, err)
	assert.Equal(t, "Maria", result.Summary.ClientName)

	result, err = s.SetBank(ctx, nil)
	require.NoError(t, err)
	assert.False(t, result.Priced)

	zero := domain.RateConfig{}
	result, err = s.SetRates(ctx, &zero)
	require.NoError(t, err)
	assert.True(t, result.Priced)
}

func TestSession_TextChangeKeepsExclusions(t *testing.T) {
	ctx := context.Background()
	s := session.New(nil, initialState())

	_, err := s.SetText(ctx, twoContracts)
	require.NoError(t, err)
	_, err = s.ToggleExclusion(ctx, 1)
	require.NoError(t, err)

	result, err := s.SetText(ctx, twoContracts+"\n")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, s.State().Excluded.Positions())
	require.Len(t, result.Summary.Excluded, 1)
	assert.Equal(t, 1, result.Summary.Excluded[0].Position)
	assert.Len(t, result.Summary.Included, 1)
}

func TestSession_TextChangeDropsExclusionsPastLastRecord(t *testing.T) {
	ctx := context.Background()
	s := session.New(nil, initialState())

	_, err := s.SetText(ctx, twoContracts)
	require.NoError(t, err)
	_, err = s.ToggleExclusion(ctx, 0)
	require.NoError(t, err)
	_, err = s.ToggleExclusion(ctx, 1)
	require.NoError(t, err)

	oneContract := twoContracts[:strings.Index(twoContracts, "341 - ")]
	result, err := s.SetText(ctx, oneContract)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, []int{0}, s.State().Excluded.Positions())
	assert.Empty(t, result.Summary.Included)
}

func TestSession_TransportFailureKeepsPreviousResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	records := []domain.ContractRecord{
		{BankLabel: "341 - ITAU", InstallmentAmount: dec("350"), PayoffAmount: domain.DecimalPtr(dec("1000"))},
	}

	source := mock_session.NewMockRecordSource(ctrl)
	gomock.InOrder(
		source.EXPECT().Records(gomock.Any(), "first", gomock.Any()).Return(records, nil),
		source.EXPECT().Records(gomock.Any(), "second", gomock.Any()).Return(nil, errors.New("connection refused")),
	)

	s := session.New(session.NewPipeline(source), initialState())

	first, err := s.SetText(ctx, "first")
	require.NoError(t, err)
	require.Len(t, first.Evaluated, 1)

	_, err = s.ToggleExclusion(ctx, 0)
	require.NoError(t, err, "exclusions recompute without refetching")
	kept := s.Result()

	result, err := s.SetText(ctx, "second")
	require.Error(t, err)
	assert.ErrorContains(t, err, "connection refused")
	assert.Equal(t, kept, result)
	assert.Equal(t, kept, s.Result())
	assert.Equal(t, "first", s.State().Text)
	assert.True(t, s.State().Excluded.Contains(0), "previous state is restored")
}

func TestSession_InvalidTermKeepsState(t *testing.T) {
	ctx := context.Background()
	s := session.New(nil, initialState())

	_, err := s.SetText(ctx, twoContracts)
	require.NoError(t, err)

	_, err = s.SetTerm(ctx, -1)
	require.Error(t, err)
	assert.Equal(t, 96, s.State().TermMonths)
}

func TestSession_Refresh(t *testing.T) {
	state := initialState()
	state.Text = twoContracts
	s := session.New(nil, state)

	assert.Empty(t, s.Result().Evaluated, "nothing is evaluated before the first refresh")

	result, err := s.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Evaluated, 2)
}

func TestState_CloneIsDeep(t *testing.T) {
	state := initialState()
	state.Excluded = domain.NewExclusionSet(1)

	clone := state.Clone()
	clone.Bank.Name = "changed"
	clone.Excluded.Add(2)

	assert.Equal(t, "QI SCD", state.Bank.Name)
	assert.False(t, state.Excluded.Contains(2))
}
