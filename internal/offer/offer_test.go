package offer

import (
	"testing"

	"github.com/rgehrsitz/portasim/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func evaluated(position int, bank, installment, available string, c domain.Classification) domain.EvaluatedContract {
	e := domain.EvaluatedContract{
		Position:        position,
		Record:          domain.ContractRecord{BankLabel: bank, InstallmentAmount: dec(installment)},
		AvailableAmount: dec(available),
		Classification:  c,
	}
	if c == domain.DoesNotLiberate {
		e.Reason = domain.ReasonBelowThreshold
	}
	return e
}

func sample() []domain.EvaluatedContract {
	return []domain.EvaluatedContract{
		evaluated(0, "329 - QI Sociedade", "215.49", "22.704034", domain.Liberates),
		evaluated(1, "001 - Banco do Brasil", "35.00", "1509.952042", domain.DoesNotLiberate),
		evaluated(2, "341 - Itaú", "350.00", "2845.10", domain.Liberates),
		evaluated(3, "237 - Bradesco", "500.00", "-120.00", domain.DoesNotLiberate),
	}
}

func TestAggregate_Partitions(t *testing.T) {
	summary := Aggregate(sample(), domain.ExclusionSet{}, Options{TermMonths: 96})

	assert.Equal(t, DefaultBankName, summary.BankName)
	assert.Len(t, summary.Included, 4)
	assert.Empty(t, summary.Excluded)
	require.Len(t, summary.Liberating, 2)
	assert.Equal(t, 0, summary.Liberating[0].Position)
	assert.Equal(t, 2, summary.Liberating[1].Position)
	assert.Len(t, summary.NotLiberating, 2)
	assert.True(t, dec("2867.804034").Equal(summary.TotalAvailable), "got %s", summary.TotalAvailable)
}

func TestAggregate_ExclusionDeltaIsExact(t *testing.T) {
	all := sample()
	base := Aggregate(all, domain.ExclusionSet{}, Options{TermMonths: 96})

	for _, e := range all {
		excluded := domain.NewExclusionSet(e.Position)
		toggled := Aggregate(all, excluded, Options{TermMonths: 96})

		contribution := decimal.Zero
		if e.IsLiberating() {
			contribution = e.AvailableAmount
		}
		assert.True(t, base.TotalAvailable.Sub(toggled.TotalAvailable).Equal(contribution),
			"excluding position %d should remove exactly %s", e.Position, contribution)
		require.Len(t, toggled.Excluded, 1)
		assert.Equal(t, e.Position, toggled.Excluded[0].Position)

		// Remaining contracts keep their relative order
		var positions []int
		for _, inc := range toggled.Included {
			positions = append(positions, inc.Position)
		}
		for i := 1; i < len(positions); i++ {
			assert.Less(t, positions[i-1], positions[i])
		}
	}
}

func TestAggregate_PureFold(t *testing.T) {
	all := sample()
	excluded := domain.NewExclusionSet(2)

	first := Aggregate(all, excluded, Options{TermMonths: 84})
	second := Aggregate(all, excluded, Options{TermMonths: 84})
	assert.Equal(t, first, second)
	assert.True(t, dec("22.704034").Equal(first.TotalAvailable))
}

func TestAggregate_Empty(t *testing.T) {
	summary := Aggregate(nil, domain.ExclusionSet{}, Options{})
	assert.True(t, summary.TotalAvailable.IsZero())
	assert.False(t, summary.HasLiberating())
	assert.NotNil(t, summary.Included)
}

func TestAggregate_SelectedBank(t *testing.T) {
	bank := &domain.Bank{Code: "626", Name: "C6 Consignado"}
	summary := Aggregate(sample(), domain.ExclusionSet{}, Options{Bank: bank, TermMonths: 96, ClientName: "Maria"})

	assert.Equal(t, "C6 Consignado", summary.BankName)
	assert.Equal(t, "626", summary.BankCode)
	assert.Equal(t, "Maria", summary.ClientName)
}

func TestText_Template(t *testing.T) {
	summary := Aggregate(sample(), domain.NewExclusionSet(0), Options{TermMonths: 96})

	text, err := Text(summary)
	require.NoError(t, err)

	want := "*Portabilidade para o Banco XP – Renovação em 96 meses!*\n\n" +
		"📅 *Prazo para pagamento: Até 10 dias úteis*\n\n" +
		"🔹 341 - ITAÚ\n" +
		"▫️ Parcela: R$ 350,00\n" +
		"▫️ *Valor liberado aproximado: R$ 2.845,10*\n" +
		"\n💵 *Total aproximado disponível: R$ 2.845,10*"
	assert.Equal(t, want, text)
}

func TestText_MultipleContractsAndClient(t *testing.T) {
	bank := &domain.Bank{Code: "329", Name: "QI SCD"}
	summary := Aggregate(sample(), domain.ExclusionSet{}, Options{Bank: bank, TermMonths: 84, ClientName: " João Silva "})

	text, err := Text(summary)
	require.NoError(t, err)

	want := "*Portabilidade para o QI SCD – Renovação em 84 meses!*\n\n" +
		"👤 *Cliente: João Silva*\n\n" +
		"📅 *Prazo para pagamento: Até 10 dias úteis*\n\n" +
		"🔹 329 - QI SOCIEDADE\n" +
		"▫️ Parcela: R$ 215,49\n" +
		"▫️ *Valor liberado aproximado: R$ 22,70*\n" +
		"\n" +
		"🔹 341 - ITAÚ\n" +
		"▫️ Parcela: R$ 350,00\n" +
		"▫️ *Valor liberado aproximado: R$ 2.845,10*\n" +
		"\n💵 *Total aproximado disponível: R$ 2.867,80*"
	assert.Equal(t, want, text)
}

func TestText_NothingToShare(t *testing.T) {
	summary := Aggregate(sample(), domain.NewExclusionSet(0, 2), Options{TermMonths: 96})

	_, err := Text(summary)
	assert.ErrorIs(t, err, ErrNothingToShare)
}
