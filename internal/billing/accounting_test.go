package billing

import (
	"testing"
	"time"

	"github.com/mana-finance/mana-backend-go/internal/domain"
)

func TestAccountingDate_CreditRollsToDueDate(t *testing.T) {
	// dueDay=10, closingDay=1: a purchase on Jan 15 misses the Feb 1 close?
	// No — Jan 15 is past closing day 1, so it lands in the cycle closing
	// Feb 1 and is due Feb 10.
	cards := []domain.Card{{ID: "card-1", Type: domain.CardTypeCredit, DueDay: 10, ClosingDay: 1}}
	tx := creditTx("card-1", localDate(2025, time.January, 15), -100)

	got := AccountingDate(&tx, cards)
	if !got.Equal(localDate(2025, time.February, 10)) {
		t.Errorf("accounting date = %v, want 2025-02-10", got)
	}
}

func TestAccountingDate_OnClosingDay(t *testing.T) {
	// Exactly on the closing day the charge rolls into the next cycle.
	cards := []domain.Card{{ID: "card-1", Type: domain.CardTypeCredit, DueDay: 10, ClosingDay: 1}}
	tx := creditTx("card-1", localDate(2025, time.January, 1), -100)

	got := AccountingDate(&tx, cards)
	if !got.Equal(localDate(2025, time.February, 10)) {
		t.Errorf("accounting date = %v, want 2025-02-10", got)
	}
}

func TestAccountingDate_TieBreakShiftsDueMonth(t *testing.T) {
	// closingDay=25 >= dueDay=5: the invoice for the cycle closing in a month
	// is due the month after.
	cards := []domain.Card{{ID: "card-1", Type: domain.CardTypeCredit, DueDay: 5, ClosingDay: 25}}

	tx := creditTx("card-1", localDate(2025, time.January, 10), -100)
	if got := AccountingDate(&tx, cards); !got.Equal(localDate(2025, time.February, 5)) {
		t.Errorf("accounting date = %v, want 2025-02-05", got)
	}

	// Past the closing day: next cycle, due a month later again.
	tx = creditTx("card-1", localDate(2025, time.January, 26), -100)
	if got := AccountingDate(&tx, cards); !got.Equal(localDate(2025, time.March, 5)) {
		t.Errorf("accounting date = %v, want 2025-03-05", got)
	}
}

func TestAccountingDate_YearOverflow(t *testing.T) {
	cards := []domain.Card{{ID: "card-1", Type: domain.CardTypeCredit, DueDay: 5, ClosingDay: 25}}
	tx := creditTx("card-1", localDate(2024, time.December, 26), -100)

	// Closes Jan 2025, due Feb 2025.
	if got := AccountingDate(&tx, cards); !got.Equal(localDate(2025, time.February, 5)) {
		t.Errorf("accounting date = %v, want 2025-02-05", got)
	}
}

func TestAccountingDate_DebitKeepsOwnDate(t *testing.T) {
	// A "both" card without an explicit credit function is a debit charge:
	// cash-basis says it counts in the month it happened.
	cards := []domain.Card{{ID: "card-1", Type: domain.CardTypeBoth, HasCredit: true, HasDebit: true, DueDay: 10, ClosingDay: 1}}
	tx := domain.Transaction{
		ID:      "t1",
		Account: "card-1",
		Date:    localDate(2025, time.January, 15),
		Amount:  -100,
		Type:    domain.TransactionExpense,
	}

	if got := AccountingDate(&tx, cards); !got.Equal(tx.Date) {
		t.Errorf("accounting date = %v, want transaction date %v", got, tx.Date)
	}
}

func TestAccountingDate_Fallbacks(t *testing.T) {
	cards := []domain.Card{{ID: "card-1", Type: domain.CardTypeCredit, DueDay: 10, ClosingDay: 1}}
	date := localDate(2025, time.January, 15)

	// No account reference: wallet/cash semantics.
	tx := creditTx("", date, -100)
	if got := AccountingDate(&tx, cards); !got.Equal(date) {
		t.Errorf("no account: got %v, want %v", got, date)
	}

	// Unresolvable account reference: treat as cash.
	tx = creditTx("ghost-card", date, -100)
	if got := AccountingDate(&tx, cards); !got.Equal(date) {
		t.Errorf("unknown card: got %v, want %v", got, date)
	}

	// Card without billing config: transaction date, never an error.
	noConfig := []domain.Card{{ID: "card-2", Type: domain.CardTypeCredit}}
	tx = creditTx("card-2", date, -100)
	if got := AccountingDate(&tx, noConfig); !got.Equal(date) {
		t.Errorf("no billing config: got %v, want %v", got, date)
	}
}

func TestAccountingDate_ClampsDueDay(t *testing.T) {
	// Due day 31 with a February due month clamps to Feb 28.
	cards := []domain.Card{{ID: "card-1", Type: domain.CardTypeCredit, DueDay: 31, ClosingDay: 10}}
	tx := creditTx("card-1", localDate(2025, time.February, 5), -100)

	if got := AccountingDate(&tx, cards); !got.Equal(localDate(2025, time.February, 28)) {
		t.Errorf("accounting date = %v, want 2025-02-28", got)
	}
}

// The mapper and the cycle resolver encode the same closing/due relationship
// from opposite directions. For a transaction inside the cycle due in
// (y, m) the mapper must land on exactly that month's due date — totals shown
// on different screens would otherwise disagree for the same data.
func TestAccountingDate_ConsistentWithResolveCycle(t *testing.T) {
	configs := []*domain.Card{
		{ID: "c", Type: domain.CardTypeCredit, DueDay: 10, ClosingDay: 1},
		{ID: "c", Type: domain.CardTypeCredit, DueDay: 5, ClosingDay: 25},
		{ID: "c", Type: domain.CardTypeCredit, DueDay: 20, ClosingDay: 10},
		{ID: "c", Type: domain.CardTypeCredit, DueDay: 15},
		{ID: "c", Type: domain.CardTypeCredit, DueDay: 1, ClosingDay: 31},
	}

	for _, card := range configs {
		year, month := 2024, time.November
		for i := 0; i < 8; i++ {
			cycle := ResolveCycle(card, year, month)
			want := DueDate(card, year, month)

			// Probe the first day of the cycle and the day before it closes.
			probes := []time.Time{cycle.Start, cycle.End.AddDate(0, 0, -1)}
			for _, probe := range probes {
				probe = localDate(probe.Year(), probe.Month(), probe.Day())
				if !cycle.Contains(probe) {
					continue
				}
				tx := creditTx(card.ID, probe, -10)
				got := AccountingDate(&tx, []domain.Card{*card})
				if !got.Equal(want) {
					t.Errorf("card due=%d close=%d, tx %v in cycle %v..%v: accounting date %v, want %v",
						card.DueDay, card.ClosingDay, probe, cycle.Start, cycle.End, got, want)
				}
			}
			year, month = addMonths(year, month, 1)
		}
	}
}
