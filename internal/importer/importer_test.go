package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/model"
)

const chaseHeader = "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\n"

func parseChaseFixture(t *testing.T) []model.BankTransaction {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", "chase_checking.csv"))
	require.NoError(t, err)
	defer f.Close()

	txns, err := (&ChaseParser{}).Parse(f)
	require.NoError(t, err)
	return txns
}

func TestChaseParser_Parse(t *testing.T) {
	txns := parseChaseFixture(t)
	require.Len(t, txns, 6)

	// First: GITHUB subscription
	assert.Equal(t, "GITHUB *PRO SUBSCRIPTION", txns[0].Description)
	assert.Equal(t, "-4.00", txns[0].Amount.StringFixed(2))
	assert.Equal(t, "ACH_DEBIT", txns[0].Type)
	assert.Equal(t, time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), txns[0].Date)

	// Fourth: ACME income (positive)
	assert.Equal(t, "ACME CONSULTING INVOICE 1042", txns[3].Description)
	assert.True(t, txns[3].Amount.IsPositive())
	assert.Equal(t, "3500.00", txns[3].Amount.StringFixed(2))

	assert.Equal(t, 22, txns[5].Date.Day())
}

func TestChaseParser_ColumnOrder(t *testing.T) {
	csv := "Type,Amount,Description,Posting Date\nACH_DEBIT,-4.00,GITHUB,01/03/2025\n"
	txns, err := (&ChaseParser{}).Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "GITHUB", txns[0].Description)
	assert.Equal(t, "-4.00", txns[0].Amount.StringFixed(2))
}

func TestChaseParser_EmptyFile(t *testing.T) {
	txns, err := (&ChaseParser{}).Parse(strings.NewReader(chaseHeader))
	require.NoError(t, err)
	assert.Nil(t, txns)
}

func TestChaseParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want string
	}{
		{"bad date", chaseHeader + "DEBIT,NOTADATE,desc,-4.00,ACH_DEBIT,100.00,\n", "parsing date"},
		{"bad amount", chaseHeader + "DEBIT,01/03/2025,desc,NOTANUMBER,ACH_DEBIT,100.00,\n", "parsing amount"},
		{"short row", chaseHeader + "DEBIT,01/03/2025\n", "expected at least"},
		{"missing column", "Details,Posting Date,Description\nDEBIT,01/03/2025,x\n", `missing "Amount" column`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&ChaseParser{}).Parse(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGenericParser(t *testing.T) {
	csv := "date,description,amount,category\n" +
		"2025-02-01,Paycheck,2500.00,Salary\n" +
		"2025-02-03,Groceries,-54.20,\n" +
		",,,\n"

	txns, err := (&GenericParser{}).Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txns, 2, "blank rows are skipped")

	assert.Equal(t, "Salary", txns[0].Category)
	assert.Equal(t, "", txns[1].Category)
	assert.Equal(t, time.February, txns[1].Date.Month())

	_, err = (&GenericParser{}).Parse(strings.NewReader("date,description,amount\n02/03/2025,x,1\n"))
	assert.Error(t, err)
}

func TestToNewTransactions(t *testing.T) {
	rows := parseChaseFixture(t)
	rows = append(rows, model.BankTransaction{Date: rows[0].Date, Description: "zero", Amount: decimal.Zero})
	rows = append(rows, model.BankTransaction{Date: rows[0].Date, Description: "tagged", Amount: decimal.NewFromInt(-1), Category: "Shopping"})

	got := ToNewTransactions(rows, "")
	require.Len(t, got, 7, "zero-amount row dropped")

	assert.Equal(t, model.TypeExpense, got[0].Type)
	assert.Equal(t, "4.00", got[0].Amount.StringFixed(2))
	assert.Equal(t, DefaultCategory, got[0].Category)
	assert.Equal(t, model.NewDate(2025, time.January, 3), got[0].Date)

	assert.Equal(t, model.TypeIncome, got[3].Type)
	assert.Equal(t, "Shopping", got[6].Category)

	for _, n := range got {
		assert.Empty(t, model.ValidateTransaction(n), "imported rows should pass validation: %+v", n)
	}

	assert.Equal(t, "Business", ToNewTransactions(rows[3:4], "Business")[0].Category)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(&ChaseParser{})

	p, err := r.Lookup("CHASE")
	require.NoError(t, err, "lookup ignores case")
	assert.Equal(t, "chase", p.Format())

	_, err = r.Lookup("ofx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "ofx" (available: chase)`)

	assert.Panics(t, func() { NewRegistry(&ChaseParser{}, &ChaseParser{}) })

	assert.Equal(t, []string{"chase", "generic"}, Builtin().Formats())
}

func TestInbox_Pending(t *testing.T) {
	in := HomeInbox(t.TempDir())
	require.NoError(t, in.Create())

	require.NoError(t, os.WriteFile(filepath.Join(in.Dir, "march.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in.Dir, "April.CSV"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in.Dir, "notes.txt"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in.ArchiveDir(), "old.csv"), []byte("data"), 0o644))

	paths, err := in.Pending()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(in.Dir, "April.CSV"),
		filepath.Join(in.Dir, "march.csv"),
	}, paths)
}

func TestInbox_Missing(t *testing.T) {
	paths, err := HomeInbox(t.TempDir()).Pending()
	require.NoError(t, err)
	assert.Nil(t, paths)
}

func TestInbox_Archive(t *testing.T) {
	in := HomeInbox(t.TempDir())
	require.NoError(t, os.MkdirAll(in.Dir, 0o755))
	src := filepath.Join(in.Dir, "bank.csv")
	require.NoError(t, os.WriteFile(src, []byte("data"), 0o644))

	require.NoError(t, in.Archive(src))

	_, err := os.Stat(src)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(in.ArchiveDir(), "bank.csv"))
	assert.NoError(t, err)
}
