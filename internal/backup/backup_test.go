package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/id"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/store"
	"github.com/tally-dev/tally/internal/tracker"
)

var exportTime = time.Date(2025, time.June, 15, 18, 30, 5, 123456789, time.UTC)

func seeded(t *testing.T) (*tracker.Tracker, *store.Memory) {
	t.Helper()
	st := store.NewMemory()
	tr, err := tracker.Open(st, tracker.WithIDGenerator(id.NewSequence("t")))
	require.NoError(t, err)

	_, err = tr.AddTransaction(model.NewTransaction{
		Amount:      decimal.RequireFromString("1000"),
		Description: "June salary",
		Category:    "Salary",
		Type:        model.TypeIncome,
		Date:        model.NewDate(2025, time.June, 1),
		IsRecurring: true,
	})
	require.NoError(t, err)
	_, err = tr.AddTransaction(model.NewTransaction{
		Amount:      decimal.RequireFromString("42.15"),
		Description: "Dinner",
		Category:    "Food & Dining",
		Type:        model.TypeExpense,
		Date:        model.NewDate(2025, time.June, 3),
	})
	require.NoError(t, err)
	_, err = tr.AddCategory(model.NewCategory{Name: "Pets", Color: "#10AC84", Icon: "🐕"})
	require.NoError(t, err)
	return tr, st
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "expense-tracker-backup-2025-06-15.json", FileName(exportTime))
}

func TestExportFormat(t *testing.T) {
	tr, _ := seeded(t)

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, tr, exportTime))

	assert.Contains(t, buf.String(), "\n  \"transactions\": [", "indented with two spaces")
	assert.Contains(t, buf.String(), `"amount": 1000,`, "amounts are JSON numbers")
	assert.Contains(t, buf.String(), `"amount": 42.15,`)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "1.0", doc["version"])
	assert.Equal(t, "2025-06-15T18:30:05.123Z", doc["exportDate"])
	assert.Len(t, doc["transactions"], 2)
	assert.Len(t, doc["categories"], 9)
}

func TestExportEmptyCollections(t *testing.T) {
	st := store.NewMemory()
	require.NoError(t, st.Set(store.KeyCategories, []byte(`[]`)))
	tr, err := tracker.Open(st)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, tr, exportTime))
	assert.Contains(t, buf.String(), `"transactions": []`)
	assert.Contains(t, buf.String(), `"categories": []`)
}

func TestRoundTrip(t *testing.T) {
	src, _ := seeded(t)

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, src, exportTime))

	// Import into a different home that already has other data.
	dst := store.NewMemory()
	other, err := tracker.Open(dst)
	require.NoError(t, err)
	_, err = other.AddTransaction(model.NewTransaction{
		Amount: decimal.RequireFromString("1"), Description: "to be replaced",
		Category: "Shopping", Type: model.TypeExpense, Date: model.NewDate(2020, time.January, 1),
	})
	require.NoError(t, err)

	require.NoError(t, Import(&buf, dst))
	require.NoError(t, other.Reload())

	assert.Equal(t, src.Transactions(), other.Transactions())
	assert.Equal(t, src.Categories(), other.Categories())
}

func TestImportKeepsRecordsVerbatimUntilNextWrite(t *testing.T) {
	st := store.NewMemory()
	doc := `{"transactions":[{"id":"1","amount":5,"extra":"kept"}],"categories":[{"id":"c","name":"n"}],"version":"0.9"}`

	require.NoError(t, Import(strings.NewReader(doc), st))

	txs, _, err := st.Get(store.KeyTransactions)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1","amount":5,"extra":"kept"}]`, string(txs))

	cats, _, err := st.Get(store.KeyCategories)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"c","name":"n"}]`, string(cats))

	tr, err := tracker.Open(st, tracker.WithIDGenerator(id.NewSequence("n")))
	require.NoError(t, err)
	require.Len(t, tr.Transactions(), 1)
	assert.True(t, tr.Transactions()[0].Amount.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, []model.Category{{ID: "c", Name: "n"}}, tr.Categories())

	// Fields the tracker does not know are dropped at the next write.
	_, err = tr.AddTransaction(model.NewTransaction{Amount: decimal.NewFromInt(1), Description: "x", Category: "n", Type: model.TypeExpense})
	require.NoError(t, err)
	txs, _, err = st.Get(store.KeyTransactions)
	require.NoError(t, err)
	assert.NotContains(t, string(txs), "extra")
	assert.Contains(t, string(txs), `"id":"1","amount":5,`)
}

func TestImportRejectsWithoutChanges(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"missing categories", `{"transactions":[]}`, ErrInvalidFormat},
		{"missing transactions", `{"categories":[]}`, ErrInvalidFormat},
		{"categories not array", `{"transactions":[],"categories":{}}`, ErrInvalidFormat},
		{"null categories", `{"transactions":[],"categories":null}`, ErrInvalidFormat},
		{"top-level array", `[1,2]`, ErrInvalidFormat},
		{"not json", `transactions: []`, ErrInvalidJSON},
		{"truncated", `{"transactions":[`, ErrInvalidJSON},
		{"numeric transaction id", `{"transactions":[{"id":1,"amount":5}],"categories":[]}`, ErrInvalidFormat},
		{"non-ISO date", `{"transactions":[{"id":"1","amount":5,"date":"06/15/2025"}],"categories":[]}`, ErrInvalidFormat},
		{"non-numeric amount", `{"transactions":[{"id":"1","amount":"five"}],"categories":[]}`, ErrInvalidFormat},
		{"transaction not an object", `{"transactions":["x"],"categories":[]}`, ErrInvalidFormat},
		{"numeric category name", `{"transactions":[],"categories":[{"id":"c","name":7}]}`, ErrInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemory()
			require.NoError(t, st.Set(store.KeyTransactions, []byte(`["before"]`)))
			require.NoError(t, st.Set(store.KeyCategories, []byte(`["cats"]`)))

			err := Import(strings.NewReader(tt.doc), st)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			txs, _, _ := st.Get(store.KeyTransactions)
			cats, _, _ := st.Get(store.KeyCategories)
			assert.Equal(t, `["before"]`, string(txs))
			assert.Equal(t, `["cats"]`, string(cats))
		})
	}
}

type failOnKey struct {
	*store.Memory
	key string
}

func (f *failOnKey) Set(key string, value []byte) error {
	if key == f.key {
		return errors.New("quota exceeded")
	}
	return f.Memory.Set(key, value)
}

func TestImportRestoresOnPartialFailure(t *testing.T) {
	st := &failOnKey{Memory: store.NewMemory(), key: store.KeyCategories}
	require.NoError(t, st.Memory.Set(store.KeyTransactions, []byte(`["before"]`)))

	err := Import(strings.NewReader(`{"transactions":[],"categories":[]}`), st)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")

	txs, _, _ := st.Get(store.KeyTransactions)
	assert.Equal(t, `["before"]`, string(txs))

	// Without a previous value the key is removed again.
	fresh := &failOnKey{Memory: store.NewMemory(), key: store.KeyCategories}
	require.Error(t, Import(strings.NewReader(`{"transactions":[],"categories":[]}`), fresh))
	_, ok, err := fresh.Get(store.KeyTransactions)
	require.NoError(t, err)
	assert.False(t, ok)
}
