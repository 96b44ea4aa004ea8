package langforgecache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleEntry() Entry {
	return Entry{
		Scanner: ScannerSnapshot{
			DFAs: []ScannerDFASnapshot{
				{
					Name:       "ID",
					Start:      "0",
					States:     []string{"0", "1"},
					Accepting:  map[string]bool{"1": true},
					Transition: map[string]map[string]string{"0": {"a": "1"}},
				},
			},
		},
		Table: TableSnapshot{
			Start:       "I0",
			Productions: []ProductionSnapshot{{NonTerminal: "S", Body: []string{"a"}}},
			Action: map[string]map[string]ActionSnapshot{
				"I0": {"a": {Kind: 1, ShiftState: "I1"}},
			},
			Goto:     map[string]map[string]string{},
			Warnings: []WarningSnapshot{{State: "I0", Message: "shift/reduce conflict on \"a\" resolved in favor of shift"}},
		},
	}
}

func Test_Entry_EncodeDecodeRoundTrip(t *testing.T) {
	assert := assert.New(t)

	entry := sampleEntry()
	data, err := EncodeEntry(entry)
	assert.NoError(err)

	decoded, err := DecodeEntry(data)
	assert.NoError(err)
	assert.Equal(entry, decoded)
}

func Test_MemStore_GetSetRoundTrip(t *testing.T) {
	assert := assert.New(t)

	store := NewMemStore()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "missing")
	assert.NoError(err)
	assert.False(ok)

	assert.NoError(store.Set(ctx, "k", []byte("hello")))
	data, ok, err := store.Get(ctx, "k")
	assert.NoError(err)
	assert.True(ok)
	assert.Equal([]byte("hello"), data)
}

func Test_SQLiteStore_GetSetRoundTrip(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	store, err := NewSQLiteStore(dir)
	assert.NoError(err)
	defer store.Close()

	ctx := context.Background()

	_, ok, err := store.Get(ctx, "missing")
	assert.NoError(err)
	assert.False(ok)

	assert.NoError(store.Set(ctx, "k", []byte("hello")))
	data, ok, err := store.Get(ctx, "k")
	assert.NoError(err)
	assert.True(ok)
	assert.Equal([]byte("hello"), data)

	assert.NoError(store.Set(ctx, "k", []byte("world")))
	data, ok, err = store.Get(ctx, "k")
	assert.NoError(err)
	assert.True(ok)
	assert.Equal([]byte("world"), data)
}
