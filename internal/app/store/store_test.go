package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func openTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := Open(t.TempDir())
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, st.Close())
	})

	return st
}

func TestOpen_EmptyDir(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)
}

func TestPutGet_Roundtrip(t *testing.T) {
	st := openTestStore(t)

	in := profile{Name: "somchai", Score: 7}
	require.NoError(t, st.Put(RecordSession, in))

	var out profile
	ok, err := st.Get(RecordSession, &out)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, in, out)
}

func TestGet_AbsentRecord(t *testing.T) {
	st := openTestStore(t)

	var out profile
	ok, err := st.Get(RecordLog, &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGet_MalformedRecordTreatedAsAbsent(t *testing.T) {
	st := openTestStore(t)

	// A scalar where a list is expected cannot decode; the caller must see
	// the record as absent rather than an error.
	require.NoError(t, st.Put(RecordDirectory, "not-a-list"))

	var out []profile
	ok, err := st.Get(RecordDirectory, &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDelete_RemovesRecord(t *testing.T) {
	st := openTestStore(t)

	require.NoError(t, st.Put(RecordSession, profile{Name: "a"}))
	require.NoError(t, st.Delete(RecordSession))

	var out profile
	ok, err := st.Get(RecordSession, &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPut_OverwriteIsLastWriterWins(t *testing.T) {
	st := openTestStore(t)

	require.NoError(t, st.Put(RecordSession, profile{Name: "first"}))
	require.NoError(t, st.Put(RecordSession, profile{Name: "second"}))

	var out profile
	ok, err := st.Get(RecordSession, &out)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", out.Name)
}

func TestSubscribe_NotifiesWithRecordKeyOnly(t *testing.T) {
	st := openTestStore(t)

	var seen []Record
	cancel := st.Subscribe(func(rec Record) {
		seen = append(seen, rec)
	})
	defer cancel()

	require.NoError(t, st.Put(RecordLog, []profile{{Name: "a"}}))
	require.NoError(t, st.Delete(RecordLog))

	require.Len(t, seen, 2)
	assert.Equal(t, RecordLog, seen[0])
	assert.Equal(t, RecordLog, seen[1])
}

func TestSubscribe_CancelStopsNotifications(t *testing.T) {
	st := openTestStore(t)

	calls := 0
	cancel := st.Subscribe(func(Record) { calls++ })

	require.NoError(t, st.Put(RecordSession, profile{Name: "a"}))
	cancel()
	require.NoError(t, st.Put(RecordSession, profile{Name: "b"}))

	assert.Equal(t, 1, calls)
}

func TestSubscribe_MultipleSubscribersAllNotified(t *testing.T) {
	st := openTestStore(t)

	first, second := 0, 0
	cancelFirst := st.Subscribe(func(Record) { first++ })
	cancelSecond := st.Subscribe(func(Record) { second++ })
	defer cancelFirst()
	defer cancelSecond()

	require.NoError(t, st.Put(RecordDirectory, []profile{}))

	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}
