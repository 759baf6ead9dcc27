package via

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type visited struct {
	Demo  string    `json:"demo"`
	Label string    `json:"label"`
	At    time.Time `json:"at"`
}

func TestTypedPubSub_Visit(t *testing.T) {
	v := busApp(newVisitBus())
	home := pageCtx("home", v)

	var got []visited
	_, err := Subscribe(home, "demos.visited", func(m visited) { got = append(got, m) })
	require.NoError(t, err)

	at := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	demosPage := pageCtx("demos", v)
	require.NoError(t, Publish(demosPage, "demos.visited", visited{"control_flow", "demo control flow", at}))

	require.Len(t, got, 1)
	assert.Equal(t, "control_flow", got[0].Demo)
	assert.True(t, at.Equal(got[0].At))
}

func TestTypedPubSub_DropsMalformedMessages(t *testing.T) {
	v := busApp(newVisitBus())
	home := pageCtx("home", v)

	var got []visited
	_, err := Subscribe(home, "demos.visited", func(m visited) { got = append(got, m) })
	require.NoError(t, err)

	require.NoError(t, home.Publish("demos.visited", []byte("not json")))
	require.NoError(t, home.Publish("demos.visited", []byte(`{"demo":"demo_async"}`)))

	require.Len(t, got, 1)
	assert.Equal(t, "demo_async", got[0].Demo)
}

func TestTypedPublish_EncodeError(t *testing.T) {
	home := pageCtx("home", busApp(newVisitBus()))
	err := Publish(home, "demos.visited", map[string]any{"demo": make(chan int)})
	assert.ErrorContains(t, err, "encode")
}
