package dispatcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/RoriForge/internal/eventbus"
	"github.com/Rorical/RoriForge/internal/update"
)

func TestListenForCoreEvents(t *testing.T) {
	eb := eventbus.NewEventBus()
	defer eb.Close()
	ed := NewEventDispatcher(eb)

	require.NoError(t, eb.SendToUI(eventbus.NoticeEvent{Text: "hello"}))

	msg := ed.ListenForCoreEvents()()
	assert.Equal(t, update.CoreEventMsg{Event: eventbus.NoticeEvent{Text: "hello"}}, msg)
}

func TestListenForCoreEvents_Stopped(t *testing.T) {
	eb := eventbus.NewEventBus()
	defer eb.Close()
	ed := NewEventDispatcher(eb)
	ed.Stop()

	assert.Nil(t, ed.ListenForCoreEvents()())
}
