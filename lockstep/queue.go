package lockstep

import (
	"errors"
	"fmt"

	"github.com/watchroom/watchroom/protocol"
	"github.com/watchroom/watchroom/youtube"
)

// ErrNoSuchEntry is returned when selecting an index outside the cached queue.
var ErrNoSuchEntry = errors.New("no such queue entry")

// AddToQueue asks the relay to append the video behind link. The cached queue is left
// alone until the relay broadcasts the result.
func (c *Controller) AddToQueue(link string) error {
	id, err := youtube.ExtractID(link)
	if err != nil {
		return err
	}

	return c.send(protocol.EventAddToQueue, protocol.AddToQueue{
		Room:       c.room,
		VideoID:    id,
		VideoTitle: youtube.PlaceholderTitle(id),
	})
}

// PlaySpecific asks the relay to switch to the entry at index. Selecting the entry
// that is already playing does nothing.
func (c *Controller) PlaySpecific(index int) error {
	if !c.state.ValidIndex(index) {
		return fmt.Errorf("%w: %d of %d", ErrNoSuchEntry, index, len(c.state.Queue))
	}

	if index == c.state.CurrentIndex {
		return nil
	}

	return c.send(protocol.EventPlaySpecificVideo, protocol.PlaySpecificVideo{Room: c.room, Index: index})
}
