package options

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/example/annotate/internal/kvstore"
)

// CommandKey is the store key the toolbar uses to send one-shot requests
// to the canvas.
const CommandKey = "annotateCommand"

// OpClear asks the canvas to remove every shape.
const OpClear = "clear"

// Command is a one-shot request. ID makes repeated requests distinct so
// stores that only report differences still deliver them.
type Command struct {
	Op string `json:"op"`
	ID string `json:"id"`
}

// SendCommand writes op to the store.
func SendCommand(store kvstore.Store, op string) error {
	b, err := json.Marshal(Command{Op: op, ID: uuid.NewString()})
	if err != nil {
		return err
	}
	if err := store.Set(CommandKey, string(b)); err != nil {
		return fmt.Errorf("send %s: %w", op, err)
	}
	return nil
}

// OnCommand calls fn for each command written by another handle.
func OnCommand(store kvstore.Store, fn func(Command)) (cancel func()) {
	return store.Subscribe(func(c kvstore.Change) {
		if c.Key != CommandKey || c.Deleted {
			return
		}
		var cmd Command
		if err := json.Unmarshal([]byte(c.Value), &cmd); err != nil {
			log.Printf("options: discarding command: %v", err)
			return
		}
		fn(cmd)
	})
}
