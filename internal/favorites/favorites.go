// Package favorites tracks the user's favorite boards as an ordered
// list. Order is user-controlled: the boards view surfaces favorites
// in exactly this order.
package favorites

import (
	"github.com/chandesk/chandesk/internal/logging"
	"github.com/chandesk/chandesk/internal/persist"
)

// defaultFavorites seeds a first run; an explicitly emptied list stays
// empty across reloads.
var defaultFavorites = []string{"g", "v", "a"}

// List holds the ordered favorite board ids. Not safe for concurrent
// use; all access goes through the single app task.
type List struct {
	path   string
	boards []string
}

type diskFormat struct {
	Favorites []string `json:"favorites"`
}

// NewList loads the favorites from path. A missing or corrupt file
// starts from the default set.
func NewList(path string) *List {
	l := &List{path: path}

	var doc diskFormat
	if persist.Load(path, &doc) {
		l.boards = doc.Favorites
	} else {
		l.boards = append([]string(nil), defaultFavorites...)
	}
	if l.boards == nil {
		l.boards = []string{}
	}
	return l
}

func (l *List) save() {
	if err := persist.Save(l.path, diskFormat{Favorites: l.boards}); err != nil {
		logging.Error("Failed to save favorites", "error", err)
	}
}

// All returns the favorites in display order. Callers must not mutate
// the returned slice.
func (l *List) All() []string {
	return l.boards
}

// Contains reports whether a board is a favorite.
func (l *List) Contains(boardID string) bool {
	for _, b := range l.boards {
		if b == boardID {
			return true
		}
	}
	return false
}

// Add appends a board to the favorites. Idempotent.
func (l *List) Add(boardID string) {
	if l.Contains(boardID) {
		return
	}
	l.boards = append(l.boards, boardID)
	l.save()
}

// Remove drops a board from the favorites. Unknown boards are a no-op.
func (l *List) Remove(boardID string) {
	for i, b := range l.boards {
		if b == boardID {
			l.boards = append(l.boards[:i], l.boards[i+1:]...)
			l.save()
			return
		}
	}
}

// Toggle adds or removes a board, reporting whether it is a favorite
// afterwards.
func (l *List) Toggle(boardID string) bool {
	if l.Contains(boardID) {
		l.Remove(boardID)
		return false
	}
	l.Add(boardID)
	return true
}

// Reorder replaces the list wholesale with the given order.
func (l *List) Reorder(order []string) {
	if order == nil {
		order = []string{}
	}
	l.boards = order
	l.save()
}
