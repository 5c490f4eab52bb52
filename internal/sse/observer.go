package sse

import "github.com/starford/notepad/internal/session"

// Observer returns a session observer that forwards mutations to the broker.
func Observer(b *Broker) session.Observer {
	return func(ev session.Event) {
		b.PublishNoteEvent(NoteEvent{
			Kind:     ev.Kind,
			Filename: ev.Note.Filename,
			Title:    ev.Note.Title,
			Position: ev.Position,
		})
	}
}
