// Package view projects session state into a displayable representation.
//
// Projection is a pure function over component snapshots; it owns derived
// display concerns like ordinal queue labels, observed-thread ordering,
// and message previews. Actual rendering lives outside this module.
package view

import (
	"fmt"
	"sort"

	"github.com/bohselecta/gummy2/internal/identity"
	"github.com/bohselecta/gummy2/internal/presence"
	"github.com/bohselecta/gummy2/internal/thread"
	"github.com/bohselecta/gummy2/internal/transport"
)

// DisplayMode selects which of the two mutually exclusive views is shown.
type DisplayMode string

const (
	DisplayOwn      DisplayMode = "own"
	DisplayObserved DisplayMode = "observed"
)

const previewLimit = 50

// MessageView is one renderable message.
type MessageView struct {
	Role      thread.Role
	Content   string
	Streaming bool
}

// ThreadSummary is one renderable observed-thread row.
type ThreadSummary struct {
	ThreadID  string
	OwnerName string
	Status    string
	Preview   string
	Typing    bool
}

// View is the full displayable representation of a session.
type View struct {
	Connection   string
	InputEnabled bool
	Nickname     string
	Participants int
	Mode         string
	Display      DisplayMode

	// Queue and Banner are empty when the signal is absent.
	Queue  string
	Banner string

	// Messages is the own thread; TypingNotice names whoever is typing
	// into it.
	Messages     []MessageView
	TypingNotice string

	// Observed summaries, ordered by owner name for stable display.
	Observed []ThreadSummary
}

// Project derives the displayable view from component snapshots.
func Project(ident identity.Snapshot, threads thread.Snapshot, sig presence.Snapshot, mode string, display DisplayMode) View {
	v := View{
		Connection:   connectionLabel(sig.Connection),
		InputEnabled: sig.Connection == transport.StateOpen && ident.Assigned,
		Nickname:     ident.DisplayName,
		Participants: sig.Participants,
		Mode:         mode,
		Display:      display,
	}

	if sig.QueueSet {
		v.Queue = fmt.Sprintf("%s in queue (~%ds)", ordinal(sig.QueuePosition), sig.QueueEta)
	}
	if sig.BannerSet {
		v.Banner = fmt.Sprintf("Generating for %s...", sig.BannerName)
	}

	if threads.Own != nil {
		v.Messages = make([]MessageView, len(threads.Own.Messages))
		for i, m := range threads.Own.Messages {
			v.Messages[i] = MessageView{Role: m.Role, Content: m.Content, Streaming: m.Streaming}
		}
		if nick, ok := sig.TypingByThread[threads.Own.ID]; ok {
			v.TypingNotice = nick + " is typing"
		}
	}

	for _, t := range threads.Observed {
		status := "Idle"
		if t.Generating {
			status = "Generating..."
		}
		_, typing := sig.TypingByThread[t.ID]
		v.Observed = append(v.Observed, ThreadSummary{
			ThreadID:  t.ID,
			OwnerName: t.OwnerName,
			Status:    status,
			Preview:   preview(t.Messages),
			Typing:    typing,
		})
	}
	sort.Slice(v.Observed, func(i, j int) bool {
		a, b := v.Observed[i], v.Observed[j]
		if a.OwnerName != b.OwnerName {
			return a.OwnerName < b.OwnerName
		}
		return a.ThreadID < b.ThreadID
	})

	return v
}

func connectionLabel(s transport.State) string {
	switch s {
	case transport.StateOpen:
		return "Connected"
	case transport.StateConnecting:
		return "Connecting..."
	case transport.StateClosed:
		return "Disconnected"
	default:
		return "Idle"
	}
}

func preview(msgs []thread.Message) string {
	if len(msgs) == 0 {
		return "No messages yet"
	}
	content := []rune(msgs[len(msgs)-1].Content)
	if len(content) > previewLimit {
		content = content[:previewLimit]
	}
	return string(content) + "..."
}

// ordinal renders 1 → 1st, 2 → 2nd, 11 → 11th, and so on.
func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
