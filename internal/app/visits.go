package app

import (
	"encoding/json"
	"slices"
	"sync"
	"time"
)

// VisitSubject is the pub/sub subject every demo selection is published on.
const VisitSubject = "demos.visited"

// maxVisits bounds the recent visits shown on the home page.
const maxVisits = 10

// Visit records a browser opening a demo.
type Visit struct {
	Demo  string    `json:"demo"`
	Label string    `json:"label"`
	At    time.Time `json:"at"`
}

// DecodeVisits decodes replayed messages, skipping the malformed ones.
func DecodeVisits(raw [][]byte) []Visit {
	visits := make([]Visit, 0, len(raw))
	for _, data := range raw {
		var v Visit
		if err := json.Unmarshal(data, &v); err != nil || v.Demo == "" {
			continue
		}
		visits = append(visits, v)
	}
	return visits
}

// visitLog keeps the latest visits, oldest first.
type visitLog struct {
	mu     sync.Mutex
	visits []Visit
}

func newVisitLog(seed []Visit) *visitLog {
	l := &visitLog{}
	for _, v := range seed {
		l.add(v)
	}
	return l
}

func (l *visitLog) add(v Visit) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.visits = append(l.visits, v)
	if n := len(l.visits); n > maxVisits {
		l.visits = slices.Clone(l.visits[n-maxVisits:])
	}
}

func (l *visitLog) snapshot() []Visit {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.visits)
}
