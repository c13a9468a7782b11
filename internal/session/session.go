// Package session keeps the interactive state of one user: the active image
// and the slider parameters. Every change to either recomputes all
// artifacts and notifies subscribers with the new Report.
package session

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/image-adjust-mcp/internal/adjust"
	"github.com/ironsheep/image-adjust-mcp/internal/imaging"
)

// ErrNoImage is returned when parameters change before any image is set.
var ErrNoImage = errors.New("no active image")

// Listener receives each new Report. Reports are never modified after they
// are delivered.
type Listener func(*Report)

// Session is safe for concurrent use. Listeners are called synchronously,
// outside the session lock, in subscription order.
type Session struct {
	proc *adjust.Processor
	log  logrus.FieldLogger

	mu        sync.Mutex
	source    string
	image     *imaging.Buffer
	params    Params
	last      *Report
	nextID    int
	listeners []subscription
}

type subscription struct {
	id int
	fn Listener
}

// New returns a session with default parameters and no image.
func New(proc *adjust.Processor, log logrus.FieldLogger) *Session {
	return &Session{
		proc:   proc,
		log:    log,
		params: DefaultParams(),
	}
}

// Subscribe registers fn for future reports and returns a function that
// removes it.
func (s *Session) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// SetImage makes img the active image and re-renders it with the current
// parameters. source labels the image in logs and results.
func (s *Session) SetImage(source string, img *imaging.Buffer) (*Report, error) {
	if err := imaging.Validate("SetImage", img, imaging.SpaceBGR); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.source = source
	s.image = img.Clone()
	r, listeners := s.renderLocked()
	s.mu.Unlock()

	notify(listeners, r)
	return r, nil
}

// SetParams validates and stores p and re-renders the active image. The
// parameters are kept even when no image is set yet, in which case
// ErrNoImage is returned.
func (s *Session) SetParams(p Params) (*Report, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.params = p
	if s.image == nil {
		s.mu.Unlock()
		return nil, ErrNoImage
	}
	r, listeners := s.renderLocked()
	s.mu.Unlock()

	notify(listeners, r)
	return r, nil
}

// Params returns the current parameters.
func (s *Session) Params() Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// Source returns the label of the active image, or "" if none is set.
func (s *Session) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Image returns the label and buffer of the active image. The buffer is nil
// if no image has been set. Callers must not modify it.
func (s *Session) Image() (string, *imaging.Buffer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source, s.image
}

// Last returns the most recent report, or nil.
func (s *Session) Last() *Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Session) renderLocked() (*Report, []Listener) {
	r := Render(s.proc, s.image, s.params)
	s.last = r

	entry := s.log.WithFields(logrus.Fields{
		"source":     s.source,
		"brightness": s.params.Brightness,
		"contrast":   s.params.Contrast,
		"elapsed":    r.Elapsed,
	})
	for name, err := range r.Errors {
		entry.WithField("artifact", name).WithError(err).Warn("artifact failed")
	}
	entry.Debug("session rendered")

	listeners := make([]Listener, len(s.listeners))
	for i, sub := range s.listeners {
		listeners[i] = sub.fn
	}
	return r, listeners
}

func notify(listeners []Listener, r *Report) {
	for _, fn := range listeners {
		fn(r)
	}
}
