// Package session owns the single mutable course list, baseline and theme,
// and persists them after every change.
package session

import (
	"errors"
	"fmt"
	"slices"

	"github.com/panbanda/cgpa/pkg/models"
)

// ErrOutOfRange is returned when a position does not name a course.
var ErrOutOfRange = errors.New("no course at that position")

// State is the session data. The zero value is an empty session.
type State struct {
	Courses  []models.Course `json:"courses"`
	Baseline models.Baseline `json:"baseline"`
	Theme    models.Theme    `json:"theme"`
}

// NewState returns an empty session in the dark theme.
func NewState() *State {
	return &State{
		Courses: []models.Course{},
		Theme:   models.ThemeDark,
	}
}

// Clone returns a deep copy.
func (s *State) Clone() State {
	out := *s
	out.Courses = slices.Clone(s.Courses)
	if out.Courses == nil {
		out.Courses = []models.Course{}
	}
	return out
}

// Append validates c and adds it to the end of the list.
func (s *State) Append(c models.Course) (models.Course, error) {
	c, err := models.ValidateCourse(c)
	if err != nil {
		return models.Course{}, err
	}
	s.Courses = append(s.Courses, c)
	return c, nil
}

// Update validates c and replaces the course at idx (zero-based).
func (s *State) Update(idx int, c models.Course) (models.Course, error) {
	if err := s.checkIndex(idx); err != nil {
		return models.Course{}, err
	}
	c, err := models.ValidateCourse(c)
	if err != nil {
		return models.Course{}, err
	}
	s.Courses[idx] = c
	return c, nil
}

// Remove deletes the course at idx (zero-based) and returns it.
func (s *State) Remove(idx int) (models.Course, error) {
	if err := s.checkIndex(idx); err != nil {
		return models.Course{}, err
	}
	removed := s.Courses[idx]
	s.Courses = slices.Delete(s.Courses, idx, idx+1)
	return removed, nil
}

// ReplaceAll swaps in a new list. Every course must be valid; on error the
// current list is kept.
func (s *State) ReplaceAll(courses []models.Course) error {
	next := make([]models.Course, 0, len(courses))
	for i, c := range courses {
		valid, err := models.ValidateCourse(c)
		if err != nil {
			return fmt.Errorf("course %d: %w", i+1, err)
		}
		next = append(next, valid)
	}
	s.Courses = next
	return nil
}

// SetBaseline validates and stores prior history.
func (s *State) SetBaseline(b models.Baseline) error {
	if err := models.ValidateBaseline(b); err != nil {
		return err
	}
	s.Baseline = b
	return nil
}

// Reset clears the course list and baseline. The theme is a preference and
// survives.
func (s *State) Reset() {
	s.Courses = []models.Course{}
	s.Baseline = models.Baseline{}
}

func (s *State) checkIndex(idx int) error {
	if idx < 0 || idx >= len(s.Courses) {
		return fmt.Errorf("%w: %d (have %d)", ErrOutOfRange, idx+1, len(s.Courses))
	}
	return nil
}
