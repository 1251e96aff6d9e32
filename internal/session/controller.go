package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/panbanda/cgpa/internal/output"
	"github.com/panbanda/cgpa/internal/sheet"
	"github.com/panbanda/cgpa/internal/store"
	"github.com/panbanda/cgpa/pkg/analyzer/cgpa"
	"github.com/panbanda/cgpa/pkg/importer"
	"github.com/panbanda/cgpa/pkg/models"
)

var (
	// ErrBusy is returned when an import or export is already running.
	ErrBusy = errors.New("an import or export is already in progress")
	// ErrNothingToExport is returned by Export when the course list is empty.
	// No file is written.
	ErrNothingToExport = errors.New("no courses to export")
)

// Persister is the key/value storage the controller saves into.
type Persister interface {
	Get(key string) ([]byte, error)
	GetJSON(key string, v any) error
	SetJSON(key string, v any) (bool, error)
	Delete(key string) error
}

// Controller owns the session state. It loads once when opened and saves
// after every successful mutation.
type Controller struct {
	store    Persister
	notifier output.Notifier
	log      zerolog.Logger
	sheet    sheet.Options

	mu    sync.Mutex
	state *State

	busy atomic.Bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier routes user-visible warnings (such as discarded data).
func WithNotifier(n output.Notifier) Option {
	return func(c *Controller) {
		c.notifier = n
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// WithSheetOptions sets the spreadsheet sheet name and row limit.
func WithSheetOptions(o sheet.Options) Option {
	return func(c *Controller) {
		c.sheet = o
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(output.Severity, string, ...any) {}

// Open creates a controller and loads the persisted state.
func Open(p Persister, opts ...Option) (*Controller, error) {
	c := &Controller{
		store:    p,
		notifier: nopNotifier{},
		log:      zerolog.Nop(),
		sheet:    sheet.Options{Sheet: "Courses"},
		state:    NewState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.load(); err != nil {
		return nil, err
	}
	return c, nil
}

// State returns a copy of the current session.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Summary computes the CGPA figures for the current session.
func (c *Controller) Summary() (models.CGPAResult, error) {
	st := c.State()
	return cgpa.Compute(st.Courses, st.Baseline)
}

// Busy reports whether an import or export is running.
func (c *Controller) Busy() bool {
	return c.busy.Load()
}

// AddCourse appends a course.
func (c *Controller) AddCourse(course models.Course) (models.Course, error) {
	var added models.Course
	err := c.mutate(func(s *State) error {
		var err error
		added, err = s.Append(course)
		return err
	})
	return added, err
}

// UpdateCourse replaces the course at a zero-based position.
func (c *Controller) UpdateCourse(idx int, course models.Course) (models.Course, error) {
	var updated models.Course
	err := c.mutate(func(s *State) error {
		var err error
		updated, err = s.Update(idx, course)
		return err
	})
	return updated, err
}

// DeleteCourse removes the course at a zero-based position.
func (c *Controller) DeleteCourse(idx int) (models.Course, error) {
	var removed models.Course
	err := c.mutate(func(s *State) error {
		var err error
		removed, err = s.Remove(idx)
		return err
	})
	return removed, err
}

// SetBaseline records prior history.
func (c *Controller) SetBaseline(b models.Baseline) error {
	return c.mutate(func(s *State) error {
		return s.SetBaseline(b)
	})
}

// SetTheme stores the display preference.
func (c *Controller) SetTheme(t models.Theme) error {
	return c.mutate(func(s *State) error {
		s.Theme = t
		return nil
	})
}

// Clear empties the course list and resets the baseline.
func (c *Controller) Clear() error {
	return c.mutate(func(s *State) error {
		s.Reset()
		return nil
	})
}

// Import reads a spreadsheet and replaces the course list with its valid
// rows, resetting the baseline. A file that cannot be read leaves the
// session untouched. An import with no valid rows still replaces the list.
func (c *Controller) Import(ctx context.Context, path string) (*models.ImportResult, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer c.busy.Store(false)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := sheet.Read(ctx, path, c.sheet)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	result := importer.Validate(rows)

	c.log.Debug().
		Str("path", path).
		Int("courses", len(result.Courses)).
		Int("skipped", result.SkippedCount()).
		Msg("import decoded")

	err = c.mutate(func(s *State) error {
		if err := s.ReplaceAll(result.Courses); err != nil {
			return err
		}
		s.Baseline = models.Baseline{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Export writes the course list to a spreadsheet and returns the number of
// courses written.
func (c *Controller) Export(ctx context.Context, path string) (int, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return 0, ErrBusy
	}
	defer c.busy.Store(false)

	courses := c.State().Courses
	if len(courses) == 0 {
		return 0, ErrNothingToExport
	}
	if err := sheet.Write(ctx, path, importer.Rows(courses), c.sheet); err != nil {
		return 0, fmt.Errorf("export %s: %w", path, err)
	}
	c.log.Debug().Str("path", path).Int("courses", len(courses)).Msg("export written")
	return len(courses), nil
}

// mutate applies fn to a copy of the state, saves it, and only then makes
// it current.
func (c *Controller) mutate(fn func(*State) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.state.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	if err := c.save(&next); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	c.state = &next
	return nil
}

// save writes one key at a time. Courses go last: a failure part-way can
// leave a newer baseline or theme on disk, but never a course list the
// in-memory session does not hold.
func (c *Controller) save(s *State) error {
	values := []struct {
		key  string
		data any
	}{
		{store.KeyPreviousCGPA, strconv.FormatFloat(s.Baseline.PreviousCGPA, 'f', -1, 64)},
		{store.KeyPreviousCredits, strconv.Itoa(s.Baseline.PreviousCredits)},
		{store.KeyTheme, string(s.Theme)},
		{store.KeyCourses, s.Courses},
	}
	for _, v := range values {
		written, err := c.store.SetJSON(v.key, v.data)
		if err != nil {
			return fmt.Errorf("%s: %w", v.key, err)
		}
		if written {
			c.log.Debug().Str("key", v.key).Msg("saved")
		}
	}
	return nil
}

func (c *Controller) load() error {
	st := NewState()

	courses, err := c.loadCourses()
	if err != nil {
		return err
	}
	st.Courses = courses

	if text, ok := c.loadText(store.KeyPreviousCGPA); ok {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil || models.ValidateBaseline(models.Baseline{PreviousCGPA: v}) != nil {
			c.warn("Saved previous CGPA %q is invalid and was reset to 0.", text)
		} else {
			st.Baseline.PreviousCGPA = v
		}
	}
	if text, ok := c.loadText(store.KeyPreviousCredits); ok {
		v, err := strconv.Atoi(text)
		if err != nil || v < 0 {
			c.warn("Saved previous credits %q are invalid and were reset to 0.", text)
		} else {
			st.Baseline.PreviousCredits = v
		}
	}
	if text, ok := c.loadText(store.KeyTheme); ok {
		st.Theme = models.ParseTheme(text)
	}

	c.state = st
	return nil
}

// loadCourses returns the stored list. Data that fails any check is
// discarded wholesale, never partially trusted.
func (c *Controller) loadCourses() ([]models.Course, error) {
	data, err := c.store.Get(store.KeyCourses)
	if errors.Is(err, store.ErrNotFound) {
		return []models.Course{}, nil
	}
	if err == nil {
		err = store.ValidateCourses(data)
	}

	var courses []models.Course
	if err == nil {
		err = json.Unmarshal(data, &courses)
	}
	if err == nil {
		for i := range courses {
			if courses[i], err = models.ValidateCourse(courses[i]); err != nil {
				break
			}
		}
	}
	if err == nil {
		if courses == nil {
			courses = []models.Course{}
		}
		return courses, nil
	}

	c.log.Warn().Err(err).Str("key", store.KeyCourses).Msg("discarding stored courses")
	c.warn("Saved courses were corrupted and have been cleared.")
	if err := c.store.Delete(store.KeyCourses); err != nil {
		return nil, fmt.Errorf("discard corrupted courses: %w", err)
	}
	return []models.Course{}, nil
}

// loadText reads a JSON string value. Missing keys report false silently.
func (c *Controller) loadText(key string) (string, bool) {
	var text string
	err := c.store.GetJSON(key, &text)
	if errors.Is(err, store.ErrNotFound) {
		return "", false
	}
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("ignoring stored value")
		c.warn("Saved %s could not be read and was reset.", key)
		return "", false
	}
	return text, true
}

func (c *Controller) warn(format string, args ...any) {
	c.notifier.Notify(output.SeverityWarning, format, args...)
}
