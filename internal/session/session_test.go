package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/cgpa/internal/output"
	"github.com/panbanda/cgpa/internal/sheet"
	"github.com/panbanda/cgpa/internal/store"
	"github.com/panbanda/cgpa/pkg/models"
)

type recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *recorder) Notify(sev output.Severity, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, string(sev)+": "+fmt.Sprintf(format, args...))
}

func openTest(t *testing.T, dir string, opts ...Option) *Controller {
	t.Helper()
	s, err := store.New(dir)
	require.NoError(t, err)
	c, err := Open(s, opts...)
	require.NoError(t, err)
	return c
}

func TestStateOperations(t *testing.T) {
	s := NewState()

	added, err := s.Append(models.Course{CourseName: " Calculus ", Grade: "a+", CreditHours: 3})
	require.NoError(t, err)
	assert.Equal(t, models.Course{CourseName: "Calculus", Grade: models.GradeAPlus, CreditHours: 3}, added)

	_, err = s.Append(models.Course{CourseName: "Physics", Grade: "B", CreditHours: 4})
	assert.Error(t, err)
	assert.Len(t, s.Courses, 1)

	_, err = s.Append(models.Course{CourseName: "History", Grade: "C", CreditHours: 2})
	require.NoError(t, err)

	updated, err := s.Update(1, models.Course{CourseName: "History", Grade: "b+", CreditHours: 1})
	require.NoError(t, err)
	assert.Equal(t, models.GradeBPlus, updated.Grade)

	_, err = s.Update(5, added)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = s.Update(0, models.Course{CourseName: "", Grade: "A", CreditHours: 1})
	assert.Error(t, err)
	assert.Equal(t, "Calculus", s.Courses[0].CourseName, "failed update must not change the course")

	removed, err := s.Remove(0)
	require.NoError(t, err)
	assert.Equal(t, "Calculus", removed.CourseName)
	require.Len(t, s.Courses, 1)
	assert.Equal(t, "History", s.Courses[0].CourseName)

	_, err = s.Remove(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestStateReplaceAllIsAtomic(t *testing.T) {
	s := NewState()
	_, err := s.Append(models.Course{CourseName: "Keep", Grade: "A", CreditHours: 1})
	require.NoError(t, err)

	err = s.ReplaceAll([]models.Course{
		{CourseName: "New", Grade: "B", CreditHours: 2},
		{CourseName: "Bad", Grade: "Z", CreditHours: 2},
	})
	assert.Error(t, err)
	require.Len(t, s.Courses, 1)
	assert.Equal(t, "Keep", s.Courses[0].CourseName)
}

func TestStateResetKeepsTheme(t *testing.T) {
	s := NewState()
	assert.Equal(t, models.ThemeDark, s.Theme)
	s.Theme = models.ThemeLight
	_, err := s.Append(models.Course{CourseName: "Art", Grade: "A", CreditHours: 1})
	require.NoError(t, err)
	require.NoError(t, s.SetBaseline(models.Baseline{PreviousCGPA: 3.5, PreviousCredits: 30}))

	s.Reset()
	assert.Empty(t, s.Courses)
	assert.NotNil(t, s.Courses)
	assert.True(t, s.Baseline.IsZero())
	assert.Equal(t, models.ThemeLight, s.Theme)
}

func TestStateSetBaselineValidates(t *testing.T) {
	s := NewState()
	assert.Error(t, s.SetBaseline(models.Baseline{PreviousCGPA: 4.5}))
	assert.Error(t, s.SetBaseline(models.Baseline{PreviousCredits: -1}))
	assert.True(t, s.Baseline.IsZero())
}

func TestControllerPersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()
	c := openTest(t, dir)

	_, err := c.AddCourse(models.Course{CourseName: "Calculus", Grade: "B+", CreditHours: 3, Semester: "Fall2023"})
	require.NoError(t, err)
	_, err = c.AddCourse(models.Course{CourseName: "History", Grade: "C", CreditHours: 2})
	require.NoError(t, err)
	require.NoError(t, c.SetBaseline(models.Baseline{PreviousCGPA: 3.5, PreviousCredits: 30}))
	require.NoError(t, c.SetTheme(models.ThemeLight))

	reopened := openTest(t, dir)
	st := reopened.State()
	require.Len(t, st.Courses, 2)
	assert.Equal(t, "Fall2023", st.Courses[0].Semester)
	assert.Equal(t, models.Baseline{PreviousCGPA: 3.5, PreviousCredits: 30}, st.Baseline)
	assert.Equal(t, models.ThemeLight, st.Theme)

	sum, err := reopened.Summary()
	require.NoError(t, err)
	assert.Equal(t, "3.20", sum.CurrentCGPA)
	assert.Equal(t, 5, sum.CourseCredits)
}

func TestControllerUpdateAndDelete(t *testing.T) {
	c := openTest(t, t.TempDir())
	_, err := c.AddCourse(models.Course{CourseName: "Art", Grade: "A", CreditHours: 1})
	require.NoError(t, err)

	_, err = c.UpdateCourse(0, models.Course{CourseName: "Art", Grade: "F", CreditHours: 2})
	require.NoError(t, err)
	assert.Equal(t, models.GradeF, c.State().Courses[0].Grade)

	_, err = c.DeleteCourse(3)
	assert.ErrorIs(t, err, ErrOutOfRange)

	removed, err := c.DeleteCourse(0)
	require.NoError(t, err)
	assert.Equal(t, "Art", removed.CourseName)
	assert.Empty(t, c.State().Courses)
}

func TestControllerStateIsACopy(t *testing.T) {
	c := openTest(t, t.TempDir())
	_, err := c.AddCourse(models.Course{CourseName: "Art", Grade: "A", CreditHours: 1})
	require.NoError(t, err)

	st := c.State()
	st.Courses[0].CourseName = "Changed"
	assert.Equal(t, "Art", c.State().Courses[0].CourseName)
}

func TestControllerClear(t *testing.T) {
	dir := t.TempDir()
	c := openTest(t, dir)
	_, err := c.AddCourse(models.Course{CourseName: "Art", Grade: "A", CreditHours: 1})
	require.NoError(t, err)
	require.NoError(t, c.SetBaseline(models.Baseline{PreviousCGPA: 2.0, PreviousCredits: 12}))

	require.NoError(t, c.Clear())

	st := openTest(t, dir).State()
	assert.Empty(t, st.Courses)
	assert.Equal(t, 0.0, st.Baseline.PreviousCGPA)
	assert.Equal(t, 0, st.Baseline.PreviousCredits)
}

func TestControllerDiscardsCorruptedCourses(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"schema violation", `[{"courseName":"Art","grade":"Q","creditHours":3}]`},
		{"wrong shape", `{"courses":[]}`},
		{"blank name", `[{"courseName":"   ","grade":"A","creditHours":3}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			s, err := store.New(dir)
			require.NoError(t, err)
			_, err = s.Set(store.KeyCourses, []byte(tt.value))
			require.NoError(t, err)

			rec := &recorder{}
			c, err := Open(s, WithNotifier(rec))
			require.NoError(t, err)

			assert.Empty(t, c.State().Courses)
			require.Len(t, rec.messages, 1)
			assert.Contains(t, rec.messages[0], "warning: ")
			_, err = s.Get(store.KeyCourses)
			assert.ErrorIs(t, err, store.ErrNotFound)
		})
	}
}

func TestControllerDiscardsTamperedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "courses.json"), []byte("garbage"), 0600))

	rec := &recorder{}
	c := openTest(t, dir, WithNotifier(rec))
	assert.Empty(t, c.State().Courses)
	assert.Len(t, rec.messages, 1)
}

func TestControllerResetsInvalidBaseline(t *testing.T) {
	dir := t.TempDir()
	s, err := store.New(dir)
	require.NoError(t, err)
	_, err = s.Set(store.KeyPreviousCGPA, []byte(`"abc"`))
	require.NoError(t, err)
	_, err = s.Set(store.KeyPreviousCredits, []byte(`"24"`))
	require.NoError(t, err)

	rec := &recorder{}
	c, err := Open(s, WithNotifier(rec))
	require.NoError(t, err)

	st := c.State()
	assert.Equal(t, 0.0, st.Baseline.PreviousCGPA)
	assert.Equal(t, 24, st.Baseline.PreviousCredits)
	assert.Len(t, rec.messages, 1)
}

func TestImportReplacesStateAndResetsBaseline(t *testing.T) {
	dir := t.TempDir()
	c := openTest(t, dir)
	_, err := c.AddCourse(models.Course{CourseName: "Old", Grade: "A", CreditHours: 1})
	require.NoError(t, err)
	require.NoError(t, c.SetBaseline(models.Baseline{PreviousCGPA: 3.0, PreviousCredits: 10}))

	path := filepath.Join(t.TempDir(), "in.csv")
	content := "Course Name,Grade,Credit Hours\nCalculus,b+,3\nPhysics,B,4\n,,\nHistory,C,2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	result, err := c.Import(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, models.ImportOK, result.Outcome)
	assert.Equal(t, 1, result.SkippedCount())

	st := c.State()
	require.Len(t, st.Courses, 2)
	assert.Equal(t, models.GradeBPlus, st.Courses[0].Grade)
	assert.True(t, st.Baseline.IsZero())
	assert.False(t, c.Busy())

	sum, err := c.Summary()
	require.NoError(t, err)
	assert.Equal(t, "3.20", sum.CombinedCGPA)
}

func TestImportEmptyStillReplaces(t *testing.T) {
	c := openTest(t, t.TempDir())
	_, err := c.AddCourse(models.Course{CourseName: "Old", Grade: "A", CreditHours: 1})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("Course Name,Grade,Credit Hours\nBad,Z,1\n"), 0644))

	result, err := c.Import(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, models.ImportEmpty, result.Outcome)
	assert.Empty(t, c.State().Courses)
}

func TestImportFailureLeavesStateUntouched(t *testing.T) {
	c := openTest(t, t.TempDir())
	_, err := c.AddCourse(models.Course{CourseName: "Keep", Grade: "A", CreditHours: 1})
	require.NoError(t, err)
	require.NoError(t, c.SetBaseline(models.Baseline{PreviousCGPA: 3.0, PreviousCredits: 10}))

	bad := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(bad, []byte("not a workbook"), 0644))

	_, err = c.Import(context.Background(), bad)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Import(ctx, filepath.Join(t.TempDir(), "any.csv"))
	assert.ErrorIs(t, err, context.Canceled)

	st := c.State()
	require.Len(t, st.Courses, 1)
	assert.Equal(t, "Keep", st.Courses[0].CourseName)
	assert.Equal(t, 10, st.Baseline.PreviousCredits)
	assert.False(t, c.Busy())
}

func TestExportImportRoundTrip(t *testing.T) {
	for _, ext := range []string{".xlsx", ".csv"} {
		t.Run(ext, func(t *testing.T) {
			src := openTest(t, t.TempDir(), WithSheetOptions(sheet.Options{Sheet: "Courses", MaxRows: 100}))
			courses := []models.Course{
				{CourseName: "Calculus", Grade: models.GradeAPlus, CreditHours: 3, Semester: "Fall2023"},
				{CourseName: "Calculus", Grade: models.GradeF, CreditHours: 1},
				{CourseName: "History", Grade: models.GradeDPlus, CreditHours: 2, Semester: "Spring2024"},
			}
			for _, course := range courses {
				_, err := src.AddCourse(course)
				require.NoError(t, err)
			}

			path := filepath.Join(t.TempDir(), "out"+ext)
			n, err := src.Export(context.Background(), path)
			require.NoError(t, err)
			assert.Equal(t, 3, n)

			dst := openTest(t, t.TempDir())
			result, err := dst.Import(context.Background(), path)
			require.NoError(t, err)
			assert.Empty(t, result.Skipped)
			assert.Equal(t, courses, dst.State().Courses)
		})
	}
}

// blockingStore holds the first SetJSON until released so an import stays in flight.
type blockingStore struct {
	*store.Store
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (b *blockingStore) SetJSON(key string, v any) (bool, error) {
	b.once.Do(func() {
		close(b.entered)
		<-b.release
	})
	return b.Store.SetJSON(key, v)
}

func TestImportExportAreSerialized(t *testing.T) {
	s, err := store.New(t.TempDir())
	require.NoError(t, err)
	bs := &blockingStore{Store: s, entered: make(chan struct{}), release: make(chan struct{})}

	c, err := Open(bs)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte("Course Name,Grade,Credit Hours\nArt,A,1\n"), 0644))

	done := make(chan error, 1)
	go func() {
		_, err := c.Import(context.Background(), path)
		done <- err
	}()

	<-bs.entered
	assert.True(t, c.Busy())

	_, err = c.Export(context.Background(), filepath.Join(t.TempDir(), "out.csv"))
	assert.ErrorIs(t, err, ErrBusy)
	_, err = c.Import(context.Background(), path)
	assert.ErrorIs(t, err, ErrBusy)

	close(bs.release)
	require.NoError(t, <-done)
	assert.False(t, c.Busy())
	assert.Len(t, c.State().Courses, 1)
}

func TestExportEmptyWritesNothing(t *testing.T) {
	c := openTest(t, t.TempDir())
	for _, ext := range []string{".xlsx", ".csv"} {
		path := filepath.Join(t.TempDir(), "out"+ext)
		n, err := c.Export(context.Background(), path)
		assert.ErrorIs(t, err, ErrNothingToExport)
		assert.Zero(t, n)
		assert.NoFileExists(t, path)
	}
	assert.False(t, c.Busy())
}

// failingStore rejects writes to one key.
type failingStore struct {
	*store.Store
	failKey string
}

func (f *failingStore) SetJSON(key string, v any) (bool, error) {
	if key == f.failKey {
		return false, fmt.Errorf("disk full")
	}
	return f.Store.SetJSON(key, v)
}

func TestSaveFailureKeepsCourses(t *testing.T) {
	for _, key := range []string{store.KeyPreviousCGPA, store.KeyTheme, store.KeyCourses} {
		t.Run(key, func(t *testing.T) {
			dir := t.TempDir()
			seed := openTest(t, dir)
			_, err := seed.AddCourse(models.Course{CourseName: "Keep", Grade: "A", CreditHours: 1})
			require.NoError(t, err)

			s, err := store.New(dir)
			require.NoError(t, err)
			c, err := Open(&failingStore{Store: s, failKey: key})
			require.NoError(t, err)

			_, err = c.AddCourse(models.Course{CourseName: "Lost", Grade: "B", CreditHours: 2})
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)

			require.Len(t, c.State().Courses, 1, "memory keeps the previous list")
			reopened := openTest(t, dir)
			st := reopened.State()
			require.Len(t, st.Courses, 1, "disk keeps the previous list")
			assert.Equal(t, "Keep", st.Courses[0].CourseName)
		})
	}
}
