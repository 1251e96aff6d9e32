package analyzer

import (
	"context"

	"github.com/panbanda/cgpa/pkg/models"
)

// CourseAnalyzer is the interface that all course-list analyzers implement.
// Implementations are pure: they never read or write storage.
type CourseAnalyzer[T any] interface {
	// Analyze computes a result over the given courses.
	// The context is honored only before work starts; analysis itself does not block.
	Analyze(ctx context.Context, courses []models.Course) (T, error)
}
